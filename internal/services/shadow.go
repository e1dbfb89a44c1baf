package services

import (
	"fmt"
)

// ShadowFile is the router's own per-rule record, one line per rule
// starting with its index (default /tmp/.timerestrict.rule)
type ShadowFile struct {
	shell *Shell
	path  string
}

// NewShadowFile creates a ShadowFile
func NewShadowFile(shell *Shell, path string) *ShadowFile {
	return &ShadowFile{
		shell: shell,
		path:  path,
	}
}

// DeleteCommand builds the sed call that drops every line beginning with
// index followed by a word boundary
func (f *ShadowFile) DeleteCommand(index int) (Command, error) {
	if err := checkIndex(index); err != nil {
		return Command{}, err
	}
	if err := checkFilePath(f.path); err != nil {
		return Command{}, err
	}
	return newCommand("sed", "-i", fmt.Sprintf(`'/^%d\>/d'`, index), f.path), nil
}

// Delete removes the lines for index. Failures are tolerated since the file
// may not exist or may not mention the rule.
func (f *ShadowFile) Delete(index int) error {
	cmd, err := f.DeleteCommand(index)
	if err != nil {
		return err
	}
	_, err = f.shell.Try(cmd)
	return err
}
