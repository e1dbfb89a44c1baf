package services

import (
	"strconv"
	"strings"

	"netparental/internal/models"
)

// CfgCmd wraps the router's cfgcmd configuration tree tool
type CfgCmd struct {
	shell *Shell
	root  string
}

// NewCfgCmd creates a CfgCmd rooted at the time restriction node,
// e.g. "InternetGatewayDevice.TimeRestriction"
func NewCfgCmd(shell *Shell, root string) *CfgCmd {
	return &CfgCmd{
		shell: shell,
		root:  root,
	}
}

// RulesPath returns "<root>.RestRules"
func (c *CfgCmd) RulesPath() string {
	return c.root + ".RestRules"
}

// RulePath returns "<root>.RestRules.<index>"
func (c *CfgCmd) RulePath(index int) string {
	return c.RulesPath() + "." + strconv.Itoa(index)
}

// EnablePath returns "<root>.Enable"
func (c *CfgCmd) EnablePath() string {
	return c.root + ".Enable"
}

// GetIdxesCommand builds "cfgcmd get_idxes <root>.RestRules"
func (c *CfgCmd) GetIdxesCommand() (Command, error) {
	path := c.RulesPath()
	if err := checkTreePath(path); err != nil {
		return Command{}, err
	}
	return newCommand("cfgcmd", "get_idxes", path), nil
}

// GetCommand builds "cfgcmd get <path>"
func (c *CfgCmd) GetCommand(path string) (Command, error) {
	if err := checkTreePath(path); err != nil {
		return Command{}, err
	}
	return newCommand("cfgcmd", "get", path), nil
}

// AddObjCommand builds "cfgcmd add_obj <root>.RestRules.<index>"
func (c *CfgCmd) AddObjCommand(index int) (Command, error) {
	if err := checkIndex(index); err != nil {
		return Command{}, err
	}
	path := c.RulePath(index)
	if err := checkTreePath(path); err != nil {
		return Command{}, err
	}
	return newCommand("cfgcmd", "add_obj", path), nil
}

// DelObjCommand builds "cfgcmd del_obj <root>.RestRules.<index>"
func (c *CfgCmd) DelObjCommand(index int) (Command, error) {
	if err := checkIndex(index); err != nil {
		return Command{}, err
	}
	path := c.RulePath(index)
	if err := checkTreePath(path); err != nil {
		return Command{}, err
	}
	return newCommand("cfgcmd", "del_obj", path), nil
}

// SetCommand builds "cfgcmd set <path> <value>"
func (c *CfgCmd) SetCommand(path, value string) (Command, error) {
	if err := checkTreePath(path); err != nil {
		return Command{}, err
	}
	if err := checkWord("value", value); err != nil {
		return Command{}, err
	}
	return newCommand("cfgcmd", "set", path, value), nil
}

// Run sends a prebuilt cfgcmd command. Any non-zero exit is an error.
func (c *CfgCmd) Run(cmd Command) error {
	_, err := c.shell.Run(cmd)
	return err
}

// Indexes returns the raw get_idxes output
func (c *CfgCmd) Indexes() ([]string, error) {
	cmd, err := c.GetIdxesCommand()
	if err != nil {
		return nil, err
	}
	res, err := c.shell.Run(cmd)
	if err != nil {
		return nil, err
	}
	return res.Lines, nil
}

// Get returns the dotted-path dump of a node
func (c *CfgCmd) Get(path string) ([]string, error) {
	cmd, err := c.GetCommand(path)
	if err != nil {
		return nil, err
	}
	res, err := c.shell.Run(cmd)
	if err != nil {
		return nil, err
	}
	return res.Lines, nil
}

// SetEnable writes the global enable flag
func (c *CfgCmd) SetEnable(enabled bool) error {
	value := "0"
	if enabled {
		value = "1"
	}
	cmd, err := c.SetCommand(c.EnablePath(), value)
	if err != nil {
		return err
	}
	_, err = c.shell.Run(cmd)
	return err
}

// GetEnable reads the global enable flag.
// It returns the raw output alongside the parsed value.
func (c *CfgCmd) GetEnable() (bool, string, error) {
	lines, err := c.Get(c.EnablePath())
	if err != nil {
		return false, "", err
	}
	raw := strings.Join(lines, "\n")

	value := strings.TrimSpace(raw)
	for _, line := range lines {
		if i := strings.LastIndex(line, "="); i >= 0 {
			value = strings.TrimSpace(line[i+1:])
			break
		}
	}
	return value == "1", raw, nil
}

// FieldCommands builds the six "cfgcmd set" commands that populate
// RestRules.<index>, in the order the router expects them.
func (c *CfgCmd) FieldCommands(rule models.Rule) ([]Command, error) {
	if err := checkIndex(rule.Index); err != nil {
		return nil, err
	}
	if err := checkWord("username", rule.Username); err != nil {
		return nil, err
	}
	if err := checkMAC(rule.MACAddress); err != nil {
		return nil, err
	}
	if err := checkDays(rule.Weekdays); err != nil {
		return nil, err
	}
	if err := checkTime(rule.TimeFrom); err != nil {
		return nil, err
	}
	if err := checkTime(rule.TimeTo); err != nil {
		return nil, err
	}

	allowed := "0"
	if rule.InternetAllowed {
		allowed = "1"
	}
	values := []struct{ field, value string }{
		{"InternetAllowed", allowed},
		{"Username", rule.Username},
		{"MACAddr", rule.MACAddress},
		{"WeekDays", rule.Days()},
		{"TimeFrom", rule.TimeFrom},
		{"TimeTo", rule.TimeTo},
	}

	base := c.RulePath(rule.Index)
	cmds := make([]Command, 0, len(values))
	for _, v := range values {
		cmd, err := c.SetCommand(base+"."+v.field, v.value)
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, cmd)
	}
	return cmds, nil
}
