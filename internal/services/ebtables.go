package services

import (
	"netparental/internal/models"
)

// Ebtables wraps the router's ebtables time restriction chain
type Ebtables struct {
	shell *Shell
	chain string
}

// NewEbtables creates an Ebtables for chain, e.g. "TIME_RESTRICT"
func NewEbtables(shell *Shell, chain string) *Ebtables {
	return &Ebtables{
		shell: shell,
		chain: chain,
	}
}

// AppendCommand builds the DROP rule that blocks rule's device during its window
func (e *Ebtables) AppendCommand(rule models.Rule) (Command, error) {
	return e.ruleCommand("-A", rule)
}

// DeleteCommand rebuilds the exact DROP rule AppendCommand produced, with -D
func (e *Ebtables) DeleteCommand(rule models.Rule) (Command, error) {
	return e.ruleCommand("-D", rule)
}

// ListCommand builds "ebtables -L <chain>"
func (e *Ebtables) ListCommand() (Command, error) {
	if err := checkChain(e.chain); err != nil {
		return Command{}, err
	}
	return newCommand("ebtables", "-L", e.chain), nil
}

func (e *Ebtables) ruleCommand(action string, rule models.Rule) (Command, error) {
	if err := checkChain(e.chain); err != nil {
		return Command{}, err
	}
	if err := checkMAC(rule.MACAddress); err != nil {
		return Command{}, err
	}
	if err := checkTime(rule.TimeFrom); err != nil {
		return Command{}, err
	}
	if err := checkTime(rule.TimeTo); err != nil {
		return Command{}, err
	}
	if err := checkDays(rule.Weekdays); err != nil {
		return Command{}, err
	}

	return newCommand(
		"ebtables", "-t", "filter", action, e.chain,
		"-s", rule.MACAddress,
		"--timeblock", rule.TimeRange(),
		"--weekdays", rule.Days(),
		"-j", "DROP",
	), nil
}

// Send runs a prebuilt ebtables command, tolerating a non-zero exit
func (e *Ebtables) Send(cmd Command) error {
	_, err := e.shell.Try(cmd)
	return err
}

// Delete removes the DROP rule. A non-zero exit is tolerated since the
// entry may already be gone.
func (e *Ebtables) Delete(rule models.Rule) error {
	cmd, err := e.DeleteCommand(rule)
	if err != nil {
		return err
	}
	_, err = e.shell.Try(cmd)
	return err
}

// List returns the chain listing
func (e *Ebtables) List() ([]string, error) {
	cmd, err := e.ListCommand()
	if err != nil {
		return nil, err
	}
	res, err := e.shell.Run(cmd)
	if err != nil {
		return nil, err
	}
	return res.Lines, nil
}
