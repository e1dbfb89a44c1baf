package services

import (
	"fmt"
	"log/slog"
	"strings"
)

// Result is the outcome of one remote command
type Result struct {
	Lines      []string
	ExitStatus int
}

// Output returns the stdout lines joined back together
func (r *Result) Output() string {
	return strings.Join(r.Lines, "\n")
}

// Executor runs a single command on the router.
// A non-zero exit status is reported in Result, not as an error; the error
// is reserved for transport failures.
type Executor interface {
	Execute(command string) (*Result, error)
}

// RemoteCommandError is returned when a required command exits non-zero
type RemoteCommandError struct {
	Command    string
	ExitStatus int
}

func (e *RemoteCommandError) Error() string {
	return fmt.Sprintf("remote command %q exited with status %d", e.Command, e.ExitStatus)
}

// Shell sends commands through an Executor and applies the failure policy.
// It is the one handle to the router shared by every component.
type Shell struct {
	exec Executor
	log  *slog.Logger
}

// NewShell creates a Shell
func NewShell(exec Executor, log *slog.Logger) *Shell {
	return &Shell{
		exec: exec,
		log:  log,
	}
}

// Logger returns the logger commands are traced to
func (s *Shell) Logger() *slog.Logger {
	return s.log
}

// Run executes cmd and fails on a non-zero exit status
func (s *Shell) Run(cmd Command) (*Result, error) {
	res, err := s.execute(cmd)
	if err != nil {
		return nil, err
	}
	if res.ExitStatus != 0 {
		return res, &RemoteCommandError{Command: cmd.String(), ExitStatus: res.ExitStatus}
	}
	return res, nil
}

// Try executes cmd and tolerates a non-zero exit status.
// Transport errors are still returned.
func (s *Shell) Try(cmd Command) (*Result, error) {
	res, err := s.execute(cmd)
	if err != nil {
		return nil, err
	}
	if res.ExitStatus != 0 {
		s.log.Warn("Tolerated command failure", "command", cmd.String(), "exit_status", res.ExitStatus)
	}
	return res, nil
}

func (s *Shell) execute(cmd Command) (*Result, error) {
	if cmd.IsZero() {
		return nil, fmt.Errorf("empty command")
	}

	s.log.Debug("Sending command", "command", cmd.String())
	res, err := s.exec.Execute(cmd.String())
	if err != nil {
		return nil, fmt.Errorf("execute %q: %w", cmd.String(), err)
	}
	s.log.Debug("Command finished", "command", cmd.String(), "exit_status", res.ExitStatus, "lines", len(res.Lines))
	return res, nil
}
