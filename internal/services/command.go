package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"netparental/internal/models"
)

var (
	// Configuration tree path: dotted alphanumeric segments
	treePathRegex = regexp.MustCompile(`^[A-Za-z0-9_]+(\.[A-Za-z0-9_]+)*$`)

	// ebtables chain name
	chainRegex = regexp.MustCompile(`^[A-Za-z0-9_-]{1,32}$`)

	// Absolute file path on the router
	filePathRegex = regexp.MustCompile(`^/[A-Za-z0-9_./-]+$`)
)

// InvalidTokenError is returned when a value would be unsafe or malformed
// inside a remote command.
type InvalidTokenError struct {
	Kind  string
	Value string
}

func (e *InvalidTokenError) Error() string {
	return fmt.Sprintf("invalid %s %q in command", e.Kind, e.Value)
}

// Command is a remote shell command assembled from validated tokens
type Command struct {
	args []string
}

// String renders the command line sent to the router
func (c Command) String() string {
	return strings.Join(c.args, " ")
}

// Args returns a copy of the command tokens
func (c Command) Args() []string {
	return append([]string(nil), c.args...)
}

// IsZero reports whether the command is empty
func (c Command) IsZero() bool {
	return len(c.args) == 0
}

func newCommand(args ...string) Command {
	return Command{args: args}
}

func checkTreePath(path string) error {
	if !treePathRegex.MatchString(path) {
		return &InvalidTokenError{Kind: "tree path", Value: path}
	}
	return nil
}

func checkChain(chain string) error {
	if !chainRegex.MatchString(chain) {
		return &InvalidTokenError{Kind: "chain", Value: chain}
	}
	return nil
}

func checkFilePath(path string) error {
	if !filePathRegex.MatchString(path) || strings.Contains(path, "..") {
		return &InvalidTokenError{Kind: "file path", Value: path}
	}
	return nil
}

func checkIndex(index int) error {
	if index < 1 {
		return &InvalidTokenError{Kind: "index", Value: strconv.Itoa(index)}
	}
	return nil
}

func checkMAC(mac string) error {
	if !models.ValidMAC(mac) {
		return &InvalidTokenError{Kind: "MAC address", Value: mac}
	}
	return nil
}

func checkTime(t string) error {
	if !models.ValidTime(t) {
		return &InvalidTokenError{Kind: "time", Value: t}
	}
	return nil
}

func checkDays(days []models.Weekday) error {
	if len(days) == 0 {
		return &InvalidTokenError{Kind: "weekdays", Value: ""}
	}
	for _, d := range days {
		if !d.Valid() {
			return &InvalidTokenError{Kind: "weekday", Value: string(d)}
		}
	}
	return nil
}

func checkWord(kind, value string) error {
	if !models.ValidUsername(value) {
		return &InvalidTokenError{Kind: kind, Value: value}
	}
	return nil
}
