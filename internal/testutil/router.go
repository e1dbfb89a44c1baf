// Package testutil provides an in-memory router that speaks the cfgcmd,
// ebtables and sed subset used by netparental.
package testutil

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"netparental/internal/services"
)

// DefaultRoot is the router's time restriction node
const DefaultRoot = "InternetGatewayDevice.TimeRestriction"

var fieldOrder = []string{"InternetAllowed", "Username", "MACAddr", "WeekDays", "TimeFrom", "TimeTo"}

// FakeRouter implements services.Executor.
// Every command is recorded in Commands.
type FakeRouter struct {
	Root     string
	Objects  map[int]map[string]string
	Filters  []string // ebtables rule specs, without the -A/-D action
	Enable   string
	Commands []string

	// FailOn makes any command starting with the key exit with the value
	FailOn map[string]int
	// BrokenTransport makes any command starting with the key return an error
	BrokenTransport map[string]error
}

// NewFakeRouter creates an empty router
func NewFakeRouter() *FakeRouter {
	return &FakeRouter{
		Root:            DefaultRoot,
		Objects:         make(map[int]map[string]string),
		Enable:          "0",
		FailOn:          make(map[string]int),
		BrokenTransport: make(map[string]error),
	}
}

// AddObject seeds a rule object
func (r *FakeRouter) AddObject(index int, fields map[string]string) {
	obj := make(map[string]string, len(fields))
	for k, v := range fields {
		obj[k] = v
	}
	r.Objects[index] = obj
}

// Indexes returns the live object indexes in ascending order
func (r *FakeRouter) Indexes() []int {
	idx := make([]int, 0, len(r.Objects))
	for i := range r.Objects {
		idx = append(idx, i)
	}
	sort.Ints(idx)
	return idx
}

// Reset clears the command log
func (r *FakeRouter) Reset() {
	r.Commands = nil
}

// Execute implements services.Executor
func (r *FakeRouter) Execute(command string) (*services.Result, error) {
	r.Commands = append(r.Commands, command)

	for prefix, err := range r.BrokenTransport {
		if strings.HasPrefix(command, prefix) {
			return nil, err
		}
	}
	for prefix, status := range r.FailOn {
		if strings.HasPrefix(command, prefix) {
			return &services.Result{ExitStatus: status}, nil
		}
	}

	args := strings.Fields(command)
	if len(args) == 0 {
		return exit(127), nil
	}

	switch args[0] {
	case "cfgcmd":
		return r.cfgcmd(args[1:]), nil
	case "ebtables":
		return r.ebtables(args[1:]), nil
	case "sed":
		return ok(), nil
	}
	return exit(127), nil
}

func (r *FakeRouter) cfgcmd(args []string) *services.Result {
	if len(args) < 2 {
		return exit(1)
	}
	op, path := args[0], args[1]
	rules := r.Root + ".RestRules"

	switch op {
	case "get_idxes":
		if path != rules {
			return exit(1)
		}
		parts := make([]string, 0, len(r.Objects))
		for _, i := range r.Indexes() {
			parts = append(parts, strconv.Itoa(i))
		}
		return ok(strings.Join(parts, " "))

	case "get":
		if path == r.Root+".Enable" {
			return ok(path + "=" + r.Enable)
		}
		index, okIdx := r.index(path)
		if !okIdx {
			return exit(1)
		}
		obj, exists := r.Objects[index]
		if !exists {
			return exit(1)
		}
		var lines []string
		for _, f := range fieldOrder {
			if v, set := obj[f]; set {
				lines = append(lines, fmt.Sprintf("%s.%s=%s", path, f, v))
			}
		}
		return ok(lines...)

	case "add_obj":
		index, okIdx := r.index(path)
		if !okIdx {
			return exit(1)
		}
		if _, exists := r.Objects[index]; exists {
			return exit(1)
		}
		r.Objects[index] = make(map[string]string)
		return ok()

	case "del_obj":
		index, okIdx := r.index(path)
		if !okIdx {
			return exit(1)
		}
		if _, exists := r.Objects[index]; !exists {
			return exit(1)
		}
		delete(r.Objects, index)
		return ok()

	case "set":
		if len(args) != 3 {
			return exit(1)
		}
		value := args[2]
		if path == r.Root+".Enable" {
			r.Enable = value
			return ok()
		}
		dot := strings.LastIndex(path, ".")
		if dot < 0 {
			return exit(1)
		}
		index, okIdx := r.index(path[:dot])
		if !okIdx {
			return exit(1)
		}
		obj, exists := r.Objects[index]
		if !exists {
			return exit(1)
		}
		obj[path[dot+1:]] = value
		return ok()
	}
	return exit(1)
}

func (r *FakeRouter) ebtables(args []string) *services.Result {
	if len(args) >= 2 && args[0] == "-L" {
		lines := []string{"Bridge chain: " + args[1]}
		lines = append(lines, r.Filters...)
		return ok(lines...)
	}
	// -t filter -A|-D CHAIN spec...
	if len(args) < 4 {
		return exit(1)
	}
	action := args[2]
	spec := strings.Join(args[4:], " ")
	switch action {
	case "-A":
		r.Filters = append(r.Filters, spec)
		return ok()
	case "-D":
		for i, f := range r.Filters {
			if f == spec {
				r.Filters = append(r.Filters[:i], r.Filters[i+1:]...)
				return ok()
			}
		}
		return exit(1)
	}
	return exit(1)
}

// index parses "<root>.RestRules.<n>"
func (r *FakeRouter) index(path string) (int, bool) {
	prefix := r.Root + ".RestRules."
	if !strings.HasPrefix(path, prefix) {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimPrefix(path, prefix))
	if err != nil {
		return 0, false
	}
	return n, true
}

func ok(lines ...string) *services.Result {
	return &services.Result{Lines: lines}
}

func exit(status int) *services.Result {
	return &services.Result{ExitStatus: status}
}
