package models

import (
	"fmt"
	"regexp"
	"strings"
)

// Weekday is a three-letter day code as the router's filter syntax expects it
type Weekday string

const (
	Monday    Weekday = "Mon"
	Tuesday   Weekday = "Tue"
	Wednesday Weekday = "Wed"
	Thursday  Weekday = "Thu"
	Friday    Weekday = "Fri"
	Saturday  Weekday = "Sat"
	Sunday    Weekday = "Sun"
)

// AllWeekdays lists the valid codes in calendar order
var AllWeekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var (
	macRegex  = regexp.MustCompile(`^([0-9A-Fa-f]{2}:){5}[0-9A-Fa-f]{2}$`)
	timeRegex = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)
)

// Valid reports whether d is one of the seven day codes
func (d Weekday) Valid() bool {
	for _, w := range AllWeekdays {
		if d == w {
			return true
		}
	}
	return false
}

// Rule is one time restriction entry on the router.
// A rule lives in two places at once: a DROP entry in the packet filter and a
// RestRules.<Index> object in the configuration tree. Nothing on the router
// links the two, so callers must add and remove both.
type Rule struct {
	Index           int       `json:"index" yaml:"index"`
	Username        string    `json:"username" yaml:"username"`
	MACAddress      string    `json:"mac_address" yaml:"mac_address"`
	InternetAllowed bool      `json:"internet_allowed" yaml:"internet_allowed"`
	Weekdays        []Weekday `json:"weekdays" yaml:"weekdays"`
	TimeFrom        string    `json:"time_from" yaml:"time_from"` // "HH:MM"
	TimeTo          string    `json:"time_to" yaml:"time_to"`     // "HH:MM"
}

// Days returns the weekdays joined the way the router stores them: "Mon,Tue"
func (r Rule) Days() string {
	parts := make([]string, len(r.Weekdays))
	for i, d := range r.Weekdays {
		parts[i] = string(d)
	}
	return strings.Join(parts, ",")
}

// TimeRange returns "HH:MM-HH:MM"
func (r Rule) TimeRange() string {
	return r.TimeFrom + "-" + r.TimeTo
}

// WithIndex returns a copy of the rule placed at index
func (r Rule) WithIndex(index int) Rule {
	r.Weekdays = append([]Weekday(nil), r.Weekdays...)
	r.Index = index
	return r
}

// HasDay checks if the rule applies on d
func (r Rule) HasDay(d Weekday) bool {
	for _, w := range r.Weekdays {
		if w == d {
			return true
		}
	}
	return false
}

// Validate checks that a rule can be installed on the router
func (r Rule) Validate() error {
	if r.Index < 1 {
		return fmt.Errorf("rule index must be positive, got %d", r.Index)
	}
	if !ValidUsername(r.Username) {
		return fmt.Errorf("rule %d: invalid username %q", r.Index, r.Username)
	}
	if !ValidMAC(r.MACAddress) {
		return fmt.Errorf("rule %d: invalid MAC address %q", r.Index, r.MACAddress)
	}
	if len(r.Weekdays) == 0 {
		return fmt.Errorf("rule %d: at least one weekday is required", r.Index)
	}
	for _, d := range r.Weekdays {
		if !d.Valid() {
			return fmt.Errorf("rule %d: invalid weekday %q", r.Index, d)
		}
	}
	if !ValidTime(r.TimeFrom) {
		return fmt.Errorf("rule %d: invalid start time %q", r.Index, r.TimeFrom)
	}
	if !ValidTime(r.TimeTo) {
		return fmt.Errorf("rule %d: invalid end time %q", r.Index, r.TimeTo)
	}
	return nil
}

// ValidMAC checks for a colon separated hardware address
func ValidMAC(mac string) bool {
	return macRegex.MatchString(mac)
}

// ValidTime checks for a 24-hour "HH:MM" wall clock time
func ValidTime(t string) bool {
	return timeRegex.MatchString(t)
}

// unsafeChars may not appear in values that end up in a remote shell command
const unsafeChars = " \t\r\n;|&$`()<>\\\"'*?!{}[]#~"

// ValidUsername checks that a username is non-empty and safe to pass as a
// single shell word
func ValidUsername(name string) bool {
	return name != "" && !strings.ContainsAny(name, unsafeChars)
}
