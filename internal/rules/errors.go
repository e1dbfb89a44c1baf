package rules

import "fmt"

// MalformedLineError is returned when a dump line does not have the
// expected number of dot-separated segments.
type MalformedLineError struct {
	Line     string
	Expected int
	Actual   int
}

func (e *MalformedLineError) Error() string {
	return fmt.Sprintf("malformed line %q: expected %d segments, got %d", e.Line, e.Expected, e.Actual)
}

// MissingAssignmentError is returned when the field segment has no '='
type MissingAssignmentError struct {
	Line string
}

func (e *MissingAssignmentError) Error() string {
	return fmt.Sprintf("missing '=' in line %q", e.Line)
}

// InvalidIndexError is returned for a get_idxes token that is not a positive integer
type InvalidIndexError struct {
	Token string
}

func (e *InvalidIndexError) Error() string {
	return fmt.Sprintf("invalid rule index %q", e.Token)
}

// InvalidEntryFormatError is returned when an entry string is not "user days times"
type InvalidEntryFormatError struct {
	Input string
}

func (e *InvalidEntryFormatError) Error() string {
	return fmt.Sprintf("incorrect entry format %q. %s", e.Input, EntryFormatHelp)
}

// UnknownUserError is returned when a username has no device mapping
type UnknownUserError struct {
	Username string
}

func (e *UnknownUserError) Error() string {
	return fmt.Sprintf("no MAC address known for user %q", e.Username)
}

// InvalidWeekdayError is returned for a day that is not one of Mon..Sun
type InvalidWeekdayError struct {
	Value string
}

func (e *InvalidWeekdayError) Error() string {
	return fmt.Sprintf("invalid weekday %q: use Mon, Tue, Wed, Thu, Fri, Sat or Sun", e.Value)
}

// InvalidTimeFormatError is returned for a time range not shaped like 08:00-18:00
type InvalidTimeFormatError struct {
	Value string
}

func (e *InvalidTimeFormatError) Error() string {
	return fmt.Sprintf("invalid time format %q: expected HH:MM-HH:MM, e.g. 08:00-18:00", e.Value)
}
