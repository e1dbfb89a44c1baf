package rules

import (
	"strings"

	"netparental/internal/models"
)

// EntryFormatHelp describes the compact entry format
const EntryFormatHelp = "The format should be: username Mon,Tue,Wed,Thu,Fri,Sat 21:00-23:59"

// DeviceLookup resolves a username to a MAC address
type DeviceLookup interface {
	Lookup(username string) (mac string, ok bool)
}

// ParseEntry parses "<username> <day,day,...> <HH:MM-HH:MM>" into a rule.
// The returned rule has no index yet.
func ParseEntry(input string, devices DeviceLookup) (models.Rule, error) {
	tokens := strings.Split(input, " ")
	if len(tokens) != 3 {
		return models.Rule{}, &InvalidEntryFormatError{Input: input}
	}

	username := tokens[0]
	mac, ok := devices.Lookup(username)
	if !ok {
		return models.Rule{}, &UnknownUserError{Username: username}
	}

	days, err := ParseWeekdays(tokens[1])
	if err != nil {
		return models.Rule{}, err
	}

	from, to, err := ParseTimeRange(tokens[2])
	if err != nil {
		return models.Rule{}, err
	}

	return models.Rule{
		Username:   username,
		MACAddress: mac,
		Weekdays:   days,
		TimeFrom:   from,
		TimeTo:     to,
	}, nil
}

// ParseWeekdays parses a comma separated list of day codes.
// Order and duplicates are kept as given.
func ParseWeekdays(value string) ([]models.Weekday, error) {
	parts := strings.Split(value, ",")
	days := make([]models.Weekday, 0, len(parts))
	for _, p := range parts {
		d := models.Weekday(p)
		if len(p) != 3 || !d.Valid() {
			return nil, &InvalidWeekdayError{Value: p}
		}
		days = append(days, d)
	}
	return days, nil
}

// ParseTimeRange parses "HH:MM-HH:MM" with both ends on the 24-hour clock
func ParseTimeRange(value string) (from, to string, err error) {
	times := strings.Split(value, "-")
	if len(times) != 2 {
		return "", "", &InvalidTimeFormatError{Value: value}
	}
	for _, t := range times {
		if !strings.Contains(t, ":") || len(t) != 5 || !models.ValidTime(t) {
			return "", "", &InvalidTimeFormatError{Value: t}
		}
	}
	return times[0], times[1], nil
}

// FormatSchedule renders the days and window of a rule: "Mon,Tue 08:00-18:00"
func FormatSchedule(rule models.Rule) string {
	return rule.Days() + " " + rule.TimeRange()
}

// FormatEntry renders a rule back into the entry format ParseEntry accepts
func FormatEntry(rule models.Rule) string {
	return rule.Username + " " + FormatSchedule(rule)
}
