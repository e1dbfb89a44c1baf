// Package rules converts between the router's text formats and models.Rule.
package rules

import (
	"strconv"
	"strings"

	"netparental/internal/models"
)

// LineSegments is the segment count of a rule field line:
// InternetGatewayDevice.TimeRestriction.RestRules.<n>.<Field>=<value>
const LineSegments = 5

// Field names used by the configuration tree
const (
	FieldInternetAllowed = "InternetAllowed"
	FieldUsername        = "Username"
	FieldMACAddr         = "MACAddr"
	FieldWeekDays        = "WeekDays"
	FieldTimeFrom        = "TimeFrom"
	FieldTimeTo          = "TimeTo"
)

// Fields lists the rule fields in the order they are written to the router
var Fields = []string{
	FieldInternetAllowed,
	FieldUsername,
	FieldMACAddr,
	FieldWeekDays,
	FieldTimeFrom,
	FieldTimeTo,
}

// SplitAssignment splits "<path>.<Field>=<value>" into its last path
// segment name and value. The value keeps everything after the first '='.
func SplitAssignment(line string) (field, value string, err error) {
	segments := strings.Split(line, ".")
	if len(segments) != LineSegments {
		return "", "", &MalformedLineError{Line: line, Expected: LineSegments, Actual: len(segments)}
	}

	last := segments[len(segments)-1]
	field, value, ok := strings.Cut(last, "=")
	if !ok {
		return "", "", &MissingAssignmentError{Line: line}
	}
	return field, value, nil
}

// ParseLine applies one dump line to rule and returns the updated copy.
// Unknown field names leave the rule untouched.
func ParseLine(rule models.Rule, line string) (models.Rule, error) {
	line = strings.TrimRight(line, "\r\n")

	field, value, err := SplitAssignment(line)
	if err != nil {
		return rule, err
	}

	switch field {
	case FieldInternetAllowed:
		rule.InternetAllowed = value == "1"
	case FieldUsername:
		rule.Username = value
	case FieldMACAddr:
		rule.MACAddress = value
	case FieldWeekDays:
		rule.Weekdays = splitDays(value)
	case FieldTimeFrom:
		rule.TimeFrom = value
	case FieldTimeTo:
		rule.TimeTo = value
	}
	return rule, nil
}

// ParseRule builds the rule at index from the output of one
// "cfgcmd get <root>.RestRules.<index>" query.
func ParseRule(index int, lines []string) (models.Rule, error) {
	rule := models.Rule{Index: index}
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		var err error
		if rule, err = ParseLine(rule, line); err != nil {
			return models.Rule{}, err
		}
	}
	return rule, nil
}

// ParseIndexes reads the whitespace separated index list printed by get_idxes.
// Empty output means no rules.
func ParseIndexes(lines []string) ([]int, error) {
	tokens := strings.Fields(strings.Join(lines, " "))
	indexes := make([]int, 0, len(tokens))
	for _, tok := range tokens {
		n, err := strconv.Atoi(tok)
		if err != nil || n < 1 {
			return nil, &InvalidIndexError{Token: tok}
		}
		indexes = append(indexes, n)
	}
	return indexes, nil
}

// splitDays keeps the router's order and duplicates as-is
func splitDays(value string) []models.Weekday {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	days := make([]models.Weekday, len(parts))
	for i, p := range parts {
		days[i] = models.Weekday(p)
	}
	return days
}
