package rules

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"netparental/internal/models"
)

const prefix = "InternetGatewayDevice.TimeRestriction.RestRules.1."

func TestParseLine_UpdatesOnlyNamedField(t *testing.T) {
	base := models.Rule{
		Index:           1,
		Username:        "Old",
		MACAddress:      "00:00:00:00:00:00",
		InternetAllowed: true,
		Weekdays:        []models.Weekday{models.Sunday},
		TimeFrom:        "00:00",
		TimeTo:          "01:00",
	}

	cases := []struct {
		line string
		want func(r *models.Rule)
	}{
		{prefix + "InternetAllowed=0", func(r *models.Rule) { r.InternetAllowed = false }},
		{prefix + "Username=User", func(r *models.Rule) { r.Username = "User" }},
		{prefix + "MACAddr=88:88:88:88:88:88", func(r *models.Rule) { r.MACAddress = "88:88:88:88:88:88" }},
		{prefix + "WeekDays=Sun,Mon,Tue,Wed,Thu,Fri", func(r *models.Rule) {
			r.Weekdays = []models.Weekday{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri"}
		}},
		{prefix + "TimeFrom=21:00", func(r *models.Rule) { r.TimeFrom = "21:00" }},
		{prefix + "TimeTo=23:59", func(r *models.Rule) { r.TimeTo = "23:59" }},
		{prefix + "SomethingNew=42", func(r *models.Rule) {}},
	}

	for i, c := range cases {
		want := base.WithIndex(base.Index)
		c.want(&want)

		got, err := ParseLine(base, c.line)
		require.NoError(t, err, "case#%d", i)
		if !cmp.Equal(got, want) {
			t.Errorf("ParseLine case#%d (%s):\n%s", i, c.line, cmp.Diff(want, got))
		}
	}
}

func TestParseLine_InternetAllowed(t *testing.T) {
	r, err := ParseLine(models.Rule{}, prefix+"InternetAllowed=1")
	require.NoError(t, err)
	assert.True(t, r.InternetAllowed)

	r, err = ParseLine(r, prefix+"InternetAllowed=yes")
	require.NoError(t, err)
	assert.False(t, r.InternetAllowed)
}

func TestParseLine_ValueKeepsEquals(t *testing.T) {
	r, err := ParseLine(models.Rule{}, prefix+"Username=a=b")
	require.NoError(t, err)
	assert.Equal(t, "a=b", r.Username)
}

func TestParseLine_Malformed(t *testing.T) {
	lines := []string{
		"InternetGatewayDevice.TimeRestriction.Enable=1",
		"InternetGatewayDevice.TimeRestriction.RestRules.1.Username=J.R.",
		"no dots at all",
		"",
	}
	for _, line := range lines {
		_, err := ParseLine(models.Rule{}, line)
		var me *MalformedLineError
		require.True(t, errors.As(err, &me), "expected *MalformedLineError for %q, got %v", line, err)
		assert.Equal(t, line, me.Line)
		assert.Equal(t, 5, me.Expected)
		assert.NotEqual(t, 5, me.Actual)
		assert.Contains(t, err.Error(), line)
	}
}

func TestParseLine_MissingAssignment(t *testing.T) {
	line := prefix + "Username"
	_, err := ParseLine(models.Rule{}, line)
	var ma *MissingAssignmentError
	require.True(t, errors.As(err, &ma))
	assert.Equal(t, line, ma.Line)
}

func TestParseRule(t *testing.T) {
	lines := []string{
		"InternetGatewayDevice.TimeRestriction.RestRules.3.InternetAllowed=0",
		"InternetGatewayDevice.TimeRestriction.RestRules.3.Username=Juan",
		"InternetGatewayDevice.TimeRestriction.RestRules.3.MACAddr=aa:bb:cc:dd:ee:ff",
		"InternetGatewayDevice.TimeRestriction.RestRules.3.WeekDays=Mon,Tue",
		"InternetGatewayDevice.TimeRestriction.RestRules.3.TimeFrom=21:00",
		"InternetGatewayDevice.TimeRestriction.RestRules.3.TimeTo=23:59",
		"",
	}

	got, err := ParseRule(3, lines)
	require.NoError(t, err)

	want := models.Rule{
		Index:      3,
		Username:   "Juan",
		MACAddress: "aa:bb:cc:dd:ee:ff",
		Weekdays:   []models.Weekday{models.Monday, models.Tuesday},
		TimeFrom:   "21:00",
		TimeTo:     "23:59",
	}
	if !cmp.Equal(got, want) {
		t.Errorf("ParseRule:\n%s", cmp.Diff(want, got))
	}
}

func TestParseRule_StopsOnBadLine(t *testing.T) {
	_, err := ParseRule(1, []string{prefix + "Username=Juan", "garbage"})
	var me *MalformedLineError
	assert.True(t, errors.As(err, &me))
}

func TestParseIndexes(t *testing.T) {
	cases := []struct {
		lines []string
		want  []int
	}{
		{nil, []int{}},
		{[]string{""}, []int{}},
		{[]string{"1 3"}, []int{1, 3}},
		{[]string{"1 2 ", "5"}, []int{1, 2, 5}},
	}
	for i, c := range cases {
		got, err := ParseIndexes(c.lines)
		require.NoError(t, err)
		if !cmp.Equal(got, c.want) {
			t.Errorf("ParseIndexes case#%d:\n%s", i, cmp.Diff(c.want, got))
		}
	}

	for _, bad := range []string{"1 x", "0", "-2"} {
		_, err := ParseIndexes([]string{bad})
		var ie *InvalidIndexError
		assert.True(t, errors.As(err, &ie), "expected *InvalidIndexError for %q", bad)
	}
}
