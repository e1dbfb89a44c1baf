package rules

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"netparental/internal/models"
)

var testDevices = models.NewDeviceMap(map[string]string{
	"Juan": "aa:bb:cc:dd:ee:01",
	"Bob":  "aa:bb:cc:dd:ee:02",
})

func TestParseEntry(t *testing.T) {
	r, err := ParseEntry("Juan Mon,Tue,Wed,Thu,Fri,Sat 21:00-23:59", testDevices)
	require.NoError(t, err)

	assert.Equal(t, 0, r.Index)
	assert.Equal(t, "Juan", r.Username)
	assert.Equal(t, "aa:bb:cc:dd:ee:01", r.MACAddress)
	assert.Equal(t, []models.Weekday{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}, r.Weekdays)
	assert.Equal(t, "21:00", r.TimeFrom)
	assert.Equal(t, "23:59", r.TimeTo)
	assert.False(t, r.InternetAllowed)
}

func TestParseEntry_Errors(t *testing.T) {
	t.Run("token count", func(t *testing.T) {
		for _, in := range []string{"Juan Mon", "Juan Mon 08:00-09:00 extra", "Juan  Mon 08:00-09:00", ""} {
			_, err := ParseEntry(in, testDevices)
			var fe *InvalidEntryFormatError
			require.True(t, errors.As(err, &fe), "input %q: got %v", in, err)
			assert.Equal(t, in, fe.Input)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := ParseEntry("Alice Mon 08:00-18:00", testDevices)
		var ue *UnknownUserError
		require.True(t, errors.As(err, &ue))
		assert.Equal(t, "Alice", ue.Username)
	})

	t.Run("invalid weekday", func(t *testing.T) {
		_, err := ParseEntry("Bob Xyz 08:00-18:00", testDevices)
		var we *InvalidWeekdayError
		require.True(t, errors.As(err, &we))
		assert.Equal(t, "Xyz", we.Value)
	})

	t.Run("weekday wrong length", func(t *testing.T) {
		_, err := ParseEntry("Bob Mon,Tues 08:00-18:00", testDevices)
		var we *InvalidWeekdayError
		require.True(t, errors.As(err, &we))
		assert.Equal(t, "Tues", we.Value)
	})

	t.Run("missing colon", func(t *testing.T) {
		_, err := ParseEntry("Bob Mon 0800-1800", testDevices)
		var te *InvalidTimeFormatError
		require.True(t, errors.As(err, &te))
		assert.Equal(t, "0800", te.Value)
	})

	t.Run("no range", func(t *testing.T) {
		_, err := ParseEntry("Bob Mon 08:00", testDevices)
		var te *InvalidTimeFormatError
		require.True(t, errors.As(err, &te))
		assert.Equal(t, "08:00", te.Value)
	})

	t.Run("wrong length", func(t *testing.T) {
		_, err := ParseEntry("Bob Mon 8:00-18:00", testDevices)
		var te *InvalidTimeFormatError
		require.True(t, errors.As(err, &te))
		assert.Equal(t, "8:00", te.Value)
	})

	t.Run("out of range clock", func(t *testing.T) {
		for _, tc := range []struct{ in, bad string }{
			{"Bob Mon 24:00-23:59", "24:00"},
			{"Bob Mon 08:00-23:60", "23:60"},
			{"Bob Mon 99:99-ab:cd", "99:99"},
			{"Bob Mon 08:00-ab:cd", "ab:cd"},
		} {
			_, err := ParseEntry(tc.in, testDevices)
			var te *InvalidTimeFormatError
			require.True(t, errors.As(err, &te), "input %q: got %v", tc.in, err)
			assert.Equal(t, tc.bad, te.Value)
		}
	})
}

func TestFormatEntry_RoundTrip(t *testing.T) {
	inputs := []string{
		"Juan Mon,Tue,Wed,Thu,Fri,Sat 21:00-23:59",
		"Bob Sun 00:00-06:30",
		"Bob Fri,Mon,Fri 08:00-18:00",
	}
	for _, in := range inputs {
		r, err := ParseEntry(in, testDevices)
		require.NoError(t, err)
		assert.Equal(t, in, FormatEntry(r))

		again, err := ParseEntry(r.Username+" "+FormatSchedule(r), testDevices)
		require.NoError(t, err)
		assert.Equal(t, r.Weekdays, again.Weekdays)
		assert.Equal(t, r.TimeFrom, again.TimeFrom)
		assert.Equal(t, r.TimeTo, again.TimeTo)
	}
}
