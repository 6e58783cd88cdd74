package routes

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	cases := []struct {
		in     string
		hour   int
		minute int
		ok     bool
	}{
		{"09:00", 9, 0, true},
		{"23:45", 23, 45, true},
		{"06:30+1", 6, 30, true}, // overnight marker ignored here
		{"6:05", 6, 5, true},
		{"", 0, 0, false},
		{"nine am", 0, 0, false},
		{"25:00", 0, 0, false},
		{"12:75", 0, 0, false},
	}

	for _, tc := range cases {
		h, m, err := ParseClock(tc.in)
		if !tc.ok {
			assert.Error(t, err, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.hour, h, tc.in)
		assert.Equal(t, tc.minute, m, tc.in)
	}
}

func TestArrivalDayOffset(t *testing.T) {
	assert.Equal(t, 0, ArrivalDayOffset("17:00"))
	assert.Equal(t, 1, ArrivalDayOffset("06:30+1"))
	assert.Equal(t, 2, ArrivalDayOffset("08:15+2"))
}

func TestScheduledArrival_OvernightMarker(t *testing.T) {
	tmpl := &RouteTemplate{DepartureTime: "21:30", ArrivalTime: "16:45+1"}
	date := time.Date(2026, 6, 20, 0, 0, 0, 0, time.UTC)

	arrival, err := tmpl.ScheduledArrival(date)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 6, 21, 16, 45, 0, 0, time.UTC), arrival)
}

func TestScheduledArrival_ImplicitRollover(t *testing.T) {
	// No marker, but arriving before departing means the next day.
	tmpl := &RouteTemplate{DepartureTime: "22:00", ArrivalTime: "03:05"}
	date := time.Date(2026, 6, 20, 0, 0, 0, 0, time.UTC)

	arrival, err := tmpl.ScheduledArrival(date)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 6, 21, 3, 5, 0, 0, time.UTC), arrival)
}

func TestScheduledArrival_SameDay(t *testing.T) {
	tmpl := &RouteTemplate{DepartureTime: "09:00", ArrivalTime: "17:00"}
	date := time.Date(2026, 6, 20, 0, 0, 0, 0, time.UTC)

	arrival, err := tmpl.ScheduledArrival(date)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 6, 20, 17, 0, 0, 0, time.UTC), arrival)
}

func TestDurationHours(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"8h 0m", 8},
		{"8h 30m", 8.5},
		{"45m", 0.75},
		{"13h", 13},
	}

	for _, tc := range cases {
		tmpl := &RouteTemplate{Duration: tc.in}
		got, err := tmpl.DurationHours()
		require.NoError(t, err, tc.in)
		assert.InDelta(t, tc.want, got, 1e-9, tc.in)
	}

	bad := &RouteTemplate{Duration: "eight hours"}
	_, err := bad.DurationHours()
	assert.Error(t, err)
}

func TestOperatesOn(t *testing.T) {
	weekdaysOnly := &RouteTemplate{OperatingDays: "12345"}
	assert.True(t, weekdaysOnly.OperatesOn(time.Monday))
	assert.True(t, weekdaysOnly.OperatesOn(time.Friday))
	assert.False(t, weekdaysOnly.OperatesOn(time.Saturday))
	assert.False(t, weekdaysOnly.OperatesOn(time.Sunday))

	sundayOnly := &RouteTemplate{OperatingDays: "7"}
	assert.True(t, sundayOnly.OperatesOn(time.Sunday))
	assert.False(t, sundayOnly.OperatesOn(time.Monday))
}
