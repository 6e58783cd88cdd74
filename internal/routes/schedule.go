package routes

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	clockPattern  = regexp.MustCompile(`^(\d{1,2}):(\d{2})`)
	offsetPattern = regexp.MustCompile(`\+(\d+)`)
	hoursPattern  = regexp.MustCompile(`(\d+)h`)
	minsPattern   = regexp.MustCompile(`(\d+)m`)
)

// ParseClock parses an "HH:MM" clock string, ignoring any trailing overnight
// marker (e.g. "06:30+1" parses as 06:30).
func ParseClock(s string) (hour, minute int, err error) {
	m := clockPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, 0, fmt.Errorf("invalid clock time %q", s)
	}
	hour, _ = strconv.Atoi(m[1])
	minute, _ = strconv.Atoi(m[2])
	if hour > 23 || minute > 59 {
		return 0, 0, fmt.Errorf("clock time %q out of range", s)
	}
	return hour, minute, nil
}

// ArrivalDayOffset returns the number of calendar days an arrival time string
// rolls past the departure date, e.g. "06:30+1" returns 1.
func ArrivalDayOffset(s string) int {
	m := offsetPattern.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	n, _ := strconv.Atoi(m[1])
	return n
}

// ScheduledDeparture composes the template's departure clock time with a
// calendar date, in the date's location.
func (rt *RouteTemplate) ScheduledDeparture(date time.Time) (time.Time, error) {
	h, m, err := ParseClock(rt.DepartureTime)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(), h, m, 0, 0, date.Location()), nil
}

// ScheduledArrival composes the template's arrival clock time with a calendar
// date, honoring the overnight marker. When no marker is present and the
// arrival clock precedes the departure clock, the arrival rolls to the next
// day.
func (rt *RouteTemplate) ScheduledArrival(date time.Time) (time.Time, error) {
	h, m, err := ParseClock(rt.ArrivalTime)
	if err != nil {
		return time.Time{}, err
	}

	arrival := time.Date(date.Year(), date.Month(), date.Day(), h, m, 0, 0, date.Location())

	if offset := ArrivalDayOffset(rt.ArrivalTime); offset > 0 {
		return arrival.AddDate(0, 0, offset), nil
	}

	departure, err := rt.ScheduledDeparture(date)
	if err != nil {
		return time.Time{}, err
	}
	if arrival.Before(departure) {
		arrival = arrival.AddDate(0, 0, 1)
	}
	return arrival, nil
}

// DurationHours parses the template's duration string ("8h 30m", "45m") into
// fractional hours.
func (rt *RouteTemplate) DurationHours() (float64, error) {
	var hours float64
	matched := false

	if m := hoursPattern.FindStringSubmatch(rt.Duration); m != nil {
		h, _ := strconv.Atoi(m[1])
		hours += float64(h)
		matched = true
	}
	if m := minsPattern.FindStringSubmatch(rt.Duration); m != nil {
		mins, _ := strconv.Atoi(m[1])
		hours += float64(mins) / 60
		matched = true
	}
	if !matched {
		return 0, fmt.Errorf("invalid duration %q", rt.Duration)
	}
	return hours, nil
}
