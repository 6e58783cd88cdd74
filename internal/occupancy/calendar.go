package occupancy

import "time"

// monthDay identifies a year-agnostic holiday.
type monthDay struct {
	month time.Month
	day   int
}

// Fixed holiday calendar used by the demand heuristics. Year-agnostic.
var holidays = []monthDay{
	{time.January, 1},    // New Year's Day
	{time.February, 14},  // Valentine's Day
	{time.April, 5},      // Qingming
	{time.May, 1},        // Labour Day
	{time.June, 1},       // Children's Day
	{time.October, 1},    // National Day
	{time.December, 25},  // Christmas
}

// IsWeekend reports whether the date falls on Saturday or Sunday.
func IsWeekend(date time.Time) bool {
	day := date.Weekday()
	return day == time.Saturday || day == time.Sunday
}

// IsHoliday reports whether the date matches the fixed holiday calendar.
func IsHoliday(date time.Time) bool {
	for _, h := range holidays {
		if date.Month() == h.month && date.Day() == h.day {
			return true
		}
	}
	return false
}

// IsPeakSeason reports whether the date falls in a peak travel window:
// summer vacation (Jul-Aug), winter vacation and Chinese New Year (Dec-Feb),
// and the October golden week.
func IsPeakSeason(date time.Time) bool {
	switch date.Month() {
	case time.July, time.August,
		time.December, time.January, time.February,
		time.October:
		return true
	}
	return false
}
