package model

import "time"

// DateLayout is the wire format for due dates. Dates carry no time of day;
// they are handled at calendar-day granularity throughout.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD string to midnight UTC of that day.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DateOf truncates an instant to its calendar date in the instant's own
// location, represented as midnight UTC so day arithmetic stays exact
// across DST transitions.
func DateOf(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today formats the calendar date of now.
func Today(now time.Time) string {
	return FormatDate(DateOf(now))
}

// Tomorrow formats the calendar date after now's.
func Tomorrow(now time.Time) string {
	return FormatDate(DateOf(now).AddDate(0, 0, 1))
}
