package model

import "time"

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// DateOnly drops the time of day, keeping the calendar date of t as seen
// in t's own location.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameDay compares two instants by calendar date only.
func SameDay(a, b time.Time) bool { return DateOnly(a).Equal(DateOnly(b)) }

// IsOverdue reports whether today is strictly after the return date.
func IsOverdue(today, returnDate time.Time) bool {
	return DateOnly(today).After(DateOnly(returnDate))
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}
