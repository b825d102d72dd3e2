package utils

import (
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// ParseDate parses a calendar date in YYYY-MM-DD form (UTC).
func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, value)
}

// ParseTimeOfDay parses a clock time in HH:MM form. The returned
// time.Time carries the zero date so values compare by clock only.
func ParseTimeOfDay(value string) (time.Time, error) {
	return time.Parse(TimeLayout, value)
}

// ClockOnly strips the date part so times of day always compare on
// the same zero date, whatever source they were scanned from.
func ClockOnly(t time.Time) time.Time {
	return time.Date(0, time.January, 1, t.Hour(), t.Minute(), 0, 0, time.UTC)
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

func FormatTimeOfDay(t time.Time) string {
	return t.Format(TimeLayout)
}
