package utils

import "time"

// AgeInYears returns the calendar-year difference between birth and now.
func AgeInYears(birth, now time.Time) int {
	return now.Year() - birth.Year()
}

// DateOnly truncates t to midnight UTC of its calendar day.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(time.DateOnly, s)
}
