// Package dates converts between user-entered deadlines and stored calendar dates.
package dates

import (
	"fmt"
	"regexp"
	"time"
)

const (
	userLayout   = "02.01.2006"
	storedLayout = "2006-01-02"
)

var userDateRegex = regexp.MustCompile(`^\d{2}\.\d{2}\.\d{4}$`)

// FormatError reports user input that is not a DD.MM.YYYY calendar date.
type FormatError struct {
	Input string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid date %q (use DD.MM.YYYY, e.g. 25.12.2024)", e.Input)
}

// ParseUserDate parses a DD.MM.YYYY date. Nothing else is accepted:
// no other separators, orders or digit counts, and the day must exist.
func ParseUserDate(s string) (time.Time, error) {
	if !userDateRegex.MatchString(s) {
		return time.Time{}, &FormatError{Input: s}
	}
	t, err := time.Parse(userLayout, s)
	if err != nil {
		return time.Time{}, &FormatError{Input: s}
	}
	return t, nil
}

// FormatUserDate renders a date as DD.MM.YYYY.
func FormatUserDate(t time.Time) string {
	return t.Format(userLayout)
}

// FormatStoredDate renders a date in the YYYY-MM-DD form kept in the database.
func FormatStoredDate(t time.Time) string {
	return t.Format(storedLayout)
}

// ParseStoredDate parses a YYYY-MM-DD value read back from the database.
func ParseStoredDate(s string) (time.Time, error) {
	t, err := time.Parse(storedLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("corrupt stored date %q: %w", s, err)
	}
	return t, nil
}

const secondsPerDay = 24 * 60 * 60

// DaysUntil returns the signed number of calendar days from now's date to d.
// Negative values mean d is in the past.
func DaysUntil(d, now time.Time) int {
	target := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	// Not Sub: a Duration saturates beyond about 292 years.
	return int((target.Unix() - today.Unix()) / secondsPerDay)
}
