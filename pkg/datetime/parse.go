// Package datetime provides date and time utility functions.
package datetime

import (
	"time"

	"github.com/iwvelando/loan-engine/pkg/constants"
)

const (
	// DateLayout is the format expected in config files and API payloads and
	// is also the output date format.
	DateLayout = constants.DateLayout
)

// MustParseTime parses a date string using the given layout and panics on error.
// This is intended for use in tests where the date string is known to be valid.
func MustParseTime(layout, dateStr string) time.Time {
	t, err := time.Parse(layout, dateStr)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseDate parses a DateLayout string into a UTC calendar date.
func ParseDate(date string) (time.Time, error) {
	return time.Parse(DateLayout, date)
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	// Day 0 of the following month normalizes to the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// AddMonths moves t forward (or back, for negative n) by n calendar months.
// When the day of month does not exist in the target month it is clamped to
// the last day, so Jan 31 + 1 month is Feb 28 (or 29) rather than Mar 3 as
// time.AddDate would give.
func AddMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	// Normalize the target month through time.Date on the first of the month.
	first := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, t.Location())
	ty, tm, _ := first.Date()
	if last := DaysInMonth(ty, tm); d > last {
		d = last
	}
	hh, mm, ss := t.Clock()
	return time.Date(ty, tm, d, hh, mm, ss, t.Nanosecond(), t.Location())
}

// DateBeforeDate returns true if firstDate is strictly before secondDate.
func DateBeforeDate(firstDate string, secondDate string) (bool, error) {
	firstDateT, err := ParseDate(firstDate)
	if err != nil {
		return false, err
	}
	secondDateT, err := ParseDate(secondDate)
	if err != nil {
		return false, err
	}
	return firstDateT.Before(secondDateT), nil
}

// StepMonths advances t one calendar month at a time, n times. Unlike
// AddMonths(t, n) a clamp carries forward, so Jan 31 stepped twice is Mar 28
// (or 29), matching how payment dates chain off their predecessor.
func StepMonths(t time.Time, n int) time.Time {
	for i := 0; i < n; i++ {
		t = AddMonths(t, 1)
	}
	return t
}
