// Package dates implements the "YYYY-MM" month arithmetic used throughout
// finkeep. Every date stored or queried is a calendar month; any day-level
// input collapses to its containing month.
package dates

import (
	"fmt"
	"time"

	"github.com/finkeep/finkeep/pkg/types"
)

// monthLayouts are the accepted input forms, tried in order.
var monthLayouts = []string{
	"2006-01",
	"2006-1",
	"2006-01-02",
	"2006-1-2",
	"2006/01/02",
	"2006/01",
	"200601",
}

// parse converts an input date string to a time anchored at its month.
func parse(date string) (time.Time, error) {
	for _, layout := range monthLayouts {
		if t, err := time.Parse(layout, date); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", types.ErrInvalidDate, date)
}

// Norm normalizes any accepted date form to canonical "YYYY-MM".
func Norm(date string) (string, error) {
	t, err := parse(date)
	if err != nil {
		return "", err
	}
	return t.Format("2006-01"), nil
}

// Digit returns the month as an integer, e.g. "2024-05" -> 202405.
func Digit(date string) (int64, error) {
	t, err := parse(date)
	if err != nil {
		return 0, err
	}
	return int64(t.Year())*100 + int64(t.Month()), nil
}

// Prev returns the month before date in canonical form.
func Prev(date string) (string, error) {
	t, err := parse(date)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, -1, 0).Format("2006-01"), nil
}

// Next returns the month after date in canonical form.
func Next(date string) (string, error) {
	t, err := parse(date)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 1, 0).Format("2006-01"), nil
}

// Range returns every month from start to end inclusive, in order.
// Returns nil if end sorts before start.
func Range(start, end string) ([]string, error) {
	s, err := parse(start)
	if err != nil {
		return nil, err
	}
	e, err := parse(end)
	if err != nil {
		return nil, err
	}
	s = time.Date(s.Year(), s.Month(), 1, 0, 0, 0, 0, time.UTC)
	e = time.Date(e.Year(), e.Month(), 1, 0, 0, 0, 0, time.UTC)

	var months []string
	for !s.After(e) {
		months = append(months, s.Format("2006-01"))
		s = s.AddDate(0, 1, 0)
	}
	return months, nil
}

// Current returns the current month in canonical form.
func Current() string {
	return time.Now().Format("2006-01")
}

// Max returns the later of two canonical months. Canonical "YYYY-MM" strings
// order lexically, so plain comparison is enough.
func Max(a, b string) string {
	if a > b {
		return a
	}
	return b
}

// Min returns the earlier of two canonical months.
func Min(a, b string) string {
	if a < b {
		return a
	}
	return b
}
