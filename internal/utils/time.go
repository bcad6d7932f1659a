package utils

import (
	"fmt"
	"time"

	"github.com/vitatrack/vitatrack/internal/constants"
)

// FormatDate formats t as YYYY-MM-DD in t's own location.
func FormatDate(t time.Time) string {
	return t.Format(constants.DateFormat)
}

// ParseDate parses a YYYY-MM-DD string as midnight in the local timezone.
// A timestamp is accepted and reduced to the calendar date it names.
func ParseDate(s string) (time.Time, error) {
	return ParseDateInLocation(s, time.Local)
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05Z07:00",
}

// ParseDateInLocation parses a date (YYYY-MM-DD) or timestamp as midnight in
// loc. A timestamp keeps the calendar date written in it, in its own offset;
// "2024-01-01T00:00:00Z" is January 1 in every location.
func ParseDateInLocation(s string, loc *time.Location) (time.Time, error) {
	if len(s) > len(constants.DateFormat) {
		for _, layout := range timestampLayouts {
			if ts, err := time.ParseInLocation(layout, s, loc); err == nil {
				y, m, d := ts.Date()
				return time.Date(y, m, d, 0, 0, 0, 0, loc), nil
			}
		}
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD or a timestamp)", s)
	}
	t, err := time.ParseInLocation(constants.DateFormat, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD): %w", s, err)
	}
	return t, nil
}

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a and b fall on the same calendar day in a's location.
func SameDay(a, b time.Time) bool {
	b = b.In(a.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// AddDays shifts t by n calendar days, keeping the wall clock time across DST changes.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// DateLabel returns "Today", "Yesterday", "Tomorrow" or a formatted date relative to now.
func DateLabel(t, now time.Time) string {
	switch {
	case SameDay(now, t):
		return "Today"
	case SameDay(AddDays(now, -1), t):
		return "Yesterday"
	case SameDay(AddDays(now, 1), t):
		return "Tomorrow"
	default:
		return t.Format(constants.DisplayDateFormat)
	}
}
