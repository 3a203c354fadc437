package garden

import (
	"fmt"
	"time"
)

// DayLayout is the on-disk and on-screen format for calendar days.
const DayLayout = "2006-01-02"

// DayOf strips the time of day from t, keeping the wall-clock date in t's own
// location. Days are represented as midnight UTC so that day arithmetic never
// crosses a DST transition.
func DayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today returns the local calendar day.
func Today() time.Time {
	return DayOf(time.Now())
}

// NewDay builds a day from its components.
func NewDay(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func ParseDay(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DayLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse day %q: %w", s, err)
	}
	return t, nil
}

func FormatDay(t time.Time) string {
	return t.Format(DayLayout)
}

// AddDays moves a day forward (or backward for negative n).
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// DaysBetween returns to - from in whole days. Both arguments must be days
// produced by DayOf or NewDay.
func DaysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
