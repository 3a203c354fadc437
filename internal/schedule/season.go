// Package schedule computes watering status and projected due dates from a
// plant's seasonal interval table and its watering history.
//
// Every function here is pure: it reads only its arguments and keeps no state
// between calls, so callers can recompute freely on each new snapshot.
package schedule

import (
	"time"

	"github.com/redpandashots/plant-watering-reminder/internal/garden"
)

// SeasonOf maps a date to its season by month:
// Dec-Feb winter, Mar-May spring, Jun-Aug summer, Sep-Nov fall.
func SeasonOf(date time.Time) garden.Season {
	switch date.Month() {
	case time.December, time.January, time.February:
		return garden.Winter
	case time.March, time.April, time.May:
		return garden.Spring
	case time.June, time.July, time.August:
		return garden.Summer
	default:
		return garden.Fall
	}
}
