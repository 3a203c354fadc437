package tui

import (
	"time"

	"github.com/redpandashots/plant-watering-reminder/internal/garden"
)

// dayClock tracks the current calendar day so views can reload when the
// date rolls over while the app is open.
type dayClock struct {
	now   func() time.Time
	today time.Time
}

func newDayClock(now func() time.Time) dayClock {
	if now == nil {
		now = time.Now
	}
	return dayClock{now: now, today: garden.DayOf(now())}
}

// tick re-reads the clock and reports whether the day changed.
func (c *dayClock) tick() bool {
	d := garden.DayOf(c.now())
	if d.Equal(c.today) {
		return false
	}
	c.today = d
	return true
}

func (c dayClock) day() time.Time { return c.today }
