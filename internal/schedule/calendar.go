package schedule

import (
	"time"

	"github.com/redpandashots/plant-watering-reminder/internal/garden"
)

// Window is an inclusive range of days.
type Window struct {
	Start time.Time
	End   time.Time
}

// MonthWindow spans the first through last day of the given month.
func MonthWindow(year int, month time.Month) Window {
	start := garden.NewDay(year, month, 1)
	return Window{Start: start, End: start.AddDate(0, 1, -1)}
}

// Empty reports whether the window contains no days.
func (w Window) Empty() bool {
	return w.End.Before(w.Start)
}

// Contains reports whether day falls inside the window.
func (w Window) Contains(day time.Time) bool {
	return !day.Before(w.Start) && !day.After(w.End)
}

// Projection maps a day key (garden.DayLayout) to plants, in the order the
// plants were passed in.
type Projection map[string][]garden.Plant

// On returns the plants recorded for day.
func (p Projection) On(day time.Time) []garden.Plant {
	return p[garden.FormatDay(day)]
}

// Has reports whether plantID is recorded for day.
func (p Projection) Has(day time.Time, plantID string) bool {
	for _, pl := range p.On(day) {
		if pl.ID == plantID {
			return true
		}
	}
	return false
}

// DueDates walks the projected watering chain of one plant and returns the
// due days that fall inside w. The chain starts at the plant's last watering
// and each step uses the interval of the season the step starts in, so a
// schedule can speed up or slow down as it crosses season boundaries.
func DueDates(plant garden.Plant, events []garden.WateringEvent, w Window) []time.Time {
	if w.Empty() {
		return nil
	}
	cursor, ok := LastWatered(plant.ID, events)
	if !ok {
		return nil
	}

	var out []time.Time
	for {
		cursor = garden.AddDays(cursor, AdjustedInterval(plant, cursor))
		if cursor.After(w.End) {
			return out
		}
		if !cursor.Before(w.Start) {
			out = append(out, cursor)
		}
	}
}

// ProjectDueDates projects every plant's watering chain into w. Plants that
// were never watered have no schedule and contribute nothing.
func ProjectDueDates(plants []garden.Plant, events []garden.WateringEvent, w Window) Projection {
	proj := Projection{}
	for _, p := range plants {
		for _, d := range DueDates(p, events, w) {
			key := garden.FormatDay(d)
			proj[key] = append(proj[key], p)
		}
	}
	return proj
}

// WateredInWindow lists, per day in w, the plants that were actually watered.
// Events for plants not in plants are ignored and duplicates collapse.
func WateredInWindow(plants []garden.Plant, events []garden.WateringEvent, w Window) Projection {
	proj := Projection{}
	if w.Empty() {
		return proj
	}
	for _, p := range plants {
		seen := make(map[string]bool)
		for _, e := range events {
			if e.PlantID != p.ID || !w.Contains(e.Date) {
				continue
			}
			key := garden.FormatDay(e.Date)
			if seen[key] {
				continue
			}
			seen[key] = true
			proj[key] = append(proj[key], p)
		}
	}
	return proj
}
