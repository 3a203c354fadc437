package schedule

import (
	"fmt"
	"time"

	"github.com/redpandashots/plant-watering-reminder/internal/garden"
)

// DueSoonDays is how far ahead a watering still counts as "due soon".
const DueSoonDays = 2

// Category buckets a plant's watering status.
type Category int

const (
	NeverTracked Category = iota
	Overdue
	DueToday
	DueSoon
	OK
)

var categoryNames = map[Category]string{
	NeverTracked: "never-tracked",
	Overdue:      "overdue",
	DueToday:     "due-today",
	DueSoon:      "due-soon",
	OK:           "ok",
}

func (c Category) String() string {
	if n, ok := categoryNames[c]; ok {
		return n
	}
	return "unknown"
}

// Status is the derived watering state of one plant on one observation day.
// LastWatered, NextDue and DaysUntil are only meaningful when Tracked is true.
type Status struct {
	Plant    garden.Plant
	Tracked  bool
	Category Category

	LastWatered time.Time
	NextDue     time.Time
	DaysUntil   int // negative when overdue

	// Interval is the gap that produced NextDue, taken from the season of
	// LastWatered.
	Interval int
	// CurrentInterval is the interval for the observation day's season.
	CurrentInterval int
}

// DaysOverdue returns how many days past NextDue the observation day is, or 0.
func (s Status) DaysOverdue() int {
	if !s.Tracked || s.DaysUntil >= 0 {
		return 0
	}
	return -s.DaysUntil
}

// Label is the short human-readable status, e.g. "3 days overdue" or
// "Due tomorrow".
func (s Status) Label() string {
	switch s.Category {
	case NeverTracked:
		return "Not tracked yet"
	case Overdue:
		if n := s.DaysOverdue(); n != 1 {
			return fmt.Sprintf("%d days overdue", n)
		}
		return "1 day overdue"
	case DueToday:
		return "Due today!"
	}
	if s.DaysUntil == 1 {
		return "Due tomorrow"
	}
	return fmt.Sprintf("Due in %d days", s.DaysUntil)
}

// IsDue reports whether the plant should be watered today or earlier.
func (s Status) IsDue() bool {
	return s.Category == DueToday || s.Category == Overdue
}

// LastWatered returns the latest day plantID was watered. Duplicate events
// for the same day are harmless because only the maximum matters.
func LastWatered(plantID string, events []garden.WateringEvent) (time.Time, bool) {
	var last time.Time
	found := false
	for _, e := range events {
		if e.PlantID != plantID {
			continue
		}
		if !found || e.Date.After(last) {
			last = e.Date
			found = true
		}
	}
	return last, found
}

// StatusOf computes the watering status of plant on the observation day.
// The next due date uses the interval of the season in which the plant was
// last watered, not the season of the observation day.
func StatusOf(plant garden.Plant, events []garden.WateringEvent, observation time.Time) Status {
	today := garden.DayOf(observation)
	st := Status{
		Plant:           plant,
		Category:        NeverTracked,
		CurrentInterval: AdjustedInterval(plant, today),
	}

	last, ok := LastWatered(plant.ID, events)
	if !ok {
		return st
	}

	st.Tracked = true
	st.LastWatered = last
	st.Interval = AdjustedInterval(plant, last)
	st.NextDue = garden.AddDays(last, st.Interval)
	st.DaysUntil = garden.DaysBetween(today, st.NextDue)

	switch {
	case st.DaysUntil < 0:
		st.Category = Overdue
	case st.DaysUntil == 0:
		st.Category = DueToday
	case st.DaysUntil <= DueSoonDays:
		st.Category = DueSoon
	default:
		st.Category = OK
	}
	return st
}

// Statuses computes StatusOf for every plant, preserving order.
func Statuses(plants []garden.Plant, events []garden.WateringEvent, observation time.Time) []Status {
	out := make([]Status, len(plants))
	for i, p := range plants {
		out[i] = StatusOf(p, events, observation)
	}
	return out
}

// WateredOn reports whether any event records plantID as watered on date.
func WateredOn(plantID string, events []garden.WateringEvent, date time.Time) bool {
	day := garden.DayOf(date)
	for _, e := range events {
		if e.PlantID == plantID && e.Date.Equal(day) {
			return true
		}
	}
	return false
}

// Due returns the plants among statuses that are due today or overdue.
func Due(statuses []Status) []garden.Plant {
	var out []garden.Plant
	for _, s := range statuses {
		if s.IsDue() {
			out = append(out, s.Plant)
		}
	}
	return out
}
