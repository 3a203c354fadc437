package schedule

import (
	"time"

	"github.com/redpandashots/plant-watering-reminder/internal/garden"
)

// DayCell is one square of a month grid.
type DayCell struct {
	Date    time.Time
	InMonth bool
	Today   bool
	// Watered lists plants actually watered on Date.
	Watered []garden.Plant
	// Due lists plants projected due on Date that were not watered that day.
	Due []garden.Plant
}

// State names the dominant marker for the cell: a recorded watering wins
// over a projected due date.
func (c DayCell) State() string {
	switch {
	case len(c.Watered) > 0:
		return "watered"
	case len(c.Due) > 0:
		return "due"
	}
	return ""
}

// MonthGrid is a Monday-start calendar page for one month.
type MonthGrid struct {
	Year  int
	Month time.Month
	Weeks [][]DayCell
}

// GridWindow widens a month to whole Monday-start weeks.
func GridWindow(year int, month time.Month) Window {
	mw := MonthWindow(year, month)
	return Window{
		Start: garden.AddDays(mw.Start, -mondayOffset(mw.Start)),
		End:   garden.AddDays(mw.End, 6-mondayOffset(mw.End)),
	}
}

// mondayOffset counts days since the most recent Monday.
func mondayOffset(day time.Time) int {
	return (int(day.Weekday()) + 6) % 7
}

// BuildMonth lays out the month containing year/month. Due markers are only
// projected for days inside the month; padding days from neighbouring months
// show recorded waterings only.
func BuildMonth(plants []garden.Plant, events []garden.WateringEvent, year int, month time.Month, today time.Time) MonthGrid {
	mw := MonthWindow(year, month)
	gw := GridWindow(year, month)
	due := ProjectDueDates(plants, events, mw)
	watered := WateredInWindow(plants, events, gw)
	today = garden.DayOf(today)

	grid := MonthGrid{Year: year, Month: month}
	var week []DayCell
	for d := gw.Start; !d.After(gw.End); d = garden.AddDays(d, 1) {
		cell := DayCell{
			Date:    d,
			InMonth: mw.Contains(d),
			Today:   d.Equal(today),
			Watered: watered.On(d),
		}
		for _, p := range due.On(d) {
			if !watered.Has(d, p.ID) {
				cell.Due = append(cell.Due, p)
			}
		}
		week = append(week, cell)
		if len(week) == 7 {
			grid.Weeks = append(grid.Weeks, week)
			week = nil
		}
	}
	return grid
}

// Cell returns the grid cell for day, if the grid shows it.
func (g MonthGrid) Cell(day time.Time) (DayCell, bool) {
	for _, w := range g.Weeks {
		for _, c := range w {
			if c.Date.Equal(day) {
				return c, true
			}
		}
	}
	return DayCell{}, false
}
