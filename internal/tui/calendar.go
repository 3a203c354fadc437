package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/patrickmn/go-cache"

	"github.com/redpandashots/plant-watering-reminder/internal/garden"
	"github.com/redpandashots/plant-watering-reminder/internal/schedule"
	"github.com/redpandashots/plant-watering-reminder/internal/store"
)

const maxCellDots = 3

var weekdayHeader = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

type calendarModel struct {
	store  *store.Store
	width  int
	height int
	today  time.Time

	year     int
	month    time.Month
	selected time.Time

	snap store.Snapshot
	// grids memoizes BuildMonth per month for the current snapshot. It is
	// flushed whenever a new snapshot arrives.
	grids *cache.Cache

	dayPanel    bool
	panelCursor int
}

func newCalendarModel(s *store.Store, today time.Time) calendarModel {
	return calendarModel{
		store:    s,
		today:    today,
		year:     today.Year(),
		month:    today.Month(),
		selected: today,
		grids:    cache.New(10*time.Minute, 30*time.Minute),
	}
}

func (c *calendarModel) setSize(w, h int) {
	c.width = w
	c.height = h
}

type calendarDataMsg struct {
	snap store.Snapshot
}

func (c calendarModel) refresh() tea.Cmd {
	return func() tea.Msg {
		snap, err := c.store.Snapshot()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Load error: %v", err), isError: true}
		}
		return calendarDataMsg{snap: snap}
	}
}

func monthKey(year int, month time.Month) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

// grid returns the month grid for the shown month, building it on a miss.
func (c calendarModel) grid() schedule.MonthGrid {
	k := monthKey(c.year, c.month)
	if g, ok := c.grids.Get(k); ok {
		return g.(schedule.MonthGrid)
	}
	g := schedule.BuildMonth(c.snap.Plants, c.snap.Events, c.year, c.month, c.today)
	c.grids.Set(k, g, cache.DefaultExpiration)
	return g
}

// selectDay moves the selection, following it into another month if needed.
func (c *calendarModel) selectDay(day time.Time) {
	c.selected = day
	c.year, c.month = day.Year(), day.Month()
}

func (c *calendarModel) shiftMonth(n int) {
	first := garden.NewDay(c.year, c.month, 1).AddDate(0, n, 0)
	day := c.selected.Day()
	if last := first.AddDate(0, 1, -1).Day(); day > last {
		day = last
	}
	c.selectDay(garden.NewDay(first.Year(), first.Month(), day))
}

func (c calendarModel) update(msg tea.Msg) (calendarModel, tea.Cmd) {
	switch msg := msg.(type) {
	case calendarDataMsg:
		c.snap = msg.snap
		c.grids.Flush()
		if c.panelCursor >= len(c.snap.Plants) {
			c.panelCursor = max(0, len(c.snap.Plants)-1)
		}
		return c, nil

	case tea.KeyMsg:
		if c.dayPanel {
			return c.updateDayPanel(msg)
		}
		switch {
		case key.Matches(msg, keys.Left):
			c.selectDay(garden.AddDays(c.selected, -1))
		case key.Matches(msg, keys.Right):
			c.selectDay(garden.AddDays(c.selected, 1))
		case key.Matches(msg, keys.Up):
			c.selectDay(garden.AddDays(c.selected, -7))
		case key.Matches(msg, keys.Down):
			c.selectDay(garden.AddDays(c.selected, 7))
		case key.Matches(msg, keys.PrevMonth):
			c.shiftMonth(-1)
		case key.Matches(msg, keys.NextMonth):
			c.shiftMonth(1)
		case key.Matches(msg, keys.Today):
			c.selectDay(c.today)
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.Water):
			c.dayPanel = true
			c.panelCursor = 0
		}
	}
	return c, nil
}

func (c calendarModel) updateDayPanel(msg tea.KeyMsg) (calendarModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Back):
		c.dayPanel = false
	case key.Matches(msg, keys.Up):
		if c.panelCursor > 0 {
			c.panelCursor--
		}
	case key.Matches(msg, keys.Down):
		if c.panelCursor < len(c.snap.Plants)-1 {
			c.panelCursor++
		}
	case key.Matches(msg, keys.Enter), key.Matches(msg, keys.Water):
		if c.panelCursor < len(c.snap.Plants) {
			return c, c.toggleWatered(c.snap.Plants[c.panelCursor], c.selected)
		}
	}
	return c, nil
}

func (c calendarModel) toggleWatered(p garden.Plant, day time.Time) tea.Cmd {
	return func() tea.Msg {
		on, err := c.store.ToggleWatered(p.ID, day)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Water error: %v", err), isError: true}
		}
		return wateredMsg{plant: p, date: day, watered: on}
	}
}

func (c calendarModel) view() string {
	w := c.width - 4
	g := c.grid()

	title := titleStyle.Render(time.Date(c.year, c.month, 1, 0, 0, 0, 0, time.UTC).Format("January 2006"))
	badge := badgeStyle.Render(seasonBadge(garden.NewDay(c.year, c.month, 1)))
	header := lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", badge)

	var weekdays []string
	for _, d := range weekdayHeader {
		weekdays = append(weekdays, cellStyle.Foreground(colorMuted).Render(d))
	}
	rows := []string{header, "", lipgloss.JoinHorizontal(lipgloss.Top, weekdays...)}

	for _, week := range g.Weeks {
		var nums, marks []string
		for _, cell := range week {
			nums = append(nums, c.renderDayNumber(cell))
			marks = append(marks, cellStyle.Render(renderMarks(cell)))
		}
		rows = append(rows,
			lipgloss.JoinHorizontal(lipgloss.Top, nums...),
			lipgloss.JoinHorizontal(lipgloss.Top, marks...),
		)
	}

	legend := mutedStyle.Render("  ✓ watered   ● due   [ ] month   ←→↑↓ day   .: today   enter: water on day")
	grid := panelStyle.Render(strings.Join(rows, "\n"))

	var side string
	if c.dayPanel {
		side = c.renderDayPanel(g)
	} else {
		side = c.renderDaySummary(g)
	}

	if w >= 2*lipgloss.Width(grid) {
		return lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.JoinHorizontal(lipgloss.Top, grid, " ", side),
			legend,
		)
	}
	return lipgloss.JoinVertical(lipgloss.Left, grid, side, legend)
}

func (c calendarModel) renderDayNumber(cell schedule.DayCell) string {
	num := fmt.Sprintf("%d", cell.Date.Day())
	switch {
	case cell.Date.Equal(c.selected):
		return cellSelectedStyle.Render(num)
	case !cell.InMonth:
		return cellOutsideStyle.Render(num)
	case cell.Today:
		return cellTodayStyle.Render(num)
	}
	return cellStyle.Render(num)
}

// renderMarks draws a check for watered days and colored dots for plants
// due that day. A plant watered on a day never has a dot there.
func renderMarks(cell schedule.DayCell) string {
	var b strings.Builder
	if cell.State() == "watered" {
		b.WriteString(successStyle.Render("✓"))
	}
	for i, p := range cell.Due {
		if i == maxCellDots {
			b.WriteString(mutedStyle.Render("+"))
			break
		}
		b.WriteString(plantDot(p))
	}
	return b.String()
}

func (c calendarModel) renderDaySummary(g schedule.MonthGrid) string {
	cell, _ := g.Cell(c.selected)
	title := titleStyle.Render(c.selected.Format("Monday, Jan 2"))
	rows := []string{title, mutedStyle.Render(relDay(c.selected, c.today)), ""}

	if len(cell.Watered) > 0 {
		rows = append(rows, successStyle.Render("Watered"))
		for _, p := range cell.Watered {
			rows = append(rows, "  ✓ "+plantLabel(p))
		}
	}
	if len(cell.Due) > 0 {
		rows = append(rows, warningStyle.Render("Due"))
		for _, p := range cell.Due {
			rows = append(rows, "  "+plantDot(p)+" "+plantLabel(p))
		}
	}
	if len(cell.Watered) == 0 && len(cell.Due) == 0 {
		rows = append(rows, mutedStyle.Render("Nothing scheduled"))
	}
	return panelStyle.Render(strings.Join(rows, "\n"))
}

func (c calendarModel) renderDayPanel(g schedule.MonthGrid) string {
	cell, _ := g.Cell(c.selected)
	watered := make(map[string]bool, len(cell.Watered))
	for _, p := range cell.Watered {
		watered[p.ID] = true
	}
	due := make(map[string]bool, len(cell.Due))
	for _, p := range cell.Due {
		due[p.ID] = true
	}

	rows := []string{titleStyle.Render("Water on " + c.selected.Format("Jan 2")), ""}
	for i, p := range c.snap.Plants {
		cursor := "  "
		style := normalItemStyle
		if i == c.panelCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		mark := "[ ]"
		if watered[p.ID] {
			mark = successStyle.Render("[✓]")
		}
		suffix := ""
		if due[p.ID] {
			suffix = warningStyle.Render(" due")
		}
		rows = append(rows, style.Render(cursor)+mark+" "+style.Render(plantLabel(p))+suffix)
	}
	rows = append(rows, "", mutedStyle.Render("  enter: toggle  esc: close"))
	return activePanelStyle.Render(strings.Join(rows, "\n"))
}
