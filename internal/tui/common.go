package tui

import (
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/redpandashots/plant-watering-reminder/internal/garden"
	"github.com/redpandashots/plant-watering-reminder/internal/schedule"
)

// viewState represents the currently active view.
type viewState int

const (
	viewToday viewState = iota
	viewPlants
	viewCalendar
	viewHistory
	viewSettings
)

var viewNames = []string{"Today", "Plants", "Calendar", "History", "Settings"}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

// dataChangedMsg is sent after any write so every view reloads.
type dataChangedMsg struct {
	text string
}

type wateredMsg struct {
	plant   garden.Plant
	date    time.Time
	watered bool
}

type tickMsg time.Time

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

var titleCaser = cases.Title(language.English)

var seasonIcons = map[garden.Season]string{
	garden.Winter: "❄",
	garden.Spring: "🌱",
	garden.Summer: "☀",
	garden.Fall:   "🍂",
}

// seasonBadge renders "🍂 Fall" for the season of day.
func seasonBadge(day time.Time) string {
	s := schedule.SeasonOf(day)
	return seasonIcons[s] + " " + titleCaser.String(string(s))
}

func statusStyle(st schedule.Status) lipgloss.Style {
	switch st.Category {
	case schedule.Overdue:
		return errorStyle
	case schedule.DueToday:
		return warningStyle
	case schedule.DueSoon:
		return highlightStyle
	case schedule.NeverTracked:
		return mutedStyle
	}
	return successStyle
}

// relDay describes day relative to today: "today", "yesterday",
// "3 days ago", "in 2 days".
func relDay(day, today time.Time) string {
	switch garden.DaysBetween(today, day) {
	case 0:
		return "today"
	case -1:
		return "yesterday"
	case 1:
		return "tomorrow"
	}
	return humanize.RelTime(day, today, "ago", "from now")
}

// shortDate formats a day as "Jan 02", adding the year when it differs
// from today's.
func shortDate(day, today time.Time) string {
	if day.Year() != today.Year() {
		return day.Format("Jan 02, 2006")
	}
	return day.Format("Jan 02")
}

func plantDot(p garden.Plant) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(p.Color)).Render("●")
}

func plantLabel(p garden.Plant) string {
	return p.Emoji + " " + p.Name
}

func wateredButton(on bool) string {
	if on {
		return successStyle.Render("✓ Watered Today")
	}
	return accentStyle.Render("Water Me")
}
