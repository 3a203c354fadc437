package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/redpandashots/plant-watering-reminder/internal/garden"
	"github.com/redpandashots/plant-watering-reminder/internal/schedule"
	"github.com/redpandashots/plant-watering-reminder/internal/store"
)

const recentLimit = 5

type todayModel struct {
	store  *store.Store
	width  int
	height int
	today  time.Time

	statuses []schedule.Status
	recent   []garden.WateringEvent
	index    map[string]garden.Plant

	// Due-plant picker state
	picking      bool
	pickerCursor int
}

func newTodayModel(s *store.Store, today time.Time) todayModel {
	return todayModel{store: s, today: today}
}

func (d *todayModel) setSize(w, h int) {
	d.width = w
	d.height = h
}

type todayDataMsg struct {
	statuses []schedule.Status
	recent   []garden.WateringEvent
	index    map[string]garden.Plant
}

func (d todayModel) refresh() tea.Cmd {
	today := d.today
	return func() tea.Msg {
		snap, err := d.store.Snapshot()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Load error: %v", err), isError: true}
		}
		recent, _ := d.store.ListWaterings(store.WateringFilter{Limit: recentLimit})
		index, _ := d.store.PlantIndex()
		return todayDataMsg{
			statuses: schedule.Statuses(snap.Plants, snap.Events, today),
			recent:   recent,
			index:    index,
		}
	}
}

// due returns the statuses that are due today or overdue, in plant order.
func (d todayModel) due() []schedule.Status {
	var out []schedule.Status
	for _, st := range d.statuses {
		if st.IsDue() {
			out = append(out, st)
		}
	}
	return out
}

func (d todayModel) counts() (overdue, dueToday, dueSoon int) {
	for _, st := range d.statuses {
		switch st.Category {
		case schedule.Overdue:
			overdue++
		case schedule.DueToday:
			dueToday++
		case schedule.DueSoon:
			dueSoon++
		}
	}
	return
}

func (d todayModel) update(msg tea.Msg) (todayModel, tea.Cmd) {
	switch msg := msg.(type) {
	case todayDataMsg:
		d.statuses = msg.statuses
		d.recent = msg.recent
		d.index = msg.index
		if d.pickerCursor >= len(d.due()) {
			d.pickerCursor = max(0, len(d.due())-1)
		}
		return d, nil

	case tea.KeyMsg:
		if d.picking {
			return d.updatePicker(msg)
		}
		if key.Matches(msg, keys.Water) {
			due := d.due()
			if len(due) == 0 {
				return d, func() tea.Msg {
					return statusMsg{text: "Nothing to water today"}
				}
			}
			if len(due) == 1 {
				return d, d.water(due[0].Plant)
			}
			d.picking = true
			d.pickerCursor = 0
		}
	}
	return d, nil
}

func (d todayModel) updatePicker(msg tea.KeyMsg) (todayModel, tea.Cmd) {
	due := d.due()
	switch {
	case key.Matches(msg, keys.Up):
		if d.pickerCursor > 0 {
			d.pickerCursor--
		}
	case key.Matches(msg, keys.Down):
		if d.pickerCursor < len(due)-1 {
			d.pickerCursor++
		}
	case key.Matches(msg, keys.Enter), key.Matches(msg, keys.Water):
		d.picking = false
		if d.pickerCursor < len(due) {
			return d, d.water(due[d.pickerCursor].Plant)
		}
	case key.Matches(msg, keys.Back):
		d.picking = false
	}
	return d, nil
}

func (d todayModel) water(p garden.Plant) tea.Cmd {
	day := d.today
	return func() tea.Msg {
		if _, err := d.store.MarkWatered(p.ID, day); err != nil {
			return statusMsg{text: fmt.Sprintf("Water error: %v", err), isError: true}
		}
		return wateredMsg{plant: p, date: day, watered: true}
	}
}

func (d todayModel) view() string {
	if d.width < 20 {
		return "Terminal too small"
	}

	contentWidth := d.width - 4

	var bottomPanel string
	if d.picking {
		bottomPanel = d.renderPicker(contentWidth)
	} else {
		bottomPanel = d.renderRecentPanel(contentWidth)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		d.renderSummaryPanel(contentWidth),
		d.renderDuePanel(contentWidth),
		bottomPanel,
	)
}

func (d todayModel) renderSummaryPanel(w int) string {
	date := titleStyle.Render(d.today.Format("Monday, January 2"))
	badge := badgeStyle.Render(seasonBadge(d.today))

	overdue, dueToday, dueSoon := d.counts()
	counts := lipgloss.JoinHorizontal(lipgloss.Top,
		errorStyle.Render(fmt.Sprintf("%d overdue", overdue)), "   ",
		warningStyle.Render(fmt.Sprintf("%d due today", dueToday)), "   ",
		highlightStyle.Render(fmt.Sprintf("%d due soon", dueSoon)), "   ",
		mutedStyle.Render(fmt.Sprintf("%d plants", len(d.statuses))),
	)

	header := lipgloss.JoinHorizontal(lipgloss.Center, date, "  ", badge)
	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, header, "", counts))
}

func (d todayModel) renderDuePanel(w int) string {
	title := titleStyle.Render("Needs Water")
	due := d.due()
	if len(due) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			successStyle.Render("All plants are happy 🌿"),
		)
		return panelStyle.Width(w).Render(content)
	}

	rows := []string{title}
	for _, st := range due {
		label := statusStyle(st).Render(st.Label())
		rows = append(rows, fmt.Sprintf("  %s %-28s %s", plantDot(st.Plant), plantLabel(st.Plant), label))
	}
	rows = append(rows, "", mutedStyle.Render("  w: water"))
	return activePanelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (d todayModel) renderRecentPanel(w int) string {
	title := titleStyle.Render("Recent Waterings")
	if len(d.recent) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			mutedStyle.Render("Nothing watered yet"),
		)
		return panelStyle.Width(w).Render(content)
	}

	rows := []string{title}
	for _, e := range d.recent {
		name := "Unknown"
		if p, ok := d.index[e.PlantID]; ok {
			name = plantLabel(p)
		}
		rows = append(rows, fmt.Sprintf("  ✓ %-10s %-28s %s",
			shortDate(e.Date, d.today), name, mutedStyle.Render(relDay(e.Date, d.today))))
	}
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (d todayModel) renderPicker(w int) string {
	title := titleStyle.Render("Water Which Plant?")

	rows := []string{title}
	for i, st := range d.due() {
		cursor := "  "
		style := normalItemStyle
		if i == d.pickerCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%s %s", cursor, plantDot(st.Plant), plantLabel(st.Plant))))
	}
	rows = append(rows, "", mutedStyle.Render("  enter: water  esc: cancel"))

	return activePanelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
