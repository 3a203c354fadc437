package tui

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/redpandashots/plant-watering-reminder/internal/export"
	"github.com/redpandashots/plant-watering-reminder/internal/logging"
	"github.com/redpandashots/plant-watering-reminder/internal/store"
)

// Options configures the App. Zero values fall back to sensible defaults.
type Options struct {
	Logger    *slog.Logger
	Channel   string // reminder delivery shown in Settings
	ExportDir string // defaults to the home directory
	Now       func() time.Time
}

// App is the root Bubble Tea model.
type App struct {
	store     *store.Store
	log       *slog.Logger
	exportDir string
	width     int
	height    int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	clock dayClock

	today    todayModel
	plants   plantsModel
	calendar calendarModel
	history  historyModel
	settings settingsModel

	help   help.Model
	status string
	isErr  bool
}

func NewApp(s *store.Store, opts Options) App {
	h := help.New()
	h.ShowAll = false

	channel := opts.Channel
	if channel == "" {
		channel = "log"
	}
	exportDir := opts.ExportDir
	if exportDir == "" {
		exportDir, _ = os.UserHomeDir()
	}

	clock := newDayClock(opts.Now)
	today := clock.day()

	return App{
		store:      s,
		log:        logging.Module(opts.Logger, "tui"),
		exportDir:  exportDir,
		activeView: viewToday,
		clock:      clock,
		today:      newTodayModel(s, today),
		plants:     newPlantsModel(s, today),
		calendar:   newCalendarModel(s, today),
		history:    newHistoryModel(s, today),
		settings:   newSettingsModel(s, channel),
		help:       h,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.refreshAll(),
		tickCmd(),
	)
}

// tickCmd polls the clock once a minute so views follow a date change.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Minute, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.today.setSize(a.width, contentHeight)
		a.plants.setSize(a.width, contentHeight)
		a.calendar.setSize(a.width, contentHeight)
		a.history.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		// The chart is sized when built.
		return a, a.history.refresh()

	case tea.KeyMsg:
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewToday
			return a, a.refreshCurrentView()
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewPlants
			return a, a.refreshCurrentView()
		case key.Matches(msg, keys.Tab3):
			a.activeView = viewCalendar
			return a, a.refreshCurrentView()
		case key.Matches(msg, keys.Tab4):
			a.activeView = viewHistory
			return a, a.refreshCurrentView()
		case key.Matches(msg, keys.Tab5):
			a.activeView = viewSettings
			return a, a.refreshCurrentView()
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % viewState(len(viewNames))
			return a, a.refreshCurrentView()
		}

	case tickMsg:
		if a.clock.tick() {
			a.setToday(a.clock.day())
			a.log.Info("day changed", "date", a.clock.day().Format("2006-01-02"))
			return a, tea.Batch(tickCmd(), a.refreshAll())
		}
		return a, tickCmd()

	case statusMsg:
		a.status = msg.text
		a.isErr = msg.isError
		if msg.isError {
			a.log.Error("tui action failed", "msg", msg.text)
		}
		return a, nil

	case wateredMsg:
		verb := "Watered"
		if !msg.watered {
			verb = "Unmarked"
		}
		a.status = fmt.Sprintf("%s %s on %s", verb, plantLabel(msg.plant), shortDate(msg.date, a.clock.day()))
		a.isErr = false
		return a, a.refreshAll()

	case plantChangedMsg:
		a.status = msg.text
		a.isErr = false
		return a, a.refreshAll()

	case dataChangedMsg:
		a.status = msg.text
		a.isErr = false
		return a, a.refreshAll()

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.isErr = false
		a.exportPicking = false
		return a, nil

	// Data loads are addressed to one view whichever is active.
	case todayDataMsg:
		var cmd tea.Cmd
		a.today, cmd = a.today.update(msg)
		return a, cmd
	case plantsDataMsg:
		var cmd tea.Cmd
		a.plants, cmd = a.plants.update(msg)
		return a, cmd
	case calendarDataMsg:
		var cmd tea.Cmd
		a.calendar, cmd = a.calendar.update(msg)
		return a, cmd
	case historyDataMsg:
		var cmd tea.Cmd
		a.history, cmd = a.history.update(msg)
		return a, cmd
	case settingsDataMsg:
		var cmd tea.Cmd
		a.settings, cmd = a.settings.update(msg)
		return a, cmd
	}

	return a.updateActiveView(msg)
}

func (a *App) setToday(day time.Time) {
	a.today.today = day
	a.plants.today = day
	a.calendar.today = day
	a.history.today = day
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewToday:
		a.today, cmd = a.today.update(msg)
	case viewPlants:
		a.plants, cmd = a.plants.update(msg)
	case viewCalendar:
		a.calendar, cmd = a.calendar.update(msg)
	case viewHistory:
		a.history, cmd = a.history.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

// isFormActive reports whether the active view owns the keyboard.
func (a App) isFormActive() bool {
	switch a.activeView {
	case viewToday:
		return a.today.picking
	case viewPlants:
		return a.plants.formActive
	case viewCalendar:
		return a.calendar.dayPanel
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewToday:
		return a.today.refresh()
	case viewPlants:
		return a.plants.refresh()
	case viewCalendar:
		return a.calendar.refresh()
	case viewHistory:
		return a.history.refresh()
	case viewSettings:
		return a.settings.refresh()
	}
	return nil
}

func (a App) refreshAll() tea.Cmd {
	return tea.Batch(
		a.today.refresh(),
		a.plants.refresh(),
		a.calendar.refresh(),
		a.history.refresh(),
		a.settings.refresh(),
	)
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewToday:
		content = a.today.view()
	case viewPlants:
		content = a.plants.view()
	case viewCalendar:
		content = a.calendar.view()
	case viewHistory:
		content = a.history.view()
	case viewSettings:
		content = a.settings.view()
	}

	contentHeight := max(a.height-lipgloss.Height(header)-lipgloss.Height(footer), 1)

	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("🌱 sprout")
	gap := max(a.width-lipgloss.Width(title)-lipgloss.Width(tabRow)-4, 1)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	left := footerStyle.Render(a.help.View(keys))

	right := ""
	if a.status != "" {
		if a.isErr {
			right = errorStyle.Render(" " + a.status)
		} else {
			right = mutedStyle.Render(" " + a.status)
		}
	}

	gap := max(a.width-lipgloss.Width(left)-lipgloss.Width(right)-2, 1)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

var exportFormats = []string{"CSV", "JSON"}

func (a App) renderExportPicker() string {
	rows := []string{titleStyle.Render("Export Watering History"), ""}
	for i, f := range exportFormats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "", mutedStyle.Render("  enter: export  esc: cancel"))

	return activePanelStyle.Width(a.width - 4).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(exportFormats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(a.exportCursor)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) doExport(format int) tea.Cmd {
	dir := a.exportDir
	date := a.clock.day().Format("2006-01-02")
	logger := a.log
	return func() tea.Msg {
		events, err := a.store.ListWaterings(store.WateringFilter{})
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}
		plants, err := a.store.PlantIndex()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}

		var path string
		if format == 0 {
			path = filepath.Join(dir, fmt.Sprintf("sprout-export-%s.csv", date))
			if err := export.ToCSV(events, plants, path); err != nil {
				return statusMsg{text: fmt.Sprintf("CSV error: %v", err), isError: true}
			}
		} else {
			path = filepath.Join(dir, fmt.Sprintf("sprout-export-%s.json", date))
			if err := export.ToJSON(events, plants, path); err != nil {
				return statusMsg{text: fmt.Sprintf("JSON error: %v", err), isError: true}
			}
		}

		logger.Info("exported waterings", "path", path, "count", len(events))
		return exportDoneMsg{path: path}
	}
}
