package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/redpandashots/plant-watering-reminder/internal/garden"
	"github.com/redpandashots/plant-watering-reminder/internal/store"
)

type settingsModel struct {
	store   *store.Store
	width   int
	height  int
	channel string

	notifications bool
	dailyCheck    bool
	hidden        []garden.Plant

	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	formNotify  *bool
	formDaily   *bool
	formRestore *[]string
}

func newSettingsModel(s *store.Store, channel string) settingsModel {
	n, d := false, false
	r := []string{}
	return settingsModel{
		store:       s,
		channel:     channel,
		formNotify:  &n,
		formDaily:   &d,
		formRestore: &r,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsDataMsg struct {
	notifications bool
	dailyCheck    bool
	hidden        []garden.Plant
}

func (s settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		notifications, err := s.store.NotificationsEnabled()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Settings error: %v", err), isError: true}
		}
		daily, err := s.store.DailyCheck()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Settings error: %v", err), isError: true}
		}
		ids, err := s.store.HiddenPlantIDs()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Settings error: %v", err), isError: true}
		}
		var hidden []garden.Plant
		for _, id := range ids {
			if p, ok := garden.BuiltinByID(id); ok {
				hidden = append(hidden, p)
			}
		}
		return settingsDataMsg{notifications: notifications, dailyCheck: daily, hidden: hidden}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		s.notifications = msg.notifications
		s.dailyCheck = msg.dailyCheck
		s.hidden = msg.hidden
		return s, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Enter) {
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	*s.formNotify = s.notifications
	*s.formDaily = s.dailyCheck
	*s.formRestore = []string{}

	groups := []*huh.Group{
		huh.NewGroup(
			huh.NewConfirm().
				Title("Watering reminders").
				Description("Send a reminder when plants are due").
				Affirmative("On").
				Negative("Off").
				Value(s.formNotify),
			huh.NewConfirm().
				Title("Daily check").
				Description("Re-check for due plants every interval while running").
				Affirmative("On").
				Negative("Off").
				Value(s.formDaily),
		).Title("Notifications"),
	}

	if len(s.hidden) > 0 {
		opts := make([]huh.Option[string], 0, len(s.hidden))
		for _, p := range s.hidden {
			opts = append(opts, huh.NewOption(plantLabel(p), p.ID))
		}
		groups = append(groups, huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Restore removed plants").
				Options(opts...).
				Value(s.formRestore),
		).Title("Plants"))
	}

	s.form = huh.NewForm(groups...).WithShowHelp(true).WithShowErrors(true)
	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		return s, s.save(*s.formNotify, *s.formDaily, *s.formRestore)
	}

	return s, cmd
}

func (s settingsModel) save(notifications, daily bool, restore []string) tea.Cmd {
	return func() tea.Msg {
		if err := s.store.SetNotificationsEnabled(notifications); err != nil {
			return statusMsg{text: fmt.Sprintf("Save error: %v", err), isError: true}
		}
		if err := s.store.SetDailyCheck(daily); err != nil {
			return statusMsg{text: fmt.Sprintf("Save error: %v", err), isError: true}
		}
		for _, id := range restore {
			if err := s.store.UnhidePlant(id); err != nil {
				return statusMsg{text: fmt.Sprintf("Restore error: %v", err), isError: true}
			}
		}
		return dataChangedMsg{text: "Settings saved"}
	}
}

func onOff(on bool) string {
	if on {
		return successStyle.Render("on")
	}
	return mutedStyle.Render("off")
}

func (s settingsModel) view() string {
	w := s.width - 4
	title := titleStyle.Render("Settings")

	if s.formActive && s.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View()),
		)
	}

	label := lipgloss.NewStyle().Width(24)
	rows := []string{
		title,
		"",
		fmt.Sprintf("  %s %s", label.Render("Watering reminders"), onOff(s.notifications)),
		fmt.Sprintf("  %s %s", label.Render("Daily check"), onOff(s.dailyCheck)),
		fmt.Sprintf("  %s %s", label.Render("Delivery"), highlightStyle.Render(s.channel)),
		"",
	}

	if len(s.hidden) == 0 {
		rows = append(rows, fmt.Sprintf("  %s %s", label.Render("Removed plants"), mutedStyle.Render("none")))
	} else {
		names := make([]string, 0, len(s.hidden))
		for _, p := range s.hidden {
			names = append(names, plantLabel(p))
		}
		rows = append(rows, fmt.Sprintf("  %s %s", label.Render("Removed plants"), strings.Join(names, ", ")))
	}

	rows = append(rows, "", mutedStyle.Render("Press enter to edit settings"))
	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
