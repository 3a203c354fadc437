package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/redpandashots/plant-watering-reminder/internal/garden"
	"github.com/redpandashots/plant-watering-reminder/internal/schedule"
	"github.com/redpandashots/plant-watering-reminder/internal/store"
)

var plantEmojis = []string{"🪴", "🌿", "🌵", "🌸", "🌺", "🌻", "🌷", "🌱", "🍅", "🌶️"}

type plantsModel struct {
	store  *store.Store
	width  int
	height int
	today  time.Time

	statuses     []schedule.Status
	wateredToday map[string]bool
	cursor       int
	showTips     bool

	formActive bool
	form       *huh.Form
	formType   string // "new", "remove"

	// Form field pointers (survive value copies)
	formName    *string
	formEmoji   *string
	formColor   *string
	formBase    *string
	formSeasons map[garden.Season]*string
	formTips    *string
	formConfirm *bool

	removing garden.Plant
}

func newPlantsModel(s *store.Store, today time.Time) plantsModel {
	name, emoji, color, base, tips := "", plantEmojis[0], garden.Palette[0], "", ""
	confirm := false
	seasons := make(map[garden.Season]*string, len(garden.Seasons))
	for _, s := range garden.Seasons {
		v := "1.0"
		seasons[s] = &v
	}
	return plantsModel{
		store:       s,
		today:       today,
		formName:    &name,
		formEmoji:   &emoji,
		formColor:   &color,
		formBase:    &base,
		formSeasons: seasons,
		formTips:    &tips,
		formConfirm: &confirm,
	}
}

func (p *plantsModel) setSize(w, h int) {
	p.width = w
	p.height = h
}

type plantsDataMsg struct {
	statuses     []schedule.Status
	wateredToday map[string]bool
}

func (p plantsModel) refresh() tea.Cmd {
	today := p.today
	return func() tea.Msg {
		snap, err := p.store.Snapshot()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Load error: %v", err), isError: true}
		}
		watered := make(map[string]bool)
		for _, pl := range snap.Plants {
			watered[pl.ID] = schedule.WateredOn(pl.ID, snap.Events, today)
		}
		return plantsDataMsg{
			statuses:     schedule.Statuses(snap.Plants, snap.Events, today),
			wateredToday: watered,
		}
	}
}

func (p plantsModel) selected() (schedule.Status, bool) {
	if p.cursor < 0 || p.cursor >= len(p.statuses) {
		return schedule.Status{}, false
	}
	return p.statuses[p.cursor], true
}

func (p plantsModel) update(msg tea.Msg) (plantsModel, tea.Cmd) {
	if p.formActive && p.form != nil {
		return p.updateForm(msg)
	}

	switch msg := msg.(type) {
	case plantsDataMsg:
		p.statuses = msg.statuses
		p.wateredToday = msg.wateredToday
		if p.cursor >= len(p.statuses) {
			p.cursor = max(0, len(p.statuses)-1)
		}
		return p, nil

	case tea.KeyMsg:
		return p.updateList(msg)
	}
	return p, nil
}

func (p plantsModel) updateList(msg tea.KeyMsg) (plantsModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if p.cursor > 0 {
			p.cursor--
		}
	case key.Matches(msg, keys.Down):
		if p.cursor < len(p.statuses)-1 {
			p.cursor++
		}
	case key.Matches(msg, keys.Water), key.Matches(msg, keys.Enter):
		if st, ok := p.selected(); ok {
			return p, p.toggleWatered(st.Plant)
		}
	case key.Matches(msg, keys.Tips):
		p.showTips = !p.showTips
	case key.Matches(msg, keys.New):
		return p.showNewPlantForm()
	case key.Matches(msg, keys.Delete):
		if st, ok := p.selected(); ok {
			return p.showRemoveForm(st.Plant)
		}
	}
	return p, nil
}

func (p plantsModel) toggleWatered(pl garden.Plant) tea.Cmd {
	day := p.today
	return func() tea.Msg {
		on, err := p.store.ToggleWatered(pl.ID, day)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Water error: %v", err), isError: true}
		}
		return wateredMsg{plant: pl, date: day, watered: on}
	}
}

func (p plantsModel) showNewPlantForm() (plantsModel, tea.Cmd) {
	*p.formName = ""
	*p.formEmoji = plantEmojis[0]
	*p.formColor = garden.Palette[0]
	*p.formBase = "7"
	*p.formTips = ""
	for _, s := range garden.Seasons {
		*p.formSeasons[s] = "1.0"
	}
	p.formType = "new"

	emojiOptions := make([]huh.Option[string], len(plantEmojis))
	for i, e := range plantEmojis {
		emojiOptions[i] = huh.NewOption(e, e)
	}
	colorOptions := make([]huh.Option[string], len(garden.Palette))
	for i, c := range garden.Palette {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color(c)).Render("●")
		colorOptions[i] = huh.NewOption(fmt.Sprintf("%s %s", dot, c), c)
	}

	seasonInputs := make([]huh.Field, 0, len(garden.Seasons))
	for _, s := range garden.Seasons {
		seasonInputs = append(seasonInputs, huh.NewInput().
			Title(titleCaser.String(string(s))+" multiplier").
			Value(p.formSeasons[s]).
			Validate(validateMultiplier))
	}

	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Plant Name").Value(p.formName).Validate(validateName),
			huh.NewSelect[string]().Title("Emoji").Options(emojiOptions...).Value(p.formEmoji),
			huh.NewSelect[string]().Title("Color").Options(colorOptions...).Value(p.formColor),
			huh.NewInput().Title("Water every (days)").Value(p.formBase).Validate(validateBaseDays),
		).Title("Plant"),
		huh.NewGroup(seasonInputs...).Title("Seasonal adjustment"),
		huh.NewGroup(
			huh.NewText().Title("Care tips (one per line)").Value(p.formTips),
		),
	).WithShowHelp(true).WithShowErrors(true)

	p.formActive = true
	return p, p.form.Init()
}

func (p plantsModel) showRemoveForm(pl garden.Plant) (plantsModel, tea.Cmd) {
	*p.formConfirm = false
	p.formType = "remove"
	p.removing = pl

	desc := "Its watering history will be deleted."
	if pl.IsBuiltin() {
		desc = "It will be hidden on this device and its watering history deleted. Restore it from Settings."
	}

	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Remove %s?", plantLabel(pl))).
				Description(desc).
				Affirmative("Remove").
				Negative("Keep").
				Value(p.formConfirm),
		),
	).WithShowHelp(true)

	p.formActive = true
	return p, p.form.Init()
}

func (p plantsModel) updateForm(msg tea.Msg) (plantsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			p.formActive = false
			p.form = nil
			return p, nil
		}
	}

	form, cmd := p.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		p.form = f
	}

	if p.form.State == huh.StateCompleted {
		p.formActive = false
		switch p.formType {
		case "new":
			return p, p.createPlant(p.formPlant())
		case "remove":
			if *p.formConfirm {
				return p, p.removePlant(p.removing)
			}
		}
		return p, nil
	}

	return p, cmd
}

// formPlant builds a plant from the form fields. Values were validated by
// the form, so parse errors fall back to defaults.
func (p plantsModel) formPlant() garden.Plant {
	base, _ := strconv.Atoi(strings.TrimSpace(*p.formBase))
	pl := garden.Plant{
		Name:     *p.formName,
		Emoji:    *p.formEmoji,
		Color:    *p.formColor,
		BaseDays: base,
		Seasonal: make(map[garden.Season]float64, len(garden.Seasons)),
		CareTips: splitLines(*p.formTips),
	}
	for _, s := range garden.Seasons {
		m, err := parseMultiplier(*p.formSeasons[s])
		if err != nil {
			m = 1.0
		}
		pl.Seasonal[s] = m
	}
	return pl
}

func (p plantsModel) createPlant(pl garden.Plant) tea.Cmd {
	return func() tea.Msg {
		created, err := p.store.CreatePlant(pl)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Create error: %v", err), isError: true}
		}
		return plantChangedMsg{text: "Added " + plantLabel(*created)}
	}
}

func (p plantsModel) removePlant(pl garden.Plant) tea.Cmd {
	return func() tea.Msg {
		if err := p.store.RemovePlant(pl.ID); err != nil {
			return statusMsg{text: fmt.Sprintf("Remove error: %v", err), isError: true}
		}
		return plantChangedMsg{text: "Removed " + plantLabel(pl)}
	}
}

// plantChangedMsg reports a plant list change; views reload on it.
type plantChangedMsg struct {
	text string
}

func validateName(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("name is required")
	}
	return nil
}

func validateBaseDays(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return errors.New("enter a whole number of days greater than 0")
	}
	return nil
}

func validateMultiplier(s string) error {
	_, err := parseMultiplier(s)
	return err
}

// parseMultiplier accepts a positive decimal; blank means 1.0.
func parseMultiplier(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 1.0, nil
	}
	m, err := strconv.ParseFloat(s, 64)
	if err != nil || m <= 0 {
		return 0, errors.New("enter a number greater than 0, e.g. 1.5")
	}
	return m, nil
}

func splitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

func (p plantsModel) view() string {
	if p.formActive && p.form != nil {
		title := titleStyle.Render("New Plant")
		if p.formType == "remove" {
			title = titleStyle.Render("Remove Plant")
		}
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", p.form.View())
		return panelStyle.Width(p.width - 4).Render(content)
	}

	list := p.renderPlantList()
	if p.showTips {
		return lipgloss.JoinVertical(lipgloss.Left, list, p.renderTips())
	}
	return list
}

func (p plantsModel) renderPlantList() string {
	w := p.width - 4
	title := titleStyle.Render("Plants")

	if len(p.statuses) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No plants. Press n to add one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title, "")
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-3s %-28s %-18s %-22s %-14s %-10s",
		"", "Name", "Status", "Last watered", "Next", "Every")))

	for i, st := range p.statuses {
		cursor := "  "
		style := normalItemStyle
		if i == p.cursor {
			cursor = "> "
			style = selectedItemStyle
		}

		last, next := "never", "-"
		if st.Tracked {
			last = fmt.Sprintf("%s (%s)", shortDate(st.LastWatered, p.today), relDay(st.LastWatered, p.today))
			next = shortDate(st.NextDue, p.today)
		}
		badge := statusStyle(st).Render(fmt.Sprintf("%-18s", st.Label()))

		row := style.Render(fmt.Sprintf("%s%s %-28s ", cursor, plantDot(st.Plant), plantLabel(st.Plant))) +
			badge + " " +
			fmt.Sprintf("%-22s %-14s %-10s ", last, next, fmt.Sprintf("%d days", st.CurrentInterval)) +
			wateredButton(p.wateredToday[st.Plant.ID])
		rows = append(rows, row)
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  w/enter: toggle watered today  n: new  d: remove  t: care tips"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (p plantsModel) renderTips() string {
	w := p.width - 4
	st, ok := p.selected()
	if !ok {
		return ""
	}
	title := titleStyle.Render(fmt.Sprintf("Care Tips: %s", plantLabel(st.Plant)))

	var seasons []string
	for _, s := range garden.Seasons {
		days := schedule.AdjustedInterval(st.Plant, seasonSample(s, p.today))
		seasons = append(seasons, fmt.Sprintf("%s %dd", titleCaser.String(string(s)), days))
	}

	rows := []string{title, mutedStyle.Render("  " + strings.Join(seasons, "  ·  ")), ""}
	if len(st.Plant.CareTips) == 0 {
		rows = append(rows, mutedStyle.Render("  No care tips for this plant."))
	}
	for _, tip := range st.Plant.CareTips {
		rows = append(rows, "  • "+tip)
	}
	return activePanelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

// seasonSample returns a day in today's year that falls in s.
func seasonSample(s garden.Season, today time.Time) time.Time {
	month := map[garden.Season]time.Month{
		garden.Winter: time.January,
		garden.Spring: time.April,
		garden.Summer: time.July,
		garden.Fall:   time.October,
	}[s]
	return garden.NewDay(today.Year(), month, 15)
}
