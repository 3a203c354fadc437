package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/redpandashots/plant-watering-reminder/internal/garden"
	"github.com/redpandashots/plant-watering-reminder/internal/store"
)

type historyMode int

const (
	historyDaily historyMode = iota
	historyWeekly
)

const historyWeeks = 4

type historyModel struct {
	store  *store.Store
	width  int
	height int
	today  time.Time

	mode   historyMode
	counts []store.DailyCount
	offset int // 7-day blocks or 4-week blocks back from today (0 = current)

	chart barchart.Model
}

func newHistoryModel(s *store.Store, today time.Time) historyModel {
	return historyModel{
		store: s,
		today: today,
		chart: barchart.New(60, 12),
	}
}

func (h *historyModel) setSize(w, hh int) {
	h.width = w
	h.height = hh
}

type historyDataMsg struct {
	counts []store.DailyCount
}

func (h historyModel) refresh() tea.Cmd {
	from, to := h.dateRange()
	return func() tea.Msg {
		counts, err := h.store.GetDailyCounts(from, to)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("History error: %v", err), isError: true}
		}
		return historyDataMsg{counts: counts}
	}
}

// dateRange returns the inclusive first and last day shown.
func (h historyModel) dateRange() (time.Time, time.Time) {
	switch h.mode {
	case historyWeekly:
		// Monday of the current week, back historyWeeks-1 weeks.
		weekday := int(h.today.Weekday())
		if weekday == 0 {
			weekday = 7
		}
		thisMonday := garden.AddDays(h.today, 1-weekday)
		end := garden.AddDays(thisMonday, 6-7*historyWeeks*h.offset)
		start := garden.AddDays(end, 1-7*historyWeeks)
		return start, end
	default:
		end := garden.AddDays(h.today, -7*h.offset)
		return garden.AddDays(end, -6), end
	}
}

// buckets groups the range into bars: single days in daily mode, Monday
// weeks in weekly mode.
func (h historyModel) buckets() []historyBucket {
	from, to := h.dateRange()
	step := 1
	if h.mode == historyWeekly {
		step = 7
	}
	var out []historyBucket
	for d := from; !d.After(to); d = garden.AddDays(d, step) {
		b := historyBucket{start: d, end: garden.AddDays(d, step-1)}
		if step == 1 {
			b.label = d.Format("Mon 02")
		} else {
			b.label = d.Format("Jan 02")
		}
		out = append(out, b)
	}
	return out
}

type historyBucket struct {
	start, end time.Time
	label      string
}

func (b historyBucket) contains(day string) bool {
	d, err := garden.ParseDay(day)
	if err != nil {
		return false
	}
	return !d.Before(b.start) && !d.After(b.end)
}

func (h historyModel) update(msg tea.Msg) (historyModel, tea.Cmd) {
	switch msg := msg.(type) {
	case historyDataMsg:
		h.counts = msg.counts
		h.buildChart()
		return h, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			h.offset++
			return h, h.refresh()
		case key.Matches(msg, keys.Right):
			if h.offset > 0 {
				h.offset--
			}
			return h, h.refresh()
		case key.Matches(msg, keys.Enter):
			if h.mode == historyDaily {
				h.mode = historyWeekly
			} else {
				h.mode = historyDaily
			}
			h.offset = 0
			return h, h.refresh()
		}
	}
	return h, nil
}

func (h *historyModel) buildChart() {
	chartWidth := max(h.width-8, 20)
	chartHeight := 12
	if h.height > 30 {
		chartHeight = 16
	}

	h.chart = barchart.New(chartWidth, chartHeight)

	var bars []barchart.BarData
	for _, b := range h.buckets() {
		perPlant := make(map[string]*barchart.BarValue)
		var order []string
		for _, c := range h.counts {
			if !b.contains(c.Date) {
				continue
			}
			v, ok := perPlant[c.PlantID]
			if !ok {
				v = &barchart.BarValue{
					Name:  c.PlantName,
					Style: lipgloss.NewStyle().Foreground(lipgloss.Color(plantColor(c))),
				}
				perPlant[c.PlantID] = v
				order = append(order, c.PlantID)
			}
			v.Value += float64(c.Count)
		}

		var values []barchart.BarValue
		for _, id := range order {
			values = append(values, *perPlant[id])
		}
		if len(values) == 0 {
			values = []barchart.BarValue{{Name: "", Value: 0, Style: lipgloss.NewStyle().Foreground(colorSubtle)}}
		}
		bars = append(bars, barchart.BarData{Label: b.label, Values: values})
	}

	h.chart.PushAll(bars)
	h.chart.Draw()
}

func plantColor(c store.DailyCount) string {
	if c.PlantColor == "" {
		return string(colorMuted)
	}
	return c.PlantColor
}

// totals sums waterings per plant over the loaded range, most watered first.
func (h historyModel) totals() []store.DailyCount {
	byPlant := make(map[string]*store.DailyCount)
	for _, c := range h.counts {
		t, ok := byPlant[c.PlantID]
		if !ok {
			t = &store.DailyCount{PlantID: c.PlantID, PlantName: c.PlantName, PlantColor: c.PlantColor}
			byPlant[c.PlantID] = t
		}
		t.Count += c.Count
	}
	out := make([]store.DailyCount, 0, len(byPlant))
	for _, t := range byPlant {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].PlantName < out[j].PlantName
	})
	return out
}

func (h historyModel) view() string {
	w := h.width - 4

	dailyTab := inactiveTabStyle.Render("Daily")
	weeklyTab := inactiveTabStyle.Render("Weekly")
	if h.mode == historyDaily {
		dailyTab = activeTabStyle.Render("Daily")
	} else {
		weeklyTab = activeTabStyle.Render("Weekly")
	}
	modeTabs := lipgloss.JoinHorizontal(lipgloss.Bottom, dailyTab, weeklyTab)

	from, to := h.dateRange()
	dateLabel := mutedStyle.Render(fmt.Sprintf("%s to %s", from.Format("Jan 02"), to.Format("Jan 02, 2006")))

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("History"), "  ", modeTabs, "  ", dateLabel,
	)

	nav := mutedStyle.Render("  ←/→: navigate  enter: switch mode")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", h.chart.View(), "", h.renderTotals(w), "", nav,
		),
	)
}

func (h historyModel) renderTotals(w int) string {
	totals := h.totals()
	if len(totals) == 0 {
		return mutedStyle.Render("  No waterings in this period")
	}

	var rows []string
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-30s %10s", "Plant", "Waterings")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 42))))
	for _, t := range totals {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color(plantColor(t))).Render("●")
		rows = append(rows, fmt.Sprintf("  %s %-28s %10d", dot, t.PlantName, t.Count))
	}
	return strings.Join(rows, "\n")
}
