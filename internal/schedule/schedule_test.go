package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redpandashots/plant-watering-reminder/internal/garden"
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := garden.ParseDay(s)
	require.NoError(t, err)
	return d
}

func watered(t *testing.T, plantID string, days ...string) []garden.WateringEvent {
	t.Helper()
	var events []garden.WateringEvent
	for i, s := range days {
		events = append(events, garden.WateringEvent{
			ID:        plantID + "-" + s,
			PlantID:   plantID,
			Date:      day(t, s),
			CreatedAt: time.Date(2024, 1, 1, 12, i, 0, 0, time.UTC),
		})
	}
	return events
}

func cactus() garden.Plant {
	p, _ := garden.BuiltinByID("cactus")
	return p
}

func cayenne() garden.Plant {
	p, _ := garden.BuiltinByID("cayenne-pepper")
	return p
}

func keys(p Projection) []string {
	var out []string
	for k := range p {
		out = append(out, k)
	}
	return out
}

// ============================================================
// SeasonClassifier
// ============================================================

func TestSeasonOfEveryMonth(t *testing.T) {
	want := map[time.Month]garden.Season{
		time.January: garden.Winter, time.February: garden.Winter, time.December: garden.Winter,
		time.March: garden.Spring, time.April: garden.Spring, time.May: garden.Spring,
		time.June: garden.Summer, time.July: garden.Summer, time.August: garden.Summer,
		time.September: garden.Fall, time.October: garden.Fall, time.November: garden.Fall,
	}
	for _, year := range []int{1999, 2024, 2025, 2100} {
		for m, s := range want {
			assert.Equal(t, s, SeasonOf(garden.NewDay(year, m, 15)), "%d-%02d", year, m)
			assert.Equal(t, s, SeasonOf(garden.NewDay(year, m, 1)), "%d-%02d first day", year, m)
		}
	}
}

func TestSeasonOfUsesWallClockMonth(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	// 2024-03-01 00:30 local is still February in UTC.
	local := time.Date(2024, time.March, 1, 0, 30, 0, 0, loc)
	assert.Equal(t, garden.Spring, SeasonOf(local))
	assert.Equal(t, garden.Spring, SeasonOf(garden.DayOf(local)))
}

// ============================================================
// IntervalCalculator
// ============================================================

func TestAdjustedIntervalNoAdjustment(t *testing.T) {
	p := cayenne()
	for m := time.January; m <= time.December; m++ {
		assert.Equal(t, 10, AdjustedInterval(p, garden.NewDay(2024, m, 10)))
	}
}

func TestAdjustedIntervalSeasonal(t *testing.T) {
	p := cactus()
	assert.Equal(t, 32, AdjustedInterval(p, day(t, "2024-01-01")), "21*1.5=31.5 rounds up")
	assert.Equal(t, 21, AdjustedInterval(p, day(t, "2024-04-01")))
	assert.Equal(t, 17, AdjustedInterval(p, day(t, "2024-07-01")), "21*0.8=16.8")
	assert.Equal(t, 21, AdjustedInterval(p, day(t, "2024-10-01")))

	cyclamen, _ := garden.BuiltinByID("cyclamen")
	assert.Equal(t, 3, AdjustedInterval(cyclamen, day(t, "2024-07-01")))
}

func TestAdjustedIntervalMissingSeasonDefaultsToOne(t *testing.T) {
	p := garden.Plant{ID: "fern", BaseDays: 7, Seasonal: map[garden.Season]float64{garden.Winter: 2}}
	assert.Equal(t, 14, AdjustedInterval(p, day(t, "2024-01-10")))
	assert.Equal(t, 7, AdjustedInterval(p, day(t, "2024-05-10")))

	p.Seasonal = nil
	assert.Equal(t, 7, AdjustedInterval(p, day(t, "2024-01-10")))
}

func TestAdjustedIntervalClampsToOneDay(t *testing.T) {
	zero := garden.Plant{ID: "z", BaseDays: 10, Seasonal: map[garden.Season]float64{garden.Summer: 0}}
	assert.Equal(t, 1, AdjustedInterval(zero, day(t, "2024-07-01")))

	tiny := garden.Plant{ID: "t", BaseDays: 1, Seasonal: map[garden.Season]float64{garden.Summer: 0.2}}
	assert.Equal(t, 1, AdjustedInterval(tiny, day(t, "2024-07-01")))

	negative := garden.Plant{ID: "n", BaseDays: -5}
	assert.Equal(t, 1, AdjustedInterval(negative, day(t, "2024-07-01")))
}

// ============================================================
// ScheduleEngine
// ============================================================

func TestStatusNeverTracked(t *testing.T) {
	events := watered(t, "cactus", "2024-01-01")
	st := StatusOf(cayenne(), events, day(t, "2024-02-10"))

	assert.False(t, st.Tracked)
	assert.Equal(t, NeverTracked, st.Category)
	assert.True(t, st.NextDue.IsZero())
	assert.Zero(t, st.DaysUntil)
	assert.Zero(t, st.DaysOverdue())
	assert.Equal(t, 10, st.CurrentInterval)
}

func TestStatusCactusOverdue(t *testing.T) {
	st := StatusOf(cactus(), watered(t, "cactus", "2024-01-01"), day(t, "2024-02-10"))

	require.True(t, st.Tracked)
	assert.Equal(t, day(t, "2024-01-01"), st.LastWatered)
	assert.Equal(t, day(t, "2024-02-02"), st.NextDue)
	assert.Equal(t, -8, st.DaysUntil)
	assert.Equal(t, Overdue, st.Category)
	assert.Equal(t, 8, st.DaysOverdue())
	assert.True(t, st.IsDue())
}

func TestStatusCayenneCategories(t *testing.T) {
	events := watered(t, "cayenne-pepper", "2024-06-01")
	tests := []struct {
		obs       string
		category  Category
		daysUntil int
	}{
		{"2024-06-11", DueToday, 0},
		{"2024-06-10", DueSoon, 1},
		{"2024-06-09", DueSoon, 2},
		{"2024-06-08", OK, 3},
		{"2024-06-05", OK, 6},
		{"2024-06-12", Overdue, -1},
	}
	for _, tt := range tests {
		t.Run(tt.obs, func(t *testing.T) {
			st := StatusOf(cayenne(), events, day(t, tt.obs))
			assert.Equal(t, day(t, "2024-06-11"), st.NextDue)
			assert.Equal(t, tt.category, st.Category)
			assert.Equal(t, tt.daysUntil, st.DaysUntil)
		})
	}
}

func TestStatusUsesLastWateredSeason(t *testing.T) {
	// Watered in late February (winter), observed in March (spring):
	// the winter multiplier governs the gap.
	st := StatusOf(cactus(), watered(t, "cactus", "2024-02-20"), day(t, "2024-03-05"))
	assert.Equal(t, 32, st.Interval)
	assert.Equal(t, 21, st.CurrentInterval)
	assert.Equal(t, day(t, "2024-03-23"), st.NextDue)
}

func TestStatusTakesLatestOfUnorderedDuplicates(t *testing.T) {
	events := watered(t, "cayenne-pepper", "2024-06-05", "2024-06-01", "2024-06-05", "2024-05-20")
	st := StatusOf(cayenne(), events, day(t, "2024-06-10"))
	assert.Equal(t, day(t, "2024-06-05"), st.LastWatered)
	assert.Equal(t, day(t, "2024-06-15"), st.NextDue)
}

func TestStatusObservationTimeOfDayIgnored(t *testing.T) {
	events := watered(t, "cayenne-pepper", "2024-06-01")
	late := time.Date(2024, time.June, 11, 23, 59, 0, 0, time.Local)
	st := StatusOf(cayenne(), events, late)
	assert.Equal(t, DueToday, st.Category)
}

func TestWateredOnToggleRoundTrip(t *testing.T) {
	d := day(t, "2024-06-11")
	var history []garden.WateringEvent
	assert.False(t, WateredOn("cactus", history, d))

	history = append(history, garden.WateringEvent{ID: "e1", PlantID: "cactus", Date: d})
	assert.True(t, WateredOn("cactus", history, d))
	assert.False(t, WateredOn("cactus", history, garden.AddDays(d, 1)))
	assert.False(t, WateredOn("cyclamen", history, d))

	var kept []garden.WateringEvent
	for _, e := range history {
		if !(e.PlantID == "cactus" && e.Date.Equal(d)) {
			kept = append(kept, e)
		}
	}
	assert.False(t, WateredOn("cactus", kept, d))
}

func TestDueFiltersStatuses(t *testing.T) {
	events := append(watered(t, "cactus", "2024-01-01"), watered(t, "cayenne-pepper", "2024-02-05")...)
	statuses := Statuses([]garden.Plant{cactus(), cayenne()}, events, day(t, "2024-02-10"))
	due := Due(statuses)
	require.Len(t, due, 1)
	assert.Equal(t, "cactus", due[0].ID)
}

func TestOrphanEventsIgnored(t *testing.T) {
	events := watered(t, "deleted-plant", "2024-06-01")
	proj := ProjectDueDates([]garden.Plant{cayenne()}, events, MonthWindow(2024, time.June))
	assert.Empty(t, proj)
	assert.Empty(t, WateredInWindow([]garden.Plant{cayenne()}, events, MonthWindow(2024, time.June)))
}

// ============================================================
// CalendarProjector
// ============================================================

func TestProjectionAcrossSeasonBoundary(t *testing.T) {
	p := garden.Plant{
		ID:       "boundary",
		BaseDays: 10,
		Seasonal: map[garden.Season]float64{garden.Winter: 2.0, garden.Spring: 1.0},
	}
	events := watered(t, p.ID, "2024-02-25")

	dates := DueDates(p, events, Window{Start: day(t, "2024-02-01"), End: day(t, "2024-04-10")})
	require.Len(t, dates, 3)
	assert.Equal(t, day(t, "2024-03-16"), dates[0])
	assert.Equal(t, day(t, "2024-03-26"), dates[1])
	assert.Equal(t, day(t, "2024-04-05"), dates[2])

	proj := ProjectDueDates([]garden.Plant{p}, events, MonthWindow(2024, time.March))
	assert.ElementsMatch(t, []string{"2024-03-16", "2024-03-26"}, keys(proj))
}

func TestProjectionPastAndFarFuture(t *testing.T) {
	events := watered(t, "cayenne-pepper", "2024-06-01")

	// A month before the last watering has nothing projected.
	assert.Empty(t, ProjectDueDates([]garden.Plant{cayenne()}, events, MonthWindow(2024, time.May)))

	// Far beyond any fixed horizon the chain still lands on 10-day steps.
	proj := ProjectDueDates([]garden.Plant{cayenne()}, events, MonthWindow(2035, time.January))
	require.NotEmpty(t, proj)
	for k := range proj {
		d := day(t, k)
		assert.Zero(t, garden.DaysBetween(day(t, "2024-06-01"), d)%10, k)
	}
}

func TestProjectionNeverWateredContributesNothing(t *testing.T) {
	proj := ProjectDueDates([]garden.Plant{cactus(), cayenne()}, nil, MonthWindow(2024, time.June))
	assert.Empty(t, proj)
}

func TestProjectionInvertedWindowIsEmpty(t *testing.T) {
	events := watered(t, "cayenne-pepper", "2024-06-01")
	w := Window{Start: day(t, "2024-07-01"), End: day(t, "2024-06-01")}
	assert.True(t, w.Empty())
	assert.Empty(t, ProjectDueDates([]garden.Plant{cayenne()}, events, w))
	assert.Empty(t, WateredInWindow([]garden.Plant{cayenne()}, events, w))
}

func TestProjectionStrictlyIncreasing(t *testing.T) {
	plants := append(garden.Catalog(), garden.Plant{
		ID: "zero", BaseDays: 3, Seasonal: map[garden.Season]float64{garden.Winter: 0},
	})
	w := Window{Start: day(t, "2024-01-01"), End: day(t, "2025-12-31")}
	for _, p := range plants {
		events := watered(t, p.ID, "2023-12-20")
		dates := DueDates(p, events, w)
		require.NotEmpty(t, dates, p.ID)
		for i := 1; i < len(dates); i++ {
			assert.True(t, dates[i].After(dates[i-1]), "%s step %d", p.ID, i)
		}
	}
}

func TestProjectionZeroMultiplierTerminates(t *testing.T) {
	p := garden.Plant{ID: "zero", BaseDays: 5, Seasonal: map[garden.Season]float64{garden.Summer: 0}}
	dates := DueDates(p, watered(t, p.ID, "2024-06-30"), MonthWindow(2024, time.July))
	assert.Len(t, dates, 31)
}

func TestProjectionIdempotent(t *testing.T) {
	plants := garden.Catalog()
	events := append(watered(t, "cactus", "2024-01-01"), watered(t, "cyclamen", "2024-05-28", "2024-05-20")...)
	w := MonthWindow(2024, time.July)

	first := ProjectDueDates(plants, events, w)
	second := ProjectDueDates(plants, events, w)
	assert.Equal(t, first, second)
}

func TestProjectionPlantOrderPreserved(t *testing.T) {
	a := garden.Plant{ID: "a", BaseDays: 5}
	b := garden.Plant{ID: "b", BaseDays: 5}
	events := append(watered(t, "b", "2024-06-01"), watered(t, "a", "2024-06-01")...)
	proj := ProjectDueDates([]garden.Plant{a, b}, events, MonthWindow(2024, time.June))
	got := proj.On(day(t, "2024-06-06"))
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "b", got[1].ID)
}

func TestWateredInWindowCollapsesDuplicates(t *testing.T) {
	events := watered(t, "cactus", "2024-06-03", "2024-06-03", "2024-05-31")
	proj := WateredInWindow([]garden.Plant{cactus()}, events, MonthWindow(2024, time.June))
	assert.Len(t, proj.On(day(t, "2024-06-03")), 1)
	assert.Empty(t, proj.On(day(t, "2024-05-31")))
}

// ============================================================
// Month grid
// ============================================================

func TestGridWindowMondayStart(t *testing.T) {
	gw := GridWindow(2024, time.March)
	assert.Equal(t, day(t, "2024-02-26"), gw.Start)
	assert.Equal(t, day(t, "2024-03-31"), gw.End)
	assert.Equal(t, time.Monday, gw.Start.Weekday())
	assert.Equal(t, time.Sunday, gw.End.Weekday())

	gw = GridWindow(2024, time.September)
	assert.Equal(t, day(t, "2024-08-26"), gw.Start)
	assert.Equal(t, day(t, "2024-10-06"), gw.End)
}

func TestBuildMonthLayout(t *testing.T) {
	grid := BuildMonth(nil, nil, 2024, time.March, day(t, "2024-03-13"))
	require.Len(t, grid.Weeks, 5)
	for _, w := range grid.Weeks {
		require.Len(t, w, 7)
		assert.Equal(t, time.Monday, w[0].Date.Weekday())
	}
	assert.False(t, grid.Weeks[0][0].InMonth)
	assert.True(t, grid.Weeks[0][4].InMonth)

	c, ok := grid.Cell(day(t, "2024-03-13"))
	require.True(t, ok)
	assert.True(t, c.Today)
}

func TestBuildMonthWateredTakesPrecedence(t *testing.T) {
	p := cayenne()
	// 06-01 alone would put 06-11 on the due chain; 06-11 is also watered.
	events := watered(t, p.ID, "2024-06-01", "2024-06-11")
	grid := BuildMonth([]garden.Plant{p}, events, 2024, time.June, day(t, "2024-06-15"))

	c, ok := grid.Cell(day(t, "2024-06-11"))
	require.True(t, ok)
	assert.Equal(t, "watered", c.State())
	assert.Empty(t, c.Due)

	c, _ = grid.Cell(day(t, "2024-06-21"))
	assert.Equal(t, "due", c.State())
	require.Len(t, c.Due, 1)
	assert.Equal(t, p.ID, c.Due[0].ID)
}

func TestBuildMonthPaddingShowsNoDue(t *testing.T) {
	p := garden.Plant{ID: "p", BaseDays: 2}
	events := watered(t, p.ID, "2024-02-20")
	grid := BuildMonth([]garden.Plant{p}, events, 2024, time.March, day(t, "2024-03-01"))

	c, ok := grid.Cell(day(t, "2024-02-26"))
	require.True(t, ok)
	assert.False(t, c.InMonth)
	assert.Empty(t, c.Due)

	c, _ = grid.Cell(day(t, "2024-03-01"))
	assert.Len(t, c.Due, 1)
}

func TestStatusLabel(t *testing.T) {
	tests := []struct {
		name string
		st   Status
		want string
	}{
		{"never", Status{Category: NeverTracked}, "Not tracked yet"},
		{"overdue", Status{Tracked: true, Category: Overdue, DaysUntil: -3}, "3 days overdue"},
		{"overdue one", Status{Tracked: true, Category: Overdue, DaysUntil: -1}, "1 day overdue"},
		{"today", Status{Tracked: true, Category: DueToday}, "Due today!"},
		{"tomorrow", Status{Tracked: true, Category: DueSoon, DaysUntil: 1}, "Due tomorrow"},
		{"soon", Status{Tracked: true, Category: DueSoon, DaysUntil: 2}, "Due in 2 days"},
		{"ok", Status{Tracked: true, Category: OK, DaysUntil: 9}, "Due in 9 days"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.st.Label())
		})
	}
}

