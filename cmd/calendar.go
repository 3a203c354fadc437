package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/redpandashots/plant-watering-reminder/internal/garden"
	"github.com/redpandashots/plant-watering-reminder/internal/schedule"
)

func newCalendarCommand(ac *appContext) *cobra.Command {
	var month string
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Print a month of waterings and projected due dates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			today := garden.Today()
			year, m := today.Year(), today.Month()
			if month != "" {
				t, err := time.Parse("2006-01", month)
				if err != nil {
					return fmt.Errorf("invalid month %q: want YYYY-MM", month)
				}
				year, m = t.Year(), t.Month()
			}

			snap, err := ac.store.Snapshot()
			if err != nil {
				return err
			}
			g := schedule.BuildMonth(snap.Plants, snap.Events, year, m, today)
			renderMonth(cmd.OutOrStdout(), g)
			return nil
		},
	}
	cmd.Flags().StringVar(&month, "month", "", "month to show, YYYY-MM (default current)")
	return cmd
}

// renderMonth prints a Monday-first grid followed by the month's agenda.
// Days marked * have a plant due, days marked + had a watering.
func renderMonth(w io.Writer, g schedule.MonthGrid) {
	first := garden.NewDay(g.Year, g.Month, 1)
	fmt.Fprintf(w, "%s (%s)\n", first.Format("January 2006"), schedule.SeasonOf(first))
	fmt.Fprintln(w, " Mo  Tu  We  Th  Fr  Sa  Su")

	for _, week := range g.Weeks {
		var b strings.Builder
		for _, c := range week {
			if !c.InMonth {
				b.WriteString("    ")
				continue
			}
			mark := " "
			switch c.State() {
			case "watered":
				mark = "+"
			case "due":
				mark = "*"
			}
			fmt.Fprintf(&b, "%3d%s", c.Date.Day(), mark)
		}
		fmt.Fprintln(w, strings.TrimRight(b.String(), " "))
	}

	fmt.Fprintln(w)
	listed := false
	for _, week := range g.Weeks {
		for _, c := range week {
			if !c.InMonth || (len(c.Watered) == 0 && len(c.Due) == 0) {
				continue
			}
			listed = true
			var parts []string
			if len(c.Watered) > 0 {
				parts = append(parts, "watered "+plantNames(c.Watered))
			}
			if len(c.Due) > 0 {
				parts = append(parts, "due "+plantNames(c.Due))
			}
			fmt.Fprintf(w, "%s  %s\n", c.Date.Format("Mon Jan 02"), strings.Join(parts, "; "))
		}
	}
	if !listed {
		fmt.Fprintln(w, "Nothing watered or due this month.")
	}
}

func plantNames(plants []garden.Plant) string {
	names := make([]string, len(plants))
	for i, p := range plants {
		names[i] = p.Name
	}
	return strings.Join(names, ", ")
}
