package cmd

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/redpandashots/plant-watering-reminder/internal/garden"
	"github.com/redpandashots/plant-watering-reminder/internal/schedule"
)

func newStatusCommand(ac *appContext) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show when each plant is due",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			day, err := parseDay(date)
			if err != nil {
				return err
			}
			snap, err := ac.store.Snapshot()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s)\n", day.Format("Monday, Jan 2 2006"), schedule.SeasonOf(day))
			fmt.Fprintln(out, statusTable(schedule.Statuses(snap.Plants, snap.Events, day), day).Render())
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "observation date, YYYY-MM-DD (default today)")
	return cmd
}

func statusTable(statuses []schedule.Status, day time.Time) *table.Table {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("PLANT", "STATUS", "LAST WATERED", "NEXT DUE", "EVERY")
	for _, st := range statuses {
		last, next := "-", "-"
		if st.Tracked {
			last = garden.FormatDay(st.LastWatered)
			next = garden.FormatDay(st.NextDue)
		}
		t.Row(
			st.Plant.Emoji+" "+st.Plant.Name,
			st.Label(),
			last,
			next,
			fmt.Sprintf("%d days", schedule.AdjustedInterval(st.Plant, day)),
		)
	}
	return t
}

func newWaterCommand(ac *appContext) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "water <plant>",
		Short: "Record that a plant was watered",
		Long:  "Record a watering. The plant is an id or a case-insensitive name.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := parseDay(date)
			if err != nil {
				return err
			}
			p, err := ac.findPlant(args[0])
			if err != nil {
				return err
			}
			if _, err := ac.store.MarkWatered(p.ID, day); err != nil {
				return err
			}

			snap, err := ac.store.Snapshot()
			if err != nil {
				return err
			}
			st := schedule.StatusOf(*p, snap.Events, garden.Today())
			fmt.Fprintf(cmd.OutOrStdout(), "Watered %s %s on %s. Next watering %s.\n",
				p.Emoji, p.Name, garden.FormatDay(day), garden.FormatDay(st.NextDue))
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "watering date, YYYY-MM-DD (default today)")
	return cmd
}

func newUnwaterCommand(ac *appContext) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "unwater <plant>",
		Short: "Remove the waterings recorded for a plant on a day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := parseDay(date)
			if err != nil {
				return err
			}
			p, err := ac.findPlant(args[0])
			if err != nil {
				return err
			}
			n, err := ac.store.UnmarkWatered(p.ID, day)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if n == 0 {
				fmt.Fprintf(out, "%s was not watered on %s.\n", p.Name, garden.FormatDay(day))
				return nil
			}
			fmt.Fprintf(out, "Removed watering of %s on %s.\n", p.Name, garden.FormatDay(day))
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "watering date, YYYY-MM-DD (default today)")
	return cmd
}
