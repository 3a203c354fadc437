package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/redpandashots/plant-watering-reminder/internal/garden"
)

func newPlantCommand(ac *appContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plant",
		Short: "Manage the plant list",
	}
	cmd.AddCommand(
		newPlantListCommand(ac),
		newPlantAddCommand(ac),
		newPlantRemoveCommand(ac),
		newPlantRestoreCommand(ac),
	)
	return cmd
}

func newPlantListCommand(ac *appContext) *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List plants",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			plants, err := ac.store.Plants()
			if err != nil {
				return err
			}
			hidden, err := ac.store.HiddenPlantIDs()
			if err != nil {
				return err
			}

			t := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("ID", "PLANT", "BASE", "WINTER", "SPRING", "SUMMER", "FALL", "ORIGIN")
			for _, p := range plants {
				row := []string{p.ID, p.Emoji + " " + p.Name, fmt.Sprintf("%dd", p.BaseDays)}
				for _, s := range garden.Seasons {
					row = append(row, strconv.FormatFloat(p.Multiplier(s), 'g', -1, 64))
				}
				t.Row(append(row, string(p.Origin))...)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, t.Render())
			if len(hidden) > 0 {
				fmt.Fprintf(out, "Removed built-ins: %s (restore with 'sprout plant restore <id>')\n", strings.Join(hidden, ", "))
			}
			return nil
		},
	}
}

func newPlantAddCommand(ac *appContext) *cobra.Command {
	var (
		file    string
		p       garden.Plant
		tips    []string
		seasons = make(map[garden.Season]*float64, len(garden.Seasons))
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a plant from flags or a YAML file",
		Example: `  sprout plant add --name Monstera --days 7 --winter 1.5 --tip "Bright, indirect light"
  sprout plant add --file plants.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var plants []garden.Plant
			if file != "" {
				loaded, err := garden.LoadPlantFile(file)
				if err != nil {
					return err
				}
				plants = loaded
			} else {
				if p.Name == "" {
					return errors.New("--name is required unless --file is given")
				}
				p.CareTips = tips
				p.Seasonal = make(map[garden.Season]float64)
				for s, v := range seasons {
					if cmd.Flags().Changed(string(s)) {
						if *v <= 0 {
							return fmt.Errorf("--%s must be greater than 0", s)
						}
						p.Seasonal[s] = *v
					}
				}
				plants = []garden.Plant{p}
			}

			out := cmd.OutOrStdout()
			for _, pl := range plants {
				created, err := ac.store.CreatePlant(pl)
				if err != nil {
					return fmt.Errorf("add %q: %w", pl.Name, err)
				}
				fmt.Fprintf(out, "Added %s %s (%s)\n", created.Emoji, created.Name, created.ID)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&file, "file", "f", "", "YAML file with one or more plant definitions")
	f.StringVar(&p.Name, "name", "", "plant name")
	f.StringVar(&p.Emoji, "emoji", "", "emoji shown next to the name")
	f.StringVar(&p.Color, "color", "", "display color, e.g. #2ECC71")
	f.IntVar(&p.BaseDays, "days", 7, "base watering interval in days")
	f.StringArrayVar(&tips, "tip", nil, "care tip (repeatable)")
	for _, s := range garden.Seasons {
		v := 1.0
		seasons[s] = &v
		f.Float64Var(seasons[s], string(s), 1.0, fmt.Sprintf("%s interval multiplier", s))
	}
	cmd.MarkFlagsMutuallyExclusive("file", "name")
	return cmd
}

func newPlantRemoveCommand(ac *appContext) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <plant>",
		Aliases: []string{"remove"},
		Short:   "Remove a plant and its watering history",
		Long: `Remove a plant and delete its watering history. Built-in plants are
hidden rather than deleted and can be brought back with 'sprout plant restore'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := ac.findPlant(args[0])
			if err != nil {
				return err
			}
			if err := ac.store.RemovePlant(p.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s %s\n", p.Emoji, p.Name)
			return nil
		},
	}
}

func newPlantRestoreCommand(ac *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "restore <id>",
		Short: "Bring back a removed built-in plant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, ok := garden.BuiltinByID(args[0])
			if !ok {
				return fmt.Errorf("%q is not a built-in plant", args[0])
			}
			if err := ac.store.UnhidePlant(p.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Restored %s %s\n", p.Emoji, p.Name)
			return nil
		},
	}
}
