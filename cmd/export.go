package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/redpandashots/plant-watering-reminder/internal/export"
	"github.com/redpandashots/plant-watering-reminder/internal/garden"
	"github.com/redpandashots/plant-watering-reminder/internal/store"
)

func newExportCommand(ac *appContext) *cobra.Command {
	var format, outPath, plant string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the watering history as CSV or JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format = strings.ToLower(format)
			if format != "csv" && format != "json" {
				return fmt.Errorf("unknown format %q: want csv or json", format)
			}
			if outPath == "" {
				outPath = fmt.Sprintf("sprout-export-%s.%s", garden.FormatDay(garden.Today()), format)
			}

			var f store.WateringFilter
			if plant != "" {
				p, err := ac.findPlant(plant)
				if err != nil {
					return err
				}
				f.PlantID = p.ID
			}
			events, err := ac.store.ListWaterings(f)
			if err != nil {
				return err
			}
			plants, err := ac.store.PlantIndex()
			if err != nil {
				return err
			}

			if format == "csv" {
				err = export.ToCSV(events, plants, outPath)
			} else {
				err = export.ToJSON(events, plants, outPath)
			}
			if err != nil {
				return err
			}
			ac.log.Info("exported waterings", "path", outPath, "count", len(events), "format", format)
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d waterings to %s\n", len(events), outPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "csv", "csv or json")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default sprout-export-<date>.<format>)")
	cmd.Flags().StringVar(&plant, "plant", "", "only export this plant")
	return cmd
}
