package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/redpandashots/plant-watering-reminder/internal/garden"
	"github.com/redpandashots/plant-watering-reminder/internal/schedule"
)

// ToCSV writes the watering history to path, one event per row, in the
// order given. Events whose plant is not in plants are labelled "Unknown".
func ToCSV(events []garden.WateringEvent, plants map[string]garden.Plant, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"ID", "Plant ID", "Plant", "Date", "Season", "Recorded At"}); err != nil {
		return err
	}

	for _, e := range events {
		row := []string{
			e.ID,
			e.PlantID,
			plantName(plants, e.PlantID),
			garden.FormatDay(e.Date),
			string(schedule.SeasonOf(e.Date)),
			formatRecorded(e.CreatedAt),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func plantName(plants map[string]garden.Plant, id string) string {
	if p, ok := plants[id]; ok {
		return p.Name
	}
	return "Unknown"
}

func formatRecorded(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(time.RFC3339)
}
