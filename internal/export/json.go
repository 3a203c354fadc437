package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/redpandashots/plant-watering-reminder/internal/garden"
	"github.com/redpandashots/plant-watering-reminder/internal/schedule"
)

type jsonExport struct {
	ExportedAt string         `json:"exported_at"`
	Count      int            `json:"count"`
	Waterings  []jsonWatering `json:"waterings"`
}

type jsonWatering struct {
	ID         string `json:"id"`
	PlantID    string `json:"plant_id"`
	Plant      string `json:"plant"`
	Date       string `json:"date"`
	Season     string `json:"season"`
	RecordedAt string `json:"recorded_at,omitempty"`
}

func ToJSON(events []garden.WateringEvent, plants map[string]garden.Plant, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(events),
		Waterings:  []jsonWatering{},
	}

	for _, e := range events {
		export.Waterings = append(export.Waterings, jsonWatering{
			ID:         e.ID,
			PlantID:    e.PlantID,
			Plant:      plantName(plants, e.PlantID),
			Date:       garden.FormatDay(e.Date),
			Season:     string(schedule.SeasonOf(e.Date)),
			RecordedAt: formatRecorded(e.CreatedAt),
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
