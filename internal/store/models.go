package store

import (
	"time"

	"github.com/redpandashots/plant-watering-reminder/internal/garden"
)

type Setting struct {
	Key   string
	Value string
}

// WateringFilter is used to filter watering events in queries. From and To
// are inclusive days.
type WateringFilter struct {
	PlantID string
	From    *time.Time
	To      *time.Time
	Limit   int
}

// DailyCount is the number of waterings recorded for a plant on one day.
type DailyCount struct {
	Date       string
	PlantID    string
	PlantName  string
	PlantColor string
	Count      int
}

// Snapshot is everything the schedule engine needs for one computation:
// the visible plants and the full watering history.
type Snapshot struct {
	Plants []garden.Plant
	Events []garden.WateringEvent
}
