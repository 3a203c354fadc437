package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/redpandashots/plant-watering-reminder/internal/garden"
)

// MarkWatered appends a watering event for plantID on day. It does not check
// for an existing event on the same day.
func (s *Store) MarkWatered(plantID string, day time.Time) (*garden.WateringEvent, error) {
	e := garden.WateringEvent{
		ID:        uuid.NewString(),
		PlantID:   plantID,
		Date:      garden.DayOf(day),
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.db.Exec(
		`INSERT INTO watering_events (id, plant_id, date, created_at) VALUES (?, ?, ?, ?)`,
		e.ID, e.PlantID, garden.FormatDay(e.Date), e.CreatedAt.Format(timestampLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("insert watering: %w", err)
	}
	s.log.Info("plant watered", "plant_id", plantID, "date", garden.FormatDay(e.Date), "event_id", e.ID)
	return &e, nil
}

// UnmarkWatered deletes every event recording plantID as watered on day and
// returns how many were removed.
func (s *Store) UnmarkWatered(plantID string, day time.Time) (int64, error) {
	res, err := s.db.Exec(
		`DELETE FROM watering_events WHERE plant_id = ? AND date = ?`,
		plantID, garden.FormatDay(garden.DayOf(day)),
	)
	if err != nil {
		return 0, fmt.Errorf("unmark watering: %w", err)
	}
	n, _ := res.RowsAffected()
	s.log.Info("watering removed", "plant_id", plantID, "date", garden.FormatDay(garden.DayOf(day)), "count", n)
	return n, nil
}

// ToggleWatered removes the plant's events for day if any exist, otherwise
// records one. It returns whether the plant is watered on day afterwards.
func (s *Store) ToggleWatered(plantID string, day time.Time) (bool, error) {
	n, err := s.UnmarkWatered(plantID, day)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	if _, err := s.MarkWatered(plantID, day); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) DeleteWatering(id string) error {
	_, err := s.db.Exec(`DELETE FROM watering_events WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete watering %q: %w", id, err)
	}
	return nil
}

// ListWaterings returns events newest first.
func (s *Store) ListWaterings(f WateringFilter) ([]garden.WateringEvent, error) {
	query := `SELECT id, plant_id, date, created_at FROM watering_events WHERE 1=1`
	var args []any

	if f.PlantID != "" {
		query += ` AND plant_id = ?`
		args = append(args, f.PlantID)
	}
	if f.From != nil {
		query += ` AND date >= ?`
		args = append(args, garden.FormatDay(*f.From))
	}
	if f.To != nil {
		query += ` AND date <= ?`
		args = append(args, garden.FormatDay(*f.To))
	}
	query += ` ORDER BY date DESC, created_at DESC`
	if f.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, f.Limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list waterings: %w", err)
	}
	defer rows.Close()

	var events []garden.WateringEvent
	for rows.Next() {
		var e garden.WateringEvent
		var date, createdAt string
		if err := rows.Scan(&e.ID, &e.PlantID, &date, &createdAt); err != nil {
			return nil, err
		}
		e.Date, err = garden.ParseDay(date)
		if err != nil {
			return nil, fmt.Errorf("watering %q: %w", e.ID, err)
		}
		e.CreatedAt, _ = time.Parse(timestampLayout, createdAt)
		events = append(events, e)
	}
	return events, rows.Err()
}

// Snapshot reads the visible plants and the full history in one call.
func (s *Store) Snapshot() (Snapshot, error) {
	plants, err := s.Plants()
	if err != nil {
		return Snapshot{}, err
	}
	events, err := s.ListWaterings(WateringFilter{})
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Plants: plants, Events: events}, nil
}

// GetDailyCounts aggregates watering events per plant per day in [from, to].
func (s *Store) GetDailyCounts(from, to time.Time) ([]DailyCount, error) {
	rows, err := s.db.Query(`
		SELECT date, plant_id, COUNT(*)
		FROM watering_events
		WHERE date >= ? AND date <= ?
		GROUP BY date, plant_id
		ORDER BY date, plant_id`,
		garden.FormatDay(from), garden.FormatDay(to),
	)
	if err != nil {
		return nil, fmt.Errorf("daily counts: %w", err)
	}
	defer rows.Close()

	var counts []DailyCount
	for rows.Next() {
		var dc DailyCount
		if err := rows.Scan(&dc.Date, &dc.PlantID, &dc.Count); err != nil {
			return nil, err
		}
		counts = append(counts, dc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	names, err := s.PlantIndex()
	if err != nil {
		return nil, err
	}
	for i := range counts {
		if p, ok := names[counts[i].PlantID]; ok {
			counts[i].PlantName = p.Name
			counts[i].PlantColor = p.Color
		} else {
			counts[i].PlantName = "Unknown"
		}
	}
	return counts, nil
}

// PlantIndex maps every known plant id, hidden ones included, to its plant.
func (s *Store) PlantIndex() (map[string]garden.Plant, error) {
	custom, err := s.ListCustomPlants()
	if err != nil {
		return nil, err
	}
	idx := make(map[string]garden.Plant)
	for _, p := range append(garden.Catalog(), custom...) {
		idx[p.ID] = p
	}
	return idx, nil
}
