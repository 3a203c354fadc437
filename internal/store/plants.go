package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/redpandashots/plant-watering-reminder/internal/garden"
)

const plantColumns = `id, name, emoji, base_days, winter, spring, summer, fall, care_tips, color, image_ref, created_at`

// CreatePlant validates p, assigns it a custom-<uuid> id and stores it.
func (s *Store) CreatePlant(p garden.Plant) (*garden.Plant, error) {
	if err := garden.Normalize(&p); err != nil {
		return nil, fmt.Errorf("create plant: %w", err)
	}
	p.ID = "custom-" + uuid.NewString()
	p.Origin = garden.OriginCustom
	p.CreatedAt = time.Now().UTC()

	tips, err := json.Marshal(nonNil(p.CareTips))
	if err != nil {
		return nil, fmt.Errorf("encode care tips: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO plants (`+plantColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Emoji, p.BaseDays,
		p.Multiplier(garden.Winter), p.Multiplier(garden.Spring), p.Multiplier(garden.Summer), p.Multiplier(garden.Fall),
		string(tips), p.Color, p.ImageRef, p.CreatedAt.Format(timestampLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("insert plant: %w", err)
	}
	s.log.Info("plant created", "plant_id", p.ID, "name", p.Name, "base_days", p.BaseDays)
	return s.GetPlant(p.ID)
}

// GetPlant returns a built-in or custom plant by id, hidden or not.
func (s *Store) GetPlant(id string) (*garden.Plant, error) {
	if p, ok := garden.BuiltinByID(id); ok {
		return &p, nil
	}
	p, err := scanPlant(s.db.QueryRow(`SELECT `+plantColumns+` FROM plants WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get plant %q: %w", id, ErrPlantNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get plant %q: %w", id, err)
	}
	return p, nil
}

// ListCustomPlants returns user-added plants in creation order.
func (s *Store) ListCustomPlants() ([]garden.Plant, error) {
	rows, err := s.db.Query(`SELECT ` + plantColumns + ` FROM plants ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list plants: %w", err)
	}
	defer rows.Close()

	var plants []garden.Plant
	for rows.Next() {
		p, err := scanPlant(rows)
		if err != nil {
			return nil, err
		}
		plants = append(plants, *p)
	}
	return plants, rows.Err()
}

// Plants returns the visible plant list: built-ins first in catalog order,
// then custom plants by creation, minus hidden ids.
func (s *Store) Plants() ([]garden.Plant, error) {
	custom, err := s.ListCustomPlants()
	if err != nil {
		return nil, err
	}
	hidden, err := s.HiddenPlantIDs()
	if err != nil {
		return nil, err
	}
	return garden.Visible(append(garden.Catalog(), custom...), hidden), nil
}

// FindPlant resolves a visible plant by exact id or case-insensitive name.
func (s *Store) FindPlant(query string) (*garden.Plant, error) {
	plants, err := s.Plants()
	if err != nil {
		return nil, err
	}
	q := strings.TrimSpace(query)
	for _, p := range plants {
		if p.ID == q {
			return &p, nil
		}
	}
	for _, p := range plants {
		if strings.EqualFold(p.Name, q) {
			return &p, nil
		}
	}
	return nil, fmt.Errorf("find plant %q: %w", query, ErrPlantNotFound)
}

// DeletePlant removes a custom plant row. It does not touch history.
func (s *Store) DeletePlant(id string) error {
	return deletePlantRow(s.db, id)
}

// RemovePlant takes a plant out of the visible list and deletes its
// watering history. Custom plants are deleted; built-ins are hidden on this
// device.
func (s *Store) RemovePlant(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if garden.IsBuiltinID(id) {
		if err := hidePlant(tx, id); err != nil {
			return err
		}
	} else if err := deletePlantRow(tx, id); err != nil {
		return err
	}

	res, err := tx.Exec(`DELETE FROM watering_events WHERE plant_id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete waterings for %q: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit remove plant: %w", err)
	}
	n, _ := res.RowsAffected()
	s.log.Info("plant removed", "plant_id", id, "builtin", garden.IsBuiltinID(id), "waterings_deleted", n)
	return nil
}

func deletePlantRow(db execer, id string) error {
	if garden.IsBuiltinID(id) {
		return fmt.Errorf("delete plant %q: %w", id, ErrBuiltinPlant)
	}
	res, err := db.Exec(`DELETE FROM plants WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete plant %q: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("delete plant %q: %w", id, ErrPlantNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlant(row rowScanner) (*garden.Plant, error) {
	p := &garden.Plant{Origin: garden.OriginCustom}
	var winter, spring, summer, fall float64
	var tips, createdAt string
	err := row.Scan(&p.ID, &p.Name, &p.Emoji, &p.BaseDays,
		&winter, &spring, &summer, &fall, &tips, &p.Color, &p.ImageRef, &createdAt)
	if err != nil {
		return nil, err
	}
	p.Seasonal = map[garden.Season]float64{
		garden.Winter: winter,
		garden.Spring: spring,
		garden.Summer: summer,
		garden.Fall:   fall,
	}
	if err := json.Unmarshal([]byte(tips), &p.CareTips); err != nil {
		return nil, fmt.Errorf("decode care tips for %q: %w", p.ID, err)
	}
	p.CreatedAt, _ = time.Parse(timestampLayout, createdAt)
	return p, nil
}

func nonNil(ss []string) []string {
	if ss == nil {
		return []string{}
	}
	return ss
}
