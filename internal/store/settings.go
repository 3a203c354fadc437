package store

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
)

// Device preference keys. Values are flat strings, last write wins.
const (
	KeyNotificationsEnabled = "notifications_enabled"
	KeyDailyCheck           = "daily_check"
	KeyHiddenPlants         = "hidden_plants"
)

func (s *Store) GetSetting(key string) (string, error) {
	return getSetting(s.db, key)
}

func (s *Store) SetSetting(key, value string) error {
	return setSetting(s.db, key, value)
}

func (s *Store) GetAllSettings() ([]Setting, error) {
	rows, err := s.db.Query(`SELECT key, value FROM settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	var settings []Setting
	for rows.Next() {
		var s Setting
		if err := rows.Scan(&s.Key, &s.Value); err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}

func (s *Store) NotificationsEnabled() (bool, error) {
	return s.getBool(KeyNotificationsEnabled)
}

func (s *Store) SetNotificationsEnabled(on bool) error {
	s.log.Info("notifications toggled", "enabled", on)
	return s.SetSetting(KeyNotificationsEnabled, strconv.FormatBool(on))
}

func (s *Store) DailyCheck() (bool, error) {
	return s.getBool(KeyDailyCheck)
}

func (s *Store) SetDailyCheck(on bool) error {
	return s.SetSetting(KeyDailyCheck, strconv.FormatBool(on))
}

// HiddenPlantIDs returns the built-in plants removed on this device.
func (s *Store) HiddenPlantIDs() ([]string, error) {
	return hiddenPlantIDs(s.db)
}

// HidePlant adds a built-in id to the hidden set. It leaves history alone;
// use RemovePlant to also clear it.
func (s *Store) HidePlant(id string) error {
	return hidePlant(s.db, id)
}

// UnhidePlant restores a hidden built-in to the plant list.
func (s *Store) UnhidePlant(id string) error {
	hidden, err := s.HiddenPlantIDs()
	if err != nil {
		return err
	}
	hidden = slices.DeleteFunc(hidden, func(h string) bool { return h == id })
	if err := setHidden(s.db, hidden); err != nil {
		return err
	}
	s.log.Info("plant restored", "plant_id", id)
	return nil
}

func (s *Store) getBool(key string) (bool, error) {
	v, err := s.GetSetting(key)
	if err != nil {
		return false, err
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("setting %q: %w", key, err)
	}
	return b, nil
}

func getSetting(db execer, key string) (string, error) {
	var value string
	err := db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		return "", fmt.Errorf("get setting %q: %w", key, err)
	}
	return value, nil
}

func setSetting(db execer, key, value string) error {
	_, err := db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("set setting %q: %w", key, err)
	}
	return nil
}

func hiddenPlantIDs(db execer) ([]string, error) {
	v, err := getSetting(db, KeyHiddenPlants)
	if err != nil {
		return nil, err
	}
	var ids []string
	if err := json.Unmarshal([]byte(v), &ids); err != nil {
		return nil, fmt.Errorf("decode hidden plants: %w", err)
	}
	return ids, nil
}

func hidePlant(db execer, id string) error {
	hidden, err := hiddenPlantIDs(db)
	if err != nil {
		return err
	}
	if slices.Contains(hidden, id) {
		return nil
	}
	return setHidden(db, append(hidden, id))
}

func setHidden(db execer, ids []string) error {
	data, err := json.Marshal(nonNil(ids))
	if err != nil {
		return fmt.Errorf("encode hidden plants: %w", err)
	}
	return setSetting(db, KeyHiddenPlants, string(data))
}
