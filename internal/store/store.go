package store

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/redpandashots/plant-watering-reminder/internal/logging"
)

const currentVersion = 1

// timestampLayout is fixed-width so created_at sorts correctly as text.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

var (
	// ErrPlantNotFound is returned when an id matches neither a built-in nor
	// a stored custom plant.
	ErrPlantNotFound = errors.New("plant not found")
	// ErrBuiltinPlant is returned when a row-level operation is attempted on
	// a built-in plant, which has no row.
	ErrBuiltinPlant = errors.New("plant is built-in")
)

// Store is the SQLite-backed history log, custom plant table and device
// preference store.
type Store struct {
	db  *sql.DB
	log *slog.Logger
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
	QueryRow(query string, args ...any) *sql.Row
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
func New(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db, log: slog.New(slog.DiscardHandler)}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// NewMemory creates an in-memory store for testing.
func NewMemory() (*Store, error) {
	return New(":memory:")
}

// SetLogger routes store write logs to l.
func (s *Store) SetLogger(l *slog.Logger) {
	s.log = logging.Module(l, "store")
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	var version int
	err := s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	if version >= currentVersion {
		return nil
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}

	_, err = s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentVersion))
	return err
}

// migrateV1 creates the plant, history and settings tables. watering_events
// has no uniqueness constraint on (plant_id, date): concurrent writers may
// both record the same day and readers reduce with max/contains.
func (s *Store) migrateV1() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS plants (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		emoji       TEXT NOT NULL DEFAULT '🪴',
		base_days   INTEGER NOT NULL,
		winter      REAL NOT NULL DEFAULT 1.0,
		spring      REAL NOT NULL DEFAULT 1.0,
		summer      REAL NOT NULL DEFAULT 1.0,
		fall        REAL NOT NULL DEFAULT 1.0,
		care_tips   TEXT NOT NULL DEFAULT '[]',
		color       TEXT NOT NULL DEFAULT '#2ECC71',
		image_ref   TEXT NOT NULL DEFAULT '',
		created_at  TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
	);

	CREATE TABLE IF NOT EXISTS watering_events (
		id          TEXT PRIMARY KEY,
		plant_id    TEXT NOT NULL,
		date        TEXT NOT NULL,
		created_at  TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
	);

	CREATE INDEX IF NOT EXISTS idx_waterings_plant ON watering_events(plant_id, date);
	CREATE INDEX IF NOT EXISTS idx_waterings_date  ON watering_events(date);

	CREATE TABLE IF NOT EXISTS settings (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	INSERT OR IGNORE INTO settings (key, value) VALUES
		('notifications_enabled', 'false'),
		('daily_check',           'true'),
		('hidden_plants',         '[]');
	`
	_, err := s.db.Exec(ddl)
	return err
}

// DefaultDBPath returns ~/.config/sprout/sprout.db
func DefaultDBPath() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "sprout", "sprout.db"), nil
}
