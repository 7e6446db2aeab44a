// Package persistence provides SQLite-based telemetry storage: every run
// gets a row, and events and per-tick stats are appended under it.
package persistence

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/laubsauger/streetsim/internal/engine"
)

// DB wraps a SQLite connection for simulation telemetry.
type DB struct {
	conn  *sqlx.DB
	runID string
}

// Open opens or creates a SQLite database at the given path and registers
// a new run with the given seed.
func Open(path string, seed int64) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn, runID: uuid.NewString()}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	if err := db.registerRun(seed); err != nil {
		conn.Close()
		return nil, fmt.Errorf("register run: %w", err)
	}

	return db, nil
}

// RunID returns the identifier assigned to this run.
func (db *DB) RunID() string {
	return db.runID
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		started_at TEXT NOT NULL,
		seed INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL REFERENCES runs(id),
		tick INTEGER NOT NULL,
		category TEXT NOT NULL,
		description TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS stats (
		run_id TEXT NOT NULL REFERENCES runs(id),
		tick INTEGER NOT NULL,
		residents INTEGER NOT NULL,
		vehicles INTEGER NOT NULL,
		at_home INTEGER NOT NULL,
		driving INTEGER NOT NULL,
		on_foot INTEGER NOT NULL,
		trips_started INTEGER NOT NULL,
		PRIMARY KEY (run_id, tick)
	);

	CREATE INDEX IF NOT EXISTS idx_events_run_tick ON events(run_id, tick);
	`
	_, err := db.conn.Exec(schema)
	return err
}

func (db *DB) registerRun(seed int64) error {
	_, err := db.conn.Exec(
		"INSERT INTO runs (id, started_at, seed) VALUES (?, ?, ?)",
		db.runID, time.Now().UTC().Format(time.RFC3339), seed,
	)
	return err
}

// LogEvents appends events under the current run.
func (db *DB) LogEvents(events []engine.Event) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Preparex(
		"INSERT INTO events (run_id, tick, category, description) VALUES (?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range events {
		if _, err := stmt.Exec(db.runID, e.Tick, e.Category, e.Description); err != nil {
			return fmt.Errorf("insert event at tick %d: %w", e.Tick, err)
		}
	}

	return tx.Commit()
}

// LogStats records one tick's aggregate stats.
func (db *DB) LogStats(tick uint64, s engine.SimStats) error {
	_, err := db.conn.Exec(`INSERT OR REPLACE INTO stats
		(run_id, tick, residents, vehicles, at_home, driving, on_foot, trips_started)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		db.runID, tick, s.Residents, s.Vehicles, s.AtHome, s.Driving, s.OnFoot, s.TripsStarted,
	)
	if err != nil {
		return fmt.Errorf("insert stats at tick %d: %w", tick, err)
	}
	return nil
}

// RecentEvents returns the most recent events of the current run,
// newest first.
func (db *DB) RecentEvents(limit int) ([]engine.Event, error) {
	var events []engine.Event
	err := db.conn.Select(&events,
		"SELECT tick, category, description FROM events WHERE run_id = ? ORDER BY id DESC LIMIT ?",
		db.runID, limit,
	)
	return events, err
}
