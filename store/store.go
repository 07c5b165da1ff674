// Package store persists discovery runs in SQLite, so mined models can be
// listed and re-rendered later without re-reading the source logs.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/petrimine/petrimine/mining"
	"github.com/petrimine/petrimine/render"
)

// Store handles SQLite database operations for discovery runs.
type Store struct {
	db *sql.DB
}

// Run is one recorded discovery run.
type Run struct {
	ID            string    `json:"id"`
	Source        string    `json:"source"` // path or description of the input log
	CreatedAt     time.Time `json:"created_at"`
	NumTraces     int       `json:"num_traces"`
	NumVariants   int       `json:"num_variants"`
	NumActivities int       `json:"num_activities"`
	NumPlaces     int       `json:"num_places"`
	Report        string    `json:"report,omitempty"` // JSON report snapshot
}

// Open creates a store backed by the database at the given path.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// migrate creates the schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		source TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		num_traces INTEGER NOT NULL,
		num_variants INTEGER NOT NULL,
		num_activities INTEGER NOT NULL,
		num_places INTEGER NOT NULL,
		report TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// SaveRun records a discovery result and returns the new run ID.
func (s *Store) SaveRun(source string, numTraces int, result *mining.DiscoveryResult) (string, error) {
	report, err := json.Marshal(render.NewReport(result))
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}

	id := uuid.NewString()
	_, err = s.db.Exec(`
		INSERT INTO runs (id, source, created_at, num_traces, num_variants, num_activities, num_places, report)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, source, time.Now().UTC(), numTraces, result.NumVariants,
		len(result.Footprint.Universe.All), len(result.Places), string(report))
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	return id, nil
}

// ListRuns returns run summaries, newest first. The report snapshots are
// omitted; fetch them with GetRun.
func (s *Store) ListRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`
		SELECT id, source, created_at, num_traces, num_variants, num_activities, num_places
		FROM runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Source, &r.CreatedAt, &r.NumTraces,
			&r.NumVariants, &r.NumActivities, &r.NumPlaces); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRun fetches one run including its report snapshot.
func (s *Store) GetRun(id string) (*Run, error) {
	var r Run
	err := s.db.QueryRow(`
		SELECT id, source, created_at, num_traces, num_variants, num_activities, num_places, report
		FROM runs WHERE id = ?`, id).
		Scan(&r.ID, &r.Source, &r.CreatedAt, &r.NumTraces,
			&r.NumVariants, &r.NumActivities, &r.NumPlaces, &r.Report)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("query run: %w", err)
	}
	return &r, nil
}

// DeleteRun removes a recorded run.
func (s *Store) DeleteRun(id string) error {
	result, err := s.db.Exec(`DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("run %s not found", id)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
