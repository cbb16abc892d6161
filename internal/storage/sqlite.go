// Package storage provides SQLite-based persistence for runs and records.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection for run persistence.
type Store struct {
	db *sql.DB
}

// RunEntry represents a single finished run.
type RunEntry struct {
	ID        int64
	Mode      string
	Distance  float64
	Smashed   int
	Revives   int
	CreatedAt time.Time
}

// Score returns the floored distance shown on scoreboards.
func (e RunEntry) Score() int {
	return int(math.Floor(e.Distance))
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			mode TEXT NOT NULL,
			distance REAL NOT NULL,
			smashed INTEGER NOT NULL DEFAULT 0,
			revives INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_mode ON runs(mode);
		CREATE INDEX IF NOT EXISTS idx_runs_top ON runs(mode, distance DESC);

		CREATE TABLE IF NOT EXISTS records (
			mode TEXT PRIMARY KEY,
			best_distance REAL NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveRun records a finished run.
// Returns the ID of the inserted record.
func (s *Store) SaveRun(e RunEntry) (int64, error) {
	result, err := s.db.Exec(
		"INSERT INTO runs (mode, distance, smashed, revives) VALUES (?, ?, ?, ?)",
		e.Mode, e.Distance, e.Smashed, e.Revives,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// TopRuns retrieves the N longest runs for the given mode.
// Results are ordered by distance descending.
func (s *Store) TopRuns(mode string, limit int) ([]RunEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, mode, distance, smashed, revives, created_at
		 FROM runs
		 WHERE mode = ?
		 ORDER BY distance DESC
		 LIMIT ?`,
		mode, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	return scanRuns(rows)
}

// RecentRuns retrieves the last N runs for the given mode, newest first.
func (s *Store) RecentRuns(mode string, limit int) ([]RunEntry, error) {
	if limit <= 0 {
		limit = 5
	}

	rows, err := s.db.Query(
		`SELECT id, mode, distance, smashed, revives, created_at
		 FROM runs
		 WHERE mode = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		mode, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query recent runs: %w", err)
	}
	defer rows.Close()

	return scanRuns(rows)
}

// AllRuns retrieves all runs for the given mode (no limit).
func (s *Store) AllRuns(mode string) ([]RunEntry, error) {
	rows, err := s.db.Query(
		`SELECT id, mode, distance, smashed, revives, created_at
		 FROM runs
		 WHERE mode = ?
		 ORDER BY distance DESC`,
		mode,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	return scanRuns(rows)
}

func scanRuns(rows *sql.Rows) ([]RunEntry, error) {
	var entries []RunEntry
	for rows.Next() {
		var e RunEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.Mode, &e.Distance, &e.Smashed, &e.Revives, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// ClearRuns deletes all runs and the record for the given mode.
func (s *Store) ClearRuns(mode string) error {
	if _, err := s.db.Exec("DELETE FROM runs WHERE mode = ?", mode); err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	if _, err := s.db.Exec("DELETE FROM records WHERE mode = ?", mode); err != nil {
		return fmt.Errorf("storage: cannot clear record: %w", err)
	}
	return nil
}

// BestDistance returns the stored record for the given mode.
// Returns 0 if no record exists.
func (s *Store) BestDistance(mode string) (float64, error) {
	var best sql.NullFloat64
	err := s.db.QueryRow(
		"SELECT best_distance FROM records WHERE mode = ?",
		mode,
	).Scan(&best)

	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query best distance: %w", err)
	}

	return best.Float64, nil
}

// SaveBestDistance stores the floored distance as the mode's record if it
// beats the stored one. It reports whether the record changed.
func (s *Store) SaveBestDistance(mode string, distance float64) (bool, error) {
	distance = math.Floor(distance)
	result, err := s.db.Exec(
		`INSERT INTO records (mode, best_distance) VALUES (?, ?)
		 ON CONFLICT(mode) DO UPDATE
		 SET best_distance = excluded.best_distance, updated_at = CURRENT_TIMESTAMP
		 WHERE excluded.best_distance > records.best_distance`,
		mode, distance,
	)
	if err != nil {
		return false, fmt.Errorf("storage: cannot save best distance: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("storage: cannot get affected rows: %w", err)
	}

	return n > 0, nil
}

// Records binds the store to one mode, as the game's record collaborator.
func (s *Store) Records(mode string) *ModeRecords {
	return &ModeRecords{store: s, mode: mode}
}

// ModeRecords reads and writes the best distance of a single mode.
type ModeRecords struct {
	store *Store
	mode  string
}

// BestDistance returns the mode's record.
func (r *ModeRecords) BestDistance() (float64, error) {
	return r.store.BestDistance(r.mode)
}

// SaveBestDistance compare-and-stores the mode's record.
func (r *ModeRecords) SaveBestDistance(distance float64) (bool, error) {
	return r.store.SaveBestDistance(r.mode, distance)
}

// RecentDistances returns the distances of the mode's last runs, newest first.
func (r *ModeRecords) RecentDistances(limit int) ([]float64, error) {
	runs, err := r.store.RecentRuns(r.mode, limit)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(runs))
	for i, e := range runs {
		out[i] = e.Distance
	}
	return out, nil
}
