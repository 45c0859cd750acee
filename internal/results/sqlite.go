package results

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/HendryAvila/tgt/internal/assessment"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// SQLiteStore implements Store on a single SQLite table. Rows are read
// back in rowid order, which is insertion order.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore opens (creating if needed) the database at path, enables
// WAL mode, and runs migrations.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("results: sqlite path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("results: create data dir: %w", err)
	}

	db, err := openDB("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("results: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("results: pragma %q: %w", p, err)
		}
	}

	s := &SQLiteStore{db: db, path: path}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("results: migration: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS results (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp     TEXT NOT NULL,
			user_id       TEXT NOT NULL,
			past_score    REAL NOT NULL,
			present_score REAL NOT NULL,
			future_score  REAL NOT NULL,
			archetype     TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_results_user ON results(user_id, id);
	`)
	return err
}

// Append inserts one record.
func (s *SQLiteStore) Append(ctx context.Context, r Record) error {
	r = r.canonical()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO results (timestamp, user_id, past_score, present_score, future_score, archetype)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		r.Timestamp, r.UserID, r.PastScore, r.PresentScore, r.FutureScore, r.Archetype,
	)
	if err != nil {
		return fmt.Errorf("results: insert: %w", err)
	}
	return nil
}

// ReadAll returns every record in insertion order.
func (s *SQLiteStore) ReadAll(ctx context.Context) ([]Record, error) {
	return s.query(ctx, `
		SELECT timestamp, user_id, past_score, present_score, future_score, archetype
		FROM results ORDER BY id`)
}

// ReadByUser returns one user's records in insertion order.
func (s *SQLiteStore) ReadByUser(ctx context.Context, userID string) ([]Record, error) {
	return s.query(ctx, `
		SELECT timestamp, user_id, past_score, present_score, future_score, archetype
		FROM results WHERE user_id = ? ORDER BY id`, assessment.NormalizeUserID(userID))
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) query(ctx context.Context, query string, args ...any) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("results: query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.Timestamp, &r.UserID, &r.PastScore, &r.PresentScore, &r.FutureScore, &r.Archetype); err != nil {
			return nil, fmt.Errorf("results: scan: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
