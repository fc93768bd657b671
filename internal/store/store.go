// Package store persists grading runs to a local SQLite database so
// students can review their score history across invocations.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	created_at INTEGER NOT NULL,
	total      INTEGER NOT NULL,
	max_total  INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS run_scores (
	run_id   TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	question TEXT NOT NULL,
	points   INTEGER NOT NULL,
	max      INTEGER NOT NULL,
	PRIMARY KEY (run_id, question)
);
`

// Store wraps the SQLite database holding run history.
type Store struct {
	db *sql.DB
}

// Run is one recorded grading run.
type Run struct {
	ID        string
	CreatedAt time.Time
	Total     int
	MaxTotal  int
	Scores    map[string]int
}

// Open connects to the SQLite database at dsn, applies recommended
// pragmas, and creates the schema if it does not exist.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordRun stores one grading run and returns its id.
func (s *Store) RecordRun(ctx context.Context, points, maxes map[string]int) (string, error) {
	id := uuid.NewString()
	now := time.Now().Unix()

	total, maxTotal := 0, 0
	for q, m := range maxes {
		total += points[q]
		maxTotal += m
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO runs (id, created_at, total, max_total) VALUES (?, ?, ?, ?)",
		id, now, total, maxTotal); err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	questions := make([]string, 0, len(maxes))
	for q := range maxes {
		questions = append(questions, q)
	}
	sort.Strings(questions)
	for _, q := range questions {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO run_scores (run_id, question, points, max) VALUES (?, ?, ?, ?)",
			id, q, points[q], maxes[q]); err != nil {
			return "", fmt.Errorf("insert score for %s: %w", q, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return id, nil
}

// History returns the most recent runs, newest first, including
// per-question scores. limit <= 0 returns all runs.
func (s *Store) History(ctx context.Context, limit int) ([]Run, error) {
	query := "SELECT id, created_at, total, max_total FROM runs ORDER BY created_at DESC, id"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var created int64
		if err := rows.Scan(&r.ID, &created, &r.Total, &r.MaxTotal); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.CreatedAt = time.Unix(created, 0)
		r.Scores = make(map[string]int)
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	for i := range runs {
		if err := s.loadScores(ctx, &runs[i]); err != nil {
			return nil, err
		}
	}
	return runs, nil
}

func (s *Store) loadScores(ctx context.Context, r *Run) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT question, points FROM run_scores WHERE run_id = ?", r.ID)
	if err != nil {
		return fmt.Errorf("query scores: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var q string
		var pts int
		if err := rows.Scan(&q, &pts); err != nil {
			return fmt.Errorf("scan score: %w", err)
		}
		r.Scores[q] = pts
	}
	return rows.Err()
}

// applyPragmas configures SQLite for single-user local use.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. AUTOGRADE_DB environment variable
// 2. $XDG_DATA_HOME/autograde/autograde.db
// 3. ~/.local/share/autograde/autograde.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("AUTOGRADE_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "autograde", "autograde.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
