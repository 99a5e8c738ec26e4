// Package store handles SQLite persistence of completed runs.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"fullset/internal/collector"

	_ "modernc.org/sqlite" // SQLite driver.
)

// ErrNotFound is returned when a run reference matches nothing.
var ErrNotFound = errors.New("run not found")

// Store wraps SQLite access for run history.
type Store struct {
	db *sql.DB
}

// Run is one persisted batch run.
type Run struct {
	ID         int64
	RunID      string
	CreatedAt  time.Time
	Trials     int
	Workers    int
	Seed       int64
	MeanLength float64
	MinLength  int
	MaxLength  int
	Elapsed    time.Duration
}

// Open opens or creates the run database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY,
			run_id TEXT NOT NULL UNIQUE,
			created_at TEXT NOT NULL,
			trials INTEGER NOT NULL,
			workers INTEGER NOT NULL,
			seed INTEGER NOT NULL,
			mean_length REAL NOT NULL,
			min_length INTEGER NOT NULL,
			max_length INTEGER NOT NULL,
			elapsed_ms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS run_buckets (
			run_id INTEGER NOT NULL,
			length INTEGER NOT NULL,
			count INTEGER NOT NULL,
			PRIMARY KEY (run_id, length)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertRun stores a completed run and its histogram buckets.
func (s *Store) InsertRun(ctx context.Context, summary *collector.Summary, workers int, seed int64) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (run_id, created_at, trials, workers, seed, mean_length, min_length, max_length, elapsed_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		summary.RunID,
		time.Now().UTC().Format(time.RFC3339Nano),
		summary.Trials,
		workers,
		seed,
		summary.Lengths.Mean,
		summary.Lengths.Min,
		summary.Lengths.Max,
		summary.Elapsed.Milliseconds(),
	)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if len(summary.Histogram) > 0 {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO run_buckets (run_id, length, count) VALUES (?, ?, ?)`)
		if err != nil {
			return 0, err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for length, count := range summary.Histogram {
			if _, err := stmt.ExecContext(ctx, id, length, count); err != nil {
				return 0, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

const runColumns = `id, run_id, created_at, trials, workers, seed, mean_length, min_length, max_length, elapsed_ms`

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return runs, nil
}

// GetRun resolves a run reference: "latest" or a run ID prefix.
func (s *Store) GetRun(ctx context.Context, ref string) (*Run, error) {
	var row *sql.Row
	if ref == "" || ref == "latest" {
		row = s.db.QueryRowContext(ctx,
			`SELECT `+runColumns+` FROM runs ORDER BY created_at DESC, id DESC LIMIT 1`)
	} else {
		row = s.db.QueryRowContext(ctx,
			`SELECT `+runColumns+` FROM runs WHERE run_id LIKE ? ORDER BY created_at DESC LIMIT 1`,
			ref+"%")
	}
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, ref)
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// Buckets returns the stored histogram of a run.
func (s *Store) Buckets(ctx context.Context, id int64) (map[int]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT length, count FROM run_buckets WHERE run_id = ?`, id)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	buckets := make(map[int]int)
	for rows.Next() {
		var length, count int
		if err := rows.Scan(&length, &count); err != nil {
			return nil, err
		}
		buckets[length] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return buckets, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var run Run
	var createdAt string
	var elapsedMs int64
	err := row.Scan(&run.ID, &run.RunID, &createdAt, &run.Trials, &run.Workers,
		&run.Seed, &run.MeanLength, &run.MinLength, &run.MaxLength, &elapsedMs)
	if err != nil {
		return Run{}, err
	}
	parsed, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return Run{}, err
	}
	run.CreatedAt = parsed
	run.Elapsed = time.Duration(elapsedMs) * time.Millisecond
	return run, nil
}
