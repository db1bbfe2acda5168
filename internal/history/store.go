// Package history keeps a SQLite ledger of pipeline runs.
//
// Only run summaries are stored (counts per run and per category); individual
// file records are not persisted. The schema is managed by embedded,
// ordered SQL migrations tracked in schema_migrations.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"mediasort/internal/classify"
	"mediasort/internal/report"
)

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
	timeLayout              = time.RFC3339Nano
)

// Run is one ledger row.
type Run struct {
	ID            string
	Command       string
	StartedAt     time.Time
	FinishedAt    time.Time
	SourceRoot    string
	TargetRoot    string
	Entities      int
	Resolved      int
	Processed     int
	Organized     int
	Unchanged     int
	Failed        int
	Skipped       int
	Flagged       int
	DedupeRemoved int
	DedupeDryRun  bool
	ByCategory    map[classify.Category]int
}

// FromReport converts a finished run report into a ledger row.
func FromReport(r *report.RunReport) Run {
	totals := r.Totals()
	run := Run{
		ID:         r.RunID,
		Command:    r.Command,
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
		SourceRoot: r.SourceRoot,
		TargetRoot: r.TargetRoot,
		Entities:   totals.Entities,
		Resolved:   totals.Resolved,
		Processed:  totals.Processed,
		Organized:  totals.Organized,
		Unchanged:  totals.Unchanged,
		Failed:     totals.Failed,
		Skipped:    totals.Skipped,
		Flagged:    totals.Flagged,
		ByCategory: totals.ByCategory,
	}
	if r.Dedupe != nil {
		run.DedupeRemoved = r.Dedupe.Removed
		run.DedupeDryRun = r.Dedupe.DryRun
		if r.Dedupe.DryRun {
			run.DedupeRemoved = r.Dedupe.WouldRemove
		}
	}
	return run
}

// Store manages the run ledger.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the ledger at path.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("history path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.applyMigrations(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close releases the database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record inserts or replaces a run.
func (s *Store) Record(ctx context.Context, run Run) error {
	if strings.TrimSpace(run.ID) == "" {
		return errors.New("run id is required")
	}
	return retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin record tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		_, err = tx.ExecContext(ctx, `INSERT OR REPLACE INTO runs (
			id, command, started_at, finished_at, source_root, target_root,
			entities, resolved, processed, organized, unchanged, failed, skipped, flagged,
			dedupe_removed, dedupe_dry_run
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.ID, run.Command,
			run.StartedAt.UTC().Format(timeLayout), run.FinishedAt.UTC().Format(timeLayout),
			run.SourceRoot, run.TargetRoot,
			run.Entities, run.Resolved, run.Processed, run.Organized, run.Unchanged,
			run.Failed, run.Skipped, run.Flagged,
			run.DedupeRemoved, boolToInt(run.DedupeDryRun),
		)
		if err != nil {
			return fmt.Errorf("insert run: %w", err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM run_categories WHERE run_id = ?", run.ID); err != nil {
			return fmt.Errorf("clear run categories: %w", err)
		}
		for category, files := range run.ByCategory {
			if files == 0 {
				continue
			}
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO run_categories (run_id, category, files) VALUES (?, ?, ?)",
				run.ID, string(category), files,
			); err != nil {
				return fmt.Errorf("insert run category: %w", err)
			}
		}
		return tx.Commit()
	})
}

// Recent returns up to limit runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `SELECT
		id, command, started_at, finished_at, source_root, target_root,
		entities, resolved, processed, organized, unchanged, failed, skipped, flagged,
		dedupe_removed, dedupe_dry_run
		FROM runs ORDER BY started_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var started, finished string
		var dryRun int
		if err := rows.Scan(
			&run.ID, &run.Command, &started, &finished, &run.SourceRoot, &run.TargetRoot,
			&run.Entities, &run.Resolved, &run.Processed, &run.Organized, &run.Unchanged,
			&run.Failed, &run.Skipped, &run.Flagged, &run.DedupeRemoved, &dryRun,
		); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.StartedAt, _ = time.Parse(timeLayout, started)
		run.FinishedAt, _ = time.Parse(timeLayout, finished)
		run.DedupeDryRun = dryRun != 0
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	for i := range runs {
		categories, err := s.categories(ctx, runs[i].ID)
		if err != nil {
			return nil, err
		}
		runs[i].ByCategory = categories
	}
	return runs, nil
}

func (s *Store) categories(ctx context.Context, runID string) (map[classify.Category]int, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT category, files FROM run_categories WHERE run_id = ?", runID)
	if err != nil {
		return nil, fmt.Errorf("query run categories: %w", err)
	}
	defer rows.Close()

	out := make(map[classify.Category]int)
	for rows.Next() {
		var (
			category string
			files    int
		)
		if err := rows.Scan(&category, &files); err != nil {
			return nil, fmt.Errorf("scan run category: %w", err)
		}
		out[classify.Category(category)] = files
	}
	return out, rows.Err()
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}
