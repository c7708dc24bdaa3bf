package store

import (
	"fmt"
	"time"
)

// ApplyRun records one batch preset application
type ApplyRun struct {
	ID        string
	Preset    string
	Query     string
	Processed int
	Changed   int
	Written   int
	Errors    int
	DryRun    bool
	StartedAt time.Time
	Duration  time.Duration
}

// InsertApplyRun records a completed apply run
func (s *Store) InsertApplyRun(run *ApplyRun) error {
	_, err := s.db.Exec(`
		INSERT INTO apply_runs (id, preset, query, processed, changed, written, errors, dry_run, started_at, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.Preset, run.Query, run.Processed, run.Changed, run.Written, run.Errors,
		run.DryRun, run.StartedAt.UTC(), run.Duration.Milliseconds())

	if err != nil {
		return fmt.Errorf("failed to insert apply run: %w", err)
	}

	return nil
}

// ListApplyRuns returns the most recent apply runs, newest first
func (s *Store) ListApplyRuns(limit int) ([]*ApplyRun, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(`
		SELECT id, preset, query, processed, changed, written, errors, dry_run, started_at, duration_ms
		FROM apply_runs ORDER BY started_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list apply runs: %w", err)
	}
	defer rows.Close()

	var runs []*ApplyRun
	for rows.Next() {
		run := &ApplyRun{}
		var durationMs int64
		if err := rows.Scan(&run.ID, &run.Preset, &run.Query, &run.Processed, &run.Changed,
			&run.Written, &run.Errors, &run.DryRun, &run.StartedAt, &durationMs); err != nil {
			return nil, fmt.Errorf("failed to scan apply run: %w", err)
		}
		run.Duration = time.Duration(durationMs) * time.Millisecond
		runs = append(runs, run)
	}

	return runs, rows.Err()
}
