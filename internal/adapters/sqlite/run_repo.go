// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/example/prisoners/internal/ports/secondary"
)

// RunRepository implements secondary.RunRepository with SQLite.
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a new SQLite run repository.
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

const runColumns = "id, strategy, prisoners, count, passes, failures, seed, workers, duration_ms, created_at"

// Create persists a new run summary.
func (r *RunRepository) Create(ctx context.Context, run *secondary.RunRecord) error {
	// Seeds span the full uint64 range; SQLite integers are signed, so the
	// bits are stored as int64 and reinterpreted on read.
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO runs (id, strategy, prisoners, count, passes, failures, seed, workers, duration_ms) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		run.ID, run.Strategy, run.Prisoners, run.Count, run.Passes, run.Failures, int64(run.Seed), run.Workers, run.DurationMs,
	)
	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}

	return nil
}

// GetByID retrieves a run by its ID.
func (r *RunRepository) GetByID(ctx context.Context, id string) (*secondary.RunRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+runColumns+" FROM runs WHERE id = ?",
		id,
	)

	record, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	return record, nil
}

// List retrieves runs matching the given filters, newest first.
func (r *RunRepository) List(ctx context.Context, filters secondary.RunFilters) ([]*secondary.RunRecord, error) {
	query := "SELECT " + runColumns + " FROM runs"
	var (
		where []string
		args  []any
	)

	if filters.Strategy != "" {
		where = append(where, "strategy = ?")
		args = append(args, filters.Strategy)
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY CAST(SUBSTR(id, 5) AS INTEGER) DESC"
	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*secondary.RunRecord
	for rows.Next() {
		record, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	return runs, nil
}

// Delete removes a run from persistence.
func (r *RunRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM runs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("run %s not found", id)
	}

	return nil
}

// GetNextID returns the next available run ID.
func (r *RunRepository) GetNextID(ctx context.Context) (string, error) {
	var maxID int
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(CAST(SUBSTR(id, 5) AS INTEGER)), 0) FROM runs",
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next run ID: %w", err)
	}

	return fmt.Sprintf("RUN-%03d", maxID+1), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*secondary.RunRecord, error) {
	var (
		seed      int64
		createdAt time.Time
	)

	record := &secondary.RunRecord{}
	err := row.Scan(
		&record.ID, &record.Strategy, &record.Prisoners, &record.Count,
		&record.Passes, &record.Failures, &seed, &record.Workers,
		&record.DurationMs, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	record.Seed = uint64(seed)
	record.CreatedAt = createdAt.Format(time.RFC3339)

	return record, nil
}

// Ensure RunRepository implements the interface.
var _ secondary.RunRepository = (*RunRepository)(nil)
