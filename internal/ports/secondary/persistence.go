// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import "context"

// RunRepository defines the secondary port for run summary persistence.
// Only per-run tallies are stored, never individual trials.
type RunRepository interface {
	// Create persists a new run summary.
	Create(ctx context.Context, run *RunRecord) error

	// GetByID retrieves a run by its ID.
	GetByID(ctx context.Context, id string) (*RunRecord, error)

	// List retrieves runs matching the given filters, newest first.
	List(ctx context.Context, filters RunFilters) ([]*RunRecord, error)

	// Delete removes a run from persistence.
	Delete(ctx context.Context, id string) error

	// GetNextID returns the next available run ID.
	GetNextID(ctx context.Context) (string, error)
}

// RunRecord represents a run summary as stored in persistence.
type RunRecord struct {
	ID         string
	Strategy   string
	Prisoners  int
	Count      int
	Passes     int
	Failures   int
	Seed       uint64
	Workers    int
	DurationMs int64
	CreatedAt  string
}

// RunFilters contains filter options for querying runs.
type RunFilters struct {
	Strategy string // empty matches every strategy
	Limit    int    // 0 means no limit
}
