// Package primary defines the primary ports (driving adapters) for the application.
// These are the interfaces through which the outside world drives the application.
package primary

import (
	"context"
	"time"
)

// SimulationService defines the primary port for running simulations.
type SimulationService interface {
	// RunSimulation runs the requested number of trials and tallies the outcome.
	RunSimulation(ctx context.Context, req RunSimulationRequest) (*SimulationResult, error)
}

// RunHistoryService defines the primary port for recorded run summaries.
type RunHistoryService interface {
	// ListRuns lists recorded runs, newest first.
	ListRuns(ctx context.Context, filters RunFilters) ([]*Run, error)

	// GetRun retrieves a recorded run by ID.
	GetRun(ctx context.Context, runID string) (*Run, error)

	// DeleteRun removes a recorded run.
	DeleteRun(ctx context.Context, runID string) error
}

// RunSimulationRequest contains parameters for a simulation run.
type RunSimulationRequest struct {
	Strategy  string  // "random" or "number-follow"
	Count     int     // number of trials, must be positive
	Prisoners int     // prisoner and box count
	Seed      *uint64 // nil draws a random master seed
	Record    bool    // persist the run summary
}

// SimulationResult is the tally of one simulation run.
type SimulationResult struct {
	RunID     string // empty unless the run was recorded
	Strategy  string
	Prisoners int
	Count     int
	Budget    int
	Passes    int
	Failures  int
	Seed      uint64
	Workers   int
	Duration  time.Duration
	Expected  float64 // exact theoretical success probability
}

// SuccessPercentage returns Passes*100/(Passes+Failures). ok is false when
// no trials were tallied, in which case the rate is undefined.
func (r *SimulationResult) SuccessPercentage() (pct float64, ok bool) {
	total := r.Passes + r.Failures
	if total == 0 {
		return 0, false
	}
	return float64(r.Passes) * 100 / float64(total), true
}

// ExpectedPercentage returns the theoretical success rate as a percentage.
func (r *SimulationResult) ExpectedPercentage() float64 {
	return r.Expected * 100
}

// RunFilters contains filter options for listing runs.
type RunFilters struct {
	Strategy string
	Limit    int
}

// Run represents a recorded run summary at the port boundary.
type Run struct {
	ID        string
	Strategy  string
	Prisoners int
	Count     int
	Passes    int
	Failures  int
	Seed      uint64
	Workers   int
	Duration  time.Duration
	CreatedAt string
}

// SuccessPercentage returns the recorded success rate. ok is false when the
// run tallied no trials.
func (r *Run) SuccessPercentage() (pct float64, ok bool) {
	total := r.Passes + r.Failures
	if total == 0 {
		return 0, false
	}
	return float64(r.Passes) * 100 / float64(total), true
}
