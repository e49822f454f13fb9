package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/felixgeelhaar/bolt/v3"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/example/prisoners/internal/core/seed"
	"github.com/example/prisoners/internal/core/simulation"
	"github.com/example/prisoners/internal/core/strategy"
	"github.com/example/prisoners/internal/core/trial"
	"github.com/example/prisoners/internal/logging"
	"github.com/example/prisoners/internal/ports/primary"
	"github.com/example/prisoners/internal/ports/secondary"
	"github.com/example/prisoners/internal/telemetry"
)

// ErrHistoryDisabled is returned when a run history operation is requested
// from a service built without a run repository.
var ErrHistoryDisabled = errors.New("run history is not configured")

// SimulationServiceImpl implements SimulationService and RunHistoryService.
type SimulationServiceImpl struct {
	runRepo secondary.RunRepository // nil disables recording and history
	runner  trial.Runner
	logger  *bolt.Logger
	metrics *telemetry.Metrics
}

// NewSimulationService creates a new SimulationService with injected dependencies.
// runRepo and metrics may be nil.
func NewSimulationService(runRepo secondary.RunRepository, runner trial.Runner, logger *bolt.Logger, metrics *telemetry.Metrics) *SimulationServiceImpl {
	if logger == nil {
		logger = logging.Get()
	}
	return &SimulationServiceImpl{
		runRepo: runRepo,
		runner:  runner,
		logger:  logger,
		metrics: metrics,
	}
}

// RunSimulation runs req.Count independent trials and tallies passes and failures.
func (s *SimulationServiceImpl) RunSimulation(ctx context.Context, req primary.RunSimulationRequest) (*primary.SimulationResult, error) {
	strat, err := strategy.Parse(req.Strategy)
	if err != nil {
		return nil, err
	}

	// 1. Guard check
	guardCtx := simulation.RunContext{
		Strategy:  strat,
		Count:     req.Count,
		Prisoners: req.Prisoners,
	}
	if result := simulation.CanRunSimulation(guardCtx); !result.Allowed {
		return nil, result.Error()
	}

	if req.Record && s.runRepo == nil {
		return nil, fmt.Errorf("cannot record run: %w", ErrHistoryDisabled)
	}

	master := seed.Random()
	if req.Seed != nil {
		master = *req.Seed
	}

	if !simulation.IsEvenPrisonerCount(req.Prisoners) {
		logging.With(s.logger.Warn(),
			logging.Component("simulation"),
			logging.Prisoners(req.Prisoners),
		).Msg("odd prisoner count; each prisoner opens floor(n/2) boxes")
	}

	ctx, span := telemetry.Tracer().Start(ctx, "simulation.run", trace.WithAttributes(
		attribute.String("strategy", strat.String()),
		attribute.Int("prisoners", req.Prisoners),
		attribute.Int("count", req.Count),
		attribute.String("seed", fmt.Sprintf("%d", master)),
	))
	defer span.End()

	// 2. Run trials
	result := &primary.SimulationResult{
		Strategy:  strat.String(),
		Prisoners: req.Prisoners,
		Count:     req.Count,
		Budget:    strategy.Budget(req.Prisoners),
		Seed:      master,
		Workers:   s.runner.WorkerCount(req.Prisoners),
		Expected:  simulation.Expected(strat, req.Prisoners),
	}

	start := time.Now()
	for i := 0; i < req.Count; i++ {
		if err := ctx.Err(); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "cancelled")
			return nil, fmt.Errorf("simulation cancelled after %d of %d trials: %w", i, req.Count, err)
		}
		if s.runner.Run(strat, req.Prisoners, seed.Derive(master, uint64(i))) {
			result.Passes++
		} else {
			result.Failures++
		}
	}
	result.Duration = time.Since(start)

	span.SetAttributes(
		attribute.Int("passes", result.Passes),
		attribute.Int("failures", result.Failures),
	)
	s.metrics.RecordRun(ctx, result.Strategy, result.Passes, result.Failures, result.Duration)

	// 3. Record
	if req.Record {
		runID, err := s.record(ctx, result)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "record failed")
			return nil, err
		}
		result.RunID = runID
	}

	logging.With(s.logger.Info(),
		logging.Component("simulation"),
		logging.RunID(result.RunID),
		logging.Strategy(result.Strategy),
		logging.Prisoners(result.Prisoners),
		logging.Trials(result.Count),
		logging.Tally(result.Passes, result.Failures),
		logging.Seed(result.Seed),
		logging.Workers(result.Workers),
		logging.Duration(result.Duration),
	).Msg("simulation complete")

	return result, nil
}

func (s *SimulationServiceImpl) record(ctx context.Context, result *primary.SimulationResult) (string, error) {
	nextID, err := s.runRepo.GetNextID(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to generate run ID: %w", err)
	}

	record := &secondary.RunRecord{
		ID:         nextID,
		Strategy:   result.Strategy,
		Prisoners:  result.Prisoners,
		Count:      result.Count,
		Passes:     result.Passes,
		Failures:   result.Failures,
		Seed:       result.Seed,
		Workers:    result.Workers,
		DurationMs: result.Duration.Milliseconds(),
	}
	if err := s.runRepo.Create(ctx, record); err != nil {
		return "", fmt.Errorf("failed to record run: %w", err)
	}

	return nextID, nil
}

// ListRuns lists recorded runs, newest first.
func (s *SimulationServiceImpl) ListRuns(ctx context.Context, filters primary.RunFilters) ([]*primary.Run, error) {
	if s.runRepo == nil {
		return nil, ErrHistoryDisabled
	}

	if filters.Strategy != "" {
		strat, err := strategy.Parse(filters.Strategy)
		if err != nil {
			return nil, err
		}
		filters.Strategy = strat.String()
	}

	records, err := s.runRepo.List(ctx, secondary.RunFilters{
		Strategy: filters.Strategy,
		Limit:    filters.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	runs := make([]*primary.Run, len(records))
	for i, r := range records {
		runs[i] = s.recordToRun(r)
	}
	return runs, nil
}

// GetRun retrieves a recorded run by ID.
func (s *SimulationServiceImpl) GetRun(ctx context.Context, runID string) (*primary.Run, error) {
	if s.runRepo == nil {
		return nil, ErrHistoryDisabled
	}

	record, err := s.runRepo.GetByID(ctx, runID)
	if err != nil {
		return nil, err
	}
	return s.recordToRun(record), nil
}

// DeleteRun removes a recorded run.
func (s *SimulationServiceImpl) DeleteRun(ctx context.Context, runID string) error {
	if s.runRepo == nil {
		return ErrHistoryDisabled
	}
	return s.runRepo.Delete(ctx, runID)
}

// Helper methods

func (s *SimulationServiceImpl) recordToRun(r *secondary.RunRecord) *primary.Run {
	return &primary.Run{
		ID:        r.ID,
		Strategy:  r.Strategy,
		Prisoners: r.Prisoners,
		Count:     r.Count,
		Passes:    r.Passes,
		Failures:  r.Failures,
		Seed:      r.Seed,
		Workers:   r.Workers,
		Duration:  time.Duration(r.DurationMs) * time.Millisecond,
		CreatedAt: r.CreatedAt,
	}
}

// Ensure SimulationServiceImpl implements the interfaces.
var (
	_ primary.SimulationService = (*SimulationServiceImpl)(nil)
	_ primary.RunHistoryService = (*SimulationServiceImpl)(nil)
)
