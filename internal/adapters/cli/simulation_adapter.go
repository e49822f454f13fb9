package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/example/prisoners/internal/core/seed"
	"github.com/example/prisoners/internal/core/sweep"
	"github.com/example/prisoners/internal/ports/primary"
)

var (
	passColor = color.New(color.FgGreen)
	failColor = color.New(color.FgRed)
	dimColor  = color.New(color.Faint)
)

// SimulationAdapter is a thin adapter that translates CLI operations to SimulationService calls.
type SimulationAdapter struct {
	service primary.SimulationService
	out     io.Writer
}

// NewSimulationAdapter creates a new SimulationAdapter with the given service.
func NewSimulationAdapter(service primary.SimulationService, out io.Writer) *SimulationAdapter {
	return &SimulationAdapter{
		service: service,
		out:     out,
	}
}

// Simulate runs one simulation and prints its tally.
func (a *SimulationAdapter) Simulate(ctx context.Context, req primary.RunSimulationRequest) (*primary.SimulationResult, error) {
	result, err := a.service.RunSimulation(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("simulation failed: %w", err)
	}

	if result.RunID != "" {
		fmt.Fprintf(a.out, "Run:        %s\n", result.RunID)
	}
	fmt.Fprintf(a.out, "Strategy:   %s\n", result.Strategy)
	fmt.Fprintf(a.out, "Prisoners:  %d (each opens %d boxes)\n", result.Prisoners, result.Budget)
	fmt.Fprintf(a.out, "Trials:     %d\n", result.Count)
	fmt.Fprintf(a.out, "Passes:     %s\n", passColor.Sprint(result.Passes))
	fmt.Fprintf(a.out, "Failures:   %s\n", failColor.Sprint(result.Failures))
	fmt.Fprintf(a.out, "Success:    %s\n", formatSuccess(result.SuccessPercentage()))
	fmt.Fprintf(a.out, "Expected:   %s\n", dimColor.Sprintf("%.2f%%", result.ExpectedPercentage()))
	fmt.Fprintf(a.out, "Seed:       %d\n", result.Seed)

	return result, nil
}

// Sweep runs each configuration in order and prints one row per run. When
// master is set, configuration i is seeded with seed.Derive(*master, i) so the
// whole sweep is reproducible.
func (a *SimulationAdapter) Sweep(ctx context.Context, configs []sweep.Config, master *uint64, record bool) ([]*primary.SimulationResult, error) {
	results := make([]*primary.SimulationResult, 0, len(configs))

	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "STRATEGY\tPRISONERS\tTRIALS\tPASSES\tFAILURES\tSUCCESS\tEXPECTED\tRUN")
	fmt.Fprintln(w, "--------\t---------\t------\t------\t--------\t-------\t--------\t---")

	for _, cfg := range configs {
		req := primary.RunSimulationRequest{
			Strategy:  cfg.Strategy.String(),
			Count:     cfg.Count,
			Prisoners: cfg.Prisoners,
			Record:    record,
		}
		if master != nil {
			s := seed.Derive(*master, uint64(cfg.Index))
			req.Seed = &s
		}

		result, err := a.service.RunSimulation(ctx, req)
		if err != nil {
			w.Flush()
			return results, fmt.Errorf("sweep %s/%d failed: %w", cfg.Strategy, cfg.Prisoners, err)
		}
		results = append(results, result)

		runID := result.RunID
		if runID == "" {
			runID = "-"
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%s\t%.2f%%\t%s\n",
			result.Strategy,
			result.Prisoners,
			result.Count,
			result.Passes,
			result.Failures,
			formatPlainSuccess(result.SuccessPercentage()),
			result.ExpectedPercentage(),
			runID,
		)
	}

	w.Flush()
	return results, nil
}

// HistoryAdapter is a thin adapter that translates CLI operations to RunHistoryService calls.
type HistoryAdapter struct {
	service primary.RunHistoryService
	out     io.Writer
}

// NewHistoryAdapter creates a new HistoryAdapter with the given service.
func NewHistoryAdapter(service primary.RunHistoryService, out io.Writer) *HistoryAdapter {
	return &HistoryAdapter{
		service: service,
		out:     out,
	}
}

// List lists recorded runs with an optional strategy filter.
func (a *HistoryAdapter) List(ctx context.Context, strategy string, limit int) ([]*primary.Run, error) {
	runs, err := a.service.ListRuns(ctx, primary.RunFilters{
		Strategy: strategy,
		Limit:    limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Fprintln(a.out, "No recorded runs found.")
		fmt.Fprintln(a.out)
		fmt.Fprintln(a.out, "Record a run:")
		fmt.Fprintln(a.out, "  prisoners simulate --strategy number-follow --count 1000 --record")
		return runs, nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tSTRATEGY\tPRISONERS\tTRIALS\tSUCCESS\tCREATED")
	fmt.Fprintln(w, "--\t--------\t---------\t------\t-------\t-------")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\t%s\n",
			run.ID,
			run.Strategy,
			run.Prisoners,
			run.Count,
			formatPlainSuccess(run.SuccessPercentage()),
			run.CreatedAt,
		)
	}

	w.Flush()
	return runs, nil
}

// Show displays details for a single recorded run.
func (a *HistoryAdapter) Show(ctx context.Context, runID string) (*primary.Run, error) {
	run, err := a.service.GetRun(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	fmt.Fprintf(a.out, "\nRun: %s\n", run.ID)
	fmt.Fprintf(a.out, "Strategy:  %s\n", run.Strategy)
	fmt.Fprintf(a.out, "Prisoners: %d\n", run.Prisoners)
	fmt.Fprintf(a.out, "Trials:    %d\n", run.Count)
	fmt.Fprintf(a.out, "Passes:    %s\n", passColor.Sprint(run.Passes))
	fmt.Fprintf(a.out, "Failures:  %s\n", failColor.Sprint(run.Failures))
	fmt.Fprintf(a.out, "Success:   %s\n", formatSuccess(run.SuccessPercentage()))
	fmt.Fprintf(a.out, "Seed:      %d\n", run.Seed)
	fmt.Fprintf(a.out, "Workers:   %d\n", run.Workers)
	fmt.Fprintf(a.out, "Duration:  %s\n", run.Duration)
	fmt.Fprintf(a.out, "Created:   %s\n", run.CreatedAt)
	fmt.Fprintln(a.out)

	return run, nil
}

// Delete removes a recorded run.
func (a *HistoryAdapter) Delete(ctx context.Context, runID string) error {
	if err := a.service.DeleteRun(ctx, runID); err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}

	fmt.Fprintf(a.out, "✓ Run %s deleted\n", runID)
	return nil
}

func formatSuccess(pct float64, ok bool) string {
	if !ok {
		return dimColor.Sprint("n/a")
	}
	return color.New(color.Bold).Sprintf("%.2f%%", pct)
}

// formatPlainSuccess is formatSuccess without escape codes, which would
// throw off tabwriter column widths.
func formatPlainSuccess(pct float64, ok bool) string {
	if !ok {
		return "n/a"
	}
	return fmt.Sprintf("%.2f%%", pct)
}
