package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/prisoners/internal/config"
	"github.com/example/prisoners/internal/telemetry"
)

// runOptions are the execution settings that do not change a run's result.
type runOptions struct {
	workers int
	trace   bool
	metrics bool
}

func registerRunOptionFlags(cmd *cobra.Command) {
	cmd.Flags().Int("workers", 0, "Goroutines per trial (0 = one per CPU)")
	cmd.Flags().Bool("trace", false, "Write trace spans to stderr")
	cmd.Flags().Bool("metrics", false, "Write run metrics to stderr on exit")
}

// runOptionsFrom reads the run option flags, falling back to config values
// for flags that were not given.
func runOptionsFrom(cmd *cobra.Command, cfg *config.Config) runOptions {
	flags := cmd.Flags()
	opts := runOptions{workers: cfg.Workers, trace: cfg.Trace, metrics: cfg.Metrics}
	if flags.Changed("workers") {
		opts.workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("trace") {
		opts.trace, _ = flags.GetBool("trace")
	}
	if flags.Changed("metrics") {
		opts.metrics, _ = flags.GetBool("metrics")
	}
	return opts
}

// startTelemetry installs the stderr span and metric exporters that opts
// enables. The returned function flushes them.
func startTelemetry(opts runOptions) (func(), error) {
	var shutdowns []func(context.Context) error

	if opts.trace {
		shutdown, err := telemetry.SetupTracing(os.Stderr)
		if err != nil {
			return nil, fmt.Errorf("failed to set up tracing: %w", err)
		}
		shutdowns = append(shutdowns, shutdown)
	}
	if opts.metrics {
		shutdown, err := telemetry.SetupMetrics(os.Stderr)
		if err != nil {
			return nil, errors.Join(fmt.Errorf("failed to set up metrics: %w", err), flush(shutdowns))
		}
		shutdowns = append(shutdowns, shutdown)
	}

	return func() {
		_ = flush(shutdowns)
	}, nil
}

func flush(shutdowns []func(context.Context) error) error {
	var errs []error
	for _, shutdown := range shutdowns {
		errs = append(errs, shutdown(context.Background()))
	}
	return errors.Join(errs...)
}
