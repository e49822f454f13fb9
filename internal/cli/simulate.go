package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/prisoners/internal/config"
	"github.com/example/prisoners/internal/ports/primary"
	"github.com/example/prisoners/internal/wire"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Estimate a strategy's success rate by Monte Carlo simulation",
	Long: `Run --count independent trials of the 100 prisoners problem with
--num-of-prisoners prisoners, each opening at most half the boxes using the
chosen strategy, and report how many trials every prisoner succeeded.

Strategies:
  number-follow  open your own box, then the box named by each slip found
  random         open a uniformly random subset of boxes`,
	Example: `  prisoners simulate --strategy number-follow --count 1000 --num-of-prisoners 100
  prisoners simulate -s random -c 500 -n 10 --seed 42 --record`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := wire.Config()
		if err != nil {
			return err
		}

		req, opts, err := simulateRequest(cmd, cfg)
		if err != nil {
			return err
		}

		stopTelemetry, err := startTelemetry(opts)
		if err != nil {
			return err
		}
		defer stopTelemetry()

		adapter, err := wire.SimulationAdapter(opts.workers, req.Record)
		if err != nil {
			return err
		}

		_, err = adapter.Simulate(cmd.Context(), req)
		return err
	},
}


// simulateRequest merges command flags over the configured defaults. A flag
// that was not given falls back to the config value.
func simulateRequest(cmd *cobra.Command, cfg *config.Config) (primary.RunSimulationRequest, runOptions, error) {
	flags := cmd.Flags()
	req := primary.RunSimulationRequest{
		Strategy:  cfg.Strategy,
		Count:     cfg.Count,
		Prisoners: cfg.Prisoners,
		Record:    cfg.Record,
	}
	opts := runOptionsFrom(cmd, cfg)

	if flags.Changed("strategy") {
		req.Strategy, _ = flags.GetString("strategy")
	}
	if flags.Changed("count") {
		count, _ := flags.GetUint32("count")
		req.Count = int(count)
	}
	if flags.Changed("num-of-prisoners") {
		req.Prisoners, _ = flags.GetInt("num-of-prisoners")
	}
	if flags.Changed("seed") {
		s, _ := flags.GetUint64("seed")
		req.Seed = &s
	}
	if flags.Changed("record") {
		req.Record, _ = flags.GetBool("record")
	}

	var missing []string
	if req.Strategy == "" {
		missing = append(missing, "strategy")
	}
	if !flags.Changed("count") && cfg.Count == 0 {
		missing = append(missing, "count")
	}
	if !flags.Changed("num-of-prisoners") && cfg.Prisoners == 0 {
		missing = append(missing, "num-of-prisoners")
	}
	if len(missing) > 0 {
		return req, opts, fmt.Errorf(`required flag(s) "%s" not set`, strings.Join(missing, `", "`))
	}

	return req, opts, nil
}

func init() {
	registerSimulateFlags(simulateCmd)
}

func registerSimulateFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("strategy", "s", "", "Search strategy (random, number-follow)")
	cmd.Flags().Uint32P("count", "c", 0, "Number of trials to run")
	cmd.Flags().IntP("num-of-prisoners", "n", 0, "Number of prisoners and boxes")
	cmd.Flags().Uint64("seed", 0, "Master seed for a reproducible run (random if unset)")
	cmd.Flags().Bool("record", false, "Save the run summary to the history database")
	registerRunOptionFlags(cmd)
}

// SimulateCmd returns the simulate command
func SimulateCmd() *cobra.Command {
	return simulateCmd
}
