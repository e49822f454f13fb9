package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/prisoners/internal/core/sweep"
	"github.com/example/prisoners/internal/wire"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Simulate every strategy against every prisoner count",
	Long: `Run one simulation per (strategy, prisoner count) pair and print a table.

The grid comes from a YAML plan (--file) or from flags:

  count: 1000
  seed: 42
  strategies: [number-follow, random]
  prisoners: [10, 50, 100]`,
	Example: `  prisoners sweep --file plan.yaml
  prisoners sweep --strategies number-follow,random --prisoners 10,100 --count 1000`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := wire.Config()
		if err != nil {
			return err
		}

		plan, err := sweepPlan(cmd)
		if err != nil {
			return err
		}
		if err := plan.Validate(); err != nil {
			return err
		}
		configs, err := plan.Expand()
		if err != nil {
			return err
		}

		opts := runOptionsFrom(cmd, cfg)
		stopTelemetry, err := startTelemetry(opts)
		if err != nil {
			return err
		}
		defer stopTelemetry()

		adapter, err := wire.SimulationAdapter(opts.workers, plan.Record)
		if err != nil {
			return err
		}

		_, err = adapter.Sweep(cmd.Context(), configs, plan.Seed, plan.Record)
		return err
	},
}

// sweepPlan loads --file when given, then applies any grid flags on top.
func sweepPlan(cmd *cobra.Command) (*sweep.Plan, error) {
	flags := cmd.Flags()
	plan := &sweep.Plan{}

	if path, _ := flags.GetString("file"); path != "" {
		loaded, err := sweep.LoadPlan(path)
		if err != nil {
			return nil, err
		}
		plan = loaded
	}

	if flags.Changed("strategies") {
		plan.Strategies, _ = flags.GetStringSlice("strategies")
	}
	if flags.Changed("prisoners") {
		plan.Prisoners, _ = flags.GetIntSlice("prisoners")
	}
	if flags.Changed("count") {
		count, _ := flags.GetUint32("count")
		plan.Count = int(count)
	}
	if flags.Changed("seed") {
		s, _ := flags.GetUint64("seed")
		plan.Seed = &s
	}
	if flags.Changed("record") {
		plan.Record, _ = flags.GetBool("record")
	}

	return plan, nil
}

func init() {
	registerSweepFlags(sweepCmd)
}

func registerSweepFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("file", "f", "", "YAML sweep plan")
	cmd.Flags().StringSlice("strategies", nil, "Strategies to sweep (comma-separated)")
	cmd.Flags().IntSlice("prisoners", nil, "Prisoner counts to sweep (comma-separated)")
	cmd.Flags().Uint32P("count", "c", 0, "Trials per configuration")
	cmd.Flags().Uint64("seed", 0, "Master seed; configuration i uses a seed derived from it")
	cmd.Flags().Bool("record", false, "Save each run summary to the history database")
	registerRunOptionFlags(cmd)
}

// SweepCmd returns the sweep command
func SweepCmd() *cobra.Command {
	return sweepCmd
}
