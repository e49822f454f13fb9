package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/example/prisoners/internal/cli"
	"github.com/example/prisoners/internal/version"
	"github.com/example/prisoners/internal/wire"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "prisoners",
		Short:   "Monte Carlo simulator for the 100 prisoners problem",
		Version: version.String(),
		Long: `prisoners estimates how often a group of prisoners all find their own
number when each may open only half of the boxes, for different search
strategies.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, _ := cmd.Flags().GetString("log-level")
			format, _ := cmd.Flags().GetString("log-format")
			return wire.InitLogging(level, format)
		},
	}
	rootCmd.PersistentFlags().String("log-level", "", "Log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "", "Log format (console, json)")

	// Add subcommands
	rootCmd.AddCommand(cli.SimulateCmd())
	rootCmd.AddCommand(cli.SweepCmd())
	rootCmd.AddCommand(cli.HistoryCmd())
	rootCmd.AddCommand(cli.ConfigCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
