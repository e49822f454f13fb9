package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/prisoners/internal/wire"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect recorded simulation runs",
	Long:  "List, show, and delete run summaries saved with --record",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded runs, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		strategy, _ := cmd.Flags().GetString("strategy")
		limit, _ := cmd.Flags().GetInt("limit")

		adapter, err := wire.HistoryAdapter()
		if err != nil {
			return err
		}
		_, err = adapter.List(cmd.Context(), strategy, limit)
		return err
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show [run-id]",
	Short: "Show a recorded run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		adapter, err := wire.HistoryAdapter()
		if err != nil {
			return err
		}
		_, err = adapter.Show(cmd.Context(), args[0])
		return err
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete [run-id]",
	Short: "Delete a recorded run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		adapter, err := wire.HistoryAdapter()
		if err != nil {
			return err
		}
		return adapter.Delete(cmd.Context(), args[0])
	},
}

func init() {
	// history list flags
	historyListCmd.Flags().StringP("strategy", "s", "", "Only show runs of this strategy")
	historyListCmd.Flags().IntP("limit", "l", 20, "Maximum number of runs to show (0 = all)")

	// Register subcommands
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyDeleteCmd)
}

// HistoryCmd returns the history command
func HistoryCmd() *cobra.Command {
	return historyCmd
}
