package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/example/prisoners/internal/config"
	"github.com/example/prisoners/internal/wire"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage simulation defaults",
	Long: `Defaults are read from .prisoners/config.json in the working directory,
then overridden by PRISONERS_* environment variables and command flags.`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default .prisoners/config.json",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get working directory: %w", err)
		}

		force, _ := cmd.Flags().GetBool("force")
		path := filepath.Join(dir, config.DirName, "config.json")
		if _, err := os.Stat(path); err == nil && !force {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}

		cfg := config.Default()
		cfg.Strategy = "number-follow"
		cfg.Count = 1000
		cfg.Prisoners = 100
		if err := config.SaveConfig(dir, cfg); err != nil {
			return err
		}

		fmt.Printf("✓ Wrote %s\n", path)
		fmt.Println()
		fmt.Println("Next steps:")
		fmt.Println("  prisoners simulate")
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := wire.Config()
		if err != nil {
			return err
		}

		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		fmt.Println(string(data))

		dbPath, err := cfg.ResolveDBPath()
		if err == nil {
			fmt.Printf("\nHistory database: %s\n", dbPath)
		}
		return nil
	},
}

func init() {
	configInitCmd.Flags().Bool("force", false, "Overwrite an existing config file")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}

// ConfigCmd returns the config command
func ConfigCmd() *cobra.Command {
	return configCmd
}
