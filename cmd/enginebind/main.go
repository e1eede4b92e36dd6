package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teranos/enginebind/cmd/enginebind/commands"
	"github.com/teranos/enginebind/logger"
)

var rootCmd = &cobra.Command{
	Use:   "enginebind",
	Short: "Generate Go bindings for the engine's class API",
	Long: `enginebind - build-time binding generator for the engine's object API.

It reads the engine's JSON class catalog, partitions the class graph into a
foundation set (everything reachable from the root object class) and
extension sets, and emits Go types, memory-management traits and a method
table that binds every method pointer once at startup.

Available commands:
  generate  - Generate bindings for the foundation or an extension set
  class     - Generate bindings for a single class
  partition - Print the foundation generation set
  check     - Verify generated bindings are up to date
  init      - Write a default enginebind.toml
  config    - Show where configuration comes from
  version   - Show build information

Examples:
  enginebind generate                       # Foundation bindings into output.dir
  enginebind generate --extension           # Everything outside the foundation
  enginebind generate --watch               # Regenerate when inputs change
  enginebind class Sprite -o sprite/        # One class on demand
  enginebind partition                      # Show the foundation set`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		jsonOutput, _ := cmd.Flags().GetBool("json-log")
		if err := logger.Initialize(jsonOutput, verbosity); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Cleanup()
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")
	rootCmd.PersistentFlags().Bool("json-log", false, "Emit logs as JSON")
	rootCmd.PersistentFlags().StringVarP(&commands.ConfigPath, "config", "c", "", "Config file (default: nearest enginebind.toml)")

	rootCmd.AddCommand(commands.GenerateCmd)
	rootCmd.AddCommand(commands.ClassCmd)
	rootCmd.AddCommand(commands.PartitionCmd)
	rootCmd.AddCommand(commands.CheckCmd)
	rootCmd.AddCommand(commands.InitCmd)
	rootCmd.AddCommand(commands.ConfigCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
