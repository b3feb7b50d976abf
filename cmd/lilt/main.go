package main

import (
	"fmt"
	"os"

	"lilt/internal/cli"
	"lilt/internal/cli/commands"
	"lilt/internal/config"

	_ "lilt/examples/demo"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	// Create root command
	rootCmd := &cobra.Command{
		Use:           "lilt",
		Short:         "Lightweight pre-main test harness",
		Long:          `Run, list and inspect the test sets declared with lilt/pkg/harness and linked into this binary.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Create initial config with defaults; commands load the rest before running
	cfg := config.New()

	// Create flags struct (will be populated by command flags)
	var flags cli.Flags

	// Create commands with dependencies
	cmds := commands.NewCommands(cfg)

	// Register all commands
	cmds.Register(rootCmd, &flags, cfg)

	// Execute root command
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
