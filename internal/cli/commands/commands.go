package commands

import (
	"lilt/internal/cli"
	"lilt/internal/config"
	"lilt/internal/metrics"
	"lilt/internal/parser"
	"lilt/internal/storage"
	"lilt/pkg/harness"

	"github.com/spf13/cobra"
)

// Commands holds all CLI commands
type Commands struct {
	Run    *RunCommand
	List   *ListCommand
	Faills *FaillsCommand
	Stats  *StatsCommand
	Import *ImportCommand
}

// NewCommands creates all commands over the given sets, or over every
// declared set when none are given. Storage is opened per command once the
// config has been loaded.
func NewCommands(cfg *config.Config, defs ...harness.Definition) *Commands {
	openStorage := func() (storage.Storage, error) { return storage.New(cfg) }

	return &Commands{
		Run:    NewRunCommand(cfg, defs, metrics.NewCollector(), openStorage),
		List:   NewListCommand(cfg, defs, openStorage),
		Faills: NewFaillsCommand(openStorage),
		Stats:  NewStatsCommand(cfg, openStorage),
		Import: NewImportCommand(parser.NewTAPParser(), openStorage),
	}
}

// Register registers all commands with cobra
func (c *Commands) Register(rootCmd *cobra.Command, flags *cli.Flags, cfg *config.Config) {
	// Update config with flags after parsing
	loadConfig := func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(flags.ToConfigFlags())
		if err != nil {
			return err
		}
		*cfg = *loaded
		return nil
	}

	rootCmd.PersistentFlags().StringVar(&flags.ConfigFile, "config", "", "Path to the config file (default ./lilt.yaml)")
	rootCmd.PersistentFlags().StringVar(&flags.LogLevel, "log-level", "", "Diagnostic log level (debug, info, warn, error)")

	// Run command
	runCmd := &cobra.Command{
		Use:     "run",
		Short:   "Run the test sets",
		Long:    "Run every declared test set in declaration order and report each case",
		RunE:    c.Run.Execute,
		PreRunE: loadConfig,
	}
	runCmd.Flags().StringVar(&flags.Mode, "mode", "", "Output mode: human or tap (default from the build)")
	runCmd.Flags().BoolVarP(&flags.Quiet, "quiet", "q", false, "Do not print passing cases in human mode")
	runCmd.Flags().StringVar(&flags.Color, "color", "", "Colour output: auto, always or never")
	runCmd.Flags().StringVarP(&flags.Filter, "filter", "f", "", "Filter sets by name (wildcards, comma separated, '!' excludes)")
	runCmd.Flags().StringVar(&flags.LogFile, "log-file", "", "Append a numbered event log to this file")
	runCmd.Flags().StringVar(&flags.MetricsFile, "metrics-file", "", "Write Prometheus metrics to this textfile")
	runCmd.Flags().BoolVar(&flags.Progress, "progress", false, "Show a progress bar per set on stderr")
	runCmd.Flags().BoolVar(&flags.Save, "save", false, "Save results for the stats and faills commands")
	rootCmd.AddCommand(runCmd)

	// List command
	listCmd := &cobra.Command{
		Use:     "list",
		Short:   "List the test sets",
		Long:    "Define every test set and list it without running any case",
		RunE:    c.List.Execute,
		PreRunE: loadConfig,
	}
	listCmd.Flags().StringVarP(&flags.Filter, "filter", "f", "", "Filter sets by name (wildcards, comma separated, '!' excludes)")
	listCmd.Flags().BoolVarP(&flags.Cases, "cases", "c", false, "List the cases of each set")
	rootCmd.AddCommand(listCmd)

	// Faills command
	faillsCmd := &cobra.Command{
		Use:     "faills",
		Short:   "View test failures interactively",
		Long:    "Display failed cases from the last saved run in an interactive viewer",
		RunE:    c.Faills.Execute,
		PreRunE: loadConfig,
	}
	rootCmd.AddCommand(faillsCmd)

	// Stats command
	statsCmd := &cobra.Command{
		Use:     "stats",
		Short:   "Print statistics of the last saved run",
		RunE:    c.Stats.Execute,
		PreRunE: loadConfig,
	}
	statsCmd.Flags().BoolVarP(&flags.Watch, "watch", "w", false, "Redraw whenever the results file changes")
	rootCmd.AddCommand(statsCmd)

	// Import command
	importCmd := &cobra.Command{
		Use:     "import FILE",
		Short:   "Save a captured TAP stream as a run",
		Long:    "Parse TAP output written by a tap mode run and save it for the stats and faills commands. Use - for stdin.",
		Args:    cobra.ExactArgs(1),
		RunE:    c.Import.Execute,
		PreRunE: loadConfig,
	}
	rootCmd.AddCommand(importCmd)
}
