package commands

import (
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"lilt/internal/config"
	"lilt/internal/storage"
	"lilt/internal/ui"
)

// StatsCommand handles the stats command
type StatsCommand struct {
	config      *config.Config
	openStorage func() (storage.Storage, error)
}

// NewStatsCommand creates a new StatsCommand
func NewStatsCommand(cfg *config.Config, openStorage func() (storage.Storage, error)) *StatsCommand {
	return &StatsCommand{config: cfg, openStorage: openStorage}
}

// Execute runs the command
func (sc *StatsCommand) Execute(cmd *cobra.Command, args []string) error {
	st, err := sc.openStorage()
	if err != nil {
		return err
	}
	defer storage.Close(st)
	formatter := ui.NewFormatter(cmd.OutOrStdout())

	draw := func() error {
		results, err := st.Load()
		if err != nil {
			return err
		}
		if sc.config.Flags.Watch {
			formatter.ClearScreen()
		}
		formatter.PrintMetaStats(results)
		return nil
	}

	if err := draw(); err != nil {
		return err
	}
	if !sc.config.Flags.Watch {
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	watcher := ui.NewStatsWatcher(sc.config.GetOutputPath(), ui.DefaultDebounce, func() {
		if err := draw(); err != nil {
			color.New(color.FgRed).Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		}
	})
	watcher.OnError = func(err error) {
		color.New(color.FgRed).Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
	}
	return watcher.Run(ctx)
}
