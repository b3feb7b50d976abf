package commands

import (
	"errors"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"lilt/internal/config"
	"lilt/internal/storage"
	"lilt/internal/ui"
	"lilt/pkg/harness"
	"lilt/pkg/report"
)

// ListCommand handles the list command
type ListCommand struct {
	config      *config.Config
	defs        []harness.Definition
	openStorage func() (storage.Storage, error)
}

// NewListCommand creates a new ListCommand
func NewListCommand(cfg *config.Config, defs []harness.Definition, openStorage func() (storage.Storage, error)) *ListCommand {
	return &ListCommand{
		config:      cfg,
		defs:        defs,
		openStorage: openStorage,
	}
}

// Execute runs the command
func (lc *ListCommand) Execute(cmd *cobra.Command, args []string) error {
	opts := lc.config.Options(report.Discard{}, nil)
	listings := harness.NewRunner(opts, lc.defs...).List()

	if len(listings) == 0 {
		color.New(color.FgYellow).Fprintln(cmd.OutOrStdout(), "No test sets found")
		return nil
	}

	ui.NewFormatter(cmd.OutOrStdout()).PrintSetList(listings, lc.config.Flags.Cases, lc.failedSets())
	return nil
}

// failedSets returns the sets that failed in the last saved run, if any
func (lc *ListCommand) failedSets() map[string]struct{} {
	st, err := lc.openStorage()
	if err != nil {
		return nil
	}
	defer storage.Close(st)
	results, err := st.Load()
	if err != nil {
		if !errors.Is(err, storage.ErrNoResults) {
			color.New(color.FgYellow).Fprintf(color.Error, "Could not read last results: %v\n", err)
		}
		return nil
	}

	failed := make(map[string]struct{})
	for _, d := range results.Details {
		failed[d.SetName] = struct{}{}
	}
	return failed
}
