package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"lilt/internal/config"
	"lilt/internal/logging"
	"lilt/internal/metrics"
	"lilt/internal/storage"
	"lilt/internal/ui"
	"lilt/pkg/dblog"
	"lilt/pkg/domain"
	"lilt/pkg/harness"
	"lilt/pkg/report"
)

// ErrCasesFailed is returned by run when any case failed
var ErrCasesFailed = errors.New("test cases failed")

// RunCommand handles the run command
type RunCommand struct {
	config      *config.Config
	defs        []harness.Definition
	metrics     *metrics.Collector
	openStorage func() (storage.Storage, error)
}

// NewRunCommand creates a new RunCommand
func NewRunCommand(
	cfg *config.Config,
	defs []harness.Definition,
	collector *metrics.Collector,
	openStorage func() (storage.Storage, error),
) *RunCommand {
	return &RunCommand{
		config:      cfg,
		defs:        defs,
		metrics:     collector,
		openStorage: openStorage,
	}
}

// Execute runs the command
func (rc *RunCommand) Execute(cmd *cobra.Command, args []string) error {
	logger, err := logging.New(rc.config.Logging())
	if err != nil {
		return err
	}
	defer logger.Sync()

	mode, err := rc.config.ReportMode()
	if err != nil {
		return err
	}
	reporters := report.Multi{report.New(mode, cmd.OutOrStdout(), rc.config.ReportOptions(os.Stdout))}

	if rc.config.LogFile != "" {
		log, err := dblog.Open(rc.config.LogFile)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer log.Close()
		reporters = append(reporters, report.NewLogSink(log))
	}
	if rc.config.Progress {
		reporters = append(reporters, ui.NewProgressReporter(cmd.ErrOrStderr()))
	}

	run := harness.NewRunner(rc.config.Options(reporters, logger), rc.defs...).Run()

	if err := rc.record(run); err != nil {
		return err
	}

	passed, total := run.Totals()
	if len(run.Sets) == 0 {
		color.New(color.FgYellow).Fprintln(cmd.ErrOrStderr(), "No test sets to run")
	}
	if passed < total {
		return fmt.Errorf("%w: %d of %d", ErrCasesFailed, total-passed, total)
	}
	return nil
}

// record writes metrics and saved results when configured
func (rc *RunCommand) record(run domain.RunResult) error {
	if rc.config.MetricsFile != "" {
		rc.metrics.RecordRun(run)
		if err := rc.metrics.WriteTextfile(rc.config.MetricsFile); err != nil {
			return err
		}
	}

	if !rc.config.Flags.Save {
		return nil
	}
	st, err := rc.openStorage()
	if err != nil {
		return err
	}
	defer storage.Close(st)
	if err := st.Save(run); err != nil {
		return fmt.Errorf("failed to save test results: %w", err)
	}
	return nil
}
