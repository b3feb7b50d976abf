package commands

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"lilt/internal/parser"
	"lilt/internal/storage"
)

// ImportCommand handles the import command
type ImportCommand struct {
	parser      parser.Parser
	openStorage func() (storage.Storage, error)
}

// NewImportCommand creates a new ImportCommand
func NewImportCommand(p parser.Parser, openStorage func() (storage.Storage, error)) *ImportCommand {
	return &ImportCommand{parser: p, openStorage: openStorage}
}

// Execute runs the command
func (ic *ImportCommand) Execute(cmd *cobra.Command, args []string) error {
	var in io.Reader = cmd.InOrStdin()
	started := time.Now()
	if args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open TAP file: %w", err)
		}
		defer f.Close()
		in = f
		if info, err := f.Stat(); err == nil {
			started = info.ModTime()
		}
	}

	run, err := ic.parser.Parse(in)
	if err != nil {
		return fmt.Errorf("failed to parse TAP stream: %w", err)
	}
	run.ID = uuid.NewString()
	run.Started = started

	st, err := ic.openStorage()
	if err != nil {
		return err
	}
	defer storage.Close(st)
	if err := st.Save(run); err != nil {
		return fmt.Errorf("failed to save test results: %w", err)
	}

	passed, total := run.Totals()
	color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "Imported %d set(s), %d/%d cases passed\n", len(run.Sets), passed, total)
	return nil
}
