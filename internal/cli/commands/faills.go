package commands

import (
	"github.com/spf13/cobra"

	"lilt/internal/storage"
	"lilt/internal/ui"
)

// FaillsCommand handles the faills command
type FaillsCommand struct {
	openStorage func() (storage.Storage, error)
	newViewer   func(storage.Storage) ui.Viewer
}

// NewFaillsCommand creates a new FaillsCommand
func NewFaillsCommand(openStorage func() (storage.Storage, error)) *FaillsCommand {
	return &FaillsCommand{
		openStorage: openStorage,
		newViewer: func(st storage.Storage) ui.Viewer {
			return ui.NewErrorViewer(st)
		},
	}
}

// Execute runs the command
func (fc *FaillsCommand) Execute(cmd *cobra.Command, args []string) error {
	st, err := fc.openStorage()
	if err != nil {
		return err
	}
	defer storage.Close(st)
	results, err := st.Load()
	if err != nil {
		return err
	}

	return fc.newViewer(st).View(results)
}
