package commands

import (
	"github.com/spf13/cobra"

	"ptsplit/internal/config"
	"ptsplit/internal/storage"
	"ptsplit/internal/ui"
)

// ShowCommand handles the show command
type ShowCommand struct {
	config    *config.Config
	storage   storage.Storage
	formatter *ui.Formatter
	viewer    *ui.PlanViewer
}

// NewShowCommand creates a new ShowCommand
func NewShowCommand(cfg *config.Config, st storage.Storage, formatter *ui.Formatter, viewer *ui.PlanViewer) *ShowCommand {
	return &ShowCommand{
		config:    cfg,
		storage:   st,
		formatter: formatter,
		viewer:    viewer,
	}
}

// Execute runs the command
func (sc *ShowCommand) Execute(cmd *cobra.Command, args []string) error {
	manifest, err := sc.storage.LoadPlan()
	if err != nil {
		return err
	}

	if sc.config.Flags.Plain {
		sc.formatter.PrintPlan(manifest)
		return nil
	}

	sc.viewer.SetPattern(sc.config.Flags.Filter)
	return sc.viewer.View(manifest)
}
