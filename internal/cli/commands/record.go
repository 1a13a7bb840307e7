package commands

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"ptsplit/internal/config"
	"ptsplit/internal/domain"
)

// RecordCommand handles the record command
type RecordCommand struct {
	config *config.Config
}

// NewRecordCommand creates a new RecordCommand
func NewRecordCommand(cfg *config.Config) *RecordCommand {
	return &RecordCommand{config: cfg}
}

// Execute runs the command
func (rc *RecordCommand) Execute(cmd *cobra.Command, args []string) error {
	result, err := domain.ParseBuildResult(rc.config.Flags.Result)
	if err != nil {
		return err
	}

	store := newStore(rc.config)
	build, err := currentBuild(rc.config, store)
	if err != nil {
		return err
	}

	reportsDir := rc.config.GetReportsDir()
	files, err := newScanner(rc.config).Scan(reportsDir)
	if err != nil {
		return fmt.Errorf("failed to collect reports: %w", err)
	}

	record := domain.BuildRecord{
		Number:    build,
		Result:    result,
		Timestamp: time.Now().Format(time.RFC3339),
	}
	if err := store.Record(record, reportsDir, files); err != nil {
		return fmt.Errorf("failed to record build: %w", err)
	}

	color.Green("✓ Recorded build #%d as %s with %d report file(s)", build, result, len(files))
	return nil
}
