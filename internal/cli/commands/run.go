package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"ptsplit/internal/config"
	"ptsplit/internal/database"
	"ptsplit/internal/domain"
	"ptsplit/internal/execution"
	"ptsplit/internal/logging"
	"ptsplit/internal/ui"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// RunCommand handles the run command
type RunCommand struct {
	config      *config.Config
	planner     *PlanCommand
	executor    *execution.WorkerPool
	provisioner *database.Provisioner
	formatter   *ui.Formatter
}

// NewRunCommand creates a new RunCommand
func NewRunCommand(
	cfg *config.Config,
	planner *PlanCommand,
	executor *execution.WorkerPool,
	provisioner *database.Provisioner,
	formatter *ui.Formatter,
) *RunCommand {
	return &RunCommand{
		config:      cfg,
		planner:     planner,
		executor:    executor,
		provisioner: provisioner,
		formatter:   formatter,
	}
}

// Execute runs the command
func (rc *RunCommand) Execute(cmd *cobra.Command, args []string) error {
	if len(rc.config.TestCommand) == 0 {
		return fmt.Errorf("no test_command configured in %s", config.ConfigFileName)
	}

	prepared, err := rc.planner.Prepare()
	if err != nil {
		return err
	}
	rc.formatter.PrintPlan(prepared.Manifest)

	partitions := execution.Partitions(prepared.Plan, prepared.SplitFiles, rc.config.GetPartitionReportsDir, rc.config.SkipEmptyPartitions)
	if len(partitions) < prepared.Plan.Partitions() {
		logging.Info("trigger", "Skipping %d empty partition(s)", prepared.Plan.Partitions()-len(partitions))
	}

	// Databases are numbered by launch sequence, like DB_DATABASE in each child
	if rc.config.Flags.CreateDatabases {
		if err := rc.provisioner.Run(cmd.Context(), len(partitions), ui.NewSpinner("Preparing databases")); err != nil {
			return fmt.Errorf("database setup failed: %w", err)
		}
		fmt.Println()
	}

	// Reports of an earlier run must not leak into this build's archive.
	// Only partition directories are cleared; reports_dir may be shared.
	if err := rc.clearPartitionReports(); err != nil {
		return err
	}
	for _, p := range partitions {
		if err := os.MkdirAll(p.ReportsDir, 0755); err != nil {
			return fmt.Errorf("failed to create reports dir: %w", err)
		}
	}

	rc.executor.SetProgress(ui.NewProgressBar(len(partitions)))
	results, duration, execErr := rc.executor.Execute(cmd.Context(), partitions, prepared.RunID)
	if execErr != nil && !errors.Is(execErr, execution.ErrPartitionsFailed) {
		return execErr
	}
	rc.formatter.PrintResults(results, duration)

	// Killed children leave partial reports that must never become a reference
	if ctxErr := cmd.Context().Err(); ctxErr != nil {
		if rc.config.ArchiveResults {
			if err := rc.archive(prepared, partitions, domain.ResultAborted); err != nil {
				logging.Error("trigger", err, "Could not record aborted build #%d", prepared.Build)
			}
		}
		return fmt.Errorf("run interrupted: %w", ctxErr)
	}

	if rc.config.ArchiveResults {
		result := domain.ResultSuccess
		if execErr != nil {
			result = domain.ResultUnstable
		}
		if err := rc.archive(prepared, partitions, result); err != nil {
			return err
		}
	}

	return execErr
}

// clearPartitionReports removes the partition report directories of an
// earlier run
func (rc *RunCommand) clearPartitionReports() error {
	stale, err := filepath.Glob(rc.config.GetPartitionReportsGlob())
	if err != nil {
		return fmt.Errorf("failed to clear reports dir: %w", err)
	}
	for _, dir := range stale {
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("failed to clear reports dir: %w", err)
		}
	}
	return nil
}

// archive records the current build with the reports the launched
// partitions wrote
func (rc *RunCommand) archive(prepared *Prepared, partitions []execution.Partition, result domain.BuildResult) error {
	reportsDir := rc.config.GetReportsDir()
	scanner := newScanner(rc.config)
	var files []string
	for _, p := range partitions {
		found, err := scanner.Scan(p.ReportsDir)
		if err != nil {
			return fmt.Errorf("failed to collect reports: %w", err)
		}
		files = append(files, found...)
	}

	record := domain.BuildRecord{
		Number:    prepared.Build,
		Result:    result,
		RunID:     prepared.RunID,
		Timestamp: time.Now().Format(time.RFC3339),
	}
	if err := newStore(rc.config).Record(record, reportsDir, files); err != nil {
		return fmt.Errorf("failed to record build: %w", err)
	}

	if len(files) == 0 {
		color.Yellow("⚠ No reports matching %s found in %s", rc.config.ReportPattern, reportsDir)
	}
	color.Cyan("Recorded build #%d as %s with %d report file(s)", record.Number, record.Result, len(files))
	return nil
}
