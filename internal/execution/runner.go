package execution

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"ptsplit/internal/config"
	"ptsplit/internal/domain"
)

// Environment variables handed to every child execution
const (
	EnvSplitFile  = "PTSPLIT_SPLIT_FILE"
	EnvPartition  = "PTSPLIT_PARTITION"
	EnvRunID      = "PTSPLIT_RUN_ID"
	EnvReportsDir = "PTSPLIT_REPORTS_DIR"
)

// Runner executes the configured test command for a single partition
type Runner struct {
	config *config.Config
}

// NewRunner creates a new Runner
func NewRunner(cfg *config.Config) *Runner {
	return &Runner{config: cfg}
}

// Run executes the test command for one partition and waits for it.
// Arguments may reference {split}, {partition}, {reports} and {run}.
func (r *Runner) Run(ctx context.Context, p Partition, runID string) (result domain.PartitionResult) {
	result = domain.PartitionResult{Partition: p.Sequence, SplitFile: p.SplitFile}
	start := time.Now()
	defer func() { result.Duration = time.Since(start) }()

	if len(r.config.TestCommand) == 0 {
		result.Error = fmt.Errorf("no test command configured")
		return result
	}
	if err := os.MkdirAll(p.ReportsDir, 0755); err != nil {
		result.Error = fmt.Errorf("create reports dir: %w", err)
		return result
	}

	replacer := strings.NewReplacer(
		"{split}", p.SplitFile,
		"{partition}", strconv.Itoa(p.Sequence),
		"{reports}", p.ReportsDir,
		"{run}", runID,
	)
	argv := make([]string, len(r.config.TestCommand))
	for i, arg := range r.config.TestCommand {
		argv[i] = replacer.Replace(arg)
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)

	// Set environment variables
	cmd.Env = os.Environ() // Start with current environment
	cmd.Env = append(cmd.Env, r.Env(p, runID)...)

	// Set working directory
	cmd.Dir = r.config.ProjectPath

	output, err := cmd.CombinedOutput()

	result.Success = err == nil
	result.Output = string(output)
	result.Error = err
	return result
}

// Env returns the variables that bind a child to its partition
func (r *Runner) Env(p Partition, runID string) []string {
	return []string{
		fmt.Sprintf("%s=%s", EnvSplitFile, p.SplitFile),
		fmt.Sprintf("%s=%d", EnvPartition, p.Sequence),
		fmt.Sprintf("%s=%s", EnvRunID, runID),
		fmt.Sprintf("%s=%s", EnvReportsDir, p.ReportsDir),
		fmt.Sprintf("DB_DATABASE=%s", r.config.GetDatabaseName(p.Sequence)),
	}
}
