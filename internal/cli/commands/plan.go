package commands

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"ptsplit/internal/config"
	"ptsplit/internal/domain"
	"ptsplit/internal/logging"
	"ptsplit/internal/metrics"
	"ptsplit/internal/parallelism"
	"ptsplit/internal/planner"
	"ptsplit/internal/storage"
	"ptsplit/internal/ui"
)

// PlanCommand handles the plan command
type PlanCommand struct {
	config      *config.Config
	splitWriter *storage.SplitWriter
	storage     storage.Storage
	formatter   *ui.Formatter
}

// Prepared is the outcome of a planning run, ready to be triggered
type Prepared struct {
	Build      int
	RunID      string
	Plan       *domain.SplitPlan
	SplitFiles []string
	Manifest   *domain.PlanManifest
}

// NewPlanCommand creates a new PlanCommand
func NewPlanCommand(
	cfg *config.Config,
	splitWriter *storage.SplitWriter,
	st storage.Storage,
	formatter *ui.Formatter,
) *PlanCommand {
	return &PlanCommand{
		config:      cfg,
		splitWriter: splitWriter,
		storage:     st,
		formatter:   formatter,
	}
}

// Execute runs the command
func (pc *PlanCommand) Execute(cmd *cobra.Command, args []string) error {
	prepared, err := pc.Prepare()
	if err != nil {
		return err
	}
	pc.formatter.PrintPlan(prepared.Manifest)
	return nil
}

// Prepare computes the plan for the current build and writes its split
// files, manifest and metrics
func (pc *PlanCommand) Prepare() (*Prepared, error) {
	policy, err := parallelism.Parse(pc.config.Parallelism)
	if err != nil {
		return nil, err
	}

	store := newStore(pc.config)
	build, err := currentBuild(pc.config, store)
	if err != nil {
		return nil, err
	}
	logging.Debug("plan", "Planning build #%d with %s from %s", build, policy, store.Dir())

	plan, err := planner.ComputeSplitPlan(policy, store.Pending(build), logging.For("planner"))
	if err != nil {
		return nil, fmt.Errorf("failed to compute split plan: %w", err)
	}

	splitFiles, err := pc.splitWriter.Write(plan)
	if err != nil {
		return nil, fmt.Errorf("failed to write split files: %w", err)
	}

	runID := uuid.NewString()
	manifest := storage.NewManifest(plan, splitFiles, runID, build)
	if err := pc.storage.SavePlan(manifest); err != nil {
		return nil, fmt.Errorf("failed to save plan: %w", err)
	}

	if path := pc.config.GetMetricsFile(); path != "" {
		if err := metrics.WriteToTextfile(path, manifest); err != nil {
			return nil, err
		}
		logging.Debug("plan", "Wrote metrics to %s", path)
	}

	return &Prepared{
		Build:      build,
		RunID:      runID,
		Plan:       plan,
		SplitFiles: splitFiles,
		Manifest:   manifest,
	}, nil
}
