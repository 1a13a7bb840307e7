package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"ptsplit/internal/config"
	"ptsplit/internal/database"
	"ptsplit/internal/parallelism"
	"ptsplit/internal/storage"
	"ptsplit/internal/ui"
)

// DBCommand handles the db command
type DBCommand struct {
	config      *config.Config
	storage     storage.Storage
	provisioner *database.Provisioner
}

// NewDBCommand creates a new DBCommand
func NewDBCommand(cfg *config.Config, st storage.Storage, provisioner *database.Provisioner) *DBCommand {
	return &DBCommand{
		config:      cfg,
		storage:     st,
		provisioner: provisioner,
	}
}

// Execute runs the command
func (dc *DBCommand) Execute(cmd *cobra.Command, args []string) error {
	count, err := dc.partitionCount()
	if err != nil {
		return err
	}
	return dc.provisioner.Run(cmd.Context(), count, ui.NewSpinner("Preparing databases"))
}

// partitionCount takes the count from a count:N flag, else from the last plan
func (dc *DBCommand) partitionCount() (int, error) {
	if dc.config.Flags.Parallelism != "" {
		policy, err := parallelism.Parse(dc.config.Flags.Parallelism)
		if err != nil {
			return 0, err
		}
		count, ok := policy.(parallelism.Count)
		if !ok {
			return 0, fmt.Errorf("db needs a fixed partition count, got %s", dc.config.Flags.Parallelism)
		}
		return count.Size, nil
	}

	manifest, err := dc.storage.LoadPlan()
	if err != nil {
		return 0, fmt.Errorf("no plan to provision for, run plan first or pass --parallelism: %w", err)
	}
	return len(manifest.Partitions), nil
}
