package commands

import (
	"fmt"
	"os"

	"ptsplit/internal/cli"
	"ptsplit/internal/config"
	"ptsplit/internal/database"
	"ptsplit/internal/discovery"
	"ptsplit/internal/domain"
	"ptsplit/internal/execution"
	"ptsplit/internal/history"
	"ptsplit/internal/logging"
	"ptsplit/internal/storage"
	"ptsplit/internal/ui"

	"github.com/spf13/cobra"
)

// Commands holds all CLI commands
type Commands struct {
	Plan   *PlanCommand
	Run    *RunCommand
	Record *RecordCommand
	Show   *ShowCommand
	DB     *DBCommand
}

// NewCommands creates all commands with dependencies
func NewCommands(cfg *config.Config) *Commands {
	// Initialize dependencies
	splitWriter := storage.NewSplitWriter(cfg)
	jsonStorage := storage.NewJSONStorage(cfg)
	formatter := ui.NewFormatter(cfg)
	runner := execution.NewRunner(cfg)
	executor := execution.NewWorkerPool(cfg, runner)
	dbManager := database.NewManager(cfg)
	provisioner := database.NewProvisioner(cfg, dbManager)
	planViewer := ui.NewPlanViewer(discovery.NewFilter(), "")

	plan := NewPlanCommand(cfg, splitWriter, jsonStorage, formatter)
	return &Commands{
		Plan:   plan,
		Run:    NewRunCommand(cfg, plan, executor, provisioner, formatter),
		Record: NewRecordCommand(cfg),
		Show:   NewShowCommand(cfg, jsonStorage, formatter, planViewer),
		DB:     NewDBCommand(cfg, jsonStorage, provisioner),
	}
}

// newScanner finds report files using the loaded configuration
func newScanner(cfg *config.Config) *discovery.Scanner {
	return discovery.NewScanner(cfg.PathsToIgnore, cfg.ReportPattern)
}

// newStore opens the build history of the loaded configuration
func newStore(cfg *config.Config) *history.FileStore {
	return history.NewFileStore(cfg.GetHistoryDir(), newScanner(cfg))
}

// currentBuild returns the build number to plan or record, from the flag or
// the next free number in the history store
func currentBuild(cfg *config.Config, store *history.FileStore) (int, error) {
	if cfg.Flags.Build > 0 {
		return cfg.Flags.Build, nil
	}
	number, err := store.NextNumber()
	if err != nil {
		return 0, fmt.Errorf("failed to determine build number: %w", err)
	}
	return number, nil
}

// Register registers all commands with cobra
func (c *Commands) Register(rootCmd *cobra.Command, flags *cli.Flags, cfg *config.Config) {
	rootCmd.PersistentFlags().StringVar(&flags.ProjectPath, "project", config.DefaultProjectPath, "Project directory containing .ptsplit.yaml")
	rootCmd.PersistentFlags().StringVar(&flags.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		// Load the project config once flags are parsed; commands share cfg
		loaded, err := config.Load(flags.ProjectPath)
		if err != nil {
			return err
		}
		*cfg = *loaded
		cfg.ApplyFlags(flags.ToConfigFlags())
		if flags.LogLevel != "" {
			cfg.LogLevel = flags.LogLevel
		}

		level, err := logging.ParseLevel(cfg.LogLevel)
		if err != nil {
			return err
		}
		logging.InitForCLI(level, os.Stderr)
		return nil
	}

	// Plan command
	planCmd := &cobra.Command{
		Use:   "plan",
		Short: "Compute a test split plan from build history",
		Long:  "Find the latest usable build in history, balance its test classes across partitions and write one exclusion file per partition",
		Args:  cobra.NoArgs,
		RunE:  c.Plan.Execute,
	}
	planCmd.Flags().StringVarP(&flags.Parallelism, "parallelism", "p", "", "Partition policy: count:N, time:MINUTES or N (default from config, count:4)")
	planCmd.Flags().IntVarP(&flags.Build, "build", "b", 0, "Number of the current build (default: next free number in history)")
	rootCmd.AddCommand(planCmd)

	// Run command
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Plan and run all partitions in parallel",
		Long:  "Compute a plan, launch the test command once per partition, and archive the reports as the current build",
		Args:  cobra.NoArgs,
		RunE:  c.Run.Execute,
	}
	runCmd.Flags().StringVarP(&flags.Parallelism, "parallelism", "p", "", "Partition policy: count:N, time:MINUTES or N (default from config, count:4)")
	runCmd.Flags().IntVarP(&flags.Build, "build", "b", 0, "Number of the current build (default: next free number in history)")
	runCmd.Flags().BoolVar(&flags.NoArchive, "no-archive", false, "Do not record this run in build history")
	runCmd.Flags().BoolVarP(&flags.CreateDatabases, "databases", "d", false, "Provision one database per partition before running")
	rootCmd.AddCommand(runCmd)

	// Record command
	recordCmd := &cobra.Command{
		Use:   "record",
		Short: "Record an externally executed build in history",
		Long:  "Archive JUnit reports of a build together with its result so later plans can use its durations",
		Args:  cobra.NoArgs,
		RunE:  c.Record.Execute,
	}
	recordCmd.Flags().StringVarP(&flags.Result, "result", "r", string(domain.ResultSuccess), "Build result: SUCCESS, UNSTABLE, FAILURE, ABORTED or NOT_BUILT")
	recordCmd.Flags().StringVar(&flags.Reports, "reports", "", "Directory containing the JUnit reports (default from config)")
	recordCmd.Flags().IntVarP(&flags.Build, "build", "b", 0, "Build number (default: next free number in history)")
	rootCmd.AddCommand(recordCmd)

	// Show command
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Browse the last plan",
		Long:  "Display the partitions of the last plan in an interactive viewer",
		Args:  cobra.NoArgs,
		RunE:  c.Show.Execute,
	}
	showCmd.Flags().StringVarP(&flags.Filter, "filter", "f", "", "Only show test classes matching a pattern (supports wildcards, e.g. '*PaymentTest' or 'com.example.*')")
	showCmd.Flags().BoolVar(&flags.Plain, "plain", false, "Print the plan instead of opening the viewer")
	rootCmd.AddCommand(showCmd)

	// DB command
	dbCmd := &cobra.Command{
		Use:   "db",
		Short: "Provision per-partition test databases",
		Long:  "Create one database per partition of the last plan and run the configured setup command against each in parallel",
		Args:  cobra.NoArgs,
		RunE:  c.DB.Execute,
	}
	dbCmd.Flags().StringVarP(&flags.Parallelism, "parallelism", "p", "", "Provision for count:N partitions instead of the last plan")
	rootCmd.AddCommand(dbCmd)
}
