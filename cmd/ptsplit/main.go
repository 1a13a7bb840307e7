package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"ptsplit/internal/cli"
	"ptsplit/internal/cli/commands"
	"ptsplit/internal/config"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	// Create root command
	rootCmd := &cobra.Command{
		Use:           "ptsplit",
		Short:         "Split test suites into balanced parallel partitions",
		Long:          `Balance test classes across parallel partitions using durations recorded by earlier builds. Each partition receives an exclusion file listing the classes it must skip, so the partitions together run every test exactly once.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Create initial config with defaults; replaced once --project is parsed
	cfg := config.New()

	// Create flags struct (will be populated by command flags)
	var flags cli.Flags

	// Create commands with dependencies
	cmds := commands.NewCommands(cfg)

	// Register all commands
	cmds.Register(rootCmd, &flags, cfg)

	// Children are cancelled on interrupt
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Execute root command
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
