package database

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"

	"ptsplit/internal/config"
	"ptsplit/internal/domain"
)

// Progress tracks streamed setup output
type Progress interface {
	Add(n int)
	Finish()
}

// Provisioner ensures partition databases exist and prepares them by running
// the configured setup command against each one in parallel
type Provisioner struct {
	config  *config.Config
	manager *Manager
}

// NewProvisioner creates a new Provisioner
func NewProvisioner(cfg *config.Config, manager *Manager) *Provisioner {
	return &Provisioner{config: cfg, manager: manager}
}

// Run provisions databases for partitions 1..count
func (p *Provisioner) Run(ctx context.Context, count int, progress Progress) error {
	color.Cyan("\n╔════════════════════════════════════════════════════════════╗")
	color.Cyan("║              Preparing Partition Databases                 ║")
	color.Cyan("╚════════════════════════════════════════════════════════════╝\n")

	names, err := p.manager.EnsureDatabases(count)
	if err != nil {
		return fmt.Errorf("failed to check databases: %w", err)
	}
	return p.Setup(ctx, names, progress)
}

// Setup runs the setup command once per database, concurrently. Partition
// numbers follow the order of names.
func (p *Provisioner) Setup(ctx context.Context, names []string, progress Progress) error {
	if len(p.config.SetupCommand) == 0 || len(names) == 0 {
		return nil
	}

	var wg sync.WaitGroup
	results := make(chan domain.DatabaseSetupResult, len(names))
	startTime := time.Now()

	for i, name := range names {
		wg.Add(1)
		go func(partition int, name string) {
			defer wg.Done()
			results <- p.setupOne(ctx, partition, name, progress)
		}(i+1, name)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	var failed []domain.DatabaseSetupResult
	for result := range results {
		if !result.Success {
			failed = append(failed, result)
		}
	}
	if progress != nil {
		progress.Finish()
	}

	duration := time.Since(startTime)

	fmt.Print("\n")
	if len(failed) == 0 {
		color.Green("✓ Setup completed successfully for all %d databases\n", len(names))
		color.White("Duration: %s\n", duration.Round(time.Millisecond))
		return nil
	}

	color.Red("✗ Setup failed for %d database(s)\n", len(failed))
	for _, result := range failed {
		color.Red("  Partition %d (DB: %s): %v\n", result.Partition, result.Database, result.Error)
	}
	return fmt.Errorf("setup failed for %d database(s)", len(failed))
}

// setupOne runs the setup command for one database, streaming its output
// line by line into progress
func (p *Provisioner) setupOne(ctx context.Context, partition int, name string, progress Progress) domain.DatabaseSetupResult {
	result := domain.DatabaseSetupResult{Partition: partition, Database: name}

	argv := p.config.SetupCommand
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Env = append(os.Environ(), fmt.Sprintf("DB_DATABASE=%s", name))
	cmd.Dir = p.config.ProjectPath

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		result.Error = fmt.Errorf("failed to create stdout pipe: %w", err)
		return result
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		result.Error = fmt.Errorf("failed to create stderr pipe: %w", err)
		return result
	}
	if err := cmd.Start(); err != nil {
		result.Error = fmt.Errorf("failed to start command: %w", err)
		return result
	}

	var mu sync.Mutex
	var output strings.Builder
	var scanWg sync.WaitGroup
	stream := func(r io.Reader) {
		defer scanWg.Done()
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			line := scanner.Text()
			mu.Lock()
			output.WriteString(line)
			output.WriteString("\n")
			mu.Unlock()
			if progress != nil && strings.TrimSpace(line) != "" {
				progress.Add(1)
			}
		}
	}
	scanWg.Add(2)
	go stream(stdout)
	go stream(stderr)

	// Pipes must be drained before Wait closes them
	scanWg.Wait()
	err = cmd.Wait()

	result.Success = err == nil
	result.Output = output.String()
	result.Error = err
	return result
}
