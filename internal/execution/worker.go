package execution

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"ptsplit/internal/config"
	"ptsplit/internal/domain"
	"ptsplit/internal/logging"
)

// Progress receives completion updates while partitions run
type Progress interface {
	Update(passed, failed int)
	Finish()
}

// WorkerPool launches every partition concurrently and blocks until all finish
type WorkerPool struct {
	config   *config.Config
	runner   *Runner
	progress Progress
}

var _ Executor = (*WorkerPool)(nil)

// NewWorkerPool creates a new WorkerPool
func NewWorkerPool(cfg *config.Config, runner *Runner) *WorkerPool {
	return &WorkerPool{
		config: cfg,
		runner: runner,
	}
}

// SetProgress sets the progress reporter for the worker pool
func (wp *WorkerPool) SetProgress(progress Progress) {
	wp.progress = progress
}

// Execute runs all partitions in parallel. A failing partition never stops
// its siblings; once every child has finished, ErrPartitionsFailed is
// returned alongside the results if any of them failed. Results are ordered
// by sequence number.
func (wp *WorkerPool) Execute(ctx context.Context, partitions []Partition, runID string) ([]domain.PartitionResult, time.Duration, error) {
	if len(partitions) == 0 {
		return nil, 0, nil
	}

	results := make(chan domain.PartitionResult, len(partitions))
	startTime := time.Now()

	var mu sync.Mutex
	var passed, failed int

	var wg sync.WaitGroup
	for _, p := range partitions {
		wg.Add(1)
		go func(p Partition) {
			defer wg.Done()
			logging.Debug("trigger", "Starting partition %d with %s", p.Sequence, p.SplitFile)
			result := wp.runner.Run(ctx, p, runID)
			results <- result

			mu.Lock()
			if result.Success {
				passed++
			} else {
				failed++
				logging.Warn("trigger", "Partition %d failed after %s: %v", p.Sequence, result.Duration.Round(time.Millisecond), result.Error)
			}
			if wp.progress != nil {
				wp.progress.Update(passed, failed)
			}
			mu.Unlock()
		}(p)
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	var allResults []domain.PartitionResult
	for result := range results {
		allResults = append(allResults, result)
	}
	if wp.progress != nil {
		wp.progress.Finish()
	}
	sort.Slice(allResults, func(i, j int) bool {
		return allResults[i].Partition < allResults[j].Partition
	})

	if failed > 0 {
		return allResults, time.Since(startTime), fmt.Errorf("%w: %d of %d", ErrPartitionsFailed, failed, len(partitions))
	}
	return allResults, time.Since(startTime), nil
}
