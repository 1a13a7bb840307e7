package execution

import (
	"context"
	"errors"
	"time"

	"ptsplit/internal/domain"
)

// ErrPartitionsFailed is returned after all partitions finished when at least one failed
var ErrPartitionsFailed = errors.New("one or more partitions failed")

// Executor executes partitions and returns results
type Executor interface {
	Execute(ctx context.Context, partitions []Partition, runID string) ([]domain.PartitionResult, time.Duration, error)
}

// Partition is one child execution bound to a split file
type Partition struct {
	Sequence   int // 1-based launch sequence number
	Index      int // Index of the partition in the plan
	SplitFile  string
	ReportsDir string
}

// Partitions builds the launch list for a plan. Sequence numbers are handed
// out in plan order; with skipEmpty, partitions that were assigned no
// classes are not launched.
func Partitions(plan *domain.SplitPlan, splitFiles []string, reportsDir func(seq int) string, skipEmpty bool) []Partition {
	var partitions []Partition
	seq := 0
	for i := range plan.Exclusions {
		if skipEmpty && plan.Buckets != nil && len(plan.Buckets[i].Classes) == 0 {
			continue
		}
		seq++
		partitions = append(partitions, Partition{
			Sequence:   seq,
			Index:      i,
			SplitFile:  splitFiles[i],
			ReportsDir: reportsDir(seq),
		})
	}
	return partitions
}
