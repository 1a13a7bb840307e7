// Package planner computes split plans: it balances timed test classes
// across partitions and encodes each partition as an exclusion list.
package planner

import (
	"fmt"
	"log/slog"

	"ptsplit/internal/domain"
	"ptsplit/internal/history"
)

// ComputeSplitPlan builds the plan for the build current from its most recent
// usable predecessor. Without usable history it returns a single partition
// that excludes nothing.
func ComputeSplitPlan(policy Policy, current history.Build, logger *slog.Logger) (*domain.SplitPlan, error) {
	tree, reference, err := history.FindReference(current, logger)
	if err != nil {
		return nil, err
	}
	if tree == nil {
		logger.Info("No record available, so executing everything in one place")
		return domain.Unpartitioned(), nil
	}

	data, err := history.Extract(tree)
	if err != nil {
		return nil, fmt.Errorf("extract durations from build #%d: %w", reference, err)
	}

	plan := Plan(policy, SortByDuration(data), logger)
	plan.Reference = reference
	return plan, nil
}

// Plan balances already sorted classes into the number of partitions the
// policy asks for, at least one.
func Plan(policy Policy, sorted []*domain.TimedTestClass, logger *slog.Logger) *domain.SplitPlan {
	n := max(1, policy.Degree(sorted))

	plan := Encode(Balance(sorted, n), sorted)
	s := plan.Stats
	logger.Info(fmt.Sprintf("%d test classes (%dms) divided into %d sets. Min=%dms, Average=%dms, Max=%dms, stddev=%dms",
		s.Classes, s.Total, n, s.Min, s.Average, s.Max, s.StdDev))
	return &plan
}
