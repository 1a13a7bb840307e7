package planner

import "ptsplit/internal/domain"

// Policy decides how many partitions a plan should have
type Policy interface {
	// Degree returns the desired partition count for classes sorted by
	// descending duration. Values below 1 are clamped to 1 by the planner.
	Degree(sorted []*domain.TimedTestClass) int
}

// PolicyFunc adapts a function to the Policy interface
type PolicyFunc func(sorted []*domain.TimedTestClass) int

// Degree calls f(sorted)
func (f PolicyFunc) Degree(sorted []*domain.TimedTestClass) int {
	return f(sorted)
}
