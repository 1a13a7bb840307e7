// Package parallelism provides the partition-count policies used by the planner.
package parallelism

import (
	"fmt"
	"strconv"
	"strings"

	"ptsplit/internal/domain"
	"ptsplit/internal/planner"
)

// Count always asks for a fixed number of partitions
type Count struct {
	Size int
}

// Degree returns Size
func (c Count) Degree([]*domain.TimedTestClass) int {
	return c.Size
}

func (c Count) String() string {
	return fmt.Sprintf("count:%d", c.Size)
}

// Time asks for one partition per Minutes of serial test time
type Time struct {
	Minutes int
}

// Degree returns ceil(total / Minutes) over the classes' durations
func (t Time) Degree(sorted []*domain.TimedTestClass) int {
	if t.Minutes <= 0 {
		return 1
	}
	var total int64
	for _, tc := range sorted {
		total += tc.Duration
	}
	per := int64(t.Minutes) * 60 * 1000
	return int((total + per - 1) / per)
}

func (t Time) String() string {
	return fmt.Sprintf("time:%d", t.Minutes)
}

// Parse builds a policy from "count:N", "time:MINUTES" or a bare "N"
func Parse(s string) (planner.Policy, error) {
	s = strings.TrimSpace(s)
	kind, value, found := strings.Cut(s, ":")
	if !found {
		kind, value = "count", s
	}

	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n < 1 {
		return nil, fmt.Errorf("invalid parallelism %q: expected a positive number", s)
	}

	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "count":
		return Count{Size: n}, nil
	case "time":
		return Time{Minutes: n}, nil
	}
	return nil, fmt.Errorf("invalid parallelism %q: unknown kind %q (use count or time)", s, kind)
}
