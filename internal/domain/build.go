package domain

import (
	"fmt"
	"strings"
)

// BuildResult is the aggregate outcome of a build
type BuildResult string

const (
	ResultSuccess  BuildResult = "SUCCESS"
	ResultUnstable BuildResult = "UNSTABLE"
	ResultFailure  BuildResult = "FAILURE"
	ResultAborted  BuildResult = "ABORTED"
	ResultNotBuilt BuildResult = "NOT_BUILT"
)

// ParseBuildResult parses a result name case-insensitively
func ParseBuildResult(s string) (BuildResult, error) {
	r := BuildResult(strings.ToUpper(strings.TrimSpace(s)))
	switch r {
	case ResultSuccess, ResultUnstable, ResultFailure, ResultAborted, ResultNotBuilt:
		return r, nil
	}
	return "", fmt.Errorf("unknown build result %q", s)
}

// CompletedWithResults reports whether a build ran to completion and produced
// test results, even if some tests failed.
func (r BuildResult) CompletedWithResults() bool {
	return r == ResultSuccess || r == ResultUnstable
}

// BuildRecord is the persisted metadata of a build in the history store
type BuildRecord struct {
	Number    int         `json:"number"`
	Result    BuildResult `json:"result"`
	RunID     string      `json:"run_id,omitempty"`
	Timestamp string      `json:"timestamp"`
}
