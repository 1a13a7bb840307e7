// Package history finds the reference build whose test report supplies the
// per-class durations for split planning.
package history

import (
	"errors"
	"fmt"
	"log/slog"

	"ptsplit/internal/domain"
	"ptsplit/internal/report"
)

// MaxBuildsToSearch limits how far back the reference lookup walks so that
// long-lived jobs do not load their whole history.
const MaxBuildsToSearch = 20

// Build is one record in a backward-linked chain of builds
type Build interface {
	Number() int
	Result() domain.BuildResult
	// Previous returns the build before this one, or nil at the start of history.
	Previous() (Build, error)
	// TestReport returns the attached result tree, or nil if none is attached.
	TestReport() (*report.Node, error)
}

// FindReference returns the result tree of the most recent build before
// current that completed with results, together with its number. A nil tree
// with a nil error means no usable history exists.
func FindReference(current Build, logger *slog.Logger) (*report.Node, int, error) {
	b := current
	for i := 0; i < MaxBuildsToSearch; i++ {
		prev, err := b.Previous()
		if err != nil {
			return nil, 0, fmt.Errorf("walk build history from #%d: %w", b.Number(), err)
		}
		if prev == nil {
			break
		}
		b = prev

		if !b.Result().CompletedWithResults() {
			continue
		}

		tree, err := b.TestReport()
		if err != nil {
			if errors.Is(err, report.ErrMalformed) {
				logger.Warn("Skipping build with unreadable test report", "build", b.Number(), "error", err)
				continue
			}
			return nil, 0, fmt.Errorf("load test report of build #%d: %w", b.Number(), err)
		}
		if tree == nil {
			continue
		}

		logger.Info(fmt.Sprintf("Using build #%d as reference", b.Number()))
		return tree, b.Number(), nil
	}
	return nil, 0, nil
}
