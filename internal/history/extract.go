package history

import (
	"errors"
	"fmt"

	"ptsplit/internal/domain"
	"ptsplit/internal/report"
)

// ErrNegativeDuration signals corrupted timing data in a report
var ErrNegativeDuration = errors.New("negative test class duration")

// Extract flattens a result tree into test classes keyed by name.
// Class nodes are recorded without descending into their cases; suite nodes
// only contribute their children. Parsed reports hold one node per class; in
// a tree that repeats a class name the last node wins.
func Extract(root *report.Node) (map[string]*domain.TimedTestClass, error) {
	data := make(map[string]*domain.TimedTestClass)
	if err := collect(root, data); err != nil {
		return nil, err
	}
	return data, nil
}

func collect(n *report.Node, data map[string]*domain.TimedTestClass) error {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case report.KindClass:
		if n.Duration < 0 {
			return fmt.Errorf("%w: %s (%dms)", ErrNegativeDuration, n.Name, n.Duration)
		}
		data[n.Name] = &domain.TimedTestClass{Name: n.Name, Duration: n.Duration}
	case report.KindSuite:
		for _, child := range n.Children {
			if err := collect(child, data); err != nil {
				return err
			}
		}
	}
	return nil
}
