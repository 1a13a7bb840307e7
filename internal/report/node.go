// Package report models structured test results as a tree of suites and
// classes, and builds that tree from JUnit XML files.
package report

import "errors"

// ErrMalformed is returned when a report cannot be read as a result tree
var ErrMalformed = errors.New("malformed test report")

// Kind tags the variant held by a Node
type Kind int

const (
	// KindSuite is a composite node (report file, package, suite)
	KindSuite Kind = iota
	// KindClass holds the results of a single test class
	KindClass
	// KindCase is a single test method below a class
	KindCase
)

func (k Kind) String() string {
	switch k {
	case KindSuite:
		return "suite"
	case KindClass:
		return "class"
	case KindCase:
		return "case"
	default:
		return "unknown"
	}
}

// Node is one element of a result tree. Suite nodes carry Children; class
// nodes carry Duration and per-case Children that planning ignores.
type Node struct {
	Kind     Kind
	Name     string
	Duration int64 // Milliseconds, class and case nodes
	Children []*Node
}

// Suite creates a composite node
func Suite(name string, children ...*Node) *Node {
	return &Node{Kind: KindSuite, Name: name, Children: children}
}

// Class creates a leaf node for a test class
func Class(name string, durationMs int64) *Node {
	return &Node{Kind: KindClass, Name: name, Duration: durationMs}
}

// Case creates a node for a single test method
func Case(name string, durationMs int64) *Node {
	return &Node{Kind: KindCase, Name: name, Duration: durationMs}
}
