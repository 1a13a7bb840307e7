package report

import (
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

type junitSuites struct {
	XMLName xml.Name     `xml:"testsuites"`
	Suites  []junitSuite `xml:"testsuite"`
}

type junitSuite struct {
	Name   string       `xml:"name,attr"`
	Cases  []junitCase  `xml:"testcase"`
	Suites []junitSuite `xml:"testsuite"`
}

type junitCase struct {
	Name      string `xml:"name,attr"`
	ClassName string `xml:"classname,attr"`
	Time      string `xml:"time,attr"`
}

// treeBuilder converts JUnit documents into one result tree. A class keeps
// a single node however many suites or files its cases are spread over.
type treeBuilder struct {
	classes map[string]*Node
}

func newTreeBuilder() *treeBuilder {
	return &treeBuilder{classes: make(map[string]*Node)}
}

// ParseJUnit reads a JUnit XML document into a suite node named name.
// Test cases are grouped by classname and their times summed per class.
func ParseJUnit(r io.Reader, name string) (*Node, error) {
	return newTreeBuilder().parse(r, name)
}

// ParseFiles parses every file into one root suite with a child per file.
// Cases of a class found in several files are summed into the node of the
// file where the class first appears.
func ParseFiles(paths []string) (*Node, error) {
	b := newTreeBuilder()
	root := Suite("")
	for _, path := range paths {
		node, err := b.parseFile(path)
		if err != nil {
			return nil, err
		}
		root.Children = append(root.Children, node)
	}
	return root, nil
}

func (b *treeBuilder) parseFile(path string) (*Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open report: %w", err)
	}
	defer f.Close()
	return b.parse(f, filepath.Base(path))
}

func (b *treeBuilder) parse(r io.Reader, name string) (*Node, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read report %s: %w", name, err)
	}

	root := Suite(name)
	var probe struct{ XMLName xml.Name }
	if err := xml.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, name, err)
	}

	var suites []junitSuite
	switch probe.XMLName.Local {
	case "testsuites":
		var doc junitSuites
		if err := xml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, name, err)
		}
		suites = doc.Suites
	case "testsuite":
		var suite junitSuite
		if err := xml.Unmarshal(data, &suite); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, name, err)
		}
		suites = []junitSuite{suite}
	default:
		return nil, fmt.Errorf("%w: %s: unexpected root element <%s>", ErrMalformed, name, probe.XMLName.Local)
	}

	for _, s := range suites {
		child, err := b.convertSuite(s, name)
		if err != nil {
			return nil, err
		}
		root.Children = append(root.Children, child)
	}
	return root, nil
}

// convertSuite builds the node of one suite. Cases whose class already has a
// node, in this document or an earlier one, are added to that node.
func (b *treeBuilder) convertSuite(s junitSuite, file string) (*Node, error) {
	node := Suite(s.Name)

	for _, c := range s.Cases {
		className := c.ClassName
		if className == "" {
			className = s.Name
		}
		ms, err := parseSeconds(c.Time)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: test %s: %v", ErrMalformed, file, c.Name, err)
		}
		cls, ok := b.classes[className]
		if !ok {
			cls = Class(className, 0)
			b.classes[className] = cls
			node.Children = append(node.Children, cls)
		}
		cls.Duration += ms
		cls.Children = append(cls.Children, Case(c.Name, ms))
	}

	for _, nested := range s.Suites {
		child, err := b.convertSuite(nested, file)
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, child)
	}
	return node, nil
}

// parseSeconds converts a JUnit time attribute (seconds) to milliseconds
func parseSeconds(v string) (int64, error) {
	v = strings.ReplaceAll(strings.TrimSpace(v), ",", "")
	if v == "" {
		return 0, nil
	}
	secs, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q", v)
	}
	if secs < 0 || math.IsNaN(secs) || math.IsInf(secs, 0) {
		return 0, fmt.Errorf("invalid time %q", v)
	}
	return int64(math.Round(secs * 1000)), nil
}
