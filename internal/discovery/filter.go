package discovery

import (
	"path/filepath"
	"strings"
)

// Filter filters test class names by pattern
type Filter struct{}

// NewFilter creates a new Filter
func NewFilter() *Filter {
	return &Filter{}
}

// FilterByName filters fully-qualified class names using wildcard matching.
// Patterns are tried against the full name and the simple name, so both
// "com.example.*" and "*PaymentTest" work. A pattern without wildcards is a
// substring match.
func (f *Filter) FilterByName(classes []string, pattern string) []string {
	if pattern == "" {
		return classes
	}

	var filtered []string
	for _, class := range classes {
		if f.Matches(class, pattern) {
			filtered = append(filtered, class)
		}
	}
	return filtered
}

// Matches reports whether a single class name matches pattern
func (f *Filter) Matches(class, pattern string) bool {
	if pattern == "" {
		return true
	}

	simple := class
	if i := strings.LastIndex(class, "."); i >= 0 {
		simple = class[i+1:]
	}

	if !strings.ContainsAny(pattern, "*?") {
		return strings.Contains(class, pattern)
	}

	// filepath.Match treats '/' specially; class names never contain it
	for _, candidate := range []string{class, simple} {
		if matched, err := filepath.Match(pattern, candidate); err == nil && matched {
			return true
		}
	}

	// Fall back to ordered substring matching for patterns like "*Payment*Test"
	parts := strings.Split(pattern, "*")
	rest := class
	nonEmpty := false
	for _, part := range parts {
		if part == "" {
			continue
		}
		nonEmpty = true
		i := strings.Index(rest, part)
		if i < 0 {
			return false
		}
		rest = rest[i+len(part):]
	}
	return nonEmpty
}
