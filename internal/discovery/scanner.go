package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"ptsplit/internal/config"
)

// Scanner scans for test report files in a directory
type Scanner struct {
	skipDirs map[string]bool
	pattern  string
}

// NewScanner creates a new Scanner with the given directories to skip.
// Files are matched on their base name against pattern, the configured
// default when empty.
func NewScanner(skipDirs []string, pattern string) *Scanner {
	skipMap := make(map[string]bool)
	for _, dir := range skipDirs {
		skipMap[dir] = true
	}
	if pattern == "" {
		pattern = config.DefaultReportPattern
	}
	return &Scanner{skipDirs: skipMap, pattern: pattern}
}

// Scan finds all report files in the given root directory, sorted by path
func (s *Scanner) Scan(root string) ([]string, error) {
	var reports []string

	// Clean and validate the root path
	root = filepath.Clean(root)
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("report path does not exist: %s", root)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("report path is not a directory: %s", root)
	}

	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path == root {
				return nil
			}
			name := d.Name()
			// Skip hidden directories (starting with .)
			if strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}

			if s.skipDirs[name] {
				return filepath.SkipDir
			}

			return nil
		}

		matched, err := filepath.Match(s.pattern, d.Name())
		if err != nil {
			return fmt.Errorf("invalid report pattern %q: %w", s.pattern, err)
		}
		if matched {
			reports = append(reports, path)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(reports)
	return reports, nil
}
