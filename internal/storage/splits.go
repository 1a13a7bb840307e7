package storage

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"ptsplit/internal/config"
	"ptsplit/internal/domain"
)

// SplitWriter writes one exclusion file per partition
type SplitWriter struct {
	cfg *config.Config
}

// NewSplitWriter creates a new SplitWriter
func NewSplitWriter(cfg *config.Config) *SplitWriter {
	return &SplitWriter{cfg: cfg}
}

// Clear removes the split files of a previous run. Other files in the split
// directory, such as reports, are left alone.
func (w *SplitWriter) Clear() error {
	stale, err := filepath.Glob(filepath.Join(w.cfg.GetSplitDir(), "split.*.txt"))
	if err != nil {
		return fmt.Errorf("clear split dir: %w", err)
	}
	for _, path := range stale {
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("clear split dir: %w", err)
		}
	}
	return nil
}

// Write removes earlier split files and writes split.<i>.txt for every
// partition, one exclusion token per line. It returns the written paths.
func (w *SplitWriter) Write(plan *domain.SplitPlan) ([]string, error) {
	if err := w.Clear(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(w.cfg.GetSplitDir(), 0755); err != nil {
		return nil, fmt.Errorf("create split dir: %w", err)
	}

	paths := make([]string, 0, plan.Partitions())
	for i, exclusions := range plan.Exclusions {
		path := w.cfg.GetSplitFile(i)
		if err := w.writeFile(path, exclusions); err != nil {
			return nil, fmt.Errorf("write split %d: %w", i, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func (w *SplitWriter) writeFile(path string, exclusions []string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(f)
	for _, name := range exclusions {
		for _, token := range ExclusionTokens(name, w.cfg.ExclusionSuffixes) {
			if _, err := fmt.Fprintln(bw, token); err != nil {
				f.Close()
				return err
			}
		}
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ExclusionTokens maps a class name to the tokens a test runner excludes.
// Without suffixes the class name is used as is; otherwise each suffix
// yields a source-style path, e.g. com.example.UserTest -> com/example/UserTest.java.
func ExclusionTokens(className string, suffixes []string) []string {
	if len(suffixes) == 0 {
		return []string{className}
	}
	base := strings.ReplaceAll(className, ".", "/")
	tokens := make([]string, len(suffixes))
	for i, suffix := range suffixes {
		tokens[i] = base + suffix
	}
	return tokens
}
