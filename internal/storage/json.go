package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"ptsplit/internal/domain"
)

// NewManifest describes plan for persistence. splitFiles[i] is the file
// written for partition i.
func NewManifest(plan *domain.SplitPlan, splitFiles []string, runID string, build int) *domain.PlanManifest {
	manifest := &domain.PlanManifest{
		RunID:     runID,
		Reference: plan.Reference,
		Build:     build,
		Timestamp: time.Now().Format(time.RFC3339),
		Stats:     plan.Stats,
	}
	for i, exclusions := range plan.Exclusions {
		p := domain.PartitionManifest{
			Index:    i,
			Excluded: len(exclusions),
			Included: []string{},
		}
		if i < len(splitFiles) {
			p.SplitFile = splitFiles[i]
		}
		if i < len(plan.Buckets) {
			p.TotalMs = plan.Buckets[i].Total
			p.Included = plan.Buckets[i].Names()
		}
		manifest.Partitions = append(manifest.Partitions, p)
	}
	return manifest
}

// SavePlan writes the manifest to the configured plan path.
func (s *JSONStorage) SavePlan(manifest *domain.PlanManifest) error {
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal plan: %w", err)
	}

	path := s.cfg.GetPlanPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write plan: %w", err)
	}
	return nil
}

// LoadPlan reads the last plan manifest from the configured plan path.
func (s *JSONStorage) LoadPlan() (*domain.PlanManifest, error) {
	path := s.cfg.GetPlanPath()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan file: %w", err)
	}
	var manifest domain.PlanManifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("parse plan: %w", err)
	}
	return &manifest, nil
}
