package storage

import (
	"ptsplit/internal/config"
	"ptsplit/internal/domain"
)

// Storage persists and loads the manifest of the last planning run (e.g. for the show viewer).
type Storage interface {
	SavePlan(manifest *domain.PlanManifest) error
	LoadPlan() (*domain.PlanManifest, error)
}

// JSONStorage stores the plan manifest in a JSON file under the split directory.
type JSONStorage struct {
	cfg *config.Config
}

// NewJSONStorage returns a Storage that reads/writes the config's plan path.
func NewJSONStorage(cfg *config.Config) *JSONStorage {
	return &JSONStorage{cfg: cfg}
}
