package ui

import "ptsplit/internal/domain"

// Viewer displays a plan manifest interactively
type Viewer interface {
	View(manifest *domain.PlanManifest) error
}
