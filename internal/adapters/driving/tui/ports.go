// Package tui provides an interactive terminal view of a project's drawing
// catalog. It implements a driving adapter following hexagonal architecture
// principles.
package tui

import (
	"github.com/custodia-labs/plantap/internal/core/ports/driving"
)

// Ports aggregates the driving ports the TUI uses.
type Ports struct {
	// Catalog reads the stored catalog.
	Catalog driving.CatalogService

	// Recents records opened drawings. Optional.
	Recents driving.RecentsService

	// Capture reports buffer progress when the pipeline runs in-process. Optional.
	Capture driving.CaptureService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Catalog == nil {
		return ErrMissingCatalogService
	}
	return nil
}
