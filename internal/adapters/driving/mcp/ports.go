package mcp

import (
	"github.com/custodia-labs/plantap/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Catalog reads reconciled drawing catalogs.
	Catalog driving.CatalogService

	// Favorites exposes the user's drawing folders.
	Favorites driving.FavoritesService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Catalog == nil {
		return ErrMissingCatalogService
	}
	// Favorites is optional
	return nil
}
