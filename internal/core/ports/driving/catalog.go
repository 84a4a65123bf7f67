package driving

import (
	"context"

	"github.com/custodia-labs/plantap/internal/core/domain"
)

// CatalogService reads the reconciled catalog of a project.
type CatalogService interface {
	// State returns the render state of the stored catalog.
	State(ctx context.Context, projectID string) (domain.RenderState, error)

	// Tree returns the grouped catalog, optionally filtered by a search term
	// matched against drawing numbers and titles.
	Tree(ctx context.Context, projectID, filter string) (*domain.Tree, error)

	// Disciplines returns the known disciplines in display order.
	Disciplines(ctx context.Context, projectID string) ([]domain.Discipline, error)

	// Find returns the drawing with the given number.
	Find(ctx context.Context, projectID, number string) (*domain.Drawing, error)

	// Projects lists the projects that have a stored catalog.
	Projects(ctx context.Context) ([]string, error)
}
