package mcp

import (
	"context"

	"github.com/custodia-labs/plantap/internal/core/domain"
)

// mockCatalogService is a mock implementation of driving.CatalogService.
type mockCatalogService struct {
	tree        *domain.Tree
	disciplines []domain.Discipline
	drawing     *domain.Drawing
	projects    []string
	err         error
	treeErr     error
}

func (m *mockCatalogService) State(_ context.Context, projectID string) (domain.RenderState, error) {
	return domain.EmptyState(projectID), m.err
}

func (m *mockCatalogService) Tree(_ context.Context, projectID, _ string) (*domain.Tree, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.treeErr != nil {
		return nil, m.treeErr
	}
	if m.tree == nil {
		return &domain.Tree{ProjectID: projectID, Groups: []domain.Group{}}, nil
	}
	return m.tree, nil
}

func (m *mockCatalogService) Disciplines(_ context.Context, _ string) ([]domain.Discipline, error) {
	return m.disciplines, m.err
}

func (m *mockCatalogService) Find(_ context.Context, _, _ string) (*domain.Drawing, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.drawing == nil {
		return nil, domain.ErrNotFound
	}
	return m.drawing, nil
}

func (m *mockCatalogService) Projects(_ context.Context) ([]string, error) {
	return m.projects, m.err
}

// mockFavoritesService is a mock implementation of driving.FavoritesService.
type mockFavoritesService struct {
	folders []domain.FavoriteFolder
	err     error
}

func (m *mockFavoritesService) List(_ context.Context, _ string) ([]domain.FavoriteFolder, error) {
	return m.folders, m.err
}

func (m *mockFavoritesService) AddFolder(_ context.Context, _, name string) (*domain.FavoriteFolder, error) {
	return &domain.FavoriteFolder{ID: "f-1", Name: name}, m.err
}

func (m *mockFavoritesService) RemoveFolder(_ context.Context, _, _ string) error {
	return m.err
}

func (m *mockFavoritesService) AddDrawing(_ context.Context, _, _, _ string) (bool, error) {
	return true, m.err
}

func (m *mockFavoritesService) RemoveDrawing(_ context.Context, _, _, _ string) error {
	return m.err
}

func sampleTree() *domain.Tree {
	return &domain.Tree{
		ProjectID: "42",
		Groups: []domain.Group{
			{Name: "Architectural", Index: 0, Items: []domain.Item{
				{ID: "1", Number: "A-101", Title: "Plan", URL: "https://app.procore.com/42/project/drawing_areas/9/drawing_log/view_fullscreen/1"},
				{ID: "2", Number: "A-102", Title: "Roof"},
			}},
			{Name: "Structural", Index: 1, Items: []domain.Item{
				{ID: "3", Number: "S-201", Title: "Framing"},
			}},
		},
		Total: 3,
	}
}
