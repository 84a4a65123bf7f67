package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/custodia-labs/plantap/internal/core/domain"
	"github.com/custodia-labs/plantap/internal/core/ports/driven"
	"github.com/custodia-labs/plantap/internal/core/ports/driving"
)

// Ensure CatalogService implements the interface.
var _ driving.CatalogService = (*CatalogService)(nil)

// CatalogService reads reconciled catalogs straight from storage, so it sees
// writes from other processes sharing the store.
type CatalogService struct {
	store    driven.KVStore
	linkBase string
}

// NewCatalogService creates a catalog service. linkBase is the host
// application's base URL used to build drawing links ("" disables them).
func NewCatalogService(store driven.KVStore, linkBase string) *CatalogService {
	return &CatalogService{store: store, linkBase: linkBase}
}

// State returns DATA when the project has stored drawings, EMPTY otherwise.
func (s *CatalogService) State(ctx context.Context, projectID string) (domain.RenderState, error) {
	if projectID == "" {
		return domain.RenderState{}, domain.ErrInvalidInput
	}
	keys := []string{
		domain.ProjectKey(projectID, domain.PurposeDrawings),
		domain.ProjectKey(projectID, domain.PurposeDisciplines),
	}
	values, err := s.store.Get(ctx, keys...)
	if err != nil {
		return domain.RenderState{}, fmt.Errorf("get catalog: %w", err)
	}

	disciplines := make(domain.DisciplineMap)
	if raw, ok := values[keys[1]]; ok && len(raw) > 0 {
		if err := unmarshal(raw, &disciplines); err != nil {
			return domain.RenderState{}, fmt.Errorf("decode disciplines: %w", err)
		}
	}

	raw, ok := values[keys[0]]
	if !ok || len(raw) == 0 {
		return domain.EmptyState(projectID), nil
	}
	var cache domain.ProjectCache
	if err := unmarshal(raw, &cache); err != nil {
		return domain.RenderState{}, fmt.Errorf("decode drawings: %w", err)
	}
	if len(cache.Drawings) == 0 {
		return domain.EmptyState(projectID), nil
	}
	return domain.DataState(projectID, &cache, disciplines), nil
}

// Tree returns the grouped catalog.
func (s *CatalogService) Tree(ctx context.Context, projectID, filter string) (*domain.Tree, error) {
	state, err := s.State(ctx, projectID)
	if err != nil {
		return nil, err
	}
	tree := domain.BuildTree(state, domain.TreeOptions{LinkBase: s.linkBase, Filter: filter})
	return &tree, nil
}

// Disciplines returns the stored discipline map in display order.
func (s *CatalogService) Disciplines(ctx context.Context, projectID string) ([]domain.Discipline, error) {
	if projectID == "" {
		return nil, domain.ErrInvalidInput
	}
	disciplines := make(domain.DisciplineMap)
	if _, err := loadJSON(ctx, s.store, domain.ProjectKey(projectID, domain.PurposeDisciplines), &disciplines); err != nil {
		return nil, err
	}
	return disciplines.Sorted(), nil
}

// Find returns the drawing with the given number (case-insensitive).
func (s *CatalogService) Find(ctx context.Context, projectID, number string) (*domain.Drawing, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return nil, domain.ErrInvalidInput
	}
	state, err := s.State(ctx, projectID)
	if err != nil {
		return nil, err
	}
	for _, d := range state.Drawings {
		if strings.EqualFold(d.Number, number) {
			found := d
			return &found, nil
		}
	}
	return nil, fmt.Errorf("drawing %s: %w", number, domain.ErrNotFound)
}

// Projects lists the projects that have stored drawings, sorted.
func (s *CatalogService) Projects(ctx context.Context) ([]string, error) {
	keys, err := s.store.Keys(ctx, domain.KeyPrefix+":")
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	suffix := ":" + domain.PurposeDrawings
	var projects []string
	for _, key := range keys {
		rest := strings.TrimPrefix(key, domain.KeyPrefix+":")
		if pid, ok := strings.CutSuffix(rest, suffix); ok && pid != "" && !strings.Contains(pid, ":") {
			projects = append(projects, pid)
		}
	}
	sort.Strings(projects)
	return projects, nil
}
