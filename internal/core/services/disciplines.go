package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/plantap/internal/core/domain"
	"github.com/custodia-labs/plantap/internal/core/ports/driven"
)

// DisciplineRegistry holds the best-known discipline map of one project.
// Facts arrive in unrelated responses in any order; every merge rewrites the
// whole (small) map under the project's key.
//
// Persisting is not serialized: two overlapping merges race and the last
// write wins, which is acceptable because entries are independently keyed.
type DisciplineRegistry struct {
	projectID string
	store     driven.KVStore

	mu      sync.RWMutex
	current domain.DisciplineMap
}

// LoadDisciplineRegistry reads the project's stored map.
func LoadDisciplineRegistry(ctx context.Context, store driven.KVStore, projectID string) (*DisciplineRegistry, error) {
	current := make(domain.DisciplineMap)
	if _, err := loadJSON(ctx, store, domain.ProjectKey(projectID, domain.PurposeDisciplines), &current); err != nil {
		return nil, fmt.Errorf("load disciplines: %w", err)
	}
	return &DisciplineRegistry{
		projectID: projectID,
		store:     store,
		current:   current,
	}, nil
}

// Merge overwrites the in-memory entries with facts and persists the result.
// The in-memory map keeps the merge even if persisting fails.
func (r *DisciplineRegistry) Merge(ctx context.Context, facts domain.DisciplineMap) (domain.DisciplineMap, error) {
	r.mu.Lock()
	r.current = r.current.Merge(facts)
	snapshot := r.current.Clone()
	r.mu.Unlock()

	if err := saveJSON(ctx, r.store, domain.ProjectKey(r.projectID, domain.PurposeDisciplines), snapshot); err != nil {
		return snapshot, fmt.Errorf("save disciplines: %w", err)
	}
	return snapshot, nil
}

// Snapshot returns a copy of the current map.
func (r *DisciplineRegistry) Snapshot() domain.DisciplineMap {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current.Clone()
}
