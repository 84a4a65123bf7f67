package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/plantap/internal/core/domain"
	"github.com/custodia-labs/plantap/internal/core/ports/driven"
	"github.com/custodia-labs/plantap/internal/logger"
)

// Session is the capture pipeline of one project: its discipline registry,
// its reconciliation buffer and the last drawing collection it stored.
type Session struct {
	projectID   string
	store       driven.KVStore
	renderer    driven.Renderer
	disciplines *DisciplineRegistry
	buffer      *Buffer
	now         func() time.Time

	mu     sync.RWMutex
	cached *domain.ProjectCache
}

// SessionOptions configures a session.
type SessionOptions struct {
	Debounce time.Duration
	Reflush  time.Duration
	Now      func() time.Time
}

// OpenSession loads a project's stored state and renders it.
// The renderer sees LOADING first, then DATA or EMPTY.
func OpenSession(ctx, baseCtx context.Context, projectID string, store driven.KVStore, renderer driven.Renderer, opts SessionOptions) (*Session, error) {
	if projectID == "" {
		return nil, domain.ErrNoProjectContext
	}
	if renderer == nil {
		renderer = driven.RendererFunc(func(context.Context, domain.RenderState) {})
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	s := &Session{
		projectID: projectID,
		store:     store,
		renderer:  renderer,
		now:       opts.Now,
	}
	renderer.Render(ctx, domain.LoadingState(projectID))

	registry, err := LoadDisciplineRegistry(ctx, store, projectID)
	if err != nil {
		return nil, err
	}
	s.disciplines = registry

	cache, err := loadCache(ctx, store, projectID)
	if err != nil {
		return nil, err
	}
	s.cached = cache
	s.buffer = NewBuffer(baseCtx, s.mergeDrawings, opts.Debounce, opts.Reflush)

	s.render(ctx)
	return s, nil
}

// loadCache returns the stored collection, or nil when nothing is stored.
func loadCache(ctx context.Context, store driven.KVStore, projectID string) (*domain.ProjectCache, error) {
	var cache domain.ProjectCache
	found, err := loadJSON(ctx, store, domain.ProjectKey(projectID, domain.PurposeDrawings), &cache)
	if err != nil {
		return nil, fmt.Errorf("load drawings: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &cache, nil
}

// ProjectID returns the session's project.
func (s *Session) ProjectID() string {
	return s.projectID
}

// Ingest applies one captured payload: discipline facts are merged at once,
// drawing records go through the buffer.
func (s *Session) Ingest(ctx context.Context, payload *domain.Value, pc domain.ProjectContext) error {
	var mergeErr error
	if facts := ExtractDisciplines(payload); len(facts) > 0 {
		if _, err := s.disciplines.Merge(ctx, facts); err != nil {
			mergeErr = err
			logger.Warn("project %s: %v", s.projectID, err)
		}
		logger.Debug("project %s: merged %d discipline facts", s.projectID, len(facts))
		if s.hasDrawings() {
			s.render(ctx)
		}
	}

	if records := ExtractDrawings(payload); len(records) > 0 {
		logger.Debug("project %s: buffered %d drawing records", s.projectID, len(records))
		s.buffer.Add(records, pc)
	}
	return mergeErr
}

// mergeDrawings is the buffer's merge step. It re-reads the stored collection
// so that concurrent writers of the same key are not overwritten blindly, then
// appends every valid record whose id is new.
func (s *Session) mergeDrawings(ctx context.Context, batch []domain.Drawing, pc domain.ProjectContext) error {
	cache, err := loadCache(ctx, s.store, s.projectID)
	if err != nil {
		return err
	}
	if cache == nil {
		cache = &domain.ProjectCache{}
	}

	seen := cache.IDs()
	added, skipped := 0, 0
	for _, d := range batch {
		if !d.Valid() {
			skipped++
			continue
		}
		if _, dup := seen[d.ID]; dup {
			continue
		}
		seen[d.ID] = struct{}{}
		cache.Drawings = append(cache.Drawings, d)
		added++
	}
	if skipped > 0 {
		logger.Debug("project %s: excluded %d malformed records", s.projectID, skipped)
	}

	cache.Timestamp = s.now().UTC()
	if pc.CompanyID != "" {
		cache.CompanyID = pc.CompanyID
	}
	if pc.DrawingAreaID != "" {
		cache.DrawingAreaID = pc.DrawingAreaID
	}
	if cache.Drawings == nil {
		cache.Drawings = []domain.Drawing{}
	}

	if err := saveJSON(ctx, s.store, domain.ProjectKey(s.projectID, domain.PurposeDrawings), cache); err != nil {
		return err
	}
	logger.Debug("project %s: stored %d new drawings (%d total)", s.projectID, added, len(cache.Drawings))

	s.mu.Lock()
	s.cached = cache
	s.mu.Unlock()
	if added > 0 {
		s.render(ctx)
	}
	return nil
}

func (s *Session) hasDrawings() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cached != nil && len(s.cached.Drawings) > 0
}

// State returns the session's current render state.
func (s *Session) State() domain.RenderState {
	s.mu.RLock()
	cache := s.cached
	s.mu.RUnlock()
	if cache == nil || len(cache.Drawings) == 0 {
		return domain.EmptyState(s.projectID)
	}
	return domain.DataState(s.projectID, cache, s.disciplines.Snapshot())
}

func (s *Session) render(ctx context.Context) {
	s.renderer.Render(ctx, s.State())
}

// Flush merges the buffer now.
func (s *Session) Flush(ctx context.Context) error {
	return s.buffer.Flush(ctx)
}

// Status reports the session's buffer and stored counts.
func (s *Session) Status() domain.BufferStatus {
	st := s.buffer.Status()
	st.ProjectID = s.projectID
	s.mu.RLock()
	if s.cached != nil {
		st.Stored = len(s.cached.Drawings)
	}
	s.mu.RUnlock()
	return st
}

// Close drains the buffer and stops its timers.
func (s *Session) Close(ctx context.Context) error {
	return s.buffer.Close(ctx)
}
