package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/custodia-labs/plantap/internal/core/domain"
	"github.com/custodia-labs/plantap/internal/core/ports/driven"
	"github.com/custodia-labs/plantap/internal/core/ports/driving"
	"github.com/custodia-labs/plantap/internal/logger"
)

// Ensure CaptureService implements the interface.
var _ driving.CaptureService = (*CaptureService)(nil)

// CaptureOptions configures a CaptureService.
type CaptureOptions struct {
	// Origin is the only origin envelopes are accepted from.
	Origin string

	Debounce time.Duration
	Reflush  time.Duration

	// Now overrides the clock used for cache timestamps.
	Now func() time.Time
}

// CaptureService owns one Session per project and routes envelopes to them.
type CaptureService struct {
	store    driven.KVStore
	bus      driven.CaptureBus
	renderer driven.Renderer
	opts     CaptureOptions

	baseCtx context.Context
	cancel  context.CancelFunc

	// opening collapses concurrent first opens of one project.
	opening singleflight.Group

	mu       sync.Mutex
	sessions map[string]*Session
	closed   bool
}

// NewCaptureService creates a capture service.
// bus and renderer may be nil: Run then returns at once and states are discarded.
func NewCaptureService(store driven.KVStore, bus driven.CaptureBus, renderer driven.Renderer, opts CaptureOptions) *CaptureService {
	baseCtx, cancel := context.WithCancel(context.Background())
	return &CaptureService{
		store:    store,
		bus:      bus,
		renderer: renderer,
		opts:     opts,
		baseCtx:  baseCtx,
		cancel:   cancel,
		sessions: make(map[string]*Session),
	}
}

// Accept validates an envelope and hands its payload to the project's session.
func (s *CaptureService) Accept(ctx context.Context, env domain.CaptureEnvelope) error {
	if env.Type != domain.CaptureMessageType {
		return fmt.Errorf("%w: %q", domain.ErrUnknownMessage, env.Type)
	}
	if s.opts.Origin != "" && !domain.SameOrigin(env.Origin, s.opts.Origin) {
		return fmt.Errorf("%w: %q", domain.ErrCrossOrigin, env.Origin)
	}
	if env.Payload == nil {
		return domain.ErrInvalidPayload
	}
	if !env.ProjectContext.HasProject() {
		return domain.ErrNoProjectContext
	}

	session, err := s.session(ctx, env.ProjectContext.ProjectID)
	if err != nil {
		return err
	}
	return session.Ingest(ctx, env.Payload, env.ProjectContext)
}

// session returns the project's session, opening it on first use.
// The store reads of an open happen outside s.mu, so a slow first open of
// one project does not stall Status or Projects for the others.
func (s *CaptureService) session(ctx context.Context, projectID string) (*Session, error) {
	if session, err := s.lookup(projectID); session != nil || err != nil {
		return session, err
	}

	v, err, _ := s.opening.Do(projectID, func() (any, error) {
		if session, err := s.lookup(projectID); session != nil || err != nil {
			return session, err
		}

		session, err := OpenSession(ctx, s.baseCtx, projectID, s.store, s.renderer, SessionOptions{
			Debounce: s.opts.Debounce,
			Reflush:  s.opts.Reflush,
			Now:      s.opts.Now,
		})
		if err != nil {
			return nil, fmt.Errorf("open project %s: %w", projectID, err)
		}

		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			// Nothing was ingested yet, so closing only stops the timers.
			_ = session.Close(ctx)
			return nil, domain.ErrServiceClosed
		}
		if existing, ok := s.sessions[projectID]; ok {
			s.mu.Unlock()
			_ = session.Close(ctx)
			return existing, nil
		}
		s.sessions[projectID] = session
		s.mu.Unlock()

		logger.Debug("opened capture session for project %s", projectID)
		return session, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Session), nil
}

// lookup returns the open session of projectID, or nil when none is open.
func (s *CaptureService) lookup(projectID string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, domain.ErrServiceClosed
	}
	return s.sessions[projectID], nil
}

// Run consumes the capture bus until ctx is cancelled.
// Rejected envelopes are logged and skipped.
func (s *CaptureService) Run(ctx context.Context) error {
	if s.bus == nil {
		return nil
	}
	err := s.bus.Subscribe(ctx, func(env domain.CaptureEnvelope) {
		if err := s.Accept(ctx, env); err != nil {
			logAcceptError(env, err)
		}
	})
	if err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}
	<-ctx.Done()
	return nil
}

func logAcceptError(env domain.CaptureEnvelope, err error) {
	switch {
	case errors.Is(err, domain.ErrNoProjectContext):
		logger.Debug("capture from %s has no project context", env.SourceURL)
	case errors.Is(err, domain.ErrCrossOrigin), errors.Is(err, domain.ErrUnknownMessage):
		logger.Warn("rejected capture: %v", err)
	default:
		logger.Warn("capture from %s failed: %v", env.SourceURL, err)
	}
}

// Flush merges every project's buffer now.
func (s *CaptureService) Flush(ctx context.Context) error {
	var errs []error
	for _, session := range s.snapshot() {
		if err := session.Flush(ctx); err != nil {
			errs = append(errs, fmt.Errorf("project %s: %w", session.ProjectID(), err))
		}
	}
	return errors.Join(errs...)
}

// Status reports the pipeline of a project. A project that has not received
// captures in this process reports its stored count with an idle buffer.
func (s *CaptureService) Status(ctx context.Context, projectID string) (*domain.BufferStatus, error) {
	if projectID == "" {
		return nil, domain.ErrInvalidInput
	}
	s.mu.Lock()
	session, ok := s.sessions[projectID]
	s.mu.Unlock()
	if ok {
		st := session.Status()
		return &st, nil
	}

	cache, err := loadCache(ctx, s.store, projectID)
	if err != nil {
		return nil, err
	}
	st := &domain.BufferStatus{
		ProjectID: projectID,
		State:     domain.BufferIdle,
		StateName: domain.BufferIdle.String(),
	}
	if cache != nil {
		st.Stored = len(cache.Drawings)
	}
	return st, nil
}

// Projects returns the ids of the open sessions, sorted.
func (s *CaptureService) Projects() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Close stops accepting envelopes and drains every session once.
func (s *CaptureService) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	var errs []error
	for _, session := range s.snapshot() {
		if err := session.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("project %s: %w", session.ProjectID(), err))
		}
	}
	s.cancel()
	return errors.Join(errs...)
}

func (s *CaptureService) snapshot() []*Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		out = append(out, session)
	}
	return out
}
