package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/plantap/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/plantap/internal/core/domain"
	"github.com/custodia-labs/plantap/internal/core/ports/driven"
)

var errStoreDown = errors.New("store down")

// recordingRenderer keeps every state it is given.
type recordingRenderer struct {
	mu     sync.Mutex
	states []domain.RenderState
}

func (r *recordingRenderer) Render(_ context.Context, state domain.RenderState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, state)
}

func (r *recordingRenderer) all() []domain.RenderState {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.RenderState, len(r.states))
	copy(out, r.states)
	return out
}

func (r *recordingRenderer) kinds() []domain.RenderKind {
	var kinds []domain.RenderKind
	for _, s := range r.all() {
		kinds = append(kinds, s.Kind)
	}
	return kinds
}

func (r *recordingRenderer) last() domain.RenderState {
	all := r.all()
	if len(all) == 0 {
		return domain.RenderState{}
	}
	return all[len(all)-1]
}

// flakyStore is a memory store whose writes can be made to fail.
type flakyStore struct {
	*memory.KVStore
	failSets atomic.Int32
	failGets atomic.Bool
	sets     atomic.Int32
}

var _ driven.KVStore = (*flakyStore)(nil)

func newFlakyStore() *flakyStore {
	return &flakyStore{KVStore: memory.NewKVStore()}
}

// failNextSets makes the next n Set calls fail.
func (s *flakyStore) failNextSets(n int) {
	s.failSets.Store(int32(n))
}

func (s *flakyStore) Set(ctx context.Context, entries map[string][]byte) error {
	s.sets.Add(1)
	if s.failSets.Load() > 0 {
		s.failSets.Add(-1)
		return errStoreDown
	}
	return s.KVStore.Set(ctx, entries)
}

func (s *flakyStore) Get(ctx context.Context, keys ...string) (map[string][]byte, error) {
	if s.failGets.Load() {
		return nil, errStoreDown
	}
	return s.KVStore.Get(ctx, keys...)
}

// gatedStore is a memory store whose reads of one project block until
// release is called.
type gatedStore struct {
	*memory.KVStore
	prefix  string
	entered chan struct{}
	gate    chan struct{}
	once    sync.Once
}

var _ driven.KVStore = (*gatedStore)(nil)

func newGatedStore(projectID string) *gatedStore {
	return &gatedStore{
		KVStore: memory.NewKVStore(),
		prefix:  domain.ProjectKey(projectID, ""),
		entered: make(chan struct{}, 1),
		gate:    make(chan struct{}),
	}
}

func (s *gatedStore) release() {
	s.once.Do(func() { close(s.gate) })
}

func (s *gatedStore) Get(ctx context.Context, keys ...string) (map[string][]byte, error) {
	for _, k := range keys {
		if strings.HasPrefix(k, s.prefix) {
			select {
			case s.entered <- struct{}{}:
			default:
			}
			select {
			case <-s.gate:
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			break
		}
	}
	return s.KVStore.Get(ctx, keys...)
}

// parse decodes a JSON document for tests.
func parse(t *testing.T, doc string) *domain.Value {
	t.Helper()
	v, err := domain.ParsePayload([]byte(doc))
	require.NoError(t, err)
	return v
}

const (
	testOrigin  = "https://app.procore.com"
	testPageURL = "https://app.procore.com/companies/3/projects/42/tools/drawings/areas/9"

	drawingsDoc = `{
  "disciplines": [{"id": 7, "name": "Architectural"}, {"id": 8, "name": "Structural"}],
  "drawings": [
    {"id": 1, "number": "A-101", "title": "Floor Plan", "discipline": {"id": 7, "name": "Architectural"}},
    {"id": 2, "number": "A-102", "title": "Roof Plan", "discipline_id": 7},
    {"id": 3, "number": "S-201", "title": "Framing", "discipline_id": 8}
  ]
}`
)

// envelope wraps doc for project 42, area 9.
func envelope(t *testing.T, doc string) domain.CaptureEnvelope {
	t.Helper()
	return envelopeAt(t, testPageURL, doc)
}

// envelopeAt wraps doc for the project of pageURL.
func envelopeAt(t *testing.T, pageURL, doc string) domain.CaptureEnvelope {
	t.Helper()
	return domain.NewCaptureEnvelope(testOrigin, parse(t, doc), domain.ParseProjectContext(pageURL), pageURL)
}
