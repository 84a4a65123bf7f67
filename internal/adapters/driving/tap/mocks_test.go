package tap

import (
	"context"
	"net/http"
	"sync"

	"github.com/custodia-labs/plantap/internal/core/domain"
)

// recordingBus stores every published envelope.
type recordingBus struct {
	mu        sync.Mutex
	envelopes []domain.CaptureEnvelope
	err       error
}

func (b *recordingBus) Publish(_ context.Context, env domain.CaptureEnvelope) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return b.err
	}
	b.envelopes = append(b.envelopes, env)
	return nil
}

func (b *recordingBus) Subscribe(context.Context, func(domain.CaptureEnvelope)) error {
	return nil
}

func (b *recordingBus) Close() error { return nil }

func (b *recordingBus) published() []domain.CaptureEnvelope {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]domain.CaptureEnvelope(nil), b.envelopes...)
}

// recordingObserver wants everything and records observations.
type recordingObserver struct {
	mu    sync.Mutex
	limit int64
	wants bool
	panic bool
	seen  []Observation
}

func (o *recordingObserver) Wants(string, http.Header) bool {
	if o.panic {
		panic("observer exploded")
	}
	return o.wants
}

func (o *recordingObserver) MaxBodyBytes() int64 { return o.limit }

func (o *recordingObserver) Observe(obs Observation) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.seen = append(o.seen, obs)
}

func (o *recordingObserver) observations() []Observation {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]Observation(nil), o.seen...)
}
