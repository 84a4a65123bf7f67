package tui

import (
	"context"
	"sync"

	"github.com/custodia-labs/plantap/internal/core/domain"
	"github.com/custodia-labs/plantap/internal/core/ports/driven"
)

// Ensure Feed implements the interface.
var _ driven.Renderer = (*Feed)(nil)

// DefaultFeedSize is the number of states a Feed holds before dropping.
const DefaultFeedSize = 16

// Feed is a renderer that queues states for the App. When the queue is full
// the oldest state is dropped, since only the latest one matters.
type Feed struct {
	mu     sync.Mutex
	ch     chan domain.RenderState
	closed bool
}

// NewFeed creates a feed holding up to size states.
func NewFeed(size int) *Feed {
	if size <= 0 {
		size = DefaultFeedSize
	}
	return &Feed{ch: make(chan domain.RenderState, size)}
}

// Render queues a state without blocking.
func (f *Feed) Render(_ context.Context, state domain.RenderState) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	for {
		select {
		case f.ch <- state:
			return
		default:
		}
		select {
		case <-f.ch:
		default:
		}
	}
}

// States returns the channel the App reads from.
func (f *Feed) States() <-chan domain.RenderState {
	return f.ch
}

// Close stops the feed. Later renders are ignored.
func (f *Feed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.closed {
		f.closed = true
		close(f.ch)
	}
}
