package bus

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/custodia-labs/plantap/internal/core/domain"
	"github.com/custodia-labs/plantap/internal/core/ports/driven"
	"github.com/custodia-labs/plantap/internal/logger"
)

// Ensure Local implements the interface.
var _ driven.CaptureBus = (*Local)(nil)

// DefaultBufferSize is the capacity of the local bus queue.
const DefaultBufferSize = 256

// Local is an in-process capture bus. Publish never blocks: when the queue is
// full the envelope is dropped, since the host must never wait on the tap.
type Local struct {
	queue chan domain.CaptureEnvelope

	mu      sync.RWMutex
	closed  bool
	done    chan struct{}
	dropped atomic.Int64
}

// NewLocal creates a local bus with the given queue size.
func NewLocal(size int) *Local {
	if size <= 0 {
		size = DefaultBufferSize
	}
	return &Local{
		queue: make(chan domain.CaptureEnvelope, size),
		done:  make(chan struct{}),
	}
}

// Publish enqueues env or drops it when the queue is full.
func (b *Local) Publish(_ context.Context, env domain.CaptureEnvelope) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return domain.ErrServiceClosed
	}
	select {
	case b.queue <- env:
	default:
		b.dropped.Add(1)
		logger.Debug("capture bus full, dropped capture of %s", env.SourceURL)
	}
	return nil
}

// Subscribe starts one goroutine delivering envelopes to fn in order.
// It stops when ctx is cancelled or the bus is closed.
func (b *Local) Subscribe(ctx context.Context, fn func(domain.CaptureEnvelope)) error {
	b.mu.RLock()
	closed := b.closed
	b.mu.RUnlock()
	if closed {
		return domain.ErrServiceClosed
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-b.done:
				return
			case env := <-b.queue:
				fn(env)
			}
		}
	}()
	return nil
}

// Dropped returns how many envelopes were dropped on a full queue.
func (b *Local) Dropped() int64 {
	return b.dropped.Load()
}

// Close stops subscribers. Envelopes still queued are discarded.
func (b *Local) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.closed {
		b.closed = true
		close(b.done)
	}
	return nil
}
