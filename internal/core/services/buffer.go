package services

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/plantap/internal/core/domain"
	"github.com/custodia-labs/plantap/internal/logger"
)

// MergeFunc merges one batch of buffered drawings into storage.
// It must be safe to call again with the same batch after a failure.
type MergeFunc func(ctx context.Context, batch []domain.Drawing, pc domain.ProjectContext) error

// Buffer coalesces bursts of captured drawings into few storage writes.
//
// It is a small state machine:
//
//	Idle     --arrival-->  Pending   (start debounce timer)
//	Pending  --arrival-->  Pending   (append, reset timer)
//	Pending  --timer---->  Flushing  (merge a snapshot of the buffer)
//	Flushing --arrival-->  Flushing  (append only, no new timer)
//	Flushing --done----->  Pending   (records left over: re-flush after a short delay)
//	Flushing --done----->  Idle      (buffer empty)
//
// A failed merge keeps the whole buffer and schedules a retry, so delivery is
// at-least-once; the merge deduplicates by id.
type Buffer struct {
	merge    MergeFunc
	debounce time.Duration
	reflush  time.Duration
	baseCtx  context.Context

	mu       sync.Mutex
	idle     *sync.Cond
	state    domain.BufferState
	pending  []domain.Drawing
	pc       domain.ProjectContext
	flushing bool
	closed   bool
	timer    *time.Timer
	gen      uint64
	flushes  int
	failures int
}

// NewBuffer creates an idle buffer. Timer-driven merges run with baseCtx.
func NewBuffer(baseCtx context.Context, merge MergeFunc, debounce, reflush time.Duration) *Buffer {
	if debounce <= 0 {
		debounce = domain.DefaultDebounce
	}
	if reflush <= 0 {
		reflush = domain.DefaultReflush
	}
	b := &Buffer{
		merge:    merge,
		debounce: debounce,
		reflush:  reflush,
		baseCtx:  baseCtx,
	}
	b.idle = sync.NewCond(&b.mu)
	return b
}

// Add appends records and (re)starts the debounce timer.
// While a merge is running the records are only appended; the merge
// schedules the follow-up flush when it completes.
func (b *Buffer) Add(records []domain.Drawing, pc domain.ProjectContext) {
	if len(records) == 0 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}

	b.pending = append(b.pending, records...)
	b.pc = mergeContext(b.pc, pc)
	if b.flushing {
		return
	}
	b.scheduleLocked(b.debounce)
}

// mergeContext keeps the latest non-empty part of each id.
func mergeContext(cur, next domain.ProjectContext) domain.ProjectContext {
	if next.CompanyID != "" {
		cur.CompanyID = next.CompanyID
	}
	if next.ProjectID != "" {
		cur.ProjectID = next.ProjectID
	}
	if next.DrawingAreaID != "" {
		cur.DrawingAreaID = next.DrawingAreaID
	}
	return cur
}

// scheduleLocked replaces any running timer. Callers hold b.mu.
func (b *Buffer) scheduleLocked(d time.Duration) {
	b.cancelTimerLocked()
	gen := b.gen
	b.timer = time.AfterFunc(d, func() { b.fire(gen) })
	b.state = domain.BufferPending
}

// cancelTimerLocked stops the timer and invalidates any callback already
// waiting for the lock. Callers hold b.mu.
func (b *Buffer) cancelTimerLocked() {
	b.gen++
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
}

// fire runs when a debounce or re-flush timer elapses.
func (b *Buffer) fire(gen uint64) {
	b.mu.Lock()
	if gen != b.gen || b.flushing || b.closed {
		b.mu.Unlock()
		return
	}
	b.timer = nil
	batch, pc, ok := b.beginLocked()
	b.mu.Unlock()
	if !ok {
		return
	}

	err := b.merge(b.baseCtx, batch, pc)
	b.finish(len(batch), err)
}

// beginLocked moves to Flushing and snapshots the buffer.
// It reports false (and goes Idle) when there is nothing to merge.
func (b *Buffer) beginLocked() ([]domain.Drawing, domain.ProjectContext, bool) {
	if len(b.pending) == 0 {
		b.state = domain.BufferIdle
		return nil, b.pc, false
	}
	b.flushing = true
	b.state = domain.BufferFlushing
	batch := make([]domain.Drawing, len(b.pending))
	copy(batch, b.pending)
	return batch, b.pc, true
}

// finish completes a merge of the first n buffered records.
func (b *Buffer) finish(n int, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.flushing = false
	if err != nil {
		b.failures++
		logger.Warn("flush of %d drawings for project %s failed, will retry: %v", n, b.pc.ProjectID, err)
	} else {
		b.flushes++
		// Only appends happen during a merge, so the batch is still the prefix.
		rest := make([]domain.Drawing, len(b.pending)-n)
		copy(rest, b.pending[n:])
		b.pending = rest
	}

	if len(b.pending) > 0 && !b.closed {
		b.scheduleLocked(b.reflush)
	} else {
		b.state = domain.BufferIdle
	}
	b.idle.Broadcast()
}

// Flush merges everything buffered now, waiting for a running merge first.
func (b *Buffer) Flush(ctx context.Context) error {
	b.mu.Lock()
	for b.flushing {
		b.idle.Wait()
	}
	b.cancelTimerLocked()
	batch, pc, ok := b.beginLocked()
	b.mu.Unlock()
	if !ok {
		return nil
	}

	err := b.merge(ctx, batch, pc)
	b.finish(len(batch), err)
	return err
}

// Close stops accepting records, cancels timers and merges what is left once.
func (b *Buffer) Close(ctx context.Context) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	b.cancelTimerLocked()
	b.mu.Unlock()

	return b.Flush(ctx)
}

// Status reports the buffer's state.
func (b *Buffer) Status() domain.BufferStatus {
	b.mu.Lock()
	defer b.mu.Unlock()
	return domain.BufferStatus{
		ProjectID: b.pc.ProjectID,
		State:     b.state,
		StateName: b.state.String(),
		Pending:   len(b.pending),
		Flushing:  b.flushing,
		Flushes:   b.flushes,
		Failures:  b.failures,
	}
}
