package driving

import (
	"context"

	"github.com/custodia-labs/plantap/internal/core/domain"
)

// CaptureService receives captured responses and reconciles them into storage.
type CaptureService interface {
	// Accept validates and processes one capture envelope.
	// Envelopes without a project context are dropped with ErrNoProjectContext.
	Accept(ctx context.Context, env domain.CaptureEnvelope) error

	// Run consumes the capture bus until ctx is cancelled.
	Run(ctx context.Context) error

	// Flush forces every pending buffer to be merged now.
	Flush(ctx context.Context) error

	// Status reports the pipeline state of a project.
	Status(ctx context.Context, projectID string) (*domain.BufferStatus, error)

	// Close drains pending buffers and stops all timers.
	Close(ctx context.Context) error
}
