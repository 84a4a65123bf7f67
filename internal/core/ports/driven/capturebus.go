package driven

import (
	"context"

	"github.com/custodia-labs/plantap/internal/core/domain"
)

// CaptureBus carries capture envelopes from the tap to the core.
// Publishing is fire-and-forget: a slow or absent consumer never blocks the tap.
type CaptureBus interface {
	// Publish sends an envelope. Implementations may drop it under backpressure.
	Publish(ctx context.Context, env domain.CaptureEnvelope) error

	// Subscribe delivers every envelope to fn until ctx is cancelled.
	// It returns once the subscription is established.
	Subscribe(ctx context.Context, fn func(domain.CaptureEnvelope)) error

	// Close releases the bus.
	Close() error
}
