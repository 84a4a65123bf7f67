package bus

import (
	"context"

	"github.com/custodia-labs/plantap/internal/core/domain"
	"github.com/custodia-labs/plantap/internal/core/ports/driven"
	"github.com/custodia-labs/plantap/internal/logger"
)

// Ensure Direct implements the interface.
var _ driven.CaptureBus = Direct(nil)

// Direct hands every envelope straight to a function on the publishing
// goroutine. One-shot commands use it so that waiting for the tap also waits
// for the capture to be accepted.
type Direct func(ctx context.Context, env domain.CaptureEnvelope) error

// Publish calls d. Rejections are logged, not returned.
func (d Direct) Publish(ctx context.Context, env domain.CaptureEnvelope) error {
	if d == nil {
		return domain.ErrServiceClosed
	}
	if err := d(ctx, env); err != nil {
		logger.Debug("direct capture of %s rejected: %v", env.SourceURL, err)
	}
	return nil
}

// Subscribe does nothing: there is no queue to consume.
func (d Direct) Subscribe(context.Context, func(domain.CaptureEnvelope)) error {
	return nil
}

// Close does nothing.
func (d Direct) Close() error {
	return nil
}
