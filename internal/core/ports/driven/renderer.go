package driven

import (
	"context"

	"github.com/custodia-labs/plantap/internal/core/domain"
)

// Renderer is the presentation layer's entry point.
// The core calls it with LOADING, EMPTY or DATA states and consumes no result.
type Renderer interface {
	Render(ctx context.Context, state domain.RenderState)
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(ctx context.Context, state domain.RenderState)

// Render calls f.
func (f RendererFunc) Render(ctx context.Context, state domain.RenderState) {
	f(ctx, state)
}
