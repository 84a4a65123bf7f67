package tui

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/plantap/internal/core/domain"
)

func TestFeed_DeliversInOrder(t *testing.T) {
	feed := NewFeed(4)
	ctx := context.Background()

	feed.Render(ctx, domain.LoadingState("42"))
	feed.Render(ctx, dataState())

	assert.Equal(t, domain.RenderLoading, (<-feed.States()).Kind)
	assert.Equal(t, domain.RenderData, (<-feed.States()).Kind)
}

func TestFeed_DropsOldestWhenFull(t *testing.T) {
	feed := NewFeed(2)
	ctx := context.Background()

	feed.Render(ctx, domain.EmptyState("1"))
	feed.Render(ctx, domain.EmptyState("2"))
	feed.Render(ctx, domain.EmptyState("3"))

	assert.Equal(t, "2", (<-feed.States()).ProjectID)
	assert.Equal(t, "3", (<-feed.States()).ProjectID)
}

func TestFeed_Close(t *testing.T) {
	feed := NewFeed(0)
	feed.Close()
	feed.Close()

	feed.Render(context.Background(), dataState())

	_, ok := <-feed.States()
	require.False(t, ok)
}
