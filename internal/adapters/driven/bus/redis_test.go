package bus

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/plantap/internal/core/domain"
)

func setupRedisBus(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	b := NewRedis(client, "", true)
	t.Cleanup(func() { _ = b.Close() })
	return b, mr
}

func TestRedis_DefaultChannel(t *testing.T) {
	b, _ := setupRedisBus(t)
	assert.Equal(t, domain.DefaultRedisChannel, b.Channel())
}

func TestRedis_PublishSubscribe(t *testing.T) {
	b, _ := setupRedisBus(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan domain.CaptureEnvelope, 1)
	require.NoError(t, b.Subscribe(ctx, func(env domain.CaptureEnvelope) { got <- env }))

	sent := testEnvelope(t, `{"data":[{"id":7,"number":"A-101"}]}`)
	require.NoError(t, b.Publish(ctx, sent))

	select {
	case env := <-got:
		assert.Equal(t, domain.CaptureMessageType, env.Type)
		assert.Equal(t, "https://app.procore.com", env.Origin)
		assert.Equal(t, "42", env.ProjectContext.ProjectID)
		raw, err := env.Payload.MarshalJSON()
		require.NoError(t, err)
		assert.JSONEq(t, `{"data":[{"id":7,"number":"A-101"}]}`, string(raw))
	case <-time.After(2 * time.Second):
		t.Fatal("no envelope received")
	}
}

func TestRedis_SkipsUndecodableMessages(t *testing.T) {
	b, mr := setupRedisBus(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan domain.CaptureEnvelope, 2)
	require.NoError(t, b.Subscribe(ctx, func(env domain.CaptureEnvelope) { got <- env }))

	mr.Publish(b.Channel(), "not json")
	require.NoError(t, b.Publish(ctx, testEnvelope(t, `[]`)))

	select {
	case env := <-got:
		assert.Equal(t, domain.KindArray, env.Payload.Kind())
	case <-time.After(2 * time.Second):
		t.Fatal("valid envelope not delivered after a bad one")
	}
}

func TestRedis_NotOwnedCloseKeepsClient(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	defer client.Close()

	b := NewRedis(client, "captures", false)
	require.NoError(t, b.Close())
	assert.NoError(t, client.Ping(context.Background()).Err())
}
