package bus

import (
	"context"
	"encoding/json"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/custodia-labs/plantap/internal/core/domain"
	"github.com/custodia-labs/plantap/internal/core/ports/driven"
	"github.com/custodia-labs/plantap/internal/logger"
)

// Ensure Redis implements the interface.
var _ driven.CaptureBus = (*Redis)(nil)

// Redis carries capture envelopes over a Redis pub/sub channel.
// Pub/sub is fire-and-forget: envelopes published with no subscriber are lost.
type Redis struct {
	client  *goredis.Client
	channel string
	owned   bool
}

// NewRedis wraps a connected client. When owned is true Close closes it.
func NewRedis(client *goredis.Client, channel string, owned bool) *Redis {
	if channel == "" {
		channel = domain.DefaultRedisChannel
	}
	return &Redis{client: client, channel: channel, owned: owned}
}

// Channel returns the pub/sub channel name.
func (b *Redis) Channel() string {
	return b.channel
}

// Publish sends env as JSON.
func (b *Redis) Publish(ctx context.Context, env domain.CaptureEnvelope) error {
	raw, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal capture: %w", err)
	}
	if err := b.client.Publish(ctx, b.channel, raw).Err(); err != nil {
		return fmt.Errorf("publish to %s: %w", b.channel, err)
	}
	return nil
}

// Subscribe confirms the subscription, then forwards messages to fn on one
// goroutine until ctx is cancelled. Undecodable messages are skipped.
func (b *Redis) Subscribe(ctx context.Context, fn func(domain.CaptureEnvelope)) error {
	sub := b.client.Subscribe(ctx, b.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("subscribe to %s: %w", b.channel, err)
	}

	go func() {
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-ch:
				if !ok || m == nil {
					return
				}
				var env domain.CaptureEnvelope
				if err := json.Unmarshal([]byte(m.Payload), &env); err != nil {
					logger.Warn("bad capture on %s: %v", b.channel, err)
					continue
				}
				fn(env)
			}
		}
	}()
	return nil
}

// Close releases the client if the bus owns it.
func (b *Redis) Close() error {
	if !b.owned {
		return nil
	}
	return b.client.Close()
}
