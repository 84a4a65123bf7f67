// Package redis provides a Redis-backed driven.KVStore, for running the proxy
// and its readers on different machines.
package redis

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/custodia-labs/plantap/internal/core/domain"
	"github.com/custodia-labs/plantap/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.KVStore = (*Store)(nil)

// Options configures the Redis connection.
type Options struct {
	// URL is the Redis connection string (e.g., "redis://localhost:6379/0").
	URL string

	// ConnectTimeout bounds dialing and the initial ping.
	ConnectTimeout time.Duration

	// ReadTimeout and WriteTimeout bound individual commands.
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Connect opens a client and pings it.
func Connect(opts Options) (*goredis.Client, error) {
	if opts.URL == "" {
		opts.URL = domain.DefaultRedisURL
	}
	if opts.ConnectTimeout == 0 {
		opts.ConnectTimeout = 5 * time.Second
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = 5 * time.Second
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = 5 * time.Second
	}

	redisOpts, err := goredis.ParseURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	redisOpts.DialTimeout = opts.ConnectTimeout
	redisOpts.ReadTimeout = opts.ReadTimeout
	redisOpts.WriteTimeout = opts.WriteTimeout

	client := goredis.NewClient(redisOpts)

	ctx, cancel := context.WithTimeout(context.Background(), opts.ConnectTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: redis ping: %w", domain.ErrStorageUnavailable, err)
	}
	return client, nil
}

// Store keeps each document as one Redis string.
type Store struct {
	client *goredis.Client
	owned  bool
}

// NewStore connects to Redis and returns a store that owns the client.
func NewStore(opts Options) (*Store, error) {
	client, err := Connect(opts)
	if err != nil {
		return nil, err
	}
	return &Store{client: client, owned: true}, nil
}

// NewStoreFromClient wraps an existing client. Close leaves it open.
func NewStoreFromClient(client *goredis.Client) *Store {
	return &Store{client: client}
}

// Client returns the underlying client.
func (s *Store) Client() *goredis.Client {
	return s.client
}

// Close releases the client if the store opened it.
func (s *Store) Close() error {
	if !s.owned {
		return nil
	}
	return s.client.Close()
}

// Get reads keys with a single MGET.
func (s *Store) Get(ctx context.Context, keys ...string) (map[string][]byte, error) {
	result := make(map[string][]byte, len(keys))
	if len(keys) == 0 {
		return result, nil
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: mget: %w", domain.ErrStorageUnavailable, err)
	}
	for i, v := range values {
		// Missing keys come back as nil.
		if str, ok := v.(string); ok {
			result[keys[i]] = []byte(str)
		}
	}
	return result, nil
}

// Set writes every entry with a single MSET, which Redis applies atomically.
func (s *Store) Set(ctx context.Context, entries map[string][]byte) error {
	if len(entries) == 0 {
		return nil
	}
	pairs := make([]any, 0, len(entries)*2)
	for k, v := range entries {
		pairs = append(pairs, k, v)
	}
	if err := s.client.MSet(ctx, pairs...).Err(); err != nil {
		return fmt.Errorf("%w: mset: %w", domain.ErrStorageUnavailable, err)
	}
	return nil
}

// Delete removes keys.
func (s *Store) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("del: %w", err)
	}
	return nil
}

// Keys walks the keyspace with SCAN and returns matches sorted.
func (s *Store) Keys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	iter := s.client.Scan(ctx, 0, escapeGlob(prefix)+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		// SCAN may return a key more than once.
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("%w: scan: %w", domain.ErrStorageUnavailable, err)
	}
	sort.Strings(keys)
	return dedupSorted(keys), nil
}

// escapeGlob quotes the characters SCAN MATCH treats as patterns.
func escapeGlob(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func dedupSorted(keys []string) []string {
	if len(keys) < 2 {
		return keys
	}
	out := keys[:1]
	for _, k := range keys[1:] {
		if k != out[len(out)-1] {
			out = append(out, k)
		}
	}
	return out
}
