package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/plantap/internal/core/ports/driven"
)

// Ensure KVStore implements the interface.
var _ driven.KVStore = (*KVStore)(nil)

// KVStore is an in-memory implementation of driven.KVStore.
// Values are copied on the way in and out.
type KVStore struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewKVStore creates a new in-memory key-value store.
func NewKVStore() *KVStore {
	return &KVStore{
		values: make(map[string][]byte),
	}
}

// Get returns the values stored under keys.
func (s *KVStore) Get(_ context.Context, keys ...string) (map[string][]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make(map[string][]byte, len(keys))
	for _, k := range keys {
		if v, ok := s.values[k]; ok {
			result[k] = append([]byte(nil), v...)
		}
	}
	return result, nil
}

// Set stores every entry under one lock.
func (s *KVStore) Set(_ context.Context, entries map[string][]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range entries {
		s.values[k] = append([]byte(nil), v...)
	}
	return nil
}

// Delete removes keys.
func (s *KVStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.values, k)
	}
	return nil
}

// Keys lists stored keys starting with prefix, sorted.
func (s *KVStore) Keys(_ context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var keys []string
	for k := range s.values {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}
