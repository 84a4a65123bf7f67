package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/custodia-labs/plantap/internal/core/ports/driven"
)

// loadJSON reads key into v. It reports false when the key is not stored.
func loadJSON(ctx context.Context, store driven.KVStore, key string, v any) (bool, error) {
	values, err := store.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("get %s: %w", key, err)
	}
	raw, ok := values[key]
	if !ok || len(raw) == 0 {
		return false, nil
	}
	if err := unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// unmarshal decodes a stored document. A JSON null leaves v untouched.
func unmarshal(raw []byte, v any) error {
	return json.Unmarshal(raw, v)
}

// saveJSON writes v under key in a single set.
func saveJSON(ctx context.Context, store driven.KVStore, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := store.Set(ctx, map[string][]byte{key: raw}); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}
