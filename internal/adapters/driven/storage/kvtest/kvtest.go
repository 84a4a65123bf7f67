// Package kvtest holds the behaviour every driven.KVStore must share.
// Adapter tests call Run with a constructor for a fresh, empty store.
package kvtest

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/plantap/internal/core/ports/driven"
)

// Run exercises a KVStore implementation.
func Run(t *testing.T, newStore func(t *testing.T) driven.KVStore) {
	t.Helper()

	t.Run("get missing keys", func(t *testing.T) {
		store := newStore(t)

		values, err := store.Get(context.Background(), "plantap:1:drawings", "plantap:1:disciplines")

		require.NoError(t, err)
		assert.Empty(t, values)
	})

	t.Run("get with no keys", func(t *testing.T) {
		store := newStore(t)

		values, err := store.Get(context.Background())

		require.NoError(t, err)
		assert.Empty(t, values)
	})

	t.Run("set and get", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		err := store.Set(ctx, map[string][]byte{
			"plantap:1:drawings":    []byte(`{"drawings":[]}`),
			"plantap:1:disciplines": []byte(`{"7":{"name":"Arch","index":0}}`),
		})
		require.NoError(t, err)

		values, err := store.Get(ctx, "plantap:1:drawings", "plantap:1:disciplines", "plantap:1:recents")
		require.NoError(t, err)
		assert.Len(t, values, 2)
		assert.JSONEq(t, `{"drawings":[]}`, string(values["plantap:1:drawings"]))
		assert.JSONEq(t, `{"7":{"name":"Arch","index":0}}`, string(values["plantap:1:disciplines"]))
	})

	t.Run("set overwrites", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		require.NoError(t, store.Set(ctx, map[string][]byte{"plantap:prefs": []byte(`{"a":1}`)}))
		require.NoError(t, store.Set(ctx, map[string][]byte{"plantap:prefs": []byte(`{"a":2}`)}))

		values, err := store.Get(ctx, "plantap:prefs")
		require.NoError(t, err)
		assert.JSONEq(t, `{"a":2}`, string(values["plantap:prefs"]))
	})

	t.Run("returned values are copies", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		raw := []byte(`"x"`)

		require.NoError(t, store.Set(ctx, map[string][]byte{"k": raw}))
		raw[1] = 'y'

		values, err := store.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, `"x"`, string(values["k"]))
	})

	t.Run("delete", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		require.NoError(t, store.Set(ctx, map[string][]byte{"a": []byte("1"), "b": []byte("2")}))
		require.NoError(t, store.Delete(ctx, "a", "never-set"))

		values, err := store.Get(ctx, "a", "b")
		require.NoError(t, err)
		assert.NotContains(t, values, "a")
		assert.Contains(t, values, "b")
	})

	t.Run("keys by prefix", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		require.NoError(t, store.Set(ctx, map[string][]byte{
			"plantap:2:drawings": []byte("{}"),
			"plantap:1:drawings": []byte("{}"),
			"plantap:prefs":      []byte("{}"),
			"other:1":            []byte("{}"),
			"plantap_%x":         []byte("{}"),
		}))

		keys, err := store.Keys(ctx, "plantap:")
		require.NoError(t, err)
		assert.Equal(t, []string{"plantap:1:drawings", "plantap:2:drawings", "plantap:prefs"}, keys)
	})

	t.Run("concurrent writers", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				key := fmt.Sprintf("plantap:%d:recents", i)
				assert.NoError(t, store.Set(ctx, map[string][]byte{key: []byte(`["A-1"]`)}))
			}(i)
		}
		wg.Wait()

		keys, err := store.Keys(ctx, "plantap:")
		require.NoError(t, err)
		assert.Len(t, keys, 10)
	})
}
