package memory

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore(t *testing.T) {
	store := NewConfigStore()
	require.NotNil(t, store)
	assert.NotNil(t, store.values)
	assert.Empty(t, store.Keys())
}

func TestNewConfigStore_Seeded(t *testing.T) {
	store := NewConfigStore(
		map[string]any{"storage.backend": "memory"},
		map[string]any{"capture.debounce_ms": 10},
	)

	assert.Equal(t, "memory", store.GetString("storage.backend"))
	assert.Equal(t, 10, store.GetInt("capture.debounce_ms"))
}

func TestConfigStore_SetAndUnset(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("api.listen", ":8080"))
	val, ok := store.Get("api.listen")
	assert.True(t, ok)
	assert.Equal(t, ":8080", val)

	require.NoError(t, store.Unset("api.listen"))
	_, ok = store.Get("api.listen")
	assert.False(t, ok)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := NewConfigStore(map[string]any{
		"s":     "text",
		"i":     42,
		"i64":   int64(9999),
		"f":     2.5,
		"b":     true,
		"wrong": []string{"x"},
	})

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"string", store.GetString("s"), "text"},
		{"string wrong type", store.GetString("i"), ""},
		{"int", store.GetInt("i"), 42},
		{"int from int64", store.GetInt("i64"), 9999},
		{"int truncates float", store.GetInt("f"), 2},
		{"int wrong type", store.GetInt("wrong"), 0},
		{"float", store.GetFloat("f"), 2.5},
		{"float from int", store.GetFloat("i"), 42.0},
		{"bool", store.GetBool("b"), true},
		{"bool missing", store.GetBool("missing"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestConfigStore_NoOps(t *testing.T) {
	store := NewConfigStore()

	assert.NoError(t, store.Save())
	assert.NoError(t, store.Load())
	assert.Equal(t, ":memory:", store.Path())
}

func TestConfigStore_Concurrency(t *testing.T) {
	store := NewConfigStore()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			_ = store.Set("tap.max_body_bytes", id)
			_ = store.GetInt("tap.max_body_bytes")
			_ = store.Keys()
		}(i)
	}
	wg.Wait()

	assert.Equal(t, []string{"tap.max_body_bytes"}, store.Keys())
}
