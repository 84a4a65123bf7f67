package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/plantap/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/plantap/internal/core/domain"
)

func TestNewSettingsService(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	require.NotNil(t, service)
	assert.Equal(t, ":memory:", service.Path())
}

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	assert.Equal(t, domain.DefaultSettings(), service.Get())
}

func TestSettingsService_Get_ReturnsStoredValues(t *testing.T) {
	store := memory.NewConfigStore(map[string]any{
		KeyProxyListen:     "0.0.0.0:9000",
		KeyProxyUpstream:   "https://eu.procore.com",
		KeyMaxBodyBytes:    int64(2048),
		KeyParsesPerSecond: 5.5,
		KeyDebounceMS:      250,
		KeyStorageBackend:  "redis",
		KeyDataDir:         "/var/lib/plantap",
		KeyBusBackend:      "redis",
		KeyAPIListen:       "127.0.0.1:9001",
	})
	service := NewSettingsService(store)

	s := service.Get()

	assert.Equal(t, "0.0.0.0:9000", s.ProxyListen)
	assert.Equal(t, "https://eu.procore.com", s.ProxyUpstream)
	assert.Equal(t, "https://eu.procore.com", s.Origin())
	assert.Equal(t, int64(2048), s.MaxBodyBytes)
	assert.InDelta(t, 5.5, s.ParsesPerSecond, 0.0001)
	assert.Equal(t, 250*time.Millisecond, s.Debounce)
	assert.Equal(t, domain.DefaultReflush, s.Reflush)
	assert.Equal(t, domain.StorageRedis, s.Storage)
	assert.Equal(t, "/var/lib/plantap", s.DataDir)
	assert.Equal(t, domain.BusRedis, s.Bus)
	assert.Equal(t, "127.0.0.1:9001", s.APIListen)
}

func TestSettingsService_Get_InvalidValuesReturnDefaults(t *testing.T) {
	store := memory.NewConfigStore(map[string]any{
		KeyProxyListen:    "   ",
		KeyMaxBodyBytes:   -1,
		KeyDebounceMS:     "soon",
		KeyStorageBackend: "mongo",
		KeyBusBackend:     "kafka",
	})
	service := NewSettingsService(store)

	s := service.Get()
	d := domain.DefaultSettings()

	assert.Equal(t, d.ProxyListen, s.ProxyListen)
	assert.Equal(t, d.MaxBodyBytes, s.MaxBodyBytes)
	assert.Equal(t, d.Debounce, s.Debounce)
	assert.Equal(t, d.Storage, s.Storage)
	assert.Equal(t, d.Bus, s.Bus)
}

func TestSettingsService_Set(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)

	require.NoError(t, service.Set(KeyReflushMS, "750"))
	require.NoError(t, service.Set(KeyParsesPerSecond, "2.5"))
	require.NoError(t, service.Set(KeyRelevantHost, " procore.eu "))
	require.NoError(t, service.Set(KeyStorageBackend, "memory"))

	v, ok := store.Get(KeyReflushMS)
	require.True(t, ok)
	assert.Equal(t, 750, v)

	s := service.Get()
	assert.Equal(t, 750*time.Millisecond, s.Reflush)
	assert.InDelta(t, 2.5, s.ParsesPerSecond, 0.0001)
	assert.Equal(t, "procore.eu", s.RelevantHost)
	assert.Equal(t, domain.StorageMemory, s.Storage)
}

func TestSettingsService_Set_Rejects(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	tests := []struct {
		key, value string
		want       error
	}{
		{"unknown.key", "x", domain.ErrInvalidInput},
		{KeyMaxBodyBytes, "abc", domain.ErrInvalidInput},
		{KeyMaxBodyBytes, "0", domain.ErrInvalidInput},
		{KeyParsesPerSecond, "-1", domain.ErrInvalidInput},
		{KeyStorageBackend, "mongo", domain.ErrUnsupportedType},
		{KeyBusBackend, "kafka", domain.ErrUnsupportedType},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			assert.ErrorIs(t, service.Set(tt.key, tt.value), tt.want)
		})
	}
}

func TestSettingsService_LookupAndUnset(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())
	require.NoError(t, service.Set(KeyAPIListen, "127.0.0.1:9001"))

	v, ok := service.Lookup(KeyAPIListen)
	require.True(t, ok)
	assert.Equal(t, "127.0.0.1:9001", v)

	_, ok = service.Lookup("unknown.key")
	assert.False(t, ok)

	require.NoError(t, service.Unset(KeyAPIListen))
	_, ok = service.Lookup(KeyAPIListen)
	assert.False(t, ok)
	assert.Empty(t, service.Get().APIListen)

	assert.ErrorIs(t, service.Unset("unknown.key"), domain.ErrInvalidInput)
}

func TestSettingsService_Keys(t *testing.T) {
	keys := NewSettingsService(memory.NewConfigStore()).Keys()

	assert.Len(t, keys, len(keyKinds))
	assert.IsIncreasing(t, keys)
	assert.Contains(t, keys, KeyRelevantHost)
}
