package services

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/plantap/internal/core/domain"
	"github.com/custodia-labs/plantap/internal/core/ports/driven"
	"github.com/custodia-labs/plantap/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	KeyProxyListen     = "proxy.listen"
	KeyProxyUpstream   = "proxy.upstream"
	KeyRelevantHost    = "tap.relevant_host"
	KeyMaxBodyBytes    = "tap.max_body_bytes"
	KeyParsesPerSecond = "tap.parses_per_second"
	KeyDebounceMS      = "capture.debounce_ms"
	KeyReflushMS       = "capture.reflush_ms"
	KeyStorageBackend  = "storage.backend"
	KeyDataDir         = "storage.data_dir"
	KeyRedisURL        = "redis.url"
	KeyRedisChannel    = "redis.channel"
	KeyBusBackend      = "bus.backend"
	KeyAPIListen       = "api.listen"
)

// keyKinds lists every known key and the value type it holds.
var keyKinds = map[string]string{
	KeyProxyListen:     "string",
	KeyProxyUpstream:   "string",
	KeyRelevantHost:    "string",
	KeyMaxBodyBytes:    "int",
	KeyParsesPerSecond: "float",
	KeyDebounceMS:      "int",
	KeyReflushMS:       "int",
	KeyStorageBackend:  "string",
	KeyDataDir:         "string",
	KeyRedisURL:        "string",
	KeyRedisChannel:    "string",
	KeyBusBackend:      "string",
	KeyAPIListen:       "string",
}

// SettingsService resolves runtime settings from the config store.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get returns the configured settings over the defaults.
// Invalid or missing values fall back to their default.
func (s *SettingsService) Get() domain.Settings {
	d := domain.DefaultSettings()
	return domain.Settings{
		ProxyListen:     s.getString(KeyProxyListen, d.ProxyListen),
		ProxyUpstream:   s.getString(KeyProxyUpstream, d.ProxyUpstream),
		RelevantHost:    s.getString(KeyRelevantHost, d.RelevantHost),
		MaxBodyBytes:    int64(s.getPositiveInt(KeyMaxBodyBytes, int(d.MaxBodyBytes))),
		ParsesPerSecond: s.getPositiveFloat(KeyParsesPerSecond, d.ParsesPerSecond),
		Debounce:        s.getMillis(KeyDebounceMS, d.Debounce),
		Reflush:         s.getMillis(KeyReflushMS, d.Reflush),
		Storage:         s.getStorage(d.Storage),
		DataDir:         s.configStore.GetString(KeyDataDir),
		RedisURL:        s.getString(KeyRedisURL, d.RedisURL),
		RedisChannel:    s.getString(KeyRedisChannel, d.RedisChannel),
		Bus:             s.getBus(d.Bus),
		APIListen:       s.configStore.GetString(KeyAPIListen),
	}
}

// Lookup returns the value stored for a known key.
func (s *SettingsService) Lookup(key string) (any, bool) {
	if _, ok := keyKinds[key]; !ok {
		return nil, false
	}
	return s.configStore.Get(key)
}

// Set parses a textual value for a known key and stores it with its type.
func (s *SettingsService) Set(key, raw string) error {
	kind, ok := keyKinds[key]
	if !ok {
		return fmt.Errorf("%w: unknown config key %q", domain.ErrInvalidInput, key)
	}

	var value any
	switch kind {
	case "int":
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return fmt.Errorf("%w: %s must be a positive integer", domain.ErrInvalidInput, key)
		}
		value = n
	case "float":
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil || f <= 0 {
			return fmt.Errorf("%w: %s must be a positive number", domain.ErrInvalidInput, key)
		}
		value = f
	default:
		value = strings.TrimSpace(raw)
	}

	switch key {
	case KeyStorageBackend:
		if !domain.StorageBackend(raw).IsValid() {
			return fmt.Errorf("%w: %q", domain.ErrUnsupportedType, raw)
		}
	case KeyBusBackend:
		if !domain.BusBackend(raw).IsValid() {
			return fmt.Errorf("%w: %q", domain.ErrUnsupportedType, raw)
		}
	}

	if err := s.configStore.Set(key, value); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Unset removes a key so its default applies again.
func (s *SettingsService) Unset(key string) error {
	if _, ok := keyKinds[key]; !ok {
		return fmt.Errorf("%w: unknown config key %q", domain.ErrInvalidInput, key)
	}
	return s.configStore.Unset(key)
}

// Keys returns every key the settings service understands.
func (s *SettingsService) Keys() []string {
	keys := make([]string, 0, len(keyKinds))
	for k := range keyKinds {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Path returns the backing config file.
func (s *SettingsService) Path() string {
	return s.configStore.Path()
}

func (s *SettingsService) getString(key, defaultVal string) string {
	if v := strings.TrimSpace(s.configStore.GetString(key)); v != "" {
		return v
	}
	return defaultVal
}

func (s *SettingsService) getPositiveInt(key string, defaultVal int) int {
	if v := s.configStore.GetInt(key); v > 0 {
		return v
	}
	return defaultVal
}

func (s *SettingsService) getPositiveFloat(key string, defaultVal float64) float64 {
	if v := s.configStore.GetFloat(key); v > 0 {
		return v
	}
	return defaultVal
}

func (s *SettingsService) getMillis(key string, defaultVal time.Duration) time.Duration {
	if v := s.configStore.GetInt(key); v > 0 {
		return time.Duration(v) * time.Millisecond
	}
	return defaultVal
}

func (s *SettingsService) getStorage(defaultVal domain.StorageBackend) domain.StorageBackend {
	if b := domain.StorageBackend(s.configStore.GetString(KeyStorageBackend)); b.IsValid() {
		return b
	}
	return defaultVal
}

func (s *SettingsService) getBus(defaultVal domain.BusBackend) domain.BusBackend {
	if b := domain.BusBackend(s.configStore.GetString(KeyBusBackend)); b.IsValid() {
		return b
	}
	return defaultVal
}
