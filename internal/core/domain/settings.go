package domain

import "time"

// StorageBackend selects the key-value store implementation.
type StorageBackend string

// Available storage backends.
const (
	// StorageSQLite persists to a local SQLite database (default).
	StorageSQLite StorageBackend = "sqlite"

	// StorageMemory keeps everything in process memory.
	StorageMemory StorageBackend = "memory"

	// StorageRedis persists to a Redis server shared between processes.
	StorageRedis StorageBackend = "redis"
)

// IsValid returns true if the storage backend is recognised.
func (b StorageBackend) IsValid() bool {
	switch b {
	case StorageSQLite, StorageMemory, StorageRedis:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (b StorageBackend) String() string {
	return string(b)
}

// BusBackend selects how capture envelopes travel from the tap to the core.
type BusBackend string

// Available bus backends.
const (
	// BusLocal delivers envelopes in-process.
	BusLocal BusBackend = "local"

	// BusRedis delivers envelopes over Redis pub/sub.
	BusRedis BusBackend = "redis"
)

// IsValid returns true if the bus backend is recognised.
func (b BusBackend) IsValid() bool {
	return b == BusLocal || b == BusRedis
}

// String returns the string representation.
func (b BusBackend) String() string {
	return string(b)
}

// Settings is the resolved runtime configuration.
type Settings struct {
	// Proxy
	ProxyListen   string
	ProxyUpstream string

	// Tap
	RelevantHost    string
	MaxBodyBytes    int64
	ParsesPerSecond float64

	// Capture
	Debounce time.Duration
	Reflush  time.Duration

	// Storage
	Storage StorageBackend
	DataDir string

	// Redis
	RedisURL     string
	RedisChannel string
	Bus          BusBackend

	// Admin API ("" disables it)
	APIListen string
}

// Default settings values.
const (
	DefaultProxyListen     = "127.0.0.1:8765"
	DefaultProxyUpstream   = "https://app.procore.com"
	DefaultRelevantHost    = "procore.com"
	DefaultMaxBodyBytes    = 1_000_000
	DefaultParsesPerSecond = 50
	DefaultDebounce        = 1500 * time.Millisecond
	DefaultReflush         = 500 * time.Millisecond
	DefaultRedisURL        = "redis://localhost:6379"
	DefaultRedisChannel    = "plantap:captures"
)

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		ProxyListen:     DefaultProxyListen,
		ProxyUpstream:   DefaultProxyUpstream,
		RelevantHost:    DefaultRelevantHost,
		MaxBodyBytes:    DefaultMaxBodyBytes,
		ParsesPerSecond: DefaultParsesPerSecond,
		Debounce:        DefaultDebounce,
		Reflush:         DefaultReflush,
		Storage:         StorageSQLite,
		RedisURL:        DefaultRedisURL,
		RedisChannel:    DefaultRedisChannel,
		Bus:             BusLocal,
	}
}

// Origin returns the origin captures are accepted from.
func (s Settings) Origin() string {
	return Origin(s.ProxyUpstream)
}
