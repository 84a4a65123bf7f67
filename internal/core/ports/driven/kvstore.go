package driven

import "context"

// KVStore is the persistence boundary of the core.
// Values are opaque JSON documents; each key's read-then-write is the unit of
// atomicity callers may rely on. There are no transactions across keys.
type KVStore interface {
	// Get returns the values stored under keys.
	// Missing keys are absent from the result; that is not an error.
	Get(ctx context.Context, keys ...string) (map[string][]byte, error)

	// Set stores every entry in a single write.
	Set(ctx context.Context, entries map[string][]byte) error

	// Delete removes keys. Missing keys are ignored.
	Delete(ctx context.Context, keys ...string) error

	// Keys lists stored keys starting with prefix.
	Keys(ctx context.Context, prefix string) ([]string, error)
}
