package driving

import "github.com/custodia-labs/plantap/internal/core/domain"

// SettingsService reads and edits the persisted configuration.
type SettingsService interface {
	// Get returns the effective settings, defaults filled in.
	Get() domain.Settings

	// Lookup returns the value stored for key, if any.
	Lookup(key string) (any, bool)

	// Set parses and stores a value for a known key.
	Set(key, raw string) error

	// Unset removes a key so its default applies again.
	Unset(key string) error

	// Keys returns every known key, sorted.
	Keys() []string

	// Path returns the backing config file.
	Path() string
}
