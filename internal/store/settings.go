package store

import "context"

// SettingsStore defines the interface for per-key settings persistence.
// Keys are fixed by the application (see domain.DefaultSettings); values are
// stored independently so one key can be saved without touching the others.
type SettingsStore interface {
	// Get retrieves the stored value for a setting key.
	// Returns ErrSettingNotFound if the key was never saved.
	Get(ctx context.Context, key string) (any, error)

	// GetAll returns the complete mapping of setting keys to values,
	// falling back to the built-in default for every key never saved.
	GetAll(ctx context.Context) (map[string]any, error)

	// Save persists a single setting value, overwriting any prior value.
	Save(ctx context.Context, key string, value any) error

	// SaveAll persists every entry of the mapping, each key independently.
	SaveAll(ctx context.Context, settings map[string]any) error
}

// FlagStore defines a minimal durable flag store, deliberately separate from
// the main progress/settings store so flags survive independently of it.
type FlagStore interface {
	// Get reports the stored value for a flag and whether it was ever set.
	Get(key string) (string, bool)

	// Set durably records a flag value.
	Set(key, value string) error
}
