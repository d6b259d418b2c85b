package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrStorageUnavailable is returned when the underlying storage cannot
	// be opened or initialized. This is fatal to store initialization and
	// must surface to the caller rather than silently degrading.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrNotFound is returned when a requested entity does not exist in the store.
	// This is a generic version of the entity-specific not found errors.
	ErrNotFound = errors.New("entity not found")

	// ErrWriteFailed is returned when a persist operation fails, for example
	// because the underlying transaction was rejected.
	ErrWriteFailed = errors.New("write failed")

	// Entity-specific "not found" errors

	// ErrProgressNotFound indicates that no progress record exists for the bird.
	ErrProgressNotFound = fmt.Errorf("%w: progress", ErrNotFound)

	// ErrSettingNotFound indicates that the setting key was never saved.
	ErrSettingNotFound = fmt.Errorf("%w: setting", ErrNotFound)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
// This includes the generic ErrNotFound and all entity-specific not found errors.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}
