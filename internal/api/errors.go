package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/phrazzld/birdstudy/internal/catalog"
	"github.com/phrazzld/birdstudy/internal/domain"
	"github.com/phrazzld/birdstudy/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, catalog.ErrMissingID):
		return http.StatusNotFound

	// Bad request errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidFormat),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrUnknownSetting),
		errors.Is(err, domain.ErrEmptyBirdID):
		return http.StatusBadRequest

	// Storage unavailable: the local database could not be opened or read
	case errors.Is(err, store.ErrStorageUnavailable):
		return http.StatusServiceUnavailable

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, store.ErrProgressNotFound):
		return "Progress not found"

	case errors.Is(err, store.ErrSettingNotFound):
		return "Setting not found"

	case errors.Is(err, catalog.ErrMissingID):
		return "Bird not found"

	case errors.Is(err, domain.ErrUnknownSetting):
		return "Unknown setting key"

	case errors.Is(err, domain.ErrEmptyBirdID):
		return "Bird ID is required"

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidFormat),
		errors.Is(err, domain.ErrInvalidID):
		return "Invalid request data"

	case errors.Is(err, store.ErrStorageUnavailable):
		return "Storage is unavailable"

	default:
		if strings.Contains(err.Error(), "download") {
			return "Failed to download media"
		}
		return "An unexpected error occurred"
	}
}
