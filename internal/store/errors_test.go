package store

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsNotFoundError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: false,
		},
		{
			name:     "generic error",
			err:      errors.New("some error"),
			expected: false,
		},
		{
			name:     "wrapped generic error",
			err:      fmt.Errorf("failed to do something: %w", errors.New("some error")),
			expected: false,
		},
		{
			name:     "ErrNotFound",
			err:      ErrNotFound,
			expected: true,
		},
		{
			name:     "wrapped ErrNotFound",
			err:      fmt.Errorf("failed to do something: %w", ErrNotFound),
			expected: true,
		},
		{
			name:     "ErrProgressNotFound",
			err:      ErrProgressNotFound,
			expected: true,
		},
		{
			name:     "wrapped ErrProgressNotFound",
			err:      fmt.Errorf("failed to load progress: %w", ErrProgressNotFound),
			expected: true,
		},
		{
			name:     "ErrSettingNotFound",
			err:      ErrSettingNotFound,
			expected: true,
		},
		{
			name:     "wrapped ErrSettingNotFound",
			err:      fmt.Errorf("failed to load setting: %w", ErrSettingNotFound),
			expected: true,
		},
		{
			name:     "ErrStorageUnavailable",
			err:      ErrStorageUnavailable,
			expected: false,
		},
		{
			name:     "ErrWriteFailed",
			err:      ErrWriteFailed,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNotFoundError(tt.err); got != tt.expected {
				t.Errorf("IsNotFoundError() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestEntityErrorsUnwrapToNotFound(t *testing.T) {
	// Entity-specific errors must keep matching the generic sentinel so
	// callers can switch on either granularity.
	for _, err := range []error{ErrProgressNotFound, ErrSettingNotFound} {
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("%v does not unwrap to ErrNotFound", err)
		}
	}
}
