// Package logger_test contains tests for the logger package
package logger_test

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/birdstudy/internal/config"
	"github.com/phrazzld/birdstudy/internal/platform/logger"
)

// TestSetupLogLevels verifies that each configured level produces a logger
// that honors exactly that level.
func TestSetupLogLevels(t *testing.T) {
	testCases := []struct {
		configured string
		enabled    slog.Level
		disabled   slog.Level
	}{
		{"debug", slog.LevelDebug, slog.LevelDebug - 4},
		{"info", slog.LevelInfo, slog.LevelDebug},
		{"warn", slog.LevelWarn, slog.LevelInfo},
		{"error", slog.LevelError, slog.LevelWarn},
		// Invalid levels fall back to info rather than failing setup.
		{"verbose", slog.LevelInfo, slog.LevelDebug},
	}

	for _, tc := range testCases {
		t.Run(tc.configured, func(t *testing.T) {
			log, err := logger.Setup(config.ServerConfig{Port: 8080, LogLevel: tc.configured})

			require.NoError(t, err)
			require.NotNil(t, log, "Setup should return the configured logger")
			assert.True(t, log.Enabled(nil, tc.enabled),
				"level %v should be enabled for configured level %q", tc.enabled, tc.configured)
			assert.False(t, log.Enabled(nil, tc.disabled),
				"level %v should be disabled for configured level %q", tc.disabled, tc.configured)
		})
	}
}

// TestSetupSetsDefaultLogger verifies the returned logger is installed as the
// process-wide default.
func TestSetupSetsDefaultLogger(t *testing.T) {
	log, err := logger.Setup(config.ServerConfig{Port: 8080, LogLevel: "warn"})

	require.NoError(t, err)
	assert.Equal(t, log, slog.Default(), "Setup should install the logger as slog default")
}
