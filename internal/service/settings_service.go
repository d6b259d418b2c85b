package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/birdstudy/internal/domain"
	"github.com/phrazzld/birdstudy/internal/platform/logger"
	"github.com/phrazzld/birdstudy/internal/store"
)

// SettingsServiceError is a custom error type for settings service errors.
type SettingsServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for SettingsServiceError.
func (e *SettingsServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("settings service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("settings service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *SettingsServiceError) Unwrap() error {
	return e.Err
}

// NewSettingsServiceError creates a new SettingsServiceError.
func NewSettingsServiceError(operation, message string, err error) *SettingsServiceError {
	return &SettingsServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// SettingsService provides user preference operations. Every read falls back
// to built-in per-key defaults, so callers always receive a complete value.
type SettingsService interface {
	// GetSetting retrieves one setting value, falling back to its built-in
	// default when never saved. Returns domain.ErrUnknownSetting for keys
	// the application does not define.
	GetSetting(ctx context.Context, key string) (any, error)

	// GetAllSettings retrieves the complete settings mapping with defaults
	// applied for keys never saved.
	GetAllSettings(ctx context.Context) (map[string]any, error)

	// SaveSetting validates and persists a single setting value.
	SaveSetting(ctx context.Context, key string, value any) error

	// SaveAllSettings validates and persists every entry of the mapping.
	// Nothing is written when any entry fails validation.
	SaveAllSettings(ctx context.Context, settings map[string]any) error
}

// settingsServiceImpl implements the SettingsService interface
type settingsServiceImpl struct {
	settingsStore store.SettingsStore
	logger        *slog.Logger
}

// NewSettingsService creates a new SettingsService.
// It returns an error if the settings store is nil.
func NewSettingsService(settingsStore store.SettingsStore, logger *slog.Logger) (SettingsService, error) {
	if settingsStore == nil {
		return nil, NewSettingsServiceError("new", "settings store cannot be nil", domain.ErrValidation)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &settingsServiceImpl{
		settingsStore: settingsStore,
		logger:        logger.With(slog.String("component", "settings_service")),
	}, nil
}

// GetSetting implements SettingsService.GetSetting.
func (s *settingsServiceImpl) GetSetting(ctx context.Context, key string) (any, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	fallback, known := domain.DefaultSetting(key)
	if !known {
		return nil, NewSettingsServiceError("get_setting", "unknown setting key", domain.ErrUnknownSetting)
	}

	value, err := s.settingsStore.Get(ctx, key)
	if err != nil {
		if store.IsNotFoundError(err) {
			return fallback, nil
		}
		log.Error("failed to retrieve setting",
			slog.String("error", err.Error()),
			slog.String("key", key))
		return nil, NewSettingsServiceError("get_setting", "failed to retrieve setting", err)
	}

	return value, nil
}

// GetAllSettings implements SettingsService.GetAllSettings.
func (s *settingsServiceImpl) GetAllSettings(ctx context.Context) (map[string]any, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	settings, err := s.settingsStore.GetAll(ctx)
	if err != nil {
		log.Error("failed to retrieve settings",
			slog.String("error", err.Error()))
		return nil, NewSettingsServiceError("get_all_settings", "failed to retrieve settings", err)
	}

	return settings, nil
}

// SaveSetting implements SettingsService.SaveSetting.
func (s *settingsServiceImpl) SaveSetting(ctx context.Context, key string, value any) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := domain.ValidateSetting(key, value); err != nil {
		if errors.Is(err, domain.ErrUnknownSetting) {
			return NewSettingsServiceError("save_setting", "unknown setting key", err)
		}
		return NewSettingsServiceError("save_setting", "invalid setting value", err)
	}

	if err := s.settingsStore.Save(ctx, key, value); err != nil {
		log.Error("failed to save setting",
			slog.String("error", err.Error()),
			slog.String("key", key))
		return NewSettingsServiceError("save_setting", "failed to save setting", err)
	}

	log.Debug("saved setting", slog.String("key", key))
	return nil
}

// SaveAllSettings implements SettingsService.SaveAllSettings.
func (s *settingsServiceImpl) SaveAllSettings(ctx context.Context, settings map[string]any) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	for key, value := range settings {
		if err := domain.ValidateSetting(key, value); err != nil {
			if errors.Is(err, domain.ErrUnknownSetting) {
				return NewSettingsServiceError("save_all_settings", "unknown setting key", err)
			}
			return NewSettingsServiceError("save_all_settings", "invalid setting value", err)
		}
	}

	if err := s.settingsStore.SaveAll(ctx, settings); err != nil {
		log.Error("failed to save settings",
			slog.String("error", err.Error()))
		return NewSettingsServiceError("save_all_settings", "failed to save settings", err)
	}

	log.Debug("saved settings", slog.Int("count", len(settings)))
	return nil
}
