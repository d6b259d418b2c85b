package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/birdstudy/internal/domain"
	"github.com/phrazzld/birdstudy/internal/store"
)

// SQLiteSettingsStore implements the store.SettingsStore interface
// using a SQLite database as the storage backend. Values are stored
// JSON-encoded so string and boolean settings round-trip with their types.
type SQLiteSettingsStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewSQLiteSettingsStore creates a new SQLite implementation of the SettingsStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewSQLiteSettingsStore(db store.DBTX, logger *slog.Logger) *SQLiteSettingsStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &SQLiteSettingsStore{
		db:     db,
		logger: logger.With(slog.String("component", "settings_store")),
	}
}

// Ensure SQLiteSettingsStore implements store.SettingsStore interface
var _ store.SettingsStore = (*SQLiteSettingsStore)(nil)

// Get implements store.SettingsStore.Get
// Returns store.ErrSettingNotFound if the key was never saved.
func (s *SQLiteSettingsStore) Get(ctx context.Context, key string) (any, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrSettingNotFound
		}
		return nil, fmt.Errorf("failed to get setting: %w", err)
	}

	var value any
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		return nil, fmt.Errorf("%w: corrupt setting value for %q: %v", domain.ErrInvalidFormat, key, err)
	}

	return value, nil
}

// GetAll implements store.SettingsStore.GetAll
// It returns a complete mapping: stored values where present, built-in
// defaults for every key never saved.
func (s *SQLiteSettingsStore) GetAll(ctx context.Context) (map[string]any, error) {
	settings := domain.DefaultSettings()

	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM settings`)
	if err != nil {
		return nil, fmt.Errorf("failed to query settings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var key, raw string
		if err := rows.Scan(&key, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan setting row: %w", err)
		}

		var value any
		if err := json.Unmarshal([]byte(raw), &value); err != nil {
			return nil, fmt.Errorf("%w: corrupt setting value for %q: %v", domain.ErrInvalidFormat, key, err)
		}
		settings[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate setting rows: %w", err)
	}

	return settings, nil
}

// Save implements store.SettingsStore.Save
func (s *SQLiteSettingsStore) Save(ctx context.Context, key string, value any) error {
	if key == "" {
		return domain.ErrUnknownSetting
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: unencodable setting value for %q: %v", domain.ErrInvalidFormat, key, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, string(raw))
	if err != nil {
		return fmt.Errorf("%w: %v", store.ErrWriteFailed, err)
	}

	s.logger.Debug("saved setting", "key", key)
	return nil
}

// SaveAll implements store.SettingsStore.SaveAll
// Each key is written independently, mirroring per-key get/put semantics.
func (s *SQLiteSettingsStore) SaveAll(ctx context.Context, settings map[string]any) error {
	for key, value := range settings {
		if err := s.Save(ctx, key, value); err != nil {
			return err
		}
	}
	return nil
}
