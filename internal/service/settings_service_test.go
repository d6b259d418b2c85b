package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/birdstudy/internal/domain"
	"github.com/phrazzld/birdstudy/internal/store"
)

func newSettingsService(t *testing.T, settingsStore *MockSettingsStore) SettingsService {
	t.Helper()

	svc, err := NewSettingsService(settingsStore, nil)
	require.NoError(t, err)
	return svc
}

func TestNewSettingsServiceRequiresStore(t *testing.T) {
	_, err := NewSettingsService(nil, nil)
	assert.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestGetSettingReturnsStoredValue(t *testing.T) {
	settingsStore := new(MockSettingsStore)
	svc := newSettingsService(t, settingsStore)

	settingsStore.On("Get", mock.Anything, domain.SettingTheme).Return("dark", nil)

	value, err := svc.GetSetting(context.Background(), domain.SettingTheme)
	require.NoError(t, err)
	assert.Equal(t, "dark", value)
}

func TestGetSettingFallsBackToDefault(t *testing.T) {
	settingsStore := new(MockSettingsStore)
	svc := newSettingsService(t, settingsStore)

	settingsStore.On("Get", mock.Anything, domain.SettingSortBy).Return(nil, store.ErrSettingNotFound)

	value, err := svc.GetSetting(context.Background(), domain.SettingSortBy)
	require.NoError(t, err)
	assert.Equal(t, "frequency", value)
}

func TestGetSettingUnknownKey(t *testing.T) {
	settingsStore := new(MockSettingsStore)
	svc := newSettingsService(t, settingsStore)

	_, err := svc.GetSetting(context.Background(), "fontSize")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnknownSetting)

	// Unknown keys never reach the store.
	settingsStore.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestGetAllSettings(t *testing.T) {
	settingsStore := new(MockSettingsStore)
	svc := newSettingsService(t, settingsStore)

	merged := map[string]any{
		domain.SettingTheme:          "dark",
		domain.SettingShowScientific: true,
		domain.SettingSortBy:         "frequency",
	}
	settingsStore.On("GetAll", mock.Anything).Return(merged, nil)

	settings, err := svc.GetAllSettings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, merged, settings)
}

func TestSaveSetting(t *testing.T) {
	settingsStore := new(MockSettingsStore)
	svc := newSettingsService(t, settingsStore)

	settingsStore.On("Save", mock.Anything, domain.SettingTheme, "dark").Return(nil)

	require.NoError(t, svc.SaveSetting(context.Background(), domain.SettingTheme, "dark"))
	settingsStore.AssertExpectations(t)
}

func TestSaveSettingRejectsInvalidValues(t *testing.T) {
	settingsStore := new(MockSettingsStore)
	svc := newSettingsService(t, settingsStore)

	tests := []struct {
		name    string
		key     string
		value   any
		wantErr error
	}{
		{name: "BadTheme", key: domain.SettingTheme, value: "sepia", wantErr: domain.ErrInvalidFormat},
		{name: "NonBoolScientific", key: domain.SettingShowScientific, value: "true", wantErr: domain.ErrInvalidFormat},
		{name: "BadSort", key: domain.SettingSortBy, value: "rarity", wantErr: domain.ErrInvalidFormat},
		{name: "UnknownKey", key: "fontSize", value: 14, wantErr: domain.ErrUnknownSetting},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := svc.SaveSetting(context.Background(), tc.key, tc.value)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}

	// Invalid values never reach the store.
	settingsStore.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
}

func TestSaveAllSettings(t *testing.T) {
	settingsStore := new(MockSettingsStore)
	svc := newSettingsService(t, settingsStore)

	settings := map[string]any{
		domain.SettingTheme:  "dark",
		domain.SettingSortBy: "random",
	}
	settingsStore.On("SaveAll", mock.Anything, settings).Return(nil)

	require.NoError(t, svc.SaveAllSettings(context.Background(), settings))
	settingsStore.AssertExpectations(t)
}

func TestSaveAllSettingsRejectsAnyInvalidEntry(t *testing.T) {
	settingsStore := new(MockSettingsStore)
	svc := newSettingsService(t, settingsStore)

	err := svc.SaveAllSettings(context.Background(), map[string]any{
		domain.SettingTheme:  "dark",
		domain.SettingSortBy: "rarity",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidFormat)

	// One bad entry keeps the whole mapping out of the store.
	settingsStore.AssertNotCalled(t, "SaveAll", mock.Anything, mock.Anything)
}

func TestSaveSettingPropagatesStoreFailure(t *testing.T) {
	settingsStore := new(MockSettingsStore)
	svc := newSettingsService(t, settingsStore)

	settingsStore.On("Save", mock.Anything, domain.SettingSortBy, "alphabetical").Return(store.ErrWriteFailed)

	err := svc.SaveSetting(context.Background(), domain.SettingSortBy, "alphabetical")
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrWriteFailed)
}
