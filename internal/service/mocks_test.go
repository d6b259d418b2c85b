package service

import (
	"context"

	"github.com/phrazzld/birdstudy/internal/domain"
	"github.com/stretchr/testify/mock"
)

// MockProgressStore mocks the store.ProgressStore interface
type MockProgressStore struct {
	mock.Mock
}

func (m *MockProgressStore) Get(ctx context.Context, birdID string) (*domain.Progress, error) {
	args := m.Called(ctx, birdID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Progress), args.Error(1)
}

func (m *MockProgressStore) GetAll(ctx context.Context) ([]*domain.Progress, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Progress), args.Error(1)
}

func (m *MockProgressStore) Save(ctx context.Context, progress *domain.Progress) error {
	args := m.Called(ctx, progress)
	return args.Error(0)
}

// MockSettingsStore mocks the store.SettingsStore interface
type MockSettingsStore struct {
	mock.Mock
}

func (m *MockSettingsStore) Get(ctx context.Context, key string) (any, error) {
	args := m.Called(ctx, key)
	return args.Get(0), args.Error(1)
}

func (m *MockSettingsStore) GetAll(ctx context.Context) (map[string]any, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]any), args.Error(1)
}

func (m *MockSettingsStore) Save(ctx context.Context, key string, value any) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockSettingsStore) SaveAll(ctx context.Context, settings map[string]any) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}
