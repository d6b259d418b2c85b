package store

import (
	"context"

	"github.com/phrazzld/birdstudy/internal/domain"
)

// ProgressStore defines the interface for progress record persistence.
type ProgressStore interface {
	// Get retrieves the progress record for a bird.
	// Returns ErrProgressNotFound if no record has been persisted yet;
	// callers are expected to fall back to a default record in that case.
	Get(ctx context.Context, birdID string) (*domain.Progress, error)

	// GetAll retrieves every persisted progress record. Order is unspecified.
	GetAll(ctx context.Context) ([]*domain.Progress, error)

	// Save persists the complete record, overwriting any prior version for
	// the same bird ID. The write is atomic: an interrupted save never
	// leaves a partial record behind.
	// Returns validation errors from the domain Progress if data is invalid.
	Save(ctx context.Context, progress *domain.Progress) error
}
