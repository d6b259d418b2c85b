package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/birdstudy/internal/domain"
	"github.com/phrazzld/birdstudy/internal/platform/logger"
	"github.com/phrazzld/birdstudy/internal/store"
)

// StudyServiceError is a custom error type for study service errors.
type StudyServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for StudyServiceError.
func (e *StudyServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("study service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("study service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StudyServiceError) Unwrap() error {
	return e.Err
}

// NewStudyServiceError creates a new StudyServiceError.
func NewStudyServiceError(operation, message string, err error) *StudyServiceError {
	return &StudyServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// StudyService provides progress-tracking operations for flashcard study and
// quiz sessions.
type StudyService interface {
	// GetProgress retrieves the progress record for a bird, falling back to
	// a fresh default record when none has been persisted yet.
	GetProgress(ctx context.Context, birdID string) (*domain.Progress, error)

	// GetAllProgress retrieves every persisted progress record.
	GetAllProgress(ctx context.Context) ([]*domain.Progress, error)

	// RecordStudy registers one study pass over a bird's flashcard and
	// persists the updated record.
	RecordStudy(ctx context.Context, birdID string) (*domain.Progress, error)

	// RecordQuizAnswer registers a quiz answer for a bird and persists the
	// updated record, recomputing the confidence level when enough answers
	// have accumulated.
	RecordQuizAnswer(ctx context.Context, birdID string, correct bool) (*domain.Progress, error)

	// SaveNotes replaces the free-form notes on a bird's progress record.
	SaveNotes(ctx context.Context, birdID, notes string) (*domain.Progress, error)
}

// studyServiceImpl implements the StudyService interface
type studyServiceImpl struct {
	progressStore store.ProgressStore
	logger        *slog.Logger
	now           func() time.Time
}

// NewStudyService creates a new StudyService.
// It returns an error if the progress store is nil.
func NewStudyService(progressStore store.ProgressStore, logger *slog.Logger) (StudyService, error) {
	if progressStore == nil {
		return nil, NewStudyServiceError("new", "progress store cannot be nil", domain.ErrValidation)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &studyServiceImpl{
		progressStore: progressStore,
		logger:        logger.With(slog.String("component", "study_service")),
		now:           time.Now,
	}, nil
}

// GetProgress implements StudyService.GetProgress.
func (s *studyServiceImpl) GetProgress(ctx context.Context, birdID string) (*domain.Progress, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	progress, err := s.loadOrDefault(ctx, birdID)
	if err != nil {
		log.Error("failed to retrieve progress",
			slog.String("error", err.Error()),
			slog.String("bird_id", birdID))
		return nil, NewStudyServiceError("get_progress", "failed to retrieve progress", err)
	}

	return progress, nil
}

// GetAllProgress implements StudyService.GetAllProgress.
func (s *studyServiceImpl) GetAllProgress(ctx context.Context) ([]*domain.Progress, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	records, err := s.progressStore.GetAll(ctx)
	if err != nil {
		log.Error("failed to retrieve progress records",
			slog.String("error", err.Error()))
		return nil, NewStudyServiceError("get_all_progress", "failed to retrieve progress records", err)
	}

	return records, nil
}

// RecordStudy implements StudyService.RecordStudy.
func (s *studyServiceImpl) RecordStudy(ctx context.Context, birdID string) (*domain.Progress, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	progress, err := s.loadOrDefault(ctx, birdID)
	if err != nil {
		return nil, NewStudyServiceError("record_study", "failed to load progress", err)
	}

	progress.RecordStudy(s.now())

	if err := s.progressStore.Save(ctx, progress); err != nil {
		log.Error("failed to save study progress",
			slog.String("error", err.Error()),
			slog.String("bird_id", birdID))
		return nil, NewStudyServiceError("record_study", "failed to save progress", err)
	}

	log.Debug("recorded study pass",
		slog.String("bird_id", birdID),
		slog.Int("times_studied", progress.TimesStudied))
	return progress, nil
}

// RecordQuizAnswer implements StudyService.RecordQuizAnswer.
func (s *studyServiceImpl) RecordQuizAnswer(ctx context.Context, birdID string, correct bool) (*domain.Progress, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	progress, err := s.loadOrDefault(ctx, birdID)
	if err != nil {
		return nil, NewStudyServiceError("record_quiz_answer", "failed to load progress", err)
	}

	progress.RecordQuizAnswer(correct, s.now())

	if err := s.progressStore.Save(ctx, progress); err != nil {
		log.Error("failed to save quiz progress",
			slog.String("error", err.Error()),
			slog.String("bird_id", birdID))
		return nil, NewStudyServiceError("record_quiz_answer", "failed to save progress", err)
	}

	log.Debug("recorded quiz answer",
		slog.String("bird_id", birdID),
		slog.Bool("correct", correct),
		slog.String("confidence", string(progress.Confidence)))
	return progress, nil
}

// SaveNotes implements StudyService.SaveNotes.
func (s *studyServiceImpl) SaveNotes(ctx context.Context, birdID, notes string) (*domain.Progress, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	progress, err := s.loadOrDefault(ctx, birdID)
	if err != nil {
		return nil, NewStudyServiceError("save_notes", "failed to load progress", err)
	}

	progress.Notes = notes

	if err := s.progressStore.Save(ctx, progress); err != nil {
		log.Error("failed to save notes",
			slog.String("error", err.Error()),
			slog.String("bird_id", birdID))
		return nil, NewStudyServiceError("save_notes", "failed to save progress", err)
	}

	return progress, nil
}

// loadOrDefault retrieves the stored progress record for a bird, creating a
// fresh default record when none exists. Records are created lazily: nothing
// is persisted until the first mutation is saved.
func (s *studyServiceImpl) loadOrDefault(ctx context.Context, birdID string) (*domain.Progress, error) {
	progress, err := s.progressStore.Get(ctx, birdID)
	if err == nil {
		return progress, nil
	}
	if store.IsNotFoundError(err) {
		return domain.NewProgress(birdID)
	}
	return nil, err
}
