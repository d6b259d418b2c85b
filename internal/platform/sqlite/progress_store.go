package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/birdstudy/internal/domain"
	"github.com/phrazzld/birdstudy/internal/store"
)

// SQLiteProgressStore implements the store.ProgressStore interface
// using a SQLite database as the storage backend.
type SQLiteProgressStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewSQLiteProgressStore creates a new SQLite implementation of the ProgressStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewSQLiteProgressStore(db store.DBTX, logger *slog.Logger) *SQLiteProgressStore {
	// Validate inputs
	if db == nil {
		panic("db cannot be nil")
	}

	// Use provided logger or create default
	if logger == nil {
		logger = slog.Default()
	}

	return &SQLiteProgressStore{
		db:     db,
		logger: logger.With(slog.String("component", "progress_store")),
	}
}

// Ensure SQLiteProgressStore implements store.ProgressStore interface
var _ store.ProgressStore = (*SQLiteProgressStore)(nil)

// Get implements store.ProgressStore.Get
// It retrieves the progress record for a bird by its ID.
// Returns store.ErrProgressNotFound if no record has been persisted.
func (s *SQLiteProgressStore) Get(ctx context.Context, birdID string) (*domain.Progress, error) {
	if birdID == "" {
		return nil, domain.ErrEmptyBirdID
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT bird_id, times_studied, times_correct_quiz, times_incorrect_quiz,
		       last_studied, confidence_level, notes
		FROM progress
		WHERE bird_id = ?`, birdID)

	progress, err := scanProgress(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrProgressNotFound
		}
		return nil, fmt.Errorf("failed to get progress: %w", err)
	}

	return progress, nil
}

// GetAll implements store.ProgressStore.GetAll
// It retrieves every persisted progress record in unspecified order.
func (s *SQLiteProgressStore) GetAll(ctx context.Context) ([]*domain.Progress, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT bird_id, times_studied, times_correct_quiz, times_incorrect_quiz,
		       last_studied, confidence_level, notes
		FROM progress`)
	if err != nil {
		return nil, fmt.Errorf("failed to query progress: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []*domain.Progress
	for rows.Next() {
		progress, err := scanProgress(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan progress row: %w", err)
		}
		records = append(records, progress)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate progress rows: %w", err)
	}

	return records, nil
}

// Save implements store.ProgressStore.Save
// It upserts the complete record in a single statement, so an interrupted
// save never leaves a partial record behind.
func (s *SQLiteProgressStore) Save(ctx context.Context, progress *domain.Progress) error {
	if progress == nil {
		return domain.ErrValidation
	}
	if err := progress.Validate(); err != nil {
		return err
	}

	var lastStudied sql.NullString
	if progress.LastStudied != nil {
		lastStudied = sql.NullString{
			String: progress.LastStudied.UTC().Format(time.RFC3339Nano),
			Valid:  true,
		}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO progress (bird_id, times_studied, times_correct_quiz,
		                      times_incorrect_quiz, last_studied, confidence_level, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(bird_id) DO UPDATE SET
			times_studied = excluded.times_studied,
			times_correct_quiz = excluded.times_correct_quiz,
			times_incorrect_quiz = excluded.times_incorrect_quiz,
			last_studied = excluded.last_studied,
			confidence_level = excluded.confidence_level,
			notes = excluded.notes`,
		progress.BirdID,
		progress.TimesStudied,
		progress.TimesCorrectQuiz,
		progress.TimesIncorrectQuiz,
		lastStudied,
		string(progress.Confidence),
		progress.Notes,
	)
	if err != nil {
		return fmt.Errorf("%w: %v", store.ErrWriteFailed, err)
	}

	s.logger.Debug("saved progress record",
		"bird_id", progress.BirdID,
		"times_studied", progress.TimesStudied)
	return nil
}

// scanProgress builds a domain.Progress from a row scan function, shared by
// Get and GetAll.
func scanProgress(scan func(dest ...any) error) (*domain.Progress, error) {
	var (
		progress    domain.Progress
		lastStudied sql.NullString
		confidence  string
	)

	err := scan(
		&progress.BirdID,
		&progress.TimesStudied,
		&progress.TimesCorrectQuiz,
		&progress.TimesIncorrectQuiz,
		&lastStudied,
		&confidence,
		&progress.Notes,
	)
	if err != nil {
		return nil, err
	}

	progress.Confidence = domain.ConfidenceLevel(confidence)
	if lastStudied.Valid {
		t, err := time.Parse(time.RFC3339Nano, lastStudied.String)
		if err != nil {
			return nil, fmt.Errorf("invalid last_studied timestamp: %w", err)
		}
		progress.LastStudied = &t
	}

	return &progress, nil
}
