package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/birdstudy/internal/domain"
	"github.com/phrazzld/birdstudy/internal/service"
	"github.com/phrazzld/birdstudy/internal/store"
)

// stubStudyService implements service.StudyService with function fields so
// each test overrides only what it needs.
type stubStudyService struct {
	getProgress      func(ctx context.Context, birdID string) (*domain.Progress, error)
	getAllProgress   func(ctx context.Context) ([]*domain.Progress, error)
	recordStudy      func(ctx context.Context, birdID string) (*domain.Progress, error)
	recordQuizAnswer func(ctx context.Context, birdID string, correct bool) (*domain.Progress, error)
	saveNotes        func(ctx context.Context, birdID, notes string) (*domain.Progress, error)
}

var _ service.StudyService = (*stubStudyService)(nil)

func (s *stubStudyService) GetProgress(ctx context.Context, birdID string) (*domain.Progress, error) {
	return s.getProgress(ctx, birdID)
}

func (s *stubStudyService) GetAllProgress(ctx context.Context) ([]*domain.Progress, error) {
	return s.getAllProgress(ctx)
}

func (s *stubStudyService) RecordStudy(ctx context.Context, birdID string) (*domain.Progress, error) {
	return s.recordStudy(ctx, birdID)
}

func (s *stubStudyService) RecordQuizAnswer(ctx context.Context, birdID string, correct bool) (*domain.Progress, error) {
	return s.recordQuizAnswer(ctx, birdID, correct)
}

func (s *stubStudyService) SaveNotes(ctx context.Context, birdID, notes string) (*domain.Progress, error) {
	return s.saveNotes(ctx, birdID, notes)
}

// newProgressRouter mounts the handler under the real routes so chi URL
// params resolve as in production.
func newProgressRouter(svc service.StudyService) *chi.Mux {
	handler := NewProgressHandler(svc, testLogger())
	r := chi.NewRouter()
	r.Get("/progress", handler.GetAllProgress)
	r.Get("/progress/{birdID}", handler.GetProgress)
	r.Post("/progress/{birdID}/study", handler.RecordStudy)
	r.Post("/progress/{birdID}/quiz", handler.RecordQuizAnswer)
	r.Put("/progress/{birdID}/notes", handler.SaveNotes)
	return r
}

func TestGetProgressHandler(t *testing.T) {
	svc := &stubStudyService{
		getProgress: func(ctx context.Context, birdID string) (*domain.Progress, error) {
			return &domain.Progress{BirdID: birdID, TimesStudied: 3, Confidence: domain.ConfidenceMedium}, nil
		},
	}

	rec := httptest.NewRecorder()
	newProgressRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/progress/great-kiskadee", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var progress domain.Progress
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &progress))
	assert.Equal(t, "great-kiskadee", progress.BirdID)
	assert.Equal(t, 3, progress.TimesStudied)
	assert.Equal(t, domain.ConfidenceMedium, progress.Confidence)
}

func TestGetProgressHandlerStorageFailure(t *testing.T) {
	svc := &stubStudyService{
		getProgress: func(ctx context.Context, birdID string) (*domain.Progress, error) {
			return nil, service.NewStudyServiceError("get_progress", "failed to retrieve progress", store.ErrStorageUnavailable)
		},
	}

	rec := httptest.NewRecorder()
	newProgressRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/progress/great-kiskadee", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "Storage is unavailable")
}

func TestGetAllProgressHandler(t *testing.T) {
	svc := &stubStudyService{
		getAllProgress: func(ctx context.Context) ([]*domain.Progress, error) {
			return []*domain.Progress{
				{BirdID: "great-kiskadee", Confidence: domain.ConfidenceHigh},
				{BirdID: "blue-footed-booby", Confidence: domain.ConfidenceLow},
			}, nil
		},
	}

	rec := httptest.NewRecorder()
	newProgressRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/progress", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var records []domain.Progress
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
	assert.Len(t, records, 2)
}

func TestRecordStudyHandler(t *testing.T) {
	var recorded string
	svc := &stubStudyService{
		recordStudy: func(ctx context.Context, birdID string) (*domain.Progress, error) {
			recorded = birdID
			return &domain.Progress{BirdID: birdID, TimesStudied: 1, Confidence: domain.ConfidenceLow}, nil
		},
	}

	rec := httptest.NewRecorder()
	newProgressRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/progress/great-kiskadee/study", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "great-kiskadee", recorded)
}

func TestRecordQuizAnswerHandler(t *testing.T) {
	var gotCorrect bool
	svc := &stubStudyService{
		recordQuizAnswer: func(ctx context.Context, birdID string, correct bool) (*domain.Progress, error) {
			gotCorrect = correct
			return &domain.Progress{BirdID: birdID, TimesCorrectQuiz: 1, Confidence: domain.ConfidenceLow}, nil
		},
	}

	body := strings.NewReader(`{"correct": true}`)
	rec := httptest.NewRecorder()
	newProgressRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/progress/great-kiskadee/quiz", body))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, gotCorrect)
}

func TestRecordQuizAnswerHandlerRejectsBadBodies(t *testing.T) {
	svc := &stubStudyService{}
	router := newProgressRouter(svc)

	tests := []struct {
		name string
		body string
	}{
		{name: "NotJSON", body: `{not json`},
		{name: "MissingCorrect", body: `{}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/progress/great-kiskadee/quiz", strings.NewReader(tc.body))
			router.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestSaveNotesHandler(t *testing.T) {
	svc := &stubStudyService{
		saveNotes: func(ctx context.Context, birdID, notes string) (*domain.Progress, error) {
			return &domain.Progress{BirdID: birdID, Notes: notes, Confidence: domain.ConfidenceLow}, nil
		},
	}

	body := strings.NewReader(`{"notes": "seen at the estuary"}`)
	rec := httptest.NewRecorder()
	newProgressRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/progress/great-kiskadee/notes", body))

	require.Equal(t, http.StatusOK, rec.Code)

	var progress domain.Progress
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &progress))
	assert.Equal(t, "seen at the estuary", progress.Notes)
}
