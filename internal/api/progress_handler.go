package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/birdstudy/internal/api/shared"
	"github.com/phrazzld/birdstudy/internal/platform/logger"
	"github.com/phrazzld/birdstudy/internal/service"
)

// QuizAnswerRequest represents the request body for recording a quiz answer.
type QuizAnswerRequest struct {
	Correct *bool `json:"correct" validate:"required"`
}

// NotesRequest represents the request body for saving study notes.
type NotesRequest struct {
	Notes string `json:"notes"`
}

// ProgressHandler handles progress-tracking HTTP requests
type ProgressHandler struct {
	studyService service.StudyService
	logger       *slog.Logger
}

// NewProgressHandler creates a new ProgressHandler
func NewProgressHandler(studyService service.StudyService, logger *slog.Logger) *ProgressHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ProgressHandler")
	}

	return &ProgressHandler{
		studyService: studyService,
		logger:       logger.With(slog.String("component", "progress_handler")),
	}
}

// GetAllProgress handles GET /progress requests.
func (h *ProgressHandler) GetAllProgress(w http.ResponseWriter, r *http.Request) {
	records, err := h.studyService.GetAllProgress(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, records)
}

// GetProgress handles GET /progress/{birdID} requests.
// Birds never studied yield a default record with zeroed counters.
func (h *ProgressHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	birdID := chi.URLParam(r, "birdID")
	if birdID == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Bird ID is required")
		return
	}

	progress, err := h.studyService.GetProgress(r.Context(), birdID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, progress)
}

// RecordStudy handles POST /progress/{birdID}/study requests.
func (h *ProgressHandler) RecordStudy(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	birdID := chi.URLParam(r, "birdID")
	if birdID == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Bird ID is required")
		return
	}

	progress, err := h.studyService.RecordStudy(r.Context(), birdID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("study pass recorded", slog.String("bird_id", birdID))
	shared.RespondWithJSON(w, r, http.StatusOK, progress)
}

// RecordQuizAnswer handles POST /progress/{birdID}/quiz requests.
func (h *ProgressHandler) RecordQuizAnswer(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	birdID := chi.URLParam(r, "birdID")
	if birdID == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Bird ID is required")
		return
	}

	var req QuizAnswerRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid quiz answer request body", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Answer correctness is required")
		return
	}

	progress, err := h.studyService.RecordQuizAnswer(r.Context(), birdID, *req.Correct)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, progress)
}

// SaveNotes handles PUT /progress/{birdID}/notes requests.
func (h *ProgressHandler) SaveNotes(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	birdID := chi.URLParam(r, "birdID")
	if birdID == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Bird ID is required")
		return
	}

	var req NotesRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid notes request body", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	progress, err := h.studyService.SaveNotes(r.Context(), birdID, req.Notes)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, progress)
}
