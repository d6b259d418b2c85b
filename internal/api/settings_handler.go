package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/birdstudy/internal/api/shared"
	"github.com/phrazzld/birdstudy/internal/platform/logger"
	"github.com/phrazzld/birdstudy/internal/service"
)

// SettingRequest represents the request body for saving a setting value.
type SettingRequest struct {
	Value any `json:"value"`
}

// SettingResponse represents a single setting key and its effective value.
type SettingResponse struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// SettingsHandler handles user preference HTTP requests
type SettingsHandler struct {
	settingsService service.SettingsService
	logger          *slog.Logger
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(settingsService service.SettingsService, logger *slog.Logger) *SettingsHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for SettingsHandler")
	}

	return &SettingsHandler{
		settingsService: settingsService,
		logger:          logger.With(slog.String("component", "settings_handler")),
	}
}

// GetAllSettings handles GET /settings requests.
// The response always contains every known key, with built-in defaults for
// keys never saved.
func (h *SettingsHandler) GetAllSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settingsService.GetAllSettings(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, settings)
}

// GetSetting handles GET /settings/{key} requests.
func (h *SettingsHandler) GetSetting(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	value, err := h.settingsService.GetSetting(r.Context(), key)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, SettingResponse{Key: key, Value: value})
}

// SaveSetting handles PUT /settings/{key} requests.
func (h *SettingsHandler) SaveSetting(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	key := chi.URLParam(r, "key")

	var req SettingRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid setting request body",
			slog.String("error", err.Error()),
			slog.String("key", key))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.settingsService.SaveSetting(r.Context(), key, req.Value); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("setting saved", slog.String("key", key))
	shared.RespondWithJSON(w, r, http.StatusOK, SettingResponse{Key: key, Value: req.Value})
}

// SaveAllSettings handles PUT /settings requests.
// The body is a flat mapping of setting keys to values; nothing is written
// when any entry fails validation.
func (h *SettingsHandler) SaveAllSettings(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var settings map[string]any
	if err := shared.DecodeJSON(r, &settings); err != nil {
		log.Warn("invalid settings request body", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.settingsService.SaveAllSettings(r.Context(), settings); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("settings saved", slog.Int("count", len(settings)))
	shared.RespondWithJSON(w, r, http.StatusOK, settings)
}
