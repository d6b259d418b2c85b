package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/birdstudy/internal/api/shared"
	"github.com/phrazzld/birdstudy/internal/assetcache"
	"github.com/phrazzld/birdstudy/internal/platform/logger"
)

// WarmURLRequest represents the request body for warming a single URL into
// the cache.
type WarmURLRequest struct {
	URL string `json:"url" validate:"required"`
}

// CacheStatusResponse represents the cache manager's lifecycle position.
type CacheStatusResponse struct {
	State      string `json:"state"`
	Generation string `json:"generation"`
}

// CacheHandler exposes the asset cache manager's state and command channel
// over HTTP.
type CacheHandler struct {
	manager *assetcache.Manager
	logger  *slog.Logger
}

// NewCacheHandler creates a new CacheHandler
func NewCacheHandler(manager *assetcache.Manager, logger *slog.Logger) *CacheHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for CacheHandler")
	}

	return &CacheHandler{
		manager: manager,
		logger:  logger.With(slog.String("component", "cache_handler")),
	}
}

// GetStatus handles GET /cache/status requests.
func (h *CacheHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, CacheStatusResponse{
		State:      string(h.manager.State()),
		Generation: h.manager.GenerationName(),
	})
}

// WarmURL handles POST /cache/warm requests.
// The command is fire-and-forget: delivery is acknowledged, the fetch
// outcome is not reported back.
func (h *CacheHandler) WarmURL(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req WarmURLRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "URL is required")
		return
	}

	h.manager.Send(assetcache.Command{Type: assetcache.CommandCacheURL, URL: req.URL})

	log.Debug("cache warm requested", slog.String("url", req.URL))
	w.WriteHeader(http.StatusAccepted)
}

// SkipWaiting handles POST /cache/skip-waiting requests.
// A manager stuck in the waiting state activates on the next command loop
// pass; in any other state the command is ignored.
func (h *CacheHandler) SkipWaiting(w http.ResponseWriter, r *http.Request) {
	h.manager.Send(assetcache.Command{Type: assetcache.CommandSkipWaiting})
	w.WriteHeader(http.StatusAccepted)
}
