package api

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/phrazzld/birdstudy/internal/api/shared"
	"github.com/phrazzld/birdstudy/internal/platform/logger"
	"github.com/phrazzld/birdstudy/internal/prefetch"
	"github.com/phrazzld/birdstudy/internal/store"
)

// DownloadRunner runs one bulk media download over the given manifest.
type DownloadRunner interface {
	Run(ctx context.Context, manifest []string, onProgress prefetch.ProgressFunc) (prefetch.Result, error)
}

// DownloadStatusResponse represents the current download state for polling
// clients.
type DownloadStatusResponse struct {
	Running         bool    `json:"running"`
	MediaDownloaded bool    `json:"mediaDownloaded"`
	Downloaded      int     `json:"downloaded"`
	Failed          int     `json:"failed"`
	Total           int     `json:"total"`
	Percent         float64 `json:"percent"`
	Status          string  `json:"status"`
}

// DownloadHandler handles bulk media download HTTP requests. A download is a
// long-running background operation: starting one returns immediately and
// clients poll the status endpoint for progress.
type DownloadHandler struct {
	runner   DownloadRunner
	manifest []string
	flags    store.FlagStore
	logger   *slog.Logger

	mu      sync.Mutex
	running bool
	last    prefetch.Update
}

// NewDownloadHandler creates a new DownloadHandler
func NewDownloadHandler(
	runner DownloadRunner,
	manifest []string,
	flags store.FlagStore,
	logger *slog.Logger,
) *DownloadHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for DownloadHandler")
	}

	return &DownloadHandler{
		runner:   runner,
		manifest: manifest,
		flags:    flags,
		logger:   logger.With(slog.String("component", "download_handler")),
	}
}

// StartDownload handles POST /downloads requests.
// At most one download runs at a time; a second start while one is in
// flight is rejected with 409.
func (h *DownloadHandler) StartDownload(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	h.mu.Lock()
	if h.running {
		h.mu.Unlock()
		shared.RespondWithError(w, r, http.StatusConflict, "A download is already running")
		return
	}
	h.running = true
	h.last = prefetch.Update{Total: len(h.manifest)}
	h.mu.Unlock()

	log.Info("starting bulk media download", slog.Int("total", len(h.manifest)))

	// The download outlives the request that started it.
	go func() {
		result, err := h.runner.Run(context.Background(), h.manifest, h.recordProgress)
		if err != nil {
			h.logger.Error("bulk media download failed",
				slog.String("error", err.Error()),
				slog.Int("downloaded", result.Downloaded),
				slog.Int("failed", result.Failed))
		}

		h.mu.Lock()
		h.running = false
		h.mu.Unlock()
	}()

	shared.RespondWithJSON(w, r, http.StatusAccepted, DownloadStatusResponse{
		Running: true,
		Total:   len(h.manifest),
	})
}

// GetStatus handles GET /downloads/status requests.
func (h *DownloadHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	running := h.running
	last := h.last
	h.mu.Unlock()

	_, mediaDownloaded := h.flags.Get(prefetch.MediaDownloadedFlag)

	shared.RespondWithJSON(w, r, http.StatusOK, DownloadStatusResponse{
		Running:         running,
		MediaDownloaded: mediaDownloaded,
		Downloaded:      last.Downloaded,
		Failed:          last.Failed,
		Total:           last.Total,
		Percent:         last.Percent,
		Status:          last.Status,
	})
}

// recordProgress is the orchestrator's progress callback. Updates are
// cumulative, so the latest one is the complete picture.
func (h *DownloadHandler) recordProgress(update prefetch.Update) {
	h.mu.Lock()
	h.last = update
	h.mu.Unlock()
}
