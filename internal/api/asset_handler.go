package api

import (
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/phrazzld/birdstudy/internal/api/shared"
	"github.com/phrazzld/birdstudy/internal/platform/logger"
)

// AssetHandler serves application assets by proxying requests through the
// asset cache manager's round tripper. Once the manager is active, cached
// assets are answered without touching the network, which is what makes the
// app usable offline.
type AssetHandler struct {
	client *http.Client
	origin *url.URL
	logger *slog.Logger
}

// NewAssetHandler creates a new AssetHandler. The transport must be the
// cache manager (or any round tripper wrapping it).
func NewAssetHandler(transport http.RoundTripper, origin *url.URL, logger *slog.Logger) *AssetHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for AssetHandler")
	}

	return &AssetHandler{
		client: &http.Client{Transport: transport},
		origin: origin,
		logger: logger.With(slog.String("component", "asset_handler")),
	}
}

// ServeHTTP handles GET requests under the asset routes. The request path is
// resolved against the configured origin and fetched through the cache.
func (h *AssetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	target := *h.origin
	target.Path = r.URL.Path
	target.RawQuery = r.URL.RawQuery

	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, target.String(), nil)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid asset path")
		return
	}

	resp, err := h.client.Do(req)
	if err != nil {
		log.Warn("asset fetch failed",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadGateway, "Asset unavailable")
		return
	}
	defer func() { _ = resp.Body.Close() }()

	for key, values := range resp.Header {
		for _, value := range values {
			w.Header().Add(key, value)
		}
	}
	w.WriteHeader(resp.StatusCode)

	if _, err := io.Copy(w, resp.Body); err != nil {
		log.Debug("asset response copy interrupted",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()))
	}
}
