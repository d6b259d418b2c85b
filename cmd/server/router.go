package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/phrazzld/birdstudy/internal/api"
	apiMiddleware "github.com/phrazzld/birdstudy/internal/api/middleware"
	"github.com/phrazzld/birdstudy/internal/catalog"
)

// setupRouter creates and configures the application router with all routes
// and middleware. It accepts the application dependencies to create handlers
// and register routes. Returns the configured router.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware) // Add trace IDs for improved error handling

	// Create API handlers using the application's services
	catalogHandler := api.NewCatalogHandler(app.catalog, app.logger)
	progressHandler := api.NewProgressHandler(app.studyService, app.logger)
	settingsHandler := api.NewSettingsHandler(app.settingsService, app.logger)
	cacheHandler := api.NewCacheHandler(app.cacheManager, app.logger)
	downloadHandler := api.NewDownloadHandler(
		app.orchestrator,
		catalog.MediaManifest(app.catalog.Birds()),
		app.flagStore,
		app.logger,
	)
	assetHandler := api.NewAssetHandler(app.cacheManager, app.origin, app.logger)

	// Register routes
	r.Route("/api", func(r chi.Router) {
		// Catalog endpoints
		r.Get("/birds", catalogHandler.ListBirds)
		r.Get("/birds/{id}", catalogHandler.GetBird)
		r.Get("/birds/{id}/choices", catalogHandler.GetQuizChoices)

		// Progress endpoints
		r.Get("/progress", progressHandler.GetAllProgress)
		r.Get("/progress/{birdID}", progressHandler.GetProgress)
		r.Post("/progress/{birdID}/study", progressHandler.RecordStudy)
		r.Post("/progress/{birdID}/quiz", progressHandler.RecordQuizAnswer)
		r.Put("/progress/{birdID}/notes", progressHandler.SaveNotes)

		// Settings endpoints
		r.Get("/settings", settingsHandler.GetAllSettings)
		r.Put("/settings", settingsHandler.SaveAllSettings)
		r.Get("/settings/{key}", settingsHandler.GetSetting)
		r.Put("/settings/{key}", settingsHandler.SaveSetting)

		// Cache manager endpoints
		r.Get("/cache/status", cacheHandler.GetStatus)
		r.Post("/cache/warm", cacheHandler.WarmURL)
		r.Post("/cache/skip-waiting", cacheHandler.SkipWaiting)

		// Bulk download endpoints
		r.Post("/downloads", downloadHandler.StartDownload)
		r.Get("/downloads/status", downloadHandler.GetStatus)
	})

	// Application assets are served through the cache manager so cached
	// entries answer offline
	r.Handle("/assets/*", assetHandler)
	r.Handle("/data/*", assetHandler)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte("OK"))
		if err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
