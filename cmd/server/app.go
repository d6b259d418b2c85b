package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/phrazzld/birdstudy/internal/assetcache"
	"github.com/phrazzld/birdstudy/internal/catalog"
	"github.com/phrazzld/birdstudy/internal/config"
	"github.com/phrazzld/birdstudy/internal/domain"
	"github.com/phrazzld/birdstudy/internal/platform/flagfile"
	"github.com/phrazzld/birdstudy/internal/platform/sqlite"
	"github.com/phrazzld/birdstudy/internal/prefetch"
	"github.com/phrazzld/birdstudy/internal/service"
	"github.com/phrazzld/birdstudy/internal/store"
)

// coreAssets is the fixed manifest of application files cached during the
// install step. User media is cached on demand or through a bulk download.
var coreAssets = []string{
	"index.html",
	"styles.css",
	"app.js",
	"data/birds.json",
}

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	// Configuration
	config *config.Config

	// Core services
	logger *slog.Logger
	db     *sql.DB
	origin *url.URL

	// Stores (using interfaces for proper abstraction)
	progressStore store.ProgressStore
	settingsStore store.SettingsStore
	flagStore     store.FlagStore

	// Static reference data
	catalog *catalog.Catalog

	// Offline machinery
	cacheManager *assetcache.Manager
	orchestrator *prefetch.Orchestrator

	// Service interfaces
	studyService    service.StudyService
	settingsService service.SettingsService
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts core dependencies like configuration, logger, and
// database connection that must be established before application
// initialization.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	origin, err := url.Parse(cfg.Cache.Origin)
	if err != nil {
		return nil, fmt.Errorf("invalid cache origin: %w", err)
	}
	app.origin = origin

	// Initialize stores
	app.progressStore = sqlite.NewSQLiteProgressStore(db, logger)
	app.settingsStore = sqlite.NewSQLiteSettingsStore(db, logger)

	app.flagStore, err = flagfile.Open(cfg.Storage.FlagPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open flag store: %w", err)
	}

	// Load the static bird catalog and order it by the saved sort setting
	app.catalog, err = catalog.Load(cfg.Storage.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	logger.Info("Bird catalog loaded",
		"path", cfg.Storage.CatalogPath,
		"birds", app.catalog.Len())

	// Initialize the asset cache manager and walk it through its lifecycle:
	// install the current generation, then activate it, retiring any older
	// generations.
	app.cacheManager, err = assetcache.NewManager(assetcache.Config{
		CacheName:  cfg.Cache.Name,
		Version:    cfg.Cache.Version,
		Dir:        cfg.Cache.Dir,
		Origin:     origin,
		CoreAssets: coreAssets,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache manager: %w", err)
	}

	if err := app.cacheManager.Install(ctx); err != nil {
		// A failed install is not fatal: the app still works online, and a
		// later install attempt can succeed.
		logger.Warn("Cache install failed, continuing without offline cache",
			"error", err)
	} else if err := app.cacheManager.Activate(ctx); err != nil {
		return nil, fmt.Errorf("failed to activate cache: %w", err)
	}

	// Initialize the bulk download orchestrator. It writes into the active
	// cache generation; with no generation available it degrades to warming
	// the network cache only.
	var cacheWriter prefetch.CacheWriter
	if generation := app.cacheManager.Generation(); generation != nil {
		cacheWriter = generation
	}

	app.orchestrator, err = prefetch.New(prefetch.Config{
		Origin:    origin,
		Client:    &http.Client{Transport: app.cacheManager},
		Cache:     cacheWriter,
		Flags:     app.flagStore,
		BatchSize: cfg.Download.BatchSize,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create download orchestrator: %w", err)
	}

	// Initialize services
	app.studyService, err = service.NewStudyService(app.progressStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create study service: %w", err)
	}

	app.settingsService, err = service.NewSettingsService(app.settingsStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create settings service: %w", err)
	}

	if sortBy, err := app.settingsService.GetSetting(ctx, domain.SettingSortBy); err == nil {
		if method, ok := sortBy.(string); ok {
			app.catalog.SortBy(method)
		}
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	// Stop the cache manager's command loop and settle pending writes
	if app.cacheManager != nil {
		app.cacheManager.Close()
	}

	// Close database connection
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
