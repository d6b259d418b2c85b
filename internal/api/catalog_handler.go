// Package api provides HTTP handlers for the API.
package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/birdstudy/internal/api/shared"
	"github.com/phrazzld/birdstudy/internal/catalog"
	"github.com/phrazzld/birdstudy/internal/platform/logger"
)

// BirdResponse represents one catalog entry with its derived asset paths and
// external reference links.
type BirdResponse struct {
	catalog.Bird
	ImagePaths []string      `json:"imagePaths"`
	AudioPath  string        `json:"audioPath"`
	References ReferenceURLs `json:"references"`
}

// ReferenceURLs are external lookup links for a bird.
type ReferenceURLs struct {
	Wikimedia     string `json:"wikimedia"`
	XenoCanto     string `json:"xenoCanto"`
	EBird         string `json:"ebird"`
	AllAboutBirds string `json:"allAboutBirds"`
}

// CatalogHandler handles bird catalog HTTP requests
type CatalogHandler struct {
	catalog *catalog.Catalog
	logger  *slog.Logger
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(c *catalog.Catalog, logger *slog.Logger) *CatalogHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for CatalogHandler")
	}

	return &CatalogHandler{
		catalog: c,
		logger:  logger.With(slog.String("component", "catalog_handler")),
	}
}

// ListBirds handles GET /birds requests.
// The optional sort query parameter orders the result by frequency,
// alphabetically, or randomly.
func (h *CatalogHandler) ListBirds(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	sortBy := r.URL.Query().Get("sort")
	birds := h.catalog.Sorted(sortBy)

	response := make([]BirdResponse, 0, len(birds))
	for _, bird := range birds {
		response = append(response, birdToResponse(bird))
	}

	log.Debug("listing birds", slog.Int("count", len(response)), slog.String("sort", sortBy))
	shared.RespondWithJSON(w, r, http.StatusOK, response)
}

// GetBird handles GET /birds/{id} requests.
func (h *CatalogHandler) GetBird(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	birdID := chi.URLParam(r, "id")
	bird, ok := h.catalog.Get(birdID)
	if !ok {
		log.Debug("bird not found", slog.String("bird_id", birdID))
		shared.RespondWithError(w, r, http.StatusNotFound, "Bird not found")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, birdToResponse(bird))
}

// GetQuizChoices handles GET /birds/{id}/choices requests.
// It returns random distractor birds for building a quiz question about the
// given bird. The count query parameter caps the number of distractors.
func (h *CatalogHandler) GetQuizChoices(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	birdID := chi.URLParam(r, "id")
	if _, ok := h.catalog.Get(birdID); !ok {
		shared.RespondWithError(w, r, http.StatusNotFound, "Bird not found")
		return
	}

	count := 3
	if raw := r.URL.Query().Get("count"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid choice count")
			return
		}
		count = parsed
	}

	choices := h.catalog.RandomBirds(count, birdID)
	response := make([]BirdResponse, 0, len(choices))
	for _, bird := range choices {
		response = append(response, birdToResponse(bird))
	}

	log.Debug("built quiz choices",
		slog.String("bird_id", birdID),
		slog.Int("count", len(response)))
	shared.RespondWithJSON(w, r, http.StatusOK, response)
}

// birdToResponse transforms a catalog entry into its response representation.
func birdToResponse(bird catalog.Bird) BirdResponse {
	return BirdResponse{
		Bird:       bird,
		ImagePaths: catalog.ImagePaths(bird),
		AudioPath:  catalog.AudioPath(bird),
		References: ReferenceURLs{
			Wikimedia:     catalog.WikimediaSearchURL(bird),
			XenoCanto:     catalog.XenoCantoURL(bird),
			EBird:         catalog.EBirdURL(bird),
			AllAboutBirds: catalog.AllAboutBirdsURL(bird),
		},
	}
}
