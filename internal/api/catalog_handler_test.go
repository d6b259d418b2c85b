package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/birdstudy/internal/catalog"
)

const testCatalogJSON = `{
	"birds": [
		{
			"id": "great-kiskadee",
			"commonName": "Great Kiskadee",
			"scientificName": "Pitangus sulphuratus",
			"frequency": 95,
			"photoCount": 2
		},
		{
			"id": "blue-footed-booby",
			"commonName": "Blue-footed Booby",
			"scientificName": "Sula nebouxii",
			"frequency": 40
		},
		{
			"id": "cinnamon-hummingbird",
			"commonName": "Cinnamon Hummingbird",
			"scientificName": "Amazilia rutila",
			"frequency": 80
		}
	]
}`

func newCatalogRouter(t *testing.T) *chi.Mux {
	t.Helper()

	c, err := catalog.Parse([]byte(testCatalogJSON))
	require.NoError(t, err)

	handler := NewCatalogHandler(c, testLogger())
	r := chi.NewRouter()
	r.Get("/birds", handler.ListBirds)
	r.Get("/birds/{id}", handler.GetBird)
	r.Get("/birds/{id}/choices", handler.GetQuizChoices)
	return r
}

func TestListBirdsHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	newCatalogRouter(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/birds?sort=frequency", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var birds []BirdResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &birds))
	require.Len(t, birds, 3)
	assert.Equal(t, "great-kiskadee", birds[0].ID, "most frequent bird sorts first")
	assert.Equal(t, "blue-footed-booby", birds[2].ID)
}

func TestListBirdsHandlerAlphabetical(t *testing.T) {
	rec := httptest.NewRecorder()
	newCatalogRouter(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/birds?sort=alphabetical", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var birds []BirdResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &birds))
	assert.Equal(t, "Blue-footed Booby", birds[0].CommonName)
}

func TestGetBirdHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	newCatalogRouter(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/birds/great-kiskadee", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var bird BirdResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &bird))
	assert.Equal(t, "Great Kiskadee", bird.CommonName)
	assert.Equal(t, []string{
		"assets/images/birds/great-kiskadee.jpg",
		"assets/images/birds/great-kiskadee-2.jpg",
	}, bird.ImagePaths)
	assert.Equal(t, "assets/audio/calls/great-kiskadee.mp3", bird.AudioPath)
	assert.Contains(t, bird.References.XenoCanto, "Pitangus+sulphuratus")
}

func TestGetBirdHandlerNotFound(t *testing.T) {
	rec := httptest.NewRecorder()
	newCatalogRouter(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/birds/roseate-spoonbill", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetQuizChoicesHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	newCatalogRouter(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/birds/great-kiskadee/choices?count=2", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var choices []BirdResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &choices))
	require.Len(t, choices, 2)
	for _, choice := range choices {
		assert.NotEqual(t, "great-kiskadee", choice.ID, "the quizzed bird is never a distractor")
	}
}

func TestGetQuizChoicesHandlerRejectsBadCount(t *testing.T) {
	rec := httptest.NewRecorder()
	newCatalogRouter(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/birds/great-kiskadee/choices?count=zero", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
