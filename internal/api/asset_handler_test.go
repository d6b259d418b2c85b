package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/birdstudy/internal/assetcache"
)

// newActiveManager installs and activates a cache manager against a real
// origin server.
func newActiveManager(t *testing.T, coreAssets []string) (*assetcache.Manager, *httptest.Server, *url.URL) {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write([]byte("payload:" + r.URL.Path))
	}))
	t.Cleanup(server.Close)

	origin, err := url.Parse(server.URL)
	require.NoError(t, err)

	manager, err := assetcache.NewManager(assetcache.Config{
		CacheName:  "sayulita-birds",
		Version:    "v5",
		Dir:        t.TempDir(),
		Origin:     origin,
		CoreAssets: coreAssets,
	}, testLogger())
	require.NoError(t, err)
	t.Cleanup(manager.Close)

	ctx := context.Background()
	require.NoError(t, manager.Install(ctx))
	require.NoError(t, manager.Activate(ctx))

	return manager, server, origin
}

func TestAssetHandlerServesCachedAssetOffline(t *testing.T) {
	manager, server, origin := newActiveManager(t, []string{"assets/images/birds/great-kiskadee.jpg"})
	handler := NewAssetHandler(manager, origin, testLogger())

	// Simulated offline: the origin is gone, only the cache can answer.
	server.Close()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/assets/images/birds/great-kiskadee.jpg", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "payload:/assets/images/birds/great-kiskadee.jpg", rec.Body.String())
}

func TestAssetHandlerPlaceholderForMissingImageOffline(t *testing.T) {
	manager, server, origin := newActiveManager(t, nil)
	handler := NewAssetHandler(manager, origin, testLogger())

	server.Close()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/assets/images/birds/never-cached.jpg", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "Photo unavailable offline")
}

func TestAssetHandlerBadGatewayForMissingNonImageOffline(t *testing.T) {
	manager, server, origin := newActiveManager(t, nil)
	handler := NewAssetHandler(manager, origin, testLogger())

	server.Close()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/assets/audio/calls/never-cached.mp3", nil))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestCacheHandlerStatus(t *testing.T) {
	manager, _, _ := newActiveManager(t, nil)
	handler := NewCacheHandler(manager, testLogger())

	rec := httptest.NewRecorder()
	handler.GetStatus(rec, httptest.NewRequest(http.MethodGet, "/cache/status", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"state":"active"`)
	assert.Contains(t, rec.Body.String(), `"generation":"sayulita-birds-v5"`)
}

func TestCacheHandlerWarmURL(t *testing.T) {
	manager, _, origin := newActiveManager(t, nil)
	handler := NewCacheHandler(manager, testLogger())

	r := chi.NewRouter()
	r.Post("/cache/warm", handler.WarmURL)

	body := strings.NewReader(`{"url": "assets/audio/calls/great-kiskadee.mp3"}`)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/cache/warm", body))
	require.Equal(t, http.StatusAccepted, rec.Code)

	// The warm is asynchronous; poll until the entry lands.
	cachedURL := origin.String() + "/assets/audio/calls/great-kiskadee.mp3"
	require.Eventually(t, func() bool {
		generation := manager.Generation()
		if generation == nil {
			return false
		}
		_, err := generation.Match(cachedURL)
		return err == nil
	}, time.Second, 10*time.Millisecond)
}

func TestCacheHandlerWarmURLRequiresBody(t *testing.T) {
	manager, _, _ := newActiveManager(t, nil)
	handler := NewCacheHandler(manager, testLogger())

	rec := httptest.NewRecorder()
	handler.WarmURL(rec, httptest.NewRequest(http.MethodPost, "/cache/warm", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
