package assetcache

import (
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerationPutAndMatch(t *testing.T) {
	root := t.TempDir()
	generation, err := OpenGeneration(root, "sayulita-birds-v5")
	require.NoError(t, err)

	header := make(http.Header)
	header.Set("Content-Type", "image/jpeg")
	url := "http://origin.local/assets/images/birds/great-kiskadee.jpg"

	require.NoError(t, generation.Put(url, http.StatusOK, header, []byte("jpeg-bytes")))

	entry, err := generation.Match(url)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, entry.Status)
	assert.Equal(t, "image/jpeg", entry.Header.Get("Content-Type"))
	assert.Equal(t, []byte("jpeg-bytes"), entry.Body)
	assert.False(t, entry.StoredAt.IsZero())

	resp := entry.Response()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/jpeg", resp.Header.Get("Content-Type"))
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg-bytes"), body)
}

func TestGenerationMatchMiss(t *testing.T) {
	generation, err := OpenGeneration(t.TempDir(), "sayulita-birds-v5")
	require.NoError(t, err)

	_, err = generation.Match("http://origin.local/missing.jpg")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestGenerationPutOverwrites(t *testing.T) {
	generation, err := OpenGeneration(t.TempDir(), "sayulita-birds-v5")
	require.NoError(t, err)

	url := "http://origin.local/data/birds.json"
	require.NoError(t, generation.Put(url, http.StatusOK, nil, []byte("old")))
	require.NoError(t, generation.Put(url, http.StatusOK, nil, []byte("new")))

	// At most one entry per URL: the second put replaces the first.
	entry, err := generation.Match(url)
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), entry.Body)
}

func TestListAndPurgeGenerations(t *testing.T) {
	root := t.TempDir()

	_, err := OpenGeneration(root, "sayulita-birds-v4")
	require.NoError(t, err)
	_, err = OpenGeneration(root, "sayulita-birds-v5")
	require.NoError(t, err)

	names, err := ListGenerations(root)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"sayulita-birds-v4", "sayulita-birds-v5"}, names)

	removed, err := PurgeGenerations(root, "sayulita-birds-v5")
	require.NoError(t, err)
	assert.Equal(t, []string{"sayulita-birds-v4"}, removed)

	// Only the kept generation remains after the purge.
	names, err = ListGenerations(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"sayulita-birds-v5"}, names)
}

func TestListGenerationsMissingRoot(t *testing.T) {
	names, err := ListGenerations(t.TempDir() + "/never-created")
	require.NoError(t, err)
	assert.Empty(t, names)
}
