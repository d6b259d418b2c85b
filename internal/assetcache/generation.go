package assetcache

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// Common cache errors.
var (
	// ErrCacheMiss is returned by Match when no entry is stored for the URL.
	ErrCacheMiss = errors.New("no cache entry for URL")

	// ErrCacheWriteFailed is returned when an entry cannot be persisted.
	ErrCacheWriteFailed = errors.New("cache write failed")
)

// Entry is one captured response: enough to replay it verbatim later.
type Entry struct {
	URL      string      `json:"url"`
	Status   int         `json:"status"`
	Header   http.Header `json:"header"`
	StoredAt time.Time   `json:"stored_at"`

	Body []byte `json:"-"`
}

// Response rebuilds an http.Response from the stored entry.
func (e *Entry) Response() *http.Response {
	header := make(http.Header, len(e.Header))
	for k, v := range e.Header {
		header[k] = v
	}

	return &http.Response{
		StatusCode:    e.Status,
		Status:        fmt.Sprintf("%d %s", e.Status, http.StatusText(e.Status)),
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(e.Body)),
		ContentLength: int64(len(e.Body)),
	}
}

// Generation is one versioned, named on-disk cache of captured responses,
// keyed by request URL. A generation holds at most one entry per URL;
// putting a URL again overwrites the prior entry. Generations are superseded
// wholesale: activating a new version purges every other one.
type Generation struct {
	name string
	dir  string
}

// OpenGeneration opens (creating if needed) the named generation under the
// cache root directory.
func OpenGeneration(root, name string) (*Generation, error) {
	if name == "" {
		return nil, errors.New("generation name cannot be empty")
	}

	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCacheWriteFailed, err)
	}

	return &Generation{name: name, dir: dir}, nil
}

// Name returns the generation's name.
func (g *Generation) Name() string {
	return g.name
}

// entryKey derives the on-disk filename stem for a URL.
func entryKey(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:])
}

// Put captures a response under the request URL, overwriting any prior
// entry. The body file is written before the metadata file, so a partially
// written entry is never visible to Match.
func (g *Generation) Put(url string, status int, header http.Header, body []byte) error {
	key := entryKey(url)

	meta, err := json.Marshal(Entry{
		URL:      url,
		Status:   status,
		Header:   header,
		StoredAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCacheWriteFailed, err)
	}

	bodyPath := filepath.Join(g.dir, key+".body")
	metaPath := filepath.Join(g.dir, key+".json")

	if err := writeFileAtomic(bodyPath, body); err != nil {
		return fmt.Errorf("%w: %v", ErrCacheWriteFailed, err)
	}
	if err := writeFileAtomic(metaPath, meta); err != nil {
		return fmt.Errorf("%w: %v", ErrCacheWriteFailed, err)
	}

	return nil
}

// Match returns the stored entry for the URL, or ErrCacheMiss.
func (g *Generation) Match(url string) (*Entry, error) {
	key := entryKey(url)

	meta, err := os.ReadFile(filepath.Join(g.dir, key+".json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to read cache entry: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal(meta, &entry); err != nil {
		return nil, fmt.Errorf("corrupt cache entry for %s: %w", url, err)
	}

	entry.Body, err = os.ReadFile(filepath.Join(g.dir, key+".body"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to read cache body: %w", err)
	}

	return &entry, nil
}

// Remove deletes the whole generation from disk.
func (g *Generation) Remove() error {
	return os.RemoveAll(g.dir)
}

// ListGenerations enumerates the names of every generation stored under the
// cache root directory.
func ListGenerations(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list cache generations: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

// PurgeGenerations deletes every generation under root whose name differs
// from keep, returning the names it removed. This bounds storage growth
// across version upgrades.
func PurgeGenerations(root, keep string) ([]string, error) {
	names, err := ListGenerations(root)
	if err != nil {
		return nil, err
	}

	var removed []string
	for _, name := range names {
		if name == keep {
			continue
		}
		if err := os.RemoveAll(filepath.Join(root, name)); err != nil {
			return removed, fmt.Errorf("failed to purge generation %s: %w", name, err)
		}
		removed = append(removed, name)
	}
	return removed, nil
}

// writeFileAtomic writes data to path via a temp file and rename.
func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
