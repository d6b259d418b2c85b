// Package prefetch drives the one-time, user-initiated download of every
// media asset so the app works fully offline. Assets are fetched in small
// fixed-size batches: members of a batch run concurrently, batches run
// strictly one after another, and individual failures are counted but never
// abort the run.
package prefetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"

	"github.com/phrazzld/birdstudy/internal/store"
)

// MediaDownloadedFlag is the flag-store key persisted after a download run
// so future launches know a download was already attempted without probing
// the cache.
const MediaDownloadedFlag = "mediaDownloaded"

// DefaultBatchSize bounds concurrent in-flight requests per batch.
const DefaultBatchSize = 3

// CacheWriter persists a captured response. *assetcache.Generation satisfies
// this. A nil writer degrades the run to best-effort warming: bodies are
// consumed but nothing durable is stored.
type CacheWriter interface {
	Put(url string, status int, header http.Header, body []byte) error
}

// Update is a cumulative progress report emitted after each batch settles.
type Update struct {
	Downloaded int
	Failed     int
	Total      int
	Percent    float64
	Status     string
}

// Result summarizes a completed run.
type Result struct {
	Downloaded int
	Failed     int
	Total      int
}

// ProgressFunc receives per-batch progress updates.
type ProgressFunc func(Update)

// Config holds the orchestrator's constructor-injected dependencies.
type Config struct {
	// Origin is the base URL asset paths are resolved against.
	Origin *url.URL

	// Client performs the fetches. Defaults to http.DefaultClient.
	Client *http.Client

	// Cache receives successful responses. May be nil (warm-only mode).
	Cache CacheWriter

	// Flags records the completion marker. Required.
	Flags store.FlagStore

	// BatchSize bounds concurrency. Defaults to DefaultBatchSize.
	BatchSize int
}

// Orchestrator runs bulk media downloads.
type Orchestrator struct {
	cfg    Config
	logger *slog.Logger
}

// New creates an orchestrator.
func New(cfg Config, logger *slog.Logger) (*Orchestrator, error) {
	if cfg.Origin == nil {
		return nil, errors.New("origin is required")
	}
	if cfg.Flags == nil {
		return nil, errors.New("flag store is required")
	}
	if cfg.Client == nil {
		cfg.Client = http.DefaultClient
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Orchestrator{
		cfg:    cfg,
		logger: logger.With(slog.String("component", "prefetch_orchestrator")),
	}, nil
}

// Run downloads every asset in the manifest. Individual failures are
// counted, never fatal: a non-OK status, a rejected fetch, and a failed
// cache write all count the asset as failed and the run moves on. After the
// final batch the media-downloaded flag is persisted regardless of how many
// assets failed; only a failure to persist that flag is returned as an
// error, alongside the full result. onProgress may be nil.
func (o *Orchestrator) Run(ctx context.Context, manifest []string, onProgress ProgressFunc) (Result, error) {
	total := len(manifest)
	result := Result{Total: total}

	o.logger.Info("starting media download",
		"total", total,
		"batch_size", o.cfg.BatchSize,
		"persistent_cache", o.cfg.Cache != nil)

	for start := 0; start < total; start += o.cfg.BatchSize {
		end := start + o.cfg.BatchSize
		if end > total {
			end = total
		}
		batch := manifest[start:end]

		// All batch members are attempted concurrently; the join below
		// tolerates individual failures.
		outcomes := make([]bool, len(batch))
		var wg sync.WaitGroup
		for i, asset := range batch {
			wg.Add(1)
			go func(i int, asset string) {
				defer wg.Done()
				outcomes[i] = o.fetchOne(ctx, asset)
			}(i, asset)
		}
		wg.Wait()

		for _, ok := range outcomes {
			if ok {
				result.Downloaded++
			} else {
				result.Failed++
			}
		}

		o.report(result, onProgress)
	}

	if err := o.cfg.Flags.Set(MediaDownloadedFlag, "true"); err != nil {
		return result, fmt.Errorf("failed to persist download flag: %w", err)
	}

	o.logger.Info("media download finished",
		"downloaded", result.Downloaded,
		"failed", result.Failed)
	return result, nil
}

// fetchOne downloads a single asset and stores or discards the body
// depending on whether a persistent cache is configured.
func (o *Orchestrator) fetchOne(ctx context.Context, asset string) bool {
	ref, err := url.Parse(asset)
	if err != nil {
		return false
	}
	target := o.cfg.Origin.ResolveReference(ref).String()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return false
	}

	resp, err := o.cfg.Client.Do(req)
	if err != nil {
		return false
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return false
	}

	if o.cfg.Cache == nil {
		// No persistent cache available: consume the body to warm any
		// ambient HTTP-level cache. Best-effort only, no offline guarantee.
		_, err := io.Copy(io.Discard, resp.Body)
		return err == nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false
	}
	if err := o.cfg.Cache.Put(target, resp.StatusCode, resp.Header.Clone(), body); err != nil {
		o.logger.Warn("cache write failed", "url", target, "error", err)
		return false
	}
	return true
}

// report emits a cumulative progress update after a batch settles.
func (o *Orchestrator) report(result Result, onProgress ProgressFunc) {
	if onProgress == nil {
		return
	}

	settled := result.Downloaded + result.Failed
	percent := 0.0
	if result.Total > 0 {
		percent = float64(settled) / float64(result.Total) * 100
	}

	status := fmt.Sprintf("Downloaded %d of %d files", result.Downloaded, result.Total)
	if result.Failed > 0 {
		status += fmt.Sprintf(" (%d unavailable)", result.Failed)
	}

	onProgress(Update{
		Downloaded: result.Downloaded,
		Failed:     result.Failed,
		Total:      result.Total,
		Percent:    percent,
		Status:     status,
	})
}
