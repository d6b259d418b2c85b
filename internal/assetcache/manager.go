// Package assetcache implements the offline asset cache manager: a service
// that intercepts same-origin asset requests, answers them from a versioned
// on-disk cache generation when possible, falls through to the network
// otherwise, and accepts out-of-band commands for warming individual URLs.
// It is the in-process counterpart of a browser service worker, with the
// same install -> activate -> intercept lifecycle.
package assetcache

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
)

// State represents the manager's position in its lifecycle.
type State string

// Possible manager states. The progression is strictly ordered:
// interception never serves from cache before activation completes.
const (
	StateNew        State = "new"
	StateInstalling State = "installing"
	StateWaiting    State = "waiting"
	StateActive     State = "active"
)

// ErrInvalidState is returned when a lifecycle step runs out of order.
var ErrInvalidState = errors.New("invalid cache manager state")

// Config holds the manager's constructor-injected configuration. There is no
// ambient global lookup: everything the manager touches is listed here.
type Config struct {
	// CacheName and Version together name the cache generation
	// ("<name>-<version>"). Any stored generation with a different name is
	// purged on activation.
	CacheName string
	Version   string

	// Dir is the root directory holding cache generations.
	Dir string

	// Origin is the upstream base URL. Only requests to this origin are
	// intercepted; everything else passes straight through.
	Origin *url.URL

	// CoreAssets is the fixed manifest of application files fetched and
	// stored during install. User media is cached on demand instead.
	CoreAssets []string

	// Transport performs the actual network fetches. Defaults to
	// http.DefaultTransport.
	Transport http.RoundTripper
}

// Manager owns one cache generation and the interception/command machinery
// around it.
type Manager struct {
	cfg    Config
	logger *slog.Logger

	mu         sync.RWMutex
	state      State
	generation *Generation

	commands   chan Command
	ctx        context.Context
	cancelFunc context.CancelFunc
	loopWG     sync.WaitGroup
	writeWG    sync.WaitGroup
}

// Ensure Manager can be registered as an interception point.
var _ http.RoundTripper = (*Manager)(nil)

// NewManager creates a manager and starts its command loop. The manager does
// not intercept anything until Install and Activate have run.
func NewManager(cfg Config, logger *slog.Logger) (*Manager, error) {
	if cfg.CacheName == "" || cfg.Version == "" {
		return nil, errors.New("cache name and version are required")
	}
	if cfg.Origin == nil {
		return nil, errors.New("origin is required")
	}
	if cfg.Transport == nil {
		cfg.Transport = http.DefaultTransport
	}
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())

	m := &Manager{
		cfg:        cfg,
		logger:     logger.With(slog.String("component", "asset_cache_manager")),
		state:      StateNew,
		commands:   make(chan Command, 64),
		ctx:        ctx,
		cancelFunc: cancel,
	}

	m.loopWG.Add(1)
	go m.commandLoop()

	return m, nil
}

// GenerationName returns the version-qualified name of the current
// generation.
func (m *Manager) GenerationName() string {
	return fmt.Sprintf("%s-%s", m.cfg.CacheName, m.cfg.Version)
}

// State returns the manager's current lifecycle state.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Generation exposes the current cache generation for direct bulk writes
// (the prefetch orchestrator stores responses it already holds). Returns nil
// before a successful install.
func (m *Manager) Generation() *Generation {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.generation
}

// Install creates the new generation and proactively fetches the fixed core
// asset manifest into it. On any fetch failure the partial generation is
// removed and the install fails as a whole; a previously active generation
// is left untouched, so a failed update is recoverable.
func (m *Manager) Install(ctx context.Context) error {
	m.mu.Lock()
	if m.state != StateNew {
		m.mu.Unlock()
		return fmt.Errorf("%w: install from %s", ErrInvalidState, m.state)
	}
	m.state = StateInstalling
	m.mu.Unlock()

	m.logger.Info("installing cache generation", "generation", m.GenerationName())

	generation, err := OpenGeneration(m.cfg.Dir, m.GenerationName())
	if err != nil {
		m.setState(StateNew)
		return fmt.Errorf("failed to open generation: %w", err)
	}

	for _, asset := range m.cfg.CoreAssets {
		if err := m.fetchAndStore(ctx, generation, asset); err != nil {
			// One failed core asset aborts the whole install.
			if rmErr := generation.Remove(); rmErr != nil {
				m.logger.Warn("failed to remove partial generation", "error", rmErr)
			}
			m.setState(StateNew)
			return fmt.Errorf("install failed for %s: %w", asset, err)
		}
	}

	m.mu.Lock()
	m.generation = generation
	m.state = StateWaiting
	m.mu.Unlock()

	m.logger.Info("cache generation installed",
		"generation", m.GenerationName(),
		"core_assets", len(m.cfg.CoreAssets))
	return nil
}

// Activate purges every generation whose name differs from the current one,
// then begins serving intercepted requests from cache. Existing clients are
// claimed immediately: the very next request goes through the cache.
func (m *Manager) Activate(ctx context.Context) error {
	m.mu.Lock()
	if m.state != StateWaiting {
		m.mu.Unlock()
		return fmt.Errorf("%w: activate from %s", ErrInvalidState, m.state)
	}
	m.mu.Unlock()

	removed, err := PurgeGenerations(m.cfg.Dir, m.GenerationName())
	if err != nil {
		return fmt.Errorf("failed to purge old generations: %w", err)
	}
	if len(removed) > 0 {
		m.logger.Info("purged old cache generations", "removed", removed)
	}

	m.setState(StateActive)
	m.logger.Info("cache manager active", "generation", m.GenerationName())
	return nil
}

// Send delivers a command to the manager's command channel. Commands are
// processed in order by the manager's own context; CacheURL failures are
// never reported back.
func (m *Manager) Send(cmd Command) {
	select {
	case m.commands <- cmd:
	case <-m.ctx.Done():
	}
}

// Close stops the command loop and waits for any in-flight background cache
// writes to settle.
func (m *Manager) Close() {
	m.cancelFunc()
	m.loopWG.Wait()
	m.writeWG.Wait()
}

// RoundTrip is the interception point. Cross-origin requests pass straight
// through. Same-origin requests are answered from the cache when an entry
// exists; otherwise the network fetch runs and a 200 response is stored
// asynchronously without delaying the requester. A failed fetch with no
// cache entry yields the offline placeholder for image paths and the error
// for everything else.
func (m *Manager) RoundTrip(req *http.Request) (*http.Response, error) {
	if !m.sameOrigin(req.URL) {
		return m.cfg.Transport.RoundTrip(req)
	}

	m.mu.RLock()
	state := m.state
	generation := m.generation
	m.mu.RUnlock()

	// Interception starts only after activation.
	if state != StateActive || generation == nil {
		return m.cfg.Transport.RoundTrip(req)
	}

	cacheURL := req.URL.String()
	if entry, err := generation.Match(cacheURL); err == nil {
		m.logger.Debug("cache hit", "url", cacheURL)
		return entry.Response(), nil
	}

	resp, err := m.cfg.Transport.RoundTrip(req)
	if err != nil {
		if isImagePath(req.URL.Path) {
			m.logger.Debug("serving offline placeholder", "url", cacheURL, "error", err)
			return placeholderResponse(), nil
		}
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return resp, nil
	}

	// Capture the body so the response can be both stored and returned.
	body, err := io.ReadAll(resp.Body)
	closeErr := resp.Body.Close()
	if err != nil || closeErr != nil {
		if isImagePath(req.URL.Path) {
			return placeholderResponse(), nil
		}
		if err == nil {
			err = closeErr
		}
		return nil, err
	}

	m.storeAsync(generation, cacheURL, resp.StatusCode, resp.Header.Clone(), body)

	resp.Body = io.NopCloser(bytes.NewReader(body))
	resp.ContentLength = int64(len(body))
	return resp, nil
}

// commandLoop processes the command channel until Close.
func (m *Manager) commandLoop() {
	defer m.loopWG.Done()

	for {
		select {
		case <-m.ctx.Done():
			return
		case cmd := <-m.commands:
			m.handleCommand(cmd)
		}
	}
}

// handleCommand dispatches one command. CacheURL is best-effort by design:
// the bulk download's batch counters are the sole failure signal.
func (m *Manager) handleCommand(cmd Command) {
	switch cmd.Type {
	case CommandCacheURL:
		m.mu.RLock()
		generation := m.generation
		m.mu.RUnlock()
		if generation == nil {
			return
		}
		if err := m.fetchAndStore(m.ctx, generation, cmd.URL); err != nil {
			m.logger.Debug("cache command fetch failed", "url", cmd.URL, "error", err)
		}
	case CommandSkipWaiting:
		if m.State() == StateWaiting {
			if err := m.Activate(m.ctx); err != nil {
				m.logger.Warn("skip waiting activation failed", "error", err)
			}
		}
	default:
		m.logger.Debug("ignoring unknown command", "type", string(cmd.Type))
	}
}

// fetchAndStore fetches the asset (a path or absolute URL, resolved against
// the origin) and stores an OK response in the generation.
func (m *Manager) fetchAndStore(ctx context.Context, generation *Generation, asset string) error {
	ref, err := url.Parse(asset)
	if err != nil {
		return fmt.Errorf("invalid asset URL: %w", err)
	}
	target := m.cfg.Origin.ResolveReference(ref)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return err
	}

	resp, err := m.cfg.Transport.RoundTrip(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d for %s", resp.StatusCode, target)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	return generation.Put(target.String(), resp.StatusCode, resp.Header.Clone(), body)
}

// storeAsync persists a captured response in the background so the
// requester is never blocked on the cache write. Write failures degrade to
// best-effort: logged, not surfaced.
func (m *Manager) storeAsync(generation *Generation, url string, status int, header http.Header, body []byte) {
	m.writeWG.Add(1)
	go func() {
		defer m.writeWG.Done()
		if err := generation.Put(url, status, header, body); err != nil {
			m.logger.Warn("failed to store cached response", "url", url, "error", err)
		}
	}()
}

func (m *Manager) sameOrigin(u *url.URL) bool {
	return u.Scheme == m.cfg.Origin.Scheme && u.Host == m.cfg.Origin.Host
}

func (m *Manager) setState(state State) {
	m.mu.Lock()
	m.state = state
	m.mu.Unlock()
}
