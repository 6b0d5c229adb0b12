package assets

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Pavlentiyys/digitalFest/internal/errors"
	"github.com/Pavlentiyys/digitalFest/internal/logger"
)

// LoadState tracks one URL through the loader.
type LoadState int

const (
	StateNotRequested LoadState = iota
	StateLoading
	StateLoaded
	StateFailed
)

func (s LoadState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateFailed:
		return "failed"
	default:
		return "not_requested"
	}
}

type entry struct {
	state LoadState
	size  int
	err   error
}

// Loader fetches library scripts and AR assets with per-URL caching.
// A loaded URL is never fetched again; concurrent callers for the same URL
// share one in-flight fetch; a failed URL may be retried on the next call.
type Loader struct {
	fetcher  Fetcher
	baseURL  string
	timeout  time.Duration
	registry *Registry
	log      *logger.Logger

	mu      sync.Mutex
	entries map[string]*entry
	group   singleflight.Group
}

// NewLoader creates a Loader. baseURL anchors root-relative paths like
// /libs/three.min.js at the local bundle host.
func NewLoader(fetcher Fetcher, baseURL string, timeout time.Duration) *Loader {
	return &Loader{
		fetcher:  fetcher,
		baseURL:  strings.TrimRight(baseURL, "/"),
		timeout:  timeout,
		registry: NewRegistry(),
		entries:  make(map[string]*entry),
		log:      logger.Default().WithPrefix("assets"),
	}
}

// Registry returns the loaded library handle registry.
func (l *Loader) Registry() *Registry { return l.registry }

// State reports how far the loader got with url.
func (l *Loader) State(url string) LoadState {
	l.mu.Lock()
	defer l.mu.Unlock()
	if e, ok := l.entries[l.resolve(url)]; ok {
		return e.state
	}
	return StateNotRequested
}

// resolve anchors root-relative paths at the bundle host.
func (l *Loader) resolve(url string) string {
	if strings.HasPrefix(url, "/") {
		return l.baseURL + url
	}
	return url
}

// LoadScript fetches url once. Subsequent calls for an already loaded URL
// return immediately; concurrent calls share a single fetch; after a
// failure the next call starts over. Every fetch races the configured
// timeout.
func (l *Loader) LoadScript(ctx context.Context, url string) error {
	full := l.resolve(url)

	l.mu.Lock()
	if e, ok := l.entries[full]; ok && e.state == StateLoaded {
		l.mu.Unlock()
		return nil
	}
	l.mu.Unlock()

	_, err, shared := l.group.Do(full, func() (any, error) {
		return nil, l.fetch(ctx, full)
	})
	if shared {
		l.log.Debug("joined in-flight load for %s", full)
	}
	return err
}

func (l *Loader) fetch(ctx context.Context, full string) error {
	l.setState(full, StateLoading, 0, nil)

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	start := time.Now()
	body, err := l.fetcher.Fetch(ctx, full)
	if err != nil {
		loadErr := errors.NewScriptLoadError(full, err)
		l.setState(full, StateFailed, 0, loadErr)
		l.log.Warn("load failed after %v: %s: %v", time.Since(start), full, err)
		return loadErr
	}

	l.setState(full, StateLoaded, len(body), nil)
	l.log.Debug("loaded %s (%d bytes) in %v", full, len(body), time.Since(start))
	return nil
}

func (l *Loader) setState(full string, state LoadState, size int, err error) {
	l.mu.Lock()
	l.entries[full] = &entry{state: state, size: size, err: err}
	l.mu.Unlock()
}

// LoadOneOf tries urls strictly in order and stops at the first success,
// returning the URL that won. When every candidate fails the last error is
// wrapped as ALL_CANDIDATES_FAILED.
func (l *Loader) LoadOneOf(ctx context.Context, urls []string) (string, error) {
	var lastErr error
	for _, url := range urls {
		if err := l.LoadScript(ctx, url); err != nil {
			lastErr = err
			continue
		}
		return l.resolve(url), nil
	}
	return "", errors.NewAllCandidatesFailed(lastErr)
}
