package assets

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/Pavlentiyys/digitalFest/internal/logger"
)

// Library names tracked by the registry.
const (
	LibThree  = "three"
	LibMindAR = "mindar-image"
)

// Library is a typed handle for a loaded runtime library. The handle in the
// registry is the proof a library actually arrived, instead of trusting
// ambient globals.
type Library struct {
	Name string
	URL  string
}

// Registry holds the loaded library handles.
type Registry struct {
	mu   sync.RWMutex
	libs map[string]Library
}

func NewRegistry() *Registry {
	return &Registry{libs: make(map[string]Library)}
}

func (r *Registry) Register(lib Library) {
	r.mu.Lock()
	r.libs[lib.Name] = lib
	r.mu.Unlock()
}

// Lookup returns the handle for name.
func (r *Registry) Lookup(name string) (Library, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	lib, ok := r.libs[name]
	return lib, ok
}

func (r *Registry) Has(name string) bool {
	_, ok := r.Lookup(name)
	return ok
}

// Local bundle paths, served by the bundle host. They come first in every
// chain so the experience survives blocked CDNs.
const (
	localThreePath  = "/libs/three.min.js"
	localMindARPath = "/libs/mindar-image-three.prod.js"
)

// threeCandidates must load before MindAR: the MindAR builds expect the
// rendering library to already be present.
var threeCandidates = []string{
	localThreePath,
	"https://cdn.jsdelivr.net/npm/three@0.152.2/build/three.min.js",
	"https://unpkg.com/three@0.152.2/build/three.min.js",
}

var mindARCandidates = []string{
	localMindARPath,
	"https://cdn.jsdelivr.net/npm/mind-ar@1.2.5/dist/mindar-image-three.prod.js",
	"https://cdn.jsdelivr.net/npm/mind-ar@1.2.4/dist/mindar-image-three.prod.js",
	"https://unpkg.com/mind-ar@1.2.5/dist/mindar-image-three.prod.js",
	"https://unpkg.com/mind-ar@1.2.4/dist/mindar-image-three.prod.js",
}

// Separated builds, the fallback when the combined bundle is unavailable.
var (
	mindARCoreCandidates = []string{
		"https://cdn.jsdelivr.net/npm/mind-ar@1.2.5/dist/mindar-image.prod.js",
		"https://unpkg.com/mind-ar@1.2.5/dist/mindar-image.prod.js",
	}
	mindARThreeCandidates = []string{
		"https://cdn.jsdelivr.net/npm/mind-ar@1.2.5/dist/mindar-image-three.prod.js",
		"https://unpkg.com/mind-ar@1.2.5/dist/mindar-image-three.prod.js",
	}
)

// EnsureARBundle loads the AR runtime: the rendering library first, then the
// image tracking bundle, each through its fallback chain. Already-registered
// libraries are skipped, so repeated calls are cheap.
func (l *Loader) EnsureARBundle(ctx context.Context) error {
	log := logger.FromContext(ctx).WithPrefix("assets")

	if l.registry.Has(LibThree) && l.registry.Has(LibMindAR) {
		return nil
	}

	if !l.registry.Has(LibThree) {
		url, err := l.LoadOneOf(ctx, threeCandidates)
		if err != nil {
			log.Error("rendering library unavailable from local bundle and CDNs: %v", err)
			return err
		}
		l.registry.Register(Library{Name: LibThree, URL: url})
	}

	url, err := l.LoadOneOf(ctx, mindARCandidates)
	if err != nil {
		log.Warn("combined tracking bundle unavailable, trying separated builds: %v", err)
		if _, coreErr := l.LoadOneOf(ctx, mindARCoreCandidates); coreErr != nil {
			return l.diagnoseLocalBundle(ctx, coreErr)
		}
		url, err = l.LoadOneOf(ctx, mindARThreeCandidates)
		if err != nil {
			return l.diagnoseLocalBundle(ctx, err)
		}
	}
	l.registry.Register(Library{Name: LibMindAR, URL: url})

	log.Info("AR bundle ready")
	return nil
}

// diagnoseLocalBundle probes the local bundle paths so the error can say
// "the local file is missing" instead of a bare chain failure.
func (l *Loader) diagnoseLocalBundle(ctx context.Context, cause error) error {
	for _, path := range []string{localThreePath, localMindARPath} {
		if _, err := l.fetcher.Fetch(ctx, l.resolve(path)); err != nil {
			return fmt.Errorf("%s is missing from the local bundle: %w", path, cause)
		}
	}
	return cause
}

// targetCandidates are the paths a deployment may place the tracking target
// under.
var targetCandidates = []string{"/targets/target.mind", "/target/target.mind"}

// FindTargetPath resolves the tracking target file. A candidate only counts
// when it fetches cleanly and is not an HTML page: a host with an index
// fallback answers 200 for anything, and feeding that page to the tracker
// fails much later with a confusing error. With no usable candidate the
// first path is returned as the conventional default.
func (l *Loader) FindTargetPath(ctx context.Context) string {
	log := logger.FromContext(ctx).WithPrefix("assets")

	for _, candidate := range targetCandidates {
		body, err := l.fetcher.Fetch(ctx, l.resolve(candidate))
		if err != nil {
			log.Debug("target candidate %s unavailable: %v", candidate, err)
			continue
		}
		if looksLikeHTML(body) {
			log.Warn("target candidate %s returned an HTML page, skipping", candidate)
			continue
		}
		log.Info("using tracking target %s", candidate)
		return candidate
	}

	log.Warn("no tracking target found, defaulting to %s", targetCandidates[0])
	return targetCandidates[0]
}

func looksLikeHTML(body []byte) bool {
	trimmed := bytes.TrimLeft(body, " \t\r\n")
	lower := bytes.ToLower(trimmed)
	return bytes.HasPrefix(lower, []byte("<!doctype")) || bytes.HasPrefix(lower, []byte("<html"))
}
