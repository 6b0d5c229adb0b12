package assets

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Pavlentiyys/digitalFest/internal/errors"
)

const testBase = "http://bundle.local"

// fakeFetcher serves canned bodies per URL and records every fetch.
type fakeFetcher struct {
	mu           sync.Mutex
	bodies       map[string][]byte
	errs         map[string]error
	recoverAfter map[string]int // URLs that fail this many times, then serve their body
	calls        []string
	gate         chan struct{} // when set, fetches block until the gate closes
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{bodies: map[string][]byte{}, errs: map[string]error{}}
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	f.mu.Lock()
	f.calls = append(f.calls, url)
	gate := f.gate
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if n, ok := f.recoverAfter[url]; ok {
		if n > 0 {
			f.recoverAfter[url] = n - 1
			return nil, fmt.Errorf("transient failure: %s", url)
		}
		return f.bodies[url], nil
	}
	if err, ok := f.errs[url]; ok {
		return nil, err
	}
	if body, ok := f.bodies[url]; ok {
		return body, nil
	}
	return nil, fmt.Errorf("unexpected fetch: %s", url)
}

func (f *fakeFetcher) callCount(url string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == url {
			n++
		}
	}
	return n
}

func TestLoader_LoadScriptIsIdempotent(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.bodies[testBase+"/libs/app.js"] = []byte("var x = 1;")

	l := NewLoader(fetcher, testBase, time.Second)

	require.NoError(t, l.LoadScript(context.Background(), "/libs/app.js"))
	require.NoError(t, l.LoadScript(context.Background(), "/libs/app.js"))

	assert.Equal(t, 1, fetcher.callCount(testBase+"/libs/app.js"))
	assert.Equal(t, StateLoaded, l.State("/libs/app.js"))
}

func TestLoader_LoadScriptFailureAllowsRetry(t *testing.T) {
	url := "https://cdn.example/lib.js"
	fetcher := newFakeFetcher()
	fetcher.errs[url] = apperrors.NewHTTPError(500, "")

	l := NewLoader(fetcher, testBase, time.Second)

	err := l.LoadScript(context.Background(), url)
	assert.Equal(t, apperrors.ErrCodeScriptLoad, apperrors.CodeOf(err))
	assert.Equal(t, StateFailed, l.State(url))

	// The outage clears; the next call starts over instead of replaying the
	// cached failure.
	fetcher.mu.Lock()
	delete(fetcher.errs, url)
	fetcher.bodies[url] = []byte("ok")
	fetcher.mu.Unlock()

	require.NoError(t, l.LoadScript(context.Background(), url))
	assert.Equal(t, 2, fetcher.callCount(url))
}

func TestLoader_ConcurrentCallersShareOneFetch(t *testing.T) {
	url := "https://cdn.example/big.js"
	fetcher := newFakeFetcher()
	fetcher.bodies[url] = []byte("payload")
	gate := make(chan struct{})
	fetcher.gate = gate

	l := NewLoader(fetcher, testBase, time.Second)

	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = l.LoadScript(context.Background(), url)
		}(i)
	}

	// Let every caller pile onto the in-flight fetch before releasing it.
	assert.Eventually(t, func() bool { return fetcher.callCount(url) >= 1 }, time.Second, time.Millisecond)
	close(gate)
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, 1, fetcher.callCount(url))
}

func TestLoader_LoadScriptTimesOut(t *testing.T) {
	url := "https://cdn.example/slow.js"
	fetcher := newFakeFetcher()
	fetcher.bodies[url] = []byte("late")
	fetcher.gate = make(chan struct{}) // never closed

	l := NewLoader(fetcher, testBase, 20*time.Millisecond)

	err := l.LoadScript(context.Background(), url)
	assert.Equal(t, apperrors.ErrCodeScriptLoad, apperrors.CodeOf(err))
}

func TestLoader_LoadOneOfStopsAtFirstSuccess(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.errs[testBase+"/libs/lib.js"] = apperrors.NewHTTPError(404, "")
	fetcher.bodies["https://cdn-a.example/lib.js"] = []byte("ok")
	fetcher.bodies["https://cdn-b.example/lib.js"] = []byte("ok")

	l := NewLoader(fetcher, testBase, time.Second)

	winner, err := l.LoadOneOf(context.Background(), []string{
		"/libs/lib.js",
		"https://cdn-a.example/lib.js",
		"https://cdn-b.example/lib.js",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn-a.example/lib.js", winner)
	assert.Equal(t, 0, fetcher.callCount("https://cdn-b.example/lib.js"))
}

func TestLoader_LoadOneOfExhaustedWrapsLastError(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.errs["https://cdn-a.example/lib.js"] = apperrors.NewHTTPError(404, "")
	fetcher.errs["https://cdn-b.example/lib.js"] = apperrors.NewHTTPError(503, "")

	l := NewLoader(fetcher, testBase, time.Second)

	_, err := l.LoadOneOf(context.Background(), []string{
		"https://cdn-a.example/lib.js",
		"https://cdn-b.example/lib.js",
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeAllCandidates, apperrors.CodeOf(err))
}
