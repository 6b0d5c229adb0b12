package assets

import (
	"context"
	"io"
	"net/http"

	"github.com/Pavlentiyys/digitalFest/internal/errors"
)

// Fetcher retrieves one asset by URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// HTTPFetcher is the production Fetcher. Timeouts are the loader's job, so
// the embedded client has none of its own.
type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher creates an HTTPFetcher.
func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{client: &http.Client{}}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.NewHTTPError(resp.StatusCode, "")
	}
	return io.ReadAll(io.LimitReader(resp.Body, 32<<20))
}

var _ Fetcher = (*HTTPFetcher)(nil)
