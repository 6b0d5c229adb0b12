package scan

import (
	"context"
	"net/http"
	"time"

	"github.com/Pavlentiyys/digitalFest/internal/logger"
)

// DefaultResolveTimeout bounds each redirect resolution attempt.
const DefaultResolveTimeout = 5 * time.Second

// RedirectResolver finds the final URL behind shortener links, so origin
// classification sees the real destination. HEAD is tried first because it
// is cheap; some hosts reject it, so GET is the fallback. When both fail
// the original URL is used unchanged.
type RedirectResolver struct {
	client  *http.Client
	timeout time.Duration
	log     *logger.Logger
}

// NewRedirectResolver creates a resolver with the default timeout.
func NewRedirectResolver() *RedirectResolver {
	return &RedirectResolver{
		client:  &http.Client{},
		timeout: DefaultResolveTimeout,
		log:     logger.Default().WithPrefix("scan"),
	}
}

// Resolve follows rawURL's redirect chain and returns the landing URL.
func (r *RedirectResolver) Resolve(ctx context.Context, rawURL string) string {
	for _, method := range []string{http.MethodHead, http.MethodGet} {
		final, err := r.attempt(ctx, method, rawURL)
		if err != nil {
			r.log.Debug("%s resolution of %s failed: %v", method, rawURL, err)
			continue
		}
		return final
	}
	r.log.Debug("redirect resolution failed, keeping original URL")
	return rawURL
}

func (r *RedirectResolver) attempt(ctx context.Context, method, rawURL string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	return resp.Request.URL.String(), nil
}
