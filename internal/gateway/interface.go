package gateway

import (
	"context"
	"io"
)

// ClientInterface defines the gateway operations the rest of the app depends
// on. This interface enables testability by allowing mock implementations.
type ClientInterface interface {
	Do(ctx context.Context, method, path string, payload any, headers map[string]string) (*Result, error)
	DoBody(ctx context.Context, method, path string, body io.Reader, contentType string, headers map[string]string) (*Result, error)
}

// Ensure Client implements the interface
var _ ClientInterface = (*Client)(nil)
