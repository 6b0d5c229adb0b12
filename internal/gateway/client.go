package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Pavlentiyys/digitalFest/internal/errors"
	"github.com/Pavlentiyys/digitalFest/internal/logger"
)

// Client is the single entry point for every call to the event API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *logger.Logger
}

// New creates a Client rooted at the versioned API base, e.g.
// https://host/api/v1. Paths passed to Do are joined onto it.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		log:        logger.Default().WithPrefix("gateway"),
	}
}

// Result is the uniform outcome of a successful (2xx) request.
type Result struct {
	Status int
	IsJSON bool
	Body   []byte
}

// Decode unmarshals a JSON body into v and reports whether v was populated.
// A non-JSON body or a parse failure leaves v untouched and returns false;
// per the gateway contract that is not an error.
func (r *Result) Decode(v any) bool {
	if r == nil || !r.IsJSON || len(r.Body) == 0 {
		return false
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		logger.Default().WithPrefix("gateway").Debug("ignoring malformed JSON body: %v", err)
		return false
	}
	return true
}

// Text returns the raw body as a string.
func (r *Result) Text() string {
	if r == nil {
		return ""
	}
	return string(r.Body)
}

// Do performs a JSON request. payload, when non-nil, is marshaled into the
// request body with a JSON content type.
func (c *Client) Do(ctx context.Context, method, path string, payload any, headers map[string]string) (*Result, error) {
	var body io.Reader
	contentType := ""
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}
	return c.DoBody(ctx, method, path, body, contentType, headers)
}

// DoBody performs a request with a caller-provided body and content type.
// Used for multipart uploads; everything else goes through Do.
func (c *Client) DoBody(ctx context.Context, method, path string, body io.Reader, contentType string, headers map[string]string) (*Result, error) {
	log := logger.FromContext(ctx).WithPrefix("gateway").WithField("path", path)
	url := c.baseURL + path

	log.Debug("%s %s", method, url)
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		log.Error("failed to create request: %v", err)
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error("request failed: %v", err)
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		log.Error("failed to read response body: %v", err)
		return nil, err
	}

	isJSON := strings.Contains(resp.Header.Get("Content-Type"), "application/json")
	log.Debug("response in %v, status=%d, json=%v", time.Since(start), resp.StatusCode, isJSON)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := messageFrom(raw, isJSON)
		log.Error("request failed: status=%d, message=%s", resp.StatusCode, msg)
		return nil, errors.NewHTTPError(resp.StatusCode, msg)
	}

	return &Result{Status: resp.StatusCode, IsJSON: isJSON, Body: raw}, nil
}

// messageFrom extracts a best-effort error message from a failure body.
func messageFrom(raw []byte, isJSON bool) string {
	if !isJSON {
		return ""
	}
	var envelope struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return ""
	}
	return envelope.Message
}
