// Package client provides the typed HTTP client for the Prep API: interview
// session history, knowledge-base management, and knowledge-base queries in
// both request/response and streaming (SSE) forms.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

const defaultTimeout = 5 * time.Minute

// Client talks to a single Prep API server. The zero value is not usable;
// construct with New.
type Client struct {
	target     string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Client created with New.
type Option func(*Client)

// WithHTTPClient overrides the underlying *http.Client. Useful for tests and
// for callers that need custom transport or timeout behavior. Timeouts are a
// transport concern: the client imposes none of its own on streaming reads.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger used for request debug logging.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// New creates a client for the Prep API server at target
// (scheme + host + port, e.g. "http://localhost:8080").
func New(target string, opts ...Option) *Client {
	c := &Client{
		target: strings.TrimRight(target, "/"),
		httpClient: &http.Client{
			// Streamed answers can be slow to complete
			Timeout: defaultTimeout,
		},
		logger: slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Target returns the configured API server URL.
func (c *Client) Target() string {
	return c.target
}

// doJSON performs a JSON request and decodes a JSON response into out
// (skipped when out is nil). Non-2xx responses are normalized to *APIError.
func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.target+path, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-ID", uuid.NewString())

	c.logger.Debug("api request", "method", method, "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if !statusOK(resp.StatusCode) {
		return readAPIError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}

// statusOK reports whether status is in the 2xx success range.
func statusOK(status int) bool {
	return status >= 200 && status < 300
}
