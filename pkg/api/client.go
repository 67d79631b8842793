// Package api is a client for the dictionary REST API: paginated search,
// exact-term lookup, typeahead suggestions and word CRUD.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bastiangx/wordlens/internal/logger"
	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"
)

const (
	// DefaultPageSize is the page size used by the search controller.
	DefaultPageSize = 10
	// DefaultSuggestLimit caps typeahead responses.
	DefaultSuggestLimit = 10
	// MinSuggestLen is the shortest trimmed query that is sent for suggestions.
	MinSuggestLen = 2

	defaultTimeout    = 10 * time.Second
	defaultRetryDelay = 500 * time.Millisecond
	maxErrorBody      = 64 << 10
)

// Client talks to the dictionary API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	retryDelay time.Duration
	log        *log.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithRateLimit paces outgoing requests. rps <= 0 disables pacing.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithRetryDelay sets the pause before the single GET retry.
func WithRetryDelay(d time.Duration) Option {
	return func(c *Client) { c.retryDelay = d }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.log = l }
}

// NewClient creates a Client for the API rooted at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		retryDelay: defaultRetryDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = logger.Or(c.log, "api")
	return c
}

// BaseURL returns the API root the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type request struct {
	method      string
	path        string
	query       url.Values
	body        []byte
	contentType string
	// allowEmpty accepts a 2xx response without a JSON body.
	allowEmpty bool
}

func (c *Client) jsonRequest(method, path string, payload any) (request, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return request{}, fmt.Errorf("api: encode %s %s: %w", method, path, err)
	}
	return request{method: method, path: path, body: data, contentType: "application/json"}, nil
}

// do sends r and decodes a JSON response into out. It reports whether a
// body was decoded.
func (c *Client) do(ctx context.Context, r request, out any) (bool, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return false, fmt.Errorf("api: %s %s: %w: %w", r.method, r.path, ErrTransport, err)
		}
	}

	target := c.baseURL + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}

	start := time.Now()
	resp, err := c.send(ctx, r, target)
	if err != nil {
		c.log.Error("request failed", "method", r.method, "path", r.path, "err", err)
		return false, fmt.Errorf("api: %s %s: %w: %w", r.method, r.path, ErrTransport, err)
	}
	defer resp.Body.Close()

	c.log.Debug("api response", "method", r.method, "path", r.path, "status", resp.StatusCode, "took", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return false, errorFromBody(resp.StatusCode, body)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, fmt.Errorf("api: %s %s: read body: %w: %w", r.method, r.path, ErrTransport, err)
	}
	if out == nil {
		return false, nil
	}
	if r.allowEmpty && (len(bytes.TrimSpace(body)) == 0 || !isJSON(resp.Header.Get("Content-Type"))) {
		return false, nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return false, fmt.Errorf("api: %s %s: %w: %w", r.method, r.path, ErrDecode, err)
	}
	return true, nil
}

// send issues the request, retrying a GET once on 5xx or network errors.
func (c *Client) send(ctx context.Context, r request, target string) (*http.Response, error) {
	resp, err := c.attempt(ctx, r, target)
	if r.method != http.MethodGet {
		return resp, err
	}

	shouldRetry := err != nil || resp.StatusCode >= 500
	if !shouldRetry || ctx.Err() != nil {
		return resp, err
	}

	reason := "network error"
	if err == nil {
		reason = fmt.Sprintf("status %d", resp.StatusCode)
		resp.Body.Close()
	}
	c.log.Warn("retrying request", "path", r.path, "reason", reason)

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(c.retryDelay):
	}
	return c.attempt(ctx, r, target)
}

func (c *Client) attempt(ctx context.Context, r request, target string) (*http.Response, error) {
	var body io.Reader
	if r.body != nil {
		body = bytes.NewReader(r.body)
	}
	req, err := http.NewRequestWithContext(ctx, r.method, target, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	return c.httpClient.Do(req)
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}
