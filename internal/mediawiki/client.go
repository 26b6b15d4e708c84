package mediawiki

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/wikigraph/wikigraph/internal/cache"
)

// Default client settings.
const (
	// DefaultTimeout bounds each API request. The Wikimedia APIs answer
	// well under a second when healthy; 30 seconds covers slow mirrors
	// and large revision payloads without hanging a crawl indefinitely.
	DefaultTimeout = 30 * time.Second

	// DefaultUserAgent identifies wikigraph in API requests. The
	// Wikimedia API etiquette asks clients to send a descriptive
	// User-Agent with a contact URL.
	DefaultUserAgent = "wikigraph/1.0 (+https://github.com/wikigraph/wikigraph)"
)

// Client executes queries against one MediaWiki API endpoint, backed by a
// content-addressed disk cache.
//
// Design decision: We accept the cache store as a constructor argument
// rather than creating it internally because:
//  1. The store's directory is configuration owned by the caller
//  2. Tests can point the client at a throwaway store
//  3. One store can in principle back clients for several endpoints
type Client struct {
	// httpClient performs the network fetches on cache misses.
	httpClient *http.Client

	// store is consulted before every network request.
	store *cache.Store

	// endpoint is the API URL, e.g. "https://commons.wikimedia.org/w/api.php".
	endpoint string

	// userAgent is sent with every request.
	userAgent string

	// memberLimit caps category membership listings per request.
	memberLimit int

	// logger reports cache hits/misses and fetches.
	logger *slog.Logger

	// hits and misses count cache outcomes across the client's lifetime.
	hits   atomic.Int64
	misses atomic.Int64
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. The replacement
// should carry its own timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout on the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithMemberLimit caps the number of members requested per membership
// listing. The API's documented maximum is 500; values above it are
// silently clamped by the server, not by us.
func WithMemberLimit(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.memberLimit = n
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a Client for the given endpoint backed by store.
func NewClient(endpoint string, store *cache.Store, opts ...Option) *Client {
	c := &Client{
		httpClient:  &http.Client{Timeout: DefaultTimeout},
		store:       store,
		endpoint:    endpoint,
		userAgent:   DefaultUserAgent,
		memberLimit: MaxMemberLimit,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = slog.Default()
	}

	return c
}

// Endpoint returns the API endpoint URL the client talks to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// CacheStats returns the number of queries answered from the cache and
// fetched over the network since the client was created.
func (c *Client) CacheStats() (hits, misses int) {
	return int(c.hits.Load()), int(c.misses.Load())
}

// Query executes one logical API query and returns the raw response body.
//
// The cache is consulted first under the deterministic key of params. On a
// miss the query runs as an HTTP GET with params as the query string; a
// body carrying an "error" member fails with *APIError and is not cached,
// any other body is cached verbatim. A cached body that no longer parses
// fails with *CacheCorruptionError.
func (c *Client) Query(ctx context.Context, params map[string]string) (json.RawMessage, error) {
	key := cache.Key(params)

	body, ok, err := c.store.Get(key)
	if err != nil {
		return nil, err
	}
	if ok {
		// Cached bodies were validated before being written, so a parse
		// failure here means the entry rotted on disk.
		if !json.Valid(body) {
			return nil, &CacheCorruptionError{
				Key:  key,
				Path: c.store.Path(key),
				Err:  fmt.Errorf("body is not valid JSON"),
			}
		}
		c.hits.Add(1)
		c.logger.Debug("cache hit", "key", key, "path", c.store.Path(key))
		return json.RawMessage(body), nil
	}

	c.misses.Add(1)
	c.logger.Debug("cache miss, fetching", "key", key, "params", formatParams(params))

	body, err = c.fetch(ctx, params)
	if err != nil {
		return nil, err
	}

	if err := c.store.Put(key, body); err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}

// fetch performs the network request for params and validates the
// response shape. It never touches the cache.
func (c *Client) fetch(ctx context.Context, params map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint %s: %w", c.endpoint, err)
	}

	q := req.URL.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	req.URL.RawQuery = q.Encode()
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed (params: %s): %w", formatParams(params), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response (params: %s): %w", formatParams(params), err)
	}

	var probe struct {
		Error *struct {
			Code string `json:"code"`
			Info string `json:"info"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &probe); err != nil {
		return nil, fmt.Errorf("invalid API response (params: %s): %w", formatParams(params), err)
	}
	if probe.Error != nil {
		return nil, &APIError{
			Code:   probe.Error.Code,
			Info:   probe.Error.Info,
			Params: params,
		}
	}
	return body, nil
}
