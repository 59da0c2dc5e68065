// Package remote talks to the authority that issues session tokens and
// serves the guest configuration.
//
// Every endpoint answers with the same envelope:
//
//	{"code": 200, "data": {...}}
//
// which is decoded into a typed Response. A non-200 code is a Failure
// response, not an error; errors are reserved for transport problems and
// undecodable bodies.
package remote

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bluescreen10/tokensession/memstore"
)

const (
	PathSession = "/api/session"
	PathConfig  = "/api/v2/config"

	// ConfigCacheTTL is how long a guest configuration is served from
	// the cache.
	ConfigCacheTTL = 30 * time.Minute

	maxBodySize = 1 << 20
)

// Store holds cached responses. Every tokensession store backend
// satisfies it.
type Store interface {
	Get(key string) (data []byte, found bool, err error)
	Set(key string, data []byte, expiresAt time.Time) error
}

// Client sends requests to the remote authority.
type Client struct {
	baseURL string
	http    *http.Client
	cache   Store
	logCfg  *TransportLogConfig
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTimeout sets the timeout of each request. (default 10s.)
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		hc := *c.http
		hc.Timeout = d
		c.http = &hc
	}
}

// WithCacheStore keeps cached responses in s. (default an in-memory store.)
func WithCacheStore(s Store) Option {
	return func(c *Client) {
		c.cache = s
	}
}

// WithTransportLog writes one line per request as described by cfg.
func WithTransportLog(cfg TransportLogConfig) Option {
	return func(c *Client) {
		c.logCfg = &cfg
	}
}

// New returns a Client for the authority at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
		cache:   memstore.New(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.logCfg != nil {
		hc := *c.http
		hc.Transport = &LoggingTransport{Next: hc.Transport, Config: *c.logCfg}
		c.http = &hc
	}
	return c
}

// Login posts credentials to the session endpoint.
func (c *Client) Login(ctx context.Context, credentials any) (Response[TokenData], error) {
	req := NewRequest(http.MethodPost, PathSession).Body(credentials)
	return Send[TokenData](ctx, c, req)
}

// Config fetches the guest configuration using token as the bearer
// credential. Successful responses are cached for ConfigCacheTTL and
// served from the cache while they are live.
func (c *Client) Config(ctx context.Context, token string) (Response[map[string]any], error) {
	req := NewRequest(http.MethodGet, PathConfig).
		WithCache(ConfigCacheTTL).
		WithForceCache().
		Token(token)
	return Send[map[string]any](ctx, c, req)
}

// Send performs req and decodes the envelope data into T.
func Send[T any](ctx context.Context, c *Client, req *Request) (Response[T], error) {
	var key string
	if req.cacheable() {
		key = c.cacheKey(req)
		if req.forceCache {
			if res, ok := cached[T](c, key); ok {
				return res, nil
			}
		}
	}

	body, status, err := c.do(ctx, req)
	if err != nil {
		if key != "" {
			if res, ok := cached[T](c, key); ok {
				return res, nil
			}
		}
		return Response[T]{}, err
	}

	res, err := decodeResponse[T](body, status)
	if err != nil {
		return Response[T]{}, fmt.Errorf("%s %s: %w", req.method, req.path, err)
	}

	if key != "" && res.OK() {
		// a cache write failure only costs a future round trip
		_ = c.cache.Set(key, body, time.Now().Add(req.cacheTTL))
	}
	return res, nil
}

func (c *Client) do(ctx context.Context, req *Request) ([]byte, int, error) {
	hreq, err := req.build(ctx, c.baseURL)
	if err != nil {
		return nil, 0, fmt.Errorf("%s %s: %w", req.method, req.path, err)
	}

	res, err := c.http.Do(hreq)
	if err != nil {
		return nil, 0, fmt.Errorf("%s %s: %w", req.method, req.path, err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, maxBodySize))
	if err != nil {
		return nil, 0, fmt.Errorf("%s %s: read body: %w", req.method, req.path, err)
	}
	return body, res.StatusCode, nil
}

func cached[T any](c *Client, key string) (Response[T], bool) {
	body, found, err := c.cache.Get(key)
	if err != nil || !found {
		return Response[T]{}, false
	}

	res, err := decodeResponse[T](body, http.StatusOK)
	if err != nil || !res.OK() {
		return Response[T]{}, false
	}
	return res, true
}

// cacheKey identifies a request by method, URL and bearer token. The
// token is hashed so it never lands in the store in clear text.
func (c *Client) cacheKey(req *Request) string {
	key := "remote:" + req.method + " " + c.baseURL + req.path
	if req.token != "" {
		sum := sha256.Sum256([]byte(req.token))
		key += " " + hex.EncodeToString(sum[:])
	}
	return key
}
