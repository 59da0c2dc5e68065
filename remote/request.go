package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Request describes a call to the remote authority. It is built with a
// chain of setters and sent with Send.
//
//	req := remote.NewRequest(http.MethodGet, "/api/v2/config").
//		Token(tok).
//		WithCache(30 * time.Minute).
//		WithForceCache()
type Request struct {
	method     string
	path       string
	body       any
	token      string
	cacheTTL   time.Duration
	forceCache bool
}

// NewRequest returns a Request for method and path. The path is resolved
// against the client base URL.
func NewRequest(method, path string) *Request {
	return &Request{method: method, path: path}
}

// Body sets the value sent as the JSON request body.
func (r *Request) Body(v any) *Request {
	r.body = v
	return r
}

// Token attaches token as a bearer credential.
func (r *Request) Token(token string) *Request {
	r.token = token
	return r
}

// WithCache keeps successful GET responses for ttl.
func (r *Request) WithCache(ttl time.Duration) *Request {
	r.cacheTTL = ttl
	return r
}

// WithForceCache serves a live cached response without contacting the
// server. Without it the cache is only a fallback for transport errors.
func (r *Request) WithForceCache() *Request {
	r.forceCache = true
	return r
}

func (r *Request) cacheable() bool {
	return r.method == http.MethodGet && r.cacheTTL > 0
}

func (r *Request) build(ctx context.Context, baseURL string) (*http.Request, error) {
	var body io.Reader
	if r.body != nil {
		data, err := json.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, strings.TrimSuffix(baseURL, "/")+r.path, body)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}
	return req, nil
}
