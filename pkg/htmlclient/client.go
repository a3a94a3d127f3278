// Package htmlclient is the pluggable HTTP client capability Requests use
// to fetch a URL. It is deliberately a thin interface so callers can swap
// in a mock for tests or a differently-tuned transport in production.
package htmlclient

import (
	"context"
	"io"
	"net/http"
	"time"
)

// Result is the outcome of a successful fetch: the final URL after
// redirects, the status code, and the body.
type Result struct {
	FinalURL   string
	StatusCode int
	Body       []byte
}

// Client fetches a URL with redirect-follow semantics and the timeouts
// described in spec.md §4.2 (30s total, 15s body read).
type Client interface {
	Get(ctx context.Context, url string) (Result, error)
}

// HTTPClient is the default Client, built on net/http.
type HTTPClient struct {
	httpClient *http.Client
	bodyTimeout time.Duration
}

// Options configures an HTTPClient.
type Options struct {
	// Timeout bounds the whole request (connect, headers, body). Defaults
	// to 30s.
	Timeout time.Duration
	// BodyTimeout additionally bounds just the body read. Defaults to 15s.
	BodyTimeout time.Duration
	// UserAgent, if set, is sent on every request.
	UserAgent string
	// Transport overrides the underlying http.RoundTripper.
	Transport http.RoundTripper
}

// New builds an HTTPClient from Options, applying the spec defaults for
// any zero-valued fields.
func New(opts Options) *HTTPClient {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.BodyTimeout <= 0 {
		opts.BodyTimeout = 15 * time.Second
	}
	userAgent := opts.UserAgent
	return &HTTPClient{
		httpClient: &http.Client{
			Timeout:   opts.Timeout,
			Transport: withUserAgent(opts.Transport, userAgent),
		},
		bodyTimeout: opts.BodyTimeout,
	}
}

func withUserAgent(base http.RoundTripper, ua string) http.RoundTripper {
	if ua == "" {
		return base
	}
	if base == nil {
		base = http.DefaultTransport
	}
	return &userAgentTransport{base: base, userAgent: ua}
}

type userAgentTransport struct {
	base      http.RoundTripper
	userAgent string
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", t.userAgent)
	return t.base.RoundTrip(req)
}

// Get performs the GET, following redirects (net/http's default policy),
// and races the body read against the configured body timeout.
func (c *HTTPClient) Get(ctx context.Context, url string) (Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Result{}, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()

	bodyCtx, cancel := context.WithTimeout(ctx, c.bodyTimeout)
	defer cancel()

	type readOutcome struct {
		body []byte
		err  error
	}
	done := make(chan readOutcome, 1)
	go func() {
		b, err := io.ReadAll(resp.Body)
		done <- readOutcome{body: b, err: err}
	}()

	select {
	case out := <-done:
		if out.err != nil {
			return Result{}, out.err
		}
		return Result{FinalURL: resp.Request.URL.String(), StatusCode: resp.StatusCode, Body: out.body}, nil
	case <-bodyCtx.Done():
		return Result{}, bodyCtx.Err()
	}
}
