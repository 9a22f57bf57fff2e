// Package fetch is the shared outbound HTTP layer: user agent, size limits,
// per-host pacing and optional robots.txt checks.
package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/ppiankov/slangwatch/internal/ratelimit"
)

// ErrDisallowed is returned when robots.txt forbids fetching a URL
var ErrDisallowed = errors.New("disallowed by robots.txt")

// StatusError reports a non-2xx response
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.StatusCode, e.URL)
}

// Options configures a Fetcher
type Options struct {
	Timeout    time.Duration
	UserAgent  string
	MaxBytes   int64
	Limiter    *ratelimit.Limiter // nil disables pacing
	Robots     bool               // check robots.txt before each request
	HTTPProxy  string
	HTTPSProxy string
}

// Fetcher performs paced GET requests
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	limiter    *ratelimit.Limiter
	robots     *RobotsChecker
}

// NewFetcher creates a new Fetcher with the given configuration
func NewFetcher(opts Options) *Fetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = 5 * 1024 * 1024
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = NewProxyFunc(opts.HTTPProxy, opts.HTTPSProxy)

	client := &http.Client{
		Timeout:   opts.Timeout,
		Transport: transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 3 {
				return fmt.Errorf("stopped after 3 redirects")
			}
			return nil
		},
	}

	f := &Fetcher{
		httpClient: client,
		userAgent:  opts.UserAgent,
		maxBytes:   opts.MaxBytes,
		limiter:    opts.Limiter,
	}
	if opts.Robots {
		f.robots = NewRobotsChecker(opts.UserAgent, client)
	}
	return f
}

// GetJSON fetches rawURL and decodes the JSON body into v
func (f *Fetcher) GetJSON(ctx context.Context, rawURL string, v interface{}) error {
	body, err := f.Get(ctx, rawURL, "application/json")
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode %s: %w", rawURL, err)
	}
	return nil
}

// Get fetches rawURL and returns at most maxBytes of the body
func (f *Fetcher) Get(ctx context.Context, rawURL, accept string) ([]byte, error) {
	if err := f.admit(ctx, rawURL); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

// admit applies robots.txt and pacing before a request
func (f *Fetcher) admit(ctx context.Context, rawURL string) error {
	if f.robots != nil {
		allowed, crawlDelay, err := f.robots.CanFetch(ctx, rawURL)
		if err != nil {
			return err
		}
		if !allowed {
			return fmt.Errorf("%w: %s", ErrDisallowed, rawURL)
		}
		if crawlDelay > 0 && f.limiter != nil {
			if u, err := url.Parse(rawURL); err == nil {
				f.limiter.SetHostInterval(u.Host, crawlDelay)
			}
		}
	}

	if f.limiter != nil {
		return f.limiter.Wait(ctx, rawURL)
	}
	return nil
}
