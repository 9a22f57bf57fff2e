// Package ratelimit paces outbound requests per host.
package ratelimit

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter keeps one token bucket per host. Every bucket has burst 1, so calls
// to a host are spaced at least one interval apart.
type Limiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.RWMutex
	interval time.Duration
}

// NewLimiter creates a limiter spacing calls to each host by interval.
// A non-positive interval disables pacing.
func NewLimiter(interval time.Duration) *Limiter {
	return &Limiter{
		limiters: make(map[string]*rate.Limiter),
		interval: interval,
	}
}

// Wait blocks until a call to rawURL's host is allowed
func (l *Limiter) Wait(ctx context.Context, rawURL string) error {
	host, err := hostOf(rawURL)
	if err != nil {
		return err
	}
	return l.getLimiter(host).Wait(ctx)
}

// SetHostInterval overrides the spacing for one host, e.g. from a robots.txt
// Crawl-delay. Intervals shorter than the default are ignored.
func (l *Limiter) SetHostInterval(host string, interval time.Duration) {
	if interval <= l.interval {
		return
	}

	limit := rate.Every(interval)

	l.mu.Lock()
	defer l.mu.Unlock()
	if existing, ok := l.limiters[host]; ok && existing.Limit() == limit {
		return
	}
	l.limiters[host] = rate.NewLimiter(limit, 1)
}

func (l *Limiter) getLimiter(host string) *rate.Limiter {
	l.mu.RLock()
	limiter, exists := l.limiters[host]
	l.mu.RUnlock()

	if exists {
		return limiter
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// Double-check after acquiring write lock
	if limiter, exists := l.limiters[host]; exists {
		return limiter
	}

	limit := rate.Inf
	if l.interval > 0 {
		limit = rate.Every(l.interval)
	}
	limiter = rate.NewLimiter(limit, 1)
	l.limiters[host] = limiter

	return limiter
}

func hostOf(rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("no host in URL %q", rawURL)
	}
	return parsed.Host, nil
}
