package ratelimit

import (
	"context"
	"testing"
	"time"
)

// ready reports whether a call to rawURL may proceed without waiting,
// consuming the token if so
func ready(l *Limiter, rawURL string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	return l.Wait(ctx, rawURL) == nil
}

func TestLimiter_SpacesCallsPerHost(t *testing.T) {
	limiter := NewLimiter(time.Hour)

	if !ready(limiter, "http://example.com/a") {
		t.Fatal("first call should pass")
	}
	if ready(limiter, "http://example.com/b") {
		t.Error("second call to the same host should be held back")
	}
	if !ready(limiter, "http://other.com") {
		t.Error("other host should have its own bucket")
	}
}

func TestLimiter_Wait(t *testing.T) {
	limiter := NewLimiter(30 * time.Millisecond)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := limiter.Wait(ctx, "http://example.com"); err != nil {
			t.Fatalf("wait failed: %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed < 55*time.Millisecond {
		t.Errorf("expected three calls to take at least two intervals, took %v", elapsed)
	}
}

func TestLimiter_ZeroIntervalDisablesPacing(t *testing.T) {
	limiter := NewLimiter(0)
	for i := 0; i < 50; i++ {
		if !ready(limiter, "http://example.com") {
			t.Fatalf("call %d held back with pacing disabled", i)
		}
	}
}

func TestLimiter_WaitHonorsContext(t *testing.T) {
	limiter := NewLimiter(time.Hour)
	_ = ready(limiter, "http://example.com")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := limiter.Wait(ctx, "http://example.com"); err == nil {
		t.Error("expected error when the wait exceeds the context deadline")
	}
}

func TestLimiter_SetHostInterval(t *testing.T) {
	limiter := NewLimiter(0)
	limiter.SetHostInterval("slow.com", time.Hour)

	if !ready(limiter, "http://slow.com") {
		t.Error("first request should pass")
	}
	if ready(limiter, "http://slow.com") {
		t.Error("second request should wait for the crawl delay")
	}
	if !ready(limiter, "http://fast.com") {
		t.Error("other host should pass")
	}
}

func TestHostOf(t *testing.T) {
	host, err := hostOf("https://www.reddit.com/r/GenZ/hot.json")
	if err != nil {
		t.Fatalf("hostOf failed: %v", err)
	}
	if host != "www.reddit.com" {
		t.Errorf("expected www.reddit.com, got %s", host)
	}

	if _, err := hostOf("::invalid"); err == nil {
		t.Error("expected error for invalid URL")
	}
	if _, err := hostOf("/relative/path"); err == nil {
		t.Error("expected error for URL without host")
	}
}

func TestLimiter_SetHostIntervalKeepsState(t *testing.T) {
	limiter := NewLimiter(0)
	limiter.SetHostInterval("slow.com", time.Hour)
	_ = ready(limiter, "http://slow.com")

	// repeating the same crawl delay must not refill the bucket
	limiter.SetHostInterval("slow.com", time.Hour)
	if ready(limiter, "http://slow.com") {
		t.Error("expected bucket to stay drained")
	}
}
