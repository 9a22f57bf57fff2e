package lookup

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/slangwatch/internal/cache"
	"github.com/ppiankov/slangwatch/internal/metrics"
	"github.com/ppiankov/slangwatch/internal/model"
)

// Cached memoizes a provider's answers, keyed by normalized term. Failures are
// not cached.
type Cached struct {
	provider Provider
	cache    cache.Cache
	ttl      time.Duration
	log      *zap.Logger
}

// NewCached wraps p with c
func NewCached(p Provider, c cache.Cache, ttl time.Duration, log *zap.Logger) *Cached {
	if log == nil {
		log = zap.NewNop()
	}
	return &Cached{provider: p, cache: c, ttl: ttl, log: log}
}

// Name returns the wrapped provider's name
func (c *Cached) Name() string {
	return c.provider.Name()
}

// Define returns a cached result when one is fresh, otherwise asks the provider
func (c *Cached) Define(ctx context.Context, term string) (*Result, error) {
	term = model.NormalizeTerm(term)
	key := cache.LookupKey(c.provider.Name(), term)

	if data, ok := c.cache.Get(key); ok {
		var res Result
		if err := json.Unmarshal(data, &res); err == nil {
			metrics.Lookups.WithLabelValues(c.Name(), "cache_hit").Inc()
			return &res, nil
		}
		_ = c.cache.Delete(key)
	}

	res, err := c.provider.Define(ctx, term)
	if err != nil {
		metrics.Lookups.WithLabelValues(c.Name(), "error").Inc()
		c.log.Warn("definition lookup failed", zap.String("term", term), zap.Error(err))
		return nil, err
	}

	outcome := "not_found"
	if res.Found {
		outcome = "found"
	}
	metrics.Lookups.WithLabelValues(c.Name(), outcome).Inc()

	if data, err := json.Marshal(res); err == nil {
		_ = c.cache.Set(key, data, c.ttl)
	}
	return res, nil
}
