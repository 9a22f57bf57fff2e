package lookup

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ppiankov/slangwatch/internal/cache"
	"github.com/ppiankov/slangwatch/internal/fetch"
	"github.com/ppiankov/slangwatch/internal/model"
	"github.com/ppiankov/slangwatch/internal/ratelimit"
)

// New builds the configured provider wrapped in a cache. It returns nil when
// lookups are disabled.
func New(cfg *model.Config, log *zap.Logger) (Provider, error) {
	limiter := ratelimit.NewLimiter(cfg.Lookup.Delay)

	var p Provider
	switch strings.ToLower(cfg.Lookup.Provider) {
	case "urban_dictionary", "urban", "":
		f := fetch.NewFetcher(fetch.Options{
			Timeout:    cfg.Lookup.Timeout,
			UserAgent:  cfg.Scraper.UserAgent,
			MaxBytes:   cfg.Scraper.MaxBodyBytes,
			Limiter:    limiter,
			HTTPProxy:  cfg.Scraper.HTTPProxy,
			HTTPSProxy: cfg.Scraper.HTTPSProxy,
		})
		p = NewUrbanDictionary(f, cfg.Lookup.BaseURL)

	case "openai":
		oa, err := NewOpenAI(cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.OpenAI.BaseURL, cfg.Lookup.Timeout, limiter)
		if err != nil {
			return nil, err
		}
		p = oa

	case "none":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown lookup provider: %s (supported: urban_dictionary, openai, none)", cfg.Lookup.Provider)
	}

	return NewCached(p, cache.NewMemory(cfg.Lookup.CacheTTL), cfg.Lookup.CacheTTL, log), nil
}
