package cli

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ppiankov/slangwatch/internal/collect"
	"github.com/ppiankov/slangwatch/internal/extract"
	"github.com/ppiankov/slangwatch/internal/fetch"
	"github.com/ppiankov/slangwatch/internal/logging"
	"github.com/ppiankov/slangwatch/internal/lookup"
	"github.com/ppiankov/slangwatch/internal/model"
	"github.com/ppiankov/slangwatch/internal/ratelimit"
	"github.com/ppiankov/slangwatch/internal/source"
	"github.com/ppiankov/slangwatch/internal/store"
	"github.com/ppiankov/slangwatch/internal/validate"
)

// app bundles what most commands need
type app struct {
	cfg   *model.Config
	log   *zap.Logger
	store *store.Store
}

func newApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if cfg.Database.Path == "" {
		return nil, fmt.Errorf("database.path is required")
	}

	log, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}

	st, err := store.Open(cfg.Database.Path, log)
	if err != nil {
		return nil, err
	}

	return &app{cfg: cfg, log: log, store: st}, nil
}

func (a *app) Close() {
	_ = a.store.Close()
	_ = a.log.Sync()
}

// collector wires the Reddit source, extractor and lookup into a collector
func (a *app) collector() (*collect.Collector, error) {
	provider, err := lookup.New(a.cfg, a.log)
	if err != nil {
		return nil, err
	}

	sc := a.cfg.Scraper
	redditFetcher := fetch.NewFetcher(fetch.Options{
		Timeout:    sc.Timeout,
		UserAgent:  sc.UserAgent,
		MaxBytes:   sc.MaxBodyBytes,
		Limiter:    ratelimit.NewLimiter(sc.Delay),
		Robots:     sc.RespectRobots,
		HTTPProxy:  sc.HTTPProxy,
		HTTPSProxy: sc.HTTPSProxy,
	})

	validator := validate.NewValidator(provider, a.cfg.Lookup.MinVotes, a.log)
	return collect.NewCollector(
		a.store,
		source.NewReddit(redditFetcher, sc.RedditBaseURL),
		extract.NewCandidateExtractor(validator),
		provider,
		sc,
		a.log.Named("collect"),
	), nil
}
