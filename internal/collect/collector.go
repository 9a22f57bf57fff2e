// Package collect gathers slang mentions from Reddit and the definition
// lookup, and runs targeted research on operator-supplied terms.
package collect

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/ppiankov/slangwatch/internal/lookup"
	"github.com/ppiankov/slangwatch/internal/model"
	"github.com/ppiankov/slangwatch/internal/source"
	"github.com/ppiankov/slangwatch/internal/store"
)

// ErrNoLookup is returned by research when no definition lookup is configured
var ErrNoLookup = errors.New("no definition lookup configured")

// Lister returns the posts of a subreddit listing
type Lister interface {
	Listing(ctx context.Context, subreddit, sort string, limit int) ([]source.Post, error)
}

// Extractor finds slang candidates in text
type Extractor interface {
	Extract(ctx context.Context, text, platform string) []model.Candidate
}

// Collector runs collection and research against a repository
type Collector struct {
	repo      store.Repository
	reddit    Lister
	extractor Extractor
	lookup    lookup.Provider // nil disables definition lookups
	cfg       model.ScraperConfig
	log       *zap.Logger
	pause     func(ctx context.Context, d time.Duration) error
}

// NewCollector creates a collector. reddit and lookup may be nil.
func NewCollector(repo store.Repository, reddit Lister, extractor Extractor, p lookup.Provider, cfg model.ScraperConfig, log *zap.Logger) *Collector {
	if log == nil {
		log = zap.NewNop()
	}
	return &Collector{
		repo:      repo,
		reddit:    reddit,
		extractor: extractor,
		lookup:    p,
		cfg:       cfg,
		log:       log,
		pause:     sleep,
	}
}

// CollectReport summarizes a collection run
type CollectReport struct {
	RedditMentions       int      `json:"reddit_mentions"`
	UrbanDictionaryTerms int      `json:"urban_dictionary_terms"`
	TotalCandidates      int      `json:"total_candidates"`
	Platforms            []string `json:"platforms_scraped"`
	Errors               []string `json:"errors,omitempty"`
}

// Collect scans the configured subreddits for candidates, records a mention
// per candidate, then looks up the popular term list. Source and lookup
// failures are reported and skipped; storage failures abort the run.
func (c *Collector) Collect(ctx context.Context) (*CollectReport, error) {
	report := &CollectReport{Platforms: []string{}}
	unique := make(map[string]bool)

	if c.reddit != nil && c.extractor != nil {
		for i, sub := range c.cfg.Subreddits {
			if err := ctx.Err(); err != nil {
				return report, err
			}

			n, err := c.collectSubreddit(ctx, sub, unique)
			report.RedditMentions += n
			if err != nil {
				var se *store.StorageError
				if errors.As(err, &se) {
					return report, err
				}
				c.log.Warn("subreddit skipped", zap.String("subreddit", sub), zap.Error(err))
				report.Errors = append(report.Errors, err.Error())
			}

			if i < len(c.cfg.Subreddits)-1 {
				if err := c.pause(ctx, jitter(c.cfg.Jitter)); err != nil {
					return report, err
				}
			}
		}
		report.Platforms = append(report.Platforms, model.PlatformReddit)
	}
	report.TotalCandidates = len(unique)

	if c.lookup != nil {
		n, errs, err := c.collectPopular(ctx)
		report.UrbanDictionaryTerms = n
		report.Errors = append(report.Errors, errs...)
		if err != nil {
			return report, err
		}
		report.Platforms = append(report.Platforms, model.PlatformUrbanDictionary)
	}

	c.log.Info("collection complete",
		zap.Int("reddit_mentions", report.RedditMentions),
		zap.Int("lookup_terms", report.UrbanDictionaryTerms),
		zap.Int("unique_candidates", report.TotalCandidates))

	return report, nil
}

func (c *Collector) collectSubreddit(ctx context.Context, sub string, unique map[string]bool) (int, error) {
	posts, err := c.reddit.Listing(ctx, sub, c.cfg.Sort, c.cfg.PostsPerSubreddit)
	if err != nil {
		return 0, err
	}

	recorded := 0
	record := func(text, content string, score int) error {
		for _, cand := range c.extractor.Extract(ctx, text, model.PlatformReddit) {
			if err := c.repo.RecordMention(ctx, cand.Term, model.PlatformReddit, content, score); err != nil {
				return err
			}
			unique[cand.Term] = true
			recorded++
		}
		return nil
	}

	for _, post := range posts {
		if err := record(post.Title, fmt.Sprintf("r/%s: %s", sub, post.Title), post.Score); err != nil {
			return recorded, err
		}
		if utf8.RuneCountInString(post.Body) > 10 {
			content := fmt.Sprintf("r/%s: %s...", sub, truncate(post.Body, 100))
			if err := record(post.Body, content, post.Score); err != nil {
				return recorded, err
			}
		}
	}

	c.log.Debug("subreddit scanned", zap.String("subreddit", sub), zap.Int("posts", len(posts)), zap.Int("mentions", recorded))
	return recorded, nil
}

func (c *Collector) collectPopular(ctx context.Context) (int, []string, error) {
	found := 0
	var errs []string

	for _, raw := range c.cfg.PopularTerms {
		term := model.NormalizeTerm(raw)
		if term == "" {
			continue
		}

		res, err := c.lookup.Define(ctx, term)
		if err != nil {
			if ctx.Err() != nil {
				return found, errs, ctx.Err()
			}
			c.log.Warn("lookup failed", zap.String("term", term), zap.Error(err))
			errs = append(errs, err.Error())
			continue
		}
		if !res.Found {
			continue
		}

		if _, err := c.repo.UpsertTerm(ctx, term, res.Definition, Categorize(term)); err != nil {
			return found, errs, err
		}
		content := fmt.Sprintf("%s | Example: %s", res.Definition, res.Example)
		if err := c.repo.RecordMention(ctx, term, model.PlatformUrbanDictionary, content, max(res.Votes, 1)); err != nil {
			return found, errs, err
		}
		found++
	}
	return found, errs, nil
}

// ResearchedTerm is a term the lookup found during research
type ResearchedTerm struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
	Example    string `json:"example"`
	Category   string `json:"category"`
	Votes      int    `json:"votes"`
	Source     string `json:"source"`
}

// ResearchError is a term whose lookup failed
type ResearchError struct {
	Term  string `json:"term"`
	Error string `json:"error"`
}

// ResearchReport is the outcome of targeted research
type ResearchReport struct {
	Found          []ResearchedTerm `json:"found_terms"`
	Missing        []string         `json:"missing_terms"`
	Errors         []ResearchError  `json:"error_terms"`
	TotalProcessed int              `json:"total_processed"`
	Source         string           `json:"source"`
}

// Progress is called before each term is researched
type Progress func(current, total int, term string)

// Research looks up each term, stores found ones with their definition and
// records a research mention. Lookup failures land in the report's errors.
func (c *Collector) Research(ctx context.Context, terms []string, progress Progress) (*ResearchReport, error) {
	if c.lookup == nil {
		return nil, ErrNoLookup
	}

	report := &ResearchReport{
		Found:   []ResearchedTerm{},
		Missing: []string{},
		Errors:  []ResearchError{},
		Source:  "targeted_research",
	}

	for i, raw := range terms {
		term := model.NormalizeTerm(raw)
		if progress != nil {
			progress(i+1, len(terms), term)
		}
		if term == "" {
			continue
		}

		res, err := c.lookup.Define(ctx, term)
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return report, ctx.Err()
			}
			report.Errors = append(report.Errors, ResearchError{Term: term, Error: err.Error()})

		case !res.Found:
			report.Missing = append(report.Missing, term)

		default:
			category := Categorize(term)
			if _, err := c.repo.UpsertTerm(ctx, term, res.Definition, category); err != nil {
				return report, err
			}
			content := "Targeted research: " + truncate(res.Definition, 100)
			if err := c.repo.RecordMention(ctx, term, model.PlatformTargetedResearch, content, max(res.Votes, 1)); err != nil {
				return report, err
			}
			report.Found = append(report.Found, ResearchedTerm{
				Term:       term,
				Definition: res.Definition,
				Example:    res.Example,
				Category:   category,
				Votes:      res.Votes,
				Source:     res.Source,
			})
		}
		report.TotalProcessed++
	}

	c.log.Info("research complete",
		zap.Int("found", len(report.Found)),
		zap.Int("missing", len(report.Missing)),
		zap.Int("errors", len(report.Errors)))

	return report, nil
}

// ApprovalReport is the outcome of approving researched terms
type ApprovalReport struct {
	Approved  int      `json:"approved_count"`
	Requested int      `json:"total_requested"`
	Errors    []string `json:"errors"`
}

// ApproveResearched approves every listed term regardless of its current
// status. Missing terms are reported, not fatal.
func (c *Collector) ApproveResearched(ctx context.Context, terms []string, actor string) (*ApprovalReport, error) {
	if actor == "" {
		actor = model.DefaultActor
	}

	report := &ApprovalReport{Requested: len(terms), Errors: []string{}}
	for _, term := range terms {
		ok, err := c.repo.SetApprovalStatus(ctx, term, model.StatusApproved, actor, "")
		if err != nil {
			return report, err
		}
		if !ok {
			report.Errors = append(report.Errors, "Term not found: "+term)
			continue
		}
		report.Approved++
	}
	return report, nil
}

var termListSplit = regexp.MustCompile(`[,\n]+`)

// ParseTermList splits comma- or newline-separated input into terms
func ParseTermList(s string) []string {
	var terms []string
	for _, part := range termListSplit.Split(strings.TrimSpace(s), -1) {
		if t := strings.TrimSpace(part); t != "" {
			terms = append(terms, t)
		}
	}
	return terms
}

func jitter(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	return time.Duration(rand.Int64N(int64(d)))
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
