// Package extract finds candidate slang terms in free text.
package extract

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ppiankov/slangwatch/internal/metrics"
	"github.com/ppiankov/slangwatch/internal/model"
	"github.com/ppiankov/slangwatch/internal/validate"
)

const (
	maxCandidates = 10
	contextLen    = 200
	minTermLen    = 3
	maxTermLen    = 15
)

// Checker decides whether a term found by a pattern is slang
type Checker interface {
	IsSlang(ctx context.Context, term string) bool
}

type slangPattern struct {
	name       string
	re         *regexp.Regexp
	confidence float64
}

type listTerm struct {
	term string
	re   *regexp.Regexp
}

// CandidateExtractor finds allow-listed terms and pattern matches in text
type CandidateExtractor struct {
	checker  Checker
	fashion  []listTerm
	genAlpha []listTerm
	patterns []slangPattern
}

// NewCandidateExtractor creates an extractor validating pattern matches with checker
func NewCandidateExtractor(checker Checker) *CandidateExtractor {
	return &CandidateExtractor{
		checker:  checker,
		fashion:  compileList(validate.FashionWhitelist),
		genAlpha: compileList(validate.GenAlphaTerms),
		patterns: []slangPattern{
			{model.PatternQuoted, regexp.MustCompile(`"([^"]{2,20})"`), 0.5},
			{model.PatternDefinition, regexp.MustCompile(`(?:means?|basically|like|is when)\s+([a-zA-Z]{2,15})`), 0.7},
			{model.PatternSocialIndicators, regexp.MustCompile(`([a-zA-Z]{3,15})\s+(?:🔥|👀|fr|ngl|lowkey|highkey|slaps|hits different)`), 0.5},
			{model.PatternNewTerm, regexp.MustCompile(`(?:new|trending|fresh)\s+(?:word|term|slang)\s+([a-zA-Z]{3,15})`), 0.5},
			{model.PatternExplanation, regexp.MustCompile(`([a-zA-Z]{3,15})\s+(?:means|is)\s+`), 0.5},
		},
	}
}

// compileList builds whole-word matchers. Single letters ("w", "l") are left
// out because they match any standalone letter.
func compileList(terms []string) []listTerm {
	out := make([]listTerm, 0, len(terms))
	for _, t := range terms {
		t = strings.ToLower(t)
		if utf8.RuneCountInString(t) < 2 {
			continue
		}
		out = append(out, listTerm{term: t, re: regexp.MustCompile(`\b` + regexp.QuoteMeta(t) + `\b`)})
	}
	return out
}

// Extract returns up to ten candidates, highest confidence first
func (e *CandidateExtractor) Extract(ctx context.Context, text, platform string) []model.Candidate {
	if utf8.RuneCountInString(strings.TrimSpace(text)) < minTermLen {
		return nil
	}

	lower := strings.ToLower(text)
	snippet := truncate(text, contextLen)
	emitted := make(map[string]bool)
	var candidates []model.Candidate

	add := func(term, pattern string, confidence float64) {
		emitted[term] = true
		candidates = append(candidates, model.Candidate{
			Term:           term,
			Context:        snippet,
			Pattern:        pattern,
			Confidence:     confidence,
			SourcePlatform: platform,
		})
	}

	for _, lt := range e.fashion {
		if lt.re.MatchString(lower) {
			add(lt.term, model.PatternFashionWhitelist, 0.9)
		}
	}
	for _, lt := range e.genAlpha {
		if lt.re.MatchString(lower) {
			add(lt.term, model.PatternGenAlpha, 0.95)
		}
	}

	for _, p := range e.patterns {
		for _, m := range p.re.FindAllStringSubmatch(lower, -1) {
			term := strings.TrimSpace(m[1])
			if !plausibleTerm(term) || emitted[term] {
				continue
			}
			if e.checker != nil && !e.checker.IsSlang(ctx, term) {
				continue
			}
			add(term, p.name, p.confidence)
		}
	}

	return rank(candidates)
}

// plausibleTerm applies the cheap filters before any lookup
func plausibleTerm(term string) bool {
	n := utf8.RuneCountInString(term)
	if n < minTermLen || n > maxTermLen || validate.IsBlacklisted(term) {
		return false
	}

	digits := true
	for _, r := range term {
		if !unicode.IsDigit(r) {
			digits = false
		}
		if !unicode.IsLetter(r) && r != ' ' && r != '-' {
			return false
		}
	}
	return !digits
}

// rank keeps the highest-confidence entry per term and caps the result
func rank(candidates []model.Candidate) []model.Candidate {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Confidence > candidates[j].Confidence
	})

	seen := make(map[string]bool)
	var out []model.Candidate
	for _, c := range candidates {
		if seen[c.Term] {
			continue
		}
		seen[c.Term] = true
		out = append(out, c)
		metrics.CandidatesExtracted.WithLabelValues(c.Pattern).Inc()
		if len(out) == maxCandidates {
			break
		}
	}
	return out
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
