package collect

import (
	"fmt"
	"strings"

	"github.com/ppiankov/slangwatch/internal/model"
	"github.com/ppiankov/slangwatch/internal/validate"
)

type categoryTerms struct {
	category string
	terms    []string
}

var categoryMapping = []categoryTerms{
	{"attitude", []string{"vibe", "mood", "slay", "periodt", "fire", "based", "cringe"}},
	{"fashion", []string{"drip", "fit", "outfit", "clean", "fresh", "sick", "hard", "wdywt", "ootd"}},
	{"social", []string{"rizz", "sus", "stan", "flex", "ratio", "simp", "main character"}},
	{"general", []string{"bussin", "bet", "fr", "ngl", "lowkey", "highkey", "mid", "w", "l"}},
	{"gen_alpha", validate.GenAlphaTerms},
}

// Categorize assigns a category from the known term lists, falling back to
// substring hints.
func Categorize(term string) string {
	term = model.NormalizeTerm(term)

	for _, m := range categoryMapping {
		for _, t := range m.terms {
			if t == term {
				return m.category
			}
		}
	}

	switch {
	case validate.IsGenAlpha(term):
		return "gen_alpha"
	case validate.IsFashion(term):
		return "fashion"
	case containsAny(term, "fit", "style", "wear", "look"):
		return "fashion"
	default:
		return model.DefaultCategory
	}
}

// CategorizeDefinition guesses a category from the words of a definition
func CategorizeDefinition(definition string) string {
	d := strings.ToLower(definition)
	switch {
	case containsAny(d, "fashion", "clothing", "style", "outfit", "wear"):
		return "fashion"
	case containsAny(d, "attitude", "feeling", "emotion", "vibe", "mood"):
		return "attitude"
	case containsAny(d, "quality", "good", "bad", "excellent", "poor"):
		return "quality"
	case containsAny(d, "social", "people", "friend", "relationship"):
		return "social"
	case containsAny(d, "lifestyle", "living", "life", "way"):
		return "lifestyle"
	case containsAny(d, "expression", "saying", "phrase", "word"):
		return "expression"
	default:
		return "emerging"
	}
}

// Insight is the enriched view of a researched term shown to moderators
type Insight struct {
	Term             string   `json:"term"`
	Definition       string   `json:"definition"`
	Category         string   `json:"category"`
	UsageExamples    []string `json:"usage_examples"`
	GeographicSpread string   `json:"geographic_spread"`
	Source           string   `json:"source"`
}

// NewInsight derives category, usage examples and spread from a definition
func NewInsight(term, definition, src string) Insight {
	d := strings.ToLower(definition)

	var examples []string
	switch {
	case containsAny(d, "fashion", "style", "clothing"):
		examples = []string{
			fmt.Sprintf("%q - @style_icon", "Your "+term+" is absolutely stunning!"),
			fmt.Sprintf("%q - @fashion_seeker", "Need to upgrade my "+term+" game"),
		}
	case containsAny(d, "good", "cool", "awesome"):
		examples = []string{
			fmt.Sprintf("%q - @gen_z_approved", "That's so "+term+"!"),
			fmt.Sprintf("%q - @trendsetter", "This is "+term+", no cap"),
		}
	case containsAny(d, "bad", "cringe", "embarrassing"):
		examples = []string{
			fmt.Sprintf("%q - @honest_critic", "That's kinda "+term+" ngl"),
			fmt.Sprintf("%q - @self_aware", "Not me being "+term+" again"),
		}
	default:
		examples = []string{
			fmt.Sprintf("%q - @social_observer", "Everyone's talking about "+term),
			fmt.Sprintf("%q - @trend_watcher", "Is "+term+" still a thing?"),
		}
	}

	spread := "National"
	switch {
	case containsAny(d, "urban", "city"):
		spread = "Urban"
	case containsAny(d, "internet", "online"):
		spread = "Global"
	}

	return Insight{
		Term:             term,
		Definition:       definition,
		Category:         CategorizeDefinition(definition),
		UsageExamples:    examples,
		GeographicSpread: spread,
		Source:           src,
	}
}

var trendingPhrases = []string{
	"no cap", "periodt", "hits different", "main character", "it girl",
	"serve", "understood the assignment", "living rent free", "the way",
	"not me", "besties", "chile", "purr", "oop", "and i oop",
	"vsco girl", "soft girl", "dark academia", "cottagecore", "y2k",
}

// Suggestions returns terms worth researching: the Gen Alpha list followed by
// known trending phrases. A non-positive limit returns all of them.
func Suggestions(limit int) []string {
	seen := make(map[string]bool)
	var out []string
	for _, group := range [][]string{validate.GenAlphaTerms, trendingPhrases} {
		for _, t := range group {
			if seen[t] {
				continue
			}
			seen[t] = true
			out = append(out, t)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
