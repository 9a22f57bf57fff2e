// Package seed fills a database with sample terms and generated mentions for
// development and demos.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/ppiankov/slangwatch/internal/model"
	"github.com/ppiankov/slangwatch/internal/store"
)

// Sample is a seeded term with a real definition
type Sample struct {
	Term       string
	Definition string
	Category   string
}

// Samples are the curated terms every seed run writes
var Samples = []Sample{
	{"drip", "Fashionable, stylish clothing or accessories", "fashion"},
	{"fit", "An outfit or overall style of clothing", "fashion"},
	{"slay", "To do something exceptionally well or look amazing", "attitude"},
	{"mid", "Average, mediocre, or disappointing", "quality"},
	{"fire", "Something that is excellent, amazing, or outstanding", "attitude"},
	{"bussin", "Extremely good or excellent", "expression"},
	{"no cap", "No lie, telling the truth", "expression"},
	{"bet", "Agreement, okay, or for sure", "expression"},
	{"periodt", "Period, end of discussion", "expression"},
	{"vibe", "A feeling or atmosphere", "attitude"},
	{"aesthetic", "A particular style or visual appearance", "fashion"},
	{"basic", "Mainstream or unoriginal", "quality"},
	{"flex", "To show off or boast", "attitude"},
	{"sus", "Suspicious or questionable", "quality"},
	{"stan", "To be a big fan of someone or something", "social"},
	{"mood", "Relatable feeling or situation", "attitude"},
	{"iconic", "Legendary or memorable", "quality"},
	{"serve", "To deliver excellence", "attitude"},
	{"based", "Being true to yourself regardless of others opinions", "attitude"},
	{"cringe", "Embarrassing or awkward", "quality"},
}

// Extras are seeded with a generic definition and a random category
var Extras = []string{
	"lowkey", "highkey", "deadass", "facts", "valid", "ate", "snapped", "bestie",
	"toxic", "wholesome", "ratio", "cope", "smol", "menace", "glow up", "bougie",
	"cheugy", "say less", "soft launch", "slaps", "banger", "main character",
	"side quest", "green flag", "red flag", "unhinged", "touch grass", "down bad",
	"caught in 4k", "galaxy brain", "villain era", "understood the assignment",
	"rent free", "sending me", "malding",
}

var (
	extraCategories = []string{"fashion", "attitude", "quality", "social", "lifestyle", "expression"}
	platforms       = []string{"reddit", "reddit", "reddit", "urban_dictionary"}
	subreddits      = []string{"teenagers", "GenZ", "streetwear", "fashion", "memes"}
)

// Options controls a seed run
type Options struct {
	MaxMentions int   // Upper bound of generated mentions per term; 0 writes terms only
	Approve     bool  // Approve the curated samples
	Seed        int64 // Random seed; 0 uses the clock
}

// Result counts what a seed run wrote
type Result struct {
	Terms    int `json:"terms"`
	Mentions int `json:"mentions"`
	Approved int `json:"approved"`
}

// Populate writes the sample terms, random mentions and optional approvals
func Populate(ctx context.Context, repo store.Repository, opts Options) (*Result, error) {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	faker := gofakeit.New(seed)

	all := make([]Sample, 0, len(Samples)+len(Extras))
	all = append(all, Samples...)
	for _, term := range Extras {
		all = append(all, Sample{
			Term:       term,
			Definition: "Popular slang term: " + term,
			Category:   faker.RandomString(extraCategories),
		})
	}

	res := &Result{}
	for _, s := range all {
		if _, err := repo.UpsertTerm(ctx, s.Term, s.Definition, s.Category); err != nil {
			return res, fmt.Errorf("seed %q: %w", s.Term, err)
		}
		res.Terms++

		if opts.MaxMentions <= 0 {
			continue
		}
		n := faker.Number(0, opts.MaxMentions)
		for i := 0; i < n; i++ {
			platform := faker.RandomString(platforms)
			content := fmt.Sprintf("%s %s", faker.Sentence(6), s.Term)
			if platform == model.PlatformReddit {
				content = fmt.Sprintf("r/%s: %s", faker.RandomString(subreddits), content)
			}
			if err := repo.RecordMention(ctx, s.Term, platform, content, faker.Number(1, 100)); err != nil {
				return res, fmt.Errorf("seed mention %q: %w", s.Term, err)
			}
			res.Mentions++
		}
	}

	if opts.Approve {
		terms := make([]string, 0, len(Samples))
		for _, s := range Samples {
			terms = append(terms, s.Term)
		}
		n, err := repo.BulkApprove(ctx, terms, "seed")
		res.Approved = n
		if err != nil {
			return res, err
		}
	}

	return res, nil
}
