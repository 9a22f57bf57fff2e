package lookup

import (
	"context"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/ppiankov/slangwatch/internal/fetch"
)

const (
	maxDefinitionLen = 300
	maxExampleLen    = 200
)

// UrbanDictionary queries the public Urban Dictionary JSON API
type UrbanDictionary struct {
	fetcher *fetch.Fetcher
	baseURL string
}

type urbanResponse struct {
	List []urbanEntry `json:"list"`
}

type urbanEntry struct {
	Word       string `json:"word"`
	Definition string `json:"definition"`
	Example    string `json:"example"`
	ThumbsUp   int    `json:"thumbs_up"`
	ThumbsDown int    `json:"thumbs_down"`
}

// NewUrbanDictionary creates a provider fetching through f
func NewUrbanDictionary(f *fetch.Fetcher, baseURL string) *UrbanDictionary {
	if baseURL == "" {
		baseURL = "https://api.urbandictionary.com/v0"
	}
	return &UrbanDictionary{
		fetcher: f,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Name returns the provider name
func (u *UrbanDictionary) Name() string {
	return "urban_dictionary"
}

// Define returns the top-ranked entry for term
func (u *UrbanDictionary) Define(ctx context.Context, term string) (*Result, error) {
	endpoint := u.baseURL + "/define?term=" + url.QueryEscape(term)

	var resp urbanResponse
	if err := u.fetcher.GetJSON(ctx, endpoint, &resp); err != nil {
		return nil, &Error{Provider: u.Name(), Term: term, Err: err}
	}

	if len(resp.List) == 0 {
		return &Result{Term: term, Source: u.Name()}, nil
	}

	top := resp.List[0]
	def := cleanEntryText(top.Definition)
	if def == "" {
		return &Result{Term: term, Source: u.Name()}, nil
	}

	return &Result{
		Term:       term,
		Found:      true,
		Definition: truncate(def, maxDefinitionLen),
		Example:    truncate(cleanEntryText(top.Example), maxExampleLen),
		Votes:      top.ThumbsUp - top.ThumbsDown,
		Source:     u.Name(),
	}, nil
}

// cleanEntryText drops the [link] brackets and carriage returns of entry text
func cleanEntryText(s string) string {
	s = strings.NewReplacer("[", "", "]", "", "\r", "").Replace(s)
	return strings.TrimSpace(s)
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
