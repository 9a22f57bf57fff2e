// Package source reads posts from the platforms the collector scans.
package source

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/ppiankov/slangwatch/internal/fetch"
)

// Post is one Reddit submission
type Post struct {
	ID        string
	Subreddit string
	Title     string
	Body      string
	Score     int
	Permalink string
	CreatedAt time.Time
}

// Text returns the title and body joined for extraction
func (p Post) Text() string {
	return strings.TrimSpace(p.Title + " " + p.Body)
}

type listing struct {
	Data struct {
		Children []struct {
			Kind string `json:"kind"`
			Data struct {
				ID           string  `json:"id"`
				Subreddit    string  `json:"subreddit"`
				Title        string  `json:"title"`
				Selftext     string  `json:"selftext"`
				SelftextHTML string  `json:"selftext_html"`
				Score        int     `json:"score"`
				Permalink    string  `json:"permalink"`
				CreatedUTC   float64 `json:"created_utc"`
				Stickied     bool    `json:"stickied"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// Reddit reads public subreddit listings
type Reddit struct {
	fetcher *fetch.Fetcher
	baseURL string
}

// NewReddit creates a Reddit source fetching through f
func NewReddit(f *fetch.Fetcher, baseURL string) *Reddit {
	if baseURL == "" {
		baseURL = "https://www.reddit.com"
	}
	return &Reddit{fetcher: f, baseURL: strings.TrimRight(baseURL, "/")}
}

// ListingURL builds the JSON listing URL for a subreddit
func (r *Reddit) ListingURL(subreddit, sort string, limit int) string {
	if sort == "" {
		sort = "hot"
	}
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", fmt.Sprintf("%d", limit))
	}
	u := fmt.Sprintf("%s/r/%s/%s.json", r.baseURL, url.PathEscape(subreddit), url.PathEscape(sort))
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}

// Listing returns the posts of one subreddit listing. Stickied posts are skipped.
func (r *Reddit) Listing(ctx context.Context, subreddit, sort string, limit int) ([]Post, error) {
	var resp listing
	if err := r.fetcher.GetJSON(ctx, r.ListingURL(subreddit, sort, limit), &resp); err != nil {
		return nil, fmt.Errorf("reddit r/%s: %w", subreddit, err)
	}

	posts := make([]Post, 0, len(resp.Data.Children))
	for _, child := range resp.Data.Children {
		d := child.Data
		if child.Kind != "" && child.Kind != "t3" {
			continue
		}
		if d.Stickied {
			continue
		}

		body := strings.TrimSpace(d.Selftext)
		if body == "" && d.SelftextHTML != "" {
			body = fetch.VisibleText(d.SelftextHTML)
		}

		p := Post{
			ID:        d.ID,
			Subreddit: d.Subreddit,
			Title:     strings.TrimSpace(d.Title),
			Body:      body,
			Score:     d.Score,
			Permalink: d.Permalink,
		}
		if d.CreatedUTC > 0 {
			p.CreatedAt = time.Unix(int64(d.CreatedUTC), 0).UTC()
		}
		posts = append(posts, p)
	}
	return posts, nil
}
