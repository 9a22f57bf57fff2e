package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/slangwatch/internal/collect"
)

var (
	collectSubreddits []string
	collectPosts      int
	collectTimeout    time.Duration
	researchApprove   bool
	researchFile      string
	suggestLimit      int
)

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Collect slang mentions from Reddit and Urban Dictionary",
	Long: `Collect scans the configured subreddits for slang candidates, records a
mention for each one, then looks up the popular term list.

Example:
  slangwatch collect
  slangwatch collect --subreddit streetwear --subreddit GenZ --posts 50`,
	Args: cobra.NoArgs,
	RunE: runCollect,
}

var researchCmd = &cobra.Command{
	Use:   "research [terms...]",
	Short: "Look up specific terms and store what is found",
	Long: `Research looks up each term, stores found terms with their definition
and records a research mention.

Terms may be given as arguments or as a comma- or newline-separated file.

Example:
  slangwatch research rizz "fanum tax" delulu
  slangwatch research --file terms.txt --approve`,
	RunE: runResearch,
}

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "List terms worth researching",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		suggestions := collect.Suggestions(suggestLimit)
		fmt.Fprintf(os.Stderr, "Research suggestions (%d terms):\n", len(suggestions))
		for i, term := range suggestions {
			fmt.Printf("%2d. %s\n", i+1, term)
		}
	},
}

func init() {
	rootCmd.AddCommand(collectCmd)
	rootCmd.AddCommand(researchCmd)
	rootCmd.AddCommand(suggestCmd)

	collectCmd.Flags().StringSliceVar(&collectSubreddits, "subreddit", nil, "subreddit to scan (repeatable, overrides scraper.subreddits)")
	collectCmd.Flags().IntVar(&collectPosts, "posts", 0, "posts per subreddit (overrides scraper.posts_per_subreddit)")
	collectCmd.Flags().DurationVar(&collectTimeout, "timeout", 30*time.Minute, "overall collection timeout")

	researchCmd.Flags().BoolVar(&researchApprove, "approve", false, "approve every term that was found")
	researchCmd.Flags().StringVar(&researchFile, "file", "", "read terms from a file")

	suggestCmd.Flags().IntVar(&suggestLimit, "limit", 20, "maximum suggestions (0 for all)")
}

func runCollect(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if len(collectSubreddits) > 0 {
		a.cfg.Scraper.Subreddits = collectSubreddits
	}
	if collectPosts > 0 {
		a.cfg.Scraper.PostsPerSubreddit = collectPosts
	}

	c, err := a.collector()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), collectTimeout)
	defer cancel()

	fmt.Fprintf(os.Stderr, "Collecting from %d subreddits...\n", len(a.cfg.Scraper.Subreddits))
	report, err := c.Collect(ctx)
	if report != nil {
		fmt.Fprintf(os.Stderr, "✓ Reddit mentions: %d\n", report.RedditMentions)
		fmt.Fprintf(os.Stderr, "✓ Lookup terms: %d\n", report.UrbanDictionaryTerms)
		fmt.Fprintf(os.Stderr, "✓ Unique candidates: %d\n", report.TotalCandidates)
		fmt.Fprintf(os.Stderr, "  Platforms: %s\n", strings.Join(report.Platforms, ", "))
		for _, e := range report.Errors {
			fmt.Fprintf(os.Stderr, "  ! %s\n", e)
		}
	}
	if err != nil {
		return fmt.Errorf("collection failed: %w", err)
	}
	return nil
}

func runResearch(cmd *cobra.Command, args []string) error {
	terms := append([]string{}, args...)
	if researchFile != "" {
		data, err := os.ReadFile(researchFile)
		if err != nil {
			return fmt.Errorf("read terms file: %w", err)
		}
		terms = append(terms, collect.ParseTermList(string(data))...)
	}
	if len(terms) == 0 {
		return fmt.Errorf("no terms given")
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	c, err := a.collector()
	if err != nil {
		return err
	}

	ctx := context.Background()
	report, err := c.Research(ctx, terms, func(current, total int, term string) {
		fmt.Fprintf(os.Stderr, "  Researching %q (%d/%d)\n", term, current, total)
	})
	if err != nil {
		return fmt.Errorf("research failed: %w", err)
	}

	for _, f := range report.Found {
		fmt.Fprintf(os.Stderr, "✓ %s [%s]: %s\n", f.Term, f.Category, truncateLine(f.Definition, 60))
	}
	for _, m := range report.Missing {
		fmt.Fprintf(os.Stderr, "✗ %s: not found\n", m)
	}
	for _, e := range report.Errors {
		fmt.Fprintf(os.Stderr, "! %s: %s\n", e.Term, e.Error)
	}

	out := map[string]any{"research": report}
	if researchApprove && len(report.Found) > 0 {
		names := make([]string, 0, len(report.Found))
		for _, f := range report.Found {
			names = append(names, f.Term)
		}
		approval, err := c.ApproveResearched(ctx, names, "cli")
		if err != nil {
			return fmt.Errorf("approve: %w", err)
		}
		fmt.Fprintf(os.Stderr, "✓ Approved %d of %d\n", approval.Approved, approval.Requested)
		out["approval"] = approval
	}

	return printJSON(out)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncateLine(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
