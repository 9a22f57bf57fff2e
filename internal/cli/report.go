package cli

import (
	"context"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/slangwatch/internal/model"
	"github.com/ppiankov/slangwatch/internal/score"
)

var (
	trendingLimit  int
	trendingStatus string
	jsonOutput     bool
	rollupDate     string
	rollupWindow   int
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show term and mention counts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		stats, err := a.store.Stats(context.Background())
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(stats)
		}

		fmt.Printf("Total terms:       %d\n", stats.TotalTerms)
		fmt.Printf("  approved:        %d\n", stats.ApprovedTerms)
		fmt.Printf("  pending:         %d\n", stats.PendingTerms)
		fmt.Printf("  rejected:        %d\n", stats.RejectedTerms)
		fmt.Printf("  placeholders:    %d\n", stats.PlaceholderTerms)
		fmt.Printf("Total mentions:    %d\n", stats.TotalMentions)
		fmt.Printf("Mentions today:    %d\n", stats.TodayMentions)

		platforms := make([]string, 0, len(stats.Platforms))
		for p := range stats.Platforms {
			platforms = append(platforms, p)
		}
		sort.Strings(platforms)
		for _, p := range platforms {
			fmt.Printf("  %-28s %d\n", p+":", stats.Platforms[p])
		}
		return nil
	},
}

var trendingCmd = &cobra.Command{
	Use:   "trending",
	Short: "List terms ranked by mentions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		terms, err := a.store.Trending(context.Background(), trendingLimit, trendingStatus)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(terms)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "TERM\tSTATUS\tMENTIONS\tAVG\tCATEGORY\tDEFINITION")
		for _, t := range terms {
			fmt.Fprintf(w, "%s\t%s\t%d\t%.1f\t%s\t%s\n",
				t.Term, t.ApprovalStatus, t.Mentions, t.AvgEngagement, t.Category, truncateLine(t.Definition, 50))
		}
		return w.Flush()
	},
}

var rollupCmd = &cobra.Command{
	Use:   "rollup",
	Short: "Write the daily trend rows for a day",
	Long: `Rollup aggregates one day's mentions per term and stores mention count,
total engagement and momentum (the day's count relative to the trailing
daily average).

Example:
  slangwatch rollup
  slangwatch rollup --date 2024-05-01`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		day := time.Now().UTC()
		if rollupDate != "" {
			d, err := time.Parse(score.DayLayout, rollupDate)
			if err != nil {
				return fmt.Errorf("invalid --date: %w", err)
			}
			day = d
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		n, err := a.store.RollupDailyTrends(context.Background(), day, score.NewScorer(rollupWindow))
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "✓ Wrote %d trend rows for %s\n", n, day.Format(score.DayLayout))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(trendingCmd)
	rootCmd.AddCommand(rollupCmd)

	for _, c := range []*cobra.Command{statsCmd, trendingCmd} {
		c.Flags().BoolVar(&jsonOutput, "json", false, "print JSON")
	}
	trendingCmd.Flags().IntVar(&trendingLimit, "limit", 20, "maximum terms (0 for all)")
	trendingCmd.Flags().StringVar(&trendingStatus, "status", model.StatusAll, "approval status filter (all, pending, approved, rejected)")
	rollupCmd.Flags().StringVar(&rollupDate, "date", "", "day to roll up, YYYY-MM-DD (default: today, UTC)")
	rollupCmd.Flags().IntVar(&rollupWindow, "window", score.DefaultWindow, "trailing days averaged for momentum")
}
