package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/slangwatch/internal/seed"
)

var (
	seedMentions int
	seedApprove  bool
	seedRandom   int64
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Populate the database with sample terms",
	Long: `Seed writes a curated set of slang terms with definitions plus generated
mentions, for development and demos.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		res, err := seed.Populate(context.Background(), a.store, seed.Options{
			MaxMentions: seedMentions,
			Approve:     seedApprove,
			Seed:        seedRandom,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "✓ Seeded %d terms, %d mentions, %d approved\n", res.Terms, res.Mentions, res.Approved)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().IntVar(&seedMentions, "mentions", 10, "maximum generated mentions per term")
	seedCmd.Flags().BoolVar(&seedApprove, "approve", false, "approve the curated terms")
	seedCmd.Flags().Int64Var(&seedRandom, "seed", 0, "random seed (0 uses the clock)")
}
