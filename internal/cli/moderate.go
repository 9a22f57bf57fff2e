package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	moderateActor string
	rejectReason  string
	cleanupApply  bool
)

var approveCmd = &cobra.Command{
	Use:   "approve <terms...>",
	Short: "Approve terms for the public dictionary",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		for _, term := range args {
			ok, err := a.store.Approve(context.Background(), term, moderateActor)
			if err != nil {
				return err
			}
			report(ok, "Approved", term)
		}
		return nil
	},
}

var rejectCmd = &cobra.Command{
	Use:   "reject <terms...>",
	Short: "Reject terms",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		for _, term := range args {
			ok, err := a.store.Reject(context.Background(), term, moderateActor, rejectReason)
			if err != nil {
				return err
			}
			report(ok, "Rejected", term)
		}
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <terms...>",
	Short: "Delete terms with all their mentions",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		n, err := a.store.BulkDelete(context.Background(), args)
		fmt.Fprintf(os.Stderr, "✓ Deleted %d of %d\n", n, len(args))
		return err
	},
}

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove single-mention terms without a real definition",
	Long: `Cleanup lists terms that have at most one mention and no real definition.
Nothing is deleted unless --apply is given.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		rep, err := a.store.Cleanup(context.Background(), !cleanupApply)
		if err != nil {
			return err
		}
		for _, t := range rep.Candidates {
			fmt.Println(t)
		}
		if rep.DryRun {
			fmt.Fprintf(os.Stderr, "%d candidates (dry run, use --apply to delete)\n", len(rep.Candidates))
		} else {
			fmt.Fprintf(os.Stderr, "✓ Deleted %d terms\n", rep.Deleted)
		}
		return nil
	},
}

func report(ok bool, verb, term string) {
	if ok {
		fmt.Fprintf(os.Stderr, "✓ %s %s\n", verb, term)
	} else {
		fmt.Fprintf(os.Stderr, "✗ %s: term not found\n", term)
	}
}

func init() {
	rootCmd.AddCommand(approveCmd)
	rootCmd.AddCommand(rejectCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(cleanupCmd)

	for _, c := range []*cobra.Command{approveCmd, rejectCmd} {
		c.Flags().StringVar(&moderateActor, "actor", "cli", "moderator name recorded with the decision")
	}
	rejectCmd.Flags().StringVar(&rejectReason, "reason", "", "rejection reason")
	cleanupCmd.Flags().BoolVar(&cleanupApply, "apply", false, "delete the candidates")
}
