package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"curator/internal/config"
	"curator/internal/store"
	"curator/internal/workflow"
)

func newRateCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "rate",
		Short: "Rate unrated items via the fabric rating tool",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withRunner(func(cfg *config.Config, st *store.Store, runner *workflow.Runner) error {
				summary, err := runner.RatePass(cmd.Context(), workflow.RateOptions{Limit: limit})
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if summary.Attempted == 0 {
					fmt.Fprintln(out, "No unrated items")
					return nil
				}
				fmt.Fprintf(out, "Rated %d of %d item(s)", summary.Rated, summary.Attempted)
				if summary.Failed > 0 {
					fmt.Fprintf(out, ", %d failed (will retry on a later run)", summary.Failed)
				}
				fmt.Fprintln(out)
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum items to rate this pass (default from config)")
	return cmd
}
