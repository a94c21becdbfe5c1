package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"curator/internal/config"
	"curator/internal/store"
	"curator/internal/workflow"
)

func newFetchCommand(ctx *commandContext) *cobra.Command {
	var sourceName string
	var days int
	var maxItems int

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch new items from configured sources",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withRunner(func(cfg *config.Config, st *store.Store, runner *workflow.Runner) error {
				summary, err := runner.FetchPass(cmd.Context(), workflow.FetchOptions{
					SourceName:   sourceName,
					LookbackDays: days,
					MaxItems:     maxItems,
				})
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Fetched %d source(s): %d new, %d duplicate(s) skipped\n",
					summary.Sources, summary.NewItems, summary.Skipped)
				if summary.Failures > 0 {
					fmt.Fprintf(out, "%d source(s) failed; see fetch logs\n", summary.Failures)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&sourceName, "source", "s", "", "Fetch only the named source")
	cmd.Flags().IntVarP(&days, "days", "d", 0, "Lookback window in days (default from config)")
	cmd.Flags().IntVar(&maxItems, "max-items", 0, "Per-source item cap (default from config)")
	return cmd
}
