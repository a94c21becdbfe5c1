package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"curator/internal/config"
	"curator/internal/store"
	"curator/internal/workflow"
)

func newDigestCommand(ctx *commandContext) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "digest",
		Short: "Publish a digest of top-tier items",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withRunner(func(cfg *config.Config, st *store.Store, runner *workflow.Runner) error {
				published, err := runner.DigestPass(cmd.Context(), workflow.DigestOptions{WindowDays: days})
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if published == nil {
					fmt.Fprintln(out, "No S/A-tier content to publish")
					return nil
				}
				fmt.Fprintf(out, "Published %d item(s) (%d S-tier, %d A-tier)\n",
					published.ItemCount, published.STierCount, published.ATierCount)
				fmt.Fprintf(out, "Digest written to: %s\n", published.VaultPath)
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&days, "days", "d", 0, "Trailing selection window in days (default from config)")

	cmd.AddCommand(newDigestListCommand(ctx))
	return cmd
}

func newDigestListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List published digests",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				digests, err := st.ListDigests(cmd.Context())
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if len(digests) == 0 {
					fmt.Fprintln(out, "No digests published yet")
					return nil
				}

				rows := make([][]string, 0, len(digests))
				for _, d := range digests {
					rows = append(rows, []string{
						strconv.FormatInt(d.ID, 10),
						d.CreatedAt.Format("2006-01-02"),
						strconv.Itoa(d.ItemCount),
						strconv.Itoa(d.STierCount),
						strconv.Itoa(d.ATierCount),
						d.VaultPath,
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"ID", "Created", "Items", "S", "A", "Path"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignRight, alignRight, alignRight, alignLeft},
				))
				return nil
			})
		},
	}
}
