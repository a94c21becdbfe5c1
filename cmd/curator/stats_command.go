package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"curator/internal/config"
	"curator/internal/content"
	"curator/internal/store"
)

func newStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show pipeline statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				stats, err := st.Stats(cmd.Context())
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintln(out, renderTable(
					[]string{"Metric", "Count"},
					[][]string{
						{"Total items", strconv.Itoa(stats.TotalItems)},
						{"Unrated items", strconv.Itoa(stats.TotalItems - stats.RatedItems)},
						{"Rated items", strconv.Itoa(stats.RatedItems)},
						{"Published items", strconv.Itoa(stats.PublishedItems)},
						{"Unpublished S/A-tier", strconv.Itoa(stats.UnpublishedTopTier)},
						{"Sources (enabled)", fmt.Sprintf("%d (%d)", stats.Sources, stats.EnabledSources)},
						{"Digests", strconv.Itoa(stats.Digests)},
					},
					[]columnAlignment{alignLeft, alignRight},
				))

				if len(stats.BySource) > 0 {
					rows := make([][]string, 0, len(stats.BySource))
					for _, entry := range stats.BySource {
						rows = append(rows, []string{entry.Name, strconv.Itoa(entry.Items)})
					}
					fmt.Fprintln(out, renderTable(
						[]string{"Source", "Items"},
						rows,
						[]columnAlignment{alignLeft, alignRight},
					))
				}

				if len(stats.ByRating) > 0 {
					rows := make([][]string, 0, len(stats.ByRating))
					for _, rating := range content.AllRatings() {
						if count, ok := stats.ByRating[rating]; ok {
							rows = append(rows, []string{string(rating), strconv.Itoa(count)})
						}
					}
					fmt.Fprintln(out, renderTable(
						[]string{"Rating", "Count"},
						rows,
						[]columnAlignment{alignLeft, alignRight},
					))
				}
				return nil
			})
		},
	}
}
