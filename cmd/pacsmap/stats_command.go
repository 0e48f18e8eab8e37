package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/guillaume-flambard/pacs-dog-map/internal/config"
	"github.com/guillaume-flambard/pacs-dog-map/internal/domain"
	"github.com/guillaume-flambard/pacs-dog-map/internal/store"
)

func newStatsCommand(app *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarize the tracked record set",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withStore(func(cfg *config.Config, st *store.Store) error {
				stats, err := st.Stats(cmd.Context())
				if err != nil {
					return err
				}

				rows := [][]string{
					{"Total", strconv.Itoa(stats.Total)},
					{"Pending", strconv.Itoa(stats.ByStatus[domain.StatusPending])},
					{"Completed", strconv.Itoa(stats.ByStatus[domain.StatusCompleted])},
					{"Resolved locations", strconv.Itoa(stats.Resolved)},
					{"Unresolved locations", strconv.Itoa(stats.Unresolved)},
					{"Stale coordinates", strconv.Itoa(stats.StaleCoordinates)},
					{"Pregnant", strconv.Itoa(stats.Pregnant)},
				}
				for _, temperament := range []domain.Temperament{
					domain.TemperamentFriendly,
					domain.TemperamentShy,
					domain.TemperamentWild,
				} {
					if n := stats.ByTemperament[temperament]; n > 0 {
						rows = append(rows, []string{"Temperament " + string(temperament), strconv.Itoa(n)})
					}
				}

				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Metric", "Value"},
					rows,
					[]columnAlignment{alignLeft, alignRight},
				))
				return nil
			})
		},
	}
}
