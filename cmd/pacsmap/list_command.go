package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/guillaume-flambard/pacs-dog-map/internal/config"
	"github.com/guillaume-flambard/pacs-dog-map/internal/domain"
	"github.com/guillaume-flambard/pacs-dog-map/internal/store"
)

func newListCommand(app *appContext) *cobra.Command {
	var statusFlag string
	var temperamentFlag string
	var byPriority bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tracked animal records",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := store.Filter{ByPriority: byPriority}
			if statusFlag != "" {
				status := domain.Status(statusFlag)
				if status != domain.StatusPending && status != domain.StatusCompleted {
					return fmt.Errorf("unknown status %q", statusFlag)
				}
				filter.Status = status
			}
			if temperamentFlag != "" {
				filter.Temperament = domain.Temperament(temperamentFlag)
			}

			return app.withStore(func(cfg *config.Config, st *store.Store) error {
				records, err := st.List(cmd.Context(), filter)
				if err != nil {
					return err
				}
				if len(records) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "no records")
					return nil
				}

				headers := []string{"#", "ID", "Area", "Species", "Count", "Temperament", "Pregnant", "Resolved", "Status"}
				aligns := []columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignLeft, alignLeft, alignLeft}
				rows := make([][]string, 0, len(records))
				for i, rec := range records {
					rows = append(rows, []string{
						strconv.Itoa(i + 1),
						rec.ID,
						rec.LocationArea,
						string(rec.Species),
						strconv.Itoa(rec.AnimalCount),
						string(rec.Temperament),
						yesNo(rec.Pregnant),
						yesNo(rec.Resolved),
						string(rec.Status),
					})
				}

				fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, aligns))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&statusFlag, "status", "", "Filter by status (pending or completed)")
	cmd.Flags().StringVar(&temperamentFlag, "temperament", "", "Filter by temperament (friendly, shy, wild)")
	cmd.Flags().BoolVar(&byPriority, "priority", false, "Show pending records in rescue-priority order")

	return cmd
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
