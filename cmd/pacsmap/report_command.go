package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/guillaume-flambard/pacs-dog-map/internal/config"
	"github.com/guillaume-flambard/pacs-dog-map/internal/render"
	"github.com/guillaume-flambard/pacs-dog-map/internal/store"
)

func newReportCommand(app *appContext) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write the printable field report CSV, pending records in priority order",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withStore(func(cfg *config.Config, st *store.Store) error {
				records, err := st.List(cmd.Context(), store.Filter{ByPriority: true})
				if err != nil {
					return err
				}

				path := output
				if path == "" {
					path = cfg.ReportPath
				}
				if err := render.WriteFieldReport(records, path); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "report written to %s (%d records)\n", path, len(records))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Report path (defaults to REPORT_PATH)")

	return cmd
}
