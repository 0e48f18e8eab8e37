package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/guillaume-flambard/pacs-dog-map/internal/config"
	"github.com/guillaume-flambard/pacs-dog-map/internal/render"
	"github.com/guillaume-flambard/pacs-dog-map/internal/store"
)

func newGenerateCommand(app *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Render the map page from the local store",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withStore(func(cfg *config.Config, st *store.Store) error {
				if err := generateMap(cmd.Context(), cfg, st, app); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "map written to %s\n", cfg.OutputMapPath)
				return nil
			})
		},
	}
}

func generateMap(ctx context.Context, cfg *config.Config, st *store.Store, app *appContext) error {
	records, err := st.List(ctx, store.Filter{})
	if err != nil {
		return err
	}
	stats, err := st.Stats(ctx)
	if err != nil {
		return err
	}
	return render.WriteMap(records, stats, app.mapOptions(cfg), cfg.OutputMapPath)
}
