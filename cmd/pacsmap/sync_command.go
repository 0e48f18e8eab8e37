package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/guillaume-flambard/pacs-dog-map/internal/config"
	"github.com/guillaume-flambard/pacs-dog-map/internal/store"
)

func newSyncCommand(app *appContext) *cobra.Command {
	var generate bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Fetch the sheet snapshot and merge it into the local store",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withStore(func(cfg *config.Config, st *store.Store) error {
				syncer := app.newSyncer(cfg, st)
				result, err := syncer.Run(cmd.Context())
				if err != nil {
					return err
				}

				fmt.Fprintln(cmd.OutOrStdout(), result.Summary())
				fmt.Fprintf(cmd.OutOrStdout(), "inserted %d, updated %d, coordinates preserved %d\n",
					result.Merge.Inserted, result.Merge.Updated, result.Merge.CoordinatesPreserved)

				if !generate {
					return nil
				}
				if err := generateMap(cmd.Context(), cfg, st, app); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "map written to %s\n", cfg.OutputMapPath)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&generate, "generate", false, "Regenerate the map after syncing")

	return cmd
}
