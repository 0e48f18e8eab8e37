package main

import (
	"context"
	"errors"
	"net/http"

	"github.com/spf13/cobra"

	httpadapter "github.com/guillaume-flambard/pacs-dog-map/internal/adapter/http"
	"github.com/guillaume-flambard/pacs-dog-map/internal/config"
	"github.com/guillaume-flambard/pacs-dog-map/internal/store"
)

func newServeCommand(app *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server with the live map, sync webhook, and metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withStore(func(cfg *config.Config, st *store.Store) error {
				syncer := app.newSyncer(cfg, st)
				server := httpadapter.NewServer(
					cfg.HTTPAddr,
					st,
					syncer,
					app.mapOptions(cfg),
					cfg.OutputMapPath,
					app.logger,
				)

				errCh := make(chan error, 1)
				go func() {
					errCh <- server.Start()
				}()

				select {
				case err := <-errCh:
					return err
				case <-cmd.Context().Done():
				}

				app.logger.Info("shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					return err
				}
				if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
		},
	}
}
