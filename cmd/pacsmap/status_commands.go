package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/guillaume-flambard/pacs-dog-map/internal/config"
	"github.com/guillaume-flambard/pacs-dog-map/internal/store"
)

func newCompleteCommand(app *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "complete <id>...",
		Short: "Mark records as rescued or resolved",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatusChange(cmd, app, args, func(ctx context.Context, st *store.Store, ids []string) (store.MutationResult, error) {
				return st.Complete(ctx, ids)
			})
		},
	}
}

func newReopenCommand(app *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reopen <id>...",
		Short: "Reset completed records back to pending",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatusChange(cmd, app, args, func(ctx context.Context, st *store.Store, ids []string) (store.MutationResult, error) {
				return st.Reopen(ctx, ids)
			})
		},
	}
}

func runStatusChange(cmd *cobra.Command, app *appContext, ids []string, change func(context.Context, *store.Store, []string) (store.MutationResult, error)) error {
	return app.withStore(func(cfg *config.Config, st *store.Store) error {
		result, err := change(cmd.Context(), st, ids)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(result.Applied) > 0 {
			fmt.Fprintf(out, "applied: %s\n", strings.Join(result.Applied, ", "))
		}
		if len(result.Unchanged) > 0 {
			fmt.Fprintf(out, "unchanged: %s\n", strings.Join(result.Unchanged, ", "))
		}
		if len(result.NotFound) > 0 {
			fmt.Fprintf(out, "not found: %s\n", strings.Join(result.NotFound, ", "))
		}
		return nil
	})
}
