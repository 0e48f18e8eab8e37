package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	app := newAppContext()

	rootCmd := &cobra.Command{
		Use:           "pacsmap",
		Short:         "Sync animal sightings from the PACS sheet and publish the rescue map",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.AddCommand(newSyncCommand(app))
	rootCmd.AddCommand(newGenerateCommand(app))
	rootCmd.AddCommand(newListCommand(app))
	rootCmd.AddCommand(newCompleteCommand(app))
	rootCmd.AddCommand(newReopenCommand(app))
	rootCmd.AddCommand(newStatsCommand(app))
	rootCmd.AddCommand(newReportCommand(app))
	rootCmd.AddCommand(newServeCommand(app))

	return rootCmd
}
