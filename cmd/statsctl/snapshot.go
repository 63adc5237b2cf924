package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/covid19-tracker-bot/internal/adapter/source"
	"github.com/couchcryptid/covid19-tracker-bot/internal/app"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot <dir>",
	Short: "Save every provider payload to a directory",
	Long:  "Fetch the documents behind all reports and write them to <dir>, for offline reports, validation and test fixtures.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv()
		if err != nil {
			return err
		}
		client := source.NewClient(e.cfg.FetchTimeout, e.metrics, e.logger)
		docs := source.Documents(app.Endpoints(e.cfg))
		if err := source.SaveSnapshot(cmd.Context(), client, docs, args[0]); err != nil {
			return err
		}
		for _, d := range docs {
			fmt.Fprintf(cmd.OutOrStdout(), "%-26s %s\n", d.File, d.URL)
		}
		return nil
	},
}
