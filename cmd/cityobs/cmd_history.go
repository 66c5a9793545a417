package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/cityobservatory/cityobservatory/internal/archive"
	"github.com/cityobservatory/cityobservatory/internal/location"
	"github.com/cityobservatory/cityobservatory/internal/textview"
)

func newHistoryCmd(e *env) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history <city>",
		Short: "Show the archived summaries of a city",
		Long: `Show the archived summaries of a city, newest first.

History is only kept across runs with ARCHIVE_BACKEND=postgres.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := location.Lookup(args[0])
			if err != nil {
				return err
			}

			records, err := e.services.Archive.History(cmd.Context(), loc.ID, limit)
			if err != nil {
				return err
			}
			return e.print(cmd.OutOrStdout(), records, func(w io.Writer) error {
				return textview.History(w, records)
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", archive.DefaultLimit, "number of records")
	return cmd
}
