package main

import (
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cityobservatory/cityobservatory/internal/location"
	"github.com/cityobservatory/cityobservatory/internal/textview"
)

func newCitiesCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "cities",
		Short: "List the built-in cities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cities := location.Cities()
			return e.print(cmd.OutOrStdout(), cities, func(w io.Writer) error {
				return textview.Cities(w, cities)
			})
		},
	}
}

func newSearchCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:     "search <query>",
		Short:   "Search places by name",
		Example: "  cityobs search 京都",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := e.services.Searcher.Search(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			return e.print(cmd.OutOrStdout(), results, func(w io.Writer) error {
				return textview.Cities(w, results)
			})
		},
	}
}
