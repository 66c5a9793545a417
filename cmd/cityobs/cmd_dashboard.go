package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/cityobservatory/cityobservatory/internal/location"
	"github.com/cityobservatory/cityobservatory/internal/series"
	"github.com/cityobservatory/cityobservatory/internal/textview"
)

func newDashboardCmd(e *env) *cobra.Command {
	var (
		rangeFlag string
		lat, lon  string
		timezone  string
		archive   bool
	)

	cmd := &cobra.Command{
		Use:   "dashboard [city]",
		Short: "Show the dashboard of a city",
		Example: `  cityobs dashboard osaka --range 7d
  cityobs dashboard --lat 35.0116 --lon 135.7681 --tz Asia/Tokyo`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := series.ParseRange(rangeFlag)
			if err != nil {
				return err
			}

			loc := e.cfg.DefaultLocation()
			switch {
			case len(args) == 1:
				if loc, err = location.Lookup(args[0]); err != nil {
					return err
				}
			case lat != "" || lon != "":
				la, lo, err := location.ParseCoordinates(lat, lon)
				if err != nil {
					return err
				}
				if loc, err = location.FromCoordinates(la, lo, timezone); err != nil {
					return err
				}
			}

			d, err := e.services.Dashboards.Dashboard(cmd.Context(), loc, r)
			if err != nil {
				return err
			}
			if archive {
				if _, err := e.services.Archive.Archive(cmd.Context(), d); err != nil {
					return fmt.Errorf("archiving dashboard: %w", err)
				}
			}

			return e.print(cmd.OutOrStdout(), d, func(w io.Writer) error {
				return textview.Dashboard(w, d)
			})
		},
	}

	cmd.Flags().StringVarP(&rangeFlag, "range", "r", string(series.Range24h), "time range: 24h, 5d or 7d")
	cmd.Flags().StringVar(&lat, "lat", "", "latitude, instead of a city")
	cmd.Flags().StringVar(&lon, "lon", "", "longitude, instead of a city")
	cmd.Flags().StringVar(&timezone, "tz", "", "IANA timezone of the coordinates")
	cmd.Flags().BoolVar(&archive, "archive", false, "also store the summary in the history archive")
	cmd.MarkFlagsRequiredTogether("lat", "lon")
	return cmd
}

func newCompareCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:     "compare <left> <right>",
		Short:   "Compare the comfort of two cities",
		Example: "  cityobs compare tokyo sapporo",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			left, err := location.Lookup(args[0])
			if err != nil {
				return err
			}
			right, err := location.Lookup(args[1])
			if err != nil {
				return err
			}

			c, err := e.services.Dashboards.Compare(cmd.Context(), left, right)
			if err != nil {
				return err
			}
			return e.print(cmd.OutOrStdout(), c, func(w io.Writer) error {
				return textview.Comparison(w, c)
			})
		},
	}
}
