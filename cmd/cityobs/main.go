// Package main provides the cityobs command line client. It builds the
// same dashboards as the API server and prints them to the terminal.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	_ "time/tzdata"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cityobservatory/cityobservatory/internal/app"
	"github.com/cityobservatory/cityobservatory/internal/config"
)

// Version is set at compile time via ldflags.
var Version = "dev"

// env holds the services shared by the subcommands.
type env struct {
	cfg      *config.Config
	services *app.App
	jsonOut  bool
	verbose  bool
}

func newRootCmd(e *env) *cobra.Command {
	root := &cobra.Command{
		Use:           "cityobs",
		Short:         "City Observatory - weather and air quality dashboards",
		Long:          `cityobs prints the weather, air quality and comfort dashboard of a city.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return e.init(cmd.Context())
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if e.services != nil {
				e.services.Close()
			}
		},
	}

	root.PersistentFlags().BoolVar(&e.jsonOut, "json", false, "print JSON instead of text")
	root.PersistentFlags().BoolVarP(&e.verbose, "verbose", "v", false, "log provider calls to stderr")

	root.AddCommand(
		newCitiesCmd(e),
		newSearchCmd(e),
		newDashboardCmd(e),
		newCompareCmd(e),
		newHistoryCmd(e),
	)
	return root
}

func (e *env) init(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	e.cfg = cfg

	logger := zerolog.Nop()
	if e.verbose {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}

	services, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	e.services = services
	return nil
}

// print writes v as indented JSON when --json is set and with text otherwise.
func (e *env) print(w io.Writer, v any, text func(io.Writer) error) error {
	if !e.jsonOut {
		return text(w)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	if err := newRootCmd(&env{}).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
