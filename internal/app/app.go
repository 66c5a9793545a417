// Package app wires configuration into the services shared by the API
// server, the worker and the CLI.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/cityobservatory/cityobservatory/internal/archive"
	"github.com/cityobservatory/cityobservatory/internal/config"
	"github.com/cityobservatory/cityobservatory/internal/dashboard"
	"github.com/cityobservatory/cityobservatory/internal/database"
	"github.com/cityobservatory/cityobservatory/internal/location"
	"github.com/cityobservatory/cityobservatory/internal/openmeteo"
	"github.com/cityobservatory/cityobservatory/internal/provider/resilience"
)

// UserAgent is sent to the data provider.
const UserAgent = "cityobservatory/1.0 (+https://cityobservatory.dev)"

// NewLogger returns the process logger. Development builds log in a human
// readable console format.
func NewLogger(cfg *config.Config, service, version string) zerolog.Logger {
	var out io.Writer = os.Stdout
	if cfg.Env == "development" {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	}
	return zerolog.New(out).
		Level(cfg.LogLevel).
		With().
		Timestamp().
		Str("service", service).
		Str("version", version).
		Logger()
}

// App holds the wired services.
type App struct {
	Registry   *resilience.Registry
	Provider   *openmeteo.Client
	Dashboards *dashboard.Service
	Searcher   *location.Searcher
	Archive    *archive.Service

	// Pool is nil unless the postgres archive backend is configured.
	Pool *pgxpool.Pool
}

// New builds the services described by cfg.
func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*App, error) {
	registry := resilience.NewRegistry()
	provider := openmeteo.NewClient(openmeteo.ClientConfig{
		Registry:  registry,
		UserAgent: UserAgent,
		Timeout:   cfg.ProviderTimeout,
		Logger:    logger,
	})

	a := &App{
		Registry: registry,
		Provider: provider,
		Dashboards: dashboard.NewService(dashboard.ServiceConfig{
			Provider:        provider,
			Logger:          logger,
			CacheTTL:        cfg.CacheTTL,
			StaleIfErrorTTL: cfg.StaleIfErrorTTL,
		}),
		Searcher: location.NewSearcher(location.SearcherConfig{
			Geocoder: provider,
			Logger:   logger,
		}),
	}

	repo, err := a.archiveRepository(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	a.Archive = archive.NewService(archive.ServiceConfig{
		Repository: repo,
		Logger:     logger,
		Retention:  cfg.HistoryRetention,
	})
	return a, nil
}

func (a *App) archiveRepository(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (archive.Repository, error) {
	if cfg.ArchiveBackend != config.ArchivePostgres {
		logger.Info().Msg("using in-memory archive")
		return archive.NewInMemoryRepository(), nil
	}

	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	repo := archive.NewPostgresRepository(pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating archive schema: %w", err)
	}
	a.Pool = pool

	logger.Info().Str("database", cfg.Database.Redacted()).Msg("database connected")
	return repo, nil
}

// Close releases the database pool, if any.
func (a *App) Close() {
	if a.Pool != nil {
		a.Pool.Close()
	}
}
