// Package main provides the entrypoint for the City Observatory API server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "time/tzdata"

	"github.com/rs/zerolog"

	"github.com/cityobservatory/cityobservatory/internal/api"
	"github.com/cityobservatory/cityobservatory/internal/api/handler"
	"github.com/cityobservatory/cityobservatory/internal/api/middleware"
	"github.com/cityobservatory/cityobservatory/internal/api/models"
	"github.com/cityobservatory/cityobservatory/internal/app"
	"github.com/cityobservatory/cityobservatory/internal/config"
	"github.com/cityobservatory/cityobservatory/internal/series"
	"github.com/cityobservatory/cityobservatory/internal/telemetry"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

const serviceName = "cityobs-api"

func main() {
	cfg, err := config.Load()
	if err != nil {
		stderrLog := zerolog.New(os.Stderr)
		stderrLog.Fatal().Err(err).Msg("invalid configuration")
	}

	log := app.NewLogger(cfg, serviceName, Version)
	log.Info().
		Str("build_time", BuildTime).
		Str("env", cfg.Env).
		Msg("starting City Observatory API")

	ctx := context.Background()

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    cfg.Env,
		OTLPEndpoint:   cfg.OTelEndpoint,
		Enabled:        cfg.OTelEnabled,
		SampleRatio:    cfg.OTelSampleRatio,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	services, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize services")
	}
	defer services.Close()

	checks := map[string]handler.Check{}
	if services.Pool != nil {
		checks["database"] = services.Pool.Ping
	}
	rateLimit := middleware.PerMinute(cfg.RateLimit)

	router := api.NewRouter(api.RouterConfig{
		Version:     Version,
		BuildTime:   BuildTime,
		Logger:      log,
		ServiceName: serviceName,
		Metrics:     metrics,
		Dashboards:  services.Dashboards,
		Searcher:    services.Searcher,
		History:     services.Archive,
		Registry:    services.Registry,
		Checks:      checks,
		DefaultCity: cfg.DefaultLocation(),
		ClientConfig: models.ClientConfig{
			DefaultCity:   cfg.DefaultLocation().Slug,
			FeatureMap:    cfg.FeatureMap,
			MapTilerKey:   cfg.MapTilerKey,
			MapStyleLight: cfg.MapStyleLight,
			MapStyleDark:  cfg.MapStyleDark,
			Ranges:        series.Ranges,
		},
		RateLimit:  &rateLimit,
		RequireTLS: cfg.IsProduction(),
	})

	server := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
