// Package api provides the HTTP API of City Observatory.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/cityobservatory/cityobservatory/internal/api/handler"
	"github.com/cityobservatory/cityobservatory/internal/api/middleware"
	"github.com/cityobservatory/cityobservatory/internal/api/models"
	"github.com/cityobservatory/cityobservatory/internal/location"
	"github.com/cityobservatory/cityobservatory/internal/provider/resilience"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version     string
	BuildTime   string
	Logger      zerolog.Logger
	ServiceName string
	Metrics     *middleware.Metrics

	Dashboards handler.DashboardService
	Searcher   handler.CitySearcher
	History    handler.HistoryReader
	Registry   *resilience.Registry
	Checks     map[string]handler.Check

	DefaultCity  location.Location
	ClientConfig models.ClientConfig

	// RateLimit overrides the per-IP limit of upstream-backed endpoints.
	RateLimit  *middleware.RateLimitConfig
	RequireTLS bool
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "cityobs-api"
	}
	if cfg.DefaultCity.Name == "" {
		cfg.DefaultCity = location.MustLookup(location.DefaultCitySlug)
	}
	upstreamLimit := middleware.UpstreamRateLimit
	if cfg.RateLimit != nil {
		upstreamLimit = *cfg.RateLimit
	}

	// Order matters: the request id must exist before tracing and logging.
	r.Use(middleware.RequestID)
	r.Use(middleware.Tracing(serviceName))
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware())
	}
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.RequireTLS(cfg.RequireTLS))
	r.Use(middleware.ContentTypeJSON)

	opsHandler := handler.NewOpsHandler(handler.OpsConfig{
		Version:   cfg.Version,
		BuildTime: cfg.BuildTime,
		Registry:  cfg.Registry,
		Checks:    cfg.Checks,
	})
	metadataHandler := handler.NewMetadataHandler(cfg.ClientConfig)
	cityHandler := handler.NewCityHandler(cfg.Searcher, cfg.History, cfg.Logger)
	dashboardHandler := handler.NewDashboardHandler(cfg.Dashboards, cfg.DefaultCity, cfg.Logger)

	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit)
	upstreamRateLimit := middleware.RateLimitByIP(upstreamLimit)

	r.Route("/v1", func(r chi.Router) {
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
		})

		r.Group(func(r chi.Router) {
			r.Use(standardRateLimit)
			r.Get("/config", metadataHandler.GetConfig)
			r.Get("/metadata/enums", metadataHandler.GetEnums)
			r.Get("/cities", cityHandler.ListCities)
			r.Get("/cities/{cityId}/history", cityHandler.GetHistory)
		})

		r.Group(func(r chi.Router) {
			r.Use(upstreamRateLimit)
			r.Get("/cities/search", cityHandler.SearchCities)
			r.Get("/dashboard", dashboardHandler.GetDashboard)
			r.Get("/compare", dashboardHandler.Compare)
		})
	})

	return r
}
