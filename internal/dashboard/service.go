package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/cityobservatory/cityobservatory/internal/location"
	"github.com/cityobservatory/cityobservatory/internal/openmeteo"
	"github.com/cityobservatory/cityobservatory/internal/series"
)

const tracerName = "github.com/cityobservatory/cityobservatory/internal/dashboard"

// Provider fetches the raw forecast and air-quality payloads.
type Provider interface {
	GetForecast(ctx context.Context, lat, lon float64, r series.Range) (*openmeteo.ForecastResponse, error)
	GetAirQuality(ctx context.Context, lat, lon float64, r series.Range) (*openmeteo.AirQualityResponse, error)
	Name() string
}

// ServiceConfig holds configuration for the dashboard service.
type ServiceConfig struct {
	Provider Provider

	Logger zerolog.Logger

	// CacheTTL is how long provider payloads are served from cache (default: 15 minutes).
	CacheTTL time.Duration

	// StaleIfErrorTTL allows serving stale payloads on provider errors (default: 1 hour).
	StaleIfErrorTTL time.Duration

	// FetchTimeout bounds a shared provider fetch, which outlives the
	// request that started it (default: 1 minute).
	FetchTimeout time.Duration

	// SlotLimit is the number of best time slots (default: 3).
	SlotLimit int

	// Now returns the current time (default: time.Now).
	Now func() time.Time
}

// Service builds dashboards with caching.
type Service struct {
	provider  Provider
	logger    zerolog.Logger
	slotLimit int
	now       func() time.Time
	tracer    trace.Tracer

	forecasts  *ttlCache[*openmeteo.ForecastResponse]
	airQuality *ttlCache[*openmeteo.AirQualityResponse]
}

// NewService creates a new dashboard service.
func NewService(cfg ServiceConfig) *Service {
	cacheTTL := cfg.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 15 * time.Minute
	}

	staleIfErrorTTL := cfg.StaleIfErrorTTL
	if staleIfErrorTTL == 0 {
		staleIfErrorTTL = time.Hour
	}

	fetchTimeout := cfg.FetchTimeout
	if fetchTimeout == 0 {
		fetchTimeout = time.Minute
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Service{
		provider:   cfg.Provider,
		logger:     cfg.Logger,
		slotLimit:  cfg.SlotLimit,
		now:        now,
		tracer:     otel.Tracer(tracerName),
		forecasts:  newTTLCache[*openmeteo.ForecastResponse]("forecast", cacheTTL, staleIfErrorTTL, fetchTimeout, now, cfg.Logger),
		airQuality: newTTLCache[*openmeteo.AirQualityResponse]("air_quality", cacheTTL, staleIfErrorTTL, fetchTimeout, now, cfg.Logger),
	}
}

// AirQualityRange maps a dashboard range to the air-quality range: the
// air-quality API forecasts at most five days.
func AirQualityRange(r series.Range) series.Range {
	if r == series.Range24h {
		return series.Range24h
	}
	return series.Range5d
}

// WeatherRange maps a dashboard range to the forecast range.
func WeatherRange(r series.Range) series.Range {
	if r == series.Range24h {
		return series.Range24h
	}
	return series.Range7d
}

// Dashboard fetches forecast and air quality for loc concurrently and
// builds the dashboard. Each card degrades on its own: a failed fetch with
// no stale copy leaves its card nil with a warning. It fails with
// ErrProviderUnavailable only when neither payload could be served.
func (s *Service) Dashboard(ctx context.Context, loc location.Location, r series.Range) (*Dashboard, error) {
	if err := location.ValidateCoordinates(loc.Lat, loc.Lon); err != nil {
		return nil, err
	}

	ctx, span := s.tracer.Start(ctx, "dashboard.Build", trace.WithAttributes(
		attribute.Int64("location.id", loc.ID),
		attribute.String("location.name", loc.Name),
		attribute.String("range", string(r)),
	))
	defer span.End()

	var (
		forecast                *openmeteo.ForecastResponse
		air                     *openmeteo.AirQualityResponse
		forecastStale, airStale bool
		forecastErr, airErr     error
	)

	// Both goroutines record their own error so one failure never cancels
	// the other fetch.
	var g errgroup.Group
	g.Go(func() error {
		wr := WeatherRange(r)
		key := fmt.Sprintf("%s:%s", loc.CacheKey(), wr)
		forecast, forecastStale, forecastErr = s.forecasts.get(ctx, key, func(ctx context.Context) (*openmeteo.ForecastResponse, error) {
			s.logger.Debug().Str("key", key).Str("provider", s.provider.Name()).Msg("fetching forecast from provider")
			return s.provider.GetForecast(ctx, loc.Lat, loc.Lon, wr)
		})
		return nil
	})
	g.Go(func() error {
		ar := AirQualityRange(r)
		key := fmt.Sprintf("%s:%s", loc.CacheKey(), ar)
		air, airStale, airErr = s.airQuality.get(ctx, key, func(ctx context.Context) (*openmeteo.AirQualityResponse, error) {
			s.logger.Debug().Str("key", key).Str("provider", s.provider.Name()).Msg("fetching air quality from provider")
			return s.provider.GetAirQuality(ctx, loc.Lat, loc.Lon, ar)
		})
		return nil
	})
	_ = g.Wait()

	if forecastErr != nil && airErr != nil {
		err := errors.Join(fmt.Errorf("forecast: %w", forecastErr), fmt.Errorf("air quality: %w", airErr))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.Error().Err(err).
			Int64("location_id", loc.ID).
			Float64("lat", loc.Lat).
			Float64("lon", loc.Lon).
			Msg("failed to fetch dashboard data")
		return nil, fmt.Errorf("%w: %w", ErrProviderUnavailable, err)
	}
	if forecastErr != nil {
		s.partialFailure(span, loc, "forecast", forecastErr)
		forecast = nil
	}
	if airErr != nil {
		s.partialFailure(span, loc, "air_quality", airErr)
		air = nil
	}

	d := Build(Input{
		Location:   loc,
		Range:      r,
		Now:        s.now(),
		Forecast:   forecast,
		AirQuality: air,
		SlotLimit:  s.slotLimit,
	})
	d.Stale = forecastStale || airStale
	span.SetAttributes(attribute.Bool("stale", d.Stale))

	return d, nil
}

func (s *Service) partialFailure(span trace.Span, loc location.Location, payload string, err error) {
	span.RecordError(err, trace.WithAttributes(attribute.String("payload", payload)))
	s.logger.Warn().Err(err).
		Int64("location_id", loc.ID).
		Str("payload", payload).
		Msg("building dashboard without payload")
}

// Compare builds the 24h dashboards of two locations concurrently. If one
// side cannot be built it is left nil and named in Warnings; only when both
// fail does Compare return an error.
func (s *Service) Compare(ctx context.Context, left, right location.Location) (*Comparison, error) {
	var (
		c                 Comparison
		leftErr, rightErr error
	)

	var g errgroup.Group
	g.Go(func() error {
		c.Left, leftErr = s.Dashboard(ctx, left, series.Range24h)
		return nil
	})
	g.Go(func() error {
		c.Right, rightErr = s.Dashboard(ctx, right, series.Range24h)
		return nil
	})
	_ = g.Wait()

	if leftErr != nil && rightErr != nil {
		return nil, errors.Join(leftErr, rightErr)
	}
	for _, side := range []struct {
		loc location.Location
		err error
	}{{left, leftErr}, {right, rightErr}} {
		if side.err == nil {
			continue
		}
		s.logger.Warn().Err(side.err).Int64("location_id", side.loc.ID).Msg("comparing without one side")
		c.Warnings = append(c.Warnings, fmt.Sprintf("%s dashboard unavailable", side.loc.DisplayName()))
	}

	c.Preferred = "even"
	if c.Left != nil && c.Right != nil && c.Left.Metrics != nil && c.Right.Metrics != nil {
		c.ComfortDelta = c.Left.Metrics.ComfortScore - c.Right.Metrics.ComfortScore
		switch {
		case c.ComfortDelta > 0:
			c.Preferred = "left"
		case c.ComfortDelta < 0:
			c.Preferred = "right"
		}
	}
	return &c, nil
}

// InvalidateCache clears all cached payloads.
func (s *Service) InvalidateCache() {
	s.forecasts.invalidate()
	s.airQuality.invalidate()
}

// CacheStats returns cache statistics.
func (s *Service) CacheStats() CacheStats {
	forecastTotal, forecastFresh := s.forecasts.stats()
	airTotal, airFresh := s.airQuality.stats()
	return CacheStats{
		ForecastEntries:        forecastTotal,
		ForecastFreshEntries:   forecastFresh,
		AirQualityEntries:      airTotal,
		AirQualityFreshEntries: airFresh,
		Provider:               s.provider.Name(),
	}
}

// CacheStats contains cache statistics.
type CacheStats struct {
	ForecastEntries        int    `json:"forecastEntries"`
	ForecastFreshEntries   int    `json:"forecastFreshEntries"`
	AirQualityEntries      int    `json:"airQualityEntries"`
	AirQualityFreshEntries int    `json:"airQualityFreshEntries"`
	Provider               string `json:"provider"`
}

// IsUnavailable reports whether err means no data could be served.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrProviderUnavailable)
}
