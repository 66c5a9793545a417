package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/cityobservatory/cityobservatory/internal/location"
	"github.com/cityobservatory/cityobservatory/internal/provider/resilience"
	"github.com/cityobservatory/cityobservatory/internal/schema"
	"github.com/cityobservatory/cityobservatory/internal/series"
)

const (
	DefaultForecastURL   = "https://api.open-meteo.com/v1/forecast"
	DefaultAirQualityURL = "https://air-quality-api.open-meteo.com/v1/air-quality"
	DefaultGeocodingURL  = "https://geocoding-api.open-meteo.com/v1/search"

	// Provider names used for the resilient clients and health reporting.
	ForecastProvider   = "open-meteo-forecast"
	AirQualityProvider = "open-meteo-air-quality"
	GeocodingProvider  = "open-meteo-geocoding"

	geocodingCount    = 10
	geocodingLanguage = "ja"

	// maxErrorBody bounds how much of an error response is read for its reason.
	maxErrorBody = 4 << 10
)

// ClientConfig holds configuration for the Open-Meteo client.
type ClientConfig struct {
	ForecastURL   string
	AirQualityURL string
	GeocodingURL  string

	// HTTP clients per API. Nil ones are created with
	// resilience.DefaultClientConfig and registered with Registry.
	Forecast   *resilience.Client
	AirQuality *resilience.Client
	Geocoding  *resilience.Client

	Registry  *resilience.Registry
	UserAgent string
	// Timeout overrides the per-attempt timeout of created clients.
	Timeout time.Duration
	Logger  zerolog.Logger
}

// Client talks to the forecast, air-quality and geocoding APIs.
type Client struct {
	forecastURL   string
	airQualityURL string
	geocodingURL  string

	forecast   *resilience.Client
	airQuality *resilience.Client
	geocoding  *resilience.Client

	logger zerolog.Logger
}

// NewClient creates an Open-Meteo client.
func NewClient(cfg ClientConfig) *Client {
	newHTTP := func(name string) *resilience.Client {
		rc := resilience.DefaultClientConfig(name)
		rc.Registry = cfg.Registry
		rc.UserAgent = cfg.UserAgent
		rc.Logger = cfg.Logger
		if cfg.Timeout > 0 {
			rc.Timeout = cfg.Timeout
		}
		return resilience.NewClient(rc)
	}

	c := &Client{
		forecastURL:   orDefault(cfg.ForecastURL, DefaultForecastURL),
		airQualityURL: orDefault(cfg.AirQualityURL, DefaultAirQualityURL),
		geocodingURL:  orDefault(cfg.GeocodingURL, DefaultGeocodingURL),
		forecast:      cfg.Forecast,
		airQuality:    cfg.AirQuality,
		geocoding:     cfg.Geocoding,
		logger:        cfg.Logger.With().Str("component", "openmeteo").Logger(),
	}
	if c.forecast == nil {
		c.forecast = newHTTP(ForecastProvider)
	}
	if c.airQuality == nil {
		c.airQuality = newHTTP(AirQualityProvider)
	}
	if c.geocoding == nil {
		c.geocoding = newHTTP(GeocodingProvider)
	}
	return c
}

// Name returns the provider name.
func (c *Client) Name() string {
	return "open-meteo"
}

// ForecastDays is the forecast horizon requested for a range.
func ForecastDays(r series.Range) int {
	if r == series.Range24h {
		return 1
	}
	return 7
}

// AirQualityDays is the air-quality horizon requested for a range.
func AirQualityDays(r series.Range) int {
	if r == series.Range24h {
		return 1
	}
	return 5
}

// GetForecast fetches the hourly and daily forecast for a point.
func (c *Client) GetForecast(ctx context.Context, lat, lon float64, r series.Range) (*ForecastResponse, error) {
	q := coordinates(lat, lon)
	q.Set("hourly", strings.Join(HourlyForecastFields, ","))
	q.Set("daily", strings.Join(append(append([]string{}, DailyForecastFields...), FieldSunrise, FieldSunset), ","))
	q.Set("timezone", "auto")
	q.Set("forecast_days", strconv.Itoa(ForecastDays(r)))

	var out ForecastResponse
	if err := c.fetch(ctx, c.forecast, "Weather", c.forecastURL, q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetAirQuality fetches the hourly pollutant forecast for a point.
func (c *Client) GetAirQuality(ctx context.Context, lat, lon float64, r series.Range) (*AirQualityResponse, error) {
	q := coordinates(lat, lon)
	q.Set("hourly", strings.Join(AirQualityFields, ","))
	q.Set("timezone", "auto")
	q.Set("forecast_days", strconv.Itoa(AirQualityDays(r)))

	var out AirQualityResponse
	if err := c.fetch(ctx, c.airQuality, "Air Quality", c.airQualityURL, q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchLocations looks places up by name. It implements location.Geocoder.
func (c *Client) SearchLocations(ctx context.Context, query string) ([]location.Location, error) {
	q := url.Values{}
	q.Set("name", query)
	q.Set("count", strconv.Itoa(geocodingCount))
	q.Set("language", geocodingLanguage)
	q.Set("format", "json")

	var out GeocodingResponse
	if err := c.fetch(ctx, c.geocoding, "Geocoding", c.geocodingURL, q, &out); err != nil {
		return nil, err
	}

	locations := make([]location.Location, 0, len(out.Results))
	for _, r := range out.Results {
		locations = append(locations, location.Location{
			ID:        *r.ID,
			Name:      r.Name,
			Country:   r.Country,
			Lat:       *r.Latitude,
			Lon:       *r.Longitude,
			Timezone:  r.Timezone,
			Elevation: r.Elevation,
		})
	}
	return locations, nil
}

func (c *Client) fetch(ctx context.Context, hc *resilience.Client, api, base string, q url.Values, out any) error {
	endpoint := base + "?" + q.Encode()

	resp, err := hc.Get(ctx, endpoint)
	if err != nil {
		return fmt.Errorf("%s request: %w", api, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		statusErr := &StatusError{API: api, StatusCode: resp.StatusCode, Reason: errorReason(resp.Body)}
		c.logger.Warn().
			Str("api", api).
			Int("status", resp.StatusCode).
			Str("reason", statusErr.Reason).
			Msg("upstream returned an error")
		return statusErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %s: decode: %w", ErrInvalidPayload, api, err)
	}
	if err := schema.Validate(out); err != nil {
		c.logger.Warn().Err(err).Str("api", api).Msg("upstream payload failed validation")
		return fmt.Errorf("%w: %s: %w", ErrInvalidPayload, api, err)
	}
	return nil
}

// errorReason extracts the "reason" field of an Open-Meteo error body.
func errorReason(body io.Reader) string {
	var payload struct {
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(io.LimitReader(body, maxErrorBody)).Decode(&payload); err != nil {
		return ""
	}
	return payload.Reason
}

func coordinates(lat, lon float64) url.Values {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	return q
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
