package openmeteo_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cityobservatory/cityobservatory/internal/openmeteo"
	"github.com/cityobservatory/cityobservatory/internal/provider/resilience"
	"github.com/cityobservatory/cityobservatory/internal/schema"
	"github.com/cityobservatory/cityobservatory/internal/series"
)

const forecastBody = `{
  "latitude": 35.7,
  "longitude": 139.69,
  "timezone": "Asia/Tokyo",
  "utc_offset_seconds": 32400,
  "hourly": {
    "time": ["2026-01-01T00:00", "2026-01-01T01:00"],
    "temperature_2m": [5.1, null],
    "relative_humidity_2m": [60, 62],
    "precipitation_probability": [10, 20],
    "wind_speed_10m": [2.5, 3.0],
    "wind_direction_10m": [0, 90],
    "apparent_temperature": [3.0, 2.8],
    "weathercode": [1, 3],
    "uv_index": [0, 0.5]
  },
  "daily": {
    "time": ["2026-01-01"],
    "temperature_2m_max": [10],
    "temperature_2m_min": [2],
    "precipitation_sum": [0],
    "precipitation_probability_max": [20],
    "sunrise": ["2026-01-01T06:51"],
    "sunset": ["2026-01-01T16:38"],
    "uv_index_max": [2.4]
  }
}`

const airQualityBody = `{
  "latitude": 35.7,
  "longitude": 139.69,
  "timezone": "Asia/Tokyo",
  "utc_offset_seconds": 32400,
  "hourly": {
    "time": ["2026-01-01T00:00", "2026-01-01T01:00"],
    "pm10": [10, 20],
    "pm2_5": [5, 15],
    "nitrogen_dioxide": [30, 40],
    "ozone": [50, 60]
  }
}`

func testHTTP(name string) *resilience.Client {
	cfg := resilience.DefaultClientConfig(name)
	cfg.MaxRetries = 0
	cfg.Timeout = 2 * time.Second
	return resilience.NewClient(cfg)
}

func newTestClient(serverURL string) *openmeteo.Client {
	return openmeteo.NewClient(openmeteo.ClientConfig{
		ForecastURL:   serverURL + "/v1/forecast",
		AirQualityURL: serverURL + "/v1/air-quality",
		GeocodingURL:  serverURL + "/v1/search",
		Forecast:      testHTTP("forecast"),
		AirQuality:    testHTTP("air-quality"),
		Geocoding:     testHTTP("geocoding"),
		Logger:        zerolog.Nop(),
	})
}

func TestClient_GetForecast(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/forecast", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "35.6895", q.Get("latitude"))
		assert.Equal(t, "139.6917", q.Get("longitude"))
		assert.Equal(t, "auto", q.Get("timezone"))
		assert.Equal(t, "1", q.Get("forecast_days"))
		assert.Contains(t, q.Get("hourly"), "weathercode")
		assert.Contains(t, q.Get("daily"), "sunrise")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(forecastBody))
	}))
	defer server.Close()

	resp, err := newTestClient(server.URL).GetForecast(context.Background(), 35.6895, 139.6917, series.Range24h)
	require.NoError(t, err)

	assert.Equal(t, "Asia/Tokyo", resp.Timezone)
	assert.Equal(t, 32400, resp.UTCOffsetSeconds)
	require.NotNil(t, resp.Daily)
	assert.Equal(t, []string{"2026-01-01T06:51"}, resp.Daily.Sunrise)

	hourly := series.Normalize(resp.Hourly.Raw(), openmeteo.HourlyForecastFields...)
	assert.Equal(t, []string{"2026-01-01T00:00"}, hourly.Time)
	assert.Equal(t, []float64{5.1}, hourly.Field(openmeteo.FieldTemperature))
}

func TestClient_GetForecast_WeekRange(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "7", r.URL.Query().Get("forecast_days"))
		_, _ = w.Write([]byte(forecastBody))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).GetForecast(context.Background(), 35, 139, series.Range7d)
	require.NoError(t, err)
}

func TestClient_GetAirQuality(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/air-quality", r.URL.Path)
		assert.Equal(t, "pm10,pm2_5,nitrogen_dioxide,ozone", r.URL.Query().Get("hourly"))
		assert.Equal(t, "5", r.URL.Query().Get("forecast_days"))
		_, _ = w.Write([]byte(airQualityBody))
	}))
	defer server.Close()

	resp, err := newTestClient(server.URL).GetAirQuality(context.Background(), 35.7, 139.69, series.Range5d)
	require.NoError(t, err)

	normalized := series.Normalize(resp.Hourly.Raw(), openmeteo.AirQualityFields...)
	snap, index, ok := series.SnapshotAt(normalized, resp.UTCOffsetSeconds, time.Date(2026, 1, 1, 1, 5, 0, 0, time.UTC).Add(-9*time.Hour))
	require.True(t, ok)
	assert.Equal(t, 1, index)
	assert.Equal(t, 15.0, snap.Get(openmeteo.FieldPM25))
}

func TestClient_InvalidPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"latitude":1,"longitude":2,"timezone":"GMT","hourly":{"time":[],"pm10":[]}}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).GetAirQuality(context.Background(), 1, 2, series.Range24h)

	require.Error(t, err)
	assert.ErrorIs(t, err, openmeteo.ErrInvalidPayload)
	var schemaErr *schema.Error
	require.True(t, errors.As(err, &schemaErr))
	assert.ElementsMatch(t, []string{"hourly.pm2_5", "hourly.nitrogen_dioxide", "hourly.ozone"}, schemaErr.Fields())
}

func TestClient_MalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).GetForecast(context.Background(), 1, 2, series.Range24h)
	assert.ErrorIs(t, err, openmeteo.ErrInvalidPayload)
}

func TestClient_StatusErrors(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		rateLimited bool
	}{
		{"bad request", http.StatusBadRequest, false},
		{"rate limited", http.StatusTooManyRequests, true},
		{"server error", http.StatusInternalServerError, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"error":true,"reason":"Cannot initialize WeatherVariable"}`))
			}))
			defer server.Close()

			_, err := newTestClient(server.URL).GetForecast(context.Background(), 1, 2, series.Range24h)

			var statusErr *openmeteo.StatusError
			require.True(t, errors.As(err, &statusErr))
			assert.Equal(t, tt.status, statusErr.StatusCode)
			assert.Equal(t, "Cannot initialize WeatherVariable", statusErr.Reason)
			assert.Equal(t, tt.rateLimited, errors.Is(err, openmeteo.ErrRateLimited))
		})
	}
}

func TestClient_SearchLocations(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/v1/search", r.URL.Path)
		assert.Equal(t, "京都", q.Get("name"))
		assert.Equal(t, "10", q.Get("count"))
		assert.Equal(t, "ja", q.Get("language"))
		_, _ = w.Write([]byte(`{"results":[{"id":1857910,"name":"京都市","latitude":35.02107,"longitude":135.75385,"elevation":50,"timezone":"Asia/Tokyo","country":"日本","country_code":"JP"}],"generationtime_ms":0.5}`))
	}))
	defer server.Close()

	results, err := newTestClient(server.URL).SearchLocations(context.Background(), "京都")
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, int64(1857910), results[0].ID)
	assert.Equal(t, "京都市", results[0].Name)
	assert.Equal(t, "日本", results[0].Country)
	assert.Equal(t, 35.02107, results[0].Lat)
	require.NotNil(t, results[0].Elevation)
	assert.Equal(t, 50.0, *results[0].Elevation)
}

func TestClient_SearchLocations_NoResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"generationtime_ms":0.2}`))
	}))
	defer server.Close()

	results, err := newTestClient(server.URL).SearchLocations(context.Background(), "zzzz")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestClient_SearchLocations_RejectsIncompleteResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"results":[{"id":1,"name":"x","latitude":1,"longitude":2}]}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).SearchLocations(context.Background(), "xx")
	assert.ErrorIs(t, err, openmeteo.ErrInvalidPayload)
}

func TestClient_RegistersProviders(t *testing.T) {
	registry := resilience.NewRegistry()
	openmeteo.NewClient(openmeteo.ClientConfig{Registry: registry, Logger: zerolog.Nop()})

	assert.Equal(t, []string{
		openmeteo.AirQualityProvider,
		openmeteo.ForecastProvider,
		openmeteo.GeocodingProvider,
	}, registry.GetProviderNames())
}

func TestForecastDays(t *testing.T) {
	assert.Equal(t, 1, openmeteo.ForecastDays(series.Range24h))
	assert.Equal(t, 7, openmeteo.ForecastDays(series.Range7d))
	assert.Equal(t, 7, openmeteo.ForecastDays(series.Range5d))
	assert.Equal(t, 1, openmeteo.AirQualityDays(series.Range24h))
	assert.Equal(t, 5, openmeteo.AirQualityDays(series.Range7d))
}
