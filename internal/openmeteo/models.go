// Package openmeteo fetches forecast, air-quality and geocoding data from
// the Open-Meteo APIs and validates each payload before it is returned.
package openmeteo

import (
	"github.com/cityobservatory/cityobservatory/internal/series"
)

// Hourly forecast variables.
const (
	FieldTemperature              = "temperature_2m"
	FieldRelativeHumidity         = "relative_humidity_2m"
	FieldPrecipitationProbability = "precipitation_probability"
	FieldWindSpeed                = "wind_speed_10m"
	FieldWindDirection            = "wind_direction_10m"
	FieldApparentTemperature      = "apparent_temperature"
	FieldWeatherCode              = "weathercode"
	FieldUVIndex                  = "uv_index"
)

// Daily forecast variables.
const (
	FieldTemperatureMax              = "temperature_2m_max"
	FieldTemperatureMin              = "temperature_2m_min"
	FieldPrecipitationSum            = "precipitation_sum"
	FieldPrecipitationProbabilityMax = "precipitation_probability_max"
	FieldSunrise                     = "sunrise"
	FieldSunset                      = "sunset"
	FieldUVIndexMax                  = "uv_index_max"
)

// Hourly air-quality variables.
const (
	FieldPM10            = "pm10"
	FieldPM25            = "pm2_5"
	FieldNitrogenDioxide = "nitrogen_dioxide"
	FieldOzone           = "ozone"
)

// HourlyForecastFields are the hourly variables requested from the forecast API.
var HourlyForecastFields = []string{
	FieldTemperature,
	FieldRelativeHumidity,
	FieldPrecipitationProbability,
	FieldWindSpeed,
	FieldWindDirection,
	FieldApparentTemperature,
	FieldWeatherCode,
	FieldUVIndex,
}

// DailyForecastFields are the numeric daily variables. Sunrise and sunset
// are requested as well but carried as text.
var DailyForecastFields = []string{
	FieldTemperatureMax,
	FieldTemperatureMin,
	FieldPrecipitationSum,
	FieldPrecipitationProbabilityMax,
	FieldUVIndexMax,
}

// AirQualityFields are the hourly variables requested from the air-quality API.
var AirQualityFields = []string{
	FieldPM10,
	FieldPM25,
	FieldNitrogenDioxide,
	FieldOzone,
}

// ForecastResponse is the forecast API payload.
type ForecastResponse struct {
	Latitude         *float64        `json:"latitude" validate:"required"`
	Longitude        *float64        `json:"longitude" validate:"required"`
	Timezone         string          `json:"timezone" validate:"required"`
	UTCOffsetSeconds int             `json:"utc_offset_seconds"`
	Elevation        *float64        `json:"elevation,omitempty"`
	Hourly           *ForecastHourly `json:"hourly" validate:"required"`
	Daily            *ForecastDaily  `json:"daily,omitempty"`
}

// ForecastHourly holds the hourly forecast arrays. A nil element is a
// provider null.
type ForecastHourly struct {
	Time                     []string   `json:"time" validate:"required"`
	Temperature              []*float64 `json:"temperature_2m" validate:"required"`
	RelativeHumidity         []*float64 `json:"relative_humidity_2m" validate:"required"`
	PrecipitationProbability []*float64 `json:"precipitation_probability" validate:"required"`
	WindSpeed                []*float64 `json:"wind_speed_10m" validate:"required"`
	WindDirection            []*float64 `json:"wind_direction_10m" validate:"required"`
	ApparentTemperature      []*float64 `json:"apparent_temperature" validate:"required"`
	WeatherCode              []*float64 `json:"weathercode" validate:"required"`
	UVIndex                  []*float64 `json:"uv_index" validate:"required"`
}

// Raw returns the hourly arrays as a raw series keyed by variable name.
func (h *ForecastHourly) Raw() series.Raw {
	return series.Raw{
		Time: h.Time,
		Fields: map[string][]*float64{
			FieldTemperature:              h.Temperature,
			FieldRelativeHumidity:         h.RelativeHumidity,
			FieldPrecipitationProbability: h.PrecipitationProbability,
			FieldWindSpeed:                h.WindSpeed,
			FieldWindDirection:            h.WindDirection,
			FieldApparentTemperature:      h.ApparentTemperature,
			FieldWeatherCode:              h.WeatherCode,
			FieldUVIndex:                  h.UVIndex,
		},
	}
}

// ForecastDaily holds the daily forecast arrays.
type ForecastDaily struct {
	Time                        []string   `json:"time" validate:"required"`
	TemperatureMax              []*float64 `json:"temperature_2m_max" validate:"required"`
	TemperatureMin              []*float64 `json:"temperature_2m_min" validate:"required"`
	PrecipitationSum            []*float64 `json:"precipitation_sum" validate:"required"`
	PrecipitationProbabilityMax []*float64 `json:"precipitation_probability_max" validate:"required"`
	Sunrise                     []string   `json:"sunrise" validate:"required"`
	Sunset                      []string   `json:"sunset" validate:"required"`
	UVIndexMax                  []*float64 `json:"uv_index_max" validate:"required"`
}

// Raw returns the numeric daily arrays as a raw series.
func (d *ForecastDaily) Raw() series.Raw {
	return series.Raw{
		Time: d.Time,
		Fields: map[string][]*float64{
			FieldTemperatureMax:              d.TemperatureMax,
			FieldTemperatureMin:              d.TemperatureMin,
			FieldPrecipitationSum:            d.PrecipitationSum,
			FieldPrecipitationProbabilityMax: d.PrecipitationProbabilityMax,
			FieldUVIndexMax:                  d.UVIndexMax,
		},
	}
}

// AirQualityResponse is the air-quality API payload.
type AirQualityResponse struct {
	Latitude         *float64          `json:"latitude" validate:"required"`
	Longitude        *float64          `json:"longitude" validate:"required"`
	Timezone         string            `json:"timezone" validate:"required"`
	UTCOffsetSeconds int               `json:"utc_offset_seconds"`
	Hourly           *AirQualityHourly `json:"hourly" validate:"required"`
}

// AirQualityHourly holds the hourly pollutant arrays.
type AirQualityHourly struct {
	Time            []string   `json:"time" validate:"required"`
	PM10            []*float64 `json:"pm10" validate:"required"`
	PM25            []*float64 `json:"pm2_5" validate:"required"`
	NitrogenDioxide []*float64 `json:"nitrogen_dioxide" validate:"required"`
	Ozone           []*float64 `json:"ozone" validate:"required"`
}

// Raw returns the pollutant arrays as a raw series.
func (h *AirQualityHourly) Raw() series.Raw {
	return series.Raw{
		Time: h.Time,
		Fields: map[string][]*float64{
			FieldPM10:            h.PM10,
			FieldPM25:            h.PM25,
			FieldNitrogenDioxide: h.NitrogenDioxide,
			FieldOzone:           h.Ozone,
		},
	}
}

// GeocodingResponse is the geocoding API payload. Results is absent when
// nothing matched.
type GeocodingResponse struct {
	Results          []GeocodingResult `json:"results" validate:"omitempty,dive"`
	GenerationTimeMS *float64          `json:"generationtime_ms,omitempty"`
}

// GeocodingResult is a single place returned by the geocoding API.
type GeocodingResult struct {
	ID          *int64   `json:"id" validate:"required"`
	Name        string   `json:"name" validate:"required"`
	Latitude    *float64 `json:"latitude" validate:"required"`
	Longitude   *float64 `json:"longitude" validate:"required"`
	Elevation   *float64 `json:"elevation,omitempty"`
	Timezone    string   `json:"timezone" validate:"required"`
	Country     string   `json:"country" validate:"required"`
	CountryCode string   `json:"country_code,omitempty"`
	Admin1      string   `json:"admin1,omitempty"`
}
