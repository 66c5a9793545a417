// Package dashboard composes provider payloads and the derived-metric
// functions into the view models served to clients.
package dashboard

import (
	"errors"
	"time"

	"github.com/cityobservatory/cityobservatory/internal/classify"
	"github.com/cityobservatory/cityobservatory/internal/derived"
	"github.com/cityobservatory/cityobservatory/internal/location"
	"github.com/cityobservatory/cityobservatory/internal/series"
)

var (
	// ErrProviderUnavailable is returned when the provider failed and no
	// stale data could be served.
	ErrProviderUnavailable = errors.New("data provider unavailable")

	ErrUnknownCity        = location.ErrUnknownCity
	ErrInvalidCoordinates = location.ErrInvalidCoordinates
)

// Dashboard is everything shown for one location and range.
type Dashboard struct {
	Location    location.Location `json:"location"`
	Range       series.Range      `json:"range"`
	GeneratedAt time.Time         `json:"generatedAt"`
	LocalTime   string            `json:"localTime"`
	Timezone    string            `json:"timezone"`
	Stale       bool              `json:"stale"`

	Weather    *WeatherView     `json:"weather,omitempty"`
	AirQuality *AirQualityView  `json:"airQuality,omitempty"`
	Metrics    *derived.Metrics `json:"metrics,omitempty"`

	// Warnings lists the cards that could not be built.
	Warnings []string `json:"warnings,omitempty"`
}

// WeatherView is the current weather card and forecast.
type WeatherView struct {
	Current        CurrentWeather       `json:"current"`
	Condition      classify.WeatherInfo `json:"condition"`
	UV             classify.UVInfo      `json:"uv"`
	UVIndexMax     *float64             `json:"uvIndexMax,omitempty"`
	Wind           classify.WindInfo    `json:"wind"`
	TemperatureHue string               `json:"temperatureHue"`
	Sunrise        string               `json:"sunrise,omitempty"`
	Sunset         string               `json:"sunset,omitempty"`
	Sun            classify.SunInfo     `json:"sun"`
	Hourly         SeriesView           `json:"hourly"`
	Daily          []DailyForecast      `json:"daily"`
}

// CurrentWeather is the hourly sample nearest to now.
type CurrentWeather struct {
	Time                     string  `json:"time"`
	Temperature              float64 `json:"temperature"`
	ApparentTemperature      float64 `json:"apparentTemperature"`
	Humidity                 float64 `json:"humidity"`
	WindSpeed                float64 `json:"windSpeed"`
	WindDirection            float64 `json:"windDirection"`
	WeatherCode              float64 `json:"weathercode"`
	UVIndex                  float64 `json:"uvIndex"`
	PrecipitationProbability float64 `json:"precipitationProbability"`
}

// DailyForecast is one day of the daily forecast.
type DailyForecast struct {
	Date                        string  `json:"date"`
	TemperatureMax              float64 `json:"temperatureMax"`
	TemperatureMin              float64 `json:"temperatureMin"`
	PrecipitationSum            float64 `json:"precipitationSum"`
	PrecipitationProbabilityMax float64 `json:"precipitationProbabilityMax"`
	UVIndexMax                  float64 `json:"uvIndexMax"`
	Sunrise                     string  `json:"sunrise,omitempty"`
	Sunset                      string  `json:"sunset,omitempty"`
}

// AirQualityView is the air-quality card and chart.
type AirQualityView struct {
	Current AirQualitySnapshot      `json:"current"`
	Level   derived.AirQualityLevel `json:"level"`
	Label   string                  `json:"label"`
	Series  SeriesView              `json:"series"`
}

// AirQualitySnapshot is the pollutant sample nearest to now.
type AirQualitySnapshot struct {
	Time            string  `json:"time"`
	PM10            float64 `json:"pm10"`
	PM25            float64 `json:"pm2_5"`
	NitrogenDioxide float64 `json:"nitrogen_dioxide"`
	Ozone           float64 `json:"ozone"`
}

// SeriesView is an aligned series ready for charting.
type SeriesView struct {
	Time   []string             `json:"time"`
	Values map[string][]float64 `json:"values"`
}

func newSeriesView(s series.Series) SeriesView {
	v := SeriesView{Time: s.Time, Values: s.Fields}
	if v.Time == nil {
		v.Time = []string{}
	}
	if v.Values == nil {
		v.Values = map[string][]float64{}
	}
	return v
}

// Comparison shows two cities side by side.
type Comparison struct {
	Left  *Dashboard `json:"left"`
	Right *Dashboard `json:"right"`

	// ComfortDelta is left minus right comfort score; zero if either is missing.
	ComfortDelta int `json:"comfortDelta"`

	// Preferred is "left", "right" or "even" by comfort score.
	Preferred string `json:"preferred"`

	// Warnings names the side that could not be built, if any.
	Warnings []string `json:"warnings,omitempty"`
}

// Summary is the compact record of a dashboard kept in the history archive.
type Summary struct {
	LocationID               int64                   `json:"locationId"`
	LocationName             string                  `json:"locationName"`
	ObservedAt               string                  `json:"observedAt"`
	RecordedAt               time.Time               `json:"recordedAt"`
	Temperature              float64                 `json:"temperature"`
	Humidity                 float64                 `json:"humidity"`
	WindSpeed                float64                 `json:"windSpeed"`
	PrecipitationProbability float64                 `json:"precipitationProbability"`
	PM25                     float64                 `json:"pm2_5"`
	Condition                classify.Condition      `json:"condition"`
	ComfortScore             int                     `json:"comfortScore"`
	OutdoorRisk              derived.RiskLevel       `json:"outdoorRiskLevel"`
	AirQuality               derived.AirQualityLevel `json:"airQualityLabel"`
}

// Summary condenses d for the archive. It reports false if d has no
// current weather.
func (d *Dashboard) Summary() (Summary, bool) {
	if d.Weather == nil || d.Metrics == nil {
		return Summary{}, false
	}

	s := Summary{
		LocationID:               d.Location.ID,
		LocationName:             d.Location.DisplayName(),
		ObservedAt:               d.Weather.Current.Time,
		RecordedAt:               d.GeneratedAt,
		Temperature:              d.Weather.Current.Temperature,
		Humidity:                 d.Weather.Current.Humidity,
		WindSpeed:                d.Weather.Current.WindSpeed,
		PrecipitationProbability: d.Weather.Current.PrecipitationProbability,
		Condition:                d.Weather.Condition.Condition,
		ComfortScore:             d.Metrics.ComfortScore,
		OutdoorRisk:              d.Metrics.OutdoorRisk,
		AirQuality:               d.Metrics.AirQuality,
	}
	if d.AirQuality != nil {
		s.PM25 = d.AirQuality.Current.PM25
	}
	return s, true
}
