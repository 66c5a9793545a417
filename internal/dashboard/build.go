package dashboard

import (
	"strings"
	"time"

	"github.com/cityobservatory/cityobservatory/internal/classify"
	"github.com/cityobservatory/cityobservatory/internal/derived"
	"github.com/cityobservatory/cityobservatory/internal/location"
	"github.com/cityobservatory/cityobservatory/internal/openmeteo"
	"github.com/cityobservatory/cityobservatory/internal/series"
)

// Input is everything Build needs. Either payload may be nil.
type Input struct {
	Location   location.Location
	Range      series.Range
	Now        time.Time
	Forecast   *openmeteo.ForecastResponse
	AirQuality *openmeteo.AirQualityResponse
	SlotLimit  int
}

// Build composes a dashboard from validated provider payloads. It never
// fails: a card whose data is missing or empty is left nil and noted in
// Warnings.
func Build(in Input) *Dashboard {
	d := &Dashboard{
		Location:    in.Location,
		Range:       in.Range,
		GeneratedAt: in.Now.UTC(),
		Timezone:    in.Location.Timezone,
	}

	var hourly series.Series
	if in.Forecast != nil && in.Forecast.Hourly != nil {
		if in.Forecast.Timezone != "" {
			d.Timezone = in.Forecast.Timezone
		}
		hourly = series.Normalize(in.Forecast.Hourly.Raw(), openmeteo.HourlyForecastFields...)
		d.Weather = buildWeather(in.Forecast, hourly, in.Range, in.Now)
	}
	if d.Weather == nil {
		d.Warnings = append(d.Warnings, "weather data unavailable")
	}

	var air series.Series
	if in.AirQuality != nil && in.AirQuality.Hourly != nil {
		air = series.Normalize(in.AirQuality.Hourly.Raw(), openmeteo.AirQualityFields...)
		d.AirQuality = buildAirQuality(in.AirQuality, air, in.Range, in.Now)
	}
	if d.AirQuality == nil {
		d.Warnings = append(d.Warnings, "air quality data unavailable")
	}

	if d.Weather != nil {
		d.Metrics = buildMetrics(d, series.Window(hourly, in.Range), air, in.SlotLimit)
	}

	d.LocalTime = localClock(in.Now, d.Timezone, in.Forecast)
	return d
}

func buildWeather(resp *openmeteo.ForecastResponse, hourly series.Series, r series.Range, now time.Time) *WeatherView {
	snap, index, ok := series.SnapshotAt(hourly, resp.UTCOffsetSeconds, now, openmeteo.HourlyForecastFields...)
	if !ok {
		return nil
	}

	current := CurrentWeather{
		Time:                     hourly.Time[index],
		Temperature:              snap.Get(openmeteo.FieldTemperature),
		ApparentTemperature:      snap.Get(openmeteo.FieldApparentTemperature),
		Humidity:                 snap.Get(openmeteo.FieldRelativeHumidity),
		WindSpeed:                snap.Get(openmeteo.FieldWindSpeed),
		WindDirection:            snap.Get(openmeteo.FieldWindDirection),
		WeatherCode:              snap.Get(openmeteo.FieldWeatherCode),
		UVIndex:                  snap.Get(openmeteo.FieldUVIndex),
		PrecipitationProbability: snap.Get(openmeteo.FieldPrecipitationProbability),
	}

	view := &WeatherView{
		Current:        current,
		Condition:      classify.Weather(current.WeatherCode),
		UV:             classify.UV(current.UVIndex),
		Wind:           classify.Wind(current.WindDirection),
		TemperatureHue: classify.TemperatureHue(current.Temperature),
		Sun:            classify.SunOf(classify.SunNight),
		Hourly:         newSeriesView(series.Window(hourly, r)),
		Daily:          []DailyForecast{},
	}

	if resp.Daily != nil {
		view.Daily = buildDaily(resp.Daily)
		if day, ok := dayOf(view.Daily, current.Time); ok {
			uvMax := day.UVIndexMax
			view.UVIndexMax = &uvMax
			view.Sunrise = day.Sunrise
			view.Sunset = day.Sunset
			view.Sun = sunAt(now, day, resp.UTCOffsetSeconds)
		}
	}
	return view
}

func buildDaily(daily *openmeteo.ForecastDaily) []DailyForecast {
	raw := daily.Raw()
	indexes := series.ValidIndexes(raw, openmeteo.DailyForecastFields...)
	days := series.Normalize(raw, openmeteo.DailyForecastFields...)
	sunrise := series.PickText(daily.Sunrise, indexes)
	sunset := series.PickText(daily.Sunset, indexes)

	out := make([]DailyForecast, days.Len())
	for i := range out {
		out[i] = DailyForecast{
			Date:                        days.Time[i],
			TemperatureMax:              days.Field(openmeteo.FieldTemperatureMax)[i],
			TemperatureMin:              days.Field(openmeteo.FieldTemperatureMin)[i],
			PrecipitationSum:            days.Field(openmeteo.FieldPrecipitationSum)[i],
			PrecipitationProbabilityMax: days.Field(openmeteo.FieldPrecipitationProbabilityMax)[i],
			UVIndexMax:                  days.Field(openmeteo.FieldUVIndexMax)[i],
			Sunrise:                     sunrise[i],
			Sunset:                      sunset[i],
		}
	}
	return out
}

// dayOf returns the day containing the local timestamp t, or the first day
// when none matches.
func dayOf(days []DailyForecast, t string) (DailyForecast, bool) {
	if len(days) == 0 {
		return DailyForecast{}, false
	}
	date, _, _ := strings.Cut(t, "T")
	for _, d := range days {
		if d.Date == date {
			return d, true
		}
	}
	return days[0], true
}

func sunAt(now time.Time, day DailyForecast, utcOffsetSeconds int) classify.SunInfo {
	sunrise, okRise := series.ToInstant(day.Sunrise, utcOffsetSeconds)
	sunset, okSet := series.ToInstant(day.Sunset, utcOffsetSeconds)
	if !okRise || !okSet {
		return classify.SunOf(classify.SunNight)
	}
	return classify.Sun(now, sunrise, sunset)
}

func buildAirQuality(resp *openmeteo.AirQualityResponse, air series.Series, r series.Range, now time.Time) *AirQualityView {
	snap, index, ok := series.SnapshotAt(air, resp.UTCOffsetSeconds, now, openmeteo.AirQualityFields...)
	if !ok {
		return nil
	}

	current := AirQualitySnapshot{
		Time:            air.Time[index],
		PM10:            snap.Get(openmeteo.FieldPM10),
		PM25:            snap.Get(openmeteo.FieldPM25),
		NitrogenDioxide: snap.Get(openmeteo.FieldNitrogenDioxide),
		Ozone:           snap.Get(openmeteo.FieldOzone),
	}
	level := derived.ClassifyAirQuality(current.PM25)

	return &AirQualityView{
		Current: current,
		Level:   level,
		Label:   level.Label(),
		Series:  newSeriesView(series.Window(air, r)),
	}
}

func buildMetrics(d *Dashboard, hourly, air series.Series, slotLimit int) *derived.Metrics {
	current := derived.ComfortInput{
		Temperature:              d.Weather.Current.Temperature,
		Humidity:                 d.Weather.Current.Humidity,
		WindSpeed:                d.Weather.Current.WindSpeed,
		PrecipitationProbability: d.Weather.Current.PrecipitationProbability,
	}
	if d.AirQuality != nil {
		current.PM25 = d.AirQuality.Current.PM25
	}

	m := derived.Compute(current, derived.HourlyInput{
		Times:                    hourly.Time,
		Temperature:              hourly.Field(openmeteo.FieldTemperature),
		Humidity:                 hourly.Field(openmeteo.FieldRelativeHumidity),
		WindSpeed:                hourly.Field(openmeteo.FieldWindSpeed),
		PrecipitationProbability: hourly.Field(openmeteo.FieldPrecipitationProbability),
		AirTimes:                 air.Time,
		PM25:                     air.Field(openmeteo.FieldPM25),
	}, slotLimit)
	return &m
}

// localClock formats now as HH:MM in the location's timezone, falling back
// to the provider's fixed offset.
func localClock(now time.Time, timezone string, forecast *openmeteo.ForecastResponse) string {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err == nil {
			return now.In(loc).Format("15:04")
		}
	}
	if forecast != nil {
		return now.In(time.FixedZone("", forecast.UTCOffsetSeconds)).Format("15:04")
	}
	return now.UTC().Format("15:04")
}
