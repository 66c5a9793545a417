package classify_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/cityobservatory/cityobservatory/internal/classify"
)

func TestConditionOf(t *testing.T) {
	tests := []struct {
		name     string
		code     float64
		expected classify.Condition
	}{
		{"clear", 0, classify.ConditionClear},
		{"mostly clear", 1, classify.ConditionMostlyClear},
		{"partly cloudy", 2, classify.ConditionPartlyCloudy},
		{"overcast", 3, classify.ConditionOvercast},
		{"fog 45", 45, classify.ConditionFog},
		{"fog 48", 48, classify.ConditionFog},
		{"between fog codes", 46, classify.ConditionUnknown},
		{"drizzle low", 51, classify.ConditionDrizzle},
		{"drizzle high", 55, classify.ConditionDrizzle},
		{"freezing drizzle", 56, classify.ConditionUnknown},
		{"rain low", 61, classify.ConditionRain},
		{"rain high", 65, classify.ConditionRain},
		{"snow low", 71, classify.ConditionSnow},
		{"snow high", 75, classify.ConditionSnow},
		{"snow grains", 77, classify.ConditionUnknown},
		{"rain showers", 81, classify.ConditionRainShowers},
		{"snow showers", 86, classify.ConditionSnowShowers},
		{"thunderstorm", 95, classify.ConditionThunderstorm},
		{"thunderstorm hail", 99, classify.ConditionThunderstorm},
		{"past range", 100, classify.ConditionUnknown},
		{"negative", -1, classify.ConditionUnknown},
		{"fractional inside drizzle range", 52.5, classify.ConditionDrizzle},
		{"fractional inside thunderstorm range", 96.5, classify.ConditionThunderstorm},
		{"fractional between clear codes", 2.5, classify.ConditionUnknown},
		{"fractional between fog codes", 45.5, classify.ConditionUnknown},
		{"nan", math.NaN(), classify.ConditionUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, classify.ConditionOf(tt.code))
		})
	}
}

func TestWeather_CarriesPresentation(t *testing.T) {
	info := classify.Weather(63)
	assert.Equal(t, classify.ConditionRain, info.Condition)
	assert.Equal(t, "雨", info.Label)
	assert.Equal(t, "cloud-rain", info.Icon)
	assert.Equal(t, "linear-gradient(to bottom, #4682B4, #B0C4DE)", info.Background)

	for _, c := range classify.Conditions {
		info := classify.WeatherOf(c)
		assert.Equal(t, c, info.Condition)
		assert.NotEmpty(t, info.Label, c)
		assert.NotEmpty(t, info.Icon, c)
	}

	assert.Equal(t, classify.ConditionUnknown, classify.WeatherOf("hail").Condition)
}

func TestUVLevelOf(t *testing.T) {
	tests := []struct {
		name     string
		index    float64
		expected classify.UVLevel
	}{
		{"zero", 0, classify.UVLow},
		{"negative", -3, classify.UVLow},
		{"low boundary", 2, classify.UVLow},
		{"moderate", 2.1, classify.UVModerate},
		{"moderate boundary", 5, classify.UVModerate},
		{"high", 6, classify.UVHigh},
		{"high boundary", 7, classify.UVHigh},
		{"very high", 9, classify.UVVeryHigh},
		{"very high boundary", 10, classify.UVVeryHigh},
		{"extreme", 10.5, classify.UVExtreme},
		{"nan", math.NaN(), classify.UVExtreme},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, classify.UVLevelOf(tt.index))
		})
	}
}

func TestUV_CarriesLabelAndColor(t *testing.T) {
	info := classify.UV(11)
	assert.Equal(t, classify.UVExtreme, info.Level)
	assert.Equal(t, "極端に高い", info.Label)
	assert.Equal(t, "hsl(270, 100%, 40%)", info.Color)
}

func TestWind(t *testing.T) {
	tests := []struct {
		name     string
		degree   float64
		label    string
		rotation float64
	}{
		{"north", 0, "北", 0},
		{"just west of north", 359, "北", 359},
		{"north bucket upper edge", 11.24, "北", 11.24},
		{"north-north-east", 11.25, "北北東", 11.25},
		{"east", 90, "東", 90},
		{"south", 180, "南", 180},
		{"west", 270, "西", 270},
		{"north-north-west", 340, "北北西", 340},
		{"full turn", 360, "北", 0},
		{"negative", -90, "西", 270},
		{"multiple turns", 810, "東", 90},
		{"nan", math.NaN(), "北", 0},
		{"infinity", math.Inf(1), "北", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := classify.Wind(tt.degree)
			assert.Equal(t, tt.label, info.Label)
			assert.InDelta(t, tt.rotation, info.Rotation, 1e-9)
			assert.GreaterOrEqual(t, info.Index, 0)
			assert.Less(t, info.Index, 16)
		})
	}
}

func TestSunPhaseAt(t *testing.T) {
	sunrise := time.Date(2026, 6, 1, 19, 30, 0, 0, time.UTC)
	sunset := sunrise.Add(14 * time.Hour)

	tests := []struct {
		name     string
		now      time.Time
		expected classify.SunPhase
	}{
		{"well before sunrise", sunrise.Add(-3 * time.Hour), classify.SunNight},
		{"dawn window start", sunrise.Add(-time.Hour), classify.SunDawn},
		{"at sunrise", sunrise, classify.SunDawn},
		{"dawn window end", sunrise.Add(time.Hour), classify.SunDawn},
		{"midday", sunrise.Add(7 * time.Hour), classify.SunDay},
		{"dusk window start", sunset.Add(-time.Hour), classify.SunDusk},
		{"at sunset", sunset, classify.SunDusk},
		{"dusk window end", sunset.Add(time.Hour), classify.SunDusk},
		{"late night", sunset.Add(3 * time.Hour), classify.SunNight},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, classify.SunPhaseAt(tt.now, sunrise, sunset))
		})
	}
}

func TestSunPhaseAt_InvertedIsNight(t *testing.T) {
	sunrise := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, classify.SunNight, classify.SunPhaseAt(sunrise, sunrise, sunrise))
	assert.Equal(t, classify.SunNight, classify.SunPhaseAt(sunrise, sunrise, sunrise.Add(-time.Hour)))
}

func TestSunProgress(t *testing.T) {
	sunrise := time.Date(2026, 6, 1, 6, 0, 0, 0, time.UTC)
	sunset := sunrise.Add(12 * time.Hour)

	assert.Equal(t, 0.0, classify.SunProgress(sunrise.Add(-time.Hour), sunrise, sunset))
	assert.Equal(t, 0.5, classify.SunProgress(sunrise.Add(6*time.Hour), sunrise, sunset))
	assert.Equal(t, 1.0, classify.SunProgress(sunset.Add(time.Hour), sunrise, sunset))
	assert.Equal(t, 0.0, classify.SunProgress(sunrise, sunset, sunrise))
}

func TestSun(t *testing.T) {
	sunrise := time.Date(2026, 6, 1, 6, 0, 0, 0, time.UTC)
	sunset := sunrise.Add(12 * time.Hour)

	info := classify.Sun(sunrise.Add(3*time.Hour), sunrise, sunset)
	assert.Equal(t, classify.SunDay, info.Phase)
	assert.Equal(t, "日中", info.Label)
	assert.NotEmpty(t, info.Background)
	assert.Equal(t, 0.25, info.Progress)
}

func TestTemperatureHue(t *testing.T) {
	tests := []struct {
		celsius  float64
		expected string
	}{
		{-10, "210, 90%"},
		{4.9, "210, 90%"},
		{5, "200, 85%"},
		{10, "190, 80%"},
		{15, "160, 75%"},
		{20, "50, 80%"},
		{25, "35, 85%"},
		{29.9, "35, 85%"},
		{30, "15, 90%"},
		{40, "15, 90%"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, classify.TemperatureHue(tt.celsius), tt.celsius)
	}
}

func TestUVOf(t *testing.T) {
	for _, l := range classify.UVLevels {
		assert.Equal(t, l, classify.UVOf(l).Level)
	}
	assert.Equal(t, classify.UVExtreme, classify.UVOf("scorching").Level)
}
