// Package classify maps raw provider codes and readings onto closed,
// labeled category sets. Every function is total: inputs outside the known
// domain resolve to an explicit fallback category.
package classify

import "math"

// Condition is a weather condition category.
type Condition string

const (
	ConditionClear        Condition = "clear"
	ConditionMostlyClear  Condition = "mostly-clear"
	ConditionPartlyCloudy Condition = "partly-cloudy"
	ConditionOvercast     Condition = "overcast"
	ConditionFog          Condition = "fog"
	ConditionDrizzle      Condition = "drizzle"
	ConditionRain         Condition = "rain"
	ConditionSnow         Condition = "snow"
	ConditionRainShowers  Condition = "rain-showers"
	ConditionSnowShowers  Condition = "snow-showers"
	ConditionThunderstorm Condition = "thunderstorm"
	ConditionUnknown      Condition = "unknown"
)

// Conditions lists every condition in display order.
var Conditions = []Condition{
	ConditionClear,
	ConditionMostlyClear,
	ConditionPartlyCloudy,
	ConditionOvercast,
	ConditionFog,
	ConditionDrizzle,
	ConditionRain,
	ConditionSnow,
	ConditionRainShowers,
	ConditionSnowShowers,
	ConditionThunderstorm,
	ConditionUnknown,
}

// WeatherInfo is a weather condition with its presentation hints.
type WeatherInfo struct {
	Condition  Condition `json:"condition"`
	Label      string    `json:"label"`
	Icon       string    `json:"icon"`
	Background string    `json:"background"`
}

var weatherInfo = map[Condition]WeatherInfo{
	ConditionClear:        {ConditionClear, "快晴", "sun", "linear-gradient(to bottom, #87CEEB, #E0F6FF)"},
	ConditionMostlyClear:  {ConditionMostlyClear, "晴れ", "sun", "linear-gradient(to bottom, #B0C4DE, #E8F4F8)"},
	ConditionPartlyCloudy: {ConditionPartlyCloudy, "薄曇り", "cloud-sun", "linear-gradient(to bottom, #A9C3D8, #E6F0F6)"},
	ConditionOvercast:     {ConditionOvercast, "曇り", "cloud", "linear-gradient(to bottom, #778899, #D3D3D3)"},
	ConditionFog:          {ConditionFog, "霧", "cloud-fog", "linear-gradient(to bottom, #B0B8BF, #E1E5E8)"},
	ConditionDrizzle:      {ConditionDrizzle, "霧雨", "cloud-drizzle", "linear-gradient(to bottom, #7BA0C4, #C5D8E8)"},
	ConditionRain:         {ConditionRain, "雨", "cloud-rain", "linear-gradient(to bottom, #4682B4, #B0C4DE)"},
	ConditionSnow:         {ConditionSnow, "雪", "cloud-snow", "linear-gradient(to bottom, #E0FFFF, #FFFFFF)"},
	ConditionRainShowers:  {ConditionRainShowers, "にわか雨", "cloud-rain", "linear-gradient(to bottom, #5A8DBB, #BCD0E4)"},
	ConditionSnowShowers:  {ConditionSnowShowers, "にわか雪", "cloud-snow", "linear-gradient(to bottom, #E6F7FF, #FFFFFF)"},
	ConditionThunderstorm: {ConditionThunderstorm, "雷雨", "cloud-lightning", "linear-gradient(to bottom, #2F4F4F, #696969)"},
	ConditionUnknown:      {ConditionUnknown, "不明", "cloud-alert", "linear-gradient(to bottom, #9CA3AF, #E5E7EB)"},
}

// ConditionOf maps a WMO weather code to its condition. Ranges are closed,
// so 52.5 is drizzle. NaN and codes outside every range are unknown.
func ConditionOf(code float64) Condition {
	if math.IsNaN(code) {
		return ConditionUnknown
	}

	switch {
	case code == 0:
		return ConditionClear
	case code == 1:
		return ConditionMostlyClear
	case code == 2:
		return ConditionPartlyCloudy
	case code == 3:
		return ConditionOvercast
	case code == 45 || code == 48:
		return ConditionFog
	case code >= 51 && code <= 55:
		return ConditionDrizzle
	case code >= 61 && code <= 65:
		return ConditionRain
	case code >= 71 && code <= 75:
		return ConditionSnow
	case code >= 80 && code <= 82:
		return ConditionRainShowers
	case code >= 85 && code <= 86:
		return ConditionSnowShowers
	case code >= 95 && code <= 99:
		return ConditionThunderstorm
	default:
		return ConditionUnknown
	}
}

// Weather classifies a WMO weather code.
func Weather(code float64) WeatherInfo {
	return weatherInfo[ConditionOf(code)]
}

// WeatherOf returns the presentation record of a condition.
func WeatherOf(c Condition) WeatherInfo {
	if info, ok := weatherInfo[c]; ok {
		return info
	}
	return weatherInfo[ConditionUnknown]
}
