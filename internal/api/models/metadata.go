package models

import (
	"github.com/cityobservatory/cityobservatory/internal/classify"
	"github.com/cityobservatory/cityobservatory/internal/series"
)

// Enums lists the category values used in dashboard responses.
type Enums struct {
	Ranges            []series.Range         `json:"ranges"`
	WeatherConditions []classify.WeatherInfo `json:"weatherConditions"`
	UVLevels          []classify.UVInfo      `json:"uvLevels"`
	SunPhases         []classify.SunInfo     `json:"sunPhases"`
	CompassPoints     []string               `json:"compassPoints"`
	RiskLevels        []EnumLabel            `json:"riskLevels"`
	AirQualityLevels  []EnumLabel            `json:"airQualityLevels"`
	Pollutants        []string               `json:"pollutants"`
}

// EnumLabel pairs an enum value with its display label.
type EnumLabel struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// ClientConfig is the public configuration of dashboard clients.
type ClientConfig struct {
	DefaultCity   string         `json:"defaultCity"`
	FeatureMap    bool           `json:"featureMap"`
	MapTilerKey   string         `json:"maptilerKey,omitempty"`
	MapStyleLight string         `json:"mapStyleLight,omitempty"`
	MapStyleDark  string         `json:"mapStyleDark,omitempty"`
	Ranges        []series.Range `json:"ranges"`
}
