package handler

import (
	"net/http"
	"time"

	"github.com/cityobservatory/cityobservatory/internal/api/models"
	"github.com/cityobservatory/cityobservatory/internal/api/response"
	"github.com/cityobservatory/cityobservatory/internal/classify"
	"github.com/cityobservatory/cityobservatory/internal/derived"
	"github.com/cityobservatory/cityobservatory/internal/openmeteo"
	"github.com/cityobservatory/cityobservatory/internal/series"
)

// MetadataHandler serves static metadata and the public client config.
type MetadataHandler struct {
	clientConfig models.ClientConfig
	enums        models.Enums
}

// NewMetadataHandler creates a new MetadataHandler.
func NewMetadataHandler(clientConfig models.ClientConfig) *MetadataHandler {
	if clientConfig.Ranges == nil {
		clientConfig.Ranges = series.Ranges
	}
	return &MetadataHandler{
		clientConfig: clientConfig,
		enums:        buildEnums(),
	}
}

func buildEnums() models.Enums {
	enums := models.Enums{
		Ranges:        series.Ranges,
		CompassPoints: classify.Compass[:],
		Pollutants:    openmeteo.AirQualityFields,
	}
	for _, c := range classify.Conditions {
		enums.WeatherConditions = append(enums.WeatherConditions, classify.WeatherOf(c))
	}
	for _, l := range classify.UVLevels {
		enums.UVLevels = append(enums.UVLevels, classify.UVOf(l))
	}
	for _, p := range classify.SunPhases {
		enums.SunPhases = append(enums.SunPhases, classify.SunOf(p))
	}
	for _, l := range derived.RiskLevels {
		enums.RiskLevels = append(enums.RiskLevels, models.EnumLabel{Value: string(l), Label: l.Label()})
	}
	for _, l := range derived.AirQualityLevels {
		enums.AirQualityLevels = append(enums.AirQualityLevels, models.EnumLabel{Value: string(l), Label: l.Label()})
	}
	return enums
}

// GetEnums handles GET /v1/metadata/enums.
func (h *MetadataHandler) GetEnums(w http.ResponseWriter, r *http.Request) {
	response.Cacheable(w, time.Hour)
	response.JSON(w, r, http.StatusOK, h.enums)
}

// GetConfig handles GET /v1/config.
func (h *MetadataHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	response.Cacheable(w, 5*time.Minute)
	response.JSON(w, r, http.StatusOK, h.clientConfig)
}
