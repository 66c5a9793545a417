package derived

// AirQualityLevel is an air-quality category derived from PM2.5.
type AirQualityLevel string

const (
	AirQualityGood      AirQualityLevel = "good"
	AirQualityModerate  AirQualityLevel = "moderate"
	AirQualityUnhealthy AirQualityLevel = "unhealthy"
	AirQualityHazardous AirQualityLevel = "hazardous"
)

// AirQualityLevels lists every level from best to worst.
var AirQualityLevels = []AirQualityLevel{
	AirQualityGood,
	AirQualityModerate,
	AirQualityUnhealthy,
	AirQualityHazardous,
}

// ClassifyAirQuality labels a PM2.5 concentration in µg/m³. NaN is
// hazardous.
func ClassifyAirQuality(pm25 float64) AirQualityLevel {
	switch {
	case pm25 <= 12:
		return AirQualityGood
	case pm25 <= 35.4:
		return AirQualityModerate
	case pm25 <= 55.4:
		return AirQualityUnhealthy
	default:
		return AirQualityHazardous
	}
}

// Label returns the air-quality card label.
func (l AirQualityLevel) Label() string {
	switch l {
	case AirQualityGood:
		return "良い"
	case AirQualityModerate:
		return "注意"
	case AirQualityUnhealthy:
		return "悪い"
	case AirQualityHazardous:
		return "危険"
	default:
		return ""
	}
}
