// Package derived computes display metrics from normalized weather and
// air-quality readings: comfort score, outdoor risk, air-quality label and
// the best hours to be outside.
package derived

import "math"

// ComfortInput is a single hour of conditions.
type ComfortInput struct {
	Temperature              float64 // °C
	Humidity                 float64 // %
	WindSpeed                float64 // m/s
	PrecipitationProbability float64 // %
	PM25                     float64 // µg/m³
}

// ComfortScore rates how pleasant it is outside from 0 to 100. The score
// starts at 100 and loses points for distance from 22°C and 50% humidity,
// wind above 3 m/s, rain probability and PM2.5 above 12. It is rounded half
// up and clamped; non-finite inputs score 0.
func ComfortScore(in ComfortInput) int {
	raw := 100 -
		2.2*math.Abs(in.Temperature-22) -
		0.6*math.Abs(in.Humidity-50) -
		4*math.Max(in.WindSpeed-3, 0) -
		0.15*in.PrecipitationProbability -
		0.6*math.Max(in.PM25-12, 0)

	if math.IsNaN(raw) || math.IsInf(raw, -1) {
		return 0
	}

	rounded := math.Floor(raw + 0.5)
	return int(math.Max(0, math.Min(100, rounded)))
}
