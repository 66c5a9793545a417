package derived

import "github.com/cityobservatory/cityobservatory/internal/series"

// HourlyInput is an hourly weather series plus the air-quality PM2.5
// series it is joined with. Weather slices are indexed by Times and
// PM25 by AirTimes.
type HourlyInput struct {
	Times                    []string
	Temperature              []float64
	Humidity                 []float64
	WindSpeed                []float64
	PrecipitationProbability []float64

	AirTimes []string
	PM25     []float64
}

// HourlyComfort scores every weather hour. Air quality is joined on the
// timestamp; hours with no air-quality sample use a PM2.5 of 0. The result
// is index aligned with Times; missing weather values count as 0.
func HourlyComfort(in HourlyInput) []int {
	pm25At := series.IndexByTime(in.AirTimes)

	scores := make([]int, len(in.Times))
	for i, t := range in.Times {
		var pm25 float64
		if j, ok := pm25At[t]; ok && j < len(in.PM25) {
			pm25 = in.PM25[j]
		}
		scores[i] = ComfortScore(ComfortInput{
			Temperature:              at(in.Temperature, i),
			Humidity:                 at(in.Humidity, i),
			WindSpeed:                at(in.WindSpeed, i),
			PrecipitationProbability: at(in.PrecipitationProbability, i),
			PM25:                     pm25,
		})
	}
	return scores
}

func at(values []float64, i int) float64 {
	if i < len(values) {
		return values[i]
	}
	return 0
}
