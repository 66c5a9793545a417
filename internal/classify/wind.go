package classify

import "math"

// Compass holds the 16 Japanese compass point names clockwise from North.
var Compass = [16]string{
	"北", "北北東", "北東", "東北東",
	"東", "東南東", "南東", "南南東",
	"南", "南南西", "南西", "西南西",
	"西", "西北西", "北西", "北北西",
}

// WindInfo is a wind direction bucketed onto the compass.
type WindInfo struct {
	Label    string  `json:"label"`
	Index    int     `json:"index"`
	Rotation float64 `json:"rotation"`
}

// NormalizeDegree maps any angle into [0, 360). NaN and infinities map to 0.
func NormalizeDegree(degree float64) float64 {
	if math.IsNaN(degree) || math.IsInf(degree, 0) {
		return 0
	}
	d := math.Mod(degree, 360)
	if d < 0 {
		d += 360
	}
	// -0 and rounding of tiny negatives can land exactly on 360.
	if d >= 360 || d == 0 {
		return 0
	}
	return d
}

// Wind buckets a wind direction in degrees into one of 16 compass points,
// each 22.5 degrees wide and centered so that bucket 0 is North.
func Wind(degree float64) WindInfo {
	normalized := NormalizeDegree(degree)
	index := int(math.Floor((normalized+11.25)/22.5)) % len(Compass)
	return WindInfo{
		Label:    Compass[index],
		Index:    index,
		Rotation: normalized,
	}
}
