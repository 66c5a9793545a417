package classify

// UVLevel is a UV index category.
type UVLevel string

const (
	UVLow      UVLevel = "low"
	UVModerate UVLevel = "moderate"
	UVHigh     UVLevel = "high"
	UVVeryHigh UVLevel = "very-high"
	UVExtreme  UVLevel = "extreme"
)

// UVLevels lists every UV level from lowest to highest.
var UVLevels = []UVLevel{UVLow, UVModerate, UVHigh, UVVeryHigh, UVExtreme}

// UVInfo is a UV level with its label and display color.
type UVInfo struct {
	Level UVLevel `json:"level"`
	Label string  `json:"label"`
	Color string  `json:"color"`
}

var uvInfo = map[UVLevel]UVInfo{
	UVLow:      {UVLow, "低い", "hsl(120, 60%, 50%)"},
	UVModerate: {UVModerate, "中程度", "hsl(60, 100%, 50%)"},
	UVHigh:     {UVHigh, "高い", "hsl(30, 100%, 50%)"},
	UVVeryHigh: {UVVeryHigh, "非常に高い", "hsl(0, 100%, 50%)"},
	UVExtreme:  {UVExtreme, "極端に高い", "hsl(270, 100%, 40%)"},
}

// UVLevelOf buckets a UV index. NaN falls through every threshold and is
// extreme.
func UVLevelOf(index float64) UVLevel {
	switch {
	case index <= 2:
		return UVLow
	case index <= 5:
		return UVModerate
	case index <= 7:
		return UVHigh
	case index <= 10:
		return UVVeryHigh
	default:
		return UVExtreme
	}
}

// UV classifies a UV index.
func UV(index float64) UVInfo {
	return uvInfo[UVLevelOf(index)]
}

// UVOf returns the presentation record of a level. Unknown levels are
// extreme.
func UVOf(level UVLevel) UVInfo {
	if info, ok := uvInfo[level]; ok {
		return info
	}
	return uvInfo[UVExtreme]
}
