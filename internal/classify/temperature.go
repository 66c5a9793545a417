package classify

// TemperatureHue returns the "hue, saturation" pair used to tint a
// temperature reading, e.g. "210, 90%" for cold values.
func TemperatureHue(celsius float64) string {
	switch {
	case celsius < 5:
		return "210, 90%"
	case celsius < 10:
		return "200, 85%"
	case celsius < 15:
		return "190, 80%"
	case celsius < 20:
		return "160, 75%"
	case celsius < 25:
		return "50, 80%"
	case celsius < 30:
		return "35, 85%"
	default:
		return "15, 90%"
	}
}
