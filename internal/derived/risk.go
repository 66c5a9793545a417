package derived

// RiskLevel is the outdoor activity risk.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// RiskLevels lists every risk level from lowest to highest.
var RiskLevels = []RiskLevel{RiskLow, RiskMedium, RiskHigh}

// RiskInput holds the readings that feed the outdoor risk score.
type RiskInput struct {
	PrecipitationProbability float64
	WindSpeed                float64
	PM25                     float64
}

// RiskScore is 0.6·precipitation + 5·wind + 0.4·PM2.5.
func RiskScore(in RiskInput) float64 {
	return 0.6*in.PrecipitationProbability + 5*in.WindSpeed + 0.4*in.PM25
}

// OutdoorRisk buckets the risk score: below 35 is low, below 70 medium.
func OutdoorRisk(in RiskInput) RiskLevel {
	score := RiskScore(in)
	switch {
	case score < 35:
		return RiskLow
	case score < 70:
		return RiskMedium
	default:
		return RiskHigh
	}
}

// Label returns the summary card label.
func (r RiskLevel) Label() string {
	switch r {
	case RiskLow:
		return "低"
	case RiskMedium:
		return "中"
	case RiskHigh:
		return "高"
	default:
		return ""
	}
}
