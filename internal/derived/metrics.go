package derived

// Metrics bundles the derived values shown on the summary card.
type Metrics struct {
	ComfortScore  int             `json:"comfortScore"`
	OutdoorRisk   RiskLevel       `json:"outdoorRiskLevel"`
	BestTimeSlots []TimeSlot      `json:"bestTimeSlots"`
	AirQuality    AirQualityLevel `json:"airQualityLabel"`
}

// Compute derives the summary metrics for the current hour and ranks the
// hours of in by comfort.
func Compute(current ComfortInput, in HourlyInput, slotLimit int) Metrics {
	return Metrics{
		ComfortScore: ComfortScore(current),
		OutdoorRisk: OutdoorRisk(RiskInput{
			PrecipitationProbability: current.PrecipitationProbability,
			WindSpeed:                current.WindSpeed,
			PM25:                     current.PM25,
		}),
		BestTimeSlots: BestTimeSlots(in.Times, HourlyComfort(in), slotLimit),
		AirQuality:    ClassifyAirQuality(current.PM25),
	}
}
