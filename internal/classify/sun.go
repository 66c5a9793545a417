package classify

import (
	"math"
	"time"
)

// SunPhase is the position of the sun relative to sunrise and sunset.
type SunPhase string

const (
	SunDawn  SunPhase = "dawn"
	SunDay   SunPhase = "day"
	SunDusk  SunPhase = "dusk"
	SunNight SunPhase = "night"
)

// SunPhases lists every phase in the order they occur.
var SunPhases = []SunPhase{SunDawn, SunDay, SunDusk, SunNight}

// twilight is how far either side of sunrise and sunset counts as dawn or dusk.
const twilight = time.Hour

// SunInfo describes the current sun phase and the progress of the sun
// across the sky, from 0 at sunrise to 1 at sunset.
type SunInfo struct {
	Phase      SunPhase `json:"phase"`
	Label      string   `json:"label"`
	Background string   `json:"background"`
	Progress   float64  `json:"progress"`
}

var sunInfo = map[SunPhase]SunInfo{
	SunDawn:  {Phase: SunDawn, Label: "夜明け", Background: "linear-gradient(to right, #FDB99B, #CF8BF3, #A770EF)"},
	SunDay:   {Phase: SunDay, Label: "日中", Background: "linear-gradient(to right, #56CCF2, #2F80ED)"},
	SunDusk:  {Phase: SunDusk, Label: "夕暮れ", Background: "linear-gradient(to right, #F2994A, #EB5757, #6A3093)"},
	SunNight: {Phase: SunNight, Label: "夜", Background: "linear-gradient(to right, #0F2027, #203A43, #2C5364)"},
}

// SunPhaseAt returns the phase at now. A window of one hour either side of
// sunrise is dawn and likewise for sunset and dusk; between the two windows
// it is day and otherwise night. If sunset is not after sunrise the phase is
// night.
func SunPhaseAt(now, sunrise, sunset time.Time) SunPhase {
	if !sunset.After(sunrise) {
		return SunNight
	}

	switch {
	case within(now, sunrise, twilight):
		return SunDawn
	case within(now, sunset, twilight):
		return SunDusk
	case now.After(sunrise) && now.Before(sunset):
		return SunDay
	default:
		return SunNight
	}
}

// SunProgress returns (now - sunrise) / (sunset - sunrise) clamped to
// [0, 1], or 0 when sunset is not after sunrise.
func SunProgress(now, sunrise, sunset time.Time) float64 {
	span := sunset.Sub(sunrise)
	if span <= 0 {
		return 0
	}
	p := float64(now.Sub(sunrise)) / float64(span)
	return math.Max(0, math.Min(1, p))
}

// Sun classifies now against the day's sunrise and sunset.
func Sun(now, sunrise, sunset time.Time) SunInfo {
	info := SunOf(SunPhaseAt(now, sunrise, sunset))
	info.Progress = SunProgress(now, sunrise, sunset)
	return info
}

// SunOf returns the presentation record of a phase with zero progress.
func SunOf(phase SunPhase) SunInfo {
	if info, ok := sunInfo[phase]; ok {
		return info
	}
	return sunInfo[SunNight]
}

func within(t, center time.Time, d time.Duration) bool {
	diff := t.Sub(center)
	return diff >= -d && diff <= d
}
