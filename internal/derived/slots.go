package derived

import (
	"sort"
	"time"

	"github.com/cityobservatory/cityobservatory/internal/series"
)

// DefaultSlotLimit is the number of slots BestTimeSlots returns when no
// positive limit is given.
const DefaultSlotLimit = 3

// slotLength is the span of a single time slot.
const slotLength = time.Hour

const (
	dateLayout   = "2006-01-02"
	minuteLayout = "2006-01-02T15:04"
)

// TimeSlot is a one-hour window and its score.
type TimeSlot struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Score     int    `json:"score"`
}

// BestTimeSlots ranks times by score, highest first, and returns the top
// limit as one-hour slots. Equal scores keep their original order. A time
// without a score counts as 0.
//
// EndTime is StartTime plus one hour, in the same offset-naive layout as
// StartTime (date-only starts gain a clock time); it is empty if StartTime
// cannot be parsed.
func BestTimeSlots(times []string, scores []int, limit int) []TimeSlot {
	if limit <= 0 {
		limit = DefaultSlotLimit
	}

	order := make([]int, len(times))
	for i := range order {
		order[i] = i
	}
	scoreAt := func(i int) int {
		if i < len(scores) {
			return scores[i]
		}
		return 0
	}
	sort.SliceStable(order, func(a, b int) bool {
		sa, sb := scoreAt(order[a]), scoreAt(order[b])
		if sa != sb {
			return sa > sb
		}
		return order[a] < order[b]
	})

	if len(order) > limit {
		order = order[:limit]
	}

	slots := make([]TimeSlot, 0, len(order))
	for _, i := range order {
		slots = append(slots, TimeSlot{
			StartTime: times[i],
			EndTime:   slotEnd(times[i]),
			Score:     scoreAt(i),
		})
	}
	return slots
}

func slotEnd(start string) string {
	t, layout, ok := series.ParseWallClock(start)
	if !ok {
		return ""
	}
	if layout == dateLayout {
		layout = minuteLayout
	}
	return t.Add(slotLength).Format(layout)
}
