package series

import (
	"time"
)

// Layouts of offset-naive provider timestamps, tried in order.
var wallClockLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.000",
	"2006-01-02",
}

// Snapshot is the value of each field at a single index.
type Snapshot map[string]float64

// Get returns the value of a field, or 0 if it was not extracted.
func (s Snapshot) Get(name string) float64 {
	return s[name]
}

// ParseWallClock parses an offset-naive timestamp as if it were UTC and
// returns the layout it matched.
func ParseWallClock(value string) (time.Time, string, bool) {
	for _, layout := range wallClockLayouts {
		t, err := time.ParseInLocation(layout, value, time.UTC)
		if err == nil {
			return t, layout, true
		}
	}
	return time.Time{}, "", false
}

// ToInstant converts a provider-local timestamp into the UTC instant it
// denotes. The provider adds utcOffsetSeconds to UTC to produce local text,
// so the instant is the text read as UTC minus the offset.
func ToInstant(value string, utcOffsetSeconds int) (time.Time, bool) {
	t, _, ok := ParseWallClock(value)
	if !ok {
		return time.Time{}, false
	}
	return t.Add(-time.Duration(utcOffsetSeconds) * time.Second), true
}

// ClosestIndex returns the index whose instant is nearest to now. Ties go to
// the lowest index and unparseable timestamps are skipped. It reports false
// only when times is empty; if no timestamp parses, index 0 is returned.
func ClosestIndex(times []string, utcOffsetSeconds int, now time.Time) (int, bool) {
	if len(times) == 0 {
		return 0, false
	}

	best := 0
	var bestDiff time.Duration = -1
	for i, value := range times {
		instant, ok := ToInstant(value, utcOffsetSeconds)
		if !ok {
			continue
		}
		diff := instant.Sub(now)
		if diff < 0 {
			diff = -diff
		}
		if bestDiff < 0 || diff < bestDiff {
			best = i
			bestDiff = diff
		}
	}
	return best, true
}

// Extract reads index from each named field. Fields that are missing or too
// short yield 0. With no names, every field of s is read.
func Extract(s Series, index int, fields ...string) Snapshot {
	if len(fields) == 0 {
		fields = s.FieldNames()
	}

	snap := make(Snapshot, len(fields))
	for _, name := range fields {
		values := s.Fields[name]
		if index >= 0 && index < len(values) {
			snap[name] = values[index]
		} else {
			snap[name] = 0
		}
	}
	return snap
}

// SnapshotAt selects the sample nearest to now and extracts it. It reports
// false for an empty series.
func SnapshotAt(s Series, utcOffsetSeconds int, now time.Time, fields ...string) (Snapshot, int, bool) {
	index, ok := ClosestIndex(s.Time, utcOffsetSeconds, now)
	if !ok {
		return nil, 0, false
	}
	return Extract(s, index, fields...), index, true
}
