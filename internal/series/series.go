// Package series aligns provider time series.
//
// A provider time series is a shared timestamp array plus one or more numeric
// arrays indexed in parallel with it. Raw provider payloads may carry nulls at
// arbitrary positions and arrays of different lengths; Normalize restores the
// invariant that every field has the same length as Time and holds no gaps.
package series

import "sort"

// Series is an index-aligned, null-free time series.
// Fields[name][i] belongs to Time[i] for every field.
type Series struct {
	Time   []string
	Fields map[string][]float64
}

// Raw is a time series as decoded from a provider payload.
// A nil element is a provider null.
type Raw struct {
	Time   []string
	Fields map[string][]*float64
}

// Len returns the number of samples.
func (s Series) Len() int {
	return len(s.Time)
}

// IsEmpty reports whether the series has no samples.
func (s Series) IsEmpty() bool {
	return len(s.Time) == 0
}

// Field returns the values of a field, or nil if the field is not tracked.
func (s Series) Field(name string) []float64 {
	return s.Fields[name]
}

// FieldNames returns the tracked field names in lexical order.
func (s Series) FieldNames() []string {
	names := make([]string, 0, len(s.Fields))
	for name := range s.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FieldNames returns the raw field names in lexical order.
func (r Raw) FieldNames() []string {
	names := make([]string, 0, len(r.Fields))
	for name := range r.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lift turns a clean series back into raw form. Normalizing the result
// yields a series equal to s.
func Lift(s Series) Raw {
	raw := Raw{
		Time:   s.Time,
		Fields: make(map[string][]*float64, len(s.Fields)),
	}
	for name, values := range s.Fields {
		ptrs := make([]*float64, len(values))
		for i := range values {
			v := values[i]
			ptrs[i] = &v
		}
		raw.Fields[name] = ptrs
	}
	return raw
}

// IndexByTime maps each timestamp to its first index.
func IndexByTime(times []string) map[string]int {
	index := make(map[string]int, len(times))
	for i, t := range times {
		if _, seen := index[t]; !seen {
			index[t] = i
		}
	}
	return index
}
