package series

// Normalize drops every index where the timestamp is empty or any tracked
// field is null, and returns the remaining samples in their original order.
//
// When no field names are given, every field of raw is tracked. The scan is
// bounded by the shortest of Time and the tracked fields; a tracked field
// missing from raw bounds it to zero. If nothing survives, the result holds
// zero-length (non-nil) arrays.
func Normalize(raw Raw, fields ...string) Series {
	if len(fields) == 0 {
		fields = raw.FieldNames()
	}

	indexes := ValidIndexes(raw, fields...)

	out := Series{
		Time:   PickText(raw.Time, indexes),
		Fields: make(map[string][]float64, len(fields)),
	}
	for _, name := range fields {
		out.Fields[name] = pickValues(raw.Fields[name], indexes)
	}
	return out
}

// ValidIndexes returns the indexes i in [0, minLength) where Time[i] is
// non-empty and every named field is non-null.
func ValidIndexes(raw Raw, fields ...string) []int {
	bound := len(raw.Time)
	for _, name := range fields {
		if n := len(raw.Fields[name]); n < bound {
			bound = n
		}
	}

	indexes := make([]int, 0, bound)
	for i := 0; i < bound; i++ {
		if raw.Time[i] == "" {
			continue
		}
		if hasNull(raw, fields, i) {
			continue
		}
		indexes = append(indexes, i)
	}
	return indexes
}

func hasNull(raw Raw, fields []string, i int) bool {
	for _, name := range fields {
		if raw.Fields[name][i] == nil {
			return true
		}
	}
	return false
}

func pickValues(values []*float64, indexes []int) []float64 {
	out := make([]float64, 0, len(indexes))
	for _, i := range indexes {
		out = append(out, *values[i])
	}
	return out
}

// PickText selects values at indexes. Indexes past the end yield "".
func PickText(values []string, indexes []int) []string {
	out := make([]string, 0, len(indexes))
	for _, i := range indexes {
		if i < len(values) {
			out = append(out, values[i])
		} else {
			out = append(out, "")
		}
	}
	return out
}
