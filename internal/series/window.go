package series

import (
	"errors"
	"fmt"
)

// ErrInvalidRange is returned by ParseRange for unsupported ranges.
var ErrInvalidRange = errors.New("invalid range")

// Range selects how much of a series is shown.
type Range string

const (
	Range24h Range = "24h"
	Range5d  Range = "5d"
	Range7d  Range = "7d"
)

// Ranges lists every supported range.
var Ranges = []Range{Range24h, Range5d, Range7d}

// dayWindow is the number of hourly samples in the 24h view.
const dayWindow = 24

// ParseRange parses a range query value.
func ParseRange(value string) (Range, error) {
	switch r := Range(value); r {
	case Range24h, Range5d, Range7d:
		return r, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidRange, value)
	}
}

// Window slices s for display. Range24h keeps the first 24 samples (or all
// of them if there are fewer); every other range returns s unchanged.
func Window(s Series, r Range) Series {
	if r != Range24h {
		return s
	}
	return Head(s, dayWindow)
}

// Head returns the first n samples of s.
func Head(s Series, n int) Series {
	if n < 0 {
		n = 0
	}
	if n >= len(s.Time) {
		return s
	}

	out := Series{
		Time:   s.Time[:n:n],
		Fields: make(map[string][]float64, len(s.Fields)),
	}
	for name, values := range s.Fields {
		if n > len(values) {
			out.Fields[name] = values
			continue
		}
		out.Fields[name] = values[:n:n]
	}
	return out
}
