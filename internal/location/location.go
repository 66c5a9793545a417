// Package location holds the reference places the dashboard can show: a
// fixed list of cities and free-text geocoding search.
package location

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrUnknownCity is returned when a city key matches no known city.
	ErrUnknownCity = errors.New("unknown city")

	// ErrInvalidCoordinates is returned for coordinates outside the globe.
	ErrInvalidCoordinates = errors.New("invalid coordinates")
)

// Location is a place identified by its provider id.
type Location struct {
	ID        int64    `json:"id"`
	Slug      string   `json:"slug,omitempty"`
	Name      string   `json:"name"`
	Label     string   `json:"label,omitempty"`
	Country   string   `json:"country"`
	Lat       float64  `json:"lat"`
	Lon       float64  `json:"lon"`
	Timezone  string   `json:"timezone"`
	Elevation *float64 `json:"elevation,omitempty"`
}

// DisplayName returns the label if set, otherwise the name.
func (l Location) DisplayName() string {
	if l.Label != "" {
		return l.Label
	}
	return l.Name
}

// CacheKey identifies the location's coordinates to four decimal places.
func (l Location) CacheKey() string {
	return fmt.Sprintf("%.4f,%.4f", l.Lat, l.Lon)
}

// ValidateCoordinates checks that lat and lon are finite and in range.
func ValidateCoordinates(lat, lon float64) error {
	if math.IsNaN(lat) || math.IsNaN(lon) || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return fmt.Errorf("%w: lat=%v lon=%v", ErrInvalidCoordinates, lat, lon)
	}
	return nil
}

// FromCoordinates builds an ad hoc location for a coordinate pair. The
// timezone may be empty, in which case the provider resolves it.
func FromCoordinates(lat, lon float64, timezone string) (Location, error) {
	if err := ValidateCoordinates(lat, lon); err != nil {
		return Location{}, err
	}
	return Location{
		Name:     fmt.Sprintf("%.4f, %.4f", lat, lon),
		Lat:      lat,
		Lon:      lon,
		Timezone: timezone,
	}, nil
}

// ParseCoordinates parses lat and lon query values.
func ParseCoordinates(lat, lon string) (float64, float64, error) {
	la, err := strconv.ParseFloat(strings.TrimSpace(lat), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: lat %q", ErrInvalidCoordinates, lat)
	}
	lo, err := strconv.ParseFloat(strings.TrimSpace(lon), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: lon %q", ErrInvalidCoordinates, lon)
	}
	if err := ValidateCoordinates(la, lo); err != nil {
		return 0, 0, err
	}
	return la, lo, nil
}
