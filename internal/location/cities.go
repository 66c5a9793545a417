package location

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultCitySlug is the city shown when none is configured.
const DefaultCitySlug = "tokyo"

var cities = []Location{
	{ID: 1850144, Slug: "tokyo", Name: "Tokyo", Label: "東京", Country: "Japan", Lat: 35.6895, Lon: 139.6917, Timezone: "Asia/Tokyo"},
	{ID: 1853909, Slug: "osaka", Name: "Osaka", Label: "大阪", Country: "Japan", Lat: 34.6937, Lon: 135.5023, Timezone: "Asia/Tokyo"},
	{ID: 1856057, Slug: "nagoya", Name: "Nagoya", Label: "名古屋", Country: "Japan", Lat: 35.1815, Lon: 136.9066, Timezone: "Asia/Tokyo"},
	{ID: 2128295, Slug: "sapporo", Name: "Sapporo", Label: "札幌", Country: "Japan", Lat: 43.0618, Lon: 141.3545, Timezone: "Asia/Tokyo"},
	{ID: 1863967, Slug: "fukuoka", Name: "Fukuoka", Label: "福岡", Country: "Japan", Lat: 33.5904, Lon: 130.4017, Timezone: "Asia/Tokyo"},
	{ID: 1856035, Slug: "naha", Name: "Naha", Label: "那覇", Country: "Japan", Lat: 26.2124, Lon: 127.6809, Timezone: "Asia/Tokyo"},
}

// Cities returns a copy of the built-in city list.
func Cities() []Location {
	out := make([]Location, len(cities))
	copy(out, cities)
	return out
}

// Lookup finds a built-in city by slug, name or numeric id. Matching is
// case-insensitive.
func Lookup(key string) (Location, error) {
	key = strings.TrimSpace(key)
	if id, err := strconv.ParseInt(key, 10, 64); err == nil {
		for _, c := range cities {
			if c.ID == id {
				return c, nil
			}
		}
	}
	for _, c := range cities {
		if strings.EqualFold(c.Slug, key) || strings.EqualFold(c.Name, key) || c.Label == key {
			return c, nil
		}
	}
	return Location{}, fmt.Errorf("%w: %q", ErrUnknownCity, key)
}

// MustLookup is Lookup for keys known to exist. It panics otherwise.
func MustLookup(key string) Location {
	l, err := Lookup(key)
	if err != nil {
		panic(err)
	}
	return l
}
