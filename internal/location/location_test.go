package location_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cityobservatory/cityobservatory/internal/location"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		name string
		key  string
		id   int64
	}{
		{"slug", "tokyo", 1850144},
		{"mixed case", "Osaka", 1853909},
		{"numeric id", "2128295", 2128295},
		{"label", "那覇", 1856035},
		{"padded", "  fukuoka ", 1863967},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			city, err := location.Lookup(tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.id, city.ID)
			assert.Equal(t, "Asia/Tokyo", city.Timezone)
		})
	}
}

func TestLookup_Unknown(t *testing.T) {
	_, err := location.Lookup("atlantis")
	assert.ErrorIs(t, err, location.ErrUnknownCity)

	_, err = location.Lookup("1")
	assert.ErrorIs(t, err, location.ErrUnknownCity)
}

func TestCities(t *testing.T) {
	list := location.Cities()
	require.Len(t, list, 6)
	assert.Equal(t, "東京", list[0].Label)

	list[0].Label = "changed"
	assert.Equal(t, "東京", location.Cities()[0].Label, "returns a copy")

	assert.Equal(t, location.DefaultCitySlug, location.MustLookup(location.DefaultCitySlug).Slug)
}

func TestParseCoordinates(t *testing.T) {
	lat, lon, err := location.ParseCoordinates("35.68", " 139.69")
	require.NoError(t, err)
	assert.Equal(t, 35.68, lat)
	assert.Equal(t, 139.69, lon)

	for _, tc := range [][2]string{{"abc", "1"}, {"1", ""}, {"91", "0"}, {"0", "-181"}, {"NaN", "0"}} {
		_, _, err := location.ParseCoordinates(tc[0], tc[1])
		assert.ErrorIs(t, err, location.ErrInvalidCoordinates, tc)
	}
}

func TestFromCoordinates(t *testing.T) {
	loc, err := location.FromCoordinates(35.5, 139.25, "Asia/Tokyo")
	require.NoError(t, err)
	assert.Equal(t, "35.5000, 139.2500", loc.Name)
	assert.Equal(t, "35.5000,139.2500", loc.CacheKey())
	assert.Equal(t, loc.Name, loc.DisplayName())

	_, err = location.FromCoordinates(math.NaN(), 0, "")
	assert.ErrorIs(t, err, location.ErrInvalidCoordinates)
}

type stubGeocoder struct {
	calls   int
	results []location.Location
	err     error
}

func (g *stubGeocoder) SearchLocations(_ context.Context, _ string) ([]location.Location, error) {
	g.calls++
	return g.results, g.err
}

func TestSearcher_ShortQuerySkipsGeocoder(t *testing.T) {
	geocoder := &stubGeocoder{}
	searcher := location.NewSearcher(location.SearcherConfig{Geocoder: geocoder, Logger: zerolog.Nop()})

	for _, q := range []string{"", "a", " 東 ", "  "} {
		results, err := searcher.Search(context.Background(), q)
		require.NoError(t, err)
		assert.NotNil(t, results)
		assert.Empty(t, results)
	}
	assert.Equal(t, 0, geocoder.calls)
}

func TestSearcher_ForwardsQuery(t *testing.T) {
	geocoder := &stubGeocoder{results: []location.Location{{ID: 1, Name: "Kyoto"}}}
	searcher := location.NewSearcher(location.SearcherConfig{Geocoder: geocoder, Logger: zerolog.Nop()})

	results, err := searcher.Search(context.Background(), "京都")
	require.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, 1, geocoder.calls)
}

func TestSearcher_NilResultsBecomeEmpty(t *testing.T) {
	searcher := location.NewSearcher(location.SearcherConfig{Geocoder: &stubGeocoder{}, Logger: zerolog.Nop()})

	results, err := searcher.Search(context.Background(), "nowhere")
	require.NoError(t, err)
	assert.NotNil(t, results)
}

func TestSearcher_PropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	searcher := location.NewSearcher(location.SearcherConfig{Geocoder: &stubGeocoder{err: boom}, Logger: zerolog.Nop()})

	_, err := searcher.Search(context.Background(), "tokyo")
	assert.ErrorIs(t, err, boom)
}
