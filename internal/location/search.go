package location

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
)

// MinQueryLength is the shortest query sent to the geocoder.
const MinQueryLength = 2

// Geocoder resolves free text to places.
type Geocoder interface {
	SearchLocations(ctx context.Context, query string) ([]Location, error)
}

// SearcherConfig configures a Searcher.
type SearcherConfig struct {
	Geocoder Geocoder
	Logger   zerolog.Logger
}

// Searcher guards a Geocoder against queries too short to be useful.
type Searcher struct {
	geocoder Geocoder
	logger   zerolog.Logger
}

// NewSearcher creates a Searcher.
func NewSearcher(cfg SearcherConfig) *Searcher {
	return &Searcher{
		geocoder: cfg.Geocoder,
		logger:   cfg.Logger,
	}
}

// Search returns the places matching query. Queries shorter than
// MinQueryLength characters return an empty result without calling the
// geocoder.
func (s *Searcher) Search(ctx context.Context, query string) ([]Location, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < MinQueryLength {
		return []Location{}, nil
	}

	results, err := s.geocoder.SearchLocations(ctx, query)
	if err != nil {
		s.logger.Warn().Err(err).Str("query", query).Msg("geocoding search failed")
		return nil, err
	}
	if results == nil {
		results = []Location{}
	}
	return results, nil
}
