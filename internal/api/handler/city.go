package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/cityobservatory/cityobservatory/internal/api/models"
	"github.com/cityobservatory/cityobservatory/internal/api/response"
	"github.com/cityobservatory/cityobservatory/internal/archive"
	"github.com/cityobservatory/cityobservatory/internal/dashboard"
	"github.com/cityobservatory/cityobservatory/internal/location"
)

// CitySearcher finds places by free text.
type CitySearcher interface {
	Search(ctx context.Context, query string) ([]location.Location, error)
}

// HistoryReader reads archived dashboard summaries.
type HistoryReader interface {
	History(ctx context.Context, locationID int64, limit int) ([]*archive.Record, error)
}

// CityHandler serves the city list, search and history endpoints.
type CityHandler struct {
	searcher CitySearcher
	history  HistoryReader
	logger   zerolog.Logger
}

// NewCityHandler creates a new CityHandler. A nil history disables the
// history endpoint.
func NewCityHandler(searcher CitySearcher, history HistoryReader, logger zerolog.Logger) *CityHandler {
	return &CityHandler{searcher: searcher, history: history, logger: logger}
}

// ListCities handles GET /v1/cities.
func (h *CityHandler) ListCities(w http.ResponseWriter, r *http.Request) {
	response.Cacheable(w, time.Hour)
	response.JSON(w, r, http.StatusOK, models.NewCityList(location.Cities()))
}

// SearchCities handles GET /v1/cities/search?q=.
func (h *CityHandler) SearchCities(w http.ResponseWriter, r *http.Request) {
	results, err := h.searcher.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.logger.Warn().Err(err).Msg("city search failed")
		response.ServiceUnavailable(w, r, "geocoding provider is unavailable", providerRetryAfter)
		return
	}
	response.JSON(w, r, http.StatusOK, models.NewCityList(results))
}

// GetHistory handles GET /v1/cities/{cityId}/history?limit=.
func (h *CityHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	loc, err := location.Lookup(chi.URLParam(r, "cityId"))
	if err != nil {
		writeError(w, r, "cityId", err)
		return
	}
	limit, err := parseLimit(r)
	if err != nil {
		writeError(w, r, "limit", err)
		return
	}
	if h.history == nil {
		response.ServiceUnavailable(w, r, "history is not enabled", 0)
		return
	}

	records, err := h.history.History(r.Context(), loc.ID, limit)
	if err != nil {
		h.logger.Error().Err(err).Int64("location_id", loc.ID).Msg("failed to read history")
		writeError(w, r, "", err)
		return
	}
	if records == nil {
		records = []*archive.Record{}
	}

	response.JSON(w, r, http.StatusOK, models.History{
		Location: loc,
		Items:    records,
		Meta:     models.ListMeta{Count: len(records), Limit: limit},
	})
}

var (
	_ HistoryReader    = (*archive.Service)(nil)
	_ CitySearcher     = (*location.Searcher)(nil)
	_ DashboardService = (*dashboard.Service)(nil)
)
