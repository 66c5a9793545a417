package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/cityobservatory/cityobservatory/internal/api/response"
	"github.com/cityobservatory/cityobservatory/internal/dashboard"
	"github.com/cityobservatory/cityobservatory/internal/location"
	"github.com/cityobservatory/cityobservatory/internal/series"
)

// DashboardService builds dashboards.
type DashboardService interface {
	Dashboard(ctx context.Context, loc location.Location, r series.Range) (*dashboard.Dashboard, error)
	Compare(ctx context.Context, left, right location.Location) (*dashboard.Comparison, error)
}

// DashboardHandler serves dashboards and comparisons.
type DashboardHandler struct {
	service     DashboardService
	defaultCity location.Location
	logger      zerolog.Logger
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(service DashboardService, defaultCity location.Location, logger zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{service: service, defaultCity: defaultCity, logger: logger}
}

// GetDashboard handles GET /v1/dashboard?city=&range= or ?lat=&lon=&tz=.
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	loc, err := resolveLocation(r, "city", h.defaultCity)
	if err != nil {
		writeError(w, r, "city", err)
		return
	}
	rng, err := parseRange(r)
	if err != nil {
		writeError(w, r, "range", err)
		return
	}

	d, err := h.service.Dashboard(r.Context(), loc, rng)
	if err != nil {
		h.logger.Warn().Err(err).Str("location", loc.Name).Str("range", string(rng)).Msg("dashboard unavailable")
		writeError(w, r, "", err)
		return
	}
	if d.Stale {
		w.Header().Set("Warning", `110 - "Response is Stale"`)
	}
	response.JSON(w, r, http.StatusOK, d)
}

// Compare handles GET /v1/compare?left=&right=.
func (h *DashboardHandler) Compare(w http.ResponseWriter, r *http.Request) {
	var locs [2]location.Location
	for i, param := range []string{"left", "right"} {
		key := strings.TrimSpace(r.URL.Query().Get(param))
		if key == "" {
			writeError(w, r, param, errMissingParam)
			return
		}
		loc, err := location.Lookup(key)
		if err != nil {
			writeError(w, r, param, err)
			return
		}
		locs[i] = loc
	}

	c, err := h.service.Compare(r.Context(), locs[0], locs[1])
	if err != nil {
		h.logger.Warn().Err(err).Str("left", locs[0].Name).Str("right", locs[1].Name).Msg("comparison unavailable")
		writeError(w, r, "", err)
		return
	}
	response.JSON(w, r, http.StatusOK, c)
}
