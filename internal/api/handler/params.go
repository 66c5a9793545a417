package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cityobservatory/cityobservatory/internal/api/models"
	"github.com/cityobservatory/cityobservatory/internal/api/response"
	"github.com/cityobservatory/cityobservatory/internal/dashboard"
	"github.com/cityobservatory/cityobservatory/internal/location"
	"github.com/cityobservatory/cityobservatory/internal/openmeteo"
	"github.com/cityobservatory/cityobservatory/internal/series"
)

// providerRetryAfter is the Retry-After hint sent with 503 responses.
const providerRetryAfter = time.Minute

// resolveLocation reads a location from the city key in param, or from
// lat, lon and tz, falling back to def when the request names none.
func resolveLocation(r *http.Request, param string, def location.Location) (location.Location, error) {
	q := r.URL.Query()

	if key := strings.TrimSpace(q.Get(param)); key != "" {
		return location.Lookup(key)
	}

	lat, lon := q.Get("lat"), q.Get("lon")
	if lat == "" && lon == "" {
		return def, nil
	}

	la, lo, err := location.ParseCoordinates(lat, lon)
	if err != nil {
		return location.Location{}, err
	}
	loc, err := location.FromCoordinates(la, lo, q.Get("tz"))
	if err != nil {
		return location.Location{}, err
	}
	if name := strings.TrimSpace(q.Get("name")); name != "" {
		loc.Name = name
	}
	return loc, nil
}

// parseRange reads the range query parameter, defaulting to 24h.
func parseRange(r *http.Request) (series.Range, error) {
	value := r.URL.Query().Get("range")
	if value == "" {
		return series.Range24h, nil
	}
	return series.ParseRange(value)
}

// parseLimit reads a positive integer limit; absent means 0.
func parseLimit(r *http.Request) (int, error) {
	value := r.URL.Query().Get("limit")
	if value == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return 0, errInvalidLimit
	}
	return n, nil
}

var errInvalidLimit = errors.New("limit must be a non-negative integer")

// writeError maps domain errors onto problems.
func writeError(w http.ResponseWriter, r *http.Request, field string, err error) {
	switch {
	case errors.Is(err, location.ErrUnknownCity):
		response.NotFound(w, r, err.Error())
	case errors.Is(err, location.ErrInvalidCoordinates):
		response.BadRequest(w, r, err.Error(), []models.FieldError{
			{Field: "lat,lon", Message: "must be a valid latitude and longitude", Code: models.CodeOutOfRange},
		})
	case errors.Is(err, series.ErrInvalidRange):
		response.BadRequest(w, r, err.Error(), []models.FieldError{
			{Field: "range", Message: "must be one of 24h, 5d, 7d", Code: models.CodeInvalid},
		})
	case errors.Is(err, errInvalidLimit):
		response.BadRequest(w, r, err.Error(), []models.FieldError{
			{Field: "limit", Message: err.Error(), Code: models.CodeInvalid},
		})
	case errors.Is(err, errMissingParam):
		response.BadRequest(w, r, field+" is required", []models.FieldError{
			{Field: field, Message: "required", Code: models.CodeRequired},
		})
	case dashboard.IsUnavailable(err), errors.Is(err, openmeteo.ErrRateLimited):
		response.ServiceUnavailable(w, r, "weather data provider is unavailable", providerRetryAfter)
	default:
		response.InternalError(w, r, "an unexpected error occurred")
	}
}

var errMissingParam = errors.New("missing parameter")
