// Package archive keeps a history of dashboard summaries per location.
package archive

import (
	"errors"

	"github.com/cityobservatory/cityobservatory/internal/dashboard"
)

var (
	// ErrNotFound is returned when a location has no archived records.
	ErrNotFound = errors.New("no archived records")

	// ErrNoSummary is returned when a dashboard has no current weather to archive.
	ErrNoSummary = errors.New("dashboard has no summary")
)

const (
	// DefaultLimit is the number of records returned when no limit is given.
	DefaultLimit = 24

	// MaxLimit caps the number of records returned by one List call.
	MaxLimit = 168
)

// Record is an archived dashboard summary.
type Record struct {
	ID string `json:"id"`
	dashboard.Summary
}

// ListOptions contains options for listing records.
type ListOptions struct {
	Limit int
}

func (o ListOptions) limit() int {
	switch {
	case o.Limit <= 0:
		return DefaultLimit
	case o.Limit > MaxLimit:
		return MaxLimit
	default:
		return o.Limit
	}
}
