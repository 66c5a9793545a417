// Package worker refreshes and archives the dashboards of the configured
// cities in the background.
package worker

import (
	"time"

	"github.com/cityobservatory/cityobservatory/internal/location"
	"github.com/cityobservatory/cityobservatory/internal/series"
)

// RefreshConfig holds configuration for the dashboard refresh job.
type RefreshConfig struct {
	// Cities are refreshed in order. If empty, location.Cities() is used.
	Cities []location.Location

	// Range is the dashboard range built for each city.
	// Default: 24h
	Range series.Range

	// Concurrency is the number of cities refreshed at once.
	// Default: 3
	Concurrency int

	// Timeout bounds the refresh of one city.
	// Default: 30 seconds
	Timeout time.Duration

	// ArchiveStale also archives dashboards served from a stale cache.
	ArchiveStale bool
}

// DefaultRefreshConfig returns the default refresh configuration.
func DefaultRefreshConfig() RefreshConfig {
	return RefreshConfig{
		Cities:      location.Cities(),
		Range:       series.Range24h,
		Concurrency: 3,
		Timeout:     30 * time.Second,
	}
}

// withDefaults fills unset fields from DefaultRefreshConfig.
func (c RefreshConfig) withDefaults() RefreshConfig {
	def := DefaultRefreshConfig()
	if len(c.Cities) == 0 {
		c.Cities = def.Cities
	}
	if c.Range == "" {
		c.Range = def.Range
	}
	if c.Concurrency <= 0 {
		c.Concurrency = def.Concurrency
	}
	if c.Timeout <= 0 {
		c.Timeout = def.Timeout
	}
	return c
}
