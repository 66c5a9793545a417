package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/cityobservatory/cityobservatory/internal/archive"
	"github.com/cityobservatory/cityobservatory/internal/dashboard"
	"github.com/cityobservatory/cityobservatory/internal/location"
	"github.com/cityobservatory/cityobservatory/internal/series"
)

// DashboardBuilder builds the dashboard of a location.
type DashboardBuilder interface {
	Dashboard(ctx context.Context, loc location.Location, r series.Range) (*dashboard.Dashboard, error)
}

// Archiver stores dashboard summaries.
type Archiver interface {
	Archive(ctx context.Context, d *dashboard.Dashboard) (*archive.Record, error)
	Prune(ctx context.Context) (int64, error)
}

// RefreshJob rebuilds the dashboard of every configured city and archives
// its summary.
type RefreshJob struct {
	config     RefreshConfig
	dashboards DashboardBuilder
	archiver   Archiver
	logger     zerolog.Logger

	metrics *RefreshMetrics
}

// RefreshMetrics tracks refresh job statistics.
type RefreshMetrics struct {
	mu sync.RWMutex

	TotalRuns         int64
	SuccessfulRefresh int64
	FailedRefreshes   int64
	StaleRefreshes    int64
	Archived          int64
	Pruned            int64

	LastRefreshAt       time.Time
	LastRefreshDuration time.Duration
	TotalDuration       time.Duration
}

// RefreshJobConfig holds configuration for creating a RefreshJob.
type RefreshJobConfig struct {
	Config     RefreshConfig
	Dashboards DashboardBuilder
	// Archiver is optional; without it dashboards only warm the cache.
	Archiver Archiver
	Logger   zerolog.Logger
}

// NewRefreshJob creates a new refresh job.
func NewRefreshJob(cfg RefreshJobConfig) *RefreshJob {
	return &RefreshJob{
		config:     cfg.Config.withDefaults(),
		dashboards: cfg.Dashboards,
		archiver:   cfg.Archiver,
		logger:     cfg.Logger.With().Str("component", "refresh").Logger(),
		metrics:    &RefreshMetrics{},
	}
}

// RefreshResult contains the result of one run.
type RefreshResult struct {
	StartTime   time.Time
	EndTime     time.Time
	Duration    time.Duration
	TotalCities int
	Successful  int
	Failed      int
	Stale       int
	Archived    int
	Errors      []RefreshError
}

// RefreshError is the failure of one city.
type RefreshError struct {
	City  string
	Error string
}

type cityResult struct {
	city     location.Location
	err      error
	stale    bool
	archived bool
}

// Run refreshes every configured city.
func (j *RefreshJob) Run(ctx context.Context) *RefreshResult {
	return j.run(ctx, j.config.Cities)
}

// RunCity refreshes a single city. It returns the error of that city, if any.
func (j *RefreshJob) RunCity(ctx context.Context, loc location.Location) error {
	res := j.refreshCity(ctx, loc)
	return res.err
}

func (j *RefreshJob) run(ctx context.Context, cities []location.Location) *RefreshResult {
	start := time.Now()
	result := &RefreshResult{
		StartTime:   start,
		TotalCities: len(cities),
	}

	j.logger.Info().
		Int("cities", len(cities)).
		Int("concurrency", j.config.Concurrency).
		Str("range", string(j.config.Range)).
		Msg("starting dashboard refresh")

	jobs := make(chan location.Location, len(cities))
	results := make(chan cityResult, len(cities))

	var wg sync.WaitGroup
	for range j.config.Concurrency {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for loc := range jobs {
				if ctx.Err() != nil {
					results <- cityResult{city: loc, err: ctx.Err()}
					continue
				}
				results <- j.refreshCity(ctx, loc)
			}
		}()
	}

	for _, loc := range cities {
		jobs <- loc
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	for res := range results {
		switch {
		case res.err != nil:
			result.Failed++
			result.Errors = append(result.Errors, RefreshError{City: res.city.DisplayName(), Error: res.err.Error()})
		default:
			result.Successful++
		}
		if res.stale {
			result.Stale++
		}
		if res.archived {
			result.Archived++
		}
	}

	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(start)
	j.updateMetrics(result)

	j.logger.Info().
		Dur("duration", result.Duration).
		Int("successful", result.Successful).
		Int("failed", result.Failed).
		Int("stale", result.Stale).
		Int("archived", result.Archived).
		Msg("dashboard refresh completed")

	return result
}

func (j *RefreshJob) refreshCity(ctx context.Context, loc location.Location) cityResult {
	res := cityResult{city: loc}

	ctx, cancel := context.WithTimeout(ctx, j.config.Timeout)
	defer cancel()

	d, err := j.dashboards.Dashboard(ctx, loc, j.config.Range)
	if err != nil {
		j.logger.Warn().Err(err).Str("city", loc.DisplayName()).Msg("dashboard refresh failed")
		res.err = err
		return res
	}
	res.stale = d.Stale

	if j.archiver == nil || (d.Stale && !j.config.ArchiveStale) {
		return res
	}

	if _, err := j.archiver.Archive(ctx, d); err != nil {
		if errors.Is(err, archive.ErrNoSummary) {
			j.logger.Debug().Str("city", loc.DisplayName()).Msg("dashboard has no current weather, not archived")
			return res
		}
		j.logger.Error().Err(err).Str("city", loc.DisplayName()).Msg("failed to archive dashboard")
		res.err = err
		return res
	}
	res.archived = true
	return res
}

// Prune drops archived records past their retention.
func (j *RefreshJob) Prune(ctx context.Context) (int64, error) {
	if j.archiver == nil {
		return 0, nil
	}
	n, err := j.archiver.Prune(ctx)
	if err != nil {
		return 0, err
	}

	j.metrics.mu.Lock()
	j.metrics.Pruned += n
	j.metrics.mu.Unlock()
	return n, nil
}

func (j *RefreshJob) updateMetrics(result *RefreshResult) {
	j.metrics.mu.Lock()
	defer j.metrics.mu.Unlock()

	j.metrics.TotalRuns++
	j.metrics.SuccessfulRefresh += int64(result.Successful)
	j.metrics.FailedRefreshes += int64(result.Failed)
	j.metrics.StaleRefreshes += int64(result.Stale)
	j.metrics.Archived += int64(result.Archived)
	j.metrics.LastRefreshAt = result.EndTime
	j.metrics.LastRefreshDuration = result.Duration
	j.metrics.TotalDuration += result.Duration
}

// GetMetrics returns a copy of the current metrics.
func (j *RefreshJob) GetMetrics() RefreshMetrics {
	j.metrics.mu.RLock()
	defer j.metrics.mu.RUnlock()

	return RefreshMetrics{
		TotalRuns:           j.metrics.TotalRuns,
		SuccessfulRefresh:   j.metrics.SuccessfulRefresh,
		FailedRefreshes:     j.metrics.FailedRefreshes,
		StaleRefreshes:      j.metrics.StaleRefreshes,
		Archived:            j.metrics.Archived,
		Pruned:              j.metrics.Pruned,
		LastRefreshAt:       j.metrics.LastRefreshAt,
		LastRefreshDuration: j.metrics.LastRefreshDuration,
		TotalDuration:       j.metrics.TotalDuration,
	}
}

// MetricsSnapshot returns the current metrics as a map.
func (j *RefreshJob) MetricsSnapshot() map[string]any {
	m := j.GetMetrics()
	return map[string]any{
		"total_runs":            m.TotalRuns,
		"successful_refreshes":  m.SuccessfulRefresh,
		"failed_refreshes":      m.FailedRefreshes,
		"stale_refreshes":       m.StaleRefreshes,
		"archived":              m.Archived,
		"pruned":                m.Pruned,
		"last_refresh_at":       m.LastRefreshAt,
		"last_refresh_duration": m.LastRefreshDuration.String(),
		"total_duration":        m.TotalDuration.String(),
	}
}

// Check builds the dashboard of the first configured city without
// archiving it, to verify provider connectivity.
func (j *RefreshJob) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, j.config.Timeout)
	defer cancel()

	_, err := j.dashboards.Dashboard(ctx, j.config.Cities[0], series.Range24h)
	return err
}
