package archive

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cityobservatory/cityobservatory/internal/dashboard"
)

// ServiceConfig holds configuration for the archive service.
type ServiceConfig struct {
	Repository Repository
	Logger     zerolog.Logger

	// Retention is how long records are kept by Prune (default: 30 days).
	Retention time.Duration

	// Now returns the current time (default: time.Now).
	Now func() time.Time
}

// Service archives dashboard summaries.
type Service struct {
	repo      Repository
	logger    zerolog.Logger
	retention time.Duration
	now       func() time.Time
}

// NewService creates a new archive service.
func NewService(cfg ServiceConfig) *Service {
	retention := cfg.Retention
	if retention == 0 {
		retention = 30 * 24 * time.Hour
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Service{
		repo:      cfg.Repository,
		logger:    cfg.Logger,
		retention: retention,
		now:       now,
	}
}

// Archive stores the summary of d.
func (s *Service) Archive(ctx context.Context, d *dashboard.Dashboard) (*Record, error) {
	summary, ok := d.Summary()
	if !ok {
		return nil, ErrNoSummary
	}

	rec := &Record{
		ID:      uuid.New().String(),
		Summary: summary,
	}
	if err := s.repo.Append(ctx, rec); err != nil {
		return nil, fmt.Errorf("append record: %w", err)
	}

	s.logger.Debug().
		Str("record_id", rec.ID).
		Int64("location_id", rec.LocationID).
		Int("comfort_score", rec.ComfortScore).
		Msg("archived dashboard summary")

	return rec, nil
}

// History returns the newest records of a location.
func (s *Service) History(ctx context.Context, locationID int64, limit int) ([]*Record, error) {
	records, err := s.repo.List(ctx, locationID, ListOptions{Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	return records, nil
}

// Latest returns the newest record of a location.
func (s *Service) Latest(ctx context.Context, locationID int64) (*Record, error) {
	return s.repo.Latest(ctx, locationID)
}

// Prune removes records older than the retention period.
func (s *Service) Prune(ctx context.Context) (int64, error) {
	cutoff := s.now().Add(-s.retention)
	removed, err := s.repo.Prune(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune records: %w", err)
	}

	if removed > 0 {
		s.logger.Info().
			Int64("removed", removed).
			Time("cutoff", cutoff).
			Msg("pruned archived records")
	}
	return removed, nil
}
