package worker

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog"
)

// SchedulerConfig configures a Scheduler.
type SchedulerConfig struct {
	Job *RefreshJob

	// RefreshInterval is the time between refresh runs (default: 15 minutes).
	RefreshInterval time.Duration

	// PruneInterval is the time between archive prunes (default: 24 hours).
	PruneInterval time.Duration

	// RunTimeout bounds one scheduled run (default: 5 minutes).
	RunTimeout time.Duration

	Logger zerolog.Logger
}

// Scheduler runs the refresh job and archive pruning periodically.
type Scheduler struct {
	scheduler *gocron.Scheduler
	config    SchedulerConfig
	logger    zerolog.Logger
}

// NewScheduler creates a Scheduler. Jobs are registered by Start.
func NewScheduler(cfg SchedulerConfig) *Scheduler {
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = 15 * time.Minute
	}
	if cfg.PruneInterval <= 0 {
		cfg.PruneInterval = 24 * time.Hour
	}
	if cfg.RunTimeout <= 0 {
		cfg.RunTimeout = 5 * time.Minute
	}

	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()

	return &Scheduler{
		scheduler: s,
		config:    cfg,
		logger:    cfg.Logger.With().Str("component", "scheduler").Logger(),
	}
}

// Start registers the jobs and starts the scheduler. The first refresh
// runs immediately.
func (s *Scheduler) Start() error {
	if _, err := s.scheduler.Every(s.config.RefreshInterval).Tag("refresh").Do(s.refresh); err != nil {
		return err
	}
	if _, err := s.scheduler.Every(s.config.PruneInterval).Tag("prune").WaitForSchedule().Do(s.prune); err != nil {
		return err
	}

	s.logger.Info().
		Dur("refresh_interval", s.config.RefreshInterval).
		Dur("prune_interval", s.config.PruneInterval).
		Msg("scheduler started")
	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future runs.
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
	s.logger.Info().Msg("scheduler stopped")
}

// Jobs returns the number of registered jobs.
func (s *Scheduler) Jobs() int {
	return s.scheduler.Len()
}

func (s *Scheduler) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.RunTimeout)
	defer cancel()
	s.config.Job.Run(ctx)
}

func (s *Scheduler) prune() {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.RunTimeout)
	defer cancel()

	n, err := s.config.Job.Prune(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("archive prune failed")
		return
	}
	s.logger.Info().Int64("pruned", n).Msg("archive pruned")
}
