// Package jobs schedules the corrective sweep on a cron expression.
package jobs

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/repolens/ingest/internal/app/ingest"
	"github.com/repolens/ingest/internal/config"
	"github.com/repolens/ingest/pkg/logger"
)

// SweepScheduler runs the corrective sweep on a fixed cron schedule.
type SweepScheduler struct {
	cron    *cron.Cron
	service *ingest.Service
	cfg     config.SweepConfig
	logger  *logger.Logger
}

// NewSweepScheduler creates a sweep scheduler. The schedule uses the
// standard five-field cron format.
func NewSweepScheduler(cfg config.SweepConfig, service *ingest.Service, log *logger.Logger) (*SweepScheduler, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	if _, err := parser.Parse(cfg.Schedule); err != nil {
		return nil, fmt.Errorf("invalid sweep schedule %q: %w", cfg.Schedule, err)
	}

	return &SweepScheduler{
		cron:    cron.New(cron.WithParser(parser)),
		service: service,
		cfg:     cfg,
		logger:  log.With("component", "sweep_scheduler"),
	}, nil
}

// Start registers the sweep job and starts the scheduler. Jobs run in the
// scheduler's own goroutine; Stop waits for a running sweep to finish.
func (s *SweepScheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.cfg.Schedule, func() {
		out, err := s.service.Sweep(ctx)
		if err != nil {
			s.logger.Error("scheduled sweep failed", "error", err)
			return
		}
		s.logger.Info("scheduled sweep completed",
			"downgraded", out.Downgraded,
			"revalidated", out.Revalidated,
			"updated", out.Updated,
		)
	})
	if err != nil {
		return fmt.Errorf("failed to register sweep job: %w", err)
	}

	s.cron.Start()
	s.logger.Info("sweep scheduler started", "schedule", s.cfg.Schedule)
	return nil
}

// Stop stops the scheduler and blocks until a running job completes.
func (s *SweepScheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("sweep scheduler stopped")
}
