package engine

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler runs periodic reconcile passes.
type Scheduler struct {
	cron   *cron.Cron
	engine *Engine
	log    *slog.Logger
}

// NewScheduler creates a Scheduler that reconciles every interval.
// Overlapping runs are skipped rather than queued.
func NewScheduler(
	eng *Engine,
	reconcileInterval time.Duration,
	log *slog.Logger,
) (*Scheduler, error) {
	if reconcileInterval <= 0 {
		return nil, errors.New("reconcile interval must be positive")
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))

	s := &Scheduler{
		cron:   c,
		engine: eng,
		log:    log,
	}

	if _, err := c.AddFunc(
		"@every "+reconcileInterval.String(),
		s.runReconcile,
	); err != nil {
		return nil, err
	}

	return s, nil
}

// Start begins running scheduled tasks.
func (s *Scheduler) Start() {
	s.log.Info("scheduler started")
	s.cron.Start()
}

// Stop gracefully stops the scheduler, waiting for running jobs to finish.
func (s *Scheduler) Stop() context.Context {
	s.log.Info("scheduler stopping")
	return s.cron.Stop()
}

// Entries returns the registered cron entries for inspection.
func (s *Scheduler) Entries() []cron.Entry {
	return s.cron.Entries()
}

func (s *Scheduler) runReconcile() {
	ctx := context.Background()
	s.log.Info("scheduled reconcile starting")
	if _, err := s.engine.RunReconcile(ctx); err != nil {
		s.log.Error("scheduled reconcile failed", "error", err)
	}
}
