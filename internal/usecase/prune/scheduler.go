package prune

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/prunekit/prunekit/internal/domain"
)

// Scheduler runs the pruning service on a cron schedule, replacing the
// system crontab entry the tool was historically driven by.
type Scheduler struct {
	service *Service
	run     domain.PruneRun
	spec    string
	cron    *cron.Cron
	mu      sync.Mutex
	busy    sync.Mutex // serializes runs; cron fires are skipped while held
	running bool
	log     zerolog.Logger
}

// NewScheduler creates a scheduler that executes run on the given cron
// spec (standard five-field syntax, e.g. "0 3 * * *").
func NewScheduler(service *Service, run domain.PruneRun, spec string, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		service: service,
		run:     run,
		spec:    spec,
		cron:    cron.New(),
		log:     log,
	}
}

// Start validates the spec and begins scheduled pruning. The scheduler
// stops itself when ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := cron.ParseStandard(s.spec); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", s.spec, err)
	}

	if _, err := s.cron.AddFunc(s.spec, s.runOnce); err != nil {
		return fmt.Errorf("failed to schedule pruning: %w", err)
	}

	s.cron.Start()
	s.running = true
	s.log.Info().Str("schedule", s.spec).Msg("prune scheduler started")

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// Stop stops the scheduler and waits for a running prune to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.running = false
	s.log.Info().Msg("prune scheduler stopped")
}

// IsRunning reports whether the scheduler is active.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// NextRun returns the next scheduled pruning time, or nil when nothing
// is scheduled.
func (s *Scheduler) NextRun() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.cron.Entries()
	if len(entries) == 0 {
		return nil
	}
	next := entries[0].Next
	return &next
}

func (s *Scheduler) runOnce() {
	if !s.busy.TryLock() {
		s.log.Warn().Msg("previous prune still running, skipping this fire")
		return
	}
	defer s.busy.Unlock()

	s.log.Info().Msg("starting scheduled prune")
	report, err := s.service.Run(context.Background(), s.run)
	if err != nil {
		s.log.Error().Err(err).Msg("scheduled prune failed")
		return
	}
	_, _, promoted, deleted, _ := report.Totals()
	s.log.Info().Int("promoted", promoted).Int("deleted", deleted).Msg("scheduled prune completed")
}
