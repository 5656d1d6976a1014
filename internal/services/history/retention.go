package history

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"
)

const pruneTimeout = 5 * time.Minute

// RetentionScheduler prunes expired history on a cron schedule
type RetentionScheduler struct {
	service  *Service
	schedule string
	maxAge   time.Duration
	cron     *cron.Cron
	logger   arbor.ILogger
	mu       sync.Mutex
	running  bool
}

// NewRetentionScheduler creates a scheduler. An empty schedule disables it.
func NewRetentionScheduler(service *Service, schedule string, maxAge time.Duration, logger arbor.ILogger) *RetentionScheduler {
	return &RetentionScheduler{
		service:  service,
		schedule: schedule,
		maxAge:   maxAge,
		cron:     cron.New(),
		logger:   logger,
	}
}

// Start registers the prune job and starts the cron runner
func (r *RetentionScheduler) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		return fmt.Errorf("retention scheduler already running")
	}
	if r.schedule == "" || r.maxAge <= 0 {
		r.logger.Info().Msg("History retention disabled")
		return nil
	}

	if _, err := r.cron.AddFunc(r.schedule, r.RunOnce); err != nil {
		return fmt.Errorf("failed to add retention job: %w", err)
	}

	r.cron.Start()
	r.running = true

	r.logger.Info().
		Str("schedule", r.schedule).
		Dur("max_age", r.maxAge).
		Msg("History retention scheduler started")

	return nil
}

// Stop halts the cron runner and waits for a running prune to finish
func (r *RetentionScheduler) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.running {
		return
	}

	<-r.cron.Stop().Done()
	r.running = false
	r.logger.Info().Msg("History retention scheduler stopped")
}

// RunOnce prunes expired records immediately
func (r *RetentionScheduler) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), pruneTimeout)
	defer cancel()

	deleted, err := r.service.Prune(ctx, r.maxAge)
	if err != nil {
		r.logger.Error().Err(err).Int("deleted", deleted).Msg("History retention run failed")
		return
	}

	r.logger.Info().Int("deleted", deleted).Msg("History retention run completed")
}
