// Package scheduler drives periodic full-feed refreshes: one delayed
// initial run, then a fixed interval, with at most one cycle in flight.
package scheduler

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

// Scheduler repopulates every section's cache on a timer. A cycle
// walks sections sequentially through the bypass-cache refresh path.
type Scheduler struct {
	interval     time.Duration
	initialDelay time.Duration
	sections     func() []string
	refresh      func(ctx context.Context, section string) error

	running atomic.Bool
	done    chan struct{}
	logger  *slog.Logger
}

// New creates a scheduler. sections supplies the section list at cycle
// time; refresh performs one section's fetch-merge-cache pass.
func New(interval, initialDelay time.Duration, sections func() []string, refresh func(ctx context.Context, section string) error) *Scheduler {
	return &Scheduler{
		interval:     interval,
		initialDelay: initialDelay,
		sections:     sections,
		refresh:      refresh,
		done:         make(chan struct{}),
		logger:       slog.Default(),
	}
}

// Start blocks, running one delayed initial cycle and then a cycle per
// interval tick, until ctx is cancelled or Stop is called.
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("refresh scheduler started", "interval", s.interval, "initial_delay", s.initialDelay)

	initial := time.NewTimer(s.initialDelay)
	defer initial.Stop()

	select {
	case <-ctx.Done():
		return
	case <-s.done:
		return
	case <-initial.C:
		s.RunCycle(ctx)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("refresh scheduler stopped")
			return
		case <-s.done:
			s.logger.Info("refresh scheduler stopped")
			return
		case <-ticker.C:
			s.RunCycle(ctx)
		}
	}
}

// RunCycle refreshes every known section once. If a cycle is already
// running, the trigger is dropped (not queued) and RunCycle reports
// false. A single section's failure does not abort the rest.
func (s *Scheduler) RunCycle(ctx context.Context) bool {
	if !s.running.CompareAndSwap(false, true) {
		s.logger.Warn("refresh cycle already running, trigger dropped")
		return false
	}
	defer s.running.Store(false)

	start := time.Now()
	sections := s.sections()
	s.logger.Info("refresh cycle started", "sections", len(sections))

	for _, section := range sections {
		if err := s.refresh(ctx, section); err != nil {
			s.logger.Warn("section refresh failed", "section", section, "error", err)
		}
	}

	s.logger.Info("refresh cycle completed", "duration", time.Since(start))
	return true
}

// Stop stops the scheduler loop.
func (s *Scheduler) Stop() {
	close(s.done)
}
