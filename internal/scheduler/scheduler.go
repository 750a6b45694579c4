package scheduler

import (
	"context"
	"log/slog"
	"time"
)

// RunFunc performs one ingestion run.
type RunFunc func(ctx context.Context) error

// Scheduler owns the main loop: it triggers one run per interval, skipping
// ticks that fall outside the optional window.
type Scheduler struct {
	run      RunFunc
	interval time.Duration
	window   *Window
	now      func() time.Time
	logger   *slog.Logger
}

// NewScheduler creates a scheduler that calls run every interval. A nil
// window means every tick runs.
func NewScheduler(run RunFunc, interval time.Duration, window *Window, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		run:      run,
		interval: interval,
		window:   window,
		now:      time.Now,
		logger:   logger,
	}
}

// Run starts the loop. It runs one immediate cycle, then ticks on the
// configured interval. It returns nil when ctx is cancelled (graceful shutdown).
// A failed run is logged and does not stop the loop.
func (s *Scheduler) Run(ctx context.Context) error {
	attrs := []any{"interval", s.interval.String()}
	if s.window != nil {
		attrs = append(attrs, "window", s.window.String())
	}
	s.logger.Info("starting scheduler", attrs...)

	s.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("shutting down scheduler")
			return nil
		case <-time.After(s.interval):
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if s.window != nil && !s.window.Contains(s.now()) {
		s.logger.Info("outside run window, skipping", "window", s.window.String())
		return
	}

	start := time.Now()
	if err := s.run(ctx); err != nil {
		s.logger.Error("run failed", "error", err, "elapsed", time.Since(start).Round(time.Millisecond))
		return
	}
	s.logger.Debug("run finished", "elapsed", time.Since(start).Round(time.Millisecond))
}
