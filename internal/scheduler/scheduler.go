package scheduler

import (
	"context"
	"log/slog"
	"time"

	"docsync/internal/domain"
)

// Processor runs one batch of pending work.
type Processor interface {
	ProcessPending(ctx context.Context) (*domain.TickStats, error)
}

type Scheduler struct {
	processor Processor
	interval  time.Duration
	logger    *slog.Logger
}

func NewScheduler(processor Processor, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		processor: processor,
		interval:  interval,
		logger:    logger.With("component", "scheduler"),
	}
}

// Start runs a tick immediately and then once per interval until ctx is
// done. A tick in progress is never interrupted; cancellation is observed
// between ticks.
func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info("scheduler started", "interval", s.interval)

	s.runTick(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.runTick(ctx)
		}
	}
}

func (s *Scheduler) runTick(ctx context.Context) {
	stats, err := s.processor.ProcessPending(context.WithoutCancel(ctx))
	if err != nil {
		s.logger.Error("tick failed", "error", err)
		return
	}
	if stats.Picked > 0 {
		s.logger.Debug("tick finished", "picked", stats.Picked, "duration", stats.Duration)
	}
}
