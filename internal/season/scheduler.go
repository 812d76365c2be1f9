package season

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

// Scheduler advances the season on a fixed interval.
type Scheduler struct {
	sched  gocron.Scheduler
	logger *zap.Logger
}

func NewScheduler(logger *zap.Logger) (*Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{sched: sched, logger: logger}, nil
}

// StartAutoAdvance runs job every interval. A run still in progress when the
// next one is due is not overlapped.
func (s *Scheduler) StartAutoAdvance(interval time.Duration, job func(ctx context.Context) error) error {
	if interval <= 0 {
		return fmt.Errorf("auto advance interval must be positive, got %s", interval)
	}
	_, err := s.sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), interval)
			defer cancel()
			if err := job(ctx); err != nil {
				s.logger.Warn("season auto advance failed", zap.Error(err))
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("schedule auto advance: %w", err)
	}
	s.sched.Start()
	s.logger.Info("season auto advance started", zap.Duration("interval", interval))
	return nil
}

func (s *Scheduler) Shutdown() error {
	return s.sched.Shutdown()
}
