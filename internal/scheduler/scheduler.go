package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"

	"hotel-booking/internal/logger"
)

// Expirer cancels pending bookings older than ttl.
type Expirer interface {
	ExpirePendingBookings(ctx context.Context, ttl time.Duration) (int, error)
}

type Scheduler struct {
	sched gocron.Scheduler
	log   *logger.Logger
}

// New registers the pending booking sweep to run every interval.
func New(expirer Expirer, ttl, interval time.Duration, log *logger.Logger) (*Scheduler, error) {
	if ttl <= 0 || interval <= 0 {
		return nil, fmt.Errorf("sweep needs a positive ttl and interval, got %s and %s", ttl, interval)
	}

	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), interval)
			defer cancel()
			n, err := expirer.ExpirePendingBookings(ctx, ttl)
			if err != nil {
				log.Error("SCHEDULER", fmt.Sprintf("Pending booking sweep failed: %v", err))
				return
			}
			if n > 0 {
				log.Info("SCHEDULER", fmt.Sprintf("Expired %d pending booking(s)", n))
			}
		}),
		gocron.WithName("expire-pending-bookings"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, fmt.Errorf("failed to register sweep: %w", err)
	}

	return &Scheduler{sched: sched, log: log}, nil
}

func (s *Scheduler) Start() {
	s.sched.Start()
	s.log.LogProcess("SCHEDULER", "Pending booking sweep started")
}

func (s *Scheduler) Shutdown() error {
	s.log.LogProcess("SCHEDULER", "Stopping scheduler")
	return s.sched.Shutdown()
}
