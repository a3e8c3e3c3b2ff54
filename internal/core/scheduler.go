package core

// scheduler.go runs the idle session sweep in the background.
//
// The sweep runs on a robfig/cron schedule ("@every 1m" by default). A bad
// schedule is reported at start; after that the sweeper only reports through
// its hooks and stops with its context.

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultSweepSchedule is used when no schedule is configured.
const DefaultSweepSchedule = "@every 1m"

// SweepHook is called after each sweep with the number of sessions closed.
type SweepHook func(closed int)

// StartSweeper schedules SweepIdle and returns once the schedule is
// running. The cron runner stops when ctx is cancelled.
func (s *Service) StartSweeper(ctx context.Context, schedule string, hooks ...SweepHook) error {
	if schedule == "" {
		schedule = DefaultSweepSchedule
	}

	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		s.runSweep(hooks)
	})
	if err != nil {
		return fmt.Errorf("parse sweep schedule %q: %w", schedule, err)
	}

	c.Start()

	go func() {
		<-ctx.Done()
		<-c.Stop().Done()
	}()

	return nil
}

func (s *Service) runSweep(hooks []SweepHook) {
	closed := s.SweepIdle(time.Now())
	for _, h := range hooks {
		h(closed)
	}
}
