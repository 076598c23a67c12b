// Package schedule runs periodic background jobs on cron expressions.
package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	appLog "eventadmin/internal/log"
)

// Scheduler wraps a cron runner that stops when its context is canceled.
type Scheduler struct {
	c *cron.Cron
}

// New creates a scheduler evaluating expressions in loc (time.Local if nil).
func New(loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{c: cron.New(cron.WithLocation(loc))}
}

// Validate checks a standard 5-field cron expression.
func Validate(spec string) error {
	if _, err := cron.ParseStandard(spec); err != nil {
		return fmt.Errorf("schedule: invalid cron %q: %w", spec, err)
	}
	return nil
}

// Add registers fn under spec. A panic inside fn is logged and the job
// keeps its schedule.
func (s *Scheduler) Add(name, spec string, fn func()) error {
	if err := Validate(spec); err != nil {
		return err
	}
	_, err := s.c.AddFunc(spec, func() {
		defer func() {
			if r := recover(); r != nil {
				appLog.Error("scheduled job panicked", fmt.Errorf("%v", r), "job", name)
			}
		}()
		fn()
	})
	if err != nil {
		return fmt.Errorf("schedule: add %s: %w", name, err)
	}
	appLog.Info("scheduled job registered", "job", name, "cron", spec)
	return nil
}

// Len is the number of registered jobs.
func (s *Scheduler) Len() int {
	return len(s.c.Entries())
}

// Run starts the runner and blocks until ctx is done, then waits for
// running jobs to finish.
func (s *Scheduler) Run(ctx context.Context) {
	s.c.Start()
	<-ctx.Done()
	<-s.c.Stop().Done()
}
