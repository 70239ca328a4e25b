// Package scheduler runs periodic maintenance, such as routine rollover,
// on a cron schedule while the app stays open.
package scheduler

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"timelink/internal/log"
)

const DefaultSpec = "@hourly"

type Scheduler struct {
	cron *cron.Cron
}

// Start parses spec (standard five fields or a @descriptor) and runs job on
// it in the given location. An empty spec means DefaultSpec.
func Start(spec string, loc *time.Location, job func()) (*Scheduler, error) {
	if spec == "" {
		spec = DefaultSpec
	}
	if loc == nil {
		loc = time.Local
	}
	c := cron.New(cron.WithLocation(loc))
	if _, err := c.AddFunc(spec, func() {
		log.Debug("scheduled job running", "spec", spec)
		job()
	}); err != nil {
		return nil, fmt.Errorf("schedule %q: %w", spec, err)
	}
	c.Start()
	log.Info("scheduler started", "spec", spec, "timezone", loc.String())
	return &Scheduler{cron: c}, nil
}

// Next reports when the job runs next; zero before the first tick is planned.
func (s *Scheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

// Stop halts the schedule and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	log.Info("scheduler stopped")
}
