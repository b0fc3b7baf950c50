// Package scheduler runs callbacks on a fixed interval.
package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

const defaultInterval = 600 * time.Second

// Job is a named callback invoked on every tick.
type Job struct {
	Name     string
	Interval time.Duration
	Run      func()
}

// Scheduler drives a set of fixed-interval jobs, one goroutine per job.
type Scheduler struct {
	jobs []Job
	log  zerolog.Logger
}

func New(log zerolog.Logger) *Scheduler {
	return &Scheduler{log: log}
}

// Add registers a job. A non-positive interval falls back to the default.
func (s *Scheduler) Add(job Job) {
	if job.Interval <= 0 {
		job.Interval = defaultInterval
	}
	s.jobs = append(s.jobs, job)
}

// Start launches all job goroutines. Jobs stop when ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	for _, job := range s.jobs {
		go s.runJob(ctx, job)
	}
}

func (s *Scheduler) runJob(ctx context.Context, job Job) {
	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	s.log.Info().Str("job", job.Name).Dur("interval", job.Interval).Msg("scheduler job started")
	for {
		select {
		case <-ctx.Done():
			s.log.Info().Str("job", job.Name).Msg("scheduler job stopped")
			return
		case <-ticker.C:
			job.Run()
		}
	}
}
