// Package scheduler manages the periodic refresh tasks that drive the
// valuation pipeline.
package scheduler

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Job represents a scheduled job
type Job interface {
	Run() error
	Name() string
}

// Scheduler runs jobs on per-consumer polling intervals. Each consumer
// starts its own job and stops it with the returned handle; stopping is
// idempotent and decoupled from any presentation lifecycle.
type Scheduler struct {
	cron *cron.Cron
	log  zerolog.Logger

	mu      sync.Mutex
	entries map[string]cron.EntryID
}

// New creates a new scheduler
func New(log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithSeconds()),
		log:     log.With().Str("component", "scheduler").Logger(),
		entries: make(map[string]cron.EntryID),
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info().Msg("Scheduler started")
}

// Stop stops the scheduler and waits for running jobs to complete
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info().Msg("Scheduler stopped")
}

// Every registers a job to run at a fixed interval and returns a handle
// for Cancel. Jobs triggered before a cancel may still complete; their
// results are simply discarded by the torn-down consumer.
func (s *Scheduler) Every(interval time.Duration, job Job) (string, error) {
	schedule := fmt.Sprintf("@every %s", interval)

	entryID, err := s.cron.AddFunc(schedule, func() {
		s.log.Debug().Str("job", job.Name()).Msg("Running job")

		if err := job.Run(); err != nil {
			s.log.Error().
				Err(err).
				Str("job", job.Name()).
				Msg("Job failed")
		} else {
			s.log.Debug().Str("job", job.Name()).Msg("Job completed")
		}
	})
	if err != nil {
		return "", err
	}

	handle := uuid.NewString()

	s.mu.Lock()
	s.entries[handle] = entryID
	s.mu.Unlock()

	s.log.Info().
		Str("schedule", schedule).
		Str("job", job.Name()).
		Str("handle", handle).
		Msg("Job registered")

	return handle, nil
}

// Cancel removes a scheduled job. Unknown or already-cancelled handles
// are a no-op.
func (s *Scheduler) Cancel(handle string) {
	s.mu.Lock()
	entryID, ok := s.entries[handle]
	if ok {
		delete(s.entries, handle)
	}
	s.mu.Unlock()

	if ok {
		s.cron.Remove(entryID)
		s.log.Info().Str("handle", handle).Msg("Job cancelled")
	}
}

// RunNow executes a job immediately (outside schedule)
func (s *Scheduler) RunNow(job Job) error {
	s.log.Info().Str("job", job.Name()).Msg("Running job immediately")
	return job.Run()
}
