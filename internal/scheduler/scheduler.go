package scheduler

import (
	"errors"
	"log"
	"time"

	"github.com/go-co-op/gocron"
)

// ErrInvalidInterval is returned when a job is scheduled with a non-positive interval.
var ErrInvalidInterval = errors.New("scheduler: interval must be positive")

// Scheduler runs a single job periodically, starting immediately.
type Scheduler struct {
	name      string
	interval  time.Duration
	scheduler *gocron.Scheduler
}

// New creates a new Scheduler. Nothing runs until Start.
func New(name string, interval time.Duration) *Scheduler {
	return &Scheduler{
		name:      name,
		interval:  interval,
		scheduler: gocron.NewScheduler(time.UTC),
	}
}

// Start schedules job every interval and starts the underlying scheduler.
// Overlapping runs are skipped.
func (s *Scheduler) Start(job func()) error {
	if s.interval <= 0 {
		return ErrInvalidInterval
	}

	_, err := s.scheduler.Every(s.interval).SingletonMode().Do(job)
	if err != nil {
		return err
	}

	log.Printf("INFO: scheduler %s: running every %s", s.name, s.interval)
	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future runs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
		s.scheduler.Clear()
	}
}
