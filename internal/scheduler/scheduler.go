package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

const (
	DefaultSpec = "0 8 * * *"
	runTimeout  = 30 * time.Minute
)

// Job is one scheduled run.
type Job func(ctx context.Context) error

// Scheduler owns at most one active cron timer. Start replaces the active
// timer; Stop cancels it. Both are safe to call repeatedly.
type Scheduler struct {
	job Job
	loc *time.Location

	mu   sync.Mutex
	cron *cron.Cron
	spec string
}

func New(loc *time.Location, job Job) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &Scheduler{job: job, loc: loc}
}

// Start schedules the job with a standard five-field cron expression in the
// scheduler's location. A previous schedule is stopped first.
func (s *Scheduler) Start(spec string) error {
	if spec == "" {
		spec = DefaultSpec
	}

	c := cron.New(cron.WithLocation(s.loc))
	if _, err := c.AddFunc(spec, s.run); err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", spec, err)
	}

	s.mu.Lock()
	previous := s.cron
	s.cron = c
	s.spec = spec
	s.mu.Unlock()

	if previous != nil {
		previous.Stop()
		slog.Info("replaced digest schedule")
	}

	c.Start()
	slog.Info("digest scheduler started", "schedule", spec, "timezone", s.loc.String())
	return nil
}

// Stop cancels the schedule and waits for a run in progress to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	c := s.cron
	s.cron = nil
	s.spec = ""
	s.mu.Unlock()

	if c == nil {
		return
	}
	<-c.Stop().Done()
	slog.Info("digest scheduler stopped")
}

func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cron != nil
}

// Next is the next fire time, or zero when stopped.
func (s *Scheduler) Next() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cron == nil {
		return time.Time{}
	}
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

// RunNow runs the job once, synchronously, outside the schedule.
func (s *Scheduler) RunNow() {
	s.run()
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	slog.Info("running daily digest")
	start := time.Now()

	if err := s.job(ctx); err != nil {
		slog.Error("daily digest failed", "error", err)
		return
	}

	slog.Info("daily digest completed", "duration", time.Since(start))
}
