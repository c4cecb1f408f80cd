// Package scheduler runs periodic maintenance jobs on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ValidateSchedule checks a five-field cron expression.
func ValidateSchedule(schedule string) error {
	_, err := cronParser.Parse(schedule)
	return err
}

// Job is one scheduled run. Errors are logged, never fatal.
type Job func(ctx context.Context) error

// PruneScheduler triggers the thumbnail cache prune on a schedule.
type PruneScheduler struct {
	schedule string
	job      Job

	cron    *cron.Cron
	entryID cron.EntryID
	mu      sync.RWMutex
	running bool
	ctx     context.Context
}

// NewPruneScheduler creates a scheduler running job on schedule.
// An empty schedule disables it.
func NewPruneScheduler(schedule string, job Job) *PruneScheduler {
	return &PruneScheduler{
		schedule: schedule,
		job:      job,
		cron:     cron.New(cron.WithParser(cronParser)),
	}
}

// Start registers the job and starts the cron loop. The scheduler stops
// when ctx is cancelled.
func (s *PruneScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}
	if s.schedule == "" {
		log.Printf("Thumbnail prune scheduler: disabled")
		return nil
	}
	if err := ValidateSchedule(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}

	entryID, err := s.cron.AddFunc(s.schedule, s.run)
	if err != nil {
		return fmt.Errorf("failed to schedule prune job: %w", err)
	}
	s.entryID = entryID
	s.ctx = ctx

	s.cron.Start()
	s.running = true
	log.Printf("Thumbnail prune scheduler: started with schedule '%s'. Next run: %v",
		s.schedule, s.cron.Entry(entryID).Next)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()
	return nil
}

// Stop waits for a running job and stops the cron loop.
func (s *PruneScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	<-s.cron.Stop().Done()
	s.cron.Remove(s.entryID)
	s.running = false
	log.Printf("Thumbnail prune scheduler: stopped")
}

// IsRunning returns whether the scheduler is active.
func (s *PruneScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// NextRun returns when the job fires next, or nil when stopped.
func (s *PruneScheduler) NextRun() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.running {
		return nil
	}
	next := s.cron.Entry(s.entryID).Next
	return &next
}

// RunNow runs the job synchronously.
func (s *PruneScheduler) RunNow(ctx context.Context) error {
	return s.job(ctx)
}

func (s *PruneScheduler) run() {
	s.mu.RLock()
	ctx := s.ctx
	s.mu.RUnlock()
	if ctx == nil {
		ctx = context.Background()
	}

	if err := s.job(ctx); err != nil {
		log.Printf("Thumbnail prune scheduler: run failed: %v", err)
	}
}
