package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"meridian-hq/crosswind/pkg/telemetry/metrics"
)

// Job is a named unit of pipeline work executed on a cron schedule.
// Jobs with an empty Schedule are skipped at startup.
type Job struct {
	Name     string
	Schedule string
	Run      func(ctx context.Context) error
}

// Scheduler runs pipeline jobs at scheduled intervals (e.g., collection
// every 30 minutes, optimization every 2 hours) using cron syntax.
type Scheduler struct {
	jobs    []Job
	cron    *cron.Cron
	names   map[cron.EntryID]string
	metrics *metrics.Collector
	mu      sync.Mutex
	logger  *slog.Logger
	running bool
}

// New creates a scheduler for the given jobs. The metrics collector is
// optional; when non-nil every job run is recorded through it.
func New(jobs []Job, collector *metrics.Collector, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		jobs:    jobs,
		metrics: collector,
		logger:  logger.With("component", "scheduler"),
	}
}

// Start validates each job's cron expression, registers the jobs, and
// begins the scheduler.
//
// Common cron expressions:
//   - "*/30 * * * *" - Every 30 minutes
//   - "0 */2 * * *"  - Every 2 hours
//   - "0 6 * * *"    - Daily at 6 AM
//
// Jobs with an empty schedule are skipped. If no jobs remain the
// scheduler does nothing. The scheduler stops itself when ctx is
// cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}

	c := cron.New()
	names := make(map[cron.EntryID]string, len(s.jobs))

	for _, job := range s.jobs {
		job := job
		if job.Schedule == "" {
			s.logger.Info("job has no schedule, skipping",
				"job", job.Name,
			)
			continue
		}

		// Validate cron expression
		if _, err := cron.ParseStandard(job.Schedule); err != nil {
			return fmt.Errorf("invalid cron schedule %q for job %q: %w",
				job.Schedule, job.Name, err)
		}

		id, err := c.AddFunc(job.Schedule, func() {
			s.runJob(ctx, job)
		})
		if err != nil {
			return fmt.Errorf("failed to schedule job %q: %w", job.Name, err)
		}
		names[id] = job.Name

		s.logger.Info("job scheduled",
			"job", job.Name,
			"schedule", job.Schedule,
		)
	}

	if len(names) == 0 {
		s.logger.Info("no jobs scheduled, scheduler idle")
		return nil
	}

	c.Start()
	s.cron = c
	s.names = names
	s.running = true

	s.logger.Info("scheduler started", "jobs", len(names))

	// Wait for context cancellation in background
	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// runJob executes a single job run and records its outcome.
func (s *Scheduler) runJob(ctx context.Context, job Job) {
	s.logger.Info("starting scheduled job", "job", job.Name)

	start := time.Now()
	err := job.Run(ctx)
	duration := time.Since(start)

	if s.metrics != nil {
		s.metrics.RecordJobRun(job.Name, err, duration)
	}

	if err != nil {
		s.logger.Error("scheduled job failed",
			"job", job.Name,
			"duration", duration,
			"error", err,
		)
		return
	}

	s.logger.Info("scheduled job completed",
		"job", job.Name,
		"duration", duration,
	)
}

// Stop stops the scheduler and waits for any running jobs to complete.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil && s.running {
		ctx := s.cron.Stop()
		<-ctx.Done() // Wait for running jobs to finish
		s.running = false
		s.logger.Info("scheduler stopped")
	}
}

// IsRunning returns true if the scheduler is running.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.running
}

// NextRuns returns the next scheduled run time per job name. Returns
// nil when the scheduler is not running.
func (s *Scheduler) NextRuns() map[string]time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron == nil || !s.running {
		return nil
	}

	now := time.Now()
	next := make(map[string]time.Time, len(s.names))
	for _, entry := range s.cron.Entries() {
		name, ok := s.names[entry.ID]
		if !ok {
			continue
		}
		next[name] = entry.Schedule.Next(now)
	}
	return next
}
