package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"NewsHarvester/internal/domain"
	"NewsHarvester/internal/ports"
)

// JobSpec binds a named category group to its tick interval.
type JobSpec struct {
	Name       string
	Interval   time.Duration
	Categories []CategoryImport
}

// SchedulerDeps wires the ticking driver with the import orchestrator.
type SchedulerDeps struct {
	Driver   ports.JobDriver
	Importer *Importer
	Notifier ports.Notifier // optional run-summary channel
	Jobs     []JobSpec
	Logger   *slog.Logger
}

// Scheduler owns the per-job running state. All reads and writes of that
// state go through its mutex; jobs themselves only interact through the
// shared repository.
type Scheduler struct {
	driver   ports.JobDriver
	importer *Importer
	notifier ports.Notifier
	jobs     []JobSpec
	logger   *slog.Logger

	mu         sync.Mutex
	state      map[string]*jobState
	started    bool
	stopped    bool
	registered bool
}

type jobState struct {
	running bool
	lastRun time.Time
}

// NewScheduler returns a scheduler with all jobs idle.
func NewScheduler(deps SchedulerDeps) *Scheduler {
	state := make(map[string]*jobState, len(deps.Jobs))
	for _, job := range deps.Jobs {
		state[job.Name] = &jobState{}
	}
	return &Scheduler{
		driver:   deps.Driver,
		importer: deps.Importer,
		notifier: deps.Notifier,
		jobs:     deps.Jobs,
		logger:   deps.Logger,
		state:    state,
	}
}

// StartAll registers every job with the driver and begins ticking.
func (s *Scheduler) StartAll(ctx context.Context) error {
	s.mu.Lock()
	if s.started && !s.stopped {
		s.mu.Unlock()
		return nil
	}
	s.started = true
	s.stopped = false
	register := !s.registered
	s.registered = true
	s.mu.Unlock()

	if register {
		for _, job := range s.jobs {
			job := job
			err := s.driver.Schedule(job.Name, job.Interval, func(trigger time.Time) {
				s.runJob(ctx, job, trigger)
			})
			if err != nil {
				return fmt.Errorf("schedule job %s: %w", job.Name, err)
			}
		}
	}

	s.driver.Start()
	return nil
}

// StopAll prevents future ticks. In-flight runs are allowed to finish; there
// is no forced mid-item cancellation.
func (s *Scheduler) StopAll(ctx context.Context) error {
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()

	return s.driver.Stop(ctx)
}

// TriggerNow runs one job immediately, subject to the same overlap guard as
// scheduled ticks. maxOverride > 0 caps successes per category for this run.
func (s *Scheduler) TriggerNow(ctx context.Context, jobName string, maxOverride int) ([]domain.ImportRunResult, error) {
	var job *JobSpec
	for i := range s.jobs {
		if s.jobs[i].Name == jobName {
			job = &s.jobs[i]
			break
		}
	}
	if job == nil {
		return nil, fmt.Errorf("trigger %s: %w", jobName, domain.ErrUnknownJob)
	}

	if !s.tryAcquire(jobName) {
		return nil, fmt.Errorf("trigger %s: %w", jobName, domain.ErrJobRunning)
	}
	defer s.release(jobName)

	return s.runCategories(ctx, *job, maxOverride), nil
}

// Status snapshots every job's running flag and run times.
func (s *Scheduler) Status() domain.ScheduleState {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := make(domain.ScheduleState, len(s.state))
	for name, st := range s.state {
		snapshot[name] = domain.JobStatus{
			IsRunning: st.running,
			LastRunAt: st.lastRun,
			NextRunAt: s.driver.NextRun(name),
		}
	}
	return snapshot
}

// runJob is the tick entry point. Overlapping ticks for the same job are
// skipped, which is the invariant protecting duplicate detection within one
// job.
func (s *Scheduler) runJob(ctx context.Context, job JobSpec, trigger time.Time) {
	s.mu.Lock()
	stopped := s.stopped
	s.mu.Unlock()
	if stopped {
		return
	}

	if !s.tryAcquire(job.Name) {
		if s.logger != nil {
			s.logger.Info("tick skipped, job still running", "job", job.Name, "trigger", trigger)
		}
		return
	}
	defer s.release(job.Name)

	results := s.runCategories(ctx, job, 0)
	s.notify(ctx, job.Name, results)
}

// runCategories executes the importer sequentially across the job's
// categories; cross-category parallelism stays bounded by job granularity.
func (s *Scheduler) runCategories(ctx context.Context, job JobSpec, maxOverride int) []domain.ImportRunResult {
	results := make([]domain.ImportRunResult, 0, len(job.Categories))
	for _, cat := range job.Categories {
		if maxOverride > 0 {
			cat.MaxArticles = maxOverride
		}
		res, err := s.importer.ImportCategory(ctx, cat)
		if err != nil && s.logger != nil {
			s.logger.Error("category run failed", "job", job.Name, "category", cat.Slug, "error", err)
		}
		results = append(results, res)
	}
	return results
}

func (s *Scheduler) notify(ctx context.Context, jobName string, results []domain.ImportRunResult) {
	if s.notifier == nil {
		return
	}

	var imported, skipped, errors int
	for _, res := range results {
		imported += res.Imported
		skipped += res.Skipped
		errors += res.Errors
	}

	summary := fmt.Sprintf("job %s: imported %d, skipped %d, errors %d", jobName, imported, skipped, errors)
	if err := s.notifier.PublishRunSummary(ctx, summary); err != nil && s.logger != nil {
		s.logger.Warn("run summary notification failed", "job", jobName, "error", err)
	}
}

func (s *Scheduler) tryAcquire(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.state[name]
	if !ok {
		st = &jobState{}
		s.state[name] = st
	}
	if st.running {
		return false
	}
	st.running = true
	return true
}

func (s *Scheduler) release(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if st, ok := s.state[name]; ok {
		st.running = false
		st.lastRun = time.Now()
	}
}
