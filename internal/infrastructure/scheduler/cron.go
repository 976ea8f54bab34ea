// Package scheduler drives fixed-interval jobs with robfig/cron.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"NewsHarvester/internal/ports"
)

// CronDriver maps named jobs to cron entries ticking on @every intervals.
type CronDriver struct {
	cron *cron.Cron

	mu      sync.Mutex
	entries map[string]cron.EntryID
}

var _ ports.JobDriver = (*CronDriver)(nil)

// NewCronDriver builds a driver; cron's own chatter goes through the
// prefixed stdlib logger.
func NewCronDriver(logger *log.Logger) *CronDriver {
	opts := []cron.Option{}
	if logger != nil {
		opts = append(opts, cron.WithLogger(cron.PrintfLogger(logger)))
	}
	return &CronDriver{
		cron:    cron.New(opts...),
		entries: map[string]cron.EntryID{},
	}
}

// Schedule registers a named job on a fixed interval.
func (d *CronDriver) Schedule(name string, interval time.Duration, job func(time.Time)) error {
	if job == nil {
		return fmt.Errorf("job %s has no function", name)
	}
	if interval <= 0 {
		return fmt.Errorf("job %s has non-positive interval", name)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.entries[name]; exists {
		return fmt.Errorf("job %s is already scheduled", name)
	}

	id, err := d.cron.AddFunc(fmt.Sprintf("@every %s", interval), func() {
		job(time.Now())
	})
	if err != nil {
		return fmt.Errorf("add job %s: %w", name, err)
	}

	d.entries[name] = id
	return nil
}

// NextRun reports when the named job next fires; zero if unknown or stopped.
func (d *CronDriver) NextRun(name string) time.Time {
	d.mu.Lock()
	id, ok := d.entries[name]
	d.mu.Unlock()
	if !ok {
		return time.Time{}
	}
	return d.cron.Entry(id).Next
}

// Start begins ticking all registered jobs.
func (d *CronDriver) Start() {
	d.cron.Start()
}

// Stop halts future ticks and waits for running jobs, bounded by ctx.
func (d *CronDriver) Stop(ctx context.Context) error {
	done := d.cron.Stop().Done()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
