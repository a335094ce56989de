// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package schedule triggers unattended generation runs on a cron spec.
package schedule

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/pdiddy/content-engine/pkg/types"
)

// DefaultSpec fires once a day at 06:00 local time.
const DefaultSpec = "0 0 6 * * *"

// Job is one scheduled run.
type Job func(ctx context.Context) error

var parser = cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// Validate reports whether spec is a six-field cron spec or descriptor
// (e.g. "@daily").
func Validate(spec string) error {
	if _, err := parser.Parse(spec); err != nil {
		return fmt.Errorf("%w: invalid cron spec %q: %v", types.ErrConfig, spec, err)
	}
	return nil
}

// Scheduler runs a Job on a cron spec. Runs never overlap; a trigger that
// fires while the previous run is still going is skipped.
type Scheduler struct {
	cron *cron.Cron
	job  Job
	w    io.Writer
	ctx  context.Context

	mu      sync.Mutex
	running bool
	stopped bool
	runs    sync.WaitGroup
}

// New registers job on spec. Run output and failures go to w; a failed run
// does not stop the schedule.
func New(ctx context.Context, spec string, job Job, w io.Writer) (*Scheduler, error) {
	if spec == "" {
		spec = DefaultSpec
	}
	if err := Validate(spec); err != nil {
		return nil, err
	}

	s := &Scheduler{
		cron: cron.New(cron.WithParser(parser)),
		job:  job,
		w:    w,
		ctx:  ctx,
	}
	if _, err := s.cron.AddFunc(spec, s.Trigger); err != nil {
		return nil, fmt.Errorf("%w: scheduling %q: %v", types.ErrConfig, spec, err)
	}
	return s, nil
}

// Trigger runs the job once unless a run is already in progress or the
// scheduler has been stopped. Stop waits for runs started here, whether cron
// or a caller fired them.
func (s *Scheduler) Trigger() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	if s.running {
		s.mu.Unlock()
		fmt.Fprintf(s.w, "skipped scheduled run: previous run still in progress\n")
		return
	}
	s.running = true
	s.runs.Add(1)
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
		s.runs.Done()
	}()

	start := time.Now()
	fmt.Fprintf(s.w, "scheduled run started at %s\n", start.Format(time.RFC3339))
	if err := s.job(s.ctx); err != nil {
		fmt.Fprintf(s.w, "scheduled run failed after %s: %v\n", time.Since(start).Round(time.Millisecond), err)
		return
	}
	fmt.Fprintf(s.w, "scheduled run finished in %s\n", time.Since(start).Round(time.Millisecond))
}

// Next returns the next trigger time, or the zero time before Start.
func (s *Scheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

// Start begins firing triggers in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the scheduler and waits for a run in progress to finish. Later
// triggers are ignored.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()

	<-s.cron.Stop().Done()
	s.runs.Wait()
}
