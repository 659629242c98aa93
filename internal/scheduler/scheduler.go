// Package scheduler runs the report job on a cron schedule.
package scheduler

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/manav03panchal/toggl2slack/internal/errors"
	"github.com/manav03panchal/toggl2slack/internal/logging"
)

// Job is one scheduled report run.
type Job func(ctx context.Context) error

// Stats summarizes the runs so far.
type Stats struct {
	Runs     int
	Failures int
	LastRun  time.Time
	LastErr  error
}

// specParser accepts five fields, an optional leading seconds field, and
// descriptors such as @hourly or @every 30m.
var specParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// ParseSpec validates a cron expression. A CRON_TZ=<zone> prefix selects the
// time zone; otherwise local time is used.
func ParseSpec(spec string) (cron.Schedule, error) {
	schedule, err := specParser.Parse(strings.TrimSpace(spec))
	if err != nil {
		return nil, errors.NewUserErrorWithField("cron", spec,
			"invalid cron expression",
			`Use five fields like "0 9 * * MON", six with leading seconds, or a descriptor such as @daily.`).
			WithCause(err)
	}
	return schedule, nil
}

// Scheduler runs a Job on a cron schedule. A tick that comes due while the
// previous run is still in flight is skipped.
type Scheduler struct {
	cron     *cron.Cron
	schedule cron.Schedule
	job      Job

	mu    sync.Mutex
	ctx   context.Context
	stats Stats
}

// New creates a scheduler that runs job on spec.
func New(spec string, job Job) (*Scheduler, error) {
	schedule, err := ParseSpec(spec)
	if err != nil {
		return nil, err
	}

	s := &Scheduler{
		schedule: schedule,
		job:      job,
	}
	s.cron = cron.New(
		cron.WithParser(specParser),
		cron.WithLogger(cronLogger{}),
		cron.WithChain(
			cron.Recover(cronLogger{}),
			cron.SkipIfStillRunning(cronLogger{}),
		),
	)
	s.cron.Schedule(schedule, cron.FuncJob(s.tick))
	return s, nil
}

// Run starts the schedule and blocks until ctx is done. A run in flight is
// cancelled through ctx and waited for before Run returns.
func (s *Scheduler) Run(ctx context.Context) error {
	s.mu.Lock()
	s.ctx = ctx
	s.mu.Unlock()

	s.cron.Start()
	logging.Info("scheduler started", "next", s.Next().Format(time.RFC3339))

	<-ctx.Done()
	<-s.cron.Stop().Done()

	stats := s.Stats()
	logging.Info("scheduler stopped",
		"runs", stats.Runs,
		"failures", stats.Failures)
	return nil
}

// RunOnce runs the job now with a fresh run id and records the outcome.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	runCtx := logging.NewRunContext(ctx)
	log := logging.FromContext(runCtx)

	start := time.Now()
	log.Info("scheduled run started")
	err := s.job(runCtx)

	s.mu.Lock()
	s.stats.Runs++
	s.stats.LastRun = start
	s.stats.LastErr = err
	if err != nil {
		s.stats.Failures++
	}
	s.mu.Unlock()

	elapsed := time.Since(start).Milliseconds()
	if err != nil {
		log.Error("scheduled run failed",
			logging.KeyError, err.Error(),
			logging.KeyDuration, elapsed)
		return err
	}
	log.Info("scheduled run finished", logging.KeyDuration, elapsed)
	return nil
}

func (s *Scheduler) tick() {
	s.mu.Lock()
	ctx := s.ctx
	s.mu.Unlock()

	if ctx == nil || ctx.Err() != nil {
		return
	}
	// Failures are logged and counted; the schedule keeps going.
	_ = s.RunOnce(ctx)
}

// Next returns the next time the job is due.
func (s *Scheduler) Next() time.Time {
	return s.schedule.Next(time.Now())
}

// Stats returns a snapshot of the run counters.
func (s *Scheduler) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// cronLogger routes the cron library's messages to the application logger.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...any) {
	logging.DebugLog("cron: "+msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...any) {
	args := append([]any{logging.KeyError, err.Error()}, keysAndValues...)
	logging.Error("cron: "+msg, args...)
}
