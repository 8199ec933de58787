package cron

import (
	"context"
	"time"

	"github.com/bher20/eratecache/internal/metrics"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const jobName = "poll_rates"

// Scheduler triggers polling cycles on a cron schedule. A tick that fires
// while the previous cycle is still running is skipped.
type Scheduler struct {
	ctrl  *Controller
	sched cron.Schedule
	log   *zap.Logger
}

// NewScheduler returns a Scheduler running ctrl on sched.
func NewScheduler(ctrl *Controller, sched cron.Schedule, log *zap.Logger) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scheduler{
		ctrl:  ctrl,
		sched: sched,
		log:   log.With(zap.String("component", "scheduler")),
	}
}

// Run blocks until ctx is canceled. When runOnStart is set a cycle is run
// before the first scheduled tick.
func (s *Scheduler) Run(ctx context.Context, runOnStart bool) error {
	cl := cronLogger{s.log.Sugar()}
	c := cron.New(cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)))
	c.Schedule(s.sched, cron.FuncJob(func() { s.Tick(ctx) }))

	s.log.Info("scheduler starting",
		zap.String("dir", s.ctrl.Dir()),
		zap.Time("first_run", s.sched.Next(time.Now())),
		zap.Bool("run_on_start", runOnStart),
	)
	if runOnStart {
		s.Tick(ctx)
	}

	c.Start()
	<-ctx.Done()

	stopped := c.Stop()
	<-stopped.Done()
	s.log.Info("scheduler stopped")
	return nil
}

// Tick runs a single cycle and records job metrics for it.
func (s *Scheduler) Tick(ctx context.Context) CycleResult {
	started := time.Now()
	res := s.ctrl.RunCycle(ctx)

	var jobErr error
	switch res.Outcome {
	case OutcomeLoadSkipped, OutcomeCommitRejected:
		jobErr = res.Err
		if jobErr == nil {
			jobErr = errCycle(res.Outcome)
		}
	}
	metrics.UpdateJobMetrics(jobName, started, jobErr)

	s.log.Debug("cycle finished",
		zap.String("cycle", res.ID),
		zap.String("outcome", string(res.Outcome)),
		zap.Duration("duration", res.Duration),
	)
	return res
}

type errCycle Outcome

func (e errCycle) Error() string { return "poll cycle ended with " + string(e) }

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw("cron: "+msg, append(keysAndValues, "error", err)...)
}
