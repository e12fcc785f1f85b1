package worker

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/fox-one/pkg/logger"
	"github.com/robfig/cron/v3"
)

// Worker long running background job
type Worker interface {
	Run(ctx context.Context) error
}

// TickWorker runs a job every Delay until the context is done
type TickWorker struct {
	Delay time.Duration
}

// StartTick blocks until ctx is done, a failed tick is logged and retried on the next one
func (w *TickWorker) StartTick(ctx context.Context, onTick func(ctx context.Context) error) error {
	dur := time.Millisecond
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(dur):
			if err := onTick(ctx); err != nil {
				logger.FromContext(ctx).WithError(err).Errorln("tick")
			}

			dur = w.Delay
		}
	}
}

// OnWork one run of a cron job
type OnWork func(ctx context.Context) error

// BaseJob job scheduled by a cron spec, a run is skipped while the previous one is in progress
type BaseJob struct {
	Cron    *cron.Cron
	Spec    string
	OnWork  OnWork
	running atomic.Bool
}

// NewBaseJob schedules onWork on spec in the named location, UTC when empty or unknown
func NewBaseJob(location, spec string, onWork OnWork) *BaseJob {
	l, err := time.LoadLocation(location)
	if err != nil {
		l = time.UTC
	}

	return &BaseJob{
		Cron:   cron.New(cron.WithLocation(l)),
		Spec:   spec,
		OnWork: onWork,
	}
}

// Every cron spec running every d
func Every(d time.Duration) string {
	return "@every " + d.String()
}

// Run starts the schedule and blocks until ctx is done
func (job *BaseJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx)
	if _, err := job.Cron.AddFunc(job.Spec, func() { job.run(ctx) }); err != nil {
		return err
	}

	job.Cron.Start()
	<-ctx.Done()
	<-job.Cron.Stop().Done()
	log.Debugln("cron job stopped")
	return nil
}

func (job *BaseJob) run(ctx context.Context) {
	if !job.running.CompareAndSwap(false, true) {
		return
	}
	defer job.running.Store(false)

	if err := job.OnWork(ctx); err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("cron job")
	}
}
