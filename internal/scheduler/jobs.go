package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/farmwatch/internal/gateway"
	"github.com/farmwatch/internal/monitor"
)

// Runner owns the periodic jobs: per-farm detection sweeps, the expiry
// sweeper and the recurrence scheduler. The three operate on disjoint
// transitions, so they run without coordination beyond the per-alert
// version check.
type Runner struct {
	cron         *cron.Cron
	data         gateway.FarmData
	orchestrator *monitor.Orchestrator
	sweeper      *ExpirySweeper
	recurrence   *RecurrenceScheduler
	sem          *semaphore.Weighted
	logger       *zap.Logger
}

type Intervals struct {
	Sweep      time.Duration
	Expiry     time.Duration
	Recurrence time.Duration
}

func NewRunner(data gateway.FarmData, orchestrator *monitor.Orchestrator,
	sweeper *ExpirySweeper, recurrence *RecurrenceScheduler,
	maxConcurrentFarms int, logger *zap.Logger) *Runner {
	if maxConcurrentFarms < 1 {
		maxConcurrentFarms = 1
	}
	return &Runner{
		cron:         cron.New(),
		data:         data,
		orchestrator: orchestrator,
		sweeper:      sweeper,
		recurrence:   recurrence,
		sem:          semaphore.NewWeighted(int64(maxConcurrentFarms)),
		logger:       logger,
	}
}

// Start registers the jobs and starts the cron loop.
func (r *Runner) Start(ctx context.Context, intervals Intervals) error {
	if _, err := r.cron.AddFunc(every(intervals.Sweep), func() { r.SweepAllFarms(ctx) }); err != nil {
		return fmt.Errorf("failed to schedule farm sweeps: %w", err)
	}
	if _, err := r.cron.AddFunc(every(intervals.Expiry), func() { r.sweeper.Run(ctx) }); err != nil {
		return fmt.Errorf("failed to schedule expiry sweeper: %w", err)
	}
	if _, err := r.cron.AddFunc(every(intervals.Recurrence), func() { r.recurrence.Run(ctx) }); err != nil {
		return fmt.Errorf("failed to schedule recurrence job: %w", err)
	}

	r.cron.Start()
	r.logger.Info("scheduler started",
		zap.Duration("sweep", intervals.Sweep),
		zap.Duration("expiry", intervals.Expiry),
		zap.Duration("recurrence", intervals.Recurrence))
	return nil
}

// Stop halts the cron loop and waits for running jobs to finish.
func (r *Runner) Stop() {
	<-r.cron.Stop().Done()
}

// SweepAllFarms runs a detection sweep for every farm, at most
// maxConcurrentFarms at a time. A failing farm is logged and skipped.
func (r *Runner) SweepAllFarms(ctx context.Context) {
	farmIDs, err := r.data.ListFarmIDs(ctx)
	if err != nil {
		r.logger.Error("failed to list farms for sweep", zap.Error(err))
		return
	}

	for _, farmID := range farmIDs {
		if err := r.sem.Acquire(ctx, 1); err != nil {
			return
		}
		farmID := farmID
		go func() {
			defer r.sem.Release(1)
			if _, err := r.orchestrator.RunSweep(ctx, farmID); err != nil {
				r.logger.Error("farm sweep failed",
					zap.String("farm_id", farmID), zap.Error(err))
			}
		}()
	}
}

func every(d time.Duration) string {
	if d <= 0 {
		d = time.Minute
	}
	return "@every " + d.String()
}
