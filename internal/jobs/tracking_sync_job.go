package jobs

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

var ErrNoSchedule = errors.New("tracking sync schedule is empty")

// TrackingSyncer refreshes carrier tracking for every active shipment.
type TrackingSyncer interface {
	SyncAll(ctx context.Context) (synced int, failed int, err error)
}

// TrackingSyncJob polls the carrier on a cron schedule. Runs never overlap.
type TrackingSyncJob struct {
	syncer   TrackingSyncer
	schedule string
	timeout  time.Duration
	cron     *cron.Cron
	logger   *slog.Logger

	// ctx is the parent of every sweep; Stop cancels it.
	ctx    context.Context
	cancel context.CancelFunc
}

func NewTrackingSyncJob(syncer TrackingSyncer, schedule string, logger *slog.Logger) *TrackingSyncJob {
	ctx, cancel := context.WithCancel(context.Background())
	return &TrackingSyncJob{
		syncer:   syncer,
		schedule: schedule,
		timeout:  10 * time.Minute,
		cron:     cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:   logger.With("component", "tracking_sync_job"),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start registers the job and starts the scheduler. An empty schedule
// returns ErrNoSchedule and leaves the job stopped.
func (j *TrackingSyncJob) Start() error {
	if j.schedule == "" {
		return ErrNoSchedule
	}
	if _, err := j.cron.AddFunc(j.schedule, j.Run); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("tracking sync job started", "schedule", j.schedule)
	return nil
}

// Run performs one sweep.
func (j *TrackingSyncJob) Run() {
	ctx, cancel := context.WithTimeout(j.ctx, j.timeout)
	defer cancel()

	started := time.Now()
	synced, failed, err := j.syncer.SyncAll(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "tracking sync sweep failed", "error", err, "synced", synced, "failed", failed)
		return
	}
	j.logger.InfoContext(ctx, "tracking sync sweep finished",
		"synced", synced, "failed", failed, "duration", time.Since(started).String())
}

// Stop stops the scheduler, cancels a running sweep and waits for it to
// return.
func (j *TrackingSyncJob) Stop() {
	j.cancel()
	<-j.cron.Stop().Done()
	j.logger.Info("tracking sync job stopped")
}
