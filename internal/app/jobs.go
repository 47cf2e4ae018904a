package app

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const syncJobTimeout = 10 * time.Minute

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// initJobs schedules the periodic catalog sync when SYNC_SCHEDULE is set.
func (a *App) initJobs() error {
	if a.cfg.SyncSchedule == "" || !a.syncService.Enabled() {
		return nil
	}
	a.sched = cron.New(cron.WithParser(cronParser))
	if _, err := a.sched.AddFunc(a.cfg.SyncSchedule, a.SchedSyncTask); err != nil {
		return err
	}
	a.sched.Start()
	zap.S().Infow("scheduled product sync", "schedule", a.cfg.SyncSchedule)
	return nil
}

// SchedSyncTask pushes every active product to the payment provider.
func (a *App) SchedSyncTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Errorw("scheduled sync panicked", "panic", err)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), syncJobTimeout)
	defer cancel()

	report, err := a.syncService.SyncAll(ctx, false, nil)
	if err != nil {
		zap.S().Errorw("scheduled sync failed", "error", err)
		if report == nil {
			return
		}
	}
	if report.Failed > 0 {
		zap.S().Warnw("scheduled sync finished with failures", "succeeded", report.Succeeded, "failed", report.Failed)
		return
	}
	zap.S().Infow("scheduled sync finished", "succeeded", report.Succeeded)
}
