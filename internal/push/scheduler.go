// Copyright (c) 2026 Harian Muslim. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package push

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/taibuivan/harianmuslim/internal/platform/apperr"
	"github.com/taibuivan/harianmuslim/internal/prayer"
)

// Scheduler runs the delivery [Job] in-process on a cron schedule.
//
// It is an alternative to triggering the job over HTTP and is disabled when
// no schedule is configured.
type Scheduler struct {
	cron   *cron.Cron
	logger *slog.Logger
}

// NewScheduler registers job under spec (standard five-field cron syntax, WIB).
func NewScheduler(spec string, job *Job, logger *slog.Logger) (*Scheduler, error) {
	cronLogger := cronLogAdapter{logger: logger}

	runner := cron.New(
		cron.WithLocation(prayer.WIB),
		cron.WithLogger(cronLogger),
		cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
	)

	_, err := runner.AddFunc(spec, func() {
		sent, err := job.Run(context.Background(), time.Now())

		var appError *apperr.AppError
		switch {
		case err == nil:
			logger.Debug("push_schedule_tick", slog.Int("sent", sent))
		case errors.As(err, &appError) && appError.Code == "CONFLICT":
			logger.Info("push_schedule_overlap")
		default:
			logger.Error("push_schedule_failed", slog.Any("error", err))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("push: invalid schedule %q: %w", spec, err)
	}

	return &Scheduler{cron: runner, logger: logger}, nil
}

// Start begins running the schedule in its own goroutine.
func (scheduler *Scheduler) Start() {
	scheduler.cron.Start()
	scheduler.logger.Info("push_scheduler_started")
}

// Stop halts the schedule and waits for a running job until ctx is done.
func (scheduler *Scheduler) Stop(ctx context.Context) {
	select {
	case <-scheduler.cron.Stop().Done():
	case <-ctx.Done():
		scheduler.logger.Warn("push_scheduler_stop_timeout")
	}
}

// cronLogAdapter routes robfig/cron's logging through slog.
type cronLogAdapter struct {
	logger *slog.Logger
}

func (adapter cronLogAdapter) Info(msg string, keysAndValues ...interface{}) {
	adapter.logger.Debug("cron_"+msg, keysAndValues...)
}

func (adapter cronLogAdapter) Error(err error, msg string, keysAndValues ...interface{}) {
	adapter.logger.Error("cron_"+msg, append(keysAndValues, "error", err)...)
}
