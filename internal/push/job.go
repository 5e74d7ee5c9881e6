// Copyright (c) 2026 Harian Muslim. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package push

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/taibuivan/harianmuslim/internal/platform/apperr"
	"github.com/taibuivan/harianmuslim/internal/platform/constants"
	"github.com/taibuivan/harianmuslim/internal/platform/metrics"
	"github.com/taibuivan/harianmuslim/internal/prayer"
	"github.com/taibuivan/harianmuslim/pkg/uuidv7"
)

// Delivery outcomes recorded in metrics and logs.
const (
	outcomeSent    = "sent"
	outcomeGone    = "gone"
	outcomeFailed  = "failed"
	outcomeSkipped = "schedule_unavailable"
)

// ScheduleSource provides monthly prayer schedules. [prayer.Service] satisfies it.
type ScheduleSource interface {
	Schedule(ctx context.Context, location prayer.Location, year, month int) (*prayer.MonthlySchedule, error)
}

// Job delivers due prayer notifications to every subscriber.
type Job struct {
	repository Repository
	sender     Sender
	schedules  ScheduleSource
	window     time.Duration
	logger     *slog.Logger

	running sync.Mutex
}

// NewJob creates a delivery job. window is how long after a prayer time a notification may still go out.
func NewJob(repository Repository, sender Sender, schedules ScheduleSource, window time.Duration, logger *slog.Logger) *Job {
	return &Job{
		repository: repository,
		sender:     sender,
		schedules:  schedules,
		window:     window,
		logger:     logger,
	}
}

type locationGroup struct {
	location      prayer.Location
	subscriptions []Subscription
}

/*
Run sends every notification due at now and returns how many were delivered.

Subscribers are grouped by regency so each monthly schedule is fetched once.
Groups and subscribers are processed sequentially. A group whose schedule
cannot be loaded is skipped; the next run retries it.

Returns:
  - int: Delivered notification count
  - error: Conflict when a run is already in progress, or a storage failure
*/
func (job *Job) Run(ctx context.Context, now time.Time) (int, error) {
	if !job.running.TryLock() {
		return 0, apperr.Conflict("Push job already running")
	}
	defer job.running.Unlock()

	startedAt := time.Now()
	defer func() { metrics.ObservePushJob(time.Since(startedAt)) }()

	ctx, cancel := context.WithTimeout(ctx, constants.PushJobTimeout)
	defer cancel()

	logger := job.logger.With(slog.String("run_id", uuidv7.New()))

	// 1. Load subscribers
	subscriptions, err := job.repository.List(ctx)
	if err != nil {
		return 0, apperr.InternalMsg("Failed to load subscriptions", err)
	}
	if len(subscriptions) == 0 {
		return 0, nil
	}

	// 2. Group by regency, keeping first-seen order
	groups := groupByLocation(subscriptions)

	local := now.In(prayer.WIB)
	todayISO := prayer.DateISO(local)

	sent := 0
	for _, group := range groups {
		if err := ctx.Err(); err != nil {
			logger.WarnContext(ctx, "push_job_interrupted", slog.Int("sent", sent), slog.Any("error", err))
			break
		}

		// 3. One schedule fetch per regency
		row, ok := job.todayRow(ctx, logger, group.location, local, todayISO)
		if !ok {
			metrics.RecordPushDelivery(outcomeSkipped)
			continue
		}

		// 4. Deliver to each subscriber in the regency
		for i := range group.subscriptions {
			sent += job.deliver(ctx, logger, &group.subscriptions[i], row, todayISO, now)
		}
	}

	logger.InfoContext(ctx, "push_job_finished",
		slog.Int("subscriptions", len(subscriptions)),
		slog.Int("locations", len(groups)),
		slog.Int("sent", sent),
		slog.Duration("duration", time.Since(startedAt)),
	)

	return sent, nil
}

func (job *Job) todayRow(ctx context.Context, logger *slog.Logger, location prayer.Location, local time.Time, todayISO string) (prayer.Row, bool) {
	schedule, err := job.schedules.Schedule(ctx, location, local.Year(), int(local.Month()))
	if err != nil {
		logger.WarnContext(ctx, "push_schedule_unavailable",
			slog.String("kabkota", location.Kabkota),
			slog.String("provinsi", location.Provinsi),
			slog.Any("error", err),
		)
		return prayer.Row{}, false
	}

	return prayer.FindRow(schedule.Jadwal, todayISO)
}

// deliver sends every due prayer to one subscriber and returns the delivered count.
func (job *Job) deliver(ctx context.Context, logger *slog.Logger, subscription *Subscription, row prayer.Row, todayISO string, now time.Time) int {
	sent := 0

	for _, entry := range prayer.Order {
		clock := row.Time(entry.Key)
		prayerTime, ok := prayer.At(todayISO, clock)
		if !ok {
			continue
		}

		sendKey := SendKey(todayISO, entry.Key)
		if !ShouldSend(now, prayerTime, subscription.LastSentKey, sendKey, job.window) {
			continue
		}

		message := Message{
			Title: "Waktu Sholat " + entry.Label,
			Body:  fmt.Sprintf("%s • %s (%s)", entry.Label, clock, subscription.Kabkota),
			URL:   constants.PushClickURL,
		}

		err := job.sender.Send(ctx, *subscription, message)
		switch {
		case err == nil:
			sent++
			metrics.RecordPushDelivery(outcomeSent)
			subscription.LastSentKey = sendKey

			if markErr := job.repository.MarkSent(ctx, subscription.Endpoint, sendKey, time.Now()); markErr != nil {
				logger.ErrorContext(ctx, "push_mark_sent_failed", slog.Any("error", markErr))
			}

		case IsGone(err):
			metrics.RecordPushDelivery(outcomeGone)
			if deleteErr := job.repository.Delete(ctx, subscription.Endpoint); deleteErr != nil {
				logger.ErrorContext(ctx, "push_delete_gone_failed", slog.Any("error", deleteErr))
			} else {
				logger.InfoContext(ctx, "push_subscription_removed", slog.String("kabkota", subscription.Kabkota))
			}
			// The endpoint no longer exists.
			return sent

		default:
			metrics.RecordPushDelivery(outcomeFailed)
			logger.WarnContext(ctx, "push_delivery_failed",
				slog.String("prayer", string(entry.Key)),
				slog.Any("error", err),
			)
		}
	}

	return sent
}

func groupByLocation(subscriptions []Subscription) []*locationGroup {
	index := make(map[string]*locationGroup)
	groups := make([]*locationGroup, 0)

	for _, subscription := range subscriptions {
		key := subscription.Location().Key()
		group, ok := index[key]
		if !ok {
			group = &locationGroup{location: subscription.Location()}
			index[key] = group
			groups = append(groups, group)
		}
		group.subscriptions = append(group.subscriptions, subscription)
	}

	return groups
}
