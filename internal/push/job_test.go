// Copyright (c) 2026 Harian Muslim. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package push_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/harianmuslim/internal/platform/apperr"
	"github.com/taibuivan/harianmuslim/internal/prayer"
	"github.com/taibuivan/harianmuslim/internal/push"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// # Fakes

type delivery struct {
	endpoint string
	message  push.Message
}

type recordingSender struct {
	mu         sync.Mutex
	deliveries []delivery
	failures   map[string]error
	entered    chan struct{}
	block      chan struct{}
}

func (sender *recordingSender) Send(_ context.Context, subscription push.Subscription, message push.Message) error {
	if sender.entered != nil {
		sender.entered <- struct{}{}
	}
	if sender.block != nil {
		<-sender.block
	}

	sender.mu.Lock()
	defer sender.mu.Unlock()

	if err, ok := sender.failures[subscription.Endpoint]; ok {
		return err
	}
	sender.deliveries = append(sender.deliveries, delivery{endpoint: subscription.Endpoint, message: message})
	return nil
}

type stubSchedules struct {
	mu      sync.Mutex
	calls   map[string]int
	failing map[string]bool
}

func (schedules *stubSchedules) Schedule(_ context.Context, location prayer.Location, year, month int) (*prayer.MonthlySchedule, error) {
	schedules.mu.Lock()
	defer schedules.mu.Unlock()

	if schedules.calls == nil {
		schedules.calls = make(map[string]int)
	}
	schedules.calls[location.Key()]++

	if schedules.failing[location.Kabkota] {
		return nil, apperr.BadGateway("Prayer schedule", errors.New("upstream down"))
	}

	return &prayer.MonthlySchedule{
		Kabkota: location.Kabkota, Provinsi: location.Provinsi, Bulan: month, Tahun: year,
		Jadwal: []prayer.Row{{
			Tanggal: 10, TanggalLengkap: "2026-03-10",
			Subuh: "04:30", Dzuhur: "12:00", Ashar: "15:15", Maghrib: "18:00", Isya: "19:10",
		}},
	}, nil
}

func subscribe(t *testing.T, repository push.Repository, endpoint, kabkota, provinsi string) {
	t.Helper()
	require.NoError(t, repository.Upsert(context.Background(), push.Subscription{
		Endpoint: endpoint, P256dh: "p", Auth: "a", Kabkota: kabkota, Provinsi: provinsi,
	}))
}

func atWIB(clock string) time.Time {
	parsed, _ := time.ParseInLocation("2006-01-02 15:04", "2026-03-10 "+clock, prayer.WIB)
	return parsed
}

// # Tests

func TestJob_SendsDuePrayerOnce(t *testing.T) {
	repository := push.NewMemoryRepository()
	subscribe(t, repository, "https://push.example/a", "Kota Bandung", "Jawa Barat")

	sender := &recordingSender{}
	job := push.NewJob(repository, sender, &stubSchedules{}, 5*time.Minute, discard)

	sent, err := job.Run(context.Background(), atWIB("04:32"))
	require.NoError(t, err)
	assert.Equal(t, 1, sent)

	require.Len(t, sender.deliveries, 1)
	assert.Equal(t, push.Message{
		Title: "Waktu Sholat Subuh",
		Body:  "Subuh • 04:30 (Kota Bandung)",
		URL:   "/sholat",
	}, sender.deliveries[0].message)

	subscriptions, _ := repository.List(context.Background())
	assert.Equal(t, "2026-03-10|subuh", subscriptions[0].LastSentKey)
	assert.NotNil(t, subscriptions[0].LastSentAt)

	// A second run inside the same window is deduplicated.
	sent, err = job.Run(context.Background(), atWIB("04:34"))
	require.NoError(t, err)
	assert.Zero(t, sent)
	assert.Len(t, sender.deliveries, 1)
}

func TestJob_Window(t *testing.T) {
	tests := []struct {
		name  string
		clock string
		want  int
	}{
		{"before_prayer", "04:29", 0},
		{"at_prayer", "04:30", 1},
		{"window_end", "04:35", 1},
		{"past_window", "04:36", 0},
		{"maghrib", "18:01", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repository := push.NewMemoryRepository()
			subscribe(t, repository, "https://push.example/a", "Kota Bandung", "Jawa Barat")

			job := push.NewJob(repository, &recordingSender{}, &stubSchedules{}, 5*time.Minute, discard)
			sent, err := job.Run(context.Background(), atWIB(tt.clock))
			require.NoError(t, err)
			assert.Equal(t, tt.want, sent)
		})
	}
}

func TestJob_DeletesGoneSubscriptions(t *testing.T) {
	repository := push.NewMemoryRepository()
	subscribe(t, repository, "https://push.example/gone", "Kota Bandung", "Jawa Barat")
	subscribe(t, repository, "https://push.example/flaky", "Kota Bandung", "Jawa Barat")
	subscribe(t, repository, "https://push.example/ok", "Kota Bandung", "Jawa Barat")

	sender := &recordingSender{failures: map[string]error{
		"https://push.example/gone":  &push.DeliveryError{StatusCode: http.StatusGone},
		"https://push.example/flaky": &push.DeliveryError{StatusCode: http.StatusInternalServerError},
	}}
	job := push.NewJob(repository, sender, &stubSchedules{}, 5*time.Minute, discard)

	sent, err := job.Run(context.Background(), atWIB("12:01"))
	require.NoError(t, err)
	assert.Equal(t, 1, sent)

	subscriptions, _ := repository.List(context.Background())
	endpoints := make([]string, 0, len(subscriptions))
	for _, subscription := range subscriptions {
		endpoints = append(endpoints, subscription.Endpoint)
	}

	// Transient failures keep the row and leave it eligible for the next run.
	assert.Equal(t, []string{"https://push.example/flaky", "https://push.example/ok"}, endpoints)
	assert.Empty(t, subscriptions[0].LastSentKey)
}

func TestJob_FetchesScheduleOncePerLocation(t *testing.T) {
	repository := push.NewMemoryRepository()
	subscribe(t, repository, "https://push.example/1", "Kota Bandung", "Jawa Barat")
	subscribe(t, repository, "https://push.example/2", "Kota Bandung", "Jawa Barat")
	subscribe(t, repository, "https://push.example/3", "Kota Bogor", "Jawa Barat")

	schedules := &stubSchedules{}
	job := push.NewJob(repository, &recordingSender{}, schedules, 5*time.Minute, discard)

	sent, err := job.Run(context.Background(), atWIB("15:15"))
	require.NoError(t, err)
	assert.Equal(t, 3, sent)
	assert.Equal(t, map[string]int{
		"Kota Bandung||Jawa Barat": 1,
		"Kota Bogor||Jawa Barat":   1,
	}, schedules.calls)
}

func TestJob_SkipsLocationWithoutSchedule(t *testing.T) {
	repository := push.NewMemoryRepository()
	subscribe(t, repository, "https://push.example/1", "Kota Bandung", "Jawa Barat")
	subscribe(t, repository, "https://push.example/2", "Kota Bogor", "Jawa Barat")

	sender := &recordingSender{}
	schedules := &stubSchedules{failing: map[string]bool{"Kota Bandung": true}}
	job := push.NewJob(repository, sender, schedules, 5*time.Minute, discard)

	sent, err := job.Run(context.Background(), atWIB("19:10"))
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Equal(t, "https://push.example/2", sender.deliveries[0].endpoint)
}

func TestJob_NoRowForToday(t *testing.T) {
	repository := push.NewMemoryRepository()
	subscribe(t, repository, "https://push.example/1", "Kota Bandung", "Jawa Barat")

	job := push.NewJob(repository, &recordingSender{}, &stubSchedules{}, 5*time.Minute, discard)

	// The stub only knows 2026-03-10.
	sent, err := job.Run(context.Background(), atWIB("04:31").AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Zero(t, sent)
}

func TestJob_RejectsOverlappingRuns(t *testing.T) {
	repository := push.NewMemoryRepository()
	subscribe(t, repository, "https://push.example/1", "Kota Bandung", "Jawa Barat")

	sender := &recordingSender{entered: make(chan struct{}), block: make(chan struct{})}
	job := push.NewJob(repository, sender, &stubSchedules{}, 5*time.Minute, discard)

	done := make(chan int)
	go func() {
		sent, _ := job.Run(context.Background(), atWIB("04:30"))
		done <- sent
	}()

	// The first run is now inside Send and holds the lock.
	<-sender.entered

	_, err := job.Run(context.Background(), atWIB("04:30"))
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, http.StatusConflict, appError.HTTPStatus)

	close(sender.block)
	assert.Equal(t, 1, <-done)
}

type failingRepository struct {
	push.Repository
}

func (failingRepository) List(context.Context) ([]push.Subscription, error) {
	return nil, errors.New("connection refused")
}

func TestJob_ListFailure(t *testing.T) {
	job := push.NewJob(failingRepository{}, &recordingSender{}, &stubSchedules{}, 5*time.Minute, discard)

	_, err := job.Run(context.Background(), atWIB("04:30"))
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "Failed to load subscriptions", appError.Message)
}
