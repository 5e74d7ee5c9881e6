// Copyright (c) 2026 Harian Muslim. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package prayer_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/harianmuslim/internal/platform/apperr"
	"github.com/taibuivan/harianmuslim/internal/platform/cache"
	"github.com/taibuivan/harianmuslim/internal/prayer"
)

// fakeSource serves canned regencies and generates a full month of identical rows.
type fakeSource struct {
	mu             sync.Mutex
	regencies      map[string][]string
	failLocations  bool
	failSchedule   bool
	scheduleCalls  int
	locationCalls  int
	emptySchedules bool
}

func (source *fakeSource) Provinces(context.Context) ([]string, error) {
	source.mu.Lock()
	defer source.mu.Unlock()
	source.locationCalls++
	if source.failLocations {
		return nil, errors.New("upstream down")
	}
	return []string{"Jawa Barat", "DKI Jakarta"}, nil
}

func (source *fakeSource) Regencies(_ context.Context, provinsi string) ([]string, error) {
	return source.regencies[provinsi], nil
}

func (source *fakeSource) MonthlySchedule(_ context.Context, location prayer.Location, year, month int) (*prayer.MonthlySchedule, error) {
	source.mu.Lock()
	defer source.mu.Unlock()
	source.scheduleCalls++
	if source.failSchedule {
		return nil, errors.New("upstream down")
	}

	schedule := &prayer.MonthlySchedule{Provinsi: location.Provinsi, Kabkota: location.Kabkota, Bulan: month, Tahun: year}
	if source.emptySchedules {
		return schedule, nil
	}

	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, prayer.WIB)
	for day := first; day.Month() == first.Month(); day = day.AddDate(0, 0, 1) {
		r := row(day.Format("2006-01-02"))
		r.Tanggal = day.Day()
		schedule.Jadwal = append(schedule.Jadwal, r)
	}
	return schedule, nil
}

func newService(source *fakeSource) *prayer.Service {
	return prayer.NewService(source, cache.NewMemory(), prayer.Options{
		ScheduleTTL: time.Hour,
		LocationTTL: 12 * time.Hour,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

var bandung = prayer.Location{Kabkota: "Kota Bandung", Provinsi: "Jawa Barat"}

func TestService_ScheduleIsCached(t *testing.T) {
	source := &fakeSource{}
	service := newService(source)

	for i := 0; i < 3; i++ {
		schedule, err := service.Schedule(context.Background(), bandung, 2026, 3)
		require.NoError(t, err)
		assert.Len(t, schedule.Jadwal, 31)
	}

	assert.Equal(t, 1, source.scheduleCalls)
}

func TestService_ScheduleErrors(t *testing.T) {
	t.Run("validation", func(t *testing.T) {
		_, err := newService(&fakeSource{}).Schedule(context.Background(), prayer.Location{Kabkota: "Kota Bandung"}, 2026, 13)
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "VALIDATION_ERROR", ae.Code)
		assert.Len(t, ae.Details, 2)
	})

	t.Run("upstream_failure", func(t *testing.T) {
		_, err := newService(&fakeSource{failSchedule: true}).Schedule(context.Background(), bandung, 2026, 3)
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "UPSTREAM_UNAVAILABLE", ae.Code)
	})

	t.Run("empty_schedule", func(t *testing.T) {
		_, err := newService(&fakeSource{emptySchedules: true}).Schedule(context.Background(), bandung, 2026, 3)
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "NOT_FOUND", ae.Code)
	})
}

func TestService_OverviewRollsIntoNextMonth(t *testing.T) {
	service := newService(&fakeSource{})

	// After Isya on the last day of March, the next prayer lives in April's schedule.
	overview, err := service.Overview(context.Background(), bandung, wib("2026-03-31", "20:00"))
	require.NoError(t, err)

	require.NotNil(t, overview.Today)
	assert.Equal(t, "2026-03-31", overview.Today.TanggalLengkap)
	require.NotNil(t, overview.Next)
	assert.Equal(t, "2026-04-01", overview.Next.DateISO)
	assert.Equal(t, 1, overview.Next.DayOffset)
	assert.Equal(t, "08:30:00", overview.Countdown)
}

func TestService_Today(t *testing.T) {
	service := newService(&fakeSource{})

	today, err := service.Today(context.Background(), bandung, wib("2026-03-15", "09:00"))
	require.NoError(t, err)
	assert.Equal(t, 15, today.Tanggal)
}

func TestService_Locations(t *testing.T) {
	source := &fakeSource{regencies: map[string][]string{
		"Jawa Barat":  {"Kota Bandung", "Kab. Bogor"},
		"DKI Jakarta": {"Kota Jakarta", "kota Administrasi"},
	}}
	service := newService(source)

	options, err := service.Locations(context.Background())
	require.NoError(t, err)

	labels := make([]string, len(options))
	for i, option := range options {
		labels[i] = option.Label
	}
	assert.Equal(t, []string{"Kab. Bogor", "kota Administrasi", "Kota Bandung", "Kota Jakarta"}, labels)
	assert.Equal(t, "Kota Bandung||Jawa Barat", options[2].Value)

	provinsi, found, err := service.ProvinceOf(context.Background(), "Kota Jakarta")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "DKI Jakarta", provinsi)

	// Served from memory within the TTL.
	_, _ = service.Locations(context.Background())
	assert.Equal(t, 1, source.locationCalls)
}

func TestService_LocationsFailure(t *testing.T) {
	_, err := newService(&fakeSource{failLocations: true}).Locations(context.Background())
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "UPSTREAM_UNAVAILABLE", ae.Code)
}

func TestService_ConcurrentSchedules(t *testing.T) {
	service := newService(&fakeSource{})

	var wg sync.WaitGroup
	for i := 1; i <= 12; i++ {
		wg.Add(1)
		go func(month int) {
			defer wg.Done()
			schedule, err := service.Schedule(context.Background(), bandung, 2026, month)
			assert.NoError(t, err)
			assert.Equal(t, month, schedule.Bulan, fmt.Sprint(month))
		}(i)
	}
	wg.Wait()
}

func TestService_Provinces(t *testing.T) {
	provinces, err := newService(&fakeSource{}).Provinces(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Jawa Barat", "DKI Jakarta"}, provinces)

	_, err = newService(&fakeSource{failLocations: true}).Provinces(context.Background())
	require.Error(t, err)
	assert.Equal(t, "UPSTREAM_UNAVAILABLE", apperr.As(err).Code)
}
