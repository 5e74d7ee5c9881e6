// Copyright (c) 2026 Harian Muslim. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package prayer_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/harianmuslim/internal/prayer"
)

func row(date string) prayer.Row {
	return prayer.Row{
		TanggalLengkap: date,
		Imsak:          "04:20",
		Subuh:          "04:30",
		Terbit:         "05:45",
		Dhuha:          "06:15",
		Dzuhur:         "11:55",
		Ashar:          "15:15",
		Maghrib:        "17:55",
		Isya:           "19:05",
	}
}

func wib(date string, clock string) time.Time {
	instant, err := time.ParseInLocation("2006-01-02 15:04", date+" "+clock, prayer.WIB)
	if err != nil {
		panic(err)
	}
	return instant
}

func TestNext(t *testing.T) {
	schedule := []prayer.Row{row("2026-03-01"), row("2026-03-02")}

	tests := []struct {
		name      string
		now       time.Time
		wantKey   prayer.Key
		wantDate  string
		wantShift int
	}{
		{"before_subuh", wib("2026-03-01", "03:00"), prayer.Subuh, "2026-03-01", 0},
		{"between_dzuhur_and_ashar", wib("2026-03-01", "13:00"), prayer.Ashar, "2026-03-01", 0},
		{"exactly_at_maghrib_is_not_next", wib("2026-03-01", "17:55"), prayer.Isya, "2026-03-01", 0},
		{"after_isya_rolls_to_tomorrow", wib("2026-03-01", "21:00"), prayer.Subuh, "2026-03-02", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, ok := prayer.Next(schedule, tt.now)
			require.True(t, ok)
			assert.Equal(t, tt.wantKey, next.Key)
			assert.Equal(t, tt.wantDate, next.DateISO)
			assert.Equal(t, tt.wantShift, next.DayOffset)
			assert.True(t, next.DateTime.After(tt.now))
		})
	}
}

func TestNext_UsesWIBCalendarDay(t *testing.T) {
	schedule := []prayer.Row{row("2026-03-01"), row("2026-03-02")}

	// 20:00 UTC on Mar 1 is 03:00 WIB on Mar 2.
	next, ok := prayer.Next(schedule, time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC))
	require.True(t, ok)
	assert.Equal(t, "2026-03-02", next.DateISO)
	assert.Equal(t, prayer.Subuh, next.Key)
	assert.Equal(t, 0, next.DayOffset)
}

func TestNext_MissingRows(t *testing.T) {
	t.Run("no_today_no_tomorrow", func(t *testing.T) {
		_, ok := prayer.Next([]prayer.Row{row("2026-02-01")}, wib("2026-03-01", "10:00"))
		assert.False(t, ok)
	})

	t.Run("today_over_and_no_tomorrow", func(t *testing.T) {
		_, ok := prayer.Next([]prayer.Row{row("2026-03-31")}, wib("2026-03-31", "22:00"))
		assert.False(t, ok)
	})

	t.Run("tomorrow_only_is_unknown", func(t *testing.T) {
		_, ok := prayer.Next([]prayer.Row{row("2026-03-02")}, wib("2026-03-01", "22:00"))
		assert.False(t, ok)
	})

	t.Run("empty_schedule", func(t *testing.T) {
		_, ok := prayer.Next(nil, wib("2026-03-01", "10:00"))
		assert.False(t, ok)
	})
}

func TestNext_SkipsUnparseableTimes(t *testing.T) {
	today := row("2026-03-01")
	today.Ashar = ""
	today.Maghrib = "not a time"

	next, ok := prayer.Next([]prayer.Row{today}, wib("2026-03-01", "13:00"))
	require.True(t, ok)
	assert.Equal(t, prayer.Isya, next.Key)
}

func TestNext_DoesNotMutateSchedule(t *testing.T) {
	schedule := []prayer.Row{row("2026-03-01"), row("2026-03-02")}
	snapshot := append([]prayer.Row(nil), schedule...)

	_, _ = prayer.Next(schedule, wib("2026-03-01", "21:00"))
	_ = prayer.Upcoming(schedule, wib("2026-03-01", "21:00"))

	assert.Equal(t, snapshot, schedule)
}

func TestUpcoming(t *testing.T) {
	schedule := []prayer.Row{row("2026-03-01"), row("2026-03-02")}

	t.Run("remaining_today", func(t *testing.T) {
		upcoming := prayer.Upcoming(schedule, wib("2026-03-01", "16:00"))
		require.Len(t, upcoming, 2)
		assert.Equal(t, prayer.Maghrib, upcoming[0].Key)
		assert.Equal(t, prayer.Isya, upcoming[1].Key)
	})

	t.Run("tomorrow_first_only", func(t *testing.T) {
		upcoming := prayer.Upcoming(schedule, wib("2026-03-01", "20:00"))
		require.Len(t, upcoming, 1)
		assert.Equal(t, prayer.Subuh, upcoming[0].Key)
		assert.Equal(t, 1, upcoming[0].DayOffset)
	})

	t.Run("unknown", func(t *testing.T) {
		upcoming := prayer.Upcoming(nil, wib("2026-03-01", "20:00"))
		assert.NotNil(t, upcoming)
		assert.Empty(t, upcoming)
	})
}

func TestFormatCountdown(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{3661000 * time.Millisecond, "01:01:01"},
		{999 * time.Millisecond, "00:00:00"},
		{0, "00:00:00"},
		{-5 * time.Second, "00:00:00"},
		{25*time.Hour + 2*time.Second, "25:00:02"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, prayer.FormatCountdown(tt.in), tt.in.String())
	}
}

func TestAt(t *testing.T) {
	instant, ok := prayer.At("2026-03-01", "4:5")
	require.True(t, ok)
	assert.Equal(t, wib("2026-03-01", "04:05"), instant)

	instant, ok = prayer.At("2026-03-01", "18:07:30")
	require.True(t, ok)
	assert.Equal(t, wib("2026-03-01", "18:07"), instant)

	for _, bad := range []string{"", "24:00", "12", "aa:bb", "12:60"} {
		_, ok := prayer.At("2026-03-01", bad)
		assert.False(t, ok, bad)
	}

	_, ok = prayer.At("01/03/2026", "12:00")
	assert.False(t, ok)
}
