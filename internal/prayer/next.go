// Copyright (c) 2026 Harian Muslim. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package prayer

import (
	"fmt"
	"time"
)

// NextPrayer is a prayer resolved to a concrete instant.
type NextPrayer struct {
	Key       Key       `json:"key"`
	Label     string    `json:"label"`
	Time      string    `json:"time"`
	DateISO   string    `json:"date"`
	DateTime  time.Time `json:"date_time"`
	DayOffset int       `json:"day_offset"`
}

/*
Next returns the first prayer strictly after now.

Today's remaining prayers are scanned in [Order]. When none remain, the first
prayer of tomorrow's row is returned with DayOffset 1. A schedule without
today's row, or without tomorrow's row once today is over, yields false.

Next is pure: the schedule is never modified.
*/
func Next(schedule []Row, now time.Time) (NextPrayer, bool) {
	today := DateISO(now)

	row, found := FindRow(schedule, today)
	if !found {
		return NextPrayer{}, false
	}

	for _, prayer := range Order {
		if next, ok := resolve(row, prayer, today, 0); ok && next.DateTime.After(now) {
			return next, true
		}
	}

	return firstOfTomorrow(schedule, now)
}

/*
Upcoming returns every prayer of today still ahead of now, in [Order].

When today is over it returns only the first prayer of tomorrow. The same
missing-row rules as [Next] apply, with an empty slice as the unknown result.
*/
func Upcoming(schedule []Row, now time.Time) []NextPrayer {
	today := DateISO(now)

	row, found := FindRow(schedule, today)
	if !found {
		return []NextPrayer{}
	}

	upcoming := make([]NextPrayer, 0, len(Order))
	for _, prayer := range Order {
		if next, ok := resolve(row, prayer, today, 0); ok && next.DateTime.After(now) {
			upcoming = append(upcoming, next)
		}
	}

	if len(upcoming) > 0 {
		return upcoming
	}

	if next, ok := firstOfTomorrow(schedule, now); ok {
		return []NextPrayer{next}
	}
	return []NextPrayer{}
}

// FormatCountdown renders a remaining duration as "HH:MM:SS".
// Non-positive durations render as "00:00:00"; hours are not capped at 24.
func FormatCountdown(remaining time.Duration) string {
	if remaining <= 0 {
		return "00:00:00"
	}

	totalSeconds := int64(remaining / time.Second)
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60

	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}

func firstOfTomorrow(schedule []Row, now time.Time) (NextPrayer, bool) {
	tomorrow := DateISO(now.In(WIB).AddDate(0, 0, 1))

	row, found := FindRow(schedule, tomorrow)
	if !found {
		return NextPrayer{}, false
	}

	return resolve(row, Order[0], tomorrow, 1)
}

func resolve(row Row, prayer Prayer, dateISO string, dayOffset int) (NextPrayer, bool) {
	clock := row.Time(prayer.Key)

	instant, ok := At(dateISO, clock)
	if !ok {
		return NextPrayer{}, false
	}

	return NextPrayer{
		Key:       prayer.Key,
		Label:     prayer.Label,
		Time:      clock,
		DateISO:   dateISO,
		DateTime:  instant,
		DayOffset: dayOffset,
	}, true
}
