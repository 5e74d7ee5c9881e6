// Copyright (c) 2026 Harian Muslim. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package prayer serves monthly prayer schedules per regency and derives the next
prayer from them.

Schedules come from the equran.id v2 API as one row per calendar day. Every
instant in this package is expressed in Western Indonesian Time (WIB, a fixed
UTC+07:00 offset with no daylight saving), which is the zone the schedules are
published in regardless of the regency.
*/
package prayer

import (
	"strconv"
	"strings"
	"time"
)

// WIB is the civil timezone every schedule row is expressed in.
var WIB = time.FixedZone("WIB", 7*60*60)

// dateLayout is the layout of [Row.TanggalLengkap].
const dateLayout = "2006-01-02"

// # Prayers

// Key identifies one of the five obligatory prayers.
type Key string

const (
	Subuh   Key = "subuh"
	Dzuhur  Key = "dzuhur"
	Ashar   Key = "ashar"
	Maghrib Key = "maghrib"
	Isya    Key = "isya"
)

// Prayer pairs a [Key] with its display label.
type Prayer struct {
	Key   Key    `json:"key"`
	Label string `json:"label"`
}

// Order is the fixed daily sequence of the five prayers.
var Order = []Prayer{
	{Key: Subuh, Label: "Subuh"},
	{Key: Dzuhur, Label: "Dzuhur"},
	{Key: Ashar, Label: "Ashar"},
	{Key: Maghrib, Label: "Maghrib"},
	{Key: Isya, Label: "Isya"},
}

// # Schedule Data

// Row is one calendar day of a regency's schedule. Times are "HH:MM" in [WIB].
type Row struct {
	Tanggal        int    `json:"tanggal"`
	TanggalLengkap string `json:"tanggal_lengkap"`
	Hari           string `json:"hari"`
	Imsak          string `json:"imsak"`
	Subuh          string `json:"subuh"`
	Terbit         string `json:"terbit"`
	Dhuha          string `json:"dhuha"`
	Dzuhur         string `json:"dzuhur"`
	Ashar          string `json:"ashar"`
	Maghrib        string `json:"maghrib"`
	Isya           string `json:"isya"`
}

// Time returns the "HH:MM" string of the given prayer, or "" for an unknown key.
func (row Row) Time(key Key) string {
	switch key {
	case Subuh:
		return row.Subuh
	case Dzuhur:
		return row.Dzuhur
	case Ashar:
		return row.Ashar
	case Maghrib:
		return row.Maghrib
	case Isya:
		return row.Isya
	default:
		return ""
	}
}

// MonthlySchedule is the schedule of one regency for one month.
type MonthlySchedule struct {
	Provinsi  string `json:"provinsi"`
	Kabkota   string `json:"kabkota"`
	Bulan     int    `json:"bulan"`
	Tahun     int    `json:"tahun"`
	BulanNama string `json:"bulan_nama"`
	Jadwal    []Row  `json:"jadwal"`
}

// Location is a regency (kabupaten or kota) and the province it belongs to.
type Location struct {
	Kabkota  string `json:"kabkota"`
	Provinsi string `json:"provinsi"`
}

// Key returns the "kabkota||provinsi" grouping key.
func (location Location) Key() string {
	return location.Kabkota + "||" + location.Provinsi
}

// IsZero reports whether either half of the location is missing.
func (location Location) IsZero() bool {
	return strings.TrimSpace(location.Kabkota) == "" || strings.TrimSpace(location.Provinsi) == ""
}

// # Civil Time Helpers

// DateISO returns the WIB calendar date of t as "YYYY-MM-DD".
func DateISO(t time.Time) string {
	return t.In(WIB).Format(dateLayout)
}

// At resolves a date and an "HH:MM" time of day to an instant in WIB.
//
// Single-digit parts are accepted ("4:5" is 04:05) and anything after the
// minutes is ignored. It reports false for an empty or unparseable time.
func At(dateISO, clock string) (time.Time, bool) {
	if clock == "" {
		return time.Time{}, false
	}

	day, err := time.ParseInLocation(dateLayout, dateISO, WIB)
	if err != nil {
		return time.Time{}, false
	}

	parts := strings.Split(strings.TrimSpace(clock), ":")
	if len(parts) < 2 {
		return time.Time{}, false
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 || hours > 23 {
		return time.Time{}, false
	}

	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return time.Time{}, false
	}

	return time.Date(day.Year(), day.Month(), day.Day(), hours, minutes, 0, 0, WIB), true
}

// FindRow returns the row dated dateISO.
func FindRow(schedule []Row, dateISO string) (Row, bool) {
	for _, row := range schedule {
		if row.TanggalLengkap == dateISO {
			return row, true
		}
	}
	return Row{}, false
}
