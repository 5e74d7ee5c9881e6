// Copyright (c) 2026 Harian Muslim. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package prayer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/taibuivan/harianmuslim/internal/platform/apperr"
	"github.com/taibuivan/harianmuslim/internal/platform/cache"
	"github.com/taibuivan/harianmuslim/internal/platform/constants"
	"github.com/taibuivan/harianmuslim/internal/platform/validate"
	"github.com/taibuivan/harianmuslim/pkg/slug"
)

// regencyFetchLimit bounds the concurrent per-province regency calls.
const regencyFetchLimit = 8

// LocationOption is one selectable regency.
type LocationOption struct {
	Kabkota  string `json:"kabkota"`
	Provinsi string `json:"provinsi"`
	Value    string `json:"value"`
	Label    string `json:"label"`
}

// Location returns the option as a [Location].
func (option LocationOption) Location() Location {
	return Location{Kabkota: option.Kabkota, Provinsi: option.Provinsi}
}

// Overview is the next-prayer view of one location at one instant.
type Overview struct {
	Location  Location     `json:"location"`
	Today     *Row         `json:"today"`
	Next      *NextPrayer  `json:"next"`
	Upcoming  []NextPrayer `json:"upcoming"`
	Countdown string       `json:"countdown"`
}

type locationSnapshot struct {
	options   []LocationOption
	fetchedAt time.Time
}

// # Service Layer

// Service answers schedule questions for a regency.
//
// Monthly schedules are cached in the shared [cache.Store]. The regency list is
// kept in process memory, refreshed after its TTL, and served stale when a
// refresh fails.
type Service struct {
	source      Source
	cache       cache.Store
	scheduleTTL time.Duration
	locationTTL time.Duration
	logger      *slog.Logger
	now         func() time.Time

	mu        sync.RWMutex
	locations *locationSnapshot
	flight    singleflight.Group
}

// Options tunes the cache lifetimes of a [Service].
type Options struct {
	ScheduleTTL time.Duration
	LocationTTL time.Duration
}

// NewService constructs a [Service] with its upstream source and cache.
func NewService(source Source, store cache.Store, options Options, logger *slog.Logger) *Service {
	return &Service{
		source:      source,
		cache:       store,
		scheduleTTL: options.ScheduleTTL,
		locationTTL: options.LocationTTL,
		logger:      logger,
		now:         time.Now,
	}
}

// Now returns the service clock.
func (service *Service) Now() time.Time {
	return service.now()
}

// # Regencies

// Provinces lists every province name.
func (service *Service) Provinces(ctx context.Context) ([]string, error) {
	provinces, err := service.source.Provinces(ctx)
	if err != nil {
		return nil, apperr.BadGateway("Province list", err)
	}
	return provinces, nil
}

/*
Locations returns every regency of every province, sorted by label.

Description: The list is assembled from one province call and one regency
call per province, issued concurrently. Concurrent callers share one refresh.
When a refresh fails and an older list exists, the older list is returned.

Returns:
  - []LocationOption: Options sorted with Indonesian collation
  - error: apperr.BadGateway when no list has ever been loaded
*/
func (service *Service) Locations(ctx context.Context) ([]LocationOption, error) {
	service.mu.RLock()
	current := service.locations
	service.mu.RUnlock()

	if current != nil && service.now().Sub(current.fetchedAt) < service.locationTTL {
		return current.options, nil
	}

	result, err, _ := service.flight.Do("locations", func() (interface{}, error) {
		return service.loadLocations(context.WithoutCancel(ctx))
	})
	if err != nil {
		if current != nil {
			service.logger.WarnContext(ctx, "location_list_refresh_failed_serving_stale",
				slog.String("error", err.Error()),
				slog.Time("fetched_at", current.fetchedAt),
			)
			return current.options, nil
		}
		return nil, apperr.BadGateway("Location list", err)
	}

	return result.([]LocationOption), nil
}

func (service *Service) loadLocations(ctx context.Context) ([]LocationOption, error) {
	provinces, err := service.source.Provinces(ctx)
	if err != nil {
		return nil, err
	}

	// 1. One regency call per province, bounded
	regencies := make([][]string, len(provinces))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(regencyFetchLimit)

	for i, provinsi := range provinces {
		i, provinsi := i, provinsi
		group.Go(func() error {
			list, err := service.source.Regencies(groupCtx, provinsi)
			if err != nil {
				return err
			}
			regencies[i] = list
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	// 2. Flatten in province order
	options := make([]LocationOption, 0, len(provinces)*16)
	for i, provinsi := range provinces {
		for _, kabkota := range regencies[i] {
			options = append(options, LocationOption{
				Kabkota:  kabkota,
				Provinsi: provinsi,
				Value:    kabkota + "||" + provinsi,
				Label:    kabkota,
			})
		}
	}

	// 3. Sort the way an Indonesian reader expects
	collator := collate.New(language.Indonesian, collate.IgnoreCase)
	sort.SliceStable(options, func(a, b int) bool {
		return collator.CompareString(options[a].Label, options[b].Label) < 0
	})

	service.mu.Lock()
	service.locations = &locationSnapshot{options: options, fetchedAt: service.now()}
	service.mu.Unlock()

	service.logger.InfoContext(ctx, "location_list_refreshed",
		slog.Int("provinces", len(provinces)),
		slog.Int("regencies", len(options)),
	)

	return options, nil
}

// ProvinceOf returns the province of the first regency named kabkota.
func (service *Service) ProvinceOf(ctx context.Context, kabkota string) (string, bool, error) {
	options, err := service.Locations(ctx)
	if err != nil {
		return "", false, err
	}

	for _, option := range options {
		if option.Kabkota == kabkota {
			return option.Provinsi, true, nil
		}
	}
	return "", false, nil
}

// # Schedules

/*
Schedule returns the monthly schedule of a regency.

Parameters:
  - ctx: context.Context
  - location: Location (both halves required)
  - year: int (2000..2100)
  - month: int (1..12)

Returns:
  - *MonthlySchedule: Rows ordered by day
  - error: apperr.ValidationError for bad input, apperr.BadGateway on upstream failure
*/
func (service *Service) Schedule(ctx context.Context, location Location, year, month int) (*MonthlySchedule, error) {
	err := new(validate.Validator).
		Required("kabkota", location.Kabkota).
		Required("provinsi", location.Provinsi).
		Range("year", year, 2000, 2100).
		Range("month", month, 1, 12).
		Err()
	if err != nil {
		return nil, err
	}

	key := constants.CachePrefixSchedule + slug.Join(location.Provinsi, location.Kabkota, strconv.Itoa(year), fmt.Sprintf("%02d", month))

	// 1. Shared cache
	var cached MonthlySchedule
	switch err := cache.GetJSON(ctx, service.cache, key, &cached); {
	case err == nil:
		return &cached, nil
	case !errors.Is(err, cache.ErrMiss):
		service.logger.WarnContext(ctx, "schedule_cache_read_failed", slog.String("key", key), slog.String("error", err.Error()))
	}

	// 2. Upstream, coalesced per key
	result, err, _ := service.flight.Do(key, func() (interface{}, error) {
		return service.source.MonthlySchedule(context.WithoutCancel(ctx), location, year, month)
	})
	if err != nil {
		return nil, apperr.BadGateway("Prayer schedule", err)
	}

	schedule := result.(*MonthlySchedule)
	if len(schedule.Jadwal) == 0 {
		return nil, apperr.NotFound("Prayer schedule")
	}

	if err := cache.SetJSON(ctx, service.cache, key, schedule, service.scheduleTTL); err != nil {
		service.logger.WarnContext(ctx, "schedule_cache_write_failed", slog.String("key", key), slog.String("error", err.Error()))
	}

	return schedule, nil
}

// Rows returns the rows covering now and the following day.
//
// On the last day of a month the next month is appended so the rollover to
// tomorrow's Subuh still resolves; a failure to load it is only logged.
func (service *Service) Rows(ctx context.Context, location Location, now time.Time) ([]Row, error) {
	local := now.In(WIB)

	current, err := service.Schedule(ctx, location, local.Year(), int(local.Month()))
	if err != nil {
		return nil, err
	}

	rows := current.Jadwal
	tomorrow := local.AddDate(0, 0, 1)

	if tomorrow.Month() != local.Month() {
		following, err := service.Schedule(ctx, location, tomorrow.Year(), int(tomorrow.Month()))
		if err != nil {
			service.logger.WarnContext(ctx, "next_month_schedule_unavailable",
				slog.String("location", location.Key()),
				slog.String("error", err.Error()),
			)
			return rows, nil
		}
		rows = append(append(make([]Row, 0, len(rows)+len(following.Jadwal)), rows...), following.Jadwal...)
	}

	return rows, nil
}

// Today returns the row for the WIB calendar day of now.
func (service *Service) Today(ctx context.Context, location Location, now time.Time) (Row, error) {
	local := now.In(WIB)

	schedule, err := service.Schedule(ctx, location, local.Year(), int(local.Month()))
	if err != nil {
		return Row{}, err
	}

	row, found := FindRow(schedule.Jadwal, DateISO(now))
	if !found {
		return Row{}, apperr.NotFound("Prayer schedule for today")
	}
	return row, nil
}

// Overview resolves today's row, the next prayer and the countdown to it.
// Missing data leaves the corresponding fields empty instead of failing.
func (service *Service) Overview(ctx context.Context, location Location, now time.Time) (*Overview, error) {
	rows, err := service.Rows(ctx, location, now)
	if err != nil {
		return nil, err
	}

	overview := &Overview{
		Location:  location,
		Upcoming:  Upcoming(rows, now),
		Countdown: FormatCountdown(0),
	}

	if today, found := FindRow(rows, DateISO(now)); found {
		overview.Today = &today
	}

	if next, found := Next(rows, now); found {
		overview.Next = &next
		overview.Countdown = FormatCountdown(next.DateTime.Sub(now))
	}

	return overview, nil
}
