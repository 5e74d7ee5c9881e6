// Copyright (c) 2026 Harian Muslim. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package doa

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/taibuivan/harianmuslim/internal/platform/apperr"
	"github.com/taibuivan/harianmuslim/internal/platform/cache"
	"github.com/taibuivan/harianmuslim/internal/platform/constants"
	"github.com/taibuivan/harianmuslim/pkg/pagination"
)

const cacheKeyAll = constants.CachePrefixDoa + "all"

// Service lists and looks up supplications.
//
// The snapshot list is authoritative when present. Otherwise the live list
// is fetched once per cache TTL.
type Service struct {
	source   Source
	snapshot []Doa
	cache    cache.Store
	ttl      time.Duration
	logger   *slog.Logger
	flight   singleflight.Group
}

// NewService creates a doa service.
func NewService(source Source, snapshot []Doa, store cache.Store, ttl time.Duration, logger *slog.Logger) *Service {
	return &Service{source: source, snapshot: snapshot, cache: store, ttl: ttl, logger: logger}
}

/*
List returns one page of supplications matching the filter.

Grup matches case-insensitively on the whole value. Tags match when any of
the entry's tags equals any requested tag, ignoring case.

Returns:
  - []Doa: The requested page, never nil
  - pagination.Meta: Totals for the filtered list
  - error: apperr.BadGateway when no data is available
*/
func (service *Service) List(ctx context.Context, filter Filter, params pagination.Params) ([]Doa, pagination.Meta, error) {
	all, err := service.all(ctx)
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	grup := strings.TrimSpace(filter.Grup)

	matched := make([]Doa, 0, len(all))
	for _, item := range all {
		if grup != "" && !strings.EqualFold(item.Grup, grup) {
			continue
		}
		if len(filter.Tags) > 0 && !hasAnyTag(item, filter.Tags) {
			continue
		}
		matched = append(matched, item)
	}

	items, meta := pagination.Window(matched, params)
	return items, meta, nil
}

// Get returns the supplication with the given id.
func (service *Service) Get(ctx context.Context, id int) (*Doa, error) {
	all, err := service.all(ctx)
	if err != nil {
		return nil, err
	}

	for i := range all {
		if all[i].ID == id {
			return &all[i], nil
		}
	}
	return nil, apperr.NotFound("Doa")
}

// Groups returns the distinct group names in first-seen order.
func (service *Service) Groups(ctx context.Context) ([]string, error) {
	all, err := service.all(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	groups := make([]string, 0)
	for _, item := range all {
		if _, dup := seen[item.Grup]; dup || item.Grup == "" {
			continue
		}
		seen[item.Grup] = struct{}{}
		groups = append(groups, item.Grup)
	}
	return groups, nil
}

func (service *Service) all(ctx context.Context) ([]Doa, error) {
	if len(service.snapshot) > 0 {
		return service.snapshot, nil
	}

	var cached []Doa
	switch err := cache.GetJSON(ctx, service.cache, cacheKeyAll, &cached); {
	case err == nil:
		return cached, nil
	case !errors.Is(err, cache.ErrMiss):
		service.logger.WarnContext(ctx, "doa_cache_read_failed", slog.String("error", err.Error()))
	}

	result, err, _ := service.flight.Do(cacheKeyAll, func() (interface{}, error) {
		return service.source.All(context.WithoutCancel(ctx))
	})
	if err != nil {
		return nil, apperr.BadGateway("Doa", err)
	}
	all := result.([]Doa)

	if err := cache.SetJSON(ctx, service.cache, cacheKeyAll, all, service.ttl); err != nil {
		service.logger.WarnContext(ctx, "doa_cache_write_failed", slog.String("error", err.Error()))
	}

	return all, nil
}

func hasAnyTag(item Doa, tags []string) bool {
	for _, candidate := range item.Tag {
		for _, tag := range tags {
			if strings.EqualFold(candidate, tag) {
				return true
			}
		}
	}
	return false
}
