// Copyright (c) 2026 Harian Muslim. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package location

import (
	"context"
	"log/slog"
	"strings"

	"github.com/taibuivan/harianmuslim/internal/platform/apperr"
	"github.com/taibuivan/harianmuslim/internal/platform/validate"
	"github.com/taibuivan/harianmuslim/internal/prayer"
)

// Catalog lists the regencies that can be matched against.
type Catalog interface {
	Locations(ctx context.Context) ([]prayer.LocationOption, error)
}

// Resolution is the outcome of matching a place name.
type Resolution struct {
	// Query is the place name that was matched (the geocoded name for coordinates).
	Query    string                `json:"query"`
	Location prayer.LocationOption `json:"location"`
}

// # Service Layer

// Service resolves coordinates and free-text names to a scheduled regency.
type Service struct {
	catalog  Catalog
	geocoder Geocoder
	logger   *slog.Logger
}

// NewService constructs a [Service].
func NewService(catalog Catalog, geocoder Geocoder, logger *slog.Logger) *Service {
	return &Service{catalog: catalog, geocoder: geocoder, logger: logger}
}

/*
Resolve reverse-geocodes (lat, lon) and matches the resulting name.

Returns:
  - *Resolution: The matched regency and the geocoded name
  - error: ValidationError for out-of-range coordinates, BadGateway when the
    geocoder fails, NotFound when no regency matches
*/
func (service *Service) Resolve(ctx context.Context, lat, lon float64) (*Resolution, error) {
	if err := new(validate.Validator).
		Custom("lat", lat < -90 || lat > 90, "Must be between -90 and 90").
		Custom("lon", lon < -180 || lon > 180, "Must be between -180 and 180").
		Err(); err != nil {
		return nil, err
	}

	name, err := service.geocoder.ReverseName(ctx, lat, lon)
	if err != nil {
		return nil, apperr.BadGateway("Reverse geocoding", err)
	}
	if name == "" {
		return nil, apperr.NotFound("Place")
	}

	return service.MatchName(ctx, name)
}

// MatchName matches a free-text name against the regency catalog.
func (service *Service) MatchName(ctx context.Context, name string) (*Resolution, error) {
	name = strings.TrimSpace(name)
	if err := new(validate.Validator).Required("name", name).MaxLen("name", name, 200).Err(); err != nil {
		return nil, err
	}

	options, err := service.catalog.Locations(ctx)
	if err != nil {
		return nil, err
	}

	match, found := Match(options, name)
	if !found {
		service.logger.InfoContext(ctx, "location_match_missed", slog.String("query", name))
		return nil, apperr.NotFound("Matching regency")
	}

	return &Resolution{Query: name, Location: match}, nil
}
