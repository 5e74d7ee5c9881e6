// Copyright (c) 2026 Harian Muslim. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package location

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/taibuivan/harianmuslim/internal/platform/upstream"
)

// addressFields are the Nominatim address parts tried in order; the first
// non-empty one names the place.
var addressFields = []string{
	"city", "town", "municipality", "county", "state_district", "village", "state", "region",
}

// Geocoder turns coordinates into a place name.
type Geocoder interface {
	ReverseName(ctx context.Context, lat, lon float64) (string, error)
}

// NominatimGeocoder reverse-geocodes with the OpenStreetMap Nominatim API.
type NominatimGeocoder struct {
	api *upstream.Client
}

// NewNominatimGeocoder creates a [Geocoder] on a client bound to the Nominatim base URL.
func NewNominatimGeocoder(api *upstream.Client) *NominatimGeocoder {
	return &NominatimGeocoder{api: api}
}

// ReverseName returns the most specific administrative name at (lat, lon),
// in Indonesian where available. An empty name with a nil error means the
// point has no usable address.
func (geocoder *NominatimGeocoder) ReverseName(ctx context.Context, lat, lon float64) (string, error) {
	query := url.Values{
		"format":          {"jsonv2"},
		"lat":             {strconv.FormatFloat(lat, 'f', -1, 64)},
		"lon":             {strconv.FormatFloat(lon, 'f', -1, 64)},
		"addressdetails":  {"1"},
		"accept-language": {"id"},
	}

	body, err := geocoder.api.Get(ctx, "reverse", query)
	if err != nil {
		return "", fmt.Errorf("location: reverse geocode: %w", err)
	}

	if !gjson.ValidBytes(body) {
		return "", fmt.Errorf("location: reverse geocode returned invalid JSON")
	}

	address := gjson.GetBytes(body, "address")
	for _, field := range addressFields {
		if name := strings.TrimSpace(address.Get(field).String()); name != "" {
			return name, nil
		}
	}

	return "", nil
}
