// Copyright (c) 2026 Harian Muslim. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package prayer

import (
	"context"
	"fmt"

	"github.com/taibuivan/harianmuslim/internal/platform/upstream"
)

// Source is the read-only provider of regencies and schedules.
type Source interface {
	Provinces(ctx context.Context) ([]string, error)
	Regencies(ctx context.Context, provinsi string) ([]string, error)
	MonthlySchedule(ctx context.Context, location Location, year, month int) (*MonthlySchedule, error)
}

// EquranSource reads the equran.id v2 "shalat" endpoints.
type EquranSource struct {
	api *upstream.Client
}

// NewEquranSource creates a [Source] on top of a client bound to the v2 base URL.
func NewEquranSource(api *upstream.Client) *EquranSource {
	return &EquranSource{api: api}
}

// Provinces returns every province name (GET shalat/provinsi).
func (source *EquranSource) Provinces(ctx context.Context) ([]string, error) {
	var envelope upstream.Envelope[[]string]
	if err := source.api.GetJSON(ctx, "shalat/provinsi", nil, &envelope); err != nil {
		return nil, fmt.Errorf("prayer: list provinces: %w", err)
	}
	return envelope.Data, nil
}

// Regencies returns the regencies of one province (POST shalat/kabkota).
func (source *EquranSource) Regencies(ctx context.Context, provinsi string) ([]string, error) {
	var envelope upstream.Envelope[[]string]
	request := map[string]string{"provinsi": provinsi}

	if err := source.api.PostJSON(ctx, "shalat/kabkota", request, &envelope); err != nil {
		return nil, fmt.Errorf("prayer: list regencies of %q: %w", provinsi, err)
	}
	return envelope.Data, nil
}

// MonthlySchedule returns one month of rows for a regency (POST shalat).
func (source *EquranSource) MonthlySchedule(ctx context.Context, location Location, year, month int) (*MonthlySchedule, error) {
	request := struct {
		Provinsi string `json:"provinsi"`
		Kabkota  string `json:"kabkota"`
		Bulan    int    `json:"bulan"`
		Tahun    int    `json:"tahun"`
	}{location.Provinsi, location.Kabkota, month, year}

	var envelope upstream.Envelope[MonthlySchedule]
	if err := source.api.PostJSON(ctx, "shalat", request, &envelope); err != nil {
		return nil, fmt.Errorf("prayer: schedule for %s %04d-%02d: %w", location.Key(), year, month, err)
	}

	return &envelope.Data, nil
}
