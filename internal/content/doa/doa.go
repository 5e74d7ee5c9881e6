// Copyright (c) 2026 Harian Muslim. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package doa serves the collection of daily supplications.
package doa

import (
	"context"
	"fmt"

	"github.com/taibuivan/harianmuslim/internal/platform/upstream"
)

// Doa is one supplication as published by equran.id.
type Doa struct {
	ID      int      `json:"id"`
	Grup    string   `json:"grup"`
	Nama    string   `json:"nama"`
	Ar      string   `json:"ar"`
	Tr      string   `json:"tr"`
	Idn     string   `json:"idn"`
	Tentang string   `json:"tentang"`
	Tag     []string `json:"tag"`
}

// Filter narrows a listing. Empty fields match everything.
type Filter struct {
	Grup string
	Tags []string
}

// Source is the live provider of supplications.
type Source interface {
	All(ctx context.Context) ([]Doa, error)
}

// EquranSource reads the equran.id "doa" endpoint.
type EquranSource struct {
	api *upstream.Client
}

// NewEquranSource creates a [Source] on a client bound to the v1 base URL.
func NewEquranSource(api *upstream.Client) *EquranSource {
	return &EquranSource{api: api}
}

// All returns every supplication (GET doa).
func (source *EquranSource) All(ctx context.Context) ([]Doa, error) {
	var envelope upstream.Envelope[[]Doa]
	if err := source.api.GetJSON(ctx, "doa", nil, &envelope); err != nil {
		return nil, fmt.Errorf("doa: list: %w", err)
	}
	return envelope.Data, nil
}
