// Copyright (c) 2026 Harian Muslim. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package prayer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/harianmuslim/internal/platform/cache"
)

type flakySource struct {
	fail  bool
	calls int
}

func (source *flakySource) Provinces(context.Context) ([]string, error) {
	source.calls++
	if source.fail {
		return nil, errors.New("timeout")
	}
	return []string{"Aceh"}, nil
}

func (source *flakySource) Regencies(context.Context, string) ([]string, error) {
	return []string{"Kota Banda Aceh"}, nil
}

func (source *flakySource) MonthlySchedule(context.Context, Location, int, int) (*MonthlySchedule, error) {
	return nil, errors.New("not used")
}

func TestLocations_ServesStaleAfterFailedRefresh(t *testing.T) {
	source := &flakySource{}
	clock := time.Date(2026, 3, 1, 8, 0, 0, 0, WIB)

	service := NewService(source, cache.NewMemory(), Options{LocationTTL: 12 * time.Hour}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	service.now = func() time.Time { return clock }

	first, err := service.Locations(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 1)

	// Past the TTL the list is refetched; a failure falls back to the old copy.
	clock = clock.Add(13 * time.Hour)
	source.fail = true

	stale, err := service.Locations(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, stale)
	assert.Equal(t, 2, source.calls)

	// A later successful refresh replaces it.
	source.fail = false
	_, err = service.Locations(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, source.calls)
}
