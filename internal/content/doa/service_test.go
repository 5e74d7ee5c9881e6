// Copyright (c) 2026 Harian Muslim. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package doa_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/harianmuslim/internal/content/doa"
	"github.com/taibuivan/harianmuslim/internal/platform/apperr"
	"github.com/taibuivan/harianmuslim/internal/platform/cache"
	"github.com/taibuivan/harianmuslim/internal/platform/upstream"
	"github.com/taibuivan/harianmuslim/pkg/pagination"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

var collection = []doa.Doa{
	{ID: 1, Grup: "Doa Harian", Nama: "Doa sebelum tidur", Tag: []string{"tidur", "malam"}},
	{ID: 2, Grup: "Doa Harian", Nama: "Doa bangun tidur", Tag: []string{"tidur", "pagi"}},
	{ID: 3, Grup: "Doa Perjalanan", Nama: "Doa naik kendaraan", Tag: []string{"safar"}},
}

type countingSource struct {
	calls atomic.Int32
	err   error
}

func (source *countingSource) All(context.Context) ([]doa.Doa, error) {
	source.calls.Add(1)
	return collection, source.err
}

func TestService_List(t *testing.T) {
	service := doa.NewService(&countingSource{}, collection, cache.NewMemory(), time.Hour, discard)
	ctx := context.Background()

	tests := []struct {
		name   string
		filter doa.Filter
		params pagination.Params
		want   []int
		total  int
	}{
		{"all", doa.Filter{}, pagination.Params{Page: 1, Limit: 20}, []int{1, 2, 3}, 3},
		{"grup_ignores_case", doa.Filter{Grup: "doa harian"}, pagination.Params{Page: 1, Limit: 20}, []int{1, 2}, 2},
		{"tag", doa.Filter{Tags: []string{"Safar"}}, pagination.Params{Page: 1, Limit: 20}, []int{3}, 1},
		{"any_tag", doa.Filter{Tags: []string{"pagi", "safar"}}, pagination.Params{Page: 1, Limit: 20}, []int{2, 3}, 2},
		{"grup_and_tag", doa.Filter{Grup: "Doa Harian", Tags: []string{"pagi"}}, pagination.Params{Page: 1, Limit: 20}, []int{2}, 1},
		{"second_page", doa.Filter{}, pagination.Params{Page: 2, Limit: 2}, []int{3}, 3},
		{"past_end", doa.Filter{}, pagination.Params{Page: 5, Limit: 2}, []int{}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, meta, err := service.List(ctx, tt.filter, tt.params)
			require.NoError(t, err)

			ids := make([]int, 0, len(items))
			for _, item := range items {
				ids = append(ids, item.ID)
			}
			assert.Equal(t, tt.want, ids)
			assert.Equal(t, tt.total, meta.Total)
		})
	}
}

func TestService_Get(t *testing.T) {
	service := doa.NewService(&countingSource{}, collection, cache.NewMemory(), time.Hour, discard)

	item, err := service.Get(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "Doa naik kendaraan", item.Nama)

	_, err = service.Get(context.Background(), 99)
	assert.Equal(t, http.StatusNotFound, apperr.As(err).HTTPStatus)
}

func TestService_LiveFallbackIsCached(t *testing.T) {
	source := &countingSource{}
	service := doa.NewService(source, nil, cache.NewMemory(), time.Hour, discard)

	for i := 0; i < 3; i++ {
		_, _, err := service.List(context.Background(), doa.Filter{}, pagination.Params{Page: 1, Limit: 20})
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), source.calls.Load())

	groups, err := service.Groups(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Doa Harian", "Doa Perjalanan"}, groups)
}

func TestService_LiveFailure(t *testing.T) {
	service := doa.NewService(&countingSource{err: errors.New("timeout")}, nil, cache.NewMemory(), time.Hour, discard)

	_, _, err := service.List(context.Background(), doa.Filter{}, pagination.Params{Page: 1, Limit: 20})
	assert.Equal(t, http.StatusBadGateway, apperr.As(err).HTTPStatus)
}

func TestEquranSource(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/doa", request.URL.Path)
		_, _ = writer.Write([]byte(`{"status":"success","data":[{"id":1,"grup":"Doa Harian","nama":"Doa sebelum tidur","ar":"بِاسْمِكَ","tr":"bismika","idn":"Dengan nama-Mu","tentang":"HR. Bukhari","tag":["tidur"]}]}`))
	}))
	defer server.Close()

	api, err := upstream.New(upstream.Config{BaseURL: server.URL})
	require.NoError(t, err)

	items, err := doa.NewEquranSource(api).All(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, []string{"tidur"}, items[0].Tag)
}

func TestHandler(t *testing.T) {
	handler := doa.NewHandler(doa.NewService(&countingSource{}, collection, cache.NewMemory(), time.Hour, discard))

	recorder := httptest.NewRecorder()
	handler.Routes().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/?grup=Doa%20Harian&limit=1", nil))
	require.Equal(t, http.StatusOK, recorder.Code)

	var body struct {
		Data []doa.Doa       `json:"data"`
		Meta pagination.Meta `json:"meta"`
	}
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&body))
	assert.Len(t, body.Data, 1)
	assert.Equal(t, pagination.Meta{Page: 1, Limit: 1, Total: 2, TotalPages: 2}, body.Meta)

	recorder = httptest.NewRecorder()
	handler.Routes().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/42", nil))
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}
