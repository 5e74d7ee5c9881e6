// Copyright (c) 2026 Harian Muslim. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package location_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/harianmuslim/internal/location"
	"github.com/taibuivan/harianmuslim/internal/platform/apperr"
	"github.com/taibuivan/harianmuslim/internal/platform/upstream"
	"github.com/taibuivan/harianmuslim/internal/prayer"
)

type staticCatalog []prayer.LocationOption

func (catalog staticCatalog) Locations(context.Context) ([]prayer.LocationOption, error) {
	return catalog, nil
}

type stubGeocoder struct {
	name string
	err  error
}

func (geocoder stubGeocoder) ReverseName(context.Context, float64, float64) (string, error) {
	return geocoder.name, geocoder.err
}

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestNominatimGeocoder_ReverseName(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    string
		wantErr bool
	}{
		{"city_first", `{"address":{"city":"Jakarta Selatan","state":"DKI Jakarta"}}`, "Jakarta Selatan", false},
		{"county_when_no_city", `{"address":{"county":"Bogor","village":"Cibinong","state":"Jawa Barat"}}`, "Bogor", false},
		{"state_as_last_resort", `{"address":{"state":"Bali"}}`, "Bali", false},
		{"no_address", `{"error":"Unable to geocode"}`, "", false},
		{"invalid_json", `<html>`, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				assert.Equal(t, "/reverse", request.URL.Path)
				assert.Equal(t, "jsonv2", request.URL.Query().Get("format"))
				assert.Equal(t, "id", request.URL.Query().Get("accept-language"))
				assert.Equal(t, "-6.2", request.URL.Query().Get("lat"))
				_, _ = writer.Write([]byte(tt.body))
			}))
			defer server.Close()

			api, err := upstream.New(upstream.Config{BaseURL: server.URL})
			require.NoError(t, err)

			name, err := location.NewNominatimGeocoder(api).ReverseName(context.Background(), -6.2, 106.8)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, name)
		})
	}
}

func TestService_Resolve(t *testing.T) {
	catalog := staticCatalog(options("Kota Jakarta Selatan", "Kota Jakarta Pusat"))

	t.Run("matched", func(t *testing.T) {
		service := location.NewService(catalog, stubGeocoder{name: "Jakarta Selatan"}, discard)

		resolution, err := service.Resolve(context.Background(), -6.26, 106.81)
		require.NoError(t, err)
		assert.Equal(t, "Jakarta Selatan", resolution.Query)
		assert.Equal(t, "Kota Jakarta Selatan", resolution.Location.Kabkota)
	})

	t.Run("out_of_range", func(t *testing.T) {
		service := location.NewService(catalog, stubGeocoder{}, discard)
		_, err := service.Resolve(context.Background(), 91, 0)
		assert.Equal(t, http.StatusBadRequest, apperr.As(err).HTTPStatus)
	})

	t.Run("geocoder_down", func(t *testing.T) {
		service := location.NewService(catalog, stubGeocoder{err: errors.New("timeout")}, discard)
		_, err := service.Resolve(context.Background(), -6.2, 106.8)
		assert.Equal(t, http.StatusBadGateway, apperr.As(err).HTTPStatus)
	})

	t.Run("no_match", func(t *testing.T) {
		service := location.NewService(catalog, stubGeocoder{name: "Sydney"}, discard)
		_, err := service.Resolve(context.Background(), -33.8, 151.2)
		assert.Equal(t, http.StatusNotFound, apperr.As(err).HTTPStatus)
	})
}

func TestHandler_Match(t *testing.T) {
	service := location.NewService(staticCatalog(options("Kota Bandung")), stubGeocoder{}, discard)
	router := location.NewHandler(service).Routes()

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/match?name=Bandung", nil))
	require.Equal(t, http.StatusOK, recorder.Code)

	var body struct {
		Data location.Resolution `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "Kota Bandung", body.Data.Location.Kabkota)

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/resolve?lat=abc&lon=1", nil))
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}
