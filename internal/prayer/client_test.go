// Copyright (c) 2026 Harian Muslim. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package prayer_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/harianmuslim/internal/platform/upstream"
	"github.com/taibuivan/harianmuslim/internal/prayer"
)

func TestEquranSource(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		switch request.URL.Path {
		case "/shalat/provinsi":
			_, _ = writer.Write([]byte(`{"code":200,"data":["DKI Jakarta","Jawa Barat"]}`))

		case "/shalat/kabkota":
			var body map[string]string
			require.NoError(t, json.NewDecoder(request.Body).Decode(&body))
			assert.Equal(t, "Jawa Barat", body["provinsi"])
			_, _ = writer.Write([]byte(`{"code":200,"data":["Kab. Bogor","Kota Bandung"]}`))

		case "/shalat":
			var body map[string]any
			require.NoError(t, json.NewDecoder(request.Body).Decode(&body))
			assert.Equal(t, "Kota Bandung", body["kabkota"])
			assert.EqualValues(t, 3, body["bulan"])
			assert.EqualValues(t, 2026, body["tahun"])
			_, _ = writer.Write([]byte(`{"code":200,"data":{"provinsi":"Jawa Barat","kabkota":"Kota Bandung","bulan":3,"tahun":2026,"bulan_nama":"Maret",
				"jadwal":[{"tanggal":1,"tanggal_lengkap":"2026-03-01","hari":"Minggu","imsak":"04:21","subuh":"04:31","terbit":"05:44","dhuha":"06:12","dzuhur":"11:58","ashar":"15:14","maghrib":"18:07","isya":"19:16"}]}}`))

		default:
			writer.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	api, err := upstream.New(upstream.Config{BaseURL: server.URL})
	require.NoError(t, err)
	source := prayer.NewEquranSource(api)
	ctx := context.Background()

	provinces, err := source.Provinces(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"DKI Jakarta", "Jawa Barat"}, provinces)

	regencies, err := source.Regencies(ctx, "Jawa Barat")
	require.NoError(t, err)
	assert.Equal(t, []string{"Kab. Bogor", "Kota Bandung"}, regencies)

	schedule, err := source.MonthlySchedule(ctx, prayer.Location{Kabkota: "Kota Bandung", Provinsi: "Jawa Barat"}, 2026, 3)
	require.NoError(t, err)
	assert.Equal(t, "Maret", schedule.BulanNama)
	require.Len(t, schedule.Jadwal, 1)
	assert.Equal(t, "04:31", schedule.Jadwal[0].Subuh)
	assert.Equal(t, "2026-03-01", schedule.Jadwal[0].TanggalLengkap)
}
