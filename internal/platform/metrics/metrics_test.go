// Copyright (c) 2026 Harian Muslim. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestInstrument_UsesRoutePattern(t *testing.T) {
	router := chi.NewRouter()
	router.Use(Instrument)
	router.Get("/api/v1/quran/page/{number}", func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusTeapot)
	})

	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/api/v1/quran/page/{number}", "418"))

	for _, path := range []string{"/api/v1/quran/page/1", "/api/v1/quran/page/2"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	after := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/api/v1/quran/page/{number}", "418"))
	assert.Equal(t, float64(2), after-before)
}

func TestRecordPushDelivery(t *testing.T) {
	before := testutil.ToFloat64(pushDeliveries.WithLabelValues("gone"))
	RecordPushDelivery("gone")
	assert.Equal(t, float64(1), testutil.ToFloat64(pushDeliveries.WithLabelValues("gone"))-before)
}

func TestHandler_ExposesRegistry(t *testing.T) {
	RecordUpstream("equran.id", "ok")

	recorder := httptest.NewRecorder()
	Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "harianmuslim_upstream_requests_total")
}
