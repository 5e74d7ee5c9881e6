// Copyright (c) 2026 Harian Muslim. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package wisdom

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/harianmuslim/internal/prayer"
)

func TestForDate_StableWithinWIBDay(t *testing.T) {
	morning := time.Date(2026, 3, 10, 0, 5, 0, 0, prayer.WIB)
	night := time.Date(2026, 3, 10, 23, 55, 0, 0, prayer.WIB)

	assert.Equal(t, ForDate(morning), ForDate(night))

	// 2026-03-09 20:00 UTC is already 2026-03-10 in WIB.
	assert.Equal(t, ForDate(morning), ForDate(time.Date(2026, 3, 9, 20, 0, 0, 0, time.UTC)))
}

func TestForDate_RotatesThroughEveryQuote(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, prayer.WIB)

	seen := make(map[string]struct{})
	for day := 0; day < len(Quotes); day++ {
		seen[ForDate(start.AddDate(0, 0, day)).Text] = struct{}{}
	}
	assert.Len(t, seen, len(Quotes))

	assert.NotEqual(t, ForDate(start), ForDate(start.AddDate(0, 0, 1)))
}

func TestHandler_Today(t *testing.T) {
	handler := NewHandler()
	handler.now = func() time.Time { return time.Date(2026, 3, 10, 9, 0, 0, 0, prayer.WIB) }

	recorder := httptest.NewRecorder()
	handler.Routes().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/today", nil))
	require.Equal(t, http.StatusOK, recorder.Code)

	var body struct {
		Data Quote `json:"data"`
	}
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&body))
	assert.Equal(t, ForDate(handler.now()), body.Data)
}
