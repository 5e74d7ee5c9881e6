// Copyright (c) 2026 Harian Muslim. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pagination_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/harianmuslim/pkg/pagination"
)

func TestFromRequest_Clamps(t *testing.T) {
	params := pagination.FromRequest(httptest.NewRequest("GET", "/api/v1/doa?page=-2&limit=500", nil))
	assert.Equal(t, pagination.Params{Page: 1, Limit: pagination.DefaultLimit}, params)

	params = pagination.FromRequest(httptest.NewRequest("GET", "/api/v1/doa?page=3&limit=10", nil))
	assert.Equal(t, pagination.Params{Page: 3, Limit: 10}, params)
}

func TestWindow(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	page, meta := pagination.Window(items, pagination.Params{Page: 2, Limit: 2})
	assert.Equal(t, []int{3, 4}, page)
	assert.Equal(t, pagination.Meta{Page: 2, Limit: 2, Total: 5, TotalPages: 3}, meta)

	page, _ = pagination.Window(items, pagination.Params{Page: 3, Limit: 2})
	assert.Equal(t, []int{5}, page)

	page, _ = pagination.Window(items, pagination.Params{Page: 9, Limit: 2})
	assert.NotNil(t, page)
	assert.Empty(t, page)
}
