// Copyright (c) 2026 Harian Muslim. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package slug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/harianmuslim/pkg/slug"
)

func TestFrom(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Kota Jakarta", "kota-jakarta"},
		{"Kab. Tanah  Datar", "kab-tanah-datar"},
		{"  D.I. Yogyakarta ", "d-i-yogyakarta"},
		{"Kab. Pangkajene Dan Kepulauan", "kab-pangkajene-dan-kepulauan"},
		{"Café", "cafe"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, slug.From(tt.in))
		})
	}
}

func TestJoin(t *testing.T) {
	assert.Equal(t, "jawa-barat:kota-bandung:2026:03", slug.Join("Jawa Barat", "Kota Bandung", "2026", "03"))
}
