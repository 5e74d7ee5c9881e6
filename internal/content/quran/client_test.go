// Copyright (c) 2026 Harian Muslim. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package quran_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/harianmuslim/internal/content/quran"
	"github.com/taibuivan/harianmuslim/internal/platform/upstream"
)

func TestLiveSource(t *testing.T) {
	equran := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		switch request.URL.Path {
		case "/surat":
			_, _ = writer.Write([]byte(`{"code":200,"data":[{"nomor":1,"nama":"الفاتحة","namaLatin":"Al-Fatihah","jumlahAyat":7,"tempatTurun":"Mekah","arti":"Pembukaan"}]}`))
		case "/surat/1":
			_, _ = writer.Write([]byte(`{"code":200,"data":{"nomor":1,"namaLatin":"Al-Fatihah","jumlahAyat":7,
				"ayat":[{"nomorAyat":1,"teksArab":"بِسْمِ","teksLatin":"bismillāhir","teksIndonesia":"Dengan nama Allah","audio":{"01":"https://cdn.example/1.mp3"}}],
				"suratSelanjutnya":{"nomor":2},"suratSebelumnya":false}}`))
		default:
			writer.WriteHeader(http.StatusNotFound)
		}
	}))
	defer equran.Close()

	quranCom := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "chapter_id,verse_key,verse_number,juz_number,page_number", request.URL.Query().Get("fields"))
		assert.Equal(t, "300", request.URL.Query().Get("per_page"))

		switch request.URL.Path {
		case "/verses/by_page/1", "/verses/by_chapter/1":
			_, _ = writer.Write([]byte(`{"verses":[{"id":1,"verse_number":1,"verse_key":"1:1","chapter_id":1,"page_number":1,"juz_number":1}],
				"pagination":{"per_page":300,"current_page":1,"total_pages":1,"total_records":1}}`))
		default:
			writer.WriteHeader(http.StatusNotFound)
		}
	}))
	defer quranCom.Close()

	equranClient, err := upstream.New(upstream.Config{BaseURL: equran.URL})
	require.NoError(t, err)
	quranComClient, err := upstream.New(upstream.Config{BaseURL: quranCom.URL})
	require.NoError(t, err)

	source := quran.NewLiveSource(equranClient, quranComClient)
	ctx := context.Background()

	surahs, err := source.Surahs(ctx)
	require.NoError(t, err)
	require.Len(t, surahs, 1)
	assert.Equal(t, "Al-Fatihah", surahs[0].NamaLatin)

	detail, err := source.SurahDetail(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 7, detail.JumlahAyat)
	require.Len(t, detail.Ayat, 1)
	assert.Equal(t, "Dengan nama Allah", detail.Ayat[0].TeksIndonesia)

	verses, err := source.PageVerses(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []quran.VerseIndex{{ID: 1, VerseNumber: 1, VerseKey: "1:1", ChapterID: 1, PageNumber: 1, JuzNumber: 1}}, verses)

	_, err = source.ChapterVerses(ctx, 1)
	require.NoError(t, err)

	_, err = source.SurahDetail(ctx, 115)
	assert.True(t, upstream.IsNotFound(err))
}

func TestVerseIndex_Chapter(t *testing.T) {
	tests := []struct {
		name  string
		index quran.VerseIndex
		want  int
		ok    bool
	}{
		{"chapter_id", quran.VerseIndex{ChapterID: 2, VerseKey: "3:1"}, 2, true},
		{"from_key", quran.VerseIndex{VerseKey: "2:255"}, 2, true},
		{"bad_key", quran.VerseIndex{VerseKey: "x:1"}, 0, false},
		{"no_separator", quran.VerseIndex{VerseKey: "255"}, 0, false},
		{"out_of_range", quran.VerseIndex{VerseKey: "115:1"}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chapter, ok := tt.index.Chapter()
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, chapter)
			}
		})
	}
}
