// Copyright (c) 2026 Harian Muslim. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package snapshot_test

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/harianmuslim/internal/content/doa"
	"github.com/taibuivan/harianmuslim/internal/content/quran"
	"github.com/taibuivan/harianmuslim/internal/content/snapshot"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestLoad_MissingDirectory(t *testing.T) {
	loaded, err := snapshot.Load(filepath.Join(t.TempDir(), "absent"), discard)
	require.NoError(t, err)

	assert.Empty(t, loaded.Surahs)
	assert.Empty(t, loaded.Doa)
	assert.Nil(t, loaded.Pages)
}

func TestWriteThenLoad(t *testing.T) {
	dir := t.TempDir()

	index := quran.PageIndex{
		1:   {{ID: 1, VerseNumber: 1, VerseKey: "1:1", ChapterID: 1, PageNumber: 1, JuzNumber: 1}},
		604: {{ID: 6236, VerseNumber: 6, VerseKey: "114:6", ChapterID: 114, PageNumber: 604, JuzNumber: 30}},
	}

	require.NoError(t, snapshot.Write(dir, snapshot.FileSurahList, []quran.Surah{{Nomor: 1, NamaLatin: "Al-Fatihah"}}))
	require.NoError(t, snapshot.Write(dir, snapshot.FileDoa, []doa.Doa{{ID: 1, Nama: "Doa sebelum tidur"}}))
	require.NoError(t, snapshot.Write(dir, snapshot.FilePageIndex, snapshot.NewPageIndexFile(index)))

	loaded, err := snapshot.Load(dir, discard)
	require.NoError(t, err)

	assert.Equal(t, "Al-Fatihah", loaded.Surahs[0].NamaLatin)
	assert.Equal(t, "Doa sebelum tidur", loaded.Doa[0].Nama)
	assert.Equal(t, index, loaded.Pages)
	assert.Empty(t, loaded.SurahDetails)

	// No temporary files are left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestLoad_PageIndexFormat(t *testing.T) {
	dir := t.TempDir()
	raw := `{"pages":{"2":[{"id":8,"verse_number":1,"verse_key":"2:1","chapter_id":2,"page_number":2,"juz_number":1}]}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, snapshot.FilePageIndex), []byte(raw), 0o644))

	loaded, err := snapshot.Load(dir, discard)
	require.NoError(t, err)
	require.Contains(t, loaded.Pages, 2)
	assert.Equal(t, "2:1", loaded.Pages[2][0].VerseKey)
	assert.Len(t, loaded.Quran().Pages, 1)
}

func TestLoad_MalformedFile(t *testing.T) {
	for _, name := range []string{snapshot.FileSurahList, snapshot.FileSurahDetail, snapshot.FileDoa, snapshot.FilePageIndex} {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(`{not json`), 0o644))

			_, err := snapshot.Load(dir, discard)
			assert.ErrorContains(t, err, name)
		})
	}
}

func TestLoad_InvalidPageKey(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, snapshot.FilePageIndex), []byte(`{"pages":{"one":[]}}`), 0o644))

	_, err := snapshot.Load(dir, discard)
	assert.ErrorContains(t, err, "invalid page number")
}
