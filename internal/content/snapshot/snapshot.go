// Copyright (c) 2026 Harian Muslim. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package snapshot reads and writes the local copies of third-party content.

Snapshots are plain JSON files in one directory, produced offline by
cmd/snapshot so the API does not depend on upstream rate limits. Each file
mirrors the upstream payload verbatim:

  - quran-surah-list.json: array of surahs
  - quran-surah-detail.json: array of surahs with their "ayat"
  - doa.json: array of supplications
  - quran-page-index.json: {"pages": {"1": [verse index, ...], ...}}
*/
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/taibuivan/harianmuslim/internal/content/doa"
	"github.com/taibuivan/harianmuslim/internal/content/quran"
)

// File names inside the snapshot directory.
const (
	FileSurahList   = "quran-surah-list.json"
	FileSurahDetail = "quran-surah-detail.json"
	FileDoa         = "doa.json"
	FilePageIndex   = "quran-page-index.json"
)

// Snapshot is everything found in a snapshot directory.
type Snapshot struct {
	Surahs       []quran.Surah
	SurahDetails []quran.SurahDetail
	Doa          []doa.Doa
	Pages        quran.PageIndex
}

// Quran returns the Quran part as service content.
func (snapshot *Snapshot) Quran() quran.Content {
	return quran.Content{Surahs: snapshot.Surahs, Details: snapshot.SurahDetails, Pages: snapshot.Pages}
}

// PageIndexFile is the on-disk shape of [FilePageIndex].
type PageIndexFile struct {
	Pages map[string][]quran.VerseIndex `json:"pages"`
}

// NewPageIndexFile converts an index to its on-disk shape.
func NewPageIndexFile(index quran.PageIndex) PageIndexFile {
	file := PageIndexFile{Pages: make(map[string][]quran.VerseIndex, len(index))}
	for page, verses := range index {
		file.Pages[strconv.Itoa(page)] = verses
	}
	return file
}

/*
Load reads every snapshot file in dir.

A missing file (or a missing directory) leaves that section empty so callers
fall back to the live API. A file that exists but cannot be decoded is an
error.
*/
func Load(dir string, logger *slog.Logger) (*Snapshot, error) {
	snapshot := &Snapshot{}

	if err := readFile(dir, FileSurahList, &snapshot.Surahs); err != nil {
		return nil, err
	}
	if err := readFile(dir, FileSurahDetail, &snapshot.SurahDetails); err != nil {
		return nil, err
	}
	if err := readFile(dir, FileDoa, &snapshot.Doa); err != nil {
		return nil, err
	}

	var pageFile PageIndexFile
	if err := readFile(dir, FilePageIndex, &pageFile); err != nil {
		return nil, err
	}

	if len(pageFile.Pages) > 0 {
		snapshot.Pages = make(quran.PageIndex, len(pageFile.Pages))
		for key, verses := range pageFile.Pages {
			page, err := strconv.Atoi(key)
			if err != nil {
				return nil, fmt.Errorf("snapshot: %s: invalid page number %q", FilePageIndex, key)
			}
			snapshot.Pages[page] = verses
		}
	}

	logger.Info("snapshot_loaded",
		slog.String("dir", dir),
		slog.Int("surahs", len(snapshot.Surahs)),
		slog.Int("surah_details", len(snapshot.SurahDetails)),
		slog.Int("doa", len(snapshot.Doa)),
		slog.Int("pages", len(snapshot.Pages)),
	)

	return snapshot, nil
}

func readFile(dir, name string, target any) error {
	raw, err := os.ReadFile(filepath.Join(dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("snapshot: read %s: %w", name, err)
	}

	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("snapshot: decode %s: %w", name, err)
	}
	return nil
}

// Write stores value as indented JSON at dir/name.
//
// The file is written to a temporary sibling and renamed into place, so a
// reader never sees a partial snapshot.
func Write(dir, name string, value any) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("snapshot: create %s: %w", dir, err)
	}

	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("snapshot: encode %s: %w", name, err)
	}

	temp, err := os.CreateTemp(dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("snapshot: write %s: %w", name, err)
	}
	defer os.Remove(temp.Name())

	if _, err := temp.Write(payload); err != nil {
		temp.Close()
		return fmt.Errorf("snapshot: write %s: %w", name, err)
	}
	if err := temp.Close(); err != nil {
		return fmt.Errorf("snapshot: write %s: %w", name, err)
	}

	if err := os.Rename(temp.Name(), filepath.Join(dir, name)); err != nil {
		return fmt.Errorf("snapshot: write %s: %w", name, err)
	}
	return nil
}
