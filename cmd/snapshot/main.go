// Copyright (c) 2026 Harian Muslim. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command snapshot downloads the Quran and doa content into local JSON files.
//
// The API server reads these files at startup so reading pages do not depend
// on upstream availability or rate limits. Run it again whenever the upstream
// content changes.
//
// # Steps
//
//  1. Surah list (equran.id).
//  2. Surah details, 6 at a time.
//  3. Doa collection (equran.id).
//  4. Mushaf page index for all 604 pages (quran.com), 8 at a time.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"sync"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/taibuivan/harianmuslim/internal/content/doa"
	"github.com/taibuivan/harianmuslim/internal/content/quran"
	"github.com/taibuivan/harianmuslim/internal/content/snapshot"
	"github.com/taibuivan/harianmuslim/internal/platform/upstream"
)

const (
	detailWorkers = 6
	pageWorkers   = 8
)

// settings is the subset of the server configuration the generator needs.
type settings struct {
	Dir             string        `env:"SNAPSHOT_DIR"       envDefault:"./data/snapshots"`
	EquranBaseURL   string        `env:"EQURAN_BASE_URL"    envDefault:"https://equran.id/api"`
	EquranV2BaseURL string        `env:"EQURAN_V2_BASE_URL" envDefault:"https://equran.id/api/v2"`
	QuranComBaseURL string        `env:"QURAN_COM_BASE_URL" envDefault:"https://api.quran.com/api/v4"`
	Timeout         time.Duration `env:"UPSTREAM_TIMEOUT"   envDefault:"30s"`
	RPS             float64       `env:"UPSTREAM_RPS"       envDefault:"10"`
}

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With(slog.String("app", "harianmuslim-snapshot"))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, log); err != nil {
		log.Error("snapshot_failed", slog.Any("error", err))
		os.Exit(1)
	}
	log.Info("snapshot_completed")
}

func run(ctx context.Context, log *slog.Logger) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("read .env: %w", err)
	}

	var cfg settings
	if err := env.Parse(&cfg); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}

	source, doaSource, err := newSources(cfg)
	if err != nil {
		return err
	}

	// 1. Surah list
	log.Info("snapshot_fetch_surah_list")
	surahs, err := source.Surahs(ctx)
	if err != nil {
		return err
	}
	sort.Slice(surahs, func(i, j int) bool { return surahs[i].Nomor < surahs[j].Nomor })
	if err := snapshot.Write(cfg.Dir, snapshot.FileSurahList, surahs); err != nil {
		return err
	}
	log.Info("snapshot_saved", slog.String("file", snapshot.FileSurahList), slog.Int("items", len(surahs)))

	// 2. Surah details
	details, err := fetchDetails(ctx, log, source, surahs)
	if err != nil {
		return err
	}
	if err := snapshot.Write(cfg.Dir, snapshot.FileSurahDetail, details); err != nil {
		return err
	}
	log.Info("snapshot_saved", slog.String("file", snapshot.FileSurahDetail), slog.Int("items", len(details)))

	// 3. Doa
	log.Info("snapshot_fetch_doa")
	collection, err := doaSource.All(ctx)
	if err != nil {
		return err
	}
	if err := snapshot.Write(cfg.Dir, snapshot.FileDoa, collection); err != nil {
		return err
	}
	log.Info("snapshot_saved", slog.String("file", snapshot.FileDoa), slog.Int("items", len(collection)))

	// 4. Page index
	index, err := fetchPageIndex(ctx, log, source)
	if err != nil {
		return err
	}
	if err := snapshot.Write(cfg.Dir, snapshot.FilePageIndex, snapshot.NewPageIndexFile(index)); err != nil {
		return err
	}
	log.Info("snapshot_saved", slog.String("file", snapshot.FilePageIndex), slog.Int("items", len(index)))

	return nil
}

func newSources(cfg settings) (*quran.LiveSource, *doa.EquranSource, error) {
	equranV1, err := upstream.New(upstream.Config{BaseURL: cfg.EquranBaseURL, Timeout: cfg.Timeout, RPS: cfg.RPS})
	if err != nil {
		return nil, nil, err
	}
	equranV2, err := upstream.New(upstream.Config{BaseURL: cfg.EquranV2BaseURL, Timeout: cfg.Timeout, RPS: cfg.RPS})
	if err != nil {
		return nil, nil, err
	}
	quranCom, err := upstream.New(upstream.Config{BaseURL: cfg.QuranComBaseURL, Timeout: cfg.Timeout, RPS: cfg.RPS})
	if err != nil {
		return nil, nil, err
	}

	return quran.NewLiveSource(equranV2, quranCom), doa.NewEquranSource(equranV1), nil
}

// fetchDetails loads every surah with its verses, keeping list order.
func fetchDetails(ctx context.Context, log *slog.Logger, source quran.Source, surahs []quran.Surah) ([]quran.SurahDetail, error) {
	details := make([]quran.SurahDetail, len(surahs))

	var (
		mu   sync.Mutex
		done int
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(detailWorkers)

	for i, surah := range surahs {
		i, surah := i, surah
		group.Go(func() error {
			detail, err := source.SurahDetail(groupCtx, surah.Nomor)
			if err != nil {
				return err
			}
			details[i] = *detail

			mu.Lock()
			done++
			if done%10 == 0 || done == len(surahs) {
				log.Info("snapshot_progress", slog.String("step", "surah_details"), slog.Int("done", done), slog.Int("total", len(surahs)))
			}
			mu.Unlock()
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return details, nil
}

// fetchPageIndex loads the verse layout of every mushaf page.
func fetchPageIndex(ctx context.Context, log *slog.Logger, source quran.Source) (quran.PageIndex, error) {
	index := make(quran.PageIndex, quran.PageCount)

	var mu sync.Mutex

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(pageWorkers)

	for page := 1; page <= quran.PageCount; page++ {
		page := page
		group.Go(func() error {
			verses, err := source.PageVerses(groupCtx, page)
			if err != nil {
				return err
			}

			mu.Lock()
			index[page] = verses
			done := len(index)
			mu.Unlock()

			if done%50 == 0 || done == quran.PageCount {
				log.Info("snapshot_progress", slog.String("step", "page_index"), slog.Int("done", done), slog.Int("total", quran.PageCount))
			}
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return index, nil
}
