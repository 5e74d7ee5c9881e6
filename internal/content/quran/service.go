// Copyright (c) 2026 Harian Muslim. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package quran

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/taibuivan/harianmuslim/internal/platform/apperr"
	"github.com/taibuivan/harianmuslim/internal/platform/cache"
	"github.com/taibuivan/harianmuslim/internal/platform/constants"
	"github.com/taibuivan/harianmuslim/internal/platform/upstream"
	"github.com/taibuivan/harianmuslim/internal/platform/validate"
)

// detailFetchLimit bounds concurrent surah loads while building one page.
const detailFetchLimit = 4

// Content is the locally available data, typically read from snapshot files.
// Any part may be empty; the live [Source] fills the gaps.
type Content struct {
	Surahs  []Surah
	Details []SurahDetail
	Pages   PageIndex
}

// # Service Layer

// Service answers Quran reading queries.
type Service struct {
	source Source
	cache  cache.Store
	ttl    time.Duration
	logger *slog.Logger

	surahs []Surah
	pages  PageIndex

	mu      sync.RWMutex
	details map[int]*SurahDetail
	flight  singleflight.Group
}

// NewService creates a service over the local content with source as fallback.
// ttl is how long live responses stay in the shared cache.
func NewService(source Source, content Content, store cache.Store, ttl time.Duration, logger *slog.Logger) *Service {
	details := make(map[int]*SurahDetail, len(content.Details))
	for i := range content.Details {
		detail := content.Details[i]
		details[detail.Nomor] = &detail
	}

	surahs := append([]Surah(nil), content.Surahs...)
	sort.Slice(surahs, func(i, j int) bool { return surahs[i].Nomor < surahs[j].Nomor })

	return &Service{
		source:  source,
		cache:   store,
		ttl:     ttl,
		logger:  logger,
		surahs:  surahs,
		pages:   content.Pages,
		details: details,
	}
}

// ListSurahs returns every surah ordered by number.
func (service *Service) ListSurahs(ctx context.Context) ([]Surah, error) {
	if len(service.surahs) > 0 {
		return service.surahs, nil
	}

	surahs, err := cached(ctx, service, "surahs", func(ctx context.Context) ([]Surah, error) {
		surahs, err := service.source.Surahs(ctx)
		if err != nil {
			return nil, err
		}
		sort.Slice(surahs, func(i, j int) bool { return surahs[i].Nomor < surahs[j].Nomor })
		return surahs, nil
	})
	if err != nil {
		return nil, apperr.BadGateway("Surah list", err)
	}

	return surahs, nil
}

/*
GetSurah returns a surah with every verse.

Concurrent requests for the same uncached surah share one upstream call, and
the result is kept in process memory for the life of the service.

Parameters:
  - ctx: context.Context
  - number: int (1..114)

Returns:
  - *SurahDetail: The surah and its verses
  - error: Validation (400), unknown upstream surah (404) or upstream failure (502)
*/
func (service *Service) GetSurah(ctx context.Context, number int) (*SurahDetail, error) {
	if err := new(validate.Validator).Range("number", number, 1, SurahCount).Err(); err != nil {
		return nil, err
	}

	service.mu.RLock()
	detail, ok := service.details[number]
	service.mu.RUnlock()
	if ok {
		return detail, nil
	}

	result, err, _ := service.flight.Do("surah:"+strconv.Itoa(number), func() (interface{}, error) {
		return service.source.SurahDetail(context.WithoutCancel(ctx), number)
	})
	if upstream.IsNotFound(err) {
		return nil, apperr.NotFound("Surah")
	}
	if err != nil {
		return nil, apperr.BadGateway("Surah", err)
	}

	detail = result.(*SurahDetail)

	service.mu.Lock()
	service.details[number] = detail
	service.mu.Unlock()

	return detail, nil
}

// SurahPages returns the sorted, distinct mushaf pages a surah is printed on.
func (service *Service) SurahPages(ctx context.Context, number int) ([]int, error) {
	if err := new(validate.Validator).Range("number", number, 1, SurahCount).Err(); err != nil {
		return nil, err
	}

	// 1. Snapshot index covers every page
	if len(service.pages) > 0 {
		var verses []VerseIndex
		for _, pageVerses := range service.pages {
			for _, verse := range pageVerses {
				if chapter, ok := verse.Chapter(); ok && chapter == number {
					verses = append(verses, verse)
				}
			}
		}
		return distinctPages(verses), nil
	}

	// 2. Live chapter index
	pages, err := cached(ctx, service, "chapter-pages:"+strconv.Itoa(number), func(ctx context.Context) ([]int, error) {
		verses, err := service.source.ChapterVerses(ctx, number)
		if err != nil {
			return nil, err
		}
		return distinctPages(verses), nil
	})
	if err != nil {
		return nil, apperr.BadGateway("Surah pages", err)
	}

	return pages, nil
}

/*
GetPage assembles one mushaf page.

# Flow
 1. Read the page's verse index (snapshot or quran.com).
 2. Load every surah that appears on the page.
 3. Resolve each indexed verse to its text; verses that cannot be resolved are dropped.

An empty index yields an empty page with juz 0.
*/
func (service *Service) GetPage(ctx context.Context, number int) (*Page, error) {
	if err := new(validate.Validator).Range("number", number, 1, PageCount).Err(); err != nil {
		return nil, err
	}

	// 1. Index
	index, err := service.pageVerses(ctx, number)
	if err != nil {
		return nil, err
	}

	page := &Page{
		PageNumber: number,
		Verses:     []PageAyat{},
		Meta:       PageMeta{Surahs: []SurahRef{}},
	}
	if len(index) == 0 {
		return page, nil
	}
	page.Meta.Juz = index[0].JuzNumber

	// 2. Surah content, loaded concurrently
	chapters := distinctChapters(index)
	details := make([]*SurahDetail, len(chapters))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(detailFetchLimit)
	for i, chapter := range chapters {
		i, chapter := i, chapter
		group.Go(func() error {
			detail, err := service.GetSurah(groupCtx, chapter)
			if err != nil {
				return err
			}
			details[i] = detail
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	byNumber := make(map[int]*SurahDetail, len(details))
	for i, detail := range details {
		byNumber[chapters[i]] = detail
		page.Meta.Surahs = append(page.Meta.Surahs, SurahRef{Name: displayName(detail, chapters[i]), Number: chapters[i]})
	}

	// 3. Resolve verses
	for _, verse := range index {
		chapter, ok := verse.Chapter()
		if !ok {
			continue
		}

		detail, ok := byNumber[chapter]
		if !ok {
			continue
		}

		ayat, ok := detail.Verse(verse.VerseNumber)
		if !ok {
			continue
		}

		pageNumber := verse.PageNumber
		if pageNumber == 0 {
			pageNumber = number
		}

		page.Verses = append(page.Verses, PageAyat{
			ChapterID:     chapter,
			VerseNumber:   verse.VerseNumber,
			VerseKey:      verse.VerseKey,
			PageNumber:    pageNumber,
			JuzNumber:     verse.JuzNumber,
			TeksArab:      ayat.TeksArab,
			TeksLatin:     ayat.TeksLatin,
			TeksIndonesia: ayat.TeksIndonesia,
			Audio:         ayat.Audio,
		})
	}

	return page, nil
}

func (service *Service) pageVerses(ctx context.Context, number int) ([]VerseIndex, error) {
	if verses, ok := service.pages[number]; ok {
		return verses, nil
	}

	verses, err := cached(ctx, service, "page:"+strconv.Itoa(number), func(ctx context.Context) ([]VerseIndex, error) {
		return service.source.PageVerses(ctx, number)
	})
	if err != nil {
		return nil, apperr.BadGateway("Page index", err)
	}

	return verses, nil
}

// # Helpers

// cached reads key from the shared cache or loads it once, coalescing concurrent loads.
func cached[T any](ctx context.Context, service *Service, key string, load func(context.Context) (T, error)) (T, error) {
	key = constants.CachePrefixQuran + key

	var value T
	switch err := cache.GetJSON(ctx, service.cache, key, &value); {
	case err == nil:
		return value, nil
	case !errors.Is(err, cache.ErrMiss):
		service.logger.WarnContext(ctx, "quran_cache_read_failed", slog.String("key", key), slog.String("error", err.Error()))
	}

	result, err, _ := service.flight.Do(key, func() (interface{}, error) {
		return load(context.WithoutCancel(ctx))
	})
	if err != nil {
		return value, err
	}
	value = result.(T)

	if err := cache.SetJSON(ctx, service.cache, key, value, service.ttl); err != nil {
		service.logger.WarnContext(ctx, "quran_cache_write_failed", slog.String("key", key), slog.String("error", err.Error()))
	}

	return value, nil
}

func distinctChapters(verses []VerseIndex) []int {
	seen := make(map[int]struct{})
	chapters := make([]int, 0)

	for _, verse := range verses {
		chapter, ok := verse.Chapter()
		if !ok {
			continue
		}
		if _, dup := seen[chapter]; dup {
			continue
		}
		seen[chapter] = struct{}{}
		chapters = append(chapters, chapter)
	}

	sort.Ints(chapters)
	return chapters
}

func distinctPages(verses []VerseIndex) []int {
	seen := make(map[int]struct{})
	pages := make([]int, 0)

	for _, verse := range verses {
		if verse.PageNumber == 0 {
			continue
		}
		if _, dup := seen[verse.PageNumber]; dup {
			continue
		}
		seen[verse.PageNumber] = struct{}{}
		pages = append(pages, verse.PageNumber)
	}

	sort.Ints(pages)
	return pages
}

func displayName(detail *SurahDetail, number int) string {
	switch {
	case detail.NamaLatin != "":
		return detail.NamaLatin
	case detail.Nama != "":
		return detail.Nama
	default:
		return "Surah " + strconv.Itoa(number)
	}
}
