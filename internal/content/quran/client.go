// Copyright (c) 2026 Harian Muslim. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package quran

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/taibuivan/harianmuslim/internal/platform/upstream"
)

// indexFields keeps quran.com responses to what the page index needs.
var indexFields = []string{"chapter_id", "verse_key", "verse_number", "juz_number", "page_number"}

// versesPerRequest covers the longest surah (286 verses) in one call.
const versesPerRequest = 300

// Source is the live provider of Quran content and layout.
type Source interface {
	Surahs(ctx context.Context) ([]Surah, error)
	SurahDetail(ctx context.Context, number int) (*SurahDetail, error)
	PageVerses(ctx context.Context, page int) ([]VerseIndex, error)
	ChapterVerses(ctx context.Context, chapter int) ([]VerseIndex, error)
}

// LiveSource reads equran.id v2 for content and quran.com v4 for layout.
type LiveSource struct {
	equran   *upstream.Client
	quranCom *upstream.Client
}

// NewLiveSource creates a [Source] from clients bound to the two base URLs.
func NewLiveSource(equran, quranCom *upstream.Client) *LiveSource {
	return &LiveSource{equran: equran, quranCom: quranCom}
}

// Surahs lists every surah (GET surat).
func (source *LiveSource) Surahs(ctx context.Context) ([]Surah, error) {
	var envelope upstream.Envelope[[]Surah]
	if err := source.equran.GetJSON(ctx, "surat", nil, &envelope); err != nil {
		return nil, fmt.Errorf("quran: list surahs: %w", err)
	}
	return envelope.Data, nil
}

// SurahDetail returns a surah with its verses (GET surat/{n}).
func (source *LiveSource) SurahDetail(ctx context.Context, number int) (*SurahDetail, error) {
	var envelope upstream.Envelope[SurahDetail]
	if err := source.equran.GetJSON(ctx, "surat/"+strconv.Itoa(number), nil, &envelope); err != nil {
		return nil, fmt.Errorf("quran: surah %d: %w", number, err)
	}
	return &envelope.Data, nil
}

// PageVerses returns the verse index of a mushaf page (GET verses/by_page/{n}).
func (source *LiveSource) PageVerses(ctx context.Context, page int) ([]VerseIndex, error) {
	verses, err := source.verses(ctx, "verses/by_page/"+strconv.Itoa(page))
	if err != nil {
		return nil, fmt.Errorf("quran: page %d index: %w", page, err)
	}
	return verses, nil
}

// ChapterVerses returns the verse index of a surah (GET verses/by_chapter/{n}).
func (source *LiveSource) ChapterVerses(ctx context.Context, chapter int) ([]VerseIndex, error) {
	verses, err := source.verses(ctx, "verses/by_chapter/"+strconv.Itoa(chapter))
	if err != nil {
		return nil, fmt.Errorf("quran: chapter %d index: %w", chapter, err)
	}
	return verses, nil
}

func (source *LiveSource) verses(ctx context.Context, path string) ([]VerseIndex, error) {
	query := url.Values{}
	query.Set("fields", strings.Join(indexFields, ","))
	query.Set("per_page", strconv.Itoa(versesPerRequest))

	var response struct {
		Verses []VerseIndex `json:"verses"`
	}
	if err := source.quranCom.GetJSON(ctx, path, query, &response); err != nil {
		return nil, err
	}
	return response.Verses, nil
}
