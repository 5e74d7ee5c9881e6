// Copyright (c) 2026 Harian Muslim. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package quran serves surah text and mushaf pages.

Surah content comes from equran.id; the page layout (which verses sit on
which of the 604 mushaf pages) comes from quran.com. Both are read from the
local snapshot when it is present and from the live APIs otherwise.
*/
package quran

import (
	"strconv"
	"strings"
)

// Bounds of the standard Madani mushaf.
const (
	SurahCount = 114
	PageCount  = 604
)

// # Content Types (equran.id)

// Surah is one chapter without its verses.
type Surah struct {
	Nomor       int               `json:"nomor"`
	Nama        string            `json:"nama"`
	NamaLatin   string            `json:"namaLatin"`
	JumlahAyat  int               `json:"jumlahAyat"`
	TempatTurun string            `json:"tempatTurun"`
	Arti        string            `json:"arti"`
	Deskripsi   string            `json:"deskripsi"`
	AudioFull   map[string]string `json:"audioFull"`
}

// Ayat is one verse with its transliteration and translation.
type Ayat struct {
	NomorAyat     int               `json:"nomorAyat"`
	TeksArab      string            `json:"teksArab"`
	TeksLatin     string            `json:"teksLatin"`
	TeksIndonesia string            `json:"teksIndonesia"`
	Audio         map[string]string `json:"audio"`
}

// SurahDetail is a chapter with all of its verses.
type SurahDetail struct {
	Surah
	Ayat []Ayat `json:"ayat"`
}

// Verse returns the verse with the given number.
func (detail *SurahDetail) Verse(number int) (Ayat, bool) {
	// Verses are numbered from 1 and stored in order.
	if number >= 1 && number <= len(detail.Ayat) && detail.Ayat[number-1].NomorAyat == number {
		return detail.Ayat[number-1], true
	}

	for _, ayat := range detail.Ayat {
		if ayat.NomorAyat == number {
			return ayat, true
		}
	}
	return Ayat{}, false
}

// # Layout Types (quran.com)

// VerseIndex places one verse on a mushaf page.
type VerseIndex struct {
	ID          int    `json:"id"`
	VerseNumber int    `json:"verse_number"`
	VerseKey    string `json:"verse_key"`
	ChapterID   int    `json:"chapter_id,omitempty"`
	PageNumber  int    `json:"page_number"`
	JuzNumber   int    `json:"juz_number"`
}

// Chapter returns the surah number, falling back to the "2:255" verse key prefix.
func (index VerseIndex) Chapter() (int, bool) {
	if index.ChapterID > 0 {
		return index.ChapterID, index.ChapterID <= SurahCount
	}

	prefix, _, found := strings.Cut(index.VerseKey, ":")
	if !found {
		return 0, false
	}

	chapter, err := strconv.Atoi(prefix)
	if err != nil || chapter < 1 || chapter > SurahCount {
		return 0, false
	}
	return chapter, true
}

// PageIndex maps a page number to the verses printed on it.
type PageIndex map[int][]VerseIndex

// # Page Types

// PageAyat is one verse resolved for display on a page.
type PageAyat struct {
	ChapterID     int               `json:"chapterId"`
	VerseNumber   int               `json:"verseNumber"`
	VerseKey      string            `json:"verseKey"`
	PageNumber    int               `json:"pageNumber"`
	JuzNumber     int               `json:"juzNumber"`
	TeksArab      string            `json:"teksArab"`
	TeksLatin     string            `json:"teksLatin"`
	TeksIndonesia string            `json:"teksIndonesia"`
	Audio         map[string]string `json:"audio"`
}

// SurahRef names a surah appearing on a page.
type SurahRef struct {
	Name   string `json:"name"`
	Number int    `json:"number"`
}

// PageMeta summarises a page.
type PageMeta struct {
	Juz    int        `json:"juz"`
	Surahs []SurahRef `json:"surahs"`
}

// Page is one mushaf page.
type Page struct {
	PageNumber int        `json:"pageNumber"`
	ImageURL   *string    `json:"imageUrl"`
	Verses     []PageAyat `json:"verses"`
	Meta       PageMeta   `json:"meta"`
}
