// Copyright (c) 2026 Harian Muslim. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package preference keeps the visitor's browser-local state: the chosen prayer
location, the last reading position and the colour theme.

Each value lives in its own cookie and is overwritten wholesale. There is no
versioning: a cookie that fails to decode or validate is ignored and the
default is used in its place.
*/
package preference

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/taibuivan/harianmuslim/internal/platform/constants"
	"github.com/taibuivan/harianmuslim/internal/prayer"
)

// Theme is the colour scheme of the site.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Valid reports whether the theme is one of the known values.
func (theme Theme) Valid() bool {
	return theme == ThemeLight || theme == ThemeDark
}

// ReadingType tells whether a reading position is a surah or a mushaf page.
type ReadingType string

const (
	ReadingSurah ReadingType = "surah"
	ReadingPage  ReadingType = "page"
)

// LastRead is the last viewed reading position.
type LastRead struct {
	Type  ReadingType `json:"type"`
	ID    int         `json:"id"`
	Label string      `json:"label"`
}

// Valid reports whether the position points at an existing surah or page.
func (lastRead LastRead) Valid() bool {
	switch lastRead.Type {
	case ReadingSurah:
		return lastRead.ID >= 1 && lastRead.ID <= 114
	case ReadingPage:
		return lastRead.ID >= 1 && lastRead.ID <= 604
	default:
		return false
	}
}

// Preferences is the decoded browser-local state.
type Preferences struct {
	Location prayer.Location `json:"location"`
	LastRead *LastRead       `json:"last_read"`
	Theme    Theme           `json:"theme"`
}

// DefaultLocation is used until the visitor picks a regency.
func DefaultLocation() prayer.Location {
	return prayer.Location{Kabkota: constants.DefaultKabkota, Provinsi: constants.DefaultProvinsi}
}

// # Cookie Store

// Cookies reads and writes preferences as cookies.
type Cookies struct {
	// Secure marks written cookies HTTPS-only.
	Secure bool
}

// Read decodes every preference cookie, substituting defaults for missing or malformed values.
func (cookies Cookies) Read(request *http.Request) Preferences {
	preferences := Preferences{
		Location: DefaultLocation(),
		Theme:    ThemeLight,
	}

	var location prayer.Location
	if decode(request, constants.CookieLocation, &location) && !location.IsZero() {
		preferences.Location = location
	}

	var lastRead LastRead
	if decode(request, constants.CookieLastRead, &lastRead) && lastRead.Valid() {
		preferences.LastRead = &lastRead
	}

	if cookie, err := request.Cookie(constants.CookieTheme); err == nil {
		if theme := Theme(cookie.Value); theme.Valid() {
			preferences.Theme = theme
		}
	}

	return preferences
}

// Location returns the saved location or the default one.
func (cookies Cookies) Location(request *http.Request) prayer.Location {
	return cookies.Read(request).Location
}

// WriteLocation overwrites the location cookie.
func (cookies Cookies) WriteLocation(writer http.ResponseWriter, location prayer.Location) {
	cookies.write(writer, constants.CookieLocation, encode(prayer.Location{
		Kabkota:  strings.TrimSpace(location.Kabkota),
		Provinsi: strings.TrimSpace(location.Provinsi),
	}))
}

// WriteLastRead overwrites the reading position cookie.
func (cookies Cookies) WriteLastRead(writer http.ResponseWriter, lastRead LastRead) {
	cookies.write(writer, constants.CookieLastRead, encode(lastRead))
}

// WriteTheme overwrites the theme cookie.
func (cookies Cookies) WriteTheme(writer http.ResponseWriter, theme Theme) {
	cookies.write(writer, constants.CookieTheme, string(theme))
}

func (cookies Cookies) write(writer http.ResponseWriter, name, value string) {
	http.SetCookie(writer, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   constants.PreferenceMaxAge,
		Secure:   cookies.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Cookie values are base64url JSON so quotes and commas survive.
func encode(value any) string {
	raw, _ := json.Marshal(value)
	return base64.RawURLEncoding.EncodeToString(raw)
}

func decode(request *http.Request, name string, target any) bool {
	cookie, err := request.Cookie(name)
	if err != nil || cookie.Value == "" {
		return false
	}

	raw, err := base64.RawURLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return false
	}

	return json.Unmarshal(raw, target) == nil
}
