// Copyright (c) 2026 Harian Muslim. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package wisdom picks the quote shown on the home page.
package wisdom

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/harianmuslim/internal/platform/respond"
	"github.com/taibuivan/harianmuslim/internal/prayer"
)

// Quote is a short hadith or verse with its reference.
type Quote struct {
	Text   string `json:"text"`
	Source string `json:"source"`
}

// Quotes is the fixed rotation.
var Quotes = []Quote{
	{Text: "Sesungguhnya Allah tidak melihat rupa dan harta kalian, tetapi melihat hati dan amal kalian.", Source: "HR. Muslim"},
	{Text: "Barangsiapa menempuh jalan untuk mencari ilmu, Allah mudahkan jalannya menuju surga.", Source: "HR. Muslim"},
	{Text: "Sebaik-baik manusia adalah yang paling bermanfaat bagi manusia lainnya.", Source: "HR. Ahmad & Thabrani"},
	{Text: "Orang mukmin yang kuat lebih baik dan lebih dicintai Allah daripada mukmin yang lemah.", Source: "HR. Muslim"},
	{Text: "Senyummu kepada saudaramu adalah sedekah.", Source: "HR. Tirmidzi"},
	{Text: "Tidak sempurna iman seseorang hingga ia mencintai saudaranya sebagaimana ia mencintai dirinya sendiri.", Source: "HR. Bukhari & Muslim"},
	{Text: "Jagalah Allah, niscaya Dia menjagamu. Jagalah Allah, niscaya engkau mendapati-Nya di hadapanmu.", Source: "HR. Tirmidzi"},
	{Text: "Barangsiapa bertakwa kepada Allah, niscaya Dia akan memberinya jalan keluar.", Source: "QS. At-Talaq: 2"},
}

// ForDate returns the quote of the WIB calendar day containing t.
// Every instant of the same day yields the same quote.
func ForDate(t time.Time) Quote {
	local := t.In(prayer.WIB)
	days := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC).Unix() / 86400

	index := days % int64(len(Quotes))
	if index < 0 {
		index += int64(len(Quotes))
	}
	return Quotes[index]
}

// Handler serves the daily quote.
type Handler struct {
	now func() time.Time
}

// NewHandler constructs a new wisdom [Handler].
func NewHandler() *Handler {
	return &Handler{now: time.Now}
}

// Routes returns a [chi.Router] configured with the wisdom endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/today", func(writer http.ResponseWriter, request *http.Request) {
		respond.OK(writer, ForDate(handler.now()))
	})
	return router
}
