// Copyright (c) 2026 Harian Muslim. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package quran

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/harianmuslim/internal/platform/request"
	"github.com/taibuivan/harianmuslim/internal/platform/respond"
	"github.com/taibuivan/harianmuslim/internal/preference"
)

// Handler implements the HTTP layer for Quran reading.
type Handler struct {
	service *Service
	cookies preference.Cookies
}

// NewHandler constructs a new quran [Handler]. Viewing a surah or page updates the last-read cookie.
func NewHandler(service *Service, cookies preference.Cookies) *Handler {
	return &Handler{service: service, cookies: cookies}
}

// Routes returns a [chi.Router] configured with the Quran endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/surah", handler.listSurahs)
	router.Get("/surah/{number}", handler.getSurah)
	router.Get("/surah/{number}/pages", handler.getSurahPages)
	router.Get("/page/{number}", handler.getPage)

	return router
}

func (handler *Handler) listSurahs(writer http.ResponseWriter, request *http.Request) {
	surahs, err := handler.service.ListSurahs(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, surahs)
}

func (handler *Handler) getSurah(writer http.ResponseWriter, request *http.Request) {
	number, err := requestutil.IntParam(request, "number", 1, SurahCount)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	detail, err := handler.service.GetSurah(request.Context(), number)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.cookies.WriteLastRead(writer, preference.LastRead{
		Type:  preference.ReadingSurah,
		ID:    number,
		Label: displayName(detail, number),
	})
	respond.OK(writer, detail)
}

func (handler *Handler) getSurahPages(writer http.ResponseWriter, request *http.Request) {
	number, err := requestutil.IntParam(request, "number", 1, SurahCount)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	pages, err := handler.service.SurahPages(request.Context(), number)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, pages)
}

func (handler *Handler) getPage(writer http.ResponseWriter, request *http.Request) {
	number, err := requestutil.IntParam(request, "number", 1, PageCount)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	page, err := handler.service.GetPage(request.Context(), number)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.cookies.WriteLastRead(writer, preference.LastRead{
		Type:  preference.ReadingPage,
		ID:    number,
		Label: "Halaman " + strconv.Itoa(number),
	})
	respond.OK(writer, page)
}
