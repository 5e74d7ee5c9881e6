// Copyright (c) 2026 Harian Muslim. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package prayer

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/harianmuslim/internal/platform/apperr"
	"github.com/taibuivan/harianmuslim/internal/platform/respond"
	"github.com/taibuivan/harianmuslim/internal/platform/validate"
)

// LocationFallback supplies the location to use when a request names none,
// typically the visitor's saved preference or the site default.
type LocationFallback func(request *http.Request) Location

// # Handler Implementation

// Handler implements the HTTP layer for prayer schedules.
type Handler struct {
	service  *Service
	fallback LocationFallback
}

// NewHandler constructs a new prayer [Handler].
func NewHandler(service *Service, fallback LocationFallback) *Handler {
	return &Handler{service: service, fallback: fallback}
}

// Routes returns a [chi.Router] configured with the prayer endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/provinces", handler.listProvinces)
	router.Get("/locations", handler.listLocations)
	router.Get("/schedule", handler.getSchedule)
	router.Get("/today", handler.getToday)
	router.Get("/next", handler.getNext)

	return router
}

func (handler *Handler) listProvinces(writer http.ResponseWriter, request *http.Request) {
	provinces, err := handler.service.Provinces(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, provinces)
}

func (handler *Handler) listLocations(writer http.ResponseWriter, request *http.Request) {
	options, err := handler.service.Locations(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, options)
}

/*
getSchedule handles GET /schedule.

Query:
  - kabkota, provinsi: optional, see [Handler.location]
  - year, month: optional, default to the current WIB month
*/
func (handler *Handler) getSchedule(writer http.ResponseWriter, request *http.Request) {
	location, err := handler.location(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	now := handler.service.Now().In(WIB)
	query := request.URL.Query()

	year, yearErr := intQuery(query.Get("year"), now.Year())
	month, monthErr := intQuery(query.Get("month"), int(now.Month()))
	if err := new(validate.Validator).
		Custom("year", yearErr != nil, "Must be a number").
		Custom("month", monthErr != nil, "Must be a number").
		Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	schedule, err := handler.service.Schedule(request.Context(), location, year, month)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, schedule)
}

func (handler *Handler) getToday(writer http.ResponseWriter, request *http.Request) {
	location, err := handler.location(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	row, err := handler.service.Today(request.Context(), location, handler.service.Now())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, row)
}

func (handler *Handler) getNext(writer http.ResponseWriter, request *http.Request) {
	location, err := handler.location(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	overview, err := handler.service.Overview(request.Context(), location, handler.service.Now())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, overview)
}

// location reads kabkota and provinsi from the query string.
//
// A kabkota without a provinsi is completed from the regency list. No query
// at all uses the fallback.
func (handler *Handler) location(request *http.Request) (Location, error) {
	query := request.URL.Query()
	location := Location{
		Kabkota:  strings.TrimSpace(query.Get("kabkota")),
		Provinsi: strings.TrimSpace(query.Get("provinsi")),
	}

	switch {
	case location.Kabkota == "" && location.Provinsi == "":
		return handler.fallback(request), nil

	case location.Kabkota != "" && location.Provinsi == "":
		provinsi, found, err := handler.service.ProvinceOf(request.Context(), location.Kabkota)
		if err != nil {
			return Location{}, err
		}
		if !found {
			return Location{}, apperr.NotFound("Regency")
		}
		location.Provinsi = provinsi
	}

	return location, nil
}

func intQuery(raw string, fallback int) (int, error) {
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}
