// Copyright (c) 2026 Harian Muslim. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package location

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/harianmuslim/internal/platform/request"
	"github.com/taibuivan/harianmuslim/internal/platform/respond"
)

// Handler implements the HTTP layer for location resolution.
type Handler struct {
	service *Service
}

// NewHandler constructs a new location [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] configured with the location endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/resolve", handler.resolve)
	router.Get("/match", handler.match)
	return router
}

// resolve handles GET /resolve?lat=&lon=.
func (handler *Handler) resolve(writer http.ResponseWriter, request *http.Request) {
	lat, err := requestutil.FloatQuery(request, "lat")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	lon, err := requestutil.FloatQuery(request, "lon")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	resolution, err := handler.service.Resolve(request.Context(), lat, lon)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, resolution)
}

// match handles GET /match?name=.
func (handler *Handler) match(writer http.ResponseWriter, request *http.Request) {
	resolution, err := handler.service.MatchName(request.Context(), request.URL.Query().Get("name"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, resolution)
}
