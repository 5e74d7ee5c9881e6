// Copyright (c) 2026 Harian Muslim. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package doa

import (
	"math"
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/harianmuslim/internal/platform/request"
	"github.com/taibuivan/harianmuslim/internal/platform/respond"
	"github.com/taibuivan/harianmuslim/pkg/pagination"
	"github.com/taibuivan/harianmuslim/pkg/query"
)

// Handler implements the HTTP layer for supplications.
type Handler struct {
	service *Service
}

// NewHandler constructs a new doa [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] configured with the doa endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/", handler.list)
	router.Get("/groups", handler.groups)
	router.Get("/{id}", handler.get)
	return router
}

// list handles GET /?grup=&tag=pagi,malam&page=&limit=.
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	values := request.URL.Query()
	filter := Filter{Grup: values.Get("grup"), Tags: query.StringSlice(values.Get("tag"))}

	items, meta, err := handler.service.List(request.Context(), filter, pagination.FromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, items, meta)
}

func (handler *Handler) groups(writer http.ResponseWriter, request *http.Request) {
	groups, err := handler.service.Groups(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, groups)
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.IntParam(request, "id", 1, math.MaxInt32)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	item, err := handler.service.Get(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, item)
}
