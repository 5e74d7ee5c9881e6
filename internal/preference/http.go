// Copyright (c) 2026 Harian Muslim. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package preference

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/harianmuslim/internal/platform/request"
	"github.com/taibuivan/harianmuslim/internal/platform/respond"
	"github.com/taibuivan/harianmuslim/internal/platform/validate"
	"github.com/taibuivan/harianmuslim/internal/prayer"
)

// Handler implements the HTTP layer for browser-local preferences.
type Handler struct {
	cookies Cookies
}

// NewHandler constructs a new preference [Handler].
func NewHandler(cookies Cookies) *Handler {
	return &Handler{cookies: cookies}
}

// Routes returns a [chi.Router] configured with the preference endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/", handler.get)
	router.Put("/location", handler.putLocation)
	router.Put("/theme", handler.putTheme)
	return router
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, handler.cookies.Read(request))
}

func (handler *Handler) putLocation(writer http.ResponseWriter, request *http.Request) {
	var location prayer.Location
	if err := requestutil.DecodeJSON(request, &location); err != nil {
		respond.Error(writer, request, err)
		return
	}

	location.Kabkota = strings.TrimSpace(location.Kabkota)
	location.Provinsi = strings.TrimSpace(location.Provinsi)

	if err := new(validate.Validator).
		Required("kabkota", location.Kabkota).
		MaxLen("kabkota", location.Kabkota, 120).
		Required("provinsi", location.Provinsi).
		MaxLen("provinsi", location.Provinsi, 120).
		Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.cookies.WriteLocation(writer, location)
	respond.OK(writer, location)
}

func (handler *Handler) putTheme(writer http.ResponseWriter, request *http.Request) {
	var body struct {
		Theme Theme `json:"theme"`
	}
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := new(validate.Validator).
		OneOf("theme", string(body.Theme), string(ThemeLight), string(ThemeDark)).
		Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.cookies.WriteTheme(writer, body.Theme)
	respond.OK(writer, body)
}
