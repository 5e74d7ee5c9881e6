// Copyright (c) 2026 Harian Muslim. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package site serves the crawler files: sitemap.xml and robots.txt.
package site

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/taibuivan/harianmuslim/internal/content/quran"
	"github.com/taibuivan/harianmuslim/internal/platform/apperr"
	"github.com/taibuivan/harianmuslim/internal/platform/respond"
)

const sitemapNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// staticRoutes are the top-level pages of the front end.
var staticRoutes = []string{"/", "/quran", "/sholat", "/doa"}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod"`
}

// Handler serves the crawler files.
type Handler struct {
	origin     *url.URL
	production bool
	now        func() time.Time
}

// NewHandler creates the handler. siteOrigin may be empty outside production,
// in which case URLs are built from the request host.
func NewHandler(siteOrigin string, production bool) (*Handler, error) {
	handler := &Handler{production: production, now: time.Now}

	if siteOrigin != "" {
		parsed, err := url.Parse(siteOrigin)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return nil, fmt.Errorf("site: invalid SITE_ORIGIN %q", siteOrigin)
		}
		handler.origin = &url.URL{Scheme: parsed.Scheme, Host: parsed.Host}
	}

	return handler, nil
}

// Sitemap handles GET /sitemap.xml.
func (handler *Handler) Sitemap(writer http.ResponseWriter, request *http.Request) {
	origin, err := handler.resolveOrigin(request)
	if err != nil {
		respond.PlainError(writer, request, err)
		return
	}

	lastMod := handler.now().UTC().Format(time.RFC3339)
	paths := make([]string, 0, len(staticRoutes)+quran.SurahCount+quran.PageCount)
	paths = append(paths, staticRoutes...)
	for number := 1; number <= quran.SurahCount; number++ {
		paths = append(paths, fmt.Sprintf("/quran/%d", number))
	}
	for number := 1; number <= quran.PageCount; number++ {
		paths = append(paths, fmt.Sprintf("/quran/halaman/%d", number))
	}

	set := urlSet{Xmlns: sitemapNamespace, URLs: make([]sitemapURL, 0, len(paths))}
	for _, path := range paths {
		set.URLs = append(set.URLs, sitemapURL{Loc: origin.JoinPath(path).String(), LastMod: lastMod})
	}

	writer.Header().Set("Content-Type", "application/xml; charset=utf-8")
	writer.WriteHeader(http.StatusOK)
	_, _ = writer.Write([]byte(xml.Header))

	encoder := xml.NewEncoder(writer)
	encoder.Indent("", "  ")
	_ = encoder.Encode(set)
}

// Robots handles GET /robots.txt.
func (handler *Handler) Robots(writer http.ResponseWriter, request *http.Request) {
	origin, err := handler.resolveOrigin(request)
	if err != nil {
		respond.PlainError(writer, request, err)
		return
	}

	body := strings.Join([]string{
		"User-agent: *",
		"Allow: /",
		"Sitemap: " + origin.JoinPath("/sitemap.xml").String(),
		"Host: " + origin.Host,
		"",
	}, "\n")

	respond.Text(writer, http.StatusOK, body)
}

func (handler *Handler) resolveOrigin(request *http.Request) (*url.URL, error) {
	if handler.origin != nil {
		return handler.origin, nil
	}
	if handler.production {
		return nil, apperr.InternalMsg("Missing SITE_ORIGIN", nil)
	}

	scheme := "http"
	if request.TLS != nil || request.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return &url.URL{Scheme: scheme, Host: request.Host}, nil
}
