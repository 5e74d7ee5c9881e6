// Copyright (c) 2026 Harian Muslim. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slug turns Indonesian region names into stable ASCII identifiers.
//
// # Usage
//
// Slugs key cached prayer schedules ("Kab. Tanah Datar" and "kab tanah  datar"
// share one entry) and keep non-ASCII input out of Redis key names.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// From converts an arbitrary Unicode string into a lowercase, hyphen-separated slug.
//
// Accents are folded (NFD then combining marks removed), every run of
// characters that is not an ASCII letter or digit becomes a single hyphen, and
// leading or trailing hyphens are trimmed.
func From(s string) string {
	folded, _, _ := transform.String(transform.Chain(norm.NFD, transform.RemoveFunc(isMn)), s)

	var builder strings.Builder
	builder.Grow(len(folded))

	pendingHyphen := false
	for _, r := range strings.ToLower(folded) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && builder.Len() > 0 {
				builder.WriteByte('-')
			}
			builder.WriteRune(r)
			pendingHyphen = false
			continue
		}
		pendingHyphen = true
	}

	return builder.String()
}

// Join slugs each part and joins them with a colon, for composite cache keys.
func Join(parts ...string) string {
	slugs := make([]string, len(parts))
	for i, part := range parts {
		slugs[i] = From(part)
	}
	return strings.Join(slugs, ":")
}

// isMn reports whether r is a Unicode non-spacing mark (e.g., accents).
func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
