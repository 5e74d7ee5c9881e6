// Copyright (c) 2026 Harian Muslim. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package location maps a free-text place name, usually the result of reverse
geocoding the visitor's coordinates, onto one of the regencies that have a
prayer schedule.

Matching is deliberately approximate: names are normalized, an exact match
wins, and otherwise the longest reference name contained in (or containing)
the input is chosen. Short ambiguous inputs can pick the wrong regency.
*/
package location

import (
	"strings"

	"github.com/taibuivan/harianmuslim/internal/prayer"
)

// administrativePrefixes are dropped from names before comparison.
var administrativePrefixes = map[string]struct{}{
	"kabupaten": {},
	"kab.":      {},
	"kab":       {},
	"kota":      {},
}

// Normalize lower-cases a name, removes the administrative words in
// [administrativePrefixes] wherever they appear as a whole word, and collapses
// whitespace.
func Normalize(name string) string {
	fields := strings.Fields(strings.ToLower(name))

	kept := fields[:0]
	for _, field := range fields {
		if _, drop := administrativePrefixes[field]; drop {
			continue
		}
		kept = append(kept, field)
	}

	return strings.Join(kept, " ")
}

// Match picks the option whose regency name best matches raw.
//
// # Policy
//
//  1. Options and input are compared after [Normalize]; empty names never match.
//  2. The first option equal to the input wins immediately.
//  3. Otherwise the longest option that contains, or is contained in, the input
//     wins. Equal lengths keep the earlier option.
func Match(options []prayer.LocationOption, raw string) (prayer.LocationOption, bool) {
	target := Normalize(raw)
	if target == "" {
		return prayer.LocationOption{}, false
	}

	var best prayer.LocationOption
	bestLength := 0

	for _, option := range options {
		normalized := Normalize(option.Kabkota)
		if normalized == "" {
			continue
		}

		if normalized == target {
			return option, true
		}

		contains := strings.Contains(target, normalized) || strings.Contains(normalized, target)
		if contains && len(normalized) > bestLength {
			best = option
			bestLength = len(normalized)
		}
	}

	return best, bestLength > 0
}
