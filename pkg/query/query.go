// Copyright (c) 2026 Harian Muslim. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package query parses list-valued URL query parameters.
package query

import "strings"

// StringSlice splits a comma-separated query value into trimmed, non-empty parts.
//
// "pagi, malam,," yields ["pagi" "malam"]; an empty value yields nil.
func StringSlice(value string) []string {
	if value == "" {
		return nil
	}

	var parts []string
	for _, part := range strings.Split(value, ",") {
		if clean := strings.TrimSpace(part); clean != "" {
			parts = append(parts, clean)
		}
	}
	return parts
}
