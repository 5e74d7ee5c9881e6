// Copyright (c) 2026 Harian Muslim. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/harianmuslim/internal/platform/apperr"
	"github.com/taibuivan/harianmuslim/internal/platform/validate"
)

// maxBodyBytes bounds JSON request bodies; push subscriptions are well below 8 KiB.
const maxBodyBytes = 64 << 10

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - request: *http.Request
  - target: interface{} (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target interface{}) error {
	body := io.LimitReader(request.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
IntParam parses a named URL parameter as an integer within [min, max].

Returns:
  - int: The parsed value
  - error: apperr.ValidationError when the value is missing, malformed or out of range
*/
func IntParam(request *http.Request, name string, min, max int) (int, error) {
	raw := chi.URLParam(request, name)

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, validate.RequiredError(name, "Must be a number")
	}

	if value < min || value > max {
		return 0, validate.RequiredError(name, fmt.Sprintf("Must be between %d and %d", min, max))
	}

	return value, nil
}

/*
FloatQuery parses a required float query parameter.
*/
func FloatQuery(request *http.Request, name string) (float64, error) {
	raw := strings.TrimSpace(request.URL.Query().Get(name))
	if raw == "" {
		return 0, validate.RequiredError(name, "This field is required")
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, apperr.ValidationError("Validation failed", apperr.FieldError{Field: name, Message: "Must be a number"})
	}

	return value, nil
}
