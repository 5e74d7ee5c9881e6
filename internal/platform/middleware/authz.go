// Copyright (c) 2026 Harian Muslim. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/taibuivan/harianmuslim/internal/platform/apperr"
	"github.com/taibuivan/harianmuslim/internal/platform/constants"
	"github.com/taibuivan/harianmuslim/internal/platform/ctxutil"
	"github.com/taibuivan/harianmuslim/internal/platform/respond"
)

// CredentialVerifier defines the check needed to guard operator endpoints.
//
// Defining it here decouples the middleware from [sec.CronAuthenticator] so
// tests can inject a stub.
type CredentialVerifier interface {
	Verify(credential string) error
}

// RequireCronCredential blocks requests that do not carry a valid cron credential.
//
// # Flow
//  1. Read the credential from the `key` query parameter.
//  2. Otherwise read it from 'Authorization: Bearer <credential>'.
//  3. Verify it via [CredentialVerifier]; abort with a plain-text 401 on failure.
func RequireCronCredential(verifier CredentialVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			credential := CronCredential(request)

			if err := verifier.Verify(credential); err != nil {
				ctxutil.GetLogger(request.Context()).WarnContext(request.Context(), "cron_credential_rejected",
					slog.String("reason", err.Error()),
				)
				respond.PlainError(writer, request, apperr.Unauthorized("Unauthorized"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// CronCredential extracts the credential from `?key=` or a Bearer Authorization header.
func CronCredential(request *http.Request) string {
	if key := request.URL.Query().Get("key"); key != "" {
		return key
	}

	authHeader := request.Header.Get(constants.HeaderAuthorization)
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}
