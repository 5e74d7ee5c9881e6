// Copyright (c) 2026 Harian Muslim. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec holds the credential checks guarding operator-only endpoints.
//
// # Architecture
//
// The push delivery trigger is called by an external scheduler (a hosting
// provider's cron, a CI job, or curl). It presents either the raw shared
// secret or a short-lived HS256 token signed with that secret, so the secret
// itself never has to be stored by a scheduler that supports token minting.
package sec

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CronAudience is the audience every cron token must carry.
const CronAudience = "push-cron"

// ErrNoSecret is returned when no cron secret has been configured.
var ErrNoSecret = errors.New("sec: cron secret is not configured")

// CronClaims is the payload of a cron trigger token.
type CronClaims struct {
	jwt.RegisteredClaims
}

// CronAuthenticator verifies credentials presented to the push cron endpoint.
type CronAuthenticator struct {
	secret []byte
	now    func() time.Time
}

// NewCronAuthenticator creates an authenticator for the given shared secret.
// An empty secret rejects every credential.
func NewCronAuthenticator(secret string) *CronAuthenticator {
	return &CronAuthenticator{secret: []byte(secret), now: time.Now}
}

// Verify accepts the raw secret or a valid token signed with it.
//
// The raw secret is compared in constant time. Anything that looks like a JWT
// (three dot-separated segments) is verified as HS256 with the [CronAudience].
func (authenticator *CronAuthenticator) Verify(credential string) error {
	if len(authenticator.secret) == 0 {
		return ErrNoSecret
	}
	if credential == "" {
		return errors.New("sec: missing credential")
	}

	// 1. Shared secret
	if subtle.ConstantTimeCompare([]byte(credential), authenticator.secret) == 1 {
		return nil
	}

	// 2. Signed token
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(CronAudience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(authenticator.now),
	)

	token, err := parser.ParseWithClaims(credential, &CronClaims{}, func(token *jwt.Token) (interface{}, error) {
		return authenticator.secret, nil
	})
	if err != nil {
		return fmt.Errorf("sec: invalid cron credential: %w", err)
	}
	if !token.Valid {
		return errors.New("sec: invalid cron credential")
	}

	return nil
}

// IssueToken signs a cron token valid for ttl.
//
// It exists for schedulers that can hold a token but should not hold the
// secret, and for tests.
func (authenticator *CronAuthenticator) IssueToken(subject string, ttl time.Duration) (string, error) {
	if len(authenticator.secret) == 0 {
		return "", ErrNoSecret
	}

	currentTime := authenticator.now()
	claims := CronClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Audience:  jwt.ClaimStrings{CronAudience},
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(ttl)),
		},
	}

	signedToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(authenticator.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign cron token: %w", err)
	}

	return signedToken, nil
}
