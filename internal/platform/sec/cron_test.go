// Copyright (c) 2026 Harian Muslim. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/harianmuslim/internal/platform/sec"
)

func TestCronAuthenticator_Verify(t *testing.T) {
	authenticator := sec.NewCronAuthenticator("s3cret")

	token, err := authenticator.IssueToken("github-actions", time.Minute)
	require.NoError(t, err)

	otherToken, err := sec.NewCronAuthenticator("other").IssueToken("x", time.Minute)
	require.NoError(t, err)

	expired, err := authenticator.IssueToken("x", -time.Minute)
	require.NoError(t, err)

	wrongAudience, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Audience:  jwt.ClaimStrings{"something-else"},
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}).SignedString([]byte("s3cret"))
	require.NoError(t, err)

	tests := []struct {
		name       string
		credential string
		ok         bool
	}{
		{"raw_secret", "s3cret", true},
		{"signed_token", token, true},
		{"empty", "", false},
		{"wrong_secret", "guess", false},
		{"token_other_secret", otherToken, false},
		{"expired_token", expired, false},
		{"wrong_audience", wrongAudience, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := authenticator.Verify(tt.credential)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestCronAuthenticator_NoSecret(t *testing.T) {
	authenticator := sec.NewCronAuthenticator("")

	assert.ErrorIs(t, authenticator.Verify("anything"), sec.ErrNoSecret)

	_, err := authenticator.IssueToken("x", time.Minute)
	assert.ErrorIs(t, err, sec.ErrNoSecret)
}
