// Copyright (c) 2026 DataPipeline Pro. All rights reserved.
// Author: platform@datapipeline.pro

package sec_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datapipeline/pro-api/internal/platform/sec"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestTokenService() *sec.TokenService {
	return sec.NewTokenService(testSecret, "datapipeline.test", 30*time.Minute, 7*24*time.Hour)
}

/*
TestTokenService_AccessRoundTrip verifies that an issued access token verifies
back to its original subject.
*/
func TestTokenService_AccessRoundTrip(t *testing.T) {
	service := newTestTokenService()

	token, err := service.IssueAccess("a@x.com")
	require.NoError(t, err)

	subject, err := service.Verify(token, sec.TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", subject)
}

/*
TestTokenService_TypeMismatch verifies that an access token is rejected where
a refresh token is required, and vice versa.
*/
func TestTokenService_TypeMismatch(t *testing.T) {
	service := newTestTokenService()

	accessToken, err := service.IssueAccess("a@x.com")
	require.NoError(t, err)
	refreshToken, err := service.IssueRefresh("a@x.com")
	require.NoError(t, err)

	_, err = service.Verify(accessToken, sec.TokenTypeRefresh)
	assert.ErrorIs(t, err, sec.ErrInvalidToken)

	_, err = service.Verify(refreshToken, sec.TokenTypeAccess)
	assert.ErrorIs(t, err, sec.ErrInvalidToken)

	// Both verify fine against their own type.
	_, err = service.Verify(refreshToken, sec.TokenTypeRefresh)
	assert.NoError(t, err)
}

/*
TestTokenService_Expired verifies that a token past its expiry fails
verification even though its signature is valid.
*/
func TestTokenService_Expired(t *testing.T) {
	expired := sec.NewTokenService(testSecret, "datapipeline.test", -1*time.Second, -1*time.Second)

	token, err := expired.IssueAccess("a@x.com")
	require.NoError(t, err)

	// Decode still succeeds: signature and structure are intact.
	claims, err := expired.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", claims.Subject)

	// Verify enforces expiry.
	_, err = expired.Verify(token, sec.TokenTypeAccess)
	assert.ErrorIs(t, err, sec.ErrInvalidToken)
}

/*
TestTokenService_WrongSecret verifies that a token signed with a different
secret is rejected.
*/
func TestTokenService_WrongSecret(t *testing.T) {
	service := newTestTokenService()
	other := sec.NewTokenService("ffffffffffffffffffffffffffffffff", "datapipeline.test", time.Hour, time.Hour)

	token, err := other.IssueAccess("a@x.com")
	require.NoError(t, err)

	_, err = service.Verify(token, sec.TokenTypeAccess)
	assert.ErrorIs(t, err, sec.ErrInvalidToken)
}

/*
TestTokenService_Malformed verifies structural rejection of non-JWT input.
*/
func TestTokenService_Malformed(t *testing.T) {
	service := newTestTokenService()

	for _, input := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := service.Decode(input)
		assert.ErrorIs(t, err, sec.ErrInvalidToken, "input %q", input)
	}
}
