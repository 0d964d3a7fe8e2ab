// Copyright (c) 2026 DataPipeline Pro. All rights reserved.
// Author: platform@datapipeline.pro

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datapipeline/pro-api/internal/platform/ctxutil"
	"github.com/datapipeline/pro-api/internal/platform/sec"
)

// stubVerifier accepts exactly one token string and returns canned claims.
type stubVerifier struct {
	accept string
	claims *sec.Claims
}

func (v *stubVerifier) VerifyAccess(tokenStr string) (*sec.Claims, error) {
	if tokenStr == v.accept {
		return v.claims, nil
	}
	return nil, sec.ErrInvalidToken
}

func newStubVerifier() *stubVerifier {
	return &stubVerifier{
		accept: "good-token",
		claims: &sec.Claims{
			RegisteredClaims: jwt.RegisteredClaims{Subject: "user@example.com"},
			TokenType:        sec.TokenTypeAccess,
		},
	}
}

// echoSubject records what claims the downstream handler observed.
func echoSubject(observed **sec.Claims) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*observed = ctxutil.GetAuthClaims(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticate_AnonymousPassesThrough(t *testing.T) {
	var observed *sec.Claims
	handler := Authenticate(newStubVerifier())(echoSubject(&observed))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Nil(t, observed, "anonymous request should carry no claims")
}

func TestAuthenticate_ValidTokenInjectsClaims(t *testing.T) {
	var observed *sec.Claims
	handler := Authenticate(newStubVerifier())(echoSubject(&observed))

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("Authorization", "Bearer good-token")

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	require.NotNil(t, observed)
	assert.Equal(t, "user@example.com", observed.Subject)
}

func TestAuthenticate_RejectsBadTokens(t *testing.T) {
	testCases := []struct {
		name   string
		header string
	}{
		{name: "malformed header", header: "NotBearer good-token"},
		{name: "missing token part", header: "Bearer"},
		{name: "invalid token", header: "Bearer forged-token"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			var observed *sec.Claims
			handler := Authenticate(newStubVerifier())(echoSubject(&observed))

			request := httptest.NewRequest(http.MethodGet, "/", nil)
			request.Header.Set("Authorization", testCase.header)

			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)

			assert.Equal(t, http.StatusUnauthorized, recorder.Code)
			assert.Nil(t, observed, "handler should not run for rejected tokens")
		})
	}
}

func TestRequireAuth(t *testing.T) {
	t.Run("blocks anonymous", func(t *testing.T) {
		handler := RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("passes authenticated", func(t *testing.T) {
		handler := RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		request := httptest.NewRequest(http.MethodGet, "/", nil)
		ctx := ctxutil.WithAuthClaims(request.Context(), newStubVerifier().claims)

		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request.WithContext(ctx))

		assert.Equal(t, http.StatusOK, recorder.Code)
	})
}

func TestTrustedHosts(t *testing.T) {
	handler := TrustedHosts([]string{"api.datapipeline.pro", "localhost"})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
	)

	t.Run("allows listed host", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.Host = "api.datapipeline.pro"

		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("allows listed host with port", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.Host = "localhost:8000"

		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("rejects unknown host", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.Host = "evil.example.com"

		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("wildcard disables the check", func(t *testing.T) {
		open := TrustedHosts([]string{"*"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.Host = "anything.example.com"

		recorder := httptest.NewRecorder()
		open.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusOK, recorder.Code)
	})
}
