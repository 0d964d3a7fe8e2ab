// Copyright (c) 2026 DataPipeline Pro. All rights reserved.
// Author: platform@datapipeline.pro

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing) from
// the domain logic. It acts as an Infrastructure service injected into the
// Application layer via narrow interfaces.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token type discriminators embedded in the "type" claim.
//
// A refresh token must never be accepted where an access token is required,
// and vice versa.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// ErrInvalidToken is returned for any token that fails signature, structure,
// type, or expiry checks. It is deliberately coarse: callers must not be able
// to distinguish why verification failed.
var ErrInvalidToken = errors.New("sec: invalid token")

// Claims represents the payload embedded inside an issued JWT.
//
// The subject is the user's email address; TokenType discriminates access
// tokens from refresh tokens.
type Claims struct {
	jwt.RegisteredClaims

	TokenType string `json:"type"`
}

// TokenService issues and verifies signed, time-limited JWTs using HS256.
//
// # State
//
// TokenService holds no mutable state. Its output is purely a function of the
// signing secret, the configured TTLs, and the current wall-clock time.
type TokenService struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenService creates a TokenService bound to a shared symmetric secret.
// The secret is loaded once at startup and never rotated at runtime.
func NewTokenService(secret string, issuer string, accessTTL, refreshTTL time.Duration) *TokenService {
	return &TokenService{
		secret:     []byte(secret),
		issuer:     issuer,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// IssueAccess creates a signed access token for the given subject.
func (service *TokenService) IssueAccess(subject string) (string, error) {
	return service.issue(subject, TokenTypeAccess, service.accessTTL)
}

// IssueRefresh creates a signed refresh token for the given subject.
func (service *TokenService) IssueRefresh(subject string) (string, error) {
	return service.issue(subject, TokenTypeRefresh, service.refreshTTL)
}

// issue signs a claim set of the given type expiring after ttl.
func (service *TokenService) issue(subject, tokenType string, ttl time.Duration) (string, error) {
	currentTime := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(ttl)),
		},
		TokenType: tokenType,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// Decode verifies the signature and structural validity of a JWT string.
//
// It fails if the signature is invalid, the payload is malformed, or a
// required claim (subject, type, expiry) is missing. Expiry is NOT checked
// here — that is [TokenService.Verify]'s job.
func (service *TokenService) Decode(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return service.secret, nil
	}, jwt.WithoutClaimsValidation())

	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.Subject == "" || claims.TokenType == "" || claims.ExpiresAt == nil {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// Verify decodes the token and additionally enforces the expected type and
// expiry. It returns the token's subject on success.
//
// Expiry uses the current wall-clock time with zero leeway: a token whose
// expiry equals the current instant is already expired.
func (service *TokenService) Verify(tokenString, expectedType string) (string, error) {
	claims, err := service.verifyClaims(tokenString, expectedType)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// VerifyAccess verifies tokenString as an access token and returns its full
// claim set. It exists to satisfy the middleware's TokenVerifier contract.
func (service *TokenService) VerifyAccess(tokenString string) (*Claims, error) {
	return service.verifyClaims(tokenString, TokenTypeAccess)
}

func (service *TokenService) verifyClaims(tokenString, expectedType string) (*Claims, error) {
	claims, err := service.Decode(tokenString)
	if err != nil {
		return nil, err
	}

	if claims.TokenType != expectedType {
		return nil, ErrInvalidToken
	}

	if !claims.ExpiresAt.Time.After(time.Now()) {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// AccessTokenTTL reports the configured access token lifetime.
func (service *TokenService) AccessTokenTTL() time.Duration {
	return service.accessTTL
}
