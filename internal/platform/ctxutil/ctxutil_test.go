// Copyright (c) 2026 DataPipeline Pro. All rights reserved.
// Author: platform@datapipeline.pro

package ctxutil_test

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"

	"github.com/datapipeline/pro-api/internal/platform/ctxutil"
	"github.com/datapipeline/pro-api/internal/platform/sec"
)

/*
TestContext_RequestID verifies that Request IDs can be injected and retrieved.
*/
func TestContext_RequestID(t *testing.T) {
	ctx := context.Background()
	requestID := "test-request-id"

	// 1. Initially should be empty
	assert.Empty(t, ctxutil.GetRequestID(ctx))

	// 2. Inject and retrieve
	ctx = ctxutil.WithRequestID(ctx, requestID)
	assert.Equal(t, requestID, ctxutil.GetRequestID(ctx))
}

/*
TestContext_Logger verifies that a custom logger can be stored in context.
*/
func TestContext_Logger(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// 1. Initially should return the default logger
	assert.Equal(t, slog.Default(), ctxutil.GetLogger(ctx))

	// 2. Inject and retrieve
	ctx = ctxutil.WithLogger(ctx, logger)
	assert.Equal(t, logger, ctxutil.GetLogger(ctx))
}

/*
TestContext_AuthClaims verifies that token claims can be stored in context.
*/
func TestContext_AuthClaims(t *testing.T) {
	ctx := context.Background()
	claims := &sec.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "a@x.com"},
		TokenType:        sec.TokenTypeAccess,
	}

	// 1. Initially should be nil
	assert.Nil(t, ctxutil.GetAuthClaims(ctx))

	// 2. Inject and retrieve
	ctx = ctxutil.WithAuthClaims(ctx, claims)
	retrieved := ctxutil.GetAuthClaims(ctx)

	assert.NotNil(t, retrieved)
	assert.Equal(t, "a@x.com", retrieved.Subject)
	assert.Equal(t, sec.TokenTypeAccess, retrieved.TokenType)
}
