// Copyright (c) 2026 DataPipeline Pro. All rights reserved.
// Author: platform@datapipeline.pro

package dberr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datapipeline/pro-api/internal/platform/apperr"
	"github.com/datapipeline/pro-api/internal/platform/dberr"
)

func uniqueViolation(constraint string) *pgconn.PgError {
	return &pgconn.PgError{
		Code:           pgerrcode.UniqueViolation,
		ConstraintName: constraint,
		Message:        "duplicate key value violates unique constraint",
	}
}

/*
TestIsUniqueViolation verifies SQLSTATE 23505 detection, including wrapped
errors and the named-constraint filter.
*/
func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		constraint string
		want       bool
	}{
		{
			name:       "matching constraint",
			err:        uniqueViolation("users_email_key"),
			constraint: "users_email_key",
			want:       true,
		},
		{
			name:       "any constraint when filter is empty",
			err:        uniqueViolation("users_username_key"),
			constraint: "",
			want:       true,
		},
		{
			name:       "different constraint",
			err:        uniqueViolation("users_email_key"),
			constraint: "users_username_key",
			want:       false,
		},
		{
			name:       "wrapped violation",
			err:        fmt.Errorf("insert failed: %w", uniqueViolation("users_email_key")),
			constraint: "users_email_key",
			want:       true,
		},
		{
			name:       "other SQLSTATE",
			err:        &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation},
			constraint: "",
			want:       false,
		},
		{
			name:       "non-postgres error",
			err:        errors.New("connection reset"),
			constraint: "",
			want:       false,
		},
		{
			name:       "nil error",
			err:        nil,
			constraint: "",
			want:       false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, dberr.IsUniqueViolation(tt.err, tt.constraint))
		})
	}
}

/*
TestWrap verifies classification of storage errors into application errors:
missing rows become NotFound, unique violations become Conflict, anything
else is hidden behind an Internal error.
*/
func TestWrap(t *testing.T) {
	t.Run("nil passes through", func(t *testing.T) {
		assert.NoError(t, dberr.Wrap(nil, "User"))
	})

	t.Run("no rows becomes not found", func(t *testing.T) {
		appErr := apperr.As(dberr.Wrap(pgx.ErrNoRows, "User"))
		require.NotNil(t, appErr)
		assert.Equal(t, "NOT_FOUND", appErr.Code)
		assert.Equal(t, http.StatusNotFound, appErr.HTTPStatus)
	})

	t.Run("unique violation becomes conflict", func(t *testing.T) {
		err := fmt.Errorf("insert failed: %w", uniqueViolation("users_email_key"))

		appErr := apperr.As(dberr.Wrap(err, "User"))
		require.NotNil(t, appErr)
		assert.Equal(t, "CONFLICT", appErr.Code)
		assert.Equal(t, "User already exists", appErr.Message)
	})

	t.Run("unknown error becomes internal", func(t *testing.T) {
		appErr := apperr.As(dberr.Wrap(errors.New("connection reset"), "User"))
		require.NotNil(t, appErr)
		assert.Equal(t, "INTERNAL_ERROR", appErr.Code)
	})
}
