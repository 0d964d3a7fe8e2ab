// Copyright (c) 2026 DataPipeline Pro. All rights reserved.
// Author: platform@datapipeline.pro

package auth

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datapipeline/pro-api/internal/platform/apperr"
)

/*
TestTranslateInsertError verifies that a constraint violation raised by the
database is translated into the same CONFLICT error the application-level
duplicate check produces. When two registrations race past the lookup, the
losing INSERT hits the unique constraint and the client must still see a
clean conflict, not an internal error.
*/
func TestTranslateInsertError(t *testing.T) {
	tests := []struct {
		name        string
		constraint  string
		wantMessage string
	}{
		{
			name:        "email constraint",
			constraint:  constraintUsersEmail,
			wantMessage: "Email is already registered",
		},
		{
			name:        "username constraint",
			constraint:  constraintUsersUsername,
			wantMessage: "Username is already taken",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pgErr := &pgconn.PgError{
				Code:           pgerrcode.UniqueViolation,
				ConstraintName: tt.constraint,
			}

			appErr := apperr.As(translateInsertError(fmt.Errorf("insert failed: %w", pgErr)))
			require.NotNil(t, appErr)
			assert.Equal(t, "CONFLICT", appErr.Code)
			assert.Equal(t, http.StatusBadRequest, appErr.HTTPStatus)
			assert.Equal(t, tt.wantMessage, appErr.Message)
		})
	}

	t.Run("unrecognized constraint is not a conflict", func(t *testing.T) {
		pgErr := &pgconn.PgError{
			Code:           pgerrcode.UniqueViolation,
			ConstraintName: "users_pkey",
		}

		err := translateInsertError(pgErr)
		assert.False(t, apperr.IsAppError(err))
		assert.ErrorIs(t, err, pgErr)
	})

	t.Run("connectivity error passes through", func(t *testing.T) {
		cause := errors.New("connection reset")

		err := translateInsertError(cause)
		assert.False(t, apperr.IsAppError(err))
		assert.ErrorIs(t, err, cause)
	})
}
