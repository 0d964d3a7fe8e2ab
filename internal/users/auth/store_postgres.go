// Copyright (c) 2026 DataPipeline Pro. All rights reserved.
// Author: platform@datapipeline.pro

// PostgreSQL implementation of the [UserRepository] contract.
//
// # Error Mapping
//
// Storage-specific errors (pgx.ErrNoRows, SQLSTATE 23505) are mapped to
// domain-friendly [apperr.AppError] values so that callers never see pgx
// implementation details.

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/datapipeline/pro-api/internal/platform/apperr"
	"github.com/datapipeline/pro-api/internal/platform/dberr"
)

// Named unique constraints from the users migration. Used to produce precise
// conflict messages when an INSERT races a duplicate.
const (
	constraintUsersEmail    = "users_email_key"
	constraintUsersUsername = "users_username_key"
)

const userColumns = "id, email, username, password_hash, is_active, is_superuser, created_at, updated_at"

// # User Repository

// PostgresUserRepository implements the UserRepository interface using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

/*
Create persists a new user record into the users table.

Description: Inserts the account and hydrates the generated ID and timestamps
back into the entity. Unique violations are translated into client-safe
Conflict errors naming the offending identity field.

Parameters:
  - context: context.Context
  - user: *User (Entity to persist)

Returns:
  - error: apperr.Conflict on duplicates, or connectivity errors
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	const query = `
		INSERT INTO users (email, username, password_hash, is_active, is_superuser, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	err := repository.pool.QueryRow(context, query,
		user.Email,
		user.Username,
		user.PasswordHash,
		user.IsActive,
		user.IsSuperuser,
		user.CreatedAt,
		user.UpdatedAt,
	).Scan(&user.ID)

	if err != nil {
		return translateInsertError(err)
	}

	return nil
}

// translateInsertError maps INSERT failures to client-safe errors. The unique
// constraints are the authoritative duplicate check for concurrent
// registrations; name the losing field in the message.
func translateInsertError(err error) error {
	if dberr.IsUniqueViolation(err, constraintUsersEmail) {
		return apperr.Conflict("Email is already registered")
	}
	if dberr.IsUniqueViolation(err, constraintUsersUsername) {
		return apperr.Conflict("Username is already taken")
	}
	return fmt.Errorf("postgres_user_repo_create_failed: %w", err)
}

/*
FindByEmail retrieves a user record by their unique email address.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	return repository.scanOne(context, query, email, "User not found with this email")
}

/*
FindByUsername retrieves a user record by their unique username.

Parameters:
  - context: context.Context
  - username: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByUsername(context context.Context, username string) (*User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE username = $1`

	return repository.scanOne(context, query, username, "User not found with this username")
}

/*
FindByID retrieves a user record by their primary key.

Parameters:
  - context: context.Context
  - id: int64

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresUserRepository) FindByID(context context.Context, id int64) (*User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	return repository.scanOne(context, query, id, "User not found")
}

// scanOne runs a single-row user query and maps pgx.ErrNoRows to NotFound.
func (repository *PostgresUserRepository) scanOne(context context.Context, query string, arg interface{}, notFoundMessage string) (*User, error) {
	user := &User{}
	err := repository.pool.QueryRow(context, query, arg).Scan(
		&user.ID,
		&user.Email,
		&user.Username,
		&user.PasswordHash,
		&user.IsActive,
		&user.IsSuperuser,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(notFoundMessage)
		}
		return nil, fmt.Errorf("postgres_user_repo_find_failed: %w", err)
	}

	return user, nil
}

/*
UpdatePassword updates only the password hash for a specific user.

Parameters:
  - context: context.Context
  - userID: int64
  - newHash: string

Returns:
  - error: Execution errors
*/
func (repository *PostgresUserRepository) UpdatePassword(context context.Context, userID int64, newHash string) error {
	const query = `UPDATE users SET password_hash = $2, updated_at = $3 WHERE id = $1`

	_, err := repository.pool.Exec(context, query, userID, newHash, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_user_repo_update_password_failed: %w", err)
	}

	return nil
}

/*
SetActive flips the active flag for a specific user.

Description: Deactivation keeps the row (and its audit timestamps) intact so
that the account can be reviewed or restored later.

Parameters:
  - context: context.Context
  - userID: int64
  - active: bool

Returns:
  - error: Execution errors
*/
func (repository *PostgresUserRepository) SetActive(context context.Context, userID int64, active bool) error {
	const query = `UPDATE users SET is_active = $2, updated_at = $3 WHERE id = $1`

	_, err := repository.pool.Exec(context, query, userID, active, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_user_repo_set_active_failed: %w", err)
	}

	return nil
}

/*
Count returns the total number of registered accounts.

Parameters:
  - context: context.Context

Returns:
  - int: Total row count
  - error: Query failures
*/
func (repository *PostgresUserRepository) Count(context context.Context) (int, error) {
	const query = `SELECT COUNT(*) FROM users`

	var total int
	if err := repository.pool.QueryRow(context, query).Scan(&total); err != nil {
		return 0, fmt.Errorf("postgres_user_repo_count_failed: %w", err)
	}

	return total, nil
}

/*
List returns a page of accounts ordered by ID.

Parameters:
  - context: context.Context
  - limit: int
  - offset: int

Returns:
  - []*User: Page of hydrated entities
  - error: Query failures
*/
func (repository *PostgresUserRepository) List(context context.Context, limit, offset int) ([]*User, error) {
	const query = `SELECT ` + userColumns + ` FROM users ORDER BY id LIMIT $1 OFFSET $2`

	rows, err := repository.pool.Query(context, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("postgres_user_repo_list_failed: %w", err)
	}
	defer rows.Close()

	users := make([]*User, 0, limit)
	for rows.Next() {
		user := &User{}
		if err := rows.Scan(
			&user.ID,
			&user.Email,
			&user.Username,
			&user.PasswordHash,
			&user.IsActive,
			&user.IsSuperuser,
			&user.CreatedAt,
			&user.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("postgres_user_repo_list_scan_failed: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_user_repo_list_rows_failed: %w", err)
	}

	return users, nil
}
