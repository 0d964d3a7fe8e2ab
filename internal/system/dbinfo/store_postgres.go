// Copyright (c) 2026 DataPipeline Pro. All rights reserved.
// Author: platform@datapipeline.pro

package dbinfo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/datapipeline/pro-api/internal/platform/dberr"
)

// # Postgres Store

// PostgresStore implements the [Store] contract over the shared pgx pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a pgx-backed introspection store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

/*
Ping verifies connectivity with a SELECT 1 round trip.

Parameters:
  - context: context.Context

Returns:
  - error: Connectivity failures
*/
func (store *PostgresStore) Ping(context context.Context) error {
	var one int
	if err := store.pool.QueryRow(context, "SELECT 1").Scan(&one); err != nil {
		return dberr.Wrap(fmt.Errorf("dbinfo_store_ping_failed: %w", err), "Database")
	}
	return nil
}

/*
ServerVersion returns the raw version() string of the connected server.

Parameters:
  - context: context.Context

Returns:
  - string: e.g. "PostgreSQL 16.4 on x86_64-pc-linux-gnu..."
  - error: Query failures
*/
func (store *PostgresStore) ServerVersion(context context.Context) (string, error) {
	var version string
	if err := store.pool.QueryRow(context, "SELECT version()").Scan(&version); err != nil {
		return "", dberr.Wrap(fmt.Errorf("dbinfo_store_version_failed: %w", err), "Database version")
	}
	return version, nil
}

/*
UserCount returns the total number of account rows.

Parameters:
  - context: context.Context

Returns:
  - int: Row count
  - error: Query failures
*/
func (store *PostgresStore) UserCount(context context.Context) (int, error) {
	var total int
	if err := store.pool.QueryRow(context, "SELECT COUNT(*) FROM users").Scan(&total); err != nil {
		return 0, dberr.Wrap(fmt.Errorf("dbinfo_store_user_count_failed: %w", err), "User count")
	}
	return total, nil
}

/*
ListUsers returns a page of public account projections ordered by ID.

Description: Selects only non-sensitive columns; the password hash never
leaves the database through this path.

Parameters:
  - context: context.Context
  - limit: int
  - offset: int

Returns:
  - []UserRecord: Page of rows
  - error: Query failures
*/
func (store *PostgresStore) ListUsers(context context.Context, limit, offset int) ([]UserRecord, error) {
	const query = `
		SELECT id, email, username, is_active, is_superuser, created_at
		FROM users
		ORDER BY id
		LIMIT $1 OFFSET $2`

	rows, err := store.pool.Query(context, query, limit, offset)
	if err != nil {
		return nil, dberr.Wrap(fmt.Errorf("dbinfo_store_list_users_failed: %w", err), "User listing")
	}
	defer rows.Close()

	records := make([]UserRecord, 0, limit)
	for rows.Next() {
		var record UserRecord
		if err := rows.Scan(
			&record.ID,
			&record.Email,
			&record.Username,
			&record.IsActive,
			&record.IsSuperuser,
			&record.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("dbinfo_store_list_users_scan_failed: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("dbinfo_store_list_users_rows_failed: %w", err)
	}

	return records, nil
}

/*
TableNames returns the names of user tables in the public schema.

Parameters:
  - context: context.Context

Returns:
  - []string: Sorted table names
  - error: Query failures
*/
func (store *PostgresStore) TableNames(context context.Context) ([]string, error) {
	const query = `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = 'public' AND table_type = 'BASE TABLE'
		ORDER BY table_name`

	rows, err := store.pool.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(fmt.Errorf("dbinfo_store_tables_failed: %w", err), "Table listing")
	}
	defer rows.Close()

	names := make([]string, 0, 8)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("dbinfo_store_tables_scan_failed: %w", err)
		}
		names = append(names, name)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("dbinfo_store_tables_rows_failed: %w", err)
	}

	return names, nil
}

// PoolStats snapshots the pgx pool counters.
func (store *PostgresStore) PoolStats() PoolStats {
	stat := store.pool.Stat()
	return PoolStats{
		TotalConns:    stat.TotalConns(),
		IdleConns:     stat.IdleConns(),
		AcquiredConns: stat.AcquiredConns(),
		MaxConns:      stat.MaxConns(),
	}
}
