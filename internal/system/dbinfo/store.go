// Copyright (c) 2026 DataPipeline Pro. All rights reserved.
// Author: platform@datapipeline.pro

package dbinfo

import (
	"context"
	"time"
)

// # Introspection Data Access

// Store defines the database introspection contract.
type Store interface {

	/*
		Ping verifies connectivity with a round-trip query.

		Parameters:
		  - context: context.Context

		Returns:
		  - error: Connectivity failures
	*/
	Ping(context context.Context) error

	/*
		ServerVersion returns the database server's version string.

		Parameters:
		  - context: context.Context

		Returns:
		  - string: Raw version() output
		  - error: Query failures
	*/
	ServerVersion(context context.Context) (string, error)

	/*
		UserCount returns the total number of account rows.

		Parameters:
		  - context: context.Context

		Returns:
		  - int: Row count
		  - error: Query failures
	*/
	UserCount(context context.Context) (int, error)

	/*
		ListUsers returns a page of public account projections ordered by ID.

		Parameters:
		  - context: context.Context
		  - limit: int
		  - offset: int

		Returns:
		  - []UserRecord: Page of rows
		  - error: Query failures
	*/
	ListUsers(context context.Context, limit, offset int) ([]UserRecord, error)

	/*
		TableNames returns the names of user tables in the public schema.

		Parameters:
		  - context: context.Context

		Returns:
		  - []string: Sorted table names
		  - error: Query failures
	*/
	TableNames(context context.Context) ([]string, error)

	// PoolStats snapshots the connection pool without touching the network.
	PoolStats() PoolStats
}

// # Volatile Cache Access

// Cache defines the read-through cache contract for introspection results.
type Cache interface {

	/*
		GetJSON loads and unmarshals a cached value into target.

		Returns:
		  - error: apperr.NotFound on a cache miss, or connectivity errors
	*/
	GetJSON(context context.Context, key string, target interface{}) error

	/*
		SetJSON marshals and stores a value under key for the given TTL.

		Returns:
		  - error: Storage failures
	*/
	SetJSON(context context.Context, key string, value interface{}, ttl time.Duration) error
}
