// Copyright (c) 2026 DataPipeline Pro. All rights reserved.
// Author: platform@datapipeline.pro

/*
Package dbinfo exposes operational visibility into the backing database.

It answers questions an operator (or a monitoring dashboard) asks in
production: is the database reachable, what server version is running, how
many accounts exist, and what tables the schema currently holds.

# Architecture

  - Service: Orchestrates introspection queries and the Redis read-through cache.
  - Store: pgx-backed queries against the live database and information_schema.
  - Cache: TTL'd Redis entries so repeated dashboard polls stay off PostgreSQL.
*/
package dbinfo

import "time"

// # Domain Types

// PoolStats is a point-in-time snapshot of the connection pool.
type PoolStats struct {
	TotalConns    int32 `json:"total_conns"`
	IdleConns     int32 `json:"idle_conns"`
	AcquiredConns int32 `json:"acquired_conns"`
	MaxConns      int32 `json:"max_conns"`
}

// HealthReport describes the database's current condition.
type HealthReport struct {
	Status        string    `json:"status"`
	Connected     bool      `json:"connected"`
	ServerVersion string    `json:"server_version,omitempty"`
	UserCount     int       `json:"user_count"`
	Pool          PoolStats `json:"pool"`
	CheckedAt     time.Time `json:"checked_at"`
}

// UserRecord is the public projection of an account row. It deliberately
// carries no credential material.
type UserRecord struct {
	ID          int64     `json:"id"`
	Email       string    `json:"email"`
	Username    string    `json:"username"`
	IsActive    bool      `json:"is_active"`
	IsSuperuser bool      `json:"is_superuser"`
	CreatedAt   time.Time `json:"created_at"`
}

// # Cache Policy

const (
	// tableListTTL bounds the staleness of the cached schema listing.
	// Schemas change on deploys, not between dashboard refreshes.
	tableListTTL = 5 * time.Minute

	// userCountTTL keeps the count fresh enough for dashboards while
	// absorbing polling bursts.
	userCountTTL = 15 * time.Second

	cacheKeyTables    = "tables"
	cacheKeyUserCount = "user_count"
)
