// Copyright (c) 2026 DataPipeline Pro. All rights reserved.
// Author: platform@datapipeline.pro

package dbinfo

import (
	"context"
	"log/slog"
	"time"

	"github.com/datapipeline/pro-api/internal/platform/ctxutil"
)

// # Service

// Service orchestrates introspection queries with a Redis read-through cache.
//
// Cache failures are never fatal: a broken cache degrades to querying
// PostgreSQL directly, logged at warn level.
type Service struct {
	store Store
	cache Cache
}

// NewService constructs a new [Service] with its dependencies.
func NewService(store Store, cache Cache) *Service {
	return &Service{store: store, cache: cache}
}

/*
Health assembles a live condition report for the database.

Description: Runs a connectivity probe, fetches the server version and the
account count, and snapshots the pool. Always executed live; a health check
that reads from cache would defeat its purpose.

Parameters:
  - context: context.Context

Returns:
  - *HealthReport: Current condition (Status "unhealthy" with Connected=false
    on probe failure rather than an error)
  - err: nil for probe failures — only internal assembly errors propagate
*/
func (service *Service) Health(context context.Context) (*HealthReport, error) {
	report := &HealthReport{
		Status:    "healthy",
		Connected: true,
		Pool:      service.store.PoolStats(),
		CheckedAt: time.Now(),
	}

	if err := service.store.Ping(context); err != nil {
		report.Status = "unhealthy"
		report.Connected = false
		return report, nil
	}

	if version, err := service.store.ServerVersion(context); err == nil {
		report.ServerVersion = version
	}

	if count, err := service.store.UserCount(context); err == nil {
		report.UserCount = count
	}

	return report, nil
}

/*
CountUsers returns the total account count, served from cache when fresh.

Parameters:
  - context: context.Context

Returns:
  - int: Total accounts
  - err: Query failures
*/
func (service *Service) CountUsers(context context.Context) (int, error) {
	var cached int
	if err := service.cache.GetJSON(context, cacheKeyUserCount, &cached); err == nil {
		return cached, nil
	}

	count, err := service.store.UserCount(context)
	if err != nil {
		return 0, err
	}

	service.populate(context, cacheKeyUserCount, count, userCountTTL)
	return count, nil
}

/*
ListUsers returns one page of public account projections plus the total.

Description: The page itself is always read live (it changes with every
registration); only the total reuses the cached count path.

Parameters:
  - context: context.Context
  - limit: int
  - offset: int

Returns:
  - []UserRecord: Page of rows
  - int: Total account count for pagination metadata
  - err: Query failures
*/
func (service *Service) ListUsers(context context.Context, limit, offset int) ([]UserRecord, int, error) {
	records, err := service.store.ListUsers(context, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	total, err := service.CountUsers(context)
	if err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

/*
Tables returns the public-schema table names, cached for a few minutes.

Parameters:
  - context: context.Context

Returns:
  - []string: Sorted table names
  - err: Query failures
*/
func (service *Service) Tables(context context.Context) ([]string, error) {
	var cached []string
	if err := service.cache.GetJSON(context, cacheKeyTables, &cached); err == nil {
		return cached, nil
	}

	names, err := service.store.TableNames(context)
	if err != nil {
		return nil, err
	}

	service.populate(context, cacheKeyTables, names, tableListTTL)
	return names, nil
}

// populate writes a cache entry, logging (never propagating) failures.
func (service *Service) populate(context context.Context, key string, value interface{}, ttl time.Duration) {
	if err := service.cache.SetJSON(context, key, value, ttl); err != nil {
		ctxutil.GetLogger(context).WarnContext(context, "dbinfo_cache_populate_failed",
			slog.String("key", key),
			slog.Any("error", err),
		)
	}
}
