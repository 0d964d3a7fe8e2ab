// Copyright (c) 2026 DataPipeline Pro. All rights reserved.
// Author: platform@datapipeline.pro

// Meta endpoints: service banner, runtime info, and a development-only
// configuration echo.

package api

import (
	"net/http"

	"github.com/datapipeline/pro-api/internal/platform/apperr"
	"github.com/datapipeline/pro-api/internal/platform/config"
	"github.com/datapipeline/pro-api/internal/platform/constants"
	"github.com/datapipeline/pro-api/internal/platform/respond"
)

// MetaHandler serves the service-level informational endpoints.
type MetaHandler struct {
	cfg *config.Config
}

// NewMetaHandler constructs a [MetaHandler] bound to the loaded configuration.
func NewMetaHandler(cfg *config.Config) *MetaHandler {
	return &MetaHandler{cfg: cfg}
}

/*
Root serves the service banner.

GET /

Response:
  - 200: {app, version, environment, status}
*/
func (handler *MetaHandler) Root(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, map[string]string{
		constants.FieldApp:     handler.cfg.AppName,
		constants.FieldVersion: constants.AppVersion,
		"environment":          handler.cfg.Environment,
		constants.FieldStatus:  "running",
	})
}

/*
Info serves a non-sensitive runtime summary.

GET /info

Response:
  - 200: Non-sensitive configuration facts (never secrets or DSNs)
*/
func (handler *MetaHandler) Info(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, map[string]any{
		constants.FieldApp:     handler.cfg.AppName,
		constants.FieldVersion: constants.AppVersion,
		"environment":          handler.cfg.Environment,
		"debug":                handler.cfg.Debug,
		"access_token_ttl":     handler.cfg.AccessTokenTTL.String(),
		"refresh_token_ttl":    handler.cfg.RefreshTokenTTL.String(),
		"rate_limit_per_min":   handler.cfg.RateLimitPerMinute,
	})
}

/*
ConfigTest echoes configuration state for local debugging.

GET /config/test

Description: Only answers in development; any other environment gets 403.
Secrets and connection strings are reported as booleans (set / not set),
never as values.

Response:
  - 200: Configuration echo (development only)
  - 403: ErrForbidden: Disabled outside development
*/
func (handler *MetaHandler) ConfigTest(writer http.ResponseWriter, request *http.Request) {
	if !handler.cfg.IsDevelopment() {
		respond.Error(writer, request, apperr.Forbidden("Endpoint disabled outside development"))
		return
	}

	respond.OK(writer, map[string]any{
		"environment":       handler.cfg.Environment,
		"debug":             handler.cfg.Debug,
		"server_port":       handler.cfg.ServerPort,
		"database_url_set":  handler.cfg.DatabaseURL != "",
		"redis_url_set":     handler.cfg.RedisURL != "",
		"secret_key_set":    handler.cfg.SecretKey != "",
		"secret_key_length": len(handler.cfg.SecretKey),
		"bcrypt_rounds":     handler.cfg.BcryptCost,
		"migration_path":    handler.cfg.MigrationPath,
		"allowed_hosts":     handler.cfg.AllowedHosts,
	})
}
