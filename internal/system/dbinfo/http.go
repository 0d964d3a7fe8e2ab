// Copyright (c) 2026 DataPipeline Pro. All rights reserved.
// Author: platform@datapipeline.pro

package dbinfo

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/datapipeline/pro-api/internal/platform/respond"
	"github.com/datapipeline/pro-api/pkg/pagination"
)

// # HTTP Handler

// Handler implements the database-introspection HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] with the introspection routes.
//
// # Endpoints
//   - GET /health      : Live database condition report.
//   - GET /users/count : Total registered accounts.
//   - GET /users/list  : Paginated public account rows.
//   - GET /tables      : Public-schema table names.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/health", handler.health)
	router.Get("/users/count", handler.usersCount)
	router.Get("/users/list", handler.usersList)
	router.Get("/tables", handler.tables)

	return router
}

/*
Health reports the database's current condition.

GET /api/v1/database/health

Response:
  - 200: HealthReport: Status, version, user count, pool snapshot
*/
func (handler *Handler) health(writer http.ResponseWriter, request *http.Request) {
	report, err := handler.service.Health(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, report)
}

/*
UsersCount returns the total number of registered accounts.

GET /api/v1/database/users/count

Response:
  - 200: {total_users}
*/
func (handler *Handler) usersCount(writer http.ResponseWriter, request *http.Request) {
	total, err := handler.service.CountUsers(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]int{"total_users": total})
}

/*
UsersList returns a paginated listing of public account rows.

GET /api/v1/database/users/list?page=&limit=

Response:
  - 200: PaginatedEnvelope: rows + pagination metadata
*/
func (handler *Handler) usersList(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	records, total, err := handler.service.ListUsers(request.Context(), params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, records, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
Tables returns the table names in the public schema.

GET /api/v1/database/tables

Response:
  - 200: {tables, count}
*/
func (handler *Handler) tables(writer http.ResponseWriter, request *http.Request) {
	names, err := handler.service.Tables(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]interface{}{
		"tables": names,
		"count":  len(names),
	})
}
