// Package controllers holds the HTTP handlers. Controllers stay thin:
// decode, call a service, translate the error into a status code.
package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shashiranjanraj/dukaan/app/services"
	"github.com/shashiranjanraj/dukaan/pkg/response"
)

// renderError maps the service error taxonomy onto HTTP statuses.
func renderError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, services.ErrConflict):
		response.Conflict(w, err.Error())
	case errors.Is(err, services.ErrInvalidArgument):
		response.BadRequest(w, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		response.Unauthorized(w)
	default:
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
	}
}

// urlID parses the :id route parameter.
func urlID(r *http.Request) (uint, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// pageParams reads ?page= and ?limit= with sane defaults.
func pageParams(r *http.Request) (page, limit int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 25
	}
	return page, limit
}
