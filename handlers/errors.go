// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/movie-night/lobby"
	"github.com/danielhkuo/movie-night/middleware"
)

// writeServiceError maps a lobby.Service error onto a JSON error response.
// Unexpected errors are logged and reported as failure to do action.
func writeServiceError(w http.ResponseWriter, err error, action string) {
	switch {
	case errors.Is(err, lobby.ErrInvalidInput),
		errors.Is(err, lobby.ErrNoCandidates),
		errors.Is(err, lobby.ErrNoCompleteBallots):
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, lobby.ErrForbidden):
		middleware.ErrorResponse(w, http.StatusForbidden, err.Error())
	case errors.Is(err, lobby.ErrNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, err.Error())
	case errors.Is(err, lobby.ErrLobbyClosed):
		middleware.ErrorResponse(w, http.StatusConflict, err.Error())
	case errors.Is(err, lobby.ErrRationaleDisabled):
		middleware.ErrorResponse(w, http.StatusServiceUnavailable, err.Error())
	default:
		slog.Error("request failed", "action", action, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to "+action)
	}
}

// parseOptionalBody decodes a JSON body if one was sent. An empty body
// leaves v untouched.
func parseOptionalBody(r *http.Request, v interface{}) error {
	err := middleware.ParseJSONBody(r, v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
