// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/movie-night/lobby"
	"github.com/danielhkuo/movie-night/middleware"
	"github.com/danielhkuo/movie-night/models"
)

type ResultsHandler struct {
	svc *lobby.Service
}

func NewResultsHandler(svc *lobby.Service) *ResultsHandler {
	return &ResultsHandler{svc: svc}
}

// Finalize handles POST /lobbies/{id}/finalize
// Host only. Finalizing a closed lobby returns the stored result.
func (h *ResultsHandler) Finalize(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.Finalize(r.Context(), r.PathValue("id"), middleware.VoterID(r))
	if err != nil {
		writeServiceError(w, err, "finalize lobby")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.FinalizeResponse{Result: res})
}

// GetResult handles GET /lobbies/{id}/result
func (h *ResultsHandler) GetResult(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.GetResult(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err, "load result")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, res)
}

// GetRationale handles GET /lobbies/{id}/rationale
func (h *ResultsHandler) GetRationale(w http.ResponseWriter, r *http.Request) {
	text, err := h.svc.Rationale(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err, "load rationale")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.RationaleResponse{Rationale: text})
}

// GenerateRationale handles POST /lobbies/{id}/rationale
func (h *ResultsHandler) GenerateRationale(w http.ResponseWriter, r *http.Request) {
	text, created, err := h.svc.GenerateRationale(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err, "generate rationale")
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	middleware.JSONResponse(w, status, models.RationaleResponse{Rationale: &text, Created: created})
}
