// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/movie-night/lobby"
	"github.com/danielhkuo/movie-night/middleware"
	"github.com/danielhkuo/movie-night/models"
)

type CandidateHandler struct {
	svc *lobby.Service
}

func NewCandidateHandler(svc *lobby.Service) *CandidateHandler {
	return &CandidateHandler{svc: svc}
}

// List handles GET /lobbies/{id}/candidates
func (h *CandidateHandler) List(w http.ResponseWriter, r *http.Request) {
	candidates, err := h.svc.Candidates(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err, "list candidates")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.CandidatesResponse{Candidates: candidates})
}

// Add handles POST /lobbies/{id}/candidates
func (h *CandidateHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req models.AddCandidateRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	c, err := h.svc.AddCandidate(r.Context(), r.PathValue("id"), middleware.VoterID(r), req.Title)
	if err != nil {
		writeServiceError(w, err, "add candidate")
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.AddCandidateResponse{CandidateID: c.ID})
}

// Remove handles DELETE /lobbies/{id}/candidates/{cid}
func (h *CandidateHandler) Remove(w http.ResponseWriter, r *http.Request) {
	err := h.svc.RemoveCandidate(r.Context(), r.PathValue("id"), middleware.VoterID(r), r.PathValue("cid"))
	if err != nil {
		writeServiceError(w, err, "remove candidate")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.OKResponse{OK: true})
}
