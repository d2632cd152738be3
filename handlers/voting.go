// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/movie-night/lobby"
	"github.com/danielhkuo/movie-night/middleware"
	"github.com/danielhkuo/movie-night/models"
)

type VotingHandler struct {
	svc *lobby.Service
}

func NewVotingHandler(svc *lobby.Service) *VotingHandler {
	return &VotingHandler{svc: svc}
}

// GetRanking handles GET /lobbies/{id}/rankings
// Returns the caller's own ranking, empty if they have not voted
func (h *VotingHandler) GetRanking(w http.ResponseWriter, r *http.Request) {
	ranking, err := h.svc.MyBallot(r.Context(), r.PathValue("id"), middleware.VoterID(r))
	if err != nil {
		writeServiceError(w, err, "load ranking")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.RankingResponse{Ranking: ranking})
}

// SubmitRanking handles POST /lobbies/{id}/rankings
func (h *VotingHandler) SubmitRanking(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitRankingRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	err := h.svc.SubmitBallot(r.Context(), r.PathValue("id"), middleware.VoterID(r), req.Ranking)
	if err != nil {
		writeServiceError(w, err, "save ranking")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.OKResponse{OK: true})
}

// Progress handles GET /lobbies/{id}/progress
func (h *VotingHandler) Progress(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Progress(r.Context(), r.PathValue("id"), middleware.VoterID(r))
	if err != nil {
		writeServiceError(w, err, "load progress")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, p)
}
