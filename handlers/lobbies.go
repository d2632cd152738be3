// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/movie-night/lobby"
	"github.com/danielhkuo/movie-night/middleware"
	"github.com/danielhkuo/movie-night/models"
)

type LobbyHandler struct {
	svc *lobby.Service
}

func NewLobbyHandler(svc *lobby.Service) *LobbyHandler {
	return &LobbyHandler{svc: svc}
}

// Me handles GET /me
func (h *LobbyHandler) Me(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, models.MeResponse{
		UserID: middleware.VoterID(r),
	})
}

// CreateLobby handles POST /lobbies
func (h *LobbyHandler) CreateLobby(w http.ResponseWriter, r *http.Request) {
	var req models.CreateLobbyRequest
	if err := parseOptionalBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	lb, err := h.svc.CreateLobby(r.Context(), middleware.VoterID(r), req.Title)
	if err != nil {
		writeServiceError(w, err, "create lobby")
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.CreateLobbyResponse{
		LobbyID: lb.ID,
		Code:    *lb.Code,
	})
}

// GetLobby handles GET /lobbies/{id}
func (h *LobbyHandler) GetLobby(w http.ResponseWriter, r *http.Request) {
	lb, err := h.svc.GetLobby(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err, "load lobby")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, lb)
}

// Join handles POST /lobbies/{id}/join
func (h *LobbyHandler) Join(w http.ResponseWriter, r *http.Request) {
	lobbyID := r.PathValue("id")

	var req models.JoinLobbyRequest
	if err := parseOptionalBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	m, err := h.svc.Join(r.Context(), lobbyID, middleware.VoterID(r), req.Nickname)
	if err != nil {
		writeServiceError(w, err, "join lobby")
		return
	}

	lb, err := h.svc.GetLobby(r.Context(), lobbyID)
	if err != nil {
		writeServiceError(w, err, "join lobby")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.JoinLobbyResponse{
		OK:       true,
		LobbyID:  lb.ID,
		Title:    lb.Title,
		Role:     m.Role,
		Nickname: m.Nickname,
	})
}

// SetNickname handles PUT /lobbies/{id}/nickname
func (h *LobbyHandler) SetNickname(w http.ResponseWriter, r *http.Request) {
	var req models.SetNicknameRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := h.svc.SetNickname(r.Context(), r.PathValue("id"), middleware.VoterID(r), req.Nickname); err != nil {
		writeServiceError(w, err, "update nickname")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.OKResponse{OK: true})
}

// Members handles GET /lobbies/{id}/members
func (h *LobbyHandler) Members(w http.ResponseWriter, r *http.Request) {
	members, err := h.svc.Members(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err, "list members")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.MembersResponse{Members: members})
}

// RegenerateCode handles POST /lobbies/{id}/code
func (h *LobbyHandler) RegenerateCode(w http.ResponseWriter, r *http.Request) {
	code, err := h.svc.RegenerateCode(r.Context(), r.PathValue("id"), middleware.VoterID(r))
	if err != nil {
		writeServiceError(w, err, "regenerate code")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.CodeResponse{Code: code})
}

// ResolveInvite handles GET /j/{code} by redirecting to the lobby page
func (h *LobbyHandler) ResolveInvite(w http.ResponseWriter, r *http.Request) {
	lb, err := h.svc.ResolveInvite(r.Context(), r.PathValue("code"))
	if err != nil {
		writeServiceError(w, err, "resolve invite")
		return
	}

	slog.Info("invite resolved", "lobby_id", lb.ID)
	http.Redirect(w, r, "/l/"+lb.ID, http.StatusFound)
}
