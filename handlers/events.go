// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/coder/websocket"

	"github.com/danielhkuo/movie-night/events"
	"github.com/danielhkuo/movie-night/lobby"
	"github.com/danielhkuo/movie-night/middleware"
)

type EventsHandler struct {
	svc  *lobby.Service
	hub  *events.Hub
	opts *websocket.AcceptOptions
}

// NewEventsHandler serves lobby events from hub. opts may be nil, which
// only accepts same-origin upgrades.
func NewEventsHandler(svc *lobby.Service, hub *events.Hub, opts *websocket.AcceptOptions) *EventsHandler {
	return &EventsHandler{svc: svc, hub: hub, opts: opts}
}

// Stream handles GET /lobbies/{id}/events
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	lobbyID := r.PathValue("id")
	if _, err := h.svc.GetLobby(r.Context(), lobbyID); err != nil {
		writeServiceError(w, err, "open event stream")
		return
	}

	sub := h.hub.Subscribe(lobbyID)
	if sub == nil {
		middleware.ErrorResponse(w, http.StatusServiceUnavailable, "Server is shutting down")
		return
	}

	slog.Info("event stream opened",
		"lobby_id", lobbyID,
		"voter_id", middleware.VoterID(r),
		"subscribers", h.hub.Subscribers(lobbyID),
	)
	if err := events.ServeWS(w, r, sub, h.opts); err != nil {
		slog.Warn("event stream ended", "lobby_id", lobbyID, "error", err)
	}
}
