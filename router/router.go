// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"
	"net/url"

	"github.com/coder/websocket"

	"github.com/danielhkuo/movie-night/cliparse"
	"github.com/danielhkuo/movie-night/events"
	"github.com/danielhkuo/movie-night/handlers"
	"github.com/danielhkuo/movie-night/lobby"
	"github.com/danielhkuo/movie-night/middleware"
)

func NewRouter(svc *lobby.Service, hub *events.Hub, cfg cliparse.Config) http.Handler {
	mux := http.NewServeMux()

	// Initialize handlers
	lobbyHandler := handlers.NewLobbyHandler(svc)
	candidateHandler := handlers.NewCandidateHandler(svc)
	votingHandler := handlers.NewVotingHandler(svc)
	resultsHandler := handlers.NewResultsHandler(svc)
	eventsHandler := handlers.NewEventsHandler(svc, hub, &websocket.AcceptOptions{
		OriginPatterns: originHosts(cfg.AllowedOrigins),
	})

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	mux.HandleFunc("GET /me", middleware.WithLogging(lobbyHandler.Me))

	// Lobbies and membership
	mux.HandleFunc("POST /lobbies", middleware.WithLogging(lobbyHandler.CreateLobby))
	mux.HandleFunc("GET /lobbies/{id}", middleware.WithLogging(lobbyHandler.GetLobby))
	mux.HandleFunc("POST /lobbies/{id}/join", middleware.WithLogging(lobbyHandler.Join))
	mux.HandleFunc("PUT /lobbies/{id}/nickname", middleware.WithLogging(lobbyHandler.SetNickname))
	mux.HandleFunc("GET /lobbies/{id}/members", middleware.WithLogging(lobbyHandler.Members))
	mux.HandleFunc("POST /lobbies/{id}/code", middleware.WithLogging(lobbyHandler.RegenerateCode))
	mux.HandleFunc("GET /j/{code}", middleware.WithLogging(lobbyHandler.ResolveInvite))

	// Candidates
	mux.HandleFunc("GET /lobbies/{id}/candidates", middleware.WithLogging(candidateHandler.List))
	mux.HandleFunc("POST /lobbies/{id}/candidates", middleware.WithLogging(candidateHandler.Add))
	mux.HandleFunc("DELETE /lobbies/{id}/candidates/{cid}", middleware.WithLogging(candidateHandler.Remove))

	// Voting
	mux.HandleFunc("GET /lobbies/{id}/rankings", middleware.WithLogging(votingHandler.GetRanking))
	mux.HandleFunc("POST /lobbies/{id}/rankings", middleware.WithLogging(votingHandler.SubmitRanking))
	mux.HandleFunc("GET /lobbies/{id}/progress", middleware.WithLogging(votingHandler.Progress))

	// Results
	mux.HandleFunc("POST /lobbies/{id}/finalize", middleware.WithLogging(resultsHandler.Finalize))
	mux.HandleFunc("GET /lobbies/{id}/result", middleware.WithLogging(resultsHandler.GetResult))
	mux.HandleFunc("GET /lobbies/{id}/rationale", middleware.WithLogging(resultsHandler.GetRationale))
	mux.HandleFunc("POST /lobbies/{id}/rationale", middleware.WithLogging(resultsHandler.GenerateRationale))

	// Live updates
	mux.HandleFunc("GET /lobbies/{id}/events", middleware.WithLogging(eventsHandler.Stream))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("movie-night API v1"))
	})

	return middleware.CORS(cfg.AllowedOrigins, middleware.Identity(cfg.IdentitySalt, cfg.CookieSecure, mux))
}

// originHosts turns allowed origins into websocket origin patterns, which
// match on host only
func originHosts(origins []string) []string {
	hosts := make([]string, 0, len(origins))
	for _, o := range origins {
		if u, err := url.Parse(o); err == nil && u.Host != "" {
			hosts = append(hosts, u.Host)
		}
	}
	return hosts
}
