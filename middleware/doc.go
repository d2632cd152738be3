// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs request start (method, path, client_ip) and completion (status,
voter_id, duration_ms). The wrapped writer unwraps to the original so
websocket upgrades still work.

# Voter Identity

Identity gives every request an anonymous voter id stored in a signed
cookie:

	handler := middleware.Identity(cfg.IdentitySalt, cfg.CookieSecure, mux)
	voter := middleware.VoterID(r)

Tests inject a voter directly with middleware.WithVoterID.

# CORS Middleware

Enable cross-origin requests for frontend access:

	server := http.Server{
		Handler: middleware.CORS(cfg.AllowedOrigins, mux),
	}

Listed origins are echoed back with credentials allowed for methods GET,
POST, PUT, DELETE, OPTIONS. Any other origin gets no CORS headers.

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

Parse JSON request bodies:

	var req models.AddCandidateRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

# Client IP Extraction

Get the original client IP (handles X-Forwarded-For, X-Real-IP):

	ip := middleware.GetClientIP(r)
*/
package middleware
