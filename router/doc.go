// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Movie Night API.

NewRouter returns the mux wrapped in CORS and voter identity middleware:

	handler := router.NewRouter(svc, hub, cfg)

# Endpoints

	GET    /health
	GET    /me
	POST   /lobbies
	GET    /lobbies/{id}
	POST   /lobbies/{id}/join
	PUT    /lobbies/{id}/nickname
	GET    /lobbies/{id}/members
	POST   /lobbies/{id}/code               host only
	GET    /lobbies/{id}/candidates
	POST   /lobbies/{id}/candidates
	DELETE /lobbies/{id}/candidates/{cid}   host only
	GET    /lobbies/{id}/rankings
	POST   /lobbies/{id}/rankings
	GET    /lobbies/{id}/progress
	POST   /lobbies/{id}/finalize           host only
	GET    /lobbies/{id}/result
	GET    /lobbies/{id}/rationale
	POST   /lobbies/{id}/rationale
	GET    /lobbies/{id}/events             websocket
	GET    /j/{code}                        redirects to /l/{id}
*/
package router
