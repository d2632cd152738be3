// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Movie Night API.

# Handler Types

Each handler is a thin struct over *lobby.Service:

  - LobbyHandler: lobby creation, membership, nicknames, invite codes
  - CandidateHandler: nominating and removing candidates
  - VotingHandler: ranking submission and readiness
  - ResultsHandler: finalization, stored results, rationale
  - EventsHandler: websocket stream of lobby events

	lobbyHandler := handlers.NewLobbyHandler(svc)

Handlers read the caller from middleware.VoterID and never decide
permissions themselves; the service does.

# Errors

Service errors are mapped onto status codes in one place:

	ErrInvalidInput, ErrNoCandidates, ErrNoCompleteBallots -> 400
	ErrForbidden                                           -> 403
	ErrNotFound                                            -> 404
	ErrLobbyClosed                                         -> 409
	ErrRationaleDisabled                                   -> 503
	anything else                                          -> 500

# Finalization

POST /lobbies/{id}/finalize is idempotent. The first successful call closes
the lobby and stores the result; every later call, including concurrent
ones, returns that stored result unchanged.
*/
package handlers
