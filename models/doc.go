// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - CreateLobbyRequest: title
  - JoinLobbyRequest, SetNicknameRequest: nickname
  - AddCandidateRequest: title
  - SubmitRankingRequest: ranking ([]string, first choice first)

# Response Types

Types for JSON responses:

  - CreateLobbyResponse: lobby_id, code
  - JoinLobbyResponse: ok, lobby_id, title, role, nickname
  - MembersResponse, CandidatesResponse, RankingResponse
  - FinalizeResponse: result
  - CodeResponse: code
  - RationaleResponse: rationale, created
  - ErrorResponse: error, message

# Domain Types

Internal data structures:

  - VoterID: anonymous per-browser identity
  - Lobby: lobby metadata and lifecycle state
  - Candidate: a nominated option
  - Member: lobby membership with role and nickname
  - RankingEntry: one (voter, candidate, position) row of a ballot
  - Progress: readiness counts for finalization
  - Result: frozen Borda outcome with leaderboard and per-voter ballots

# Constants

Status values:

	StatusOpen   = "open"
	StatusClosed = "closed"

Roles:

	RoleHost  = "host"
	RoleGuest = "guest"

Voting method:

	MethodBorda               = "borda"
	TieBreakerPositionsThenID = "lexicographic_positions_then_id"
*/
package models
