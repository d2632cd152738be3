package models

import "time"

// VoterID is the anonymous per-browser identity of a caller
type VoterID string

// Lobby status constants
const (
	StatusOpen   = "open"
	StatusClosed = "closed"
)

// Member roles
const (
	RoleHost  = "host"
	RoleGuest = "guest"
)

// Voting method constants
const (
	MethodBorda               = "borda"
	TieBreakerPositionsThenID = "lexicographic_positions_then_id"
)

const DefaultLobbyTitle = "Movie night"

// Request types

type CreateLobbyRequest struct {
	Title string `json:"title"`
}

type JoinLobbyRequest struct {
	Nickname string `json:"nickname"`
}

type SetNicknameRequest struct {
	Nickname string `json:"nickname"`
}

type AddCandidateRequest struct {
	Title string `json:"title"`
}

// candidate IDs, first choice first
type SubmitRankingRequest struct {
	Ranking []string `json:"ranking"`
}

// Response types

type CreateLobbyResponse struct {
	LobbyID string `json:"lobby_id"`
	Code    string `json:"code"`
}

type JoinLobbyResponse struct {
	OK       bool    `json:"ok"`
	LobbyID  string  `json:"lobby_id"`
	Title    string  `json:"title"`
	Role     string  `json:"role"`
	Nickname *string `json:"nickname"`
}

type MembersResponse struct {
	Members []Member `json:"members"`
}

type CandidatesResponse struct {
	Candidates []Candidate `json:"candidates"`
}

type AddCandidateResponse struct {
	CandidateID string `json:"candidate_id"`
}

type RankingResponse struct {
	Ranking []string `json:"ranking"`
}

type FinalizeResponse struct {
	Result Result `json:"result"`
}

type CodeResponse struct {
	Code string `json:"code"`
}

type RationaleResponse struct {
	Rationale *string `json:"rationale"`
	Created   bool    `json:"created"`
}

type MeResponse struct {
	UserID VoterID `json:"user_id"`
}

type OKResponse struct {
	OK bool `json:"ok"`
}

// Domain types

type Lobby struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Creator   VoterID    `json:"creator"`
	Status    string     `json:"status"`
	Code      *string    `json:"code,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	ClosedAt  *time.Time `json:"closed_at,omitempty"`
}

type Candidate struct {
	ID        string    `json:"id"`
	LobbyID   string    `json:"lobby_id"`
	Title     string    `json:"title"`
	AddedBy   VoterID   `json:"added_by"`
	CreatedAt time.Time `json:"created_at"`
}

type Member struct {
	LobbyID  string    `json:"lobby_id"`
	VoterID  VoterID   `json:"user_id"`
	Role     string    `json:"role"`
	Nickname *string   `json:"nickname"`
	JoinedAt time.Time `json:"joined_at"`
}

// RankingEntry is one row of a voter's ballot. Position is 1-indexed.
type RankingEntry struct {
	LobbyID     string  `json:"lobby_id"`
	VoterID     VoterID `json:"user_id"`
	CandidateID string  `json:"candidate_id"`
	Position    int     `json:"position"`
}

// Progress reports whether a lobby can be finalized
type Progress struct {
	CandidateCount int  `json:"candidate_count"`
	MemberCount    int  `json:"member_count"`
	FullBallots    int  `json:"full_ballots"`
	MyIsFull       bool `json:"my_is_full"`
	CanFinalize    bool `json:"can_finalize"`
}

// Result Types

type LeaderboardEntry struct {
	CandidateID string `json:"candidate_id"`
	Title       string `json:"title"`
	Score       int    `json:"score"`
	FirstPlace  int    `json:"first_place"`
	Histogram   []int  `json:"histogram"`
	Rank        int    `json:"rank"` // 1-indexed ranking
}

type VoterBallot struct {
	VoterID  VoterID  `json:"user_id"`
	Nickname *string  `json:"nickname"`
	Ranking  []string `json:"ranking"`
}

// Result is the frozen outcome of a finalized lobby
type Result struct {
	LobbyID           string             `json:"lobby_id"`
	Method            string             `json:"method"`
	TieBreaker        string             `json:"tie_breaker"`
	WinnerCandidateID string             `json:"winner_candidate_id"`
	Scores            map[string]int     `json:"scores"`
	Leaderboard       []LeaderboardEntry `json:"leaderboard"`
	Ballots           []VoterBallot      `json:"ballots"`
	Rationale         *string            `json:"rationale"`
	ComputedAt        time.Time          `json:"computed_at"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
