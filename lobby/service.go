// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package lobby

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/danielhkuo/movie-night/auth"
	"github.com/danielhkuo/movie-night/events"
	"github.com/danielhkuo/movie-night/models"
)

// Store is the relational storage the service runs against.
//
// Lookups of a missing lobby, member, candidate or result return an error
// matching ErrNotFound. Writes that collide on the invite code return an
// error matching ErrCodeTaken.
type Store interface {
	// CreateLobby inserts lb and its creator as the host member
	CreateLobby(ctx context.Context, lb models.Lobby) error
	GetLobby(ctx context.Context, lobbyID string) (models.Lobby, error)
	GetLobbyByCode(ctx context.Context, code string) (models.Lobby, error)
	SetLobbyCode(ctx context.Context, lobbyID, code string) error

	// UpsertMember inserts m if absent. An existing member keeps its role
	// and only gains a nickname when it had none.
	UpsertMember(ctx context.Context, m models.Member) (models.Member, error)
	SetNickname(ctx context.Context, lobbyID string, voter models.VoterID, nickname string) error
	ListMembers(ctx context.Context, lobbyID string) ([]models.Member, error)

	AddCandidate(ctx context.Context, c models.Candidate) error
	ListCandidates(ctx context.Context, lobbyID string) ([]models.Candidate, error)
	// DeleteCandidate removes the candidate together with the whole ballot
	// of every voter who ranked it.
	DeleteCandidate(ctx context.Context, lobbyID, candidateID string) error

	// ReplaceBallot deletes the voter's entries and inserts ranking in a
	// single transaction. It fails with ErrLobbyClosed once the lobby has
	// closed, checked under the same transaction.
	ReplaceBallot(ctx context.Context, lobbyID string, voter models.VoterID, ranking []string) error
	ListEntries(ctx context.Context, lobbyID string) ([]models.RankingEntry, error)
	VoterRanking(ctx context.Context, lobbyID string, voter models.VoterID) ([]string, error)

	GetResult(ctx context.Context, lobbyID string) (models.Result, error)

	// CommitResult upserts res and closes its lobby in one transaction. The
	// close is a compare-and-swap on status = 'open'; when it loses, nothing
	// is written and the stored result is returned with committed = false.
	CommitResult(ctx context.Context, res models.Result, closedAt time.Time) (stored models.Result, committed bool, err error)

	// SetRationale stores text only if the result has no rationale yet and
	// returns the rationale that is stored afterwards.
	SetRationale(ctx context.Context, lobbyID, text string) (string, error)
}

// Publisher receives domain events after the write they describe has
// committed.
type Publisher interface {
	Publish(e events.Event)
}

// RationaleWriter produces the human-readable explanation of a result. The
// leaderboard carries candidate titles as they were at finalization.
type RationaleWriter interface {
	Rationale(ctx context.Context, res models.Result) (string, error)
}

type Service struct {
	store   Store
	events  Publisher
	writer  RationaleWriter
	now     func() time.Time
	newID   func() string
	newCode func() (string, error)

	finalizing singleflight.Group
}

type Option func(*Service)

// WithClock overrides time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithCodeGenerator overrides the invite code source
func WithCodeGenerator(gen func() (string, error)) Option {
	return func(s *Service) { s.newCode = gen }
}

func NewService(store Store, pub Publisher, writer RationaleWriter, opts ...Option) *Service {
	s := &Service{
		store:   store,
		events:  pub,
		writer:  writer,
		now:     time.Now,
		newID:   auth.NewID,
		newCode: auth.GenerateInviteCode,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) publish(t events.Type, lobbyID string, payload any) {
	if s.events == nil {
		return
	}
	s.events.Publish(events.Event{
		Type:    t,
		LobbyID: lobbyID,
		Payload: payload,
		At:      s.now().UTC(),
	})
}

// requireHost loads the lobby and checks that caller created it
func (s *Service) requireHost(ctx context.Context, lobbyID string, caller models.VoterID) (models.Lobby, error) {
	lb, err := s.store.GetLobby(ctx, lobbyID)
	if err != nil {
		return models.Lobby{}, err
	}
	if lb.Creator != caller {
		return models.Lobby{}, ErrForbidden
	}
	return lb, nil
}
