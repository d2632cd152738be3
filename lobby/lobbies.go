// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package lobby

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/danielhkuo/movie-night/auth"
	"github.com/danielhkuo/movie-night/events"
	"github.com/danielhkuo/movie-night/models"
)

// MaxNicknameLength bounds a member nickname, in bytes
const MaxNicknameLength = 50

// CreateLobby opens a new lobby hosted by voter with a fresh invite code.
// A blank title falls back to models.DefaultLobbyTitle.
func (s *Service) CreateLobby(ctx context.Context, voter models.VoterID, title string) (models.Lobby, error) {
	if voter == "" {
		return models.Lobby{}, fmt.Errorf("%w: voter id required", ErrInvalidInput)
	}

	title = strings.TrimSpace(title)
	if title == "" {
		title = models.DefaultLobbyTitle
	}

	lb := models.Lobby{
		ID:        s.newID(),
		Title:     title,
		Creator:   voter,
		Status:    models.StatusOpen,
		CreatedAt: s.now().UTC(),
	}

	code, err := s.allocateCode(ctx, func(code string) error {
		lb.Code = &code
		return s.store.CreateLobby(ctx, lb)
	})
	if err != nil {
		return models.Lobby{}, err
	}

	slog.Info("lobby created", "lobby_id", lb.ID, "code", code)
	return lb, nil
}

func (s *Service) GetLobby(ctx context.Context, lobbyID string) (models.Lobby, error) {
	return s.store.GetLobby(ctx, lobbyID)
}

// ResolveInvite returns the lobby an invite code points to
func (s *Service) ResolveInvite(ctx context.Context, code string) (models.Lobby, error) {
	code = strings.ToLower(strings.TrimSpace(code))
	if !auth.IsInviteCode(code) {
		return models.Lobby{}, fmt.Errorf("invite code %q: %w", code, ErrNotFound)
	}
	return s.store.GetLobbyByCode(ctx, code)
}

// Join makes voter a member of the lobby. It is idempotent: the creator is
// always the host, and a provided nickname is only stored when the member
// has none yet.
func (s *Service) Join(ctx context.Context, lobbyID string, voter models.VoterID, nickname string) (models.Member, error) {
	lb, err := s.store.GetLobby(ctx, lobbyID)
	if err != nil {
		return models.Member{}, err
	}

	nick, err := normalizeNickname(nickname)
	if err != nil {
		return models.Member{}, err
	}

	role := models.RoleGuest
	if voter == lb.Creator {
		role = models.RoleHost
	}

	m, err := s.store.UpsertMember(ctx, models.Member{
		LobbyID:  lobbyID,
		VoterID:  voter,
		Role:     role,
		Nickname: nick,
		JoinedAt: s.now().UTC(),
	})
	if err != nil {
		return models.Member{}, err
	}

	s.publish(events.MemberJoined, lobbyID, m)
	return m, nil
}

// SetNickname lets a member rename themselves
func (s *Service) SetNickname(ctx context.Context, lobbyID string, voter models.VoterID, nickname string) error {
	nick, err := normalizeNickname(nickname)
	if err != nil {
		return err
	}
	if nick == nil {
		return fmt.Errorf("%w: nickname required", ErrInvalidInput)
	}

	if err := s.store.SetNickname(ctx, lobbyID, voter, *nick); err != nil {
		return err
	}

	slog.Info("nickname updated", "lobby_id", lobbyID, "voter_id", voter)
	return nil
}

func (s *Service) Members(ctx context.Context, lobbyID string) ([]models.Member, error) {
	if _, err := s.store.GetLobby(ctx, lobbyID); err != nil {
		return nil, err
	}
	return s.store.ListMembers(ctx, lobbyID)
}

func normalizeNickname(nickname string) (*string, error) {
	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		return nil, nil
	}
	if len(nickname) > MaxNicknameLength {
		return nil, fmt.Errorf("%w: nickname must be at most %d characters", ErrInvalidInput, MaxNicknameLength)
	}
	return &nickname, nil
}

// isNotFound is a small helper so callers read naturally
func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
