// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package lobby

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/danielhkuo/movie-night/events"
	"github.com/danielhkuo/movie-night/models"
)

// MaxCandidateTitleLength bounds a candidate title, in bytes
const MaxCandidateTitleLength = 200

// AddCandidate nominates a title. Any caller may nominate while the lobby
// is open.
func (s *Service) AddCandidate(ctx context.Context, lobbyID string, voter models.VoterID, title string) (models.Candidate, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return models.Candidate{}, fmt.Errorf("%w: title required", ErrInvalidInput)
	}
	if len(title) > MaxCandidateTitleLength {
		return models.Candidate{}, fmt.Errorf("%w: title must be at most %d characters", ErrInvalidInput, MaxCandidateTitleLength)
	}

	lb, err := s.store.GetLobby(ctx, lobbyID)
	if err != nil {
		return models.Candidate{}, err
	}
	if lb.Status != models.StatusOpen {
		return models.Candidate{}, ErrLobbyClosed
	}

	c := models.Candidate{
		ID:        s.newID(),
		LobbyID:   lobbyID,
		Title:     title,
		AddedBy:   voter,
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.AddCandidate(ctx, c); err != nil {
		return models.Candidate{}, err
	}

	slog.Info("candidate added", "lobby_id", lobbyID, "candidate_id", c.ID)
	s.publish(events.CandidateAdded, lobbyID, c)
	return c, nil
}

func (s *Service) Candidates(ctx context.Context, lobbyID string) ([]models.Candidate, error) {
	if _, err := s.store.GetLobby(ctx, lobbyID); err != nil {
		return nil, err
	}
	return s.store.ListCandidates(ctx, lobbyID)
}

// RemoveCandidate hard-deletes a candidate together with the whole ballot
// of every voter who ranked it. Host only; those voters must rank again.
func (s *Service) RemoveCandidate(ctx context.Context, lobbyID string, caller models.VoterID, candidateID string) error {
	if _, err := s.requireHost(ctx, lobbyID, caller); err != nil {
		return err
	}

	if err := s.store.DeleteCandidate(ctx, lobbyID, candidateID); err != nil {
		return err
	}

	slog.Info("candidate removed", "lobby_id", lobbyID, "candidate_id", candidateID)
	s.publish(events.CandidateRemoved, lobbyID, map[string]string{"candidate_id": candidateID})
	return nil
}
