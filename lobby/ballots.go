// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package lobby

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/danielhkuo/movie-night/events"
	"github.com/danielhkuo/movie-night/models"
	"github.com/danielhkuo/movie-night/tally"
)

// SubmitBallot replaces the voter's whole ranking. The ranking may be
// partial; only complete rankings are counted at finalization.
func (s *Service) SubmitBallot(ctx context.Context, lobbyID string, voter models.VoterID, ranking []string) error {
	if voter == "" {
		return fmt.Errorf("%w: voter id required", ErrInvalidInput)
	}
	if len(ranking) == 0 {
		return fmt.Errorf("%w: ranking array required", ErrInvalidInput)
	}

	lb, err := s.store.GetLobby(ctx, lobbyID)
	if err != nil {
		return err
	}
	if lb.Status != models.StatusOpen {
		return ErrLobbyClosed
	}

	candidates, err := s.store.ListCandidates(ctx, lobbyID)
	if err != nil {
		return err
	}

	valid := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		valid[c.ID] = true
	}
	seen := make(map[string]bool, len(ranking))
	for _, id := range ranking {
		if !valid[id] {
			return fmt.Errorf("%w: unknown candidate %q", ErrInvalidInput, id)
		}
		if seen[id] {
			return fmt.Errorf("%w: candidate %q ranked twice", ErrInvalidInput, id)
		}
		seen[id] = true
	}

	if err := s.store.ReplaceBallot(ctx, lobbyID, voter, ranking); err != nil {
		return err
	}

	complete := tally.IsComplete(candidateIDs(candidates), ranking)
	slog.Info("ballot submitted", "lobby_id", lobbyID, "voter_id", voter, "complete", complete)
	s.publish(events.BallotSubmitted, lobbyID, map[string]any{
		"user_id":  voter,
		"complete": complete,
	})
	return nil
}

// MyBallot returns the voter's current ranking, first choice first
func (s *Service) MyBallot(ctx context.Context, lobbyID string, voter models.VoterID) ([]string, error) {
	if _, err := s.store.GetLobby(ctx, lobbyID); err != nil {
		return nil, err
	}
	return s.store.VoterRanking(ctx, lobbyID, voter)
}

func candidateIDs(candidates []models.Candidate) []string {
	ids := make([]string, len(candidates))
	for i, c := range candidates {
		ids[i] = c.ID
	}
	return ids
}

// ballotsFromEntries groups ranking rows per voter. A voter whose positions
// are not exactly 1..k gets a nil ranking, which the tally treats as
// incomplete.
func ballotsFromEntries(entries []models.RankingEntry) []tally.Ballot {
	byVoter := make(map[models.VoterID][]models.RankingEntry)
	var order []models.VoterID
	for _, e := range entries {
		if _, ok := byVoter[e.VoterID]; !ok {
			order = append(order, e.VoterID)
		}
		byVoter[e.VoterID] = append(byVoter[e.VoterID], e)
	}

	ballots := make([]tally.Ballot, 0, len(order))
	for _, voter := range order {
		rows := byVoter[voter]
		ranking := make([]string, len(rows))
		for _, e := range rows {
			if e.Position < 1 || e.Position > len(rows) || ranking[e.Position-1] != "" {
				ranking = nil
				break
			}
			ranking[e.Position-1] = e.CandidateID
		}
		ballots = append(ballots, tally.Ballot{VoterID: string(voter), Ranking: ranking})
	}
	return ballots
}
