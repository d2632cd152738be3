// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package lobby

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/danielhkuo/movie-night/events"
	"github.com/danielhkuo/movie-night/models"
	"github.com/danielhkuo/movie-night/tally"
)

// Finalize scores the lobby and closes it. Host only.
//
// A closed lobby returns its stored result unchanged, so retries and
// concurrent calls converge on one result. An open lobby is always tallied
// from scratch, even if a result row is already stored.
func (s *Service) Finalize(ctx context.Context, lobbyID string, caller models.VoterID) (models.Result, error) {
	// Collapsed callers share one run; it must outlive the first caller
	// going away.
	shared := context.WithoutCancel(ctx)
	v, err, collapsed := s.finalizing.Do(lobbyID+"\x00"+string(caller), func() (any, error) {
		return s.finalize(shared, lobbyID, caller)
	})
	if err != nil {
		return models.Result{}, err
	}
	if collapsed {
		slog.Debug("finalize call collapsed", "lobby_id", lobbyID)
	}
	return v.(models.Result), nil
}

func (s *Service) finalize(ctx context.Context, lobbyID string, caller models.VoterID) (models.Result, error) {
	lb, err := s.requireHost(ctx, lobbyID, caller)
	if err != nil {
		return models.Result{}, err
	}

	if lb.Status == models.StatusClosed {
		res, err := s.store.GetResult(ctx, lobbyID)
		if isNotFound(err) {
			return models.Result{}, fmt.Errorf("closed lobby %s has no stored result", lobbyID)
		}
		return res, err
	}

	candidates, err := s.store.ListCandidates(ctx, lobbyID)
	if err != nil {
		return models.Result{}, err
	}
	if len(candidates) == 0 {
		return models.Result{}, ErrNoCandidates
	}

	entries, err := s.store.ListEntries(ctx, lobbyID)
	if err != nil {
		return models.Result{}, err
	}
	members, err := s.store.ListMembers(ctx, lobbyID)
	if err != nil {
		return models.Result{}, err
	}

	ballots := ballotsFromEntries(entries)
	outcome, err := tally.Compute(candidateIDs(candidates), ballots)
	if err != nil {
		return models.Result{}, err
	}

	now := s.now().UTC()
	res := buildResult(lobbyID, outcome, candidates, members, ballots)
	res.ComputedAt = now

	stored, committed, err := s.store.CommitResult(ctx, res, now)
	if err != nil {
		return models.Result{}, err
	}

	if !committed {
		slog.Info("lobby already closed by a concurrent finalize", "lobby_id", lobbyID)
		return stored, nil
	}

	slog.Info("lobby closed",
		"lobby_id", lobbyID,
		"winner", stored.WinnerCandidateID,
		"counted", len(outcome.Counted),
		"excluded", len(outcome.Excluded),
	)
	s.publish(events.LobbyClosed, lobbyID, map[string]string{
		"winner_candidate_id": stored.WinnerCandidateID,
	})
	return stored, nil
}

// GetResult returns the committed result of a lobby
func (s *Service) GetResult(ctx context.Context, lobbyID string) (models.Result, error) {
	return s.store.GetResult(ctx, lobbyID)
}

func buildResult(lobbyID string, outcome tally.Outcome, candidates []models.Candidate, members []models.Member, ballots []tally.Ballot) models.Result {
	titles := make(map[string]string, len(candidates))
	for _, c := range candidates {
		titles[c.ID] = c.Title
	}

	leaderboard := make([]models.LeaderboardEntry, len(outcome.Ranking))
	for i, st := range outcome.Ranking {
		leaderboard[i] = models.LeaderboardEntry{
			CandidateID: st.CandidateID,
			Title:       titles[st.CandidateID],
			Score:       st.Score,
			FirstPlace:  st.FirstPlace,
			Histogram:   st.Histogram,
			Rank:        st.Rank,
		}
	}

	nicknames := make(map[models.VoterID]*string, len(members))
	for _, m := range members {
		nicknames[m.VoterID] = m.Nickname
	}

	counted := make(map[string]bool, len(outcome.Counted))
	for _, id := range outcome.Counted {
		counted[id] = true
	}

	voterBallots := make([]models.VoterBallot, 0, len(outcome.Counted))
	for _, b := range ballots {
		if !counted[b.VoterID] {
			continue
		}
		voter := models.VoterID(b.VoterID)
		voterBallots = append(voterBallots, models.VoterBallot{
			VoterID:  voter,
			Nickname: nicknames[voter],
			Ranking:  b.Ranking,
		})
	}
	sort.Slice(voterBallots, func(i, j int) bool {
		return voterBallots[i].VoterID < voterBallots[j].VoterID
	})

	return models.Result{
		LobbyID:           lobbyID,
		Method:            models.MethodBorda,
		TieBreaker:        models.TieBreakerPositionsThenID,
		WinnerCandidateID: outcome.Winner,
		Scores:            outcome.Scores,
		Leaderboard:       leaderboard,
		Ballots:           voterBallots,
	}
}
