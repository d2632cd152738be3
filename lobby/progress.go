// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package lobby

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/danielhkuo/movie-night/models"
)

// ComputeReadiness derives finalization readiness from current counts. A
// ballot is full when it references exactly as many distinct candidates as
// the lobby has, and the lobby has at least one candidate.
func ComputeReadiness(candidateCount, memberCount int, entries []models.RankingEntry, me models.VoterID) models.Progress {
	distinct := make(map[models.VoterID]map[string]struct{})
	for _, e := range entries {
		set := distinct[e.VoterID]
		if set == nil {
			set = make(map[string]struct{})
			distinct[e.VoterID] = set
		}
		set[e.CandidateID] = struct{}{}
	}

	p := models.Progress{
		CandidateCount: candidateCount,
		MemberCount:    memberCount,
	}
	for voter, set := range distinct {
		full := candidateCount > 0 && len(set) == candidateCount
		if !full {
			continue
		}
		p.FullBallots++
		if voter == me {
			p.MyIsFull = true
		}
	}
	p.CanFinalize = p.CandidateCount > 0 && p.FullBallots > 0
	return p
}

// Progress loads the lobby's counts and reports readiness for voter
func (s *Service) Progress(ctx context.Context, lobbyID string, voter models.VoterID) (models.Progress, error) {
	if _, err := s.store.GetLobby(ctx, lobbyID); err != nil {
		return models.Progress{}, err
	}

	var (
		candidates []models.Candidate
		members    []models.Member
		entries    []models.RankingEntry
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		candidates, err = s.store.ListCandidates(gctx, lobbyID)
		return err
	})
	g.Go(func() (err error) {
		members, err = s.store.ListMembers(gctx, lobbyID)
		return err
	})
	g.Go(func() (err error) {
		entries, err = s.store.ListEntries(gctx, lobbyID)
		return err
	})
	if err := g.Wait(); err != nil {
		return models.Progress{}, err
	}

	return ComputeReadiness(len(candidates), len(members), entries, voter), nil
}
