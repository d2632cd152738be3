// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tally

import (
	"errors"
	"fmt"
	"sort"
)

const (
	Method     = "borda"
	TieBreaker = "lexicographic_positions_then_id"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNoCompleteBallots = errors.New("no complete ballots")
)

// Ballot is one voter's ranking. Ranking[0] is the voter's first choice.
type Ballot struct {
	VoterID string
	Ranking []string
}

// Standing is a candidate's place in the final order
type Standing struct {
	CandidateID string
	Score       int
	FirstPlace  int
	Histogram   []int // Histogram[i] counts ballots placing the candidate at rank i+1
	Rank        int   // 1-indexed
}

// Outcome is the result of a tally. Ranking is ordered best first and
// Winner is Ranking[0].CandidateID.
type Outcome struct {
	Winner   string
	Scores   map[string]int
	Ranking  []Standing
	Counted  []string // voter IDs whose ballots were scored, ascending
	Excluded []string // voter IDs whose ballots were incomplete, ascending
}

// IsComplete reports whether ranking is a permutation of candidates.
func IsComplete(candidates, ranking []string) bool {
	if len(candidates) == 0 || len(ranking) != len(candidates) {
		return false
	}

	valid := make(map[string]bool, len(candidates))
	for _, id := range candidates {
		valid[id] = true
	}

	seen := make(map[string]bool, len(ranking))
	for _, id := range ranking {
		if !valid[id] || seen[id] {
			return false
		}
		seen[id] = true
	}
	return true
}

// Compute runs a Borda count over the complete ballots.
//
// With N candidates, rank p earns N-p+1 points. Ties on score are broken by
// comparing the rank histograms left to right (more first places wins, then
// more second places, ...) and finally by ascending candidate ID. Ballots
// that are not a permutation of candidates are excluded whole.
func Compute(candidates []string, ballots []Ballot) (Outcome, error) {
	if len(candidates) == 0 {
		return Outcome{}, fmt.Errorf("%w: no candidates", ErrInvalidInput)
	}

	n := len(candidates)
	stats := make(map[string]*Standing, n)
	for _, id := range candidates {
		if id == "" {
			return Outcome{}, fmt.Errorf("%w: empty candidate id", ErrInvalidInput)
		}
		if _, dup := stats[id]; dup {
			return Outcome{}, fmt.Errorf("%w: duplicate candidate %s", ErrInvalidInput, id)
		}
		stats[id] = &Standing{CandidateID: id, Histogram: make([]int, n)}
	}

	voters := make(map[string]bool, len(ballots))
	var counted, excluded []string
	for _, b := range ballots {
		if voters[b.VoterID] {
			return Outcome{}, fmt.Errorf("%w: more than one ballot for voter %s", ErrInvalidInput, b.VoterID)
		}
		voters[b.VoterID] = true

		if !IsComplete(candidates, b.Ranking) {
			excluded = append(excluded, b.VoterID)
			continue
		}
		counted = append(counted, b.VoterID)

		for idx, id := range b.Ranking {
			s := stats[id]
			s.Score += n - idx
			s.Histogram[idx]++
		}
	}

	if len(counted) == 0 {
		return Outcome{}, fmt.Errorf("%w: %d ballots, none rank all %d candidates",
			ErrNoCompleteBallots, len(ballots), n)
	}

	ranking := make([]Standing, 0, n)
	for _, s := range stats {
		s.FirstPlace = s.Histogram[0]
		ranking = append(ranking, *s)
	}

	sort.Slice(ranking, func(i, j int) bool {
		return less(ranking[i], ranking[j])
	})

	scores := make(map[string]int, n)
	for i := range ranking {
		ranking[i].Rank = i + 1
		scores[ranking[i].CandidateID] = ranking[i].Score
	}

	sort.Strings(counted)
	sort.Strings(excluded)

	return Outcome{
		Winner:   ranking[0].CandidateID,
		Scores:   scores,
		Ranking:  ranking,
		Counted:  counted,
		Excluded: excluded,
	}, nil
}

// less orders a before b
func less(a, b Standing) bool {
	// 1. Higher total score
	if a.Score != b.Score {
		return a.Score > b.Score
	}

	// 2. More placements at the earliest differing rank
	for p := range a.Histogram {
		if a.Histogram[p] != b.Histogram[p] {
			return a.Histogram[p] > b.Histogram[p]
		}
	}

	// 3. Stable tie-breaking by candidate ID (ascending)
	return a.CandidateID < b.CandidateID
}
