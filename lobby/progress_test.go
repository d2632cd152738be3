// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package lobby

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/danielhkuo/movie-night/models"
)

func entries(voter models.VoterID, ids ...string) []models.RankingEntry {
	out := make([]models.RankingEntry, len(ids))
	for i, id := range ids {
		out[i] = models.RankingEntry{LobbyID: "l", VoterID: voter, CandidateID: id, Position: i + 1}
	}
	return out
}

func join(parts ...[]models.RankingEntry) []models.RankingEntry {
	var out []models.RankingEntry
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func TestComputeReadiness(t *testing.T) {
	tests := []struct {
		name       string
		candidates int
		members    int
		entries    []models.RankingEntry
		me         models.VoterID
		want       models.Progress
	}{
		{
			name:    "empty lobby",
			members: 1,
			me:      "v1",
			want:    models.Progress{MemberCount: 1},
		},
		{
			name:       "no candidates means nothing is full",
			candidates: 0,
			members:    2,
			entries:    entries("v1", "a"),
			me:         "v1",
			want:       models.Progress{MemberCount: 2},
		},
		{
			name:       "partial ballot",
			candidates: 3,
			members:    2,
			entries:    entries("v1", "a", "b"),
			me:         "v1",
			want:       models.Progress{CandidateCount: 3, MemberCount: 2},
		},
		{
			name:       "one full ballot is enough",
			candidates: 2,
			members:    3,
			entries:    join(entries("v1", "a", "b"), entries("v2", "b")),
			me:         "v2",
			want:       models.Progress{CandidateCount: 2, MemberCount: 3, FullBallots: 1, CanFinalize: true},
		},
		{
			name:       "my ballot is full",
			candidates: 2,
			members:    2,
			entries:    join(entries("v1", "a", "b"), entries("v2", "b", "a")),
			me:         "v2",
			want:       models.Progress{CandidateCount: 2, MemberCount: 2, FullBallots: 2, MyIsFull: true, CanFinalize: true},
		},
		{
			name:       "non-member ballots still count",
			candidates: 1,
			members:    1,
			entries:    entries("outsider", "a"),
			me:         "v1",
			want:       models.Progress{CandidateCount: 1, MemberCount: 1, FullBallots: 1, CanFinalize: true},
		},
		{
			name:       "repeated candidate counts once",
			candidates: 2,
			members:    1,
			entries: []models.RankingEntry{
				{VoterID: "v1", CandidateID: "a", Position: 1},
				{VoterID: "v1", CandidateID: "a", Position: 2},
			},
			me:   "v1",
			want: models.Progress{CandidateCount: 2, MemberCount: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeReadiness(tt.candidates, tt.members, tt.entries, tt.me)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBallotsFromEntries(t *testing.T) {
	rows := join(
		entries("v1", "a", "b"),
		[]models.RankingEntry{
			{VoterID: "gap", CandidateID: "a", Position: 1},
			{VoterID: "gap", CandidateID: "b", Position: 3},
		},
		[]models.RankingEntry{
			{VoterID: "swapped", CandidateID: "b", Position: 2},
			{VoterID: "swapped", CandidateID: "a", Position: 1},
		},
	)

	ballots := ballotsFromEntries(rows)
	assert.Len(t, ballots, 3)

	byVoter := make(map[string][]string)
	for _, b := range ballots {
		byVoter[b.VoterID] = b.Ranking
	}
	assert.Equal(t, []string{"a", "b"}, byVoter["v1"])
	assert.Nil(t, byVoter["gap"], "non-dense positions make the ballot incomplete")
	assert.Equal(t, []string{"a", "b"}, byVoter["swapped"], "rows are placed by position, not row order")
}
