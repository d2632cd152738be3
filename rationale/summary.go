// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package rationale writes short plain-language explanations of a result.
package rationale

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"

	"github.com/danielhkuo/movie-night/models"
)

var ErrNoWinner = errors.New("result has no winner")

// Summarizer explains a Borda result from its leaderboard alone. Output is
// deterministic for a given result.
type Summarizer struct{}

func (Summarizer) Rationale(_ context.Context, res models.Result) (string, error) {
	if res.WinnerCandidateID == "" || len(res.Leaderboard) == 0 {
		return "", ErrNoWinner
	}

	winner := res.Leaderboard[0]
	voters := len(res.Ballots)
	n := len(res.Leaderboard)

	var b strings.Builder
	fmt.Fprintf(&b, "%s won with %s across %s",
		title(winner), english.Plural(winner.Score, "point", ""), english.Plural(voters, "ballot", ""))

	if winner.FirstPlace > 0 {
		fmt.Fprintf(&b, ", ranked first on %d of them", winner.FirstPlace)
	}
	b.WriteString(".")

	if voters > 0 && winner.FirstPlace == voters && n > 1 {
		b.WriteString(" Everyone put it at the top.")
	}

	if n > 1 {
		runnerUp := res.Leaderboard[1]
		switch {
		case runnerUp.Score == winner.Score:
			fmt.Fprintf(&b, " %s tied on points and lost on %s.",
				title(runnerUp), tieBreakReason(winner, runnerUp))
		default:
			fmt.Fprintf(&b, " %s came %s, %s behind.",
				title(runnerUp), humanize.Ordinal(runnerUp.Rank),
				english.Plural(winner.Score-runnerUp.Score, "point", ""))
		}
	}

	if n > 2 {
		last := res.Leaderboard[n-1]
		fmt.Fprintf(&b, " %s finished %s of %d.", title(last), humanize.Ordinal(last.Rank), n)
	}

	return b.String(), nil
}

// tieBreakReason names the first histogram rank that separated two
// candidates with equal scores
func tieBreakReason(winner, other models.LeaderboardEntry) string {
	for p := range winner.Histogram {
		if p >= len(other.Histogram) {
			break
		}
		if winner.Histogram[p] != other.Histogram[p] {
			return fmt.Sprintf("%s-place votes (%d to %d)",
				humanize.Ordinal(p+1), winner.Histogram[p], other.Histogram[p])
		}
	}
	return "the alphabetical tie-break"
}

func title(e models.LeaderboardEntry) string {
	if e.Title != "" {
		return fmt.Sprintf("%q", e.Title)
	}
	return "Candidate " + e.CandidateID
}
