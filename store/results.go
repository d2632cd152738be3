// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/danielhkuo/movie-night/models"
)

// resultPayload is the JSON stored in result.payload
type resultPayload struct {
	Leaderboard []models.LeaderboardEntry `json:"leaderboard"`
	Ballots     []models.VoterBallot      `json:"ballots"`
}

func (s *Store) GetResult(ctx context.Context, lobbyID string) (models.Result, error) {
	return getResult(ctx, s.db, lobbyID)
}

func getResult(ctx context.Context, q querier, lobbyID string) (models.Result, error) {
	var (
		res       models.Result
		scores    string
		payload   string
		rationale sql.NullString
	)
	err := q.QueryRowContext(ctx, `
		SELECT lobby_id, method, tie_breaker, winner_candidate_id, scores, payload, rationale, computed_at
		FROM result
		WHERE lobby_id = $1
	`, lobbyID).Scan(&res.LobbyID, &res.Method, &res.TieBreaker, &res.WinnerCandidateID,
		&scores, &payload, &rationale, &res.ComputedAt)
	if err != nil {
		return models.Result{}, notFound(err, "result")
	}

	if err := json.Unmarshal([]byte(scores), &res.Scores); err != nil {
		return models.Result{}, fmt.Errorf("failed to decode scores: %w", err)
	}
	var p resultPayload
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return models.Result{}, fmt.Errorf("failed to decode result payload: %w", err)
	}

	res.Leaderboard = p.Leaderboard
	res.Ballots = p.Ballots
	res.Rationale = nullString(rationale)
	res.ComputedAt = utc(res.ComputedAt)
	return res, nil
}

// CommitResult closes the lobby and stores res atomically. The status
// update runs first as a compare-and-swap; only its winner writes the
// result row, replacing any orphan row left on an open lobby.
func (s *Store) CommitResult(ctx context.Context, res models.Result, closedAt time.Time) (models.Result, bool, error) {
	scores, err := json.Marshal(res.Scores)
	if err != nil {
		return models.Result{}, false, fmt.Errorf("failed to encode scores: %w", err)
	}
	payload, err := json.Marshal(resultPayload{Leaderboard: res.Leaderboard, Ballots: res.Ballots})
	if err != nil {
		return models.Result{}, false, fmt.Errorf("failed to encode result payload: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Result{}, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	update, err := tx.ExecContext(ctx, `
		UPDATE lobby SET status = $2, closed_at = $3
		WHERE id = $1 AND status = $4
	`, res.LobbyID, models.StatusClosed, closedAt, models.StatusOpen)
	if err != nil {
		return models.Result{}, false, fmt.Errorf("failed to close lobby: %w", err)
	}
	n, err := update.RowsAffected()
	if err != nil {
		return models.Result{}, false, fmt.Errorf("failed to read rows affected: %w", err)
	}

	if n == 0 {
		// Lost the race. Release the transaction before reading on s.db.
		tx.Rollback()
		stored, err := s.GetResult(ctx, res.LobbyID)
		if err != nil {
			return models.Result{}, false, err
		}
		return stored, false, nil
	}

	// JSON goes in as text; lib/pq sends []byte as bytea
	_, err = tx.ExecContext(ctx, `
		INSERT INTO result (lobby_id, method, tie_breaker, winner_candidate_id, scores, payload, rationale, computed_at)
		VALUES ($1, $2, $3, $4, $5, $6, NULL, $7)
		ON CONFLICT (lobby_id) DO UPDATE
		SET method = excluded.method,
		    tie_breaker = excluded.tie_breaker,
		    winner_candidate_id = excluded.winner_candidate_id,
		    scores = excluded.scores,
		    payload = excluded.payload,
		    rationale = NULL,
		    computed_at = excluded.computed_at
	`, res.LobbyID, res.Method, res.TieBreaker, res.WinnerCandidateID, string(scores), string(payload), res.ComputedAt)
	if err != nil {
		return models.Result{}, false, fmt.Errorf("failed to store result: %w", err)
	}

	stored, err := getResult(ctx, tx, res.LobbyID)
	if err != nil {
		return models.Result{}, false, err
	}

	if err := tx.Commit(); err != nil {
		return models.Result{}, false, fmt.Errorf("failed to commit result: %w", err)
	}
	return stored, true, nil
}

func (s *Store) SetRationale(ctx context.Context, lobbyID, text string) (string, error) {
	_, err := s.db.ExecContext(ctx, `
		UPDATE result SET rationale = $2
		WHERE lobby_id = $1 AND rationale IS NULL
	`, lobbyID, text)
	if err != nil {
		return "", fmt.Errorf("failed to store rationale: %w", err)
	}

	var stored sql.NullString
	err = s.db.QueryRowContext(ctx, `SELECT rationale FROM result WHERE lobby_id = $1`, lobbyID).Scan(&stored)
	if err != nil {
		return "", notFound(err, "result")
	}
	return stored.String, nil
}
