// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/danielhkuo/movie-night/lobby"
	"github.com/danielhkuo/movie-night/models"
)

// ReplaceBallot swaps the voter's ranking for a new one atomically.
// Positions are written 1..len(ranking). A closed lobby rejects the write.
func (s *Store) ReplaceBallot(ctx context.Context, lobbyID string, voter models.VoterID, ranking []string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := lockOpenLobby(ctx, tx, lobbyID); err != nil {
			return err
		}

		_, err := tx.ExecContext(ctx, `
			DELETE FROM ranking WHERE lobby_id = $1 AND voter_id = $2
		`, lobbyID, string(voter))
		if err != nil {
			return fmt.Errorf("failed to clear ballot: %w", err)
		}

		for i, candidateID := range ranking {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO ranking (lobby_id, voter_id, candidate_id, position)
				VALUES ($1, $2, $3, $4)
			`, lobbyID, string(voter), candidateID, i+1)
			if err != nil {
				return fmt.Errorf("failed to insert ranking entry: %w", err)
			}
		}
		return nil
	})
}

// lockOpenLobby takes the lobby row lock for the rest of tx, so a
// concurrent close either waits for tx or makes it fail here.
func lockOpenLobby(ctx context.Context, tx *sql.Tx, lobbyID string) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE lobby SET status = status WHERE id = $1 AND status = 'open'
	`, lobbyID)
	if err != nil {
		return fmt.Errorf("failed to lock lobby: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 1 {
		return nil
	}

	var status string
	err = tx.QueryRowContext(ctx, `SELECT status FROM lobby WHERE id = $1`, lobbyID).Scan(&status)
	if err != nil {
		return notFound(err, "lobby")
	}
	return lobby.ErrLobbyClosed
}

func (s *Store) ListEntries(ctx context.Context, lobbyID string) ([]models.RankingEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT lobby_id, voter_id, candidate_id, position
		FROM ranking
		WHERE lobby_id = $1
		ORDER BY voter_id, position
	`, lobbyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query rankings: %w", err)
	}
	defer rows.Close()

	entries := []models.RankingEntry{}
	for rows.Next() {
		var (
			e     models.RankingEntry
			voter string
		)
		if err := rows.Scan(&e.LobbyID, &voter, &e.CandidateID, &e.Position); err != nil {
			return nil, fmt.Errorf("failed to scan ranking: %w", err)
		}
		e.VoterID = models.VoterID(voter)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rankings: %w", err)
	}
	return entries, nil
}

func (s *Store) VoterRanking(ctx context.Context, lobbyID string, voter models.VoterID) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT candidate_id
		FROM ranking
		WHERE lobby_id = $1 AND voter_id = $2
		ORDER BY position
	`, lobbyID, string(voter))
	if err != nil {
		return nil, fmt.Errorf("failed to query ranking: %w", err)
	}
	defer rows.Close()

	ranking := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan ranking: %w", err)
		}
		ranking = append(ranking, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ranking: %w", err)
	}
	return ranking, nil
}
