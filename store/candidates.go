// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/danielhkuo/movie-night/models"
)

func (s *Store) AddCandidate(ctx context.Context, c models.Candidate) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO candidate (id, lobby_id, title, added_by, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, c.ID, c.LobbyID, c.Title, string(c.AddedBy), c.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert candidate: %w", err)
	}
	return nil
}

func (s *Store) ListCandidates(ctx context.Context, lobbyID string) ([]models.Candidate, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, lobby_id, title, added_by, created_at
		FROM candidate
		WHERE lobby_id = $1
		ORDER BY created_at, id
	`, lobbyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query candidates: %w", err)
	}
	defer rows.Close()

	candidates := []models.Candidate{}
	for rows.Next() {
		var (
			c       models.Candidate
			addedBy string
		)
		if err := rows.Scan(&c.ID, &c.LobbyID, &c.Title, &addedBy, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		c.AddedBy = models.VoterID(addedBy)
		c.CreatedAt = utc(c.CreatedAt)
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating candidates: %w", err)
	}
	return candidates, nil
}

// DeleteCandidate drops every ballot that ranked the candidate before the
// candidate itself, so no voter is left with a shortened ranking that would
// look complete.
func (s *Store) DeleteCandidate(ctx context.Context, lobbyID, candidateID string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		var exists int
		err := tx.QueryRowContext(ctx, `
			SELECT 1 FROM candidate WHERE id = $1 AND lobby_id = $2
		`, candidateID, lobbyID).Scan(&exists)
		if err != nil {
			return notFound(err, "candidate")
		}

		_, err = tx.ExecContext(ctx, `
			DELETE FROM ranking
			WHERE lobby_id = $1 AND voter_id IN (
				SELECT voter_id FROM ranking WHERE lobby_id = $1 AND candidate_id = $2
			)
		`, lobbyID, candidateID)
		if err != nil {
			return fmt.Errorf("failed to delete affected ballots: %w", err)
		}

		_, err = tx.ExecContext(ctx, `DELETE FROM candidate WHERE id = $1`, candidateID)
		if err != nil {
			return fmt.Errorf("failed to delete candidate: %w", err)
		}
		return nil
	})
}
