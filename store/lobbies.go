// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/danielhkuo/movie-night/models"
)

const lobbyColumns = `id, title, creator, status, code, created_at, closed_at`

func (s *Store) CreateLobby(ctx context.Context, lb models.Lobby) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO lobby (id, title, creator, status, code, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, lb.ID, lb.Title, string(lb.Creator), lb.Status, toNullString(lb.Code), lb.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert lobby: %w", codeConflict(err))
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO lobby_member (lobby_id, voter_id, role, joined_at)
			VALUES ($1, $2, $3, $4)
		`, lb.ID, string(lb.Creator), models.RoleHost, lb.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert host member: %w", err)
		}
		return nil
	})
}

func (s *Store) GetLobby(ctx context.Context, lobbyID string) (models.Lobby, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+lobbyColumns+` FROM lobby WHERE id = $1`, lobbyID)
	return scanLobby(row)
}

func (s *Store) GetLobbyByCode(ctx context.Context, code string) (models.Lobby, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+lobbyColumns+` FROM lobby WHERE code = $1`, code)
	return scanLobby(row)
}

func scanLobby(row *sql.Row) (models.Lobby, error) {
	var (
		lb       models.Lobby
		creator  string
		code     sql.NullString
		closedAt sql.NullTime
	)
	err := row.Scan(&lb.ID, &lb.Title, &creator, &lb.Status, &code, &lb.CreatedAt, &closedAt)
	if err != nil {
		return models.Lobby{}, notFound(err, "lobby")
	}

	lb.Creator = models.VoterID(creator)
	lb.Code = nullString(code)
	lb.CreatedAt = utc(lb.CreatedAt)
	lb.ClosedAt = nullTime(closedAt)
	return lb, nil
}

func (s *Store) SetLobbyCode(ctx context.Context, lobbyID, code string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE lobby SET code = $2 WHERE id = $1`, lobbyID, code)
	if err != nil {
		return fmt.Errorf("failed to update invite code: %w", codeConflict(err))
	}
	return expectOne(res, "lobby")
}

func (s *Store) UpsertMember(ctx context.Context, m models.Member) (models.Member, error) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO lobby_member (lobby_id, voter_id, role, nickname, joined_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (lobby_id, voter_id) DO UPDATE
		SET nickname = COALESCE(lobby_member.nickname, excluded.nickname)
	`, m.LobbyID, string(m.VoterID), m.Role, toNullString(m.Nickname), m.JoinedAt)
	if err != nil {
		return models.Member{}, fmt.Errorf("failed to upsert member: %w", err)
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT lobby_id, voter_id, role, nickname, joined_at
		FROM lobby_member
		WHERE lobby_id = $1 AND voter_id = $2
	`, m.LobbyID, string(m.VoterID))

	var (
		out      models.Member
		voter    string
		nickname sql.NullString
	)
	if err := row.Scan(&out.LobbyID, &voter, &out.Role, &nickname, &out.JoinedAt); err != nil {
		return models.Member{}, notFound(err, "member")
	}
	out.VoterID = models.VoterID(voter)
	out.Nickname = nullString(nickname)
	out.JoinedAt = utc(out.JoinedAt)
	return out, nil
}

func (s *Store) SetNickname(ctx context.Context, lobbyID string, voter models.VoterID, nickname string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE lobby_member SET nickname = $3
		WHERE lobby_id = $1 AND voter_id = $2
	`, lobbyID, string(voter), nickname)
	if err != nil {
		return fmt.Errorf("failed to update nickname: %w", err)
	}
	return expectOne(res, "member")
}

func (s *Store) ListMembers(ctx context.Context, lobbyID string) ([]models.Member, error) {
	return listMembers(ctx, s.db, lobbyID)
}

func listMembers(ctx context.Context, q querier, lobbyID string) ([]models.Member, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT lobby_id, voter_id, role, nickname, joined_at
		FROM lobby_member
		WHERE lobby_id = $1
		ORDER BY joined_at, voter_id
	`, lobbyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query members: %w", err)
	}
	defer rows.Close()

	members := []models.Member{}
	for rows.Next() {
		var (
			m        models.Member
			voter    string
			nickname sql.NullString
		)
		if err := rows.Scan(&m.LobbyID, &voter, &m.Role, &nickname, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		m.VoterID = models.VoterID(voter)
		m.Nickname = nullString(nickname)
		m.JoinedAt = utc(m.JoinedAt)
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating members: %w", err)
	}
	return members, nil
}
