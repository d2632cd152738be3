// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Supported database types
const (
	TypePostgres = "postgres"
	TypeSQLite   = "sqlite"
)

// Open connects to the database of the given type and verifies the
// connection. SQLite connections get foreign keys enabled and are limited
// to a single open connection.
func Open(dbType, url string) (*sql.DB, error) {
	var (
		conn *sql.DB
		err  error
	)

	switch dbType {
	case TypePostgres:
		conn, err = sql.Open("postgres", url)
	case TypeSQLite:
		conn, err = sql.Open("sqlite", sqliteDSN(url))
		if err == nil {
			// Each new connection to ":memory:" is a separate database
			conn.SetMaxOpenConns(1)
		}
	default:
		return nil, fmt.Errorf("unsupported database type %q", dbType)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return conn, nil
}

func sqliteDSN(url string) string {
	sep := "?"
	if strings.Contains(url, "?") {
		sep = "&"
	}
	return url + sep + "_pragma=foreign_keys(1)&_time_format=sqlite"
}

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB, dbType string) error {
	ddl := sqliteSchema
	if dbType == TypePostgres {
		ddl = postgresSchema
	}

	_, err := db.Exec(ddl)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// IsUniqueViolation reports whether err is a unique constraint violation
// from either supported driver.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
			liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}

	return false
}

const postgresSchema = `
-- Lobbies
CREATE TABLE IF NOT EXISTS lobby (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    creator TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'open' CHECK (status IN ('open', 'closed')),
    code TEXT UNIQUE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    closed_at TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_lobby_code ON lobby(code);

-- Candidates
CREATE TABLE IF NOT EXISTS candidate (
    id TEXT PRIMARY KEY,
    lobby_id TEXT NOT NULL REFERENCES lobby(id) ON DELETE CASCADE,
    title TEXT NOT NULL,
    added_by TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_candidate_lobby_id ON candidate(lobby_id);

-- Members
CREATE TABLE IF NOT EXISTS lobby_member (
    lobby_id TEXT NOT NULL REFERENCES lobby(id) ON DELETE CASCADE,
    voter_id TEXT NOT NULL,
    role TEXT NOT NULL CHECK (role IN ('host', 'guest')),
    nickname TEXT,
    joined_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY (lobby_id, voter_id)
);

-- Ranking entries, one row per ranked candidate
CREATE TABLE IF NOT EXISTS ranking (
    lobby_id TEXT NOT NULL REFERENCES lobby(id) ON DELETE CASCADE,
    voter_id TEXT NOT NULL,
    candidate_id TEXT NOT NULL REFERENCES candidate(id) ON DELETE CASCADE,
    position INTEGER NOT NULL CHECK (position >= 1),
    PRIMARY KEY (lobby_id, voter_id, candidate_id),
    UNIQUE (lobby_id, voter_id, position)
);

CREATE INDEX IF NOT EXISTS idx_ranking_candidate_id ON ranking(candidate_id);

-- Results, at most one per lobby
CREATE TABLE IF NOT EXISTS result (
    lobby_id TEXT PRIMARY KEY REFERENCES lobby(id) ON DELETE CASCADE,
    method TEXT NOT NULL,
    tie_breaker TEXT NOT NULL,
    winner_candidate_id TEXT NOT NULL,
    scores JSONB NOT NULL,
    payload JSONB NOT NULL,
    rationale TEXT,
    computed_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS lobby (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    creator TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'open' CHECK (status IN ('open', 'closed')),
    code TEXT UNIQUE,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    closed_at TIMESTAMP
);

CREATE TABLE IF NOT EXISTS candidate (
    id TEXT PRIMARY KEY,
    lobby_id TEXT NOT NULL REFERENCES lobby(id) ON DELETE CASCADE,
    title TEXT NOT NULL,
    added_by TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_candidate_lobby_id ON candidate(lobby_id);

CREATE TABLE IF NOT EXISTS lobby_member (
    lobby_id TEXT NOT NULL REFERENCES lobby(id) ON DELETE CASCADE,
    voter_id TEXT NOT NULL,
    role TEXT NOT NULL CHECK (role IN ('host', 'guest')),
    nickname TEXT,
    joined_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (lobby_id, voter_id)
);

CREATE TABLE IF NOT EXISTS ranking (
    lobby_id TEXT NOT NULL REFERENCES lobby(id) ON DELETE CASCADE,
    voter_id TEXT NOT NULL,
    candidate_id TEXT NOT NULL REFERENCES candidate(id) ON DELETE CASCADE,
    position INTEGER NOT NULL CHECK (position >= 1),
    PRIMARY KEY (lobby_id, voter_id, candidate_id),
    UNIQUE (lobby_id, voter_id, position)
);

CREATE INDEX IF NOT EXISTS idx_ranking_candidate_id ON ranking(candidate_id);

CREATE TABLE IF NOT EXISTS result (
    lobby_id TEXT PRIMARY KEY REFERENCES lobby(id) ON DELETE CASCADE,
    method TEXT NOT NULL,
    tie_breaker TEXT NOT NULL,
    winner_candidate_id TEXT NOT NULL,
    scores TEXT NOT NULL,
    payload TEXT NOT NULL,
    rationale TEXT,
    computed_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`
