// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the database and creates its schema.

# Connecting

Open selects the driver from the database type:

	conn, err := db.Open(db.TypeSQLite, "movie-night.db")
	conn, err := db.Open(db.TypePostgres, "postgres://...")

SQLite connections run with foreign keys on and a single open connection.

# Schema Creation

	if err := db.CreateSchema(conn, db.TypeSQLite); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - lobby: Lobby metadata, status and the unique invite code
  - candidate: Nominated titles per lobby
  - lobby_member: One row per voter who joined, with role and nickname
  - ranking: One row per ranked candidate per voter
  - result: The frozen finalization result, one per lobby

# Relationships

	lobby 1──* candidate
	lobby 1──* lobby_member
	lobby 1──* ranking
	candidate 1──* ranking
	lobby 1──1 result

All foreign keys use ON DELETE CASCADE. result.winner_candidate_id has no
foreign key so a result outlives the candidates it names.

# Errors

IsUniqueViolation recognises unique constraint failures from both lib/pq
(SQLSTATE 23505) and modernc.org/sqlite.
*/
package db
