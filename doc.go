// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Movie Night API server.

Movie Night runs small lobbies where a group nominates films, ranks them,
and lets the host close the vote. Rankings are counted with the Borda
method and the frozen result can be explained in plain text.

# Starting the Server

	IDENTITY_SALT=change-me DATABASE_URL=movie-night.db go run .

Or against PostgreSQL with flags:

	go run . -p 3318 -t postgres -d "postgres://..." --identity-salt change-me

A .env file in the working directory is loaded first; real environment
variables take precedence over it.

# Configuration

Required settings:

  - DATABASE_URL (-d): database connection string or SQLite file path
  - IDENTITY_SALT (--identity-salt): HMAC key for the voter cookie

Optional settings:

  - PORT (-p): server port (default: 3318)
  - DATABASE_TYPE (-t): postgres or sqlite (default: sqlite)
  - COOKIE_SECURE (--cookie-secure): mark the voter cookie Secure

# Architecture

  - tally: Borda count and tie-breaking, no I/O
  - lobby: the service every operation goes through
  - store: database/sql implementation of lobby.Store
  - events: in-process hub and websocket stream of lobby events
  - rationale: plain-text explanation of a result
  - handlers, router, middleware: the HTTP surface
  - auth, cliparse, db, models: ids, configuration, schema, wire types
*/
package main
