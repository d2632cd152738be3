// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

LoadDotEnv reads a .env file into the environment first, if one exists.
Variables already set in the environment win.

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: PostgreSQL connection string or SQLite path (required)
  - DatabaseType: "sqlite" (default) or "postgres"
  - IdentitySalt: Secret for the voter cookie HMAC (required)
  - CookieSecure: Set the Secure attribute on the voter cookie

# CLI Flags

	-p                Server port
	-d                Database URL
	-t                Database type
	--identity-salt   Voter cookie salt
	--cookie-secure   true or false

# Environment Variables

Flags fall back to environment variables:

	PORT          → -p
	DATABASE_URL  → -d
	DATABASE_TYPE → -t
	IDENTITY_SALT → --identity-salt
	COOKIE_SECURE → --cookie-secure

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error if:

  - DATABASE_URL is missing
  - DATABASE_TYPE is neither sqlite nor postgres
  - IDENTITY_SALT is missing
  - PORT or COOKIE_SECURE cannot be parsed
*/
package cliparse
