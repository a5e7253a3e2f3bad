// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

	if err := cliparse.LoadDotEnv(".env"); err != nil { ... }
	cfg, err := cliparse.ParseFlags(os.Args[1:])

Settings come from the environment (parsed with caarlos0/env) and are then
overridden by flags:

	PORT           → -p
	BACKEND        → -b
	DATABASE_URL   → -d
	DATABASE_TYPE  → -t
	TRIP_FILE      → -trip
	REMOTE_TIMEOUT → -remote-timeout
	SESSION_SALT   → -session-salt

SUPABASE_URL, SUPABASE_ANON_KEY, SUPABASE_TABLE and ALLOWED_ORIGINS
(comma-separated) are environment only.

# Validation

  - the sql backend needs DATABASE_URL and a sqlite or postgres DATABASE_TYPE
  - the rest backend needs SUPABASE_URL and SUPABASE_ANON_KEY
  - SESSION_SALT must always be set
*/
package cliparse
