// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the participant database and manages its schema.

# Drivers

Two database/sql drivers are registered:

  - sqlite: modernc.org/sqlite (pure Go, default)
  - postgres: github.com/lib/pq

Queries are written with ? placeholders and passed through Dialect.Rebind,
which rewrites them to $1, $2, ... for postgres.

# Schema

A single flat table:

	participants (
	    id            TEXT PRIMARY KEY,
	    name          TEXT NOT NULL,
	    selected_date TEXT,              -- NULL when unset
	    grocery_list  TEXT NOT NULL,     -- JSON array of strings
	    updated_at    TIMESTAMP NOT NULL
	)

CreateSchema is idempotent. SeedRoster fills an empty table from the trip
file and leaves a populated table alone.
*/
package db
