// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the tripboard server.

Tripboard is a small shared planning board for a group trip. Each
participant picks the date that works for them and keeps a personal
grocery list; everyone sees a live tally of the leading date.

# Starting the Server

	DATABASE_URL=tripboard.db SESSION_SALT=dev go run .

Or against a Supabase project:

	go run . -b rest   # reads SUPABASE_URL and SUPABASE_ANON_KEY

A .env file in the working directory is loaded first; real environment
variables win over it and CLI flags win over both.

# Commands

  - serve (default): load the roster and listen
  - seed: write the trip roster into an empty participants table (sql backend)

# Configuration

  - PORT (-p): Server port (default: 3318)
  - BACKEND (-b): sql or rest (default: sql)
  - DATABASE_URL (-d), DATABASE_TYPE (-t): sql backend connection
  - SUPABASE_URL, SUPABASE_ANON_KEY, SUPABASE_TABLE: rest backend
  - SESSION_SALT (-session-salt): cookie signing secret (required)
  - TRIP_FILE (-trip): trip YAML, the built-in trip when unset
  - REMOTE_TIMEOUT (-remote-timeout): bound on each remote update
  - ALLOWED_ORIGINS: comma-separated browser origins for CORS

# Architecture

  - board: roster state and the serial optimistic update loop
  - remote: participant store interface with sqlstore and rest backends
  - tally: date vote counting
  - trip: trip dates and roster definition
  - session: per-client active participant
  - handlers, router, middleware: HTTP surface
  - metrics: Prometheus counters for updates and rollbacks

The server exits if the initial participant load fails.
*/
package main
