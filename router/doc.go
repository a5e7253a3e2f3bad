// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the trip board.

	mux := router.NewRouter(b, sessions, m, t.Title)

# Endpoints

	GET    /health                       - Liveness
	GET    /metrics                      - Prometheus metrics
	GET    /board                        - Full page projection
	GET    /participants                 - Participant selector
	GET    /dates                        - Trip dates for the active participant
	GET    /tally                        - Date vote tally
	GET    /notices                      - Rolled-back update notices
	DELETE /notices                      - Dismiss notices
	POST   /session/active               - Pick the active participant
	POST   /session/date                 - Toggle a date
	POST   /session/groceries            - Add a grocery item
	DELETE /session/groceries/{position} - Remove a grocery item

Everything except /health and /metrics is wrapped in middleware.WithLogging.
*/
package router
