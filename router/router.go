// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/tripboard/board"
	"github.com/danielhkuo/tripboard/handlers"
	"github.com/danielhkuo/tripboard/metrics"
	"github.com/danielhkuo/tripboard/middleware"
	"github.com/danielhkuo/tripboard/session"
)

func NewRouter(b *board.Board, sessions *session.Manager, m *metrics.Metrics, title string) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	viewHandler := handlers.NewViewHandler(b, sessions, title)
	intentHandler := handlers.NewIntentHandler(b, sessions, title)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	mux.Handle("GET /metrics", m.Handler())

	// Board projections
	mux.HandleFunc("GET /board", middleware.WithLogging(viewHandler.GetBoard))
	mux.HandleFunc("GET /participants", middleware.WithLogging(viewHandler.GetParticipants))
	mux.HandleFunc("GET /dates", middleware.WithLogging(viewHandler.GetDates))
	mux.HandleFunc("GET /tally", middleware.WithLogging(viewHandler.GetTally))
	mux.HandleFunc("GET /notices", middleware.WithLogging(viewHandler.GetNotices))
	mux.HandleFunc("DELETE /notices", middleware.WithLogging(viewHandler.DismissNotices))

	// Session intents
	mux.HandleFunc("POST /session/active", middleware.WithLogging(intentHandler.SelectParticipant))
	mux.HandleFunc("POST /session/date", middleware.WithLogging(intentHandler.SelectDate))
	mux.HandleFunc("POST /session/groceries", middleware.WithLogging(intentHandler.AddGroceryItem))
	mux.HandleFunc("DELETE /session/groceries/{position}", middleware.WithLogging(intentHandler.RemoveGroceryItem))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("tripboard API v1"))
	})

	return mux
}
