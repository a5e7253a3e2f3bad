// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/tripboard/board"
	"github.com/danielhkuo/tripboard/middleware"
	"github.com/danielhkuo/tripboard/models"
	"github.com/danielhkuo/tripboard/session"
)

type ViewHandler struct {
	board    *board.Board
	sessions *session.Manager
	title    string
}

func NewViewHandler(b *board.Board, sessions *session.Manager, title string) *ViewHandler {
	return &ViewHandler{board: b, sessions: sessions, title: title}
}

// GetBoard handles GET /board
// Returns everything the page renders: roster, dashboard, tally, notices
func (h *ViewHandler) GetBoard(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.FromRequest(w, r)

	view := h.board.View(sess.ActiveID)
	view.Title = h.title

	middleware.JSONResponse(w, http.StatusOK, view)
}

// GetParticipants handles GET /participants
// Returns the participant selector with the active entry marked
func (h *ViewHandler) GetParticipants(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.FromRequest(w, r)
	middleware.JSONResponse(w, http.StatusOK, h.board.View(sess.ActiveID).Participants)
}

// GetDates handles GET /dates
// Returns the trip dates, marking the active participant's choice
func (h *ViewHandler) GetDates(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.FromRequest(w, r)

	selected := ""
	if active, ok := h.board.Resolve(sess.ActiveID); ok {
		selected = active.SelectedDate
	}

	middleware.JSONResponse(w, http.StatusOK, board.DateChoices(h.board.Options(), selected))
}

// GetTally handles GET /tally
// Recomputed from the current roster on every request
func (h *ViewHandler) GetTally(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, h.board.Tally())
}

// GetNotices handles GET /notices
// Only notices about the session's active participant are returned
func (h *ViewHandler) GetNotices(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.FromRequest(w, r)

	active, ok := h.board.Resolve(sess.ActiveID)
	if !ok {
		middleware.JSONResponse(w, http.StatusOK, []models.Notice{})
		return
	}
	middleware.JSONResponse(w, http.StatusOK, h.board.Notices(active.ID))
}

// DismissNotices handles DELETE /notices
// Clears the active participant's notices; others are untouched
func (h *ViewHandler) DismissNotices(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.FromRequest(w, r)

	if active, ok := h.board.Resolve(sess.ActiveID); ok {
		h.board.DismissNotices(active.ID)
	}
	middleware.JSONResponse(w, http.StatusOK, []models.Notice{})
}
