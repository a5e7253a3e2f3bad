// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/danielhkuo/tripboard/board"
	"github.com/danielhkuo/tripboard/middleware"
	"github.com/danielhkuo/tripboard/models"
	"github.com/danielhkuo/tripboard/session"
)

type IntentHandler struct {
	board    *board.Board
	sessions *session.Manager
	title    string
}

func NewIntentHandler(b *board.Board, sessions *session.Manager, title string) *IntentHandler {
	return &IntentHandler{board: b, sessions: sessions, title: title}
}

// SelectParticipant handles POST /session/active
// An id missing from the roster is kept; views fall back to the first participant
func (h *IntentHandler) SelectParticipant(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.FromRequest(w, r)

	var req models.SelectParticipantRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.ParticipantID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "participantId is required")
		return
	}

	sess = h.sessions.Select(sess.ID, req.ParticipantID)
	if _, ok := h.board.Participant(req.ParticipantID); !ok {
		slog.Warn("selected participant not in roster", "participant_id", req.ParticipantID)
	}

	h.respondView(w, sess)
}

// SelectDate handles POST /session/date
// Toggles the date for the active participant
func (h *IntentHandler) SelectDate(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.FromRequest(w, r)

	var req models.SelectDateRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	active, ok := h.board.Resolve(sess.ActiveID)
	if !ok {
		middleware.ErrorResponse(w, http.StatusConflict, "No participants to edit")
		return
	}

	m, err := h.board.SelectDate(r.Context(), active.ID, req.Date)
	if err != nil {
		rejectIntent(w, err)
		return
	}
	h.awaitMutation(w, r, sess, m)
}

// AddGroceryItem handles POST /session/groceries
func (h *IntentHandler) AddGroceryItem(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.FromRequest(w, r)

	var req models.AddGroceryItemRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	active, ok := h.board.Resolve(sess.ActiveID)
	if !ok {
		middleware.ErrorResponse(w, http.StatusConflict, "No participants to edit")
		return
	}

	m, err := h.board.AddGroceryItem(r.Context(), active.ID, req.Item)
	if err != nil {
		rejectIntent(w, err)
		return
	}
	h.awaitMutation(w, r, sess, m)
}

// RemoveGroceryItem handles DELETE /session/groceries/{position}
func (h *IntentHandler) RemoveGroceryItem(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.FromRequest(w, r)

	position, err := strconv.Atoi(r.PathValue("position"))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "position must be an integer")
		return
	}

	active, ok := h.board.Resolve(sess.ActiveID)
	if !ok {
		middleware.ErrorResponse(w, http.StatusConflict, "No participants to edit")
		return
	}

	m, err := h.board.RemoveGroceryItem(r.Context(), active.ID, position)
	if err != nil {
		rejectIntent(w, err)
		return
	}
	h.awaitMutation(w, r, sess, m)
}

// awaitMutation answers with the board once the remote update settles.
// A rolled-back mutation answers 502 naming the failure.
func (h *IntentHandler) awaitMutation(w http.ResponseWriter, r *http.Request, sess session.Session, m *board.Mutation) {
	if err := m.Wait(r.Context()); err != nil {
		if r.Context().Err() != nil {
			// The update keeps running; a failure shows up in notices
			slog.Info("client stopped waiting for update", "participant_id", m.ParticipantID, "field", m.Field)
			return
		}
		middleware.ErrorResponse(w, http.StatusBadGateway, err.Error())
		return
	}

	slog.Info("participant updated", "participant_id", m.ParticipantID, "field", m.Field)
	h.respondView(w, sess)
}

func (h *IntentHandler) respondView(w http.ResponseWriter, sess session.Session) {
	view := h.board.View(sess.ActiveID)
	view.Title = h.title
	middleware.JSONResponse(w, http.StatusOK, view)
}

func rejectIntent(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, board.ErrBlankItem):
		middleware.ErrorResponse(w, http.StatusBadRequest, "Grocery item cannot be blank")
	case errors.Is(err, board.ErrUnknownDate):
		middleware.ErrorResponse(w, http.StatusBadRequest, "Date is not one of the trip dates")
	case errors.Is(err, board.ErrParticipantNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Participant not found")
	case errors.Is(err, board.ErrClosed):
		middleware.ErrorResponse(w, http.StatusServiceUnavailable, "Shutting down")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		// client is gone
	default:
		slog.Error("failed to queue intent", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to apply change")
	}
}
