// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the trip board.

# Handler Types

  - ViewHandler: read-only projections of the board (roster, dates, tally, notices)
  - IntentHandler: session selection and the optimistic participant edits

Both take the shared *board.Board, the session manager and the trip title:

	views := handlers.NewViewHandler(b, sessions, t.Title)

# Sessions

Every request carries the tripboard_session cookie; a missing or tampered
cookie starts a new session. The active participant is per session and
falls back to the first participant in the roster.

# Edits

	POST   /session/date                 → SelectDate (toggle)
	POST   /session/groceries            → AddGroceryItem
	DELETE /session/groceries/{position} → RemoveGroceryItem

An edit is applied to the board immediately and the response waits for
the remote update. A failed update is rolled back, recorded as a notice
and answered with 502. A client that disconnects early does not cancel
the update.

Notices belong to the participant whose update failed. GET and DELETE
/notices only see the notices of the session's active participant.
*/
package handlers
