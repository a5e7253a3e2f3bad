// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package board is the participant store: the in-memory roster, the vote
tally over it, and the optimistic mutations that persist edits.

# Intents

Three intents change a participant, always addressed by participant id:

	m, err := b.SelectDate(ctx, id, "July 7, 2025")   // toggle
	m, err := b.AddGroceryItem(ctx, id, "Milk")       // trimmed, blank rejected
	m, err := b.RemoveGroceryItem(ctx, id, 0)         // positional

A non-nil error means the intent was rejected locally (ErrBlankItem,
ErrUnknownDate, ErrParticipantNotFound, ErrClosed) and nothing was sent.

# Optimistic Mutation

Every accepted intent becomes a Mutation:

	Idle -> Pending(previous value) -> Committed | RolledBack

The new value is visible to readers as soon as the mutation is Pending.
If the remote update fails, the previous value is written back to the
participant the mutation targeted and a Notice is recorded. A successful
response is not applied; the optimistic value already matches it.

Intents are processed one at a time by the board's own goroutine, so a
toggle always sees the result of the intent before it. Wait blocks for the
outcome but never cancels the remote call.
*/
package board
