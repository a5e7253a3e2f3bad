// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package board

import (
	"context"
	"slices"
	"sync"

	"github.com/danielhkuo/tripboard/models"
)

// State is the lifecycle of one mutation:
// Idle -> Pending(previous value) -> Committed | RolledBack.
type State int

const (
	Idle State = iota
	Pending
	Committed
	RolledBack
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case Committed:
		return "committed"
	case RolledBack:
		return "rolled_back"
	}
	return "unknown"
}

// fieldValue is the pre-mutation snapshot of the patched field.
type fieldValue struct {
	date string
	list []string
}

// Mutation is one optimistic change to a participant field. It is returned
// as soon as the intent is queued; Wait blocks for the remote outcome.
type Mutation struct {
	ParticipantID string
	Field         models.PatchField

	ctx    context.Context
	change func(p *models.Participant)

	mu       sync.Mutex
	state    State
	previous fieldValue
	err      error
	done     chan struct{}
}

func newMutation(ctx context.Context, id string, field models.PatchField, change func(p *models.Participant)) *Mutation {
	return &Mutation{
		ParticipantID: id,
		Field:         field,
		ctx:           context.WithoutCancel(ctx),
		change:        change,
		done:          make(chan struct{}),
	}
}

// begin snapshots the field, applies the change and returns the patch
// to send. Caller holds the board lock.
func (m *Mutation) begin(p *models.Participant) models.ParticipantPatch {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.previous = fieldValue{date: p.SelectedDate, list: slices.Clone(p.GroceryList)}
	m.change(p)
	m.state = Pending

	if m.Field == models.FieldSelectedDate {
		return models.DatePatch(p.SelectedDate)
	}
	return models.GroceryPatch(p.GroceryList)
}

// restore writes the snapshot back. Caller holds the board lock.
func (m *Mutation) restore(p *models.Participant) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.Field {
	case models.FieldSelectedDate:
		p.SelectedDate = m.previous.date
	case models.FieldGroceryList:
		p.GroceryList = slices.Clone(m.previous.list)
		if p.GroceryList == nil {
			p.GroceryList = []string{}
		}
	}
}

func (m *Mutation) finish(state State, err error) {
	m.mu.Lock()
	m.state = state
	m.err = err
	m.mu.Unlock()
	close(m.done)
}

// State reports where the mutation is in its lifecycle.
func (m *Mutation) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Err is the failure that rolled the mutation back, or nil.
func (m *Mutation) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}

// Done is closed once the mutation is committed or rolled back.
func (m *Mutation) Done() <-chan struct{} { return m.done }

// Wait blocks until the mutation finishes or ctx is done. Giving up on
// ctx does not cancel the remote update.
func (m *Mutation) Wait(ctx context.Context) error {
	select {
	case <-m.done:
		return m.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}
