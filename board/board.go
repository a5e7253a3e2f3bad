// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package board

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/danielhkuo/tripboard/metrics"
	"github.com/danielhkuo/tripboard/models"
	"github.com/danielhkuo/tripboard/remote"
	"github.com/danielhkuo/tripboard/tally"
	"github.com/danielhkuo/tripboard/trip"
)

var (
	ErrBlankItem           = errors.New("grocery item is blank")
	ErrUnknownDate         = errors.New("date is not one of the trip dates")
	ErrParticipantNotFound = errors.New("participant not found")
	ErrClosed              = errors.New("board is closed")
)

const (
	DefaultTimeout = 10 * time.Second
	queueSize      = 64
	maxNotices     = 50
)

type Option func(*Board)

// WithTimeout bounds each remote update.
func WithTimeout(d time.Duration) Option {
	return func(b *Board) {
		if d > 0 {
			b.timeout = d
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(b *Board) { b.metrics = m }
}

// Board owns the roster. Intents are queued and applied one at a time by
// a single goroutine; each runs to completion, remote call included,
// before the next one touches the roster.
type Board struct {
	client  remote.Client
	options []models.DateOption
	timeout time.Duration
	metrics *metrics.Metrics
	now     func() time.Time

	mu           sync.RWMutex
	participants []models.Participant
	notices      []models.Notice

	intents  chan *Mutation
	closeMu  sync.RWMutex
	closed   bool
	quit     chan struct{}
	stopped  chan struct{}
	stopOnce sync.Once
}

// New starts the intent loop. Call Load before serving and Close when done.
func New(client remote.Client, options []models.DateOption, opts ...Option) *Board {
	b := &Board{
		client:  client,
		options: slices.Clone(options),
		timeout: DefaultTimeout,
		now:     time.Now,
		intents: make(chan *Mutation, queueSize),
		quit:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}
	go b.run()
	return b
}

// Load replaces the roster with the remote participant list, sorted by last name.
func (b *Board) Load(ctx context.Context) error {
	records, err := b.client.ListParticipants(ctx)
	if err != nil {
		return fmt.Errorf("load participants: %w", err)
	}

	participants := make([]models.Participant, 0, len(records))
	for _, rec := range records {
		participants = append(participants, models.FromRecord(rec))
	}
	trip.SortByLastName(participants)

	b.mu.Lock()
	b.participants = participants
	b.mu.Unlock()

	b.metrics.SetParticipants(len(participants))
	slog.Info("participants loaded", "count", len(participants))
	return nil
}

// Close stops the intent loop after finishing every queued intent.
func (b *Board) Close() {
	b.stopOnce.Do(func() {
		b.closeMu.Lock()
		b.closed = true
		close(b.quit)
		b.closeMu.Unlock()
	})
	<-b.stopped
}

// Read side

// Participants returns a copy of the roster in display order.
func (b *Board) Participants() []models.Participant {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]models.Participant, len(b.participants))
	for i, p := range b.participants {
		out[i] = p.Clone()
	}
	return out
}

// Participant returns a copy of the participant with id.
func (b *Board) Participant(id string) (models.Participant, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if p := b.find(id); p != nil {
		return p.Clone(), true
	}
	return models.Participant{}, false
}

// Resolve returns the participant with activeID, falling back to the first
// participant. ok is false only when the roster is empty.
func (b *Board) Resolve(activeID string) (models.Participant, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	p := b.resolve(activeID)
	if p == nil {
		return models.Participant{}, false
	}
	return p.Clone(), true
}

// Options returns the configured trip dates.
func (b *Board) Options() []models.DateOption {
	return slices.Clone(b.options)
}

// Tally recomputes the vote tally from the current roster.
func (b *Board) Tally() models.Tally {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return tally.ForOptions(b.options, b.participants)
}

// Notices returns the rollback notices about participant id, oldest first.
func (b *Board) Notices(id string) []models.Notice {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.noticesFor(id)
}

// DismissNotices clears the rollback notices about participant id.
func (b *Board) DismissNotices(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.notices = slices.DeleteFunc(b.notices, func(n models.Notice) bool {
		return n.ParticipantID == id
	})
}

// Caller holds b.mu.
func (b *Board) noticesFor(id string) []models.Notice {
	out := []models.Notice{}
	for _, n := range b.notices {
		if n.ParticipantID == id {
			out = append(out, n)
		}
	}
	return out
}

// View builds the whole page projection for activeID under one read lock.
// Only notices about the resolved participant are included.
func (b *Board) View(activeID string) models.BoardView {
	b.mu.RLock()
	defer b.mu.RUnlock()

	view := models.BoardView{
		Participants: make([]models.RosterEntry, 0, len(b.participants)),
		Tally:        tally.ForOptions(b.options, b.participants),
		Notices:      []models.Notice{},
	}

	active := b.resolve(activeID)
	if active == nil {
		view.Empty = true
		return view
	}
	view.Notices = b.noticesFor(active.ID)

	for _, p := range b.participants {
		view.Participants = append(view.Participants, models.RosterEntry{
			ID:     p.ID,
			Name:   p.Name,
			Active: p.ID == active.ID,
		})
	}
	view.Dashboard = &models.Dashboard{
		Heading:     active.Name + "'s Dashboard",
		Participant: active.Clone(),
		Dates:       DateChoices(b.options, active.SelectedDate),
	}
	return view
}

// DateChoices marks which option equals selected.
func DateChoices(options []models.DateOption, selected string) []models.DateChoice {
	choices := make([]models.DateChoice, len(options))
	for i, opt := range options {
		choices[i] = models.DateChoice{DateOption: opt, Selected: opt.Value == selected}
	}
	return choices
}

// Intents

// SelectDate toggles date for participant id: choosing the current date
// clears it, anything else replaces it.
func (b *Board) SelectDate(ctx context.Context, id, date string) (*Mutation, error) {
	if !b.isOption(date) {
		b.metrics.IntentRejected("unknown_date")
		return nil, ErrUnknownDate
	}

	m := newMutation(ctx, id, models.FieldSelectedDate, func(p *models.Participant) {
		if p.SelectedDate == date {
			p.SelectedDate = ""
		} else {
			p.SelectedDate = date
		}
	})
	return b.submit(ctx, m)
}

// AddGroceryItem appends the trimmed item. Blank input is rejected
// before any mutation exists.
func (b *Board) AddGroceryItem(ctx context.Context, id, item string) (*Mutation, error) {
	item = strings.TrimSpace(item)
	if item == "" {
		b.metrics.IntentRejected("blank_item")
		return nil, ErrBlankItem
	}

	m := newMutation(ctx, id, models.FieldGroceryList, func(p *models.Participant) {
		list := make([]string, 0, len(p.GroceryList)+1)
		p.GroceryList = append(append(list, p.GroceryList...), item)
	})
	return b.submit(ctx, m)
}

// RemoveGroceryItem drops the item at position. A position that no longer
// exists leaves the list unchanged.
func (b *Board) RemoveGroceryItem(ctx context.Context, id string, position int) (*Mutation, error) {
	m := newMutation(ctx, id, models.FieldGroceryList, func(p *models.Participant) {
		p.GroceryList = removeAt(p.GroceryList, position)
	})
	return b.submit(ctx, m)
}

func removeAt(items []string, position int) []string {
	out := make([]string, 0, len(items))
	for i, item := range items {
		if i != position {
			out = append(out, item)
		}
	}
	return out
}

func (b *Board) submit(ctx context.Context, m *Mutation) (*Mutation, error) {
	if _, ok := b.Participant(m.ParticipantID); !ok {
		b.metrics.IntentRejected("unknown_participant")
		return nil, ErrParticipantNotFound
	}

	b.closeMu.RLock()
	defer b.closeMu.RUnlock()
	if b.closed {
		return nil, ErrClosed
	}

	select {
	case b.intents <- m:
		return m, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Intent loop

func (b *Board) run() {
	defer close(b.stopped)
	for {
		select {
		case m := <-b.intents:
			b.process(m)
		case <-b.quit:
			for {
				select {
				case m := <-b.intents:
					b.process(m)
				default:
					return
				}
			}
		}
	}
}

func (b *Board) process(m *Mutation) {
	b.mu.Lock()
	p := b.find(m.ParticipantID)
	if p == nil {
		b.mu.Unlock()
		m.finish(RolledBack, ErrParticipantNotFound)
		return
	}
	patch := m.begin(p)
	b.mu.Unlock()

	ctx, cancel := context.WithTimeout(m.ctx, b.timeout)
	err := b.client.UpdateParticipant(ctx, m.ParticipantID, patch)
	cancel()

	if err == nil {
		m.finish(Committed, nil)
		b.metrics.MutationFinished(string(m.Field), metrics.OutcomeCommitted)
		return
	}

	err = fmt.Errorf("failed to save %s: %w", fieldLabel(m.Field), err)

	// Revert the participant the mutation targeted, whoever is active now
	b.mu.Lock()
	if p := b.find(m.ParticipantID); p != nil {
		m.restore(p)
	}
	b.notices = append(b.notices, models.Notice{
		ParticipantID: m.ParticipantID,
		Field:         m.Field,
		Message:       err.Error(),
		At:            b.now(),
	})
	if len(b.notices) > maxNotices {
		b.notices = b.notices[len(b.notices)-maxNotices:]
	}
	b.mu.Unlock()

	slog.Warn("participant update rolled back",
		"participant_id", m.ParticipantID,
		"field", m.Field,
		"error", err,
	)
	m.finish(RolledBack, err)
	b.metrics.MutationFinished(string(m.Field), metrics.OutcomeRolledBack)
}

func fieldLabel(f models.PatchField) string {
	if f == models.FieldSelectedDate {
		return "date preference"
	}
	return "grocery list"
}

// Caller holds b.mu.
func (b *Board) find(id string) *models.Participant {
	for i := range b.participants {
		if b.participants[i].ID == id {
			return &b.participants[i]
		}
	}
	return nil
}

// Caller holds b.mu.
func (b *Board) resolve(activeID string) *models.Participant {
	if len(b.participants) == 0 {
		return nil
	}
	if p := b.find(activeID); p != nil {
		return p
	}
	return &b.participants[0]
}

func (b *Board) isOption(date string) bool {
	for _, opt := range b.options {
		if opt.Value == date {
			return true
		}
	}
	return false
}
