// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"context"
	"sync"

	"github.com/danielhkuo/tripboard/models"
	"github.com/danielhkuo/tripboard/remote"
)

// Update is one recorded UpdateParticipant call
type Update struct {
	ID    string
	Patch models.ParticipantPatch
}

// FakeClient is an in-memory remote.Client with failure injection
type FakeClient struct {
	mu        sync.Mutex
	records   []models.ParticipantRecord
	updates   []Update
	listErr   error
	updateErr error
	failFor   map[string]error
	gate      chan struct{}
	started   chan Update
}

var _ remote.Client = (*FakeClient)(nil)

func NewFakeClient(participants ...models.Participant) *FakeClient {
	f := &FakeClient{started: make(chan Update, 64)}
	for _, p := range participants {
		f.records = append(f.records, p.Record())
	}
	return f
}

// FailList makes ListParticipants return err
func (f *FakeClient) FailList(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listErr = err
}

// FailUpdates makes every following UpdateParticipant return err; nil restores success
func (f *FakeClient) FailUpdates(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateErr = err
}

// FailUpdatesFor makes updates of participant id return err; nil restores success
func (f *FakeClient) FailUpdatesFor(id string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFor == nil {
		f.failFor = make(map[string]error)
	}
	if err == nil {
		delete(f.failFor, id)
		return
	}
	f.failFor[id] = err
}

// Hold blocks updates until release is called. Each held call is reported on Started.
func (f *FakeClient) Hold() (release func()) {
	gate := make(chan struct{})
	f.mu.Lock()
	f.gate = gate
	f.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			f.gate = nil
			f.mu.Unlock()
			close(gate)
		})
	}
}

// Started receives every update that reached the fake
func (f *FakeClient) Started() <-chan Update { return f.started }

// Updates returns the recorded UpdateParticipant calls
func (f *FakeClient) Updates() []Update {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Update{}, f.updates...)
}

// Record returns the stored row for id
func (f *FakeClient) Record(id string) (models.ParticipantRecord, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, rec := range f.records {
		if rec.ID == id {
			return rec, true
		}
	}
	return models.ParticipantRecord{}, false
}

func (f *FakeClient) ListParticipants(ctx context.Context) ([]models.ParticipantRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]models.ParticipantRecord{}, f.records...), nil
}

func (f *FakeClient) UpdateParticipant(ctx context.Context, id string, patch models.ParticipantPatch) error {
	if err := remote.ValidatePatch(patch); err != nil {
		return err
	}

	call := Update{ID: id, Patch: patch}
	f.mu.Lock()
	f.updates = append(f.updates, call)
	gate := f.gate
	f.mu.Unlock()

	select {
	case f.started <- call:
	default:
	}

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	if err := f.failFor[id]; err != nil {
		return err
	}
	for i := range f.records {
		if f.records[i].ID != id {
			continue
		}
		p := models.FromRecord(f.records[i])
		switch patch.Field {
		case models.FieldSelectedDate:
			p.SelectedDate = patch.SelectedDate
		case models.FieldGroceryList:
			p.GroceryList = patch.GroceryList
		}
		f.records[i] = p.Record()
		return nil
	}
	return remote.ErrNotFound
}
