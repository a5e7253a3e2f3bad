// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package remote defines the participant table the board persists to.
package remote

import (
	"context"
	"errors"

	"github.com/danielhkuo/tripboard/models"
)

var (
	ErrNotFound     = errors.New("participant not found")
	ErrInvalidPatch = errors.New("invalid participant patch")
)

// Client reads and updates participant rows in a remote store.
type Client interface {
	// ListParticipants returns every participant row, unfiltered.
	ListParticipants(ctx context.Context) ([]models.ParticipantRecord, error)

	// UpdateParticipant writes the single field carried by patch to the row with id.
	UpdateParticipant(ctx context.Context, id string, patch models.ParticipantPatch) error
}

// ValidatePatch reports whether patch names a field Client implementations accept.
func ValidatePatch(patch models.ParticipantPatch) error {
	switch patch.Field {
	case models.FieldSelectedDate, models.FieldGroceryList:
		return nil
	}
	return ErrInvalidPatch
}
