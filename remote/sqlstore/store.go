// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package sqlstore implements remote.Client over the participants table.
package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/danielhkuo/tripboard/db"
	"github.com/danielhkuo/tripboard/models"
	"github.com/danielhkuo/tripboard/remote"
)

var _ remote.Client = (*Store)(nil)

// Store reads and writes participants with database/sql.
type Store struct {
	db      *sql.DB
	dialect db.Dialect
}

func New(conn *sql.DB, dialect db.Dialect) *Store {
	return &Store{db: conn, dialect: dialect}
}

// ListParticipants returns every row ordered by id.
func (s *Store) ListParticipants(ctx context.Context) ([]models.ParticipantRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, selected_date, grocery_list
		FROM participants
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("query participants: %w", err)
	}
	defer rows.Close()

	records := []models.ParticipantRecord{}
	for rows.Next() {
		var rec models.ParticipantRecord
		var date sql.NullString
		var list string
		if err := rows.Scan(&rec.ID, &rec.Name, &date, &list); err != nil {
			return nil, fmt.Errorf("scan participant: %w", err)
		}
		if date.Valid {
			rec.SelectedDate = &date.String
		}
		if err := json.Unmarshal([]byte(list), &rec.GroceryList); err != nil {
			return nil, fmt.Errorf("decode grocery list of %s: %w", rec.ID, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate participants: %w", err)
	}

	return records, nil
}

// UpdateParticipant writes the patched column of one row.
func (s *Store) UpdateParticipant(ctx context.Context, id string, patch models.ParticipantPatch) error {
	if err := remote.ValidatePatch(patch); err != nil {
		return err
	}

	var query string
	var value any
	switch patch.Field {
	case models.FieldSelectedDate:
		query = `UPDATE participants SET selected_date = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
		if patch.SelectedDate != "" {
			value = patch.SelectedDate
		}
	case models.FieldGroceryList:
		query = `UPDATE participants SET grocery_list = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
		list := patch.GroceryList
		if list == nil {
			list = []string{}
		}
		encoded, err := json.Marshal(list)
		if err != nil {
			return fmt.Errorf("encode grocery list: %w", err)
		}
		value = string(encoded)
	}

	res, err := s.db.ExecContext(ctx, s.dialect.Rebind(query), value, id)
	if err != nil {
		return fmt.Errorf("update participant %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update participant %s: %w", id, err)
	}
	if n == 0 {
		return remote.ErrNotFound
	}

	return nil
}
