// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"encoding/json"
	"fmt"
	"slices"
	"time"
)

// Patch field names, as used by the remote participant table
const (
	FieldSelectedDate PatchField = "selected_date"
	FieldGroceryList  PatchField = "grocery_list"
)

// Domain types

// Participant is the in-memory view of one roster member.
type Participant struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	SelectedDate string   `json:"selectedDate,omitempty"` // "" means no preference
	GroceryList  []string `json:"groceryList"`
}

// Clone returns a copy that shares no slice memory with p.
func (p Participant) Clone() Participant {
	c := p
	c.GroceryList = slices.Clone(p.GroceryList)
	if c.GroceryList == nil {
		c.GroceryList = []string{}
	}
	return c
}

// Record converts p to the remote table shape.
func (p Participant) Record() ParticipantRecord {
	rec := ParticipantRecord{
		ID:          p.ID,
		Name:        p.Name,
		GroceryList: slices.Clone(p.GroceryList),
	}
	if p.SelectedDate != "" {
		date := p.SelectedDate
		rec.SelectedDate = &date
	}
	if rec.GroceryList == nil {
		rec.GroceryList = []string{}
	}
	return rec
}

// DateOption is one entry of the fixed set of trip dates.
type DateOption struct {
	ID    string `json:"id"`    // e.g. "july-7"
	Label string `json:"label"` // e.g. "July 7th"
	Value string `json:"value"` // e.g. "July 7, 2025"
}

// Tally is the aggregate of all date votes.
type Tally struct {
	LeadingDates []string       `json:"leadingDates"`
	VoteCount    int            `json:"voteCount"`
	HasVotes     bool           `json:"hasVotes"`
	Counts       map[string]int `json:"counts"`
}

// Notice records a mutation that was rolled back.
type Notice struct {
	ParticipantID string     `json:"participantId"`
	Field         PatchField `json:"field"`
	Message       string     `json:"message"`
	At            time.Time  `json:"at"`
}

// Remote boundary types

// ParticipantRecord is a participant row as the remote store returns it.
type ParticipantRecord struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	SelectedDate *string  `json:"selected_date"`
	GroceryList  []string `json:"grocery_list"`
}

// FromRecord converts a remote row into a Participant.
func FromRecord(rec ParticipantRecord) Participant {
	p := Participant{
		ID:          rec.ID,
		Name:        rec.Name,
		GroceryList: slices.Clone(rec.GroceryList),
	}
	if rec.SelectedDate != nil {
		p.SelectedDate = *rec.SelectedDate
	}
	if p.GroceryList == nil {
		p.GroceryList = []string{}
	}
	return p
}

// PatchField names the single column a ParticipantPatch updates.
type PatchField string

// ParticipantPatch is a partial update of exactly one participant field.
type ParticipantPatch struct {
	Field        PatchField
	SelectedDate string // "" clears the date
	GroceryList  []string
}

// DatePatch builds a patch for selected_date.
func DatePatch(date string) ParticipantPatch {
	return ParticipantPatch{Field: FieldSelectedDate, SelectedDate: date}
}

// GroceryPatch builds a patch for grocery_list.
func GroceryPatch(items []string) ParticipantPatch {
	list := slices.Clone(items)
	if list == nil {
		list = []string{}
	}
	return ParticipantPatch{Field: FieldGroceryList, GroceryList: list}
}

// MarshalJSON writes only the patched column.
func (p ParticipantPatch) MarshalJSON() ([]byte, error) {
	switch p.Field {
	case FieldSelectedDate:
		var date *string
		if p.SelectedDate != "" {
			date = &p.SelectedDate
		}
		return json.Marshal(map[string]*string{string(FieldSelectedDate): date})
	case FieldGroceryList:
		list := p.GroceryList
		if list == nil {
			list = []string{}
		}
		return json.Marshal(map[string][]string{string(FieldGroceryList): list})
	}
	return nil, fmt.Errorf("unknown patch field %q", p.Field)
}

// Request types

type SelectParticipantRequest struct {
	ParticipantID string `json:"participantId"`
}

type SelectDateRequest struct {
	Date string `json:"date"`
}

type AddGroceryItemRequest struct {
	Item string `json:"item"`
}

// Response types

type RosterEntry struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

type DateChoice struct {
	DateOption
	Selected bool `json:"selected"`
}

type Dashboard struct {
	Heading     string       `json:"heading"`
	Participant Participant  `json:"participant"`
	Dates       []DateChoice `json:"dates"`
}

type BoardView struct {
	Title        string        `json:"title"`
	Empty        bool          `json:"empty"`
	Participants []RosterEntry `json:"participants"`
	Dashboard    *Dashboard    `json:"dashboard,omitempty"`
	Tally        Tally         `json:"tally"`
	Notices      []Notice      `json:"notices"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
