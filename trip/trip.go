// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package trip loads the trip definition: title, date options and roster.
package trip

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/danielhkuo/tripboard/models"
)

//go:embed trip.yaml
var defaultTrip []byte

const dateLayout = "2006-01-02"

var (
	ErrNoDates       = errors.New("trip defines no dates")
	ErrDuplicateDate = errors.New("duplicate trip date")
)

// File is the YAML shape of a trip definition.
type File struct {
	Title  string     `yaml:"title"`
	Dates  []DateEntry `yaml:"dates"`
	Roster []Member   `yaml:"roster"`
}

// DateEntry is one trip date. ID is derived from the date when empty.
type DateEntry struct {
	ID   string `yaml:"id,omitempty"`
	Date string `yaml:"date"`
}

// Member is one roster entry used for seeding.
type Member struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// Trip is a parsed, validated trip definition.
type Trip struct {
	Title   string
	Options []models.DateOption
	Roster  []models.Participant
}

// Load reads the trip file at path, or the embedded default when path is empty.
func Load(path string) (Trip, error) {
	if path == "" {
		return Parse(defaultTrip)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Trip{}, fmt.Errorf("read trip file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML trip definition.
func Parse(data []byte) (Trip, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Trip{}, fmt.Errorf("parse trip file: %w", err)
	}
	if len(f.Dates) == 0 {
		return Trip{}, ErrNoDates
	}

	t := Trip{Title: f.Title}
	seen := make(map[string]bool)
	for _, entry := range f.Dates {
		d, err := time.Parse(dateLayout, entry.Date)
		if err != nil {
			return Trip{}, fmt.Errorf("parse trip date %q: %w", entry.Date, err)
		}
		opt := Option(d)
		if entry.ID != "" {
			opt.ID = entry.ID
		}
		if seen[opt.Value] {
			return Trip{}, fmt.Errorf("%w: %s", ErrDuplicateDate, opt.Value)
		}
		seen[opt.Value] = true
		t.Options = append(t.Options, opt)
	}

	for _, m := range f.Roster {
		if m.ID == "" || strings.TrimSpace(m.Name) == "" {
			return Trip{}, fmt.Errorf("roster entry needs id and name: %+v", m)
		}
		t.Roster = append(t.Roster, models.Participant{
			ID:          m.ID,
			Name:        m.Name,
			GroceryList: []string{},
		})
	}
	SortByLastName(t.Roster)

	return t, nil
}

// Option builds the date option for d: "july-7", "July 7th", "July 7, 2025".
func Option(d time.Time) models.DateOption {
	month := d.Format("January")
	return models.DateOption{
		ID:    strings.ToLower(month) + "-" + strconv.Itoa(d.Day()),
		Label: month + " " + humanize.Ordinal(d.Day()),
		Value: d.Format("January 2, 2006"),
	}
}

// LastName returns the last space-separated word of name.
func LastName(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

// SortByLastName orders participants by last name, stable for equal names.
func SortByLastName(participants []models.Participant) {
	c := collate.New(language.English, collate.IgnoreCase)
	sort.SliceStable(participants, func(i, j int) bool {
		return c.CompareString(LastName(participants[i].Name), LastName(participants[j].Name)) < 0
	})
}
