// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/danielhkuo/tripboard/cliparse"
	"github.com/danielhkuo/tripboard/db"
	"github.com/danielhkuo/tripboard/models"
)

const (
	July7 = "July 7, 2025"
	July8 = "July 8, 2025"
)

// SetupTestDB creates a fresh SQLite database with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(db.DialectSQLite, filepath.Join(t.TempDir(), "tripboard.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// SeedParticipants writes participants into an empty test database
func SeedParticipants(t *testing.T, conn *sql.DB, participants ...models.Participant) {
	t.Helper()

	if _, err := db.SeedRoster(context.Background(), conn, db.DialectSQLite, participants); err != nil {
		t.Fatalf("Failed to seed participants: %v", err)
	}
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:          3318,
		Backend:       cliparse.BackendSQL,
		DatabaseURL:   ":memory:",
		DatabaseType:  "sqlite",
		SessionSalt:   "test-session-salt",
		RemoteTimeout: cliparse.DefaultRemoteTimeout,
	}
}

// DateOptions returns the two default trip dates
func DateOptions() []models.DateOption {
	return []models.DateOption{
		{ID: "july-7", Label: "July 7th", Value: July7},
		{ID: "july-8", Label: "July 8th", Value: July8},
	}
}

// Roster returns n participants with ids "1".."n" already in last-name order
func Roster(names ...string) []models.Participant {
	ps := make([]models.Participant, len(names))
	for i, name := range names {
		ps[i] = models.Participant{
			ID:          strconv.Itoa(i + 1),
			Name:        name,
			GroceryList: []string{},
		}
	}
	return ps
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
