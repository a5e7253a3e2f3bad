// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/danielhkuo/tripboard/models"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := Open(DialectSQLite, filepath.Join(t.TempDir(), "tripboard.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	return conn
}

func TestCreateSchemaIsIdempotent(t *testing.T) {
	conn := openTestDB(t)

	if err := CreateSchema(conn); err != nil {
		t.Fatalf("Second CreateSchema failed: %v", err)
	}
}

func TestSeedRoster(t *testing.T) {
	conn := openTestDB(t)
	ctx := context.Background()

	roster := []models.Participant{
		{ID: "1", Name: "Spencer Bialek"},
		{ID: "2", Name: "Matt Bowley", SelectedDate: "July 7, 2025", GroceryList: []string{"Milk"}},
	}

	n, err := SeedRoster(ctx, conn, DialectSQLite, roster)
	if err != nil {
		t.Fatalf("SeedRoster failed: %v", err)
	}
	if n != 2 {
		t.Errorf("Expected 2 rows seeded, got %d", n)
	}

	var date sql.NullString
	var list string
	err = conn.QueryRow(`SELECT selected_date, grocery_list FROM participants WHERE id = ?`, "2").Scan(&date, &list)
	if err != nil {
		t.Fatalf("Failed to query seeded row: %v", err)
	}
	if date.String != "July 7, 2025" {
		t.Errorf("Expected selected_date July 7, 2025, got %q", date.String)
	}
	if list != `["Milk"]` {
		t.Errorf("Expected grocery_list [\"Milk\"], got %s", list)
	}

	err = conn.QueryRow(`SELECT selected_date FROM participants WHERE id = ?`, "1").Scan(&date)
	if err != nil {
		t.Fatalf("Failed to query seeded row: %v", err)
	}
	if date.Valid {
		t.Errorf("Expected NULL selected_date, got %q", date.String)
	}

	// A populated table is left alone
	n, err = SeedRoster(ctx, conn, DialectSQLite, roster)
	if err != nil {
		t.Fatalf("Second SeedRoster failed: %v", err)
	}
	if n != 0 {
		t.Errorf("Expected 0 rows seeded into populated table, got %d", n)
	}
}

func TestParseDialect(t *testing.T) {
	for _, s := range []string{"sqlite", "postgres"} {
		if _, err := ParseDialect(s); err != nil {
			t.Errorf("ParseDialect(%q) failed: %v", s, err)
		}
	}
	if _, err := ParseDialect("mysql"); err == nil {
		t.Error("Expected error for mysql")
	}
}

func TestRebind(t *testing.T) {
	q := `UPDATE participants SET selected_date = ? WHERE id = ?`

	if got := DialectSQLite.Rebind(q); got != q {
		t.Errorf("sqlite should not rewrite placeholders, got %s", got)
	}

	want := `UPDATE participants SET selected_date = $1 WHERE id = $2`
	if got := DialectPostgres.Rebind(q); got != want {
		t.Errorf("Expected %s, got %s", want, got)
	}
}
