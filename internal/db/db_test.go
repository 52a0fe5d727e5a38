package db

import "testing"

func TestMigrateIsIdempotent(t *testing.T) {
	database := NewTestDB(t)

	if _, err := database.Exec(
		`INSERT INTO items (id, name, status, your_split_pct) VALUES ('a', 'Old', 'SOLD', 140)`,
	); err != nil {
		t.Fatalf("inserting legacy row: %v", err)
	}

	for range 2 {
		if err := Migrate(database); err != nil {
			t.Fatalf("Migrate: %v", err)
		}
	}

	var status string
	var split int
	if err := database.QueryRow(`SELECT status, your_split_pct FROM items WHERE id = 'a'`).Scan(&status, &split); err != nil {
		t.Fatalf("reading row: %v", err)
	}
	if status != "sold" {
		t.Errorf("expected status 'sold', got %q", status)
	}
	if split != 100 {
		t.Errorf("expected split 100, got %d", split)
	}
}

func TestDSN(t *testing.T) {
	got := dsn("prft.sqlite3")
	want := "prft.sqlite3?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_pragma=synchronous(NORMAL)&_time_format=sqlite"
	if got != want {
		t.Errorf("dsn = %q, want %q", got, want)
	}

	if got := dsn("file:x.db?mode=ro"); got[:len("file:x.db?mode=ro&")] != "file:x.db?mode=ro&" {
		t.Errorf("expected existing query to be extended, got %q", got)
	}
}

func TestForeignKeysEnabled(t *testing.T) {
	database := NewTestDB(t)

	var on int
	if err := database.QueryRow(`PRAGMA foreign_keys`).Scan(&on); err != nil {
		t.Fatalf("reading pragma: %v", err)
	}
	if on != 1 {
		t.Errorf("expected foreign_keys on, got %d", on)
	}
}

func TestNewTestDBMatchesProduction(t *testing.T) {
	database := NewTestDB(t)

	var mode string
	if err := database.QueryRow(`PRAGMA journal_mode`).Scan(&mode); err != nil {
		t.Fatalf("reading pragma: %v", err)
	}
	if mode != "wal" {
		t.Errorf("expected journal_mode wal, got %q", mode)
	}

	// Separate pooled connections see the same data.
	conn1, err := database.Conn(t.Context())
	if err != nil {
		t.Fatal(err)
	}
	defer conn1.Close()
	if _, err := conn1.ExecContext(t.Context(), `INSERT INTO settings (key, value) VALUES ('k', 'v')`); err != nil {
		t.Fatalf("insert: %v", err)
	}

	conn2, err := database.Conn(t.Context())
	if err != nil {
		t.Fatal(err)
	}
	defer conn2.Close()
	var v string
	if err := conn2.QueryRowContext(t.Context(), `SELECT value FROM settings WHERE key = 'k'`).Scan(&v); err != nil {
		t.Fatalf("select on second connection: %v", err)
	}
	if v != "v" {
		t.Errorf("expected 'v', got %q", v)
	}
}
