package storage

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
)

func TestOpenEmptyPath(t *testing.T) {
	if _, err := Open(""); !errors.Is(err, ErrEmptyPath) {
		t.Fatalf("Open(\"\") err = %v, want ErrEmptyPath", err)
	}
}

func TestStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "timelink.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, found, err := s.Get(KeyEvents); err != nil || found {
		t.Fatalf("Get on empty store = found %v, err %v", found, err)
	}
	if err := s.Put(KeyEvents, `[]`); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Put(KeyEvents, `[{"id":1}]`); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	got, found, err := s.Get(KeyEvents)
	if err != nil || !found {
		t.Fatalf("Get after reopen = found %v, err %v", found, err)
	}
	if got != `[{"id":1}]` {
		t.Fatalf("Get = %q", got)
	}
}

func TestOpenBackfillsUpdatedAt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.db")
	db, err := sql.Open("sqlite", sqliteDSN(path))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec(`CREATE TABLE kv (key TEXT PRIMARY KEY, value TEXT NOT NULL);`); err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec(`INSERT INTO kv (key, value) VALUES (?, ?);`, KeyHolidays, `[]`); err != nil {
		t.Fatal(err)
	}
	db.Close()

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open old database: %v", err)
	}
	defer s.Close()
	if err := s.Put(KeyHolidays, `[{"id":1}]`); err != nil {
		t.Fatalf("Put after back-fill: %v", err)
	}
	var updated string
	if err := s.db.QueryRow(`SELECT updated_at FROM kv WHERE key = ?;`, KeyHolidays).Scan(&updated); err != nil || updated == "" {
		t.Fatalf("updated_at = %q, err %v", updated, err)
	}
}

func TestSqliteDSN(t *testing.T) {
	if got := sqliteDSN("file:memdb?mode=memory"); got != "file:memdb?mode=memory" {
		t.Fatalf("file: DSN rewritten to %q", got)
	}
	got := sqliteDSN("/tmp/x.db")
	want := "file:///tmp/x.db?_pragma=busy_timeout%285000%29&mode=rwc"
	if got != want {
		t.Fatalf("sqliteDSN = %q, want %q", got, want)
	}
}
