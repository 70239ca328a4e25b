package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"timelink/internal/state"
	"timelink/internal/storage"
)

func TestResolveDay(t *testing.T) {
	seoul := time.FixedZone("KST", 9*3600)
	now := time.Date(2025, 3, 10, 22, 15, 0, 0, seoul)

	got, err := resolveDay("", now)
	if err != nil || !got.Equal(time.Date(2025, 3, 10, 0, 0, 0, 0, seoul)) {
		t.Fatalf("resolveDay(\"\") = %v, %v", got, err)
	}
	got, err = resolveDay("2025-12-25", now)
	if err != nil || got.Day() != 25 || got.Location() != seoul {
		t.Fatalf("resolveDay(date) = %v, %v", got, err)
	}
	if _, err := resolveDay("25/12/2025", now); err == nil {
		t.Fatal("expected error for bad date")
	}
}

func TestImportCalendarCountsOnlyAdded(t *testing.T) {
	const cal = "BEGIN:VCALENDAR\r\n" +
		"VERSION:2.0\r\n" +
		"PRODID:-//test//EN\r\n" +
		"BEGIN:VEVENT\r\n" +
		"UID:lunch\r\n" +
		"SUMMARY:Lunch\r\n" +
		"DTSTART:20250310T120000Z\r\n" +
		"END:VEVENT\r\n" +
		"BEGIN:VEVENT\r\n" +
		"UID:untitled\r\n" +
		"DTSTART:20250311T120000Z\r\n" +
		"END:VEVENT\r\n" +
		"BEGIN:VEVENT\r\n" +
		"UID:spring\r\n" +
		"SUMMARY:Spring Break\r\n" +
		"CATEGORIES:HOLIDAY\r\n" +
		"DTSTART;VALUE=DATE:20250315\r\n" +
		"DTEND;VALUE=DATE:20250317\r\n" +
		"END:VEVENT\r\n" +
		"BEGIN:VEVENT\r\n" +
		"UID:nameless\r\n" +
		"CATEGORIES:HOLIDAY\r\n" +
		"DTSTART;VALUE=DATE:20250401\r\n" +
		"END:VEVENT\r\n" +
		"END:VCALENDAR\r\n"
	path := filepath.Join(t.TempDir(), "in.ics")
	if err := os.WriteFile(path, []byte(cal), 0o644); err != nil {
		t.Fatal(err)
	}
	store := state.New(storage.NewRepository(storage.NewMemory(), storage.WithLocation(time.UTC)))

	events, holidays, err := importCalendar(store, path, time.UTC)
	if err != nil {
		t.Fatalf("importCalendar: %v", err)
	}
	if events != 1 || holidays != 1 {
		t.Fatalf("added %d events, %d holidays; want 1 and 1", events, holidays)
	}
	if len(store.Events()) != 1 || len(store.Holidays()) != 1 {
		t.Fatalf("store has %d events, %d holidays", len(store.Events()), len(store.Holidays()))
	}
}
