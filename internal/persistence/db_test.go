package persistence

import (
	"path/filepath"
	"testing"

	"github.com/laubsauger/streetsim/internal/engine"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "telemetry.db"), 42)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestLogAndReadEvents(t *testing.T) {
	db := openTestDB(t)
	if db.RunID() == "" {
		t.Fatal("run should get an ID")
	}

	events := []engine.Event{
		{Tick: 1, Category: "trip", Description: "Ada Berg takes a walk"},
		{Tick: 5, Category: "trip", Description: "Ada Berg heads home"},
	}
	if err := db.LogEvents(events); err != nil {
		t.Fatalf("LogEvents: %v", err)
	}

	got, err := db.RecentEvents(10)
	if err != nil {
		t.Fatalf("RecentEvents: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d events, want 2", len(got))
	}
	// Newest first.
	if got[0].Tick != 5 || got[1].Tick != 1 {
		t.Errorf("order = [%d %d], want [5 1]", got[0].Tick, got[1].Tick)
	}
}

func TestLogEventsEmptyIsNoop(t *testing.T) {
	db := openTestDB(t)
	if err := db.LogEvents(nil); err != nil {
		t.Errorf("LogEvents(nil) = %v", err)
	}
}

func TestLogStats(t *testing.T) {
	db := openTestDB(t)
	s := engine.SimStats{Residents: 10, Vehicles: 6, AtHome: 7, OnFoot: 2, Driving: 1, TripsStarted: 3}
	if err := db.LogStats(100, s); err != nil {
		t.Fatalf("LogStats: %v", err)
	}
	// Same tick again replaces rather than erroring.
	if err := db.LogStats(100, s); err != nil {
		t.Fatalf("LogStats repeat: %v", err)
	}
}

func TestRunsAreIsolated(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "telemetry.db")

	first, err := Open(path, 1)
	if err != nil {
		t.Fatalf("Open first: %v", err)
	}
	if err := first.LogEvents([]engine.Event{{Tick: 1, Category: "trip", Description: "old run"}}); err != nil {
		t.Fatalf("LogEvents: %v", err)
	}
	first.Close()

	second, err := Open(path, 2)
	if err != nil {
		t.Fatalf("Open second: %v", err)
	}
	defer second.Close()

	got, err := second.RecentEvents(10)
	if err != nil {
		t.Fatalf("RecentEvents: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("new run sees %d events from the old run, want 0", len(got))
	}
}
