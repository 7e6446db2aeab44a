package replay

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/laubsauger/streetsim/internal/engine"
)

func TestRecordAndReadBack(t *testing.T) {
	dir := t.TempDir()
	hdr := Header{RunID: "test-run", Seed: 42, Interval: "100ms"}

	rec, err := NewRecorder(dir, hdr)
	if err != nil {
		t.Fatalf("NewRecorder: %v", err)
	}
	for tick := uint64(1); tick <= 3; tick++ {
		snap := engine.Snapshot{
			Tick:  tick,
			Clock: "00:00:00",
			Actors: []engine.ActorSnapshot{
				{ID: 1, Kind: "resident", Name: "Ada Berg", X: float64(tick) * 10, Z: 200},
			},
		}
		if err := rec.Record(snap); err != nil {
			t.Fatalf("Record tick %d: %v", tick, err)
		}
	}
	if err := rec.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	r, err := OpenReader(filepath.Join(dir, "test-run.jsonl.zst"))
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer r.Close()

	if got := r.Header(); got.RunID != "test-run" || got.Seed != 42 {
		t.Errorf("header = %+v", got)
	}

	var ticks []uint64
	for {
		snap, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		ticks = append(ticks, snap.Tick)
		if len(snap.Actors) != 1 || snap.Actors[0].Name != "Ada Berg" {
			t.Errorf("tick %d actors = %+v", snap.Tick, snap.Actors)
		}
	}
	if len(ticks) != 3 || ticks[0] != 1 || ticks[2] != 3 {
		t.Errorf("frames = %v, want [1 2 3]", ticks)
	}
}

func TestOpenReaderRejectsEmptyFile(t *testing.T) {
	dir := t.TempDir()
	rec, err := NewRecorder(dir, Header{RunID: "empty"})
	if err != nil {
		t.Fatalf("NewRecorder: %v", err)
	}
	if err := rec.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	r, err := OpenReader(filepath.Join(dir, "empty.jsonl.zst"))
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer r.Close()
	if _, err := r.Next(); err != io.EOF {
		t.Errorf("Next on header-only file = %v, want io.EOF", err)
	}
}
