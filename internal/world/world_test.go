package world

import (
	"strings"
	"testing"
)

const sampleMap = `{
  "roads": [
    {"id": "main", "orientation": "vertical", "x": 100, "z": 500, "width": 20, "depth": 1000},
    {"id": "elm", "orientation": "horizontal", "x": 500, "z": 100, "width": 1000, "depth": 20}
  ],
  "lots": [
    {
      "id": "lot001",
      "address": "101 West 1",
      "usage": "residential",
      "outline": {"vertices": [
        {"x": 150, "z": 150}, {"x": 300, "z": 150},
        {"x": 300, "z": 300}, {"x": 150, "z": 300}
      ]}
    }
  ]
}`

func TestDecodeSampleMap(t *testing.T) {
	layout, err := Decode([]byte(sampleMap))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(layout.Roads) != 2 {
		t.Errorf("roads = %d, want 2", len(layout.Roads))
	}
	if len(layout.Lots) != 1 {
		t.Errorf("lots = %d, want 1", len(layout.Lots))
	}
	if layout.Roads[0].Orientation != OrientationVertical {
		t.Errorf("orientation = %q, want vertical", layout.Roads[0].Orientation)
	}
	lot := layout.Lot("lot001")
	if lot == nil {
		t.Fatal("lot001 not found")
	}
	c := lot.Centroid()
	if c.X != 225 || c.Z != 225 {
		t.Errorf("centroid = %v, want (225, 225)", c)
	}
}

func TestDecodeRejectsBadMap(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `{roads:}`},
		{"missing roads", `{"lots": []}`},
		{"bad orientation", `{"roads": [{"id": "r", "orientation": "diagonal", "x": 0, "z": 0, "width": 10, "depth": 10}]}`},
		{"zero width", `{"roads": [{"id": "r", "orientation": "vertical", "x": 0, "z": 0, "width": 0, "depth": 10}]}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Decode([]byte(tc.raw)); err == nil {
				t.Error("expected decode error, got nil")
			}
		})
	}
}

func TestValidateDuplicateIDs(t *testing.T) {
	layout := &Layout{
		Roads: []RoadSegment{
			{ID: "r1", Orientation: OrientationVertical, X: 0, Z: 0, Width: 10, Depth: 100},
			{ID: "r1", Orientation: OrientationHorizontal, X: 0, Z: 0, Width: 100, Depth: 10},
		},
	}
	err := layout.Validate()
	if err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Errorf("expected duplicate id error, got %v", err)
	}
}

func TestGenerateDeterministic(t *testing.T) {
	cfg := DefaultGenConfig()
	cfg.Seed = 42

	a := Generate(cfg)
	b := Generate(cfg)
	if len(a.Roads) != len(b.Roads) || len(a.Lots) != len(b.Lots) {
		t.Fatalf("same seed produced different layouts: %d/%d roads, %d/%d lots",
			len(a.Roads), len(b.Roads), len(a.Lots), len(b.Lots))
	}
	for i := range a.Roads {
		if a.Roads[i] != b.Roads[i] {
			t.Errorf("road %d differs between runs", i)
		}
	}
}

func TestGenerateStructure(t *testing.T) {
	cfg := DefaultGenConfig()
	cfg.Seed = 7
	layout := Generate(cfg)

	if err := layout.Validate(); err != nil {
		t.Fatalf("generated layout invalid: %v", err)
	}
	if len(layout.Roads) < 4 {
		t.Errorf("roads = %d, want at least the 4 border streets", len(layout.Roads))
	}
	vertical, horizontal := 0, 0
	for _, r := range layout.Roads {
		switch r.Orientation {
		case OrientationVertical:
			vertical++
		case OrientationHorizontal:
			horizontal++
		}
	}
	if vertical < 2 || horizontal < 2 {
		t.Errorf("got %d vertical / %d horizontal streets, want >= 2 of each", vertical, horizontal)
	}

	for _, lot := range layout.Lots {
		if lot.Outline.IsDegenerate() {
			t.Errorf("lot %s has a degenerate outline", lot.ID)
		}
	}
	if len(layout.ResidentialLots()) == 0 {
		t.Error("expected at least one residential lot")
	}
	t.Logf("generated %d roads, %d lots (%d residential)",
		len(layout.Roads), len(layout.Lots), len(layout.ResidentialLots()))
}
