package spatial

import (
	"math"
	"math/rand"
	"testing"
)

type dot struct {
	x, z float64
}

func (d *dot) Coords() (float64, float64) { return d.x, d.z }

func scatter(n int, seed int64, extent float64) []Entity {
	rng := rand.New(rand.NewSource(seed))
	out := make([]Entity, n)
	for i := range out {
		out[i] = &dot{
			x: (rng.Float64() - 0.5) * extent,
			z: (rng.Float64() - 0.5) * extent,
		}
	}
	return out
}

func TestReflexivity(t *testing.T) {
	g := NewGrid(50)
	entities := scatter(200, 1, 4000)
	g.Populate(entities)

	for _, e := range entities {
		x, z := e.Coords()
		found := false
		for _, got := range g.Nearby(x, z, 0) {
			if got == e {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("entity at (%v, %v) missing from its own Nearby(0)", x, z)
		}
	}
}

func TestSupersetProperty(t *testing.T) {
	g := NewGrid(50)
	entities := scatter(300, 2, 4000)
	g.Populate(entities)

	for _, radius := range []float64{0, 10, 50, 120, 500} {
		qx, qz := 37.0, -81.0
		got := make(map[Entity]bool)
		for _, e := range g.Nearby(qx, qz, radius) {
			got[e] = true
		}
		for _, e := range entities {
			x, z := e.Coords()
			if math.Hypot(x-qx, z-qz) <= radius && !got[e] {
				t.Errorf("radius %v: entity at (%v, %v) within range but not returned", radius, x, z)
			}
		}
	}
}

func TestEveryEntityInExactlyOneCell(t *testing.T) {
	g := NewGrid(50)
	entities := scatter(100, 3, 2000)
	g.Populate(entities)

	counts := make(map[Entity]int)
	for _, bucket := range g.cells {
		for _, e := range bucket {
			counts[e]++
		}
	}
	for _, e := range entities {
		if counts[e] != 1 {
			x, z := e.Coords()
			t.Errorf("entity at (%v, %v) appears in %d cells, want 1", x, z, counts[e])
		}
	}
}

func TestPopulateReplacesPreviousTick(t *testing.T) {
	g := NewGrid(50)
	old := &dot{x: 10, z: 10}
	g.Populate([]Entity{old})

	fresh := &dot{x: 500, z: 500}
	g.Populate([]Entity{fresh})

	if got := g.Nearby(10, 10, 0); len(got) != 0 {
		t.Errorf("stale entity survived repopulation: %v", got)
	}
	if got := g.SameCell(500, 500); len(got) != 1 || got[0] != fresh {
		t.Errorf("SameCell after repopulate = %v, want the fresh entity", got)
	}
}

func TestEmptyQueries(t *testing.T) {
	g := NewGrid(50)
	if got := g.Nearby(1e9, -1e9, 100); len(got) != 0 {
		t.Errorf("Nearby on empty grid = %v, want empty", got)
	}
	if got := g.SameCell(0, 0); len(got) != 0 {
		t.Errorf("SameCell on empty grid = %v, want empty", got)
	}
}

func TestNegativeCoordinates(t *testing.T) {
	// floor-based keys must not collapse cells around the origin.
	g := NewGrid(50)
	a := &dot{x: -1, z: -1}
	b := &dot{x: 1, z: 1}
	g.Populate([]Entity{a, b})

	if got := g.SameCell(-1, -1); len(got) != 1 || got[0] != a {
		t.Errorf("SameCell(-1,-1) = %v, want just the negative-side entity", got)
	}
	if got := g.SameCell(1, 1); len(got) != 1 || got[0] != b {
		t.Errorf("SameCell(1,1) = %v, want just the positive-side entity", got)
	}
	// Both still show up in a small cross-origin radius query.
	if got := g.Nearby(0, 0, 5); len(got) != 2 {
		t.Errorf("Nearby(0,0,5) = %d entities, want 2", len(got))
	}
}
