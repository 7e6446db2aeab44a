package nav

import (
	"math"
	"testing"

	"github.com/laubsauger/streetsim/internal/geom"
	"github.com/laubsauger/streetsim/internal/world"
)

func TestSingleVerticalRoad(t *testing.T) {
	roads := []world.RoadSegment{
		{ID: "main", Orientation: world.OrientationVertical, X: 100, Z: 0, Width: 20, Depth: 1000},
	}
	g := Build(roads, DefaultParams())

	// Two sidewalk lines at x=88 and x=132, eight nodes each:
	// z = 0, 150, ..., 900 plus the clamped endpoint 1000.
	wantZ := []float64{0, 150, 300, 450, 600, 750, 900, 1000}
	for _, x := range []float64{88, 132} {
		for _, z := range wantZ {
			if g.Node(KeyFor(geom.Point{X: x, Z: z})) == nil {
				t.Errorf("missing node at (%v, %v)", x, z)
			}
		}
	}
	if g.Len() != 16 {
		t.Errorf("node count = %d, want 16", g.Len())
	}

	// Consecutive nodes along each line are connected.
	for _, x := range []float64{88, 132} {
		for i := 0; i+1 < len(wantZ); i++ {
			a := g.Node(KeyFor(geom.Point{X: x, Z: wantZ[i]}))
			b := g.Node(KeyFor(geom.Point{X: x, Z: wantZ[i+1]}))
			if a == nil || b == nil {
				continue
			}
			if _, ok := a.Neighbors[b.Key]; !ok {
				t.Errorf("nodes (%v,%v) and (%v,%v) not connected", x, wantZ[i], x, wantZ[i+1])
			}
		}
	}

	b, ok := g.Bounds()
	if !ok {
		t.Fatal("Bounds on a built graph returned none")
	}
	want := geom.Bounds{MinX: 88, MaxX: 132, MinZ: 0, MaxZ: 1000}
	if b != want {
		t.Errorf("bounds = %+v, want %+v", b, want)
	}
}

func TestCrosswalkEdges(t *testing.T) {
	roads := []world.RoadSegment{
		{ID: "main", Orientation: world.OrientationVertical, X: 100, Z: 0, Width: 20, Depth: 1000},
	}
	g := Build(roads, DefaultParams())

	// Aligned nodes on opposite sidewalks are crosswalk-connected.
	a := g.Node(KeyFor(geom.Point{X: 88, Z: 150}))
	b := g.Node(KeyFor(geom.Point{X: 132, Z: 150}))
	if a == nil || b == nil {
		t.Fatal("expected sidewalk nodes at z=150")
	}
	if _, ok := a.Neighbors[b.Key]; !ok {
		t.Error("aligned opposite-sidewalk nodes should share a crosswalk edge")
	}
}

func TestIntersectionNodes(t *testing.T) {
	roads := []world.RoadSegment{
		{ID: "ns", Orientation: world.OrientationVertical, X: 490, Z: 0, Width: 20, Depth: 1000},
		{ID: "ew", Orientation: world.OrientationHorizontal, X: 0, Z: 490, Width: 1000, Depth: 20},
	}
	g := Build(roads, DefaultParams())

	// Sidewalk lines: x=478/522 and z=478/522. Four crossings.
	for _, x := range []float64{478, 522} {
		for _, z := range []float64{478, 522} {
			n := g.Node(KeyFor(geom.Point{X: x, Z: z}))
			if n == nil {
				t.Errorf("missing intersection node at (%v, %v)", x, z)
				continue
			}
			if len(n.Neighbors) == 0 {
				t.Errorf("intersection node at (%v, %v) has no edges", x, z)
			}
		}
	}
}

func TestEdgeSymmetry(t *testing.T) {
	cfg := world.DefaultGenConfig()
	cfg.Seed = 13
	layout := world.Generate(cfg)
	g := Build(layout.Roads, DefaultParams())

	if g.Len() == 0 {
		t.Fatal("generated layout produced an empty graph")
	}
	for _, n := range g.Nodes() {
		for _, m := range n.Neighbors {
			if _, ok := m.Neighbors[n.Key]; !ok {
				t.Fatalf("asymmetric edge: %v -> %v", n.Key, m.Key)
			}
		}
	}
	t.Logf("graph: %d nodes", g.Len())
}

func TestIdempotentConstruction(t *testing.T) {
	g := NewGraph()
	a := g.AddNode(geom.Point{X: 10, Z: 10})
	b := g.AddNode(geom.Point{X: 10.2, Z: 9.9}) // rounds to the same key
	if a != b {
		t.Error("near-duplicate insertion should collapse onto one node")
	}
	if g.Len() != 1 {
		t.Errorf("node count = %d, want 1", g.Len())
	}

	c := g.AddNode(geom.Point{X: 50, Z: 10})
	g.Connect(a, c)
	g.Connect(a, c)
	g.Connect(c, a)
	if len(a.Neighbors) != 1 || len(c.Neighbors) != 1 {
		t.Errorf("edge re-add changed degree: %d/%d, want 1/1",
			len(a.Neighbors), len(c.Neighbors))
	}

	g.Connect(a, a)
	if len(a.Neighbors) != 1 {
		t.Error("self-edge should be a no-op")
	}
}

func TestZeroDepthRoad(t *testing.T) {
	// Degenerate input must not loop or blow up: minimum one segment.
	roads := []world.RoadSegment{
		{ID: "stub", Orientation: world.OrientationVertical, X: 0, Z: 0, Width: 10, Depth: 0},
	}
	g := Build(roads, DefaultParams())
	if g.Len() == 0 {
		t.Error("degenerate road should still produce sidewalk nodes")
	}
}

func TestSnapPassBridgesGaps(t *testing.T) {
	// Two roads whose sidewalk endpoints nearly touch but do not align.
	roads := []world.RoadSegment{
		{ID: "a", Orientation: world.OrientationVertical, X: 0, Z: 0, Width: 10, Depth: 300},
		{ID: "b", Orientation: world.OrientationVertical, X: 10, Z: 310, Width: 10, Depth: 300},
	}
	p := DefaultParams()
	g := Build(roads, p)

	// The end of road a's left sidewalk (-12, 300) and the start of road
	// b's left sidewalk (-2, 310) are ~14 apart, inside the snap distance.
	a := g.ClosestNode(geom.Point{X: -12, Z: 300})
	b := g.ClosestNode(geom.Point{X: -2, Z: 310})
	if a == nil || b == nil || a == b {
		t.Fatal("expected distinct endpoint nodes")
	}
	if d := a.Pos.Distance(b.Pos); d >= p.SnapDistance {
		t.Fatalf("test geometry wrong: gap %v >= snap %v", d, p.SnapDistance)
	}
	if _, ok := a.Neighbors[b.Key]; !ok {
		t.Error("snap pass should bridge the gap between the two roads")
	}
}

func TestClosestNodeEmptyGraph(t *testing.T) {
	g := NewGraph()
	if n := g.ClosestNode(geom.Point{X: 1, Z: 2}); n != nil {
		t.Errorf("ClosestNode on empty graph = %v, want nil", n)
	}
	if _, ok := g.Bounds(); ok {
		t.Error("Bounds on empty graph should report none")
	}
}

func TestClosestNodePicksNearest(t *testing.T) {
	g := NewGraph()
	g.AddNode(geom.Point{X: 0, Z: 0})
	far := g.AddNode(geom.Point{X: 100, Z: 0})
	near := g.AddNode(geom.Point{X: 60, Z: 0})

	if got := g.ClosestNode(geom.Point{X: 70, Z: 0}); got != near {
		t.Errorf("ClosestNode = %v, want %v", got.Key, near.Key)
	}
	if got := g.ClosestNode(geom.Point{X: 99, Z: 5}); got != far {
		t.Errorf("ClosestNode = %v, want %v", got.Key, far.Key)
	}
}

func TestNodeSpacingRespected(t *testing.T) {
	roads := []world.RoadSegment{
		{ID: "short", Orientation: world.OrientationHorizontal, X: 0, Z: 0, Width: 100, Depth: 10},
	}
	g := Build(roads, DefaultParams())

	// A 100-unit line with 150 spacing gets one segment: both endpoints only.
	for _, z := range []float64{-12, 22} {
		for _, x := range []float64{0, 100} {
			if g.Node(KeyFor(geom.Point{X: x, Z: z})) == nil {
				t.Errorf("missing endpoint node at (%v, %v)", x, z)
			}
		}
	}
	if g.Len() != 4 {
		t.Errorf("node count = %d, want 4", g.Len())
	}
	// Sanity: spacing between in-line neighbors never exceeds the configured spacing.
	for _, n := range g.Nodes() {
		for _, m := range n.Neighbors {
			if d := n.Pos.Distance(m.Pos); d > DefaultParams().NodeSpacing+1e-9 &&
				math.Abs(n.Pos.X-m.Pos.X) < 1e-9 {
				t.Errorf("in-line edge %v-%v longer than spacing: %v", n.Key, m.Key, d)
			}
		}
	}
}
