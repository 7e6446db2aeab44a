package nav

import (
	"math"

	"github.com/laubsauger/streetsim/internal/geom"
	"github.com/laubsauger/streetsim/internal/world"
)

// Params controls graph construction.
type Params struct {
	Offset       float64 // Sidewalk line offset outward from the road edge
	NodeSpacing  float64 // Distance between consecutive nodes along a line
	SnapDistance float64 // Below this distance, node pairs get a direct edge
	CrosswalkTol float64 // Along-road alignment tolerance for crosswalk edges
}

// DefaultParams returns the construction defaults.
func DefaultParams() Params {
	return Params{
		Offset:       12,
		NodeSpacing:  150,
		SnapDistance: 28,
		CrosswalkTol: 1,
	}
}

// sidewalkLine is a virtual line offset from one edge of a road, along which
// pedestrian nodes are discretized. `at` is the fixed coordinate (X for a
// vertical line, Z for a horizontal one); the line spans [from, to] on the
// other axis.
type sidewalkLine struct {
	vertical bool
	at       float64
	from, to float64
	nodes    []*Node
}

// point returns the world position at parameter t along the line.
func (l *sidewalkLine) point(t float64) geom.Point {
	if l.vertical {
		return geom.Point{X: l.at, Z: t}
	}
	return geom.Point{X: t, Z: l.at}
}

// nearestOn returns the up-to-two line nodes nearest to pt.
func (l *sidewalkLine) nearestOn(pt geom.Point) []*Node {
	var first, second *Node
	d1, d2 := math.MaxFloat64, math.MaxFloat64
	for _, n := range l.nodes {
		d := n.Pos.DistanceSq(pt)
		switch {
		case d < d1:
			second, d2 = first, d1
			first, d1 = n, d
		case d < d2:
			second, d2 = n, d
		}
	}
	out := make([]*Node, 0, 2)
	if first != nil {
		out = append(out, first)
	}
	if second != nil {
		out = append(out, second)
	}
	return out
}

// Build constructs the navigable graph for a set of road segments:
// sidewalk lines on both sides of every road, intersection nodes where
// perpendicular lines cross, crosswalk edges across each road, and a final
// snap pass joining near-coincident nodes.
func Build(roads []world.RoadSegment, p Params) *Graph {
	g := NewGraph()

	var lines []*sidewalkLine
	// Lines come in pairs: lines[2i] and lines[2i+1] flank roads[i].
	for _, r := range roads {
		var a, b *sidewalkLine
		if r.Orientation == world.OrientationVertical {
			a = &sidewalkLine{vertical: true, at: r.X - p.Offset, from: r.Z, to: r.Z + r.Depth}
			b = &sidewalkLine{vertical: true, at: r.X + r.Width + p.Offset, from: r.Z, to: r.Z + r.Depth}
		} else {
			a = &sidewalkLine{at: r.Z - p.Offset, from: r.X, to: r.X + r.Width}
			b = &sidewalkLine{at: r.Z + r.Depth + p.Offset, from: r.X, to: r.X + r.Width}
		}
		lines = append(lines, a, b)
	}

	// Discretize each line and chain consecutive nodes.
	for _, l := range lines {
		discretize(g, l, p.NodeSpacing)
	}

	// Intersection nodes wherever a vertical line crosses a horizontal one
	// inside both ranges. Each gets stitched to the two nearest discretized
	// nodes on each of the two lines.
	for _, v := range lines {
		if !v.vertical {
			continue
		}
		for _, h := range lines {
			if h.vertical {
				continue
			}
			if h.at < v.from || h.at > v.to || v.at < h.from || v.at > h.to {
				continue
			}
			cross := g.AddNode(geom.Point{X: v.at, Z: h.at})
			for _, n := range v.nearestOn(cross.Pos) {
				g.Connect(cross, n)
			}
			for _, n := range h.nearestOn(cross.Pos) {
				g.Connect(cross, n)
			}
		}
	}

	// Crosswalk edges: directly connect nodes on opposite sidewalks of the
	// same road when their along-road positions line up.
	for i := 0; i+1 < len(lines); i += 2 {
		connectCrosswalks(g, lines[i], lines[i+1], p.CrosswalkTol)
	}

	// Snap pass: construction seams (slightly misaligned segment ends,
	// intersection nodes rounding next to line nodes) leave tiny gaps.
	// Bridge every node pair closer than the snap distance.
	snapPass(g, p.SnapDistance)

	return g
}

// discretize places nodes along the line at fixed spacing, clamping the
// final node to the far endpoint so both ends are always present. A
// zero-length line still gets max(1, ...) = 1 segment, so construction
// never degenerates.
func discretize(g *Graph, l *sidewalkLine, spacing float64) {
	length := l.to - l.from
	segments := 1
	if spacing > 0 {
		segments = int(math.Ceil(length / spacing))
		if segments < 1 {
			segments = 1
		}
	}

	var prev *Node
	for i := 0; i <= segments; i++ {
		t := l.from + float64(i)*spacing
		if t > l.to {
			t = l.to
		}
		n := g.AddNode(l.point(t))
		if len(l.nodes) == 0 || l.nodes[len(l.nodes)-1] != n {
			l.nodes = append(l.nodes, n)
		}
		g.Connect(prev, n)
		prev = n
	}
}

// connectCrosswalks joins aligned node pairs on the two sidewalks flanking
// one road, letting agents cross the street without detouring through an
// intersection.
func connectCrosswalks(g *Graph, a, b *sidewalkLine, tol float64) {
	along := func(n *Node, vertical bool) float64 {
		if vertical {
			return n.Pos.Z
		}
		return n.Pos.X
	}
	for _, na := range a.nodes {
		for _, nb := range b.nodes {
			if math.Abs(along(na, a.vertical)-along(nb, b.vertical)) <= tol {
				g.Connect(na, nb)
			}
		}
	}
}

// snapPass adds a direct edge between every pair of distinct nodes closer
// than snapDist, guaranteeing connectivity across small construction gaps.
func snapPass(g *Graph, snapDist float64) {
	nodes := g.Nodes()
	limit := snapDist * snapDist
	for i, a := range nodes {
		for _, b := range nodes[i+1:] {
			d := a.Pos.DistanceSq(b.Pos)
			if d > 0 && d < limit {
				g.Connect(a, b)
			}
		}
	}
}
