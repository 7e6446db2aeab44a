// Package nav builds the navigable sidewalk graph from road geometry and
// answers nearest-node and shortest-path queries over it.
// A graph is built once per street layout and never mutated afterward, so
// concurrent reads from parallel agent updates are safe without locking.
package nav

import (
	"math"

	"github.com/laubsauger/streetsim/internal/geom"
)

// NodeKey is the canonical identity of a node: its coordinates rounded to
// the nearest integer. Near-duplicate construction requests collapse onto
// the same node.
type NodeKey struct {
	X int
	Z int
}

// KeyFor returns the canonical key for a position.
func KeyFor(pt geom.Point) NodeKey {
	return NodeKey{X: int(math.Round(pt.X)), Z: int(math.Round(pt.Z))}
}

// Node is a point in the navigable graph. Edges are undirected and implicit
// in the two-way Neighbors membership; edge weight is always the Euclidean
// distance between the endpoints, computed on demand.
type Node struct {
	Key       NodeKey
	Pos       geom.Point
	Neighbors map[NodeKey]*Node
}

// Graph is the navigable sidewalk graph.
type Graph struct {
	nodes []*Node // insertion order, kept for deterministic scans
	byKey map[NodeKey]*Node
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{byKey: make(map[NodeKey]*Node)}
}

// AddNode inserts a node at the given position, or returns the existing node
// when one already occupies the canonical key. The first position inserted
// under a key wins; re-insertion is a no-op.
func (g *Graph) AddNode(pt geom.Point) *Node {
	key := KeyFor(pt)
	if n, ok := g.byKey[key]; ok {
		return n
	}
	n := &Node{Key: key, Pos: pt, Neighbors: make(map[NodeKey]*Node)}
	g.nodes = append(g.nodes, n)
	g.byKey[key] = n
	return n
}

// Connect adds an undirected edge between two nodes. Connecting a node to
// itself or re-adding an existing edge has no effect.
func (g *Graph) Connect(a, b *Node) {
	if a == nil || b == nil || a.Key == b.Key {
		return
	}
	a.Neighbors[b.Key] = b
	b.Neighbors[a.Key] = a
}

// Node returns the node at the given canonical key, or nil.
func (g *Graph) Node(key NodeKey) *Node {
	return g.byKey[key]
}

// Len returns the number of nodes in the graph.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Nodes returns all nodes in insertion order. Callers must not mutate.
func (g *Graph) Nodes() []*Node {
	return g.nodes
}

// ClosestNode returns the node nearest to the given point by Euclidean
// distance, or nil for an empty graph. Ties resolve to the node inserted
// first; the tie-break is incidental, not a contract.
func (g *Graph) ClosestNode(pt geom.Point) *Node {
	var best *Node
	bestDist := math.MaxFloat64
	for _, n := range g.nodes {
		if d := n.Pos.DistanceSq(pt); d < bestDist {
			bestDist = d
			best = n
		}
	}
	return best
}

// Bounds returns the axis-aligned bounding box over all node positions.
// The second return is false for an empty graph.
func (g *Graph) Bounds() (geom.Bounds, bool) {
	if len(g.nodes) == 0 {
		return geom.Bounds{}, false
	}
	first := g.nodes[0].Pos
	b := geom.Bounds{MinX: first.X, MaxX: first.X, MinZ: first.Z, MaxZ: first.Z}
	for _, n := range g.nodes[1:] {
		b.Extend(n.Pos)
	}
	return b, true
}
