package nav

import (
	"container/heap"

	"github.com/laubsauger/streetsim/internal/geom"
)

// FindPath resolves start and end to their closest graph nodes and runs A*
// between them. The returned waypoints always begin at the node nearest
// start and end at the node nearest end; consecutive waypoints are always
// graph edges. An empty result means "no route" (empty graph or
// disconnected components) and is a valid steady state, not an error.
//
// The heuristic is the Euclidean distance to the goal, which is admissible
// and consistent for Euclidean edge weights, so the result is cost-optimal
// over the graph.
func (g *Graph) FindPath(start, end geom.Point) []geom.Point {
	from := g.ClosestNode(start)
	to := g.ClosestNode(end)
	if from == nil || to == nil {
		return nil
	}
	if from == to {
		return []geom.Point{from.Pos}
	}

	route := astar(from, to)
	if route == nil {
		return nil
	}
	path := make([]geom.Point, len(route))
	for i, n := range route {
		path[i] = n.Pos
	}
	return path
}

// astar runs A* from one node to another, returning the node sequence or
// nil when unreachable.
func astar(from, to *Node) []*Node {
	open := &nodeHeap{}
	heap.Init(open)
	heap.Push(open, &heapEntry{node: from, f: from.Pos.Distance(to.Pos)})

	gScore := map[NodeKey]float64{from.Key: 0}
	cameFrom := make(map[NodeKey]*Node)
	done := make(map[NodeKey]bool)

	for open.Len() > 0 {
		cur := heap.Pop(open).(*heapEntry).node
		if cur == to {
			return reconstruct(cameFrom, cur)
		}
		if done[cur.Key] {
			continue // stale heap entry
		}
		done[cur.Key] = true

		for _, nb := range cur.Neighbors {
			if done[nb.Key] {
				continue
			}
			tentative := gScore[cur.Key] + cur.Pos.Distance(nb.Pos)
			if old, seen := gScore[nb.Key]; seen && tentative >= old {
				continue
			}
			gScore[nb.Key] = tentative
			cameFrom[nb.Key] = cur
			heap.Push(open, &heapEntry{node: nb, f: tentative + nb.Pos.Distance(to.Pos)})
		}
	}
	return nil
}

func reconstruct(cameFrom map[NodeKey]*Node, end *Node) []*Node {
	route := []*Node{end}
	for {
		prev, ok := cameFrom[route[len(route)-1].Key]
		if !ok {
			break
		}
		route = append(route, prev)
	}
	// Reverse in place.
	for i, j := 0, len(route)-1; i < j; i, j = i+1, j-1 {
		route[i], route[j] = route[j], route[i]
	}
	return route
}

type heapEntry struct {
	node *Node
	f    float64
}

type nodeHeap []*heapEntry

func (h nodeHeap) Len() int            { return len(h) }
func (h nodeHeap) Less(i, j int) bool  { return h[i].f < h[j].f }
func (h nodeHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *nodeHeap) Push(x any)         { *h = append(*h, x.(*heapEntry)) }
func (h *nodeHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return e
}
