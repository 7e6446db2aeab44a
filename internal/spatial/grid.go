// Package spatial provides a uniform-grid index for cheap proximity queries
// among moving agents. The grid is rebuilt from scratch once per simulation
// tick (Populate), never incrementally maintained: a single writer fills it,
// then it is read-only for the rest of the tick.
package spatial

import "math"

// Entity is anything the grid can index. Implemented by the agent types.
type Entity interface {
	Coords() (x, z float64)
}

// CellKey identifies one grid cell.
type CellKey struct {
	X int
	Z int
}

// Grid hashes entities into fixed-size square cells keyed by
// (floor(x/cellSize), floor(z/cellSize)).
type Grid struct {
	cellSize float64
	cells    map[CellKey][]Entity
}

// DefaultCellSize matches the typical proximity query radius.
const DefaultCellSize = 50.0

// NewGrid creates an empty grid. Non-positive cell sizes fall back to the
// default.
func NewGrid(cellSize float64) *Grid {
	if cellSize <= 0 {
		cellSize = DefaultCellSize
	}
	return &Grid{
		cellSize: cellSize,
		cells:    make(map[CellKey][]Entity),
	}
}

// CellSize returns the configured cell edge length.
func (g *Grid) CellSize() float64 {
	return g.cellSize
}

func (g *Grid) keyAt(x, z float64) CellKey {
	return CellKey{
		X: int(math.Floor(x / g.cellSize)),
		Z: int(math.Floor(z / g.cellSize)),
	}
}

// Clear empties all cells, keeping allocated slices for reuse.
func (g *Grid) Clear() {
	for k, bucket := range g.cells {
		g.cells[k] = bucket[:0]
	}
}

// Insert places an entity into the cell containing its coordinates.
func (g *Grid) Insert(e Entity) {
	x, z := e.Coords()
	key := g.keyAt(x, z)
	g.cells[key] = append(g.cells[key], e)
}

// Populate clears the grid and inserts every entity — the once-per-tick
// refresh. Callers must populate before querying within a tick.
func (g *Grid) Populate(entities []Entity) {
	g.Clear()
	for _, e := range entities {
		g.Insert(e)
	}
}

// Nearby returns every entity in the cell containing (x, z) and all cells
// within ceil(radius/cellSize) cells in each axis direction. The result is
// a superset of the true radius-filtered set: no false negatives, but
// entities farther than radius may appear. Callers needing exact filtering
// re-check distances themselves. An empty area yields an empty slice.
func (g *Grid) Nearby(x, z, radius float64) []Entity {
	ring := int(math.Ceil(radius / g.cellSize))
	center := g.keyAt(x, z)

	var out []Entity
	for cx := center.X - ring; cx <= center.X+ring; cx++ {
		for cz := center.Z - ring; cz <= center.Z+ring; cz++ {
			out = append(out, g.cells[CellKey{X: cx, Z: cz}]...)
		}
	}
	return out
}

// SameCell returns the entities sharing the cell containing (x, z).
// Coarser and cheaper than Nearby.
func (g *Grid) SameCell(x, z float64) []Entity {
	return g.cells[g.keyAt(x, z)]
}
