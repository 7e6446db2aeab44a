package geom

import "math"

// Polygon is a closed polygon defined by its vertices in order.
// The closing edge from the last vertex back to the first is implicit.
type Polygon struct {
	Vertices []Point `json:"vertices"`
}

// NewPolygon creates a polygon from a list of vertices.
func NewPolygon(pts ...Point) Polygon {
	return Polygon{Vertices: pts}
}

// Len returns the number of vertices.
func (p Polygon) Len() int {
	return len(p.Vertices)
}

// IsDegenerate reports whether the polygon has fewer than 3 vertices and
// therefore encloses no area.
func (p Polygon) IsDegenerate() bool {
	return len(p.Vertices) < 3
}

// Contains returns true if the point is inside the polygon using ray casting:
// a horizontal ray from pt toggles an inside flag on every edge crossing.
// Degenerate polygons contain nothing.
func (p Polygon) Contains(pt Point) bool {
	n := len(p.Vertices)
	if n < 3 {
		return false
	}
	inside := false
	j := n - 1
	for i := 0; i < n; i++ {
		vi := p.Vertices[i]
		vj := p.Vertices[j]
		if (vi.Z > pt.Z) != (vj.Z > pt.Z) &&
			pt.X < (vj.X-vi.X)*(pt.Z-vi.Z)/(vj.Z-vi.Z)+vi.X {
			inside = !inside
		}
		j = i
	}
	return inside
}

// SignedArea returns the signed area using the shoelace formula.
// Positive for counterclockwise winding, negative for clockwise.
func (p Polygon) SignedArea() float64 {
	n := len(p.Vertices)
	if n < 3 {
		return 0
	}
	area := 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += p.Vertices[i].X * p.Vertices[j].Z
		area -= p.Vertices[j].X * p.Vertices[i].Z
	}
	return area / 2
}

// Centroid returns the area centroid of the polygon. Degenerate or
// zero-area polygons fall back to the vertex average.
func (p Polygon) Centroid() Point {
	n := len(p.Vertices)
	if n == 0 {
		return Point{}
	}
	a := p.SignedArea()
	if n < 3 || math.Abs(a) < 1e-12 {
		sum := Point{}
		for _, v := range p.Vertices {
			sum = sum.Add(v)
		}
		return sum.Scale(1.0 / float64(n))
	}
	cx, cz := 0.0, 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		cross := p.Vertices[i].X*p.Vertices[j].Z - p.Vertices[j].X*p.Vertices[i].Z
		cx += (p.Vertices[i].X + p.Vertices[j].X) * cross
		cz += (p.Vertices[i].Z + p.Vertices[j].Z) * cross
	}
	f := 1.0 / (6.0 * a)
	return Point{X: cx * f, Z: cz * f}
}

// BoundingBox returns the axis-aligned bounding box of the polygon.
// The zero bounds is returned for an empty polygon.
func (p Polygon) BoundingBox() Bounds {
	if len(p.Vertices) == 0 {
		return Bounds{}
	}
	b := Bounds{
		MinX: p.Vertices[0].X, MaxX: p.Vertices[0].X,
		MinZ: p.Vertices[0].Z, MaxZ: p.Vertices[0].Z,
	}
	for _, v := range p.Vertices[1:] {
		b.Extend(v)
	}
	return b
}
