// Package geom provides the planar geometry primitives shared by the
// navigation graph, the spatial index, and agent movement.
// The simulation plane uses X/Z axes; Y is elevation and is carried
// through untouched by everything in this package.
package geom

import "math"

// Point is a position on the simulation plane.
type Point struct {
	X float64 `json:"x"`
	Z float64 `json:"z"`
}

// Add returns the component-wise sum of two points.
func (p Point) Add(o Point) Point {
	return Point{X: p.X + o.X, Z: p.Z + o.Z}
}

// Sub returns the vector from o to p.
func (p Point) Sub(o Point) Point {
	return Point{X: p.X - o.X, Z: p.Z - o.Z}
}

// Scale returns the point scaled by f.
func (p Point) Scale(f float64) Point {
	return Point{X: p.X * f, Z: p.Z * f}
}

// Distance returns the Euclidean distance to o.
func (p Point) Distance(o Point) float64 {
	return math.Hypot(p.X-o.X, p.Z-o.Z)
}

// DistanceSq returns the squared Euclidean distance to o.
// Cheaper than Distance when only comparing.
func (p Point) DistanceSq(o Point) float64 {
	dx := p.X - o.X
	dz := p.Z - o.Z
	return dx*dx + dz*dz
}

// Length returns the vector length of p.
func (p Point) Length() float64 {
	return math.Hypot(p.X, p.Z)
}

// Normalized returns p scaled to unit length, or the zero point if p is zero.
func (p Point) Normalized() Point {
	l := p.Length()
	if l == 0 {
		return Point{}
	}
	return p.Scale(1 / l)
}

// Bounds is an axis-aligned bounding box on the simulation plane.
type Bounds struct {
	MinX float64 `json:"min_x"`
	MaxX float64 `json:"max_x"`
	MinZ float64 `json:"min_z"`
	MaxZ float64 `json:"max_z"`
}

// Extend grows the bounds to include pt.
func (b *Bounds) Extend(pt Point) {
	if pt.X < b.MinX {
		b.MinX = pt.X
	}
	if pt.X > b.MaxX {
		b.MaxX = pt.X
	}
	if pt.Z < b.MinZ {
		b.MinZ = pt.Z
	}
	if pt.Z > b.MaxZ {
		b.MaxZ = pt.Z
	}
}

// Contains reports whether pt lies inside the bounds (inclusive).
func (b Bounds) Contains(pt Point) bool {
	return pt.X >= b.MinX && pt.X <= b.MaxX && pt.Z >= b.MinZ && pt.Z <= b.MaxZ
}

// Width returns the X extent of the bounds.
func (b Bounds) Width() float64 {
	return b.MaxX - b.MinX
}

// Depth returns the Z extent of the bounds.
func (b Bounds) Depth() float64 {
	return b.MaxZ - b.MinZ
}
