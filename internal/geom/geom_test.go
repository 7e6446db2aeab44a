package geom

import (
	"math"
	"testing"
)

func TestPointDistance(t *testing.T) {
	a := Point{X: 0, Z: 0}
	b := Point{X: 3, Z: 4}
	if d := a.Distance(b); math.Abs(d-5) > 1e-9 {
		t.Errorf("Distance = %v, want 5", d)
	}
	if d := a.DistanceSq(b); math.Abs(d-25) > 1e-9 {
		t.Errorf("DistanceSq = %v, want 25", d)
	}
}

func TestNormalizedZeroVector(t *testing.T) {
	if n := (Point{}).Normalized(); n != (Point{}) {
		t.Errorf("Normalized zero vector = %v, want zero", n)
	}
}

func TestBoundsExtend(t *testing.T) {
	b := Bounds{MinX: 0, MaxX: 0, MinZ: 0, MaxZ: 0}
	b.Extend(Point{X: -5, Z: 3})
	b.Extend(Point{X: 2, Z: -7})
	want := Bounds{MinX: -5, MaxX: 2, MinZ: -7, MaxZ: 3}
	if b != want {
		t.Errorf("bounds = %+v, want %+v", b, want)
	}
}

func TestPolygonContains(t *testing.T) {
	square := NewPolygon(
		Point{X: 0, Z: 0},
		Point{X: 10, Z: 0},
		Point{X: 10, Z: 10},
		Point{X: 0, Z: 10},
	)

	tests := []struct {
		name string
		pt   Point
		want bool
	}{
		{"center", Point{X: 5, Z: 5}, true},
		{"outside right", Point{X: 15, Z: 5}, false},
		{"outside above", Point{X: 5, Z: 15}, false},
		{"far away", Point{X: 10000, Z: 10000}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := square.Contains(tc.pt); got != tc.want {
				t.Errorf("Contains(%v) = %v, want %v", tc.pt, got, tc.want)
			}
		})
	}
}

func TestPolygonContainsConcave(t *testing.T) {
	// L-shape: the notch at the top right is outside.
	l := NewPolygon(
		Point{X: 0, Z: 0},
		Point{X: 10, Z: 0},
		Point{X: 10, Z: 5},
		Point{X: 5, Z: 5},
		Point{X: 5, Z: 10},
		Point{X: 0, Z: 10},
	)
	if !l.Contains(Point{X: 2, Z: 8}) {
		t.Error("point in the upper arm should be inside")
	}
	if l.Contains(Point{X: 8, Z: 8}) {
		t.Error("point in the notch should be outside")
	}
}

func TestDegeneratePolygon(t *testing.T) {
	line := NewPolygon(Point{X: 0, Z: 0}, Point{X: 10, Z: 0})
	if !line.IsDegenerate() {
		t.Error("two-point polygon should be degenerate")
	}
	if line.Contains(Point{X: 5, Z: 0}) {
		t.Error("degenerate polygon should contain nothing")
	}
}

func TestPolygonCentroid(t *testing.T) {
	square := NewPolygon(
		Point{X: 0, Z: 0},
		Point{X: 10, Z: 0},
		Point{X: 10, Z: 10},
		Point{X: 0, Z: 10},
	)
	c := square.Centroid()
	if math.Abs(c.X-5) > 1e-9 || math.Abs(c.Z-5) > 1e-9 {
		t.Errorf("centroid = %v, want (5, 5)", c)
	}

	// Winding order must not matter.
	cw := NewPolygon(
		Point{X: 0, Z: 0},
		Point{X: 0, Z: 10},
		Point{X: 10, Z: 10},
		Point{X: 10, Z: 0},
	)
	c = cw.Centroid()
	if math.Abs(c.X-5) > 1e-9 || math.Abs(c.Z-5) > 1e-9 {
		t.Errorf("clockwise centroid = %v, want (5, 5)", c)
	}
}

func TestPolygonBoundingBox(t *testing.T) {
	tri := NewPolygon(Point{X: 1, Z: 2}, Point{X: 7, Z: -3}, Point{X: 4, Z: 9})
	b := tri.BoundingBox()
	want := Bounds{MinX: 1, MaxX: 7, MinZ: -3, MaxZ: 9}
	if b != want {
		t.Errorf("bbox = %+v, want %+v", b, want)
	}
}
