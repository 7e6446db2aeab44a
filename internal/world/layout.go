// Package world provides the static street layout: road segments, lots,
// loading from the map description file, and procedural generation.
// The layout is read once at startup and never mutated afterward.
package world

import (
	"fmt"

	"github.com/laubsauger/streetsim/internal/geom"
)

// Orientation tags a road segment as running along the Z axis (vertical)
// or the X axis (horizontal).
type Orientation string

const (
	OrientationVertical   Orientation = "vertical"
	OrientationHorizontal Orientation = "horizontal"
)

// RoadSegment is an axis-aligned rectangle of road surface.
// X/Z is the minimum corner; Width spans X, Depth spans Z.
type RoadSegment struct {
	ID          string      `json:"id"`
	Orientation Orientation `json:"orientation"`
	X           float64     `json:"x"`
	Z           float64     `json:"z"`
	Width       float64     `json:"width"`
	Depth       float64     `json:"depth"`
}

// LotUsage classifies what a lot is used for.
type LotUsage string

const (
	LotResidential LotUsage = "residential"
	LotCommercial  LotUsage = "commercial"
	LotPark        LotUsage = "park"
	LotVacant      LotUsage = "vacant"
)

// Lot is a parcel of land bounded by an ordered polygon outline.
// Residents reference lots as "home" but never own them; the layout does.
type Lot struct {
	ID      string       `json:"id"`
	Address string       `json:"address"`
	Usage   LotUsage     `json:"usage"`
	Outline geom.Polygon `json:"outline"`
}

// Centroid returns the area centroid of the lot outline.
func (l *Lot) Centroid() geom.Point {
	return l.Outline.Centroid()
}

// Layout is the complete static street layout.
type Layout struct {
	Roads []RoadSegment `json:"roads"`
	Lots  []Lot         `json:"lots"`
}

// ResidentialLots returns the lots residents can live on.
func (l *Layout) ResidentialLots() []*Lot {
	var out []*Lot
	for i := range l.Lots {
		if l.Lots[i].Usage == LotResidential {
			out = append(out, &l.Lots[i])
		}
	}
	return out
}

// Lot returns the lot with the given ID, or nil.
func (l *Layout) Lot(id string) *Lot {
	for i := range l.Lots {
		if l.Lots[i].ID == id {
			return &l.Lots[i]
		}
	}
	return nil
}

// Validate checks the layout for structural problems: unknown orientations,
// non-positive road dimensions, duplicate IDs. Degenerate lots (fewer than
// 3 outline points) are legal — the behavior layer treats them as never-home.
func (l *Layout) Validate() error {
	seen := make(map[string]bool, len(l.Roads)+len(l.Lots))
	for _, r := range l.Roads {
		if r.Orientation != OrientationVertical && r.Orientation != OrientationHorizontal {
			return fmt.Errorf("road %q: unknown orientation %q", r.ID, r.Orientation)
		}
		if r.Width <= 0 || r.Depth <= 0 {
			return fmt.Errorf("road %q: non-positive dimensions %gx%g", r.ID, r.Width, r.Depth)
		}
		if seen[r.ID] {
			return fmt.Errorf("duplicate road id %q", r.ID)
		}
		seen[r.ID] = true
	}
	for _, lot := range l.Lots {
		if seen[lot.ID] {
			return fmt.Errorf("duplicate lot id %q", lot.ID)
		}
		seen[lot.ID] = true
	}
	return nil
}
