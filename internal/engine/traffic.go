// Traffic keeps driven vehicles from running into each other: each one
// samples the spatial index for company ahead and eases off accordingly.
package engine

import (
	"github.com/laubsauger/streetsim/internal/agents"
	"github.com/laubsauger/streetsim/internal/geom"
)

const (
	// headwayDistance is how far ahead a driver looks for other vehicles.
	headwayDistance = 60.0
	// stopDistance is the gap at which a driver halts outright.
	stopDistance = 18.0
	// headwayCone is the minimum cosine between the heading and the bearing
	// to another vehicle for it to count as "ahead".
	headwayCone = 0.7
)

// brakeFactor returns a speed multiplier in [0, 1] for a driven vehicle:
// 1 on open road, scaling down through the headway zone, 0 bumper to bumper.
func (s *Simulation) brakeFactor(v *agents.Vehicle) float64 {
	if !v.HasRoute() || len(v.Path) == 0 {
		return 1
	}
	heading := v.Path[0].Sub(v.Pos)
	if heading.Length() == 0 {
		return 1
	}
	heading = heading.Normalized()

	factor := 1.0
	for _, e := range s.Index.Nearby(v.Pos.X, v.Pos.Z, headwayDistance) {
		other, ok := e.(*agents.Vehicle)
		if !ok || other.ID == v.ID {
			continue
		}
		f := gapFactor(v.Pos, heading, other.Pos)
		if f < factor {
			factor = f
		}
	}
	return factor
}

// gapFactor scores a single obstacle against the vehicle's forward cone.
func gapFactor(pos, heading, obstacle geom.Point) float64 {
	to := obstacle.Sub(pos)
	dist := to.Length()
	if dist == 0 || dist > headwayDistance {
		return 1
	}
	if heading.X*to.X/dist+heading.Z*to.Z/dist < headwayCone {
		return 1 // beside or behind, not ahead
	}
	if dist <= stopDistance {
		return 0
	}
	return (dist - stopDistance) / (headwayDistance - stopDistance)
}
