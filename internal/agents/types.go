// Package agents provides the agent data model, the resident behavior state
// machine, and the resident↔vehicle ownership registry.
package agents

import (
	"github.com/laubsauger/streetsim/internal/geom"
	"github.com/laubsauger/streetsim/internal/world"
)

// ActorID is a unique identifier for an actor.
type ActorID uint64

// Kind is the closed set of actor kinds. Dispatch on Kind instead of type
// probing; every switch over it should be exhaustive.
type Kind uint8

const (
	KindResident Kind = iota
	KindVehicle
)

func (k Kind) String() string {
	switch k {
	case KindResident:
		return "resident"
	case KindVehicle:
		return "vehicle"
	}
	return "unknown"
}

// BehaviorState describes what a resident is currently doing.
//
// Only the first five states are transitioned by the local state machine.
// The remaining schedule states exist for an external daily-schedule
// scheduler, which assigns them directly while ScheduleOverride is set;
// the local machine never enters them on its own.
type BehaviorState uint8

const (
	StateIdleHome BehaviorState = iota
	StateWalkingToCar
	StateDriving
	StateWalkingHome
	StateWalkingAround

	// Schedule-driven states.
	StateSleeping
	StateWorking
	StateShopping
	StateAtBar
	StateSocializing
	StateAtChurch
	StateVisiting
	StateAtPark
)

var stateNames = map[BehaviorState]string{
	StateIdleHome:      "idle_home",
	StateWalkingToCar:  "walking_to_car",
	StateDriving:       "driving",
	StateWalkingHome:   "walking_home",
	StateWalkingAround: "walking_around",
	StateSleeping:      "sleeping",
	StateWorking:       "working",
	StateShopping:      "shopping",
	StateAtBar:         "at_bar",
	StateSocializing:   "socializing",
	StateAtChurch:      "at_church",
	StateVisiting:      "visiting",
	StateAtPark:        "at_park",
}

func (s BehaviorState) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Positionable is anything with planar coordinates.
type Positionable interface {
	Coords() (x, z float64)
}

// Pathable is anything that can follow a waypoint route toward a target.
type Pathable interface {
	Positionable
	SetRoute(path []geom.Point, target geom.Point)
	ClearRoute()
	HasRoute() bool
}

// Actor is the movable core shared by residents and vehicles.
type Actor struct {
	ID        ActorID      `json:"id"`
	Kind      Kind         `json:"kind"`
	Name      string       `json:"name"`
	Pos       geom.Point   `json:"pos"`
	Elevation float64      `json:"elevation"`
	Speed     float64      `json:"speed"` // units per second
	Path      []geom.Point `json:"-"`
	Target    *geom.Point  `json:"target,omitempty"`
}

// Coords returns the actor's planar coordinates.
func (a *Actor) Coords() (x, z float64) {
	return a.Pos.X, a.Pos.Z
}

// HasRoute reports whether the actor has movement intent left: waypoints
// to walk or a final target to reach.
func (a *Actor) HasRoute() bool {
	return len(a.Path) > 0 || a.Target != nil
}

// SetRoute replaces the actor's movement intent in place. There is no queue
// of pending destinations; whatever was in flight is simply overwritten.
func (a *Actor) SetRoute(path []geom.Point, target geom.Point) {
	a.Path = path
	t := target
	a.Target = &t
}

// ClearRoute drops all movement intent.
func (a *Actor) ClearRoute() {
	a.Path = nil
	a.Target = nil
}

// arrivalTolerance is how close an actor must get to a waypoint before
// moving on to the next one.
const arrivalTolerance = 2.0

// Advance moves the actor along its route for dt seconds: waypoints first,
// then straight toward the final target, which is cleared on arrival.
// Leftover movement within a step carries into the next waypoint.
func (a *Actor) Advance(dt float64) {
	budget := a.Speed * dt
	for budget > 0 {
		next, ok := a.nextWaypoint()
		if !ok {
			return
		}
		d := a.Pos.Distance(next)
		if d <= arrivalTolerance || d <= budget {
			a.Pos = next
			budget -= d
			a.popWaypoint()
			continue
		}
		dir := next.Sub(a.Pos).Normalized()
		a.Pos = a.Pos.Add(dir.Scale(budget))
		return
	}
}

func (a *Actor) nextWaypoint() (geom.Point, bool) {
	if len(a.Path) > 0 {
		return a.Path[0], true
	}
	if a.Target != nil {
		return *a.Target, true
	}
	return geom.Point{}, false
}

func (a *Actor) popWaypoint() {
	if len(a.Path) > 0 {
		a.Path = a.Path[1:]
		return
	}
	a.Target = nil
}

// Resident is a person living in the simulation.
type Resident struct {
	Actor

	// Personality scalars in [0, 1].
	Sociability float64 `json:"sociability"`
	Adventurous float64 `json:"adventurous"`

	HomeLot *world.Lot    `json:"-"`
	State   BehaviorState `json:"state"`

	// ScheduleOverride suspends the local state machine while an external
	// daily-schedule scheduler drives the resident. The scheduler is also
	// responsible for clearing it; the local machine resumes from whatever
	// state is then set.
	ScheduleOverride bool `json:"schedule_override,omitempty"`

	// IsHome is the per-tick home-presence fact: whether the resident is
	// physically inside their home lot outline. Independent of State.
	IsHome bool `json:"is_home"`

	// InCar is true while the resident is riding a vehicle. The vehicle
	// side of the relation lives in the Garage registry.
	InCar bool `json:"in_car"`

	IdleTimer    float64 `json:"-"` // seconds until the next trip roll
	TripElapsed  float64 `json:"-"` // seconds into the current trip
	TripDuration float64 `json:"-"` // sampled length of the current trip

	// WalkSpeed remembers the on-foot speed while Speed is swapped for
	// the vehicle's during a drive.
	WalkSpeed float64 `json:"-"`
}

// Vehicle is a car parked on or driving the street grid.
type Vehicle struct {
	Actor
}
