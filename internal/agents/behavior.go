// Resident behavior — a per-agent state machine evaluated once per tick.
// Residents idle at home, roll for trips against their sociability, walk or
// drive around for a sampled duration, and head back home when it runs out.
package agents

import (
	"fmt"

	"github.com/laubsauger/streetsim/internal/entropy"
	"github.com/laubsauger/streetsim/internal/geom"
	"github.com/laubsauger/streetsim/internal/nav"
)

// Timing bundles the state machine's tunable constants. Zero values are
// replaced by DefaultTiming in NewMachine.
type Timing struct {
	TripChance      float64 // multiplied by sociability for the trip roll
	IdleRetryMin    float64 // idle reset after a failed roll, seconds
	IdleRetryMax    float64
	IdleHomeMin     float64 // idle reset after coming home, seconds
	IdleHomeMax     float64
	WalkTripBase    float64 // walking trip duration: base + spread*adventurous
	WalkTripSpread  float64
	DriveTripBase   float64 // driving trip duration: base + spread*adventurous
	DriveTripSpread float64
	CarEnterRadius  float64 // how close a resident must be to board the car
}

// DefaultTiming returns the standard behavior constants.
func DefaultTiming() Timing {
	return Timing{
		TripChance:      0.3,
		IdleRetryMin:    10,
		IdleRetryMax:    50,
		IdleHomeMin:     20,
		IdleHomeMax:     80,
		WalkTripBase:    15,
		WalkTripSpread:  45,
		DriveTripBase:   20,
		DriveTripSpread: 60,
		CarEnterRadius:  15,
	}
}

// Machine drives resident behavior. One Machine serves all residents of a
// simulation; per-resident state lives on the Resident itself.
type Machine struct {
	Graph  *nav.Graph
	Garage *Garage
	Fleet  map[ActorID]*Vehicle
	Rand   entropy.Source
	Timing Timing
}

// NewMachine wires a behavior machine over a navigation graph and registry.
func NewMachine(graph *nav.Graph, garage *Garage, fleet map[ActorID]*Vehicle, rnd entropy.Source) *Machine {
	return &Machine{
		Graph:  graph,
		Garage: garage,
		Fleet:  fleet,
		Rand:   rnd,
		Timing: DefaultTiming(),
	}
}

// Step advances one resident by dt seconds and returns notable events for
// the log. The home-presence test runs every tick regardless of state; the
// transition rules are skipped entirely while ScheduleOverride is set.
func (m *Machine) Step(r *Resident, dt float64) []string {
	m.updateHomePresence(r)

	if r.ScheduleOverride {
		return nil
	}

	switch r.State {
	case StateIdleHome:
		return m.stepIdle(r, dt)
	case StateWalkingToCar:
		return m.stepWalkingToCar(r)
	case StateDriving:
		return m.stepDriving(r, dt)
	case StateWalkingAround:
		return m.stepWalkingAround(r, dt)
	case StateWalkingHome:
		return m.stepWalkingHome(r)
	default:
		// A schedule state left behind after the override cleared.
		// Recover by heading home.
		return m.StartReturnHome(r)
	}
}

// updateHomePresence runs the point-in-polygon test against the resident's
// home lot outline. A lot with fewer than 3 points is never home.
func (m *Machine) updateHomePresence(r *Resident) {
	r.IsHome = r.HomeLot != nil && r.HomeLot.Outline.Contains(r.Pos)
}

func (m *Machine) stepIdle(r *Resident, dt float64) []string {
	r.IdleTimer -= dt
	if r.IdleTimer > 0 {
		return nil
	}
	if m.Rand.Float() < r.Sociability*m.Timing.TripChance {
		return m.StartTrip(r)
	}
	r.IdleTimer = m.Rand.Range(m.Timing.IdleRetryMin, m.Timing.IdleRetryMax)
	return nil
}

// StartTrip begins a trip immediately: toward the car when the resident
// owns one, on foot otherwise. Also part of the external control surface.
func (m *Machine) StartTrip(r *Resident) []string {
	if car := m.ownedCar(r); car != nil {
		r.State = StateWalkingToCar
		m.routeTo(&r.Actor, car.Pos)
		return []string{fmt.Sprintf("%s heads for their car", r.Name)}
	}

	r.State = StateWalkingAround
	r.TripElapsed = 0
	r.TripDuration = m.Timing.WalkTripBase + m.Rand.Float()*m.Timing.WalkTripSpread*r.Adventurous
	m.wander(&r.Actor)
	return []string{fmt.Sprintf("%s goes out for a walk", r.Name)}
}

func (m *Machine) stepWalkingToCar(r *Resident) []string {
	car := m.ownedCar(r)
	if car == nil {
		// Car vanished mid-walk; fall back to a walking trip.
		r.State = StateWalkingAround
		r.TripElapsed = 0
		r.TripDuration = m.Timing.WalkTripBase + m.Rand.Float()*m.Timing.WalkTripSpread*r.Adventurous
		return nil
	}
	if r.HasRoute() {
		return nil
	}
	if r.Pos.Distance(car.Pos) > m.Timing.CarEnterRadius {
		// Route exhausted short of the car; issue a fresh one.
		m.routeTo(&r.Actor, car.Pos)
		return nil
	}

	m.enterCar(r, car)
	r.State = StateDriving
	r.TripElapsed = 0
	r.TripDuration = m.Timing.DriveTripBase + m.Rand.Float()*m.Timing.DriveTripSpread*r.Adventurous
	m.wander(&car.Actor)
	return []string{fmt.Sprintf("%s gets in the car", r.Name)}
}

func (m *Machine) stepDriving(r *Resident, dt float64) []string {
	r.TripElapsed += dt
	car, ok := m.drivenCar(r)
	if !ok {
		// Driving relation lost; recover on foot.
		r.InCar = false
		return m.StartReturnHome(r)
	}

	if r.TripElapsed < r.TripDuration {
		if !car.HasRoute() {
			m.wander(&car.Actor) // keep cruising until the trip runs out
		}
		return nil
	}

	m.exitCar(r, car)
	events := m.StartReturnHome(r)
	return append([]string{fmt.Sprintf("%s parks the car", r.Name)}, events...)
}

func (m *Machine) stepWalkingAround(r *Resident, dt float64) []string {
	r.TripElapsed += dt
	if r.TripElapsed < r.TripDuration {
		if !r.HasRoute() {
			m.wander(&r.Actor)
		}
		return nil
	}
	return m.StartReturnHome(r)
}

// StartReturnHome points the resident at their home lot centroid. Also part
// of the external control surface.
func (m *Machine) StartReturnHome(r *Resident) []string {
	r.State = StateWalkingHome
	r.TripElapsed = 0
	r.TripDuration = 0
	if r.HomeLot != nil {
		m.routeTo(&r.Actor, r.HomeLot.Centroid())
	} else {
		r.ClearRoute()
	}
	return []string{fmt.Sprintf("%s heads home", r.Name)}
}

func (m *Machine) stepWalkingHome(r *Resident) []string {
	if r.HasRoute() || !r.IsHome {
		return nil
	}
	r.State = StateIdleHome
	r.IdleTimer = m.Rand.Range(m.Timing.IdleHomeMin, m.Timing.IdleHomeMax)
	return []string{fmt.Sprintf("%s is back home", r.Name)}
}

// enterCar boards the resident: rider flag, driving registration, and speed
// swap happen within this one call so no tick observes a half-boarded pair.
func (m *Machine) enterCar(r *Resident, car *Vehicle) {
	r.InCar = true
	r.ClearRoute()
	r.WalkSpeed = r.Speed
	r.Speed = car.Speed
	m.Garage.registerDriver(r.ID, car.ID)
}

// exitCar is the inverse of enterCar, equally atomic.
func (m *Machine) exitCar(r *Resident, car *Vehicle) {
	r.InCar = false
	r.Speed = r.WalkSpeed
	r.Pos = car.Pos
	car.ClearRoute()
	m.Garage.unregisterDriver(r.ID)
}

func (m *Machine) ownedCar(r *Resident) *Vehicle {
	id, ok := m.Garage.CarOf(r.ID)
	if !ok {
		return nil
	}
	return m.Fleet[id]
}

func (m *Machine) drivenCar(r *Resident) (*Vehicle, bool) {
	id, ok := m.Garage.Driving(r.ID)
	if !ok {
		return nil, false
	}
	car := m.Fleet[id]
	return car, car != nil
}

// routeTo issues a fresh path request toward a target. No caching: every
// call runs a full search. An empty path is a valid no-route outcome; the
// actor then walks straight toward the target.
func (m *Machine) routeTo(a *Actor, target geom.Point) {
	path := m.Graph.FindPath(a.Pos, target)
	a.SetRoute(path, target)
}

// wander routes an actor to a random graph node. With an empty graph the
// actor simply stays put — a valid steady state.
func (m *Machine) wander(a *Actor) {
	nodes := m.Graph.Nodes()
	if len(nodes) == 0 {
		return
	}
	dest := nodes[int(m.Rand.Float()*float64(len(nodes)))%len(nodes)]
	m.routeTo(a, dest.Pos)
}
