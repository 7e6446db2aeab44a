// Simulation ties the street layout, navigation graph, spatial index, and
// agents together and advances them each tick.
package engine

import (
	"sync"
	"time"

	"github.com/laubsauger/streetsim/internal/agents"
	"github.com/laubsauger/streetsim/internal/entropy"
	"github.com/laubsauger/streetsim/internal/nav"
	"github.com/laubsauger/streetsim/internal/spatial"
	"github.com/laubsauger/streetsim/internal/world"
)

// Event is a notable occurrence in the simulation.
type Event struct {
	Tick        uint64 `json:"tick"`
	Category    string `json:"category"` // "trip", "traffic", "system"
	Description string `json:"description"`
}

// SimStats tracks aggregate state, refreshed every tick.
type SimStats struct {
	Residents    int            `json:"residents"`
	Vehicles     int            `json:"vehicles"`
	AtHome       int            `json:"at_home"`
	Driving      int            `json:"driving"`
	OnFoot       int            `json:"on_foot"`
	TripsStarted uint64         `json:"trips_started"`
	ByState      map[string]int `json:"by_state"`
}

// Simulation holds the complete simulation state and wires systems together.
//
// Everything runs single-threaded within a tick, in fixed order: behavior
// (which issues path requests), spatial-index rebuild, traffic queries,
// movement integration. The index is always fully repopulated before any
// query, so no agent ever observes a partially rebuilt index.
type Simulation struct {
	Layout *world.Layout
	Graph  *nav.Graph
	Index  *spatial.Grid

	// TickInterval mirrors the engine's timestep for the simulation clock.
	TickInterval time.Duration

	Residents []*agents.Resident
	Fleet     map[agents.ActorID]*agents.Vehicle
	fleetIDs  []agents.ActorID // stable iteration order
	Garage    *agents.Garage
	Machine   *agents.Machine

	Events   []Event
	drained  int // Events[:drained] have been handed to DrainEvents callers
	LastTick uint64
	Stats    SimStats

	mu       sync.Mutex
	snapshot Snapshot
}

// NewSimulation assembles a simulation from its parts.
func NewSimulation(layout *world.Layout, graph *nav.Graph, cellSize float64, rnd entropy.Source) *Simulation {
	garage := agents.NewGarage()
	fleet := make(map[agents.ActorID]*agents.Vehicle)
	return &Simulation{
		Layout:       layout,
		Graph:        graph,
		Index:        spatial.NewGrid(cellSize),
		TickInterval: 100 * time.Millisecond,
		Fleet:        fleet,
		Garage:       garage,
		Machine:      agents.NewMachine(graph, garage, fleet, rnd),
	}
}

// AddResident registers a resident with the simulation.
func (s *Simulation) AddResident(r *agents.Resident) {
	s.Residents = append(s.Residents, r)
}

// AddVehicle registers a vehicle with the simulation.
func (s *Simulation) AddVehicle(v *agents.Vehicle) {
	s.Fleet[v.ID] = v
	s.fleetIDs = append(s.fleetIDs, v.ID)
}

// Step advances the whole simulation by dt seconds.
func (s *Simulation) Step(tick uint64, dt float64) {
	s.LastTick = tick

	// 1. Behavior: state machines run and issue any path requests.
	for _, r := range s.Residents {
		before := r.State
		for _, desc := range s.Machine.Step(r, dt) {
			s.Events = append(s.Events, Event{Tick: tick, Category: "trip", Description: desc})
		}
		if before == agents.StateIdleHome && r.State != agents.StateIdleHome {
			s.Stats.TripsStarted++
		}
	}

	// 2. Spatial index: cleared and fully repopulated before any query.
	s.Index.Populate(s.allEntities())

	// 3. Traffic: driven vehicles check the road ahead and brake.
	factors := make(map[agents.ActorID]float64, len(s.fleetIDs))
	for _, id := range s.fleetIDs {
		v := s.Fleet[id]
		if _, ok := s.Garage.DriverOf(v.ID); ok {
			factors[v.ID] = s.brakeFactor(v)
		}
	}

	// 4. Movement: pedestrians walk, driven vehicles roll, riders follow.
	for _, r := range s.Residents {
		if !r.InCar {
			r.Advance(dt)
		}
	}
	for _, id := range s.fleetIDs {
		v := s.Fleet[id]
		driverID, ok := s.Garage.DriverOf(v.ID)
		if !ok {
			continue // parked
		}
		v.Advance(dt * factors[v.ID])
		if driver := s.resident(driverID); driver != nil {
			driver.Pos = v.Pos
		}
	}

	s.updateStats()
	s.publishSnapshot(tick)
}

func (s *Simulation) resident(id agents.ActorID) *agents.Resident {
	for _, r := range s.Residents {
		if r.ID == id {
			return r
		}
	}
	return nil
}

func (s *Simulation) allEntities() []spatial.Entity {
	out := make([]spatial.Entity, 0, len(s.Residents)+len(s.fleetIDs))
	for _, r := range s.Residents {
		out = append(out, r)
	}
	for _, id := range s.fleetIDs {
		out = append(out, s.Fleet[id])
	}
	return out
}

// DrainEvents returns the events appended since the previous drain and
// trims the backlog so it cannot grow without bound.
func (s *Simulation) DrainEvents() []Event {
	fresh := s.Events[s.drained:]
	out := make([]Event, len(fresh))
	copy(out, fresh)

	const keep = 1000
	if len(s.Events) > keep {
		s.Events = append([]Event(nil), s.Events[len(s.Events)-keep:]...)
	}
	s.drained = len(s.Events)
	return out
}

func (s *Simulation) updateStats() {
	stats := SimStats{
		Residents: len(s.Residents),
		Vehicles:  len(s.fleetIDs),
		ByState:   make(map[string]int),
		// TripsStarted survives across ticks.
		TripsStarted: s.Stats.TripsStarted,
	}
	for _, r := range s.Residents {
		stats.ByState[r.State.String()]++
		if r.IsHome {
			stats.AtHome++
		}
		switch r.State {
		case agents.StateDriving:
			stats.Driving++
		case agents.StateWalkingToCar, agents.StateWalkingHome, agents.StateWalkingAround:
			stats.OnFoot++
		}
	}
	s.Stats = stats
}
