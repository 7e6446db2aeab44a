package engine

import (
	"github.com/laubsauger/streetsim/internal/agents"
)

// ActorSnapshot is one actor's observable state at a tick.
type ActorSnapshot struct {
	ID     uint64  `json:"id"`
	Kind   string  `json:"kind"`
	Name   string  `json:"name"`
	X      float64 `json:"x"`
	Z      float64 `json:"z"`
	State  string  `json:"state,omitempty"`
	InCar  bool    `json:"in_car,omitempty"`
	IsHome bool    `json:"is_home,omitempty"`
}

// Snapshot is a consistent view of the simulation at the end of a tick,
// safe to hand to readers on other goroutines.
type Snapshot struct {
	Tick   uint64          `json:"tick"`
	Clock  string          `json:"clock"`
	Stats  SimStats        `json:"stats"`
	Actors []ActorSnapshot `json:"actors"`
	Events []Event         `json:"events,omitempty"`
}

// snapshotEvents caps how many recent events ride along with a snapshot.
const snapshotEvents = 50

func (s *Simulation) publishSnapshot(tick uint64) {
	actors := make([]ActorSnapshot, 0, len(s.Residents)+len(s.fleetIDs))
	for _, r := range s.Residents {
		actors = append(actors, ActorSnapshot{
			ID:     uint64(r.ID),
			Kind:   r.Kind.String(),
			Name:   r.Name,
			X:      r.Pos.X,
			Z:      r.Pos.Z,
			State:  r.State.String(),
			InCar:  r.InCar,
			IsHome: r.IsHome,
		})
	}
	for _, id := range s.fleetIDs {
		v := s.Fleet[id]
		snap := ActorSnapshot{
			ID:   uint64(v.ID),
			Kind: v.Kind.String(),
			Name: v.Name,
			X:    v.Pos.X,
			Z:    v.Pos.Z,
		}
		if _, driven := s.Garage.DriverOf(v.ID); driven {
			snap.State = agents.StateDriving.String()
		}
		actors = append(actors, snap)
	}

	recent := s.Events
	if len(recent) > snapshotEvents {
		recent = recent[len(recent)-snapshotEvents:]
	}
	events := make([]Event, len(recent))
	copy(events, recent)

	s.mu.Lock()
	s.snapshot = Snapshot{
		Tick:   tick,
		Clock:  SimTime(tick, s.TickInterval),
		Stats:  s.Stats,
		Actors: actors,
		Events: events,
	}
	s.mu.Unlock()
}

// Snapshot returns the most recently published tick snapshot. Safe to call
// from any goroutine.
func (s *Simulation) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot
}
