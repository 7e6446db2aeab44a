// Resident spawning — creates the initial population with personalities,
// home lots, and parked cars.
package agents

import (
	"fmt"

	"github.com/laubsauger/streetsim/internal/entropy"
	"github.com/laubsauger/streetsim/internal/geom"
	"github.com/laubsauger/streetsim/internal/world"
)

// Default movement speeds in world units per second.
const (
	DefaultWalkSpeed  = 20.0
	DefaultDriveSpeed = 90.0
)

// CarOwnershipRate is the fraction of residents spawned with a car.
const CarOwnershipRate = 0.6

var firstNames = []string{
	"Ada", "Bruno", "Clara", "Dario", "Elsie", "Felix", "Greta", "Hugo",
	"Ines", "Jonas", "Kira", "Lars", "Mina", "Noor", "Otto", "Petra",
	"Quinn", "Rosa", "Sven", "Thea", "Umut", "Vera", "Wim", "Yara", "Zeno",
}

var lastNames = []string{
	"Adler", "Berg", "Claes", "Dorn", "Ebner", "Falk", "Graf", "Horn",
	"Iversen", "Jung", "Klein", "Lang", "Mohr", "Nagel", "Ott", "Pohl",
	"Quast", "Roth", "Stein", "Thiel", "Unger", "Vogel", "Wolf", "Zahn",
}

// Spawner creates actors for the simulation.
type Spawner struct {
	rnd    entropy.Source
	nextID ActorID
}

// NewSpawner creates a spawner drawing from the given randomness source.
func NewSpawner(rnd entropy.Source) *Spawner {
	return &Spawner{rnd: rnd, nextID: 1}
}

// SetNextID sets the next actor ID to be issued.
func (s *Spawner) SetNextID(id ActorID) {
	s.nextID = id
}

// SpawnResident creates one resident living on the given lot: uniform
// personality scalars, idle at home with a randomized initial idle timer.
func (s *Spawner) SpawnResident(home *world.Lot) *Resident {
	id := s.nextID
	s.nextID++

	pos := geom.Point{}
	if home != nil {
		pos = home.Centroid()
	}
	timing := DefaultTiming()

	return &Resident{
		Actor: Actor{
			ID:    id,
			Kind:  KindResident,
			Name:  s.generateName(),
			Pos:   pos,
			Speed: DefaultWalkSpeed,
		},
		Sociability: s.rnd.Float(),
		Adventurous: s.rnd.Float(),
		HomeLot:     home,
		State:       StateIdleHome,
		IdleTimer:   s.rnd.Range(timing.IdleRetryMin, timing.IdleRetryMax),
		WalkSpeed:   DefaultWalkSpeed,
	}
}

// SpawnVehicle creates a vehicle parked at the given curb position and
// registers the owner in the garage.
func (s *Spawner) SpawnVehicle(owner *Resident, at geom.Point, garage *Garage) *Vehicle {
	id := s.nextID
	s.nextID++

	v := &Vehicle{
		Actor: Actor{
			ID:    id,
			Kind:  KindVehicle,
			Name:  fmt.Sprintf("%s's car", owner.Name),
			Pos:   at,
			Speed: DefaultDriveSpeed,
		},
	}
	garage.Assign(owner.ID, v.ID)
	return v
}

func (s *Spawner) generateName() string {
	first := firstNames[int(s.rnd.Float()*float64(len(firstNames)))%len(firstNames)]
	last := lastNames[int(s.rnd.Float()*float64(len(lastNames)))%len(lastNames)]
	return first + " " + last
}
