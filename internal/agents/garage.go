package agents

// Garage is the single registry for the resident↔vehicle relation. Both the
// static ownership link and the transient driving link live here as
// bidirectional id→id maps, so the two sides can never disagree and
// removing either actor cannot leave a stale back-reference behind.
type Garage struct {
	ownerToCar map[ActorID]ActorID
	carToOwner map[ActorID]ActorID

	driverToCar map[ActorID]ActorID
	carToDriver map[ActorID]ActorID
}

// NewGarage creates an empty registry.
func NewGarage() *Garage {
	return &Garage{
		ownerToCar:  make(map[ActorID]ActorID),
		carToOwner:  make(map[ActorID]ActorID),
		driverToCar: make(map[ActorID]ActorID),
		carToDriver: make(map[ActorID]ActorID),
	}
}

// Assign records that a resident owns a vehicle, replacing any previous
// assignment on either side.
func (g *Garage) Assign(owner, car ActorID) {
	if old, ok := g.ownerToCar[owner]; ok {
		delete(g.carToOwner, old)
	}
	if old, ok := g.carToOwner[car]; ok {
		delete(g.ownerToCar, old)
	}
	g.ownerToCar[owner] = car
	g.carToOwner[car] = owner
}

// CarOf returns the vehicle owned by a resident.
func (g *Garage) CarOf(owner ActorID) (ActorID, bool) {
	car, ok := g.ownerToCar[owner]
	return car, ok
}

// OwnerOf returns the resident owning a vehicle.
func (g *Garage) OwnerOf(car ActorID) (ActorID, bool) {
	owner, ok := g.carToOwner[car]
	return owner, ok
}

// DriverOf returns the resident currently driving a vehicle.
func (g *Garage) DriverOf(car ActorID) (ActorID, bool) {
	driver, ok := g.carToDriver[car]
	return driver, ok
}

// Driving returns the vehicle a resident is currently driving.
func (g *Garage) Driving(driver ActorID) (ActorID, bool) {
	car, ok := g.driverToCar[driver]
	return car, ok
}

// registerDriver links both directions of the driving relation.
func (g *Garage) registerDriver(driver, car ActorID) {
	g.driverToCar[driver] = car
	g.carToDriver[car] = driver
}

// unregisterDriver clears both directions of the driving relation.
func (g *Garage) unregisterDriver(driver ActorID) {
	if car, ok := g.driverToCar[driver]; ok {
		delete(g.carToDriver, car)
	}
	delete(g.driverToCar, driver)
}

// Remove forgets an actor entirely: ownership and driving links on both
// sides, whichever role the actor played.
func (g *Garage) Remove(id ActorID) {
	if car, ok := g.ownerToCar[id]; ok {
		delete(g.carToOwner, car)
		delete(g.ownerToCar, id)
	}
	if owner, ok := g.carToOwner[id]; ok {
		delete(g.ownerToCar, owner)
		delete(g.carToOwner, id)
	}
	g.unregisterDriver(id)
	if driver, ok := g.carToDriver[id]; ok {
		delete(g.driverToCar, driver)
		delete(g.carToDriver, id)
	}
}
