package nav

import "github.com/odvcencio/arrownav/pkg/bus"

// Registrar is the registration and notification API used by the rendering
// layer. Registering only publishes bus events; whoever is attached to the
// bus (normally a Registry) does the bookkeeping.
type Registrar struct {
	bus     *bus.Bus
	regions map[string]*bus.Subscriptions
}

// NewRegistrar creates a registrar publishing on b.
func NewRegistrar(b *bus.Bus) *Registrar {
	return &Registrar{bus: b, regions: make(map[string]*bus.Subscriptions)}
}

// RegisterElement publishes e. An element without an id receives one.
func (r *Registrar) RegisterElement(e *Element) {
	if e == nil {
		return
	}
	if e.ID == "" {
		e.ID = NewID()
	}
	bus.Publish(r.bus, ElementRegistered, e)
}

// UnregisterElement publishes the removal of the element with id.
func (r *Registrar) UnregisterElement(id string) {
	bus.Publish(r.bus, ElementUnregistered, id)
}

// RegisterRegion publishes region and binds its OnElementFocused and OnLeave
// callbacks until the region is unregistered.
func (r *Registrar) RegisterRegion(region *Region) {
	if region == nil {
		return
	}
	if region.ID == "" {
		region.ID = NewID()
	}
	r.release(region.ID)

	subs := &bus.Subscriptions{}
	if region.OnElementFocused != nil {
		subs.Add(bus.Subscribe(r.bus, ElementFocused, func(e *Element) {
			if e.RegionID == region.ID {
				region.OnElementFocused(e)
			}
		}))
	}
	if region.OnLeave != nil {
		subs.Add(bus.Subscribe(r.bus, RegionLeft, func(left *Region) {
			if left.ID == region.ID {
				region.OnLeave(left)
			}
		}))
	}
	r.regions[region.ID] = subs

	bus.Publish(r.bus, RegionRegistered, region)
}

// UnregisterRegion releases the region callbacks and publishes its removal.
func (r *Registrar) UnregisterRegion(id string) {
	r.release(id)
	bus.Publish(r.bus, RegionUnregistered, id)
}

// OnElementFocused subscribes fn to every focus change.
func (r *Registrar) OnElementFocused(fn func(*Element)) *bus.Subscription {
	return bus.Subscribe(r.bus, ElementFocused, fn)
}

// OnRegionLeft subscribes fn to every region exit.
func (r *Registrar) OnRegionLeft(fn func(*Region)) *bus.Subscription {
	return bus.Subscribe(r.bus, RegionLeft, fn)
}

// Close releases every region callback still bound.
func (r *Registrar) Close() {
	for id := range r.regions {
		r.release(id)
	}
}

func (r *Registrar) release(id string) {
	if subs, ok := r.regions[id]; ok {
		subs.Close()
		delete(r.regions, id)
	}
}
