package nav

import "github.com/odvcencio/arrownav/pkg/bus"

// Registry maps identifiers to the live elements and regions.
// Iteration follows first-registration order; re-registering an id replaces
// the entry in place. Candidate ties are therefore broken reproducibly.
type Registry struct {
	elements orderedMap[*Element]
	regions  orderedMap[*Region]
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Attach feeds the registry from the registration topics of b.
// Closing the returned set detaches it.
func (r *Registry) Attach(b *bus.Bus) *bus.Subscriptions {
	subs := &bus.Subscriptions{}
	subs.Add(
		bus.Subscribe(b, ElementRegistered, r.AddElement),
		bus.Subscribe(b, ElementUnregistered, r.RemoveElement),
		bus.Subscribe(b, RegionRegistered, r.AddRegion),
		bus.Subscribe(b, RegionUnregistered, r.RemoveRegion),
	)
	return subs
}

// AddElement stores e under its id.
func (r *Registry) AddElement(e *Element) {
	if e == nil || e.ID == "" {
		return
	}
	r.elements.set(e.ID, e)
}

// RemoveElement deletes the element with the given id.
func (r *Registry) RemoveElement(id string) {
	r.elements.delete(id)
}

// AddRegion stores region under its id. A region registered again keeps the
// remembered last selection of the entry it replaces.
func (r *Registry) AddRegion(region *Region) {
	if region == nil || region.ID == "" {
		return
	}
	if prev, ok := r.regions.get(region.ID); ok && prev != region && region.lastSelected == "" {
		region.lastSelected = prev.lastSelected
	}
	r.regions.set(region.ID, region)
}

// RemoveRegion deletes the region with the given id.
func (r *Registry) RemoveRegion(id string) {
	r.regions.delete(id)
}

// Element looks up an element by id.
func (r *Registry) Element(id string) (*Element, bool) {
	return r.elements.get(id)
}

// Region looks up a region by id.
func (r *Registry) Region(id string) (*Region, bool) {
	return r.regions.get(id)
}

// Elements returns a snapshot of all registered elements.
func (r *Registry) Elements() []*Element {
	out := make([]*Element, 0, r.elements.len())
	r.elements.each(func(e *Element) bool {
		out = append(out, e)
		return true
	})
	return out
}

// Regions returns a snapshot of all registered regions.
func (r *Registry) Regions() []*Region {
	out := make([]*Region, 0, r.regions.len())
	r.regions.each(func(region *Region) bool {
		out = append(out, region)
		return true
	})
	return out
}

// Members returns the elements of regionID that currently have geometry.
func (r *Registry) Members(regionID string) []*Element {
	var out []*Element
	r.elements.each(func(e *Element) bool {
		if e.RegionID != regionID {
			return true
		}
		if _, ok := e.Bounds(); ok {
			out = append(out, e)
		}
		return true
	})
	return out
}

// First returns the earliest registered element that can be focused.
func (r *Registry) First() (*Element, bool) {
	var first *Element
	r.elements.each(func(e *Element) bool {
		if e.Node == nil {
			return true
		}
		if _, ok := e.Node.Bounds(); !ok {
			return true
		}
		first = e
		return false
	})
	return first, first != nil
}

// Len returns the number of registered elements and regions.
func (r *Registry) Len() (elements, regions int) {
	return r.elements.len(), r.regions.len()
}

// orderedMap is a map that iterates in insertion order. Deletions leave a
// tombstone that is compacted once tombstones dominate.
type orderedMap[T any] struct {
	index   map[string]int
	entries []orderedEntry[T]
	dead    int
}

type orderedEntry[T any] struct {
	id    string
	value T
	live  bool
}

const compactThreshold = 32

func (m *orderedMap[T]) set(id string, v T) {
	if m.index == nil {
		m.index = make(map[string]int)
	}
	if i, ok := m.index[id]; ok {
		m.entries[i].value = v
		return
	}
	m.index[id] = len(m.entries)
	m.entries = append(m.entries, orderedEntry[T]{id: id, value: v, live: true})
}

func (m *orderedMap[T]) get(id string) (T, bool) {
	if i, ok := m.index[id]; ok {
		return m.entries[i].value, true
	}
	var zero T
	return zero, false
}

func (m *orderedMap[T]) delete(id string) bool {
	i, ok := m.index[id]
	if !ok {
		return false
	}
	delete(m.index, id)
	m.entries[i] = orderedEntry[T]{}
	m.dead++
	if m.dead >= compactThreshold && m.dead*2 > len(m.entries) {
		m.compact()
	}
	return true
}

func (m *orderedMap[T]) compact() {
	live := m.entries[:0]
	for _, e := range m.entries {
		if e.live {
			m.index[e.id] = len(live)
			live = append(live, e)
		}
	}
	clear(m.entries[len(live):])
	m.entries = live
	m.dead = 0
}

func (m *orderedMap[T]) each(fn func(T) bool) {
	for _, e := range m.entries {
		if e.live && !fn(e.value) {
			return
		}
	}
}

func (m *orderedMap[T]) len() int {
	return len(m.index)
}
