package nav

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odvcencio/arrownav/pkg/bus"
)

func ids(elements []*Element) []string {
	out := make([]string, 0, len(elements))
	for _, e := range elements {
		out = append(out, e.ID)
	}
	return out
}

func TestRegistry_InsertionOrder(t *testing.T) {
	reg := NewRegistry()
	for _, id := range []string{"c", "a", "b"} {
		reg.AddElement(&Element{ID: id, Node: newNode(0, 0, 1, 1)})
	}

	assert.Equal(t, []string{"c", "a", "b"}, ids(reg.Elements()))

	// Replacing keeps the original slot.
	replacement := &Element{ID: "c", RegionID: "r", Node: newNode(5, 5, 1, 1)}
	reg.AddElement(replacement)
	assert.Equal(t, []string{"c", "a", "b"}, ids(reg.Elements()))
	got, ok := reg.Element("c")
	require.True(t, ok)
	assert.Same(t, replacement, got)
}

func TestRegistry_RemoveAndCompact(t *testing.T) {
	reg := NewRegistry()
	for i := 0; i < 100; i++ {
		reg.AddElement(&Element{ID: fmt.Sprintf("e%03d", i), Node: newNode(0, 0, 1, 1)})
	}
	// Enough removals to trigger tombstone compaction.
	for i := 0; i < 100; i++ {
		if i%3 != 0 {
			reg.RemoveElement(fmt.Sprintf("e%03d", i))
		}
	}
	reg.RemoveElement("missing")

	elements, _ := reg.Len()
	assert.Equal(t, 34, elements)

	got := ids(reg.Elements())
	require.Len(t, got, 34)
	for i, id := range got {
		assert.Equal(t, fmt.Sprintf("e%03d", 3*i), id)
	}
	for _, id := range got {
		e, ok := reg.Element(id)
		require.True(t, ok, id)
		assert.Equal(t, id, e.ID)
	}
	_, ok := reg.Element("e001")
	assert.False(t, ok)
}

func TestRegistry_IgnoresInvalid(t *testing.T) {
	reg := NewRegistry()
	reg.AddElement(nil)
	reg.AddElement(&Element{})
	reg.AddRegion(nil)
	reg.AddRegion(&Region{})

	elements, regions := reg.Len()
	assert.Zero(t, elements)
	assert.Zero(t, regions)
}

func TestRegistry_FirstSkipsDeadNodes(t *testing.T) {
	reg := NewRegistry()
	dead := newNode(0, 0, 10, 10)
	dead.gone = true
	reg.AddElement(&Element{ID: "no-node"})
	reg.AddElement(&Element{ID: "dead", Node: dead})
	reg.AddElement(&Element{ID: "live", Node: newNode(0, 0, 10, 10)})

	first, ok := reg.First()
	require.True(t, ok)
	assert.Equal(t, "live", first.ID)

	_, ok = NewRegistry().First()
	assert.False(t, ok)
}

func TestRegistry_Members(t *testing.T) {
	reg := NewRegistry()
	dead := newNode(0, 0, 1, 1)
	dead.gone = true
	reg.AddElement(&Element{ID: "a", RegionID: "row", Node: newNode(0, 0, 1, 1)})
	reg.AddElement(&Element{ID: "b", RegionID: "other", Node: newNode(0, 0, 1, 1)})
	reg.AddElement(&Element{ID: "c", RegionID: "row", Node: dead})
	reg.AddElement(&Element{ID: "d", RegionID: "row", Node: newNode(0, 0, 1, 1)})

	assert.Equal(t, []string{"a", "d"}, ids(reg.Members("row")))
}

func TestRegistry_RegionReplaceKeepsLastSelected(t *testing.T) {
	reg := NewRegistry()
	first := &Region{ID: "row"}
	reg.AddRegion(first)
	first.lastSelected = "tile-3"

	reg.AddRegion(&Region{ID: "row", Policy: PolicyLast})
	got, ok := reg.Region("row")
	require.True(t, ok)
	assert.Equal(t, "tile-3", got.LastSelected())
	assert.Equal(t, PolicyLast, got.Policy)

	reg.RemoveRegion("row")
	reg.AddRegion(&Region{ID: "row"})
	got, _ = reg.Region("row")
	assert.Empty(t, got.LastSelected(), "unregistering forgets the region")
}

func TestRegistry_AttachFollowsBus(t *testing.T) {
	b := bus.New()
	defer b.Close()
	reg := NewRegistry()
	subs := reg.Attach(b)
	registrar := NewRegistrar(b)

	registrar.RegisterRegion(&Region{ID: "row"})
	registrar.RegisterElement(&Element{ID: "tile", RegionID: "row", Node: newNode(0, 0, 1, 1)})

	_, ok := reg.Element("tile")
	assert.True(t, ok, "registration must be visible immediately")
	_, ok = reg.Region("row")
	assert.True(t, ok)

	registrar.UnregisterElement("tile")
	registrar.UnregisterRegion("row")
	elements, regions := reg.Len()
	assert.Zero(t, elements)
	assert.Zero(t, regions)

	subs.Close()
	registrar.RegisterElement(&Element{ID: "late", Node: newNode(0, 0, 1, 1)})
	_, ok = reg.Element("late")
	assert.False(t, ok, "detached registry must not see new registrations")
}

func TestRegistrar_GeneratesIDs(t *testing.T) {
	b := bus.New()
	defer b.Close()
	reg := NewRegistry()
	defer reg.Attach(b).Close()

	registrar := NewRegistrar(b)
	e := &Element{Node: newNode(0, 0, 1, 1)}
	r := &Region{}
	registrar.RegisterElement(e)
	registrar.RegisterRegion(r)

	require.NotEmpty(t, e.ID)
	require.NotEmpty(t, r.ID)
	assert.NotEqual(t, e.ID, r.ID)
	_, ok := reg.Element(e.ID)
	assert.True(t, ok)
}

func TestRegistrar_RegionCallbacks(t *testing.T) {
	b := bus.New()
	defer b.Close()
	registrar := NewRegistrar(b)
	defer registrar.Close()

	var focused []string
	left := 0
	registrar.RegisterRegion(&Region{
		ID:               "row",
		OnElementFocused: func(e *Element) { focused = append(focused, e.ID) },
		OnLeave:          func(*Region) { left++ },
	})

	bus.Publish(b, ElementFocused, &Element{ID: "in", RegionID: "row"})
	bus.Publish(b, ElementFocused, &Element{ID: "out", RegionID: "nav"})
	bus.Publish(b, RegionLeft, &Region{ID: "row"})
	bus.Publish(b, RegionLeft, &Region{ID: "nav"})

	assert.Equal(t, []string{"in"}, focused)
	assert.Equal(t, 1, left)

	registrar.UnregisterRegion("row")
	bus.Publish(b, ElementFocused, &Element{ID: "after", RegionID: "row"})
	assert.Equal(t, []string{"in"}, focused, "callbacks are released on unregister")
	assert.Zero(t, b.Len(ElementFocused.Name()))
}
