// Package nav implements directional focus navigation over a flat set of
// focusable elements grouped into regions.
//
// The rendering layer registers elements and regions through a Registrar,
// which only publishes bus events. A Registry consumes those events, and a
// Controller turns arrow key presses into focus changes: it filters the
// geometrically valid candidates for the pressed direction, picks the nearest
// visible one, resolves the region entering policy when focus crosses a region
// boundary, applies focus and nudges the viewport.
//
// Nothing in this package is safe for concurrent use. Registration and key
// handling are expected to run on the same goroutine.
package nav

import (
	"github.com/oklog/ulid/v2"

	"github.com/odvcencio/arrownav/pkg/geometry"
)

// Handle gives on-demand access to the geometry of something on screen.
// Bounds is queried again on every use; ok is false once the underlying node
// is gone.
type Handle interface {
	Bounds() (r geometry.Rect, ok bool)
}

// Node is the handle of a focusable element.
// Focus must move input focus without scrolling.
type Node interface {
	Handle
	Focus()
}

// HitTester returns the topmost handle rendered at a viewport point, or nil.
// Handles must be comparable (typically pointers): visibility is decided by
// comparing the returned handle with the candidate's.
type HitTester interface {
	TopmostAt(p geometry.Point) Handle
}

// Scroller controls the ambient vertical scroll position.
type Scroller interface {
	// Viewport returns the current vertical scroll offset and viewport height.
	Viewport() (scrollY, height float64)
	// ScrollTo starts a smooth scroll to the given offset and returns immediately.
	ScrollTo(y float64)
}

// Element is a focusable leaf.
type Element struct {
	ID       string
	RegionID string
	Node     Node

	// Next holds explicit per-direction links. They are kept for callers but
	// not consulted by the search.
	Next map[Direction]string
}

// Bounds returns the element's current rectangle.
func (e *Element) Bounds() (geometry.Rect, bool) {
	if e == nil || e.Node == nil {
		return geometry.Rect{}, false
	}
	return e.Node.Bounds()
}

// Region groups elements and decides which of them is focused when focus
// enters it from outside.
type Region struct {
	ID     string
	Handle Handle // optional; regions without geometry only act as groups
	Policy EnteringPolicy

	OnElementFocused func(*Element)
	OnLeave          func(*Region)

	lastSelected string
}

// Bounds returns the region's current rectangle, if it has geometry.
func (r *Region) Bounds() (geometry.Rect, bool) {
	if r == nil || r.Handle == nil {
		return geometry.Rect{}, false
	}
	return r.Handle.Bounds()
}

// LastSelected returns the id of the element last focused inside the region.
func (r *Region) LastSelected() string {
	if r == nil {
		return ""
	}
	return r.lastSelected
}

// NewID returns a fresh identifier for elements and regions registered
// without one.
func NewID() string {
	return ulid.Make().String()
}
