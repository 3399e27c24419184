// Package surface lays out boxes on a scrollable terminal cell grid and
// provides the geometry, focus, hit-test and scroll services the navigation
// engine consumes.
//
// Coordinates are cells. Boxes are positioned relative to their parent, and
// a parent scrolled horizontally shifts and clips its children. The document
// scrolls vertically under a fixed viewport.
//
// A Surface is not safe for concurrent use.
package surface

import (
	"math"

	"github.com/odvcencio/arrownav/pkg/geometry"
	"github.com/odvcencio/arrownav/pkg/nav"
)

// Surface is a scrollable document of boxes.
type Surface struct {
	width  int
	height int
	roots  []*Box

	focused *Box

	scrollY     int
	anim        *scrollAnimation
	smoothSteps int

	grid  *HitGrid
	dirty bool
}

type scrollAnimation struct {
	from, to    int
	step, steps int
}

// Option configures a Surface.
type Option func(*Surface)

// WithSmoothSteps spreads each ScrollTo over n ticks. Values below 2 scroll
// immediately.
func WithSmoothSteps(n int) Option {
	return func(s *Surface) { s.smoothSteps = n }
}

// New creates a surface with a width x height viewport.
func New(width, height int, opts ...Option) *Surface {
	s := &Surface{
		width:  max(0, width),
		height: max(0, height),
		grid:   NewHitGrid(0, 0),
		dirty:  true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Size returns the viewport size.
func (s *Surface) Size() (width, height int) {
	return s.width, s.height
}

// Resize changes the viewport size.
func (s *Surface) Resize(width, height int) {
	s.width = max(0, width)
	s.height = max(0, height)
	s.dirty = true
	s.scrollY = s.clampScroll(s.scrollY)
	if s.anim != nil {
		s.anim.to = s.clampScroll(s.anim.to)
	}
}

// Add places a new box at r inside parent, or at document level when parent
// is nil. Later boxes paint over earlier ones.
func (s *Surface) Add(parent *Box, r Rect, label string) *Box {
	b := &Box{surface: s, parent: parent, rect: r, label: label}
	if parent != nil {
		parent.children = append(parent.children, b)
	} else {
		s.roots = append(s.roots, b)
	}
	s.dirty = true
	return b
}

// Roots returns the document level boxes in paint order.
func (s *Surface) Roots() []*Box {
	return append([]*Box(nil), s.roots...)
}

// Focused returns the focused box, or nil.
func (s *Surface) Focused() *Box {
	return s.focused
}

// ContentHeight returns the document height: the viewport height or the
// lowest box bottom, whichever is larger.
func (s *Surface) ContentHeight() int {
	bottom := s.height
	for _, b := range s.roots {
		bottom = max(bottom, b.rect.Y+b.rect.Height)
	}
	return bottom
}

// Viewport implements nav.Scroller.
func (s *Surface) Viewport() (scrollY, height float64) {
	return float64(s.scrollY), float64(s.height)
}

// ScrollY returns the current vertical scroll offset.
func (s *Surface) ScrollY() int {
	return s.scrollY
}

// ScrollTo starts scrolling the document to offset y, clamped to the
// document. It implements nav.Scroller and returns immediately; Tick
// advances a smooth scroll.
func (s *Surface) ScrollTo(y float64) {
	target := s.clampScroll(int(math.Round(y)))
	if s.smoothSteps < 2 || target == s.scrollY {
		s.scrollY = target
		s.anim = nil
		return
	}
	s.anim = &scrollAnimation{from: s.scrollY, to: target, steps: s.smoothSteps}
}

// Scrolling reports whether a smooth scroll is in progress.
func (s *Surface) Scrolling() bool {
	return s.anim != nil
}

// Tick advances a smooth scroll by one step. It reports whether the scroll
// offset changed.
func (s *Surface) Tick() bool {
	a := s.anim
	if a == nil {
		return false
	}
	a.step++
	prev := s.scrollY
	if a.step >= a.steps {
		s.scrollY = a.to
		s.anim = nil
	} else {
		s.scrollY = a.from + (a.to-a.from)*a.step/a.steps
	}
	return s.scrollY != prev
}

func (s *Surface) clampScroll(y int) int {
	limit := max(0, s.ContentHeight()-s.height)
	return min(max(0, y), limit)
}

// TopmostAt implements nav.HitTester. Points are viewport coordinates; boxes
// scrolled vertically out of the viewport still hit-test, so only overlap
// and clipping hide a box.
func (s *Surface) TopmostAt(p geometry.Point) nav.Handle {
	s.rebuild()
	x := int(math.Floor(p.X))
	y := int(math.Floor(p.Y)) + s.scrollY
	if b := s.grid.BoxAt(x, y); b != nil {
		return b
	}
	return nil
}

// Walk calls fn for every box with visible cells, in paint order, with the
// box's visible rectangle in viewport coordinates.
func (s *Surface) Walk(fn func(b *Box, visible Rect)) {
	screen := Rect{Width: s.width, Height: s.height}
	s.each(func(b *Box, clip Rect) {
		if v := clip.Translate(0, -s.scrollY).Intersection(screen); !v.Empty() {
			fn(b, v)
		}
	})
}

// each walks boxes in paint order with their clipped document rectangles.
func (s *Surface) each(fn func(b *Box, clip Rect)) {
	doc := Rect{Width: s.width, Height: s.ContentHeight()}
	var visit func(b *Box, offsetX, offsetY int, clip Rect)
	visit = func(b *Box, offsetX, offsetY int, clip Rect) {
		abs := b.rect.Translate(offsetX, offsetY)
		c := abs.Intersection(clip)
		if c.Empty() {
			return
		}
		fn(b, c)
		for _, child := range b.children {
			visit(child, abs.X-b.scrollX, abs.Y, c)
		}
	}
	for _, b := range s.roots {
		visit(b, 0, 0, doc)
	}
}

func (s *Surface) rebuild() {
	if !s.dirty {
		return
	}
	s.grid.Resize(s.width, s.ContentHeight())
	s.each(func(b *Box, clip Rect) { s.grid.Add(b, clip) })
	s.dirty = false
}

var _ nav.HitTester = (*Surface)(nil)
var _ nav.Scroller = (*Surface)(nil)
