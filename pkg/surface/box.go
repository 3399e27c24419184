package surface

import "github.com/odvcencio/arrownav/pkg/geometry"

// Box is a rectangle on a Surface. It implements nav.Node.
type Box struct {
	surface  *Surface
	parent   *Box
	children []*Box

	rect    Rect
	label   string
	scrollX int
	removed bool
}

// Label returns the text drawn in the box.
func (b *Box) Label() string { return b.label }

// SetLabel replaces the box text.
func (b *Box) SetLabel(label string) { b.label = label }

// Parent returns the containing box, or nil at document level.
func (b *Box) Parent() *Box { return b.parent }

// Children returns the boxes inside b in paint order.
func (b *Box) Children() []*Box {
	return append([]*Box(nil), b.children...)
}

// Rect returns the box position relative to its parent.
func (b *Box) Rect() Rect { return b.rect }

// Removed reports whether the box has been taken off the surface.
func (b *Box) Removed() bool { return b == nil || b.removed }

// Move repositions the box relative to its parent.
func (b *Box) Move(r Rect) {
	b.rect = r
	b.surface.dirty = true
}

// Document returns the box rectangle in document coordinates.
func (b *Box) Document() Rect {
	r := b.rect
	for p := b.parent; p != nil; p = p.parent {
		r = r.Translate(p.rect.X-p.scrollX, p.rect.Y)
	}
	return r
}

// Bounds implements nav.Handle. It reports the unclipped rectangle in
// viewport coordinates, recomputed on every call. A removed box has no
// geometry.
func (b *Box) Bounds() (geometry.Rect, bool) {
	if b.Removed() {
		return geometry.Rect{}, false
	}
	return b.Document().Translate(0, -b.surface.scrollY).Geometry(), true
}

// Focus implements nav.Node. It marks b focused without scrolling.
func (b *Box) Focus() {
	if !b.Removed() {
		b.surface.focused = b
	}
}

// Focused reports whether b is the focused box.
func (b *Box) Focused() bool {
	return b != nil && b.surface.focused == b
}

// ContainsFocus reports whether b or one of its descendants is focused.
func (b *Box) ContainsFocus() bool {
	if b == nil {
		return false
	}
	for f := b.surface.focused; f != nil; f = f.parent {
		if f == b {
			return true
		}
	}
	return false
}

// ScrollX returns the horizontal scroll offset applied to the children.
func (b *Box) ScrollX() int { return b.scrollX }

// ScrollXTo scrolls the children horizontally, clamped so the content never
// leaves a gap on either side.
func (b *Box) ScrollXTo(x int) {
	content := 0
	for _, c := range b.children {
		content = max(content, c.rect.X+c.rect.Width)
	}
	limit := max(0, content-b.rect.Width)
	x = min(max(0, x), limit)
	if x != b.scrollX {
		b.scrollX = x
		b.surface.dirty = true
	}
}

// CenterX scrolls b horizontally so child is centered, as far as the
// content allows.
func (b *Box) CenterX(child *Box) {
	if child == nil || child.parent != b {
		return
	}
	b.ScrollXTo(child.rect.X + child.rect.Width/2 - b.rect.Width/2)
}

// Remove takes b and its descendants off the surface.
func (b *Box) Remove() {
	if b.removed {
		return
	}
	if b.parent != nil {
		b.parent.children = without(b.parent.children, b)
	} else {
		b.surface.roots = without(b.surface.roots, b)
	}
	b.markRemoved()
	b.surface.dirty = true
}

func (b *Box) markRemoved() {
	b.removed = true
	if b.surface.focused == b {
		b.surface.focused = nil
	}
	for _, c := range b.children {
		c.markRemoved()
	}
}

func without(boxes []*Box, b *Box) []*Box {
	out := boxes[:0:0]
	for _, x := range boxes {
		if x != b {
			out = append(out, x)
		}
	}
	return out
}
