// Package geometry provides the rectangle math used by directional navigation.
// Rectangles are axis-aligned and expressed in viewport coordinates, with Y
// growing downwards.
package geometry

// Point is a position in viewport coordinates.
type Point struct {
	X, Y float64
}

// Rect is an axis-aligned bounding rectangle.
type Rect struct {
	Left, Top, Right, Bottom float64
}

// NewRect creates a rect from position and size.
func NewRect(x, y, w, h float64) Rect {
	return Rect{Left: x, Top: y, Right: x + w, Bottom: y + h}
}

// Width returns the horizontal extent of the rect.
func (r Rect) Width() float64 {
	return r.Right - r.Left
}

// Height returns the vertical extent of the rect.
func (r Rect) Height() float64 {
	return r.Bottom - r.Top
}

// Center returns the midpoint of the rect.
func (r Rect) Center() Point {
	return Point{X: r.Left + r.Width()/2, Y: r.Top + r.Height()/2}
}

// Empty returns true if the rect has no area.
func (r Rect) Empty() bool {
	return r.Right <= r.Left || r.Bottom <= r.Top
}

// Translate returns the rect moved by dx, dy.
func (r Rect) Translate(dx, dy float64) Rect {
	return Rect{Left: r.Left + dx, Top: r.Top + dy, Right: r.Right + dx, Bottom: r.Bottom + dy}
}

// OverlapsX returns true if the horizontal spans touch or overlap.
func (r Rect) OverlapsX(other Rect) bool {
	return r.Right >= other.Left && r.Left <= other.Right
}

// OverlapsY returns true if the vertical spans touch or overlap.
func (r Rect) OverlapsY(other Rect) bool {
	return r.Bottom >= other.Top && r.Top <= other.Bottom
}

// Intersects returns true if the two rects share a non-empty area.
func (r Rect) Intersects(other Rect) bool {
	return r.Left < other.Right &&
		r.Right > other.Left &&
		r.Top < other.Bottom &&
		r.Bottom > other.Top
}

// Intersection returns the overlapping area of two rects, or the zero rect.
func (r Rect) Intersection(other Rect) Rect {
	out := Rect{
		Left:   max(r.Left, other.Left),
		Top:    max(r.Top, other.Top),
		Right:  min(r.Right, other.Right),
		Bottom: min(r.Bottom, other.Bottom),
	}
	if out.Empty() {
		return Rect{}
	}
	return out
}

// Contains returns true if p lies inside the rect, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left && p.X <= r.Right && p.Y >= r.Top && p.Y <= r.Bottom
}

// ClosestPointBetween returns the point on a nearest to b.
// On each axis it takes a's facing edge when the spans are disjoint and the
// midpoint of the shared span otherwise.
func ClosestPointBetween(a, b Rect) Point {
	return Point{
		X: closestOnAxis(a.Left, a.Right, b.Left, b.Right),
		Y: closestOnAxis(a.Top, a.Bottom, b.Top, b.Bottom),
	}
}

func closestOnAxis(aMin, aMax, bMin, bMax float64) float64 {
	switch {
	case aMin >= bMax:
		return aMin
	case aMax <= bMin:
		return aMax
	default:
		lo := max(aMin, bMin)
		hi := min(aMax, bMax)
		return lo + (hi-lo)/2
	}
}

// EdgeDistanceSquared returns the squared length of the shortest gap between
// a and b. It is zero for overlapping rects.
func EdgeDistanceSquared(a, b Rect) float64 {
	return DistanceSquared(ClosestPointBetween(a, b), ClosestPointBetween(b, a))
}

// DistanceSquared returns the squared Euclidean distance between two points.
func DistanceSquared(p, q Point) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	return dx*dx + dy*dy
}

// SamplePoints returns the nine points used for occlusion testing: the four
// corners, the center and the four edge midpoints.
func SamplePoints(r Rect) [9]Point {
	c := r.Center()
	return [9]Point{
		{X: r.Left, Y: r.Top},
		{X: r.Right, Y: r.Top},
		{X: r.Left, Y: r.Bottom},
		{X: r.Right, Y: r.Bottom},
		c,
		{X: c.X, Y: r.Top},
		{X: c.X, Y: r.Bottom},
		{X: r.Left, Y: c.Y},
		{X: r.Right, Y: c.Y},
	}
}
