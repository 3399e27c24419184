package nav

import (
	"math"

	"github.com/odvcencio/arrownav/pkg/geometry"
)

// farAway is the coordinate used to project edge and corner policies off screen.
const farAway = 999999

// EnteringOptions tunes how entering policies are resolved.
type EnteringOptions struct {
	// LegacyCorners makes PolicyTopLeft target the top-right corner, the way
	// earlier releases did. Off by default.
	LegacyCorners bool
}

// TargetPoint returns the point policy measures member distances against,
// given the center of the element focus is leaving. PolicyLast has no target
// point and reports false.
func TargetPoint(policy EnteringPolicy, from geometry.Point, opts EnteringOptions) (geometry.Point, bool) {
	switch policy {
	case PolicyFromDirection:
		return from, true
	case PolicyTop:
		return geometry.Point{X: from.X, Y: -farAway}, true
	case PolicyBottom:
		return geometry.Point{X: from.X, Y: farAway}, true
	case PolicyLeft:
		return geometry.Point{X: -farAway, Y: from.Y}, true
	case PolicyRight:
		return geometry.Point{X: farAway, Y: from.Y}, true
	case PolicyTopLeft:
		if opts.LegacyCorners {
			return geometry.Point{X: farAway, Y: -farAway}, true
		}
		return geometry.Point{X: -farAway, Y: -farAway}, true
	case PolicyTopRight:
		return geometry.Point{X: farAway, Y: -farAway}, true
	case PolicyBottomLeft:
		return geometry.Point{X: -farAway, Y: farAway}, true
	case PolicyBottomRight:
		return geometry.Point{X: farAway, Y: farAway}, true
	default:
		return geometry.Point{}, false
	}
}

// ResolveEntry picks the member of region that receives focus when focus
// enters it from current, whose rectangle is from. members are the region's
// elements with geometry, in registry order; current is never returned.
// It returns nil when no member qualifies.
func ResolveEntry(region *Region, members []*Element, current *Element, from geometry.Rect, opts EnteringOptions) *Element {
	if region == nil {
		return nil
	}
	currentID := ""
	if current != nil {
		currentID = current.ID
	}
	candidates := make([]*Element, 0, len(members))
	for _, m := range members {
		if m != nil && m.ID != currentID {
			candidates = append(candidates, m)
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	if region.Policy == PolicyLast {
		if last := region.LastSelected(); last != "" {
			for _, m := range candidates {
				if m.ID == last {
					return m
				}
			}
		}
		return candidates[0]
	}

	target, ok := TargetPoint(region.Policy, from.Center(), opts)
	if !ok {
		return candidates[0]
	}
	return nearestTo(candidates, target)
}

// nearestTo returns the element whose center is closest to p; the first one
// wins ties. Elements without geometry are skipped.
func nearestTo(elements []*Element, p geometry.Point) *Element {
	var nearest *Element
	best := math.Inf(1)
	for _, e := range elements {
		rect, ok := e.Bounds()
		if !ok {
			continue
		}
		if d := geometry.DistanceSquared(rect.Center(), p); d < best {
			best = d
			nearest = e
		}
	}
	return nearest
}
