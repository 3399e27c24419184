package nav

import "github.com/odvcencio/arrownav/pkg/geometry"

// CandidateKind tags the variant held by a Candidate.
type CandidateKind int

const (
	ElementCandidate CandidateKind = iota
	RegionCandidate
)

// Candidate is an element or a region that qualifies as a move target.
type Candidate struct {
	Kind    CandidateKind
	Element *Element
	Region  *Region

	rect geometry.Rect
}

// ID returns the id of the wrapped element or region.
func (c Candidate) ID() string {
	if c.Kind == RegionCandidate {
		return c.Region.ID
	}
	return c.Element.ID
}

// RegionID returns the region a move to this candidate lands in.
func (c Candidate) RegionID() string {
	if c.Kind == RegionCandidate {
		return c.Region.ID
	}
	return c.Element.RegionID
}

// Handle returns the geometry handle used for hit testing.
func (c Candidate) Handle() Handle {
	if c.Kind == RegionCandidate {
		return c.Region.Handle
	}
	return c.Element.Node
}

// Rect returns the rectangle measured when the candidate was found.
func (c Candidate) Rect() geometry.Rect {
	return c.rect
}

// FindCandidates returns every element and region of reg that is a valid
// target when moving in dir from focused, whose rectangle is from. region is
// focused's own region and may be nil.
//
// A candidate must differ from focused, have geometry, be strictly beyond
// from's leading edge, and overlap on the perpendicular axis with from when
// it shares focused's region, or with the region's rectangle otherwise.
// Elements come first, then regions, each in registry order.
func FindCandidates(reg *Registry, focused *Element, from geometry.Rect, region *Region, dir Direction) []Candidate {
	anchor := from
	if rect, ok := region.Bounds(); ok {
		anchor = rect
	}

	check := func(c Candidate, h Handle) (Candidate, bool) {
		if h == nil {
			return c, false
		}
		rect, ok := h.Bounds()
		if !ok {
			return c, false
		}
		c.rect = rect
		base := anchor
		if c.RegionID() == focused.RegionID {
			base = from
		}
		if !dir.Aligned(base, rect) {
			return c, false
		}
		return c, dir.Beyond(from, rect)
	}

	var out []Candidate
	reg.elements.each(func(e *Element) bool {
		if e.ID == focused.ID || e.Node == nil {
			return true
		}
		if c, ok := check(Candidate{Kind: ElementCandidate, Element: e}, e.Node); ok {
			out = append(out, c)
		}
		return true
	})
	reg.regions.each(func(r *Region) bool {
		if r.Handle == nil {
			return true
		}
		if c, ok := check(Candidate{Kind: RegionCandidate, Region: r}, r.Handle); ok {
			out = append(out, c)
		}
		return true
	})
	return out
}

// Split separates elements and regions, preserving order.
func Split(cands []Candidate) (elements []*Element, regions []*Region) {
	for _, c := range cands {
		if c.Kind == RegionCandidate {
			regions = append(regions, c.Region)
		} else {
			elements = append(elements, c.Element)
		}
	}
	return elements, regions
}
