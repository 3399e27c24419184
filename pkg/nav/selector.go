package nav

import (
	"math"

	"github.com/odvcencio/arrownav/pkg/geometry"
)

// Selection is the winner of SelectBest together with its score.
type Selection struct {
	Candidate Candidate
	Distance  float64
}

// SelectBest picks the candidate with the shortest edge-to-edge distance to
// from among those that are visible through hit. Elements and regions are
// ranked separately and the nearer of the two winners is returned; an element
// wins a tie. Among equal distances the first candidate wins. A nil hit
// treats every candidate as visible.
func SelectBest(cands []Candidate, from geometry.Rect, hit HitTester) (Selection, bool) {
	bestElement := Selection{Distance: math.Inf(1)}
	bestRegion := Selection{Distance: math.Inf(1)}
	foundElement, foundRegion := false, false

	for _, c := range cands {
		best, found := &bestElement, &foundElement
		if c.Kind == RegionCandidate {
			best, found = &bestRegion, &foundRegion
		}

		d := geometry.EdgeDistanceSquared(from, c.rect)
		if d >= best.Distance {
			continue
		}
		if !Visible(hit, c.Handle(), c.rect) {
			continue
		}
		*best = Selection{Candidate: c, Distance: d}
		*found = true
	}

	switch {
	case foundElement && foundRegion:
		if bestElement.Distance <= bestRegion.Distance {
			return bestElement, true
		}
		return bestRegion, true
	case foundElement:
		return bestElement, true
	case foundRegion:
		return bestRegion, true
	default:
		return Selection{}, false
	}
}

// Visible reports whether h is the topmost handle at any of the nine sample
// points of rect.
func Visible(hit HitTester, h Handle, rect geometry.Rect) bool {
	if hit == nil {
		return true
	}
	if h == nil {
		return false
	}
	for _, p := range geometry.SamplePoints(rect) {
		if top := hit.TopmostAt(p); top != nil && top == h {
			return true
		}
	}
	return false
}
