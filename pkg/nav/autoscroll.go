package nav

// Default comfort band, as fractions of the viewport height.
const (
	DefaultBandLow  = 0.25
	DefaultBandHigh = 0.75
)

// AutoScroller keeps newly focused elements inside a comfortable vertical band.
type AutoScroller struct {
	scroller Scroller
	low      float64
	high     float64
}

// NewAutoScroller creates an auto-scroller; out of range band values fall
// back to the defaults.
func NewAutoScroller(s Scroller, low, high float64) *AutoScroller {
	if low < 0 || high > 1 || low >= high {
		low, high = DefaultBandLow, DefaultBandHigh
	}
	return &AutoScroller{scroller: s, low: low, high: high}
}

// Nudge scrolls so h is vertically centered unless it already lies inside
// the band. It reports whether a scroll was requested.
func (a *AutoScroller) Nudge(h Handle) bool {
	if a == nil || a.scroller == nil || h == nil {
		return false
	}
	rect, ok := h.Bounds()
	if !ok {
		return false
	}
	scrollY, height := a.scroller.Viewport()
	if height <= 0 {
		return false
	}
	if rect.Top >= height*a.low && rect.Bottom <= height*a.high {
		return false
	}
	a.scroller.ScrollTo(rect.Top + rect.Height()/2 + scrollY - height/2)
	return true
}
