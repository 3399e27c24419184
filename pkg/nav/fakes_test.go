package nav

import (
	"time"

	"github.com/odvcencio/arrownav/pkg/bus"
	"github.com/odvcencio/arrownav/pkg/geometry"
)

// fakeNode is a test handle with a fixed rectangle.
type fakeNode struct {
	rect    geometry.Rect
	gone    bool
	focused int
	queries int
}

func newNode(x, y, w, h float64) *fakeNode {
	return &fakeNode{rect: geometry.NewRect(x, y, w, h)}
}

func (n *fakeNode) Bounds() (geometry.Rect, bool) {
	if n == nil {
		return geometry.Rect{}, false
	}
	n.queries++
	if n.gone {
		return geometry.Rect{}, false
	}
	return n.rect, true
}

func (n *fakeNode) Focus() {
	if n != nil {
		n.focused++
	}
}

// fakeScreen hit-tests like a painter: the last added handle containing a
// point is the topmost one.
type fakeScreen struct {
	layers []Handle
}

func (s *fakeScreen) add(h ...Handle) { s.layers = append(s.layers, h...) }

func (s *fakeScreen) TopmostAt(p geometry.Point) Handle {
	for i := len(s.layers) - 1; i >= 0; i-- {
		h := s.layers[i]
		var rect geometry.Rect
		var ok bool
		if n, isNode := h.(*fakeNode); isNode && n != nil {
			rect, ok = n.rect, !n.gone
		} else {
			rect, ok = h.Bounds()
		}
		if ok && rect.Contains(p) {
			return h
		}
	}
	return nil
}

// fakeScroller records scroll requests.
type fakeScroller struct {
	scrollY, height float64
	requests        []float64
}

func (s *fakeScroller) Viewport() (float64, float64) { return s.scrollY, s.height }
func (s *fakeScroller) ScrollTo(y float64)          { s.requests = append(s.requests, y) }

type navigation struct {
	dir     Direction
	outcome Outcome
}

// fakeRecorder captures recorder calls.
type fakeRecorder struct {
	navigations []navigation
	entered     []EnteringPolicy
	elements    int
	regions     int
}

func (r *fakeRecorder) Navigated(dir Direction, outcome Outcome, _ time.Duration) {
	r.navigations = append(r.navigations, navigation{dir, outcome})
}
func (r *fakeRecorder) CandidatesFound(Direction, int, int) {}
func (r *fakeRecorder) RegionEntered(p EnteringPolicy)      { r.entered = append(r.entered, p) }
func (r *fakeRecorder) RegistrySize(elements, regions int) {
	r.elements, r.regions = elements, regions
}

// harness wires a bus, registry, registrar and controller together.
type harness struct {
	bus       *bus.Bus
	registry  *Registry
	registrar *Registrar
	screen    *fakeScreen
	scroller  *fakeScroller
	recorder  *fakeRecorder
	ctrl      *Controller
	subs      *bus.Subscriptions
}

func newHarness(opts ...Option) *harness {
	h := &harness{
		bus:      bus.New(),
		registry: NewRegistry(),
		screen:   &fakeScreen{},
		scroller: &fakeScroller{height: 1000},
		recorder: &fakeRecorder{},
	}
	h.subs = h.registry.Attach(h.bus)
	h.registrar = NewRegistrar(h.bus)
	base := []Option{
		WithHitTester(h.screen),
		WithAutoScroll(h.scroller, DefaultBandLow, DefaultBandHigh),
		WithRecorder(h.recorder),
	}
	h.ctrl = NewController(h.registry, h.bus, append(base, opts...)...)
	return h
}

func (h *harness) close() {
	h.registrar.Close()
	h.subs.Close()
	h.bus.Close()
}

func (h *harness) region(id string, policy EnteringPolicy, node *fakeNode) *Region {
	r := &Region{ID: id, Policy: policy}
	if node != nil {
		r.Handle = node
		h.screen.add(node)
	}
	h.registrar.RegisterRegion(r)
	return r
}

func (h *harness) element(id, region string, node *fakeNode) *Element {
	e := &Element{ID: id, RegionID: region, Node: node}
	h.screen.add(node)
	h.registrar.RegisterElement(e)
	return e
}

func (h *harness) focusedID() string {
	if e, ok := h.ctrl.Focused(); ok {
		return e.ID
	}
	return ""
}
