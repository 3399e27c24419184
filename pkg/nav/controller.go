package nav

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/odvcencio/arrownav/pkg/bus"
	"github.com/odvcencio/arrownav/pkg/terminal"
)

const tracerName = "github.com/odvcencio/arrownav/pkg/nav"

// Controller turns directional key presses into focus changes.
//
// States are Idle (nothing focused) and Focused. The first press in Idle
// focuses the first registered element; later presses search for the best
// candidate in the pressed direction. Missing geometry never fails a press,
// it just disqualifies a candidate.
type Controller struct {
	registry *Registry
	bus      *bus.Bus
	hit      HitTester
	scroll   *AutoScroller
	keys     KeyMap
	entering EnteringOptions
	logger   *slog.Logger
	recorder Recorder
	tracer   trace.Tracer

	focusedID string
}

// Option configures a Controller.
type Option func(*Controller)

// WithHitTester sets the provider used for occlusion tests.
func WithHitTester(h HitTester) Option {
	return func(c *Controller) { c.hit = h }
}

// WithAutoScroll keeps focused elements inside the band of s's viewport.
func WithAutoScroll(s Scroller, low, high float64) Option {
	return func(c *Controller) { c.scroll = NewAutoScroller(s, low, high) }
}

// WithKeyMap replaces the arrow key bindings.
func WithKeyMap(km KeyMap) Option {
	return func(c *Controller) {
		if len(km) > 0 {
			c.keys = km
		}
	}
}

// WithEnteringOptions tunes entering policy resolution.
func WithEnteringOptions(opts EnteringOptions) Option {
	return func(c *Controller) { c.entering = opts }
}

// WithLogger sets the logger used for debug traces of each press.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithRecorder sets the metrics sink.
func WithRecorder(r Recorder) Option {
	return func(c *Controller) {
		if r != nil {
			c.recorder = r
		}
	}
}

// WithTracer sets the tracer; the global otel tracer is used otherwise.
func WithTracer(t trace.Tracer) Option {
	return func(c *Controller) {
		if t != nil {
			c.tracer = t
		}
	}
}

// NewController creates a controller reading reg and publishing focus
// notifications on b.
func NewController(reg *Registry, b *bus.Bus, opts ...Option) *Controller {
	c := &Controller{
		registry: reg,
		bus:      b,
		keys:     DefaultKeyMap(),
		logger:   slog.New(slog.DiscardHandler),
		recorder: nopRecorder{},
		tracer:   otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetKeyMap replaces the key bindings; an empty map is ignored.
func (c *Controller) SetKeyMap(km KeyMap) {
	if len(km) > 0 {
		c.keys = km
	}
}

// Lookup reports the direction ev is bound to under the current key map.
func (c *Controller) Lookup(ev terminal.KeyEvent) (Direction, bool) {
	return c.keys.Lookup(ev)
}

// HandleKey processes a key press. It returns true when the key is bound to a
// direction, whether or not focus moved, so the caller can suppress the
// key's default action. Other keys return false untouched.
func (c *Controller) HandleKey(ctx context.Context, ev terminal.KeyEvent) bool {
	dir, ok := c.keys.Lookup(ev)
	if !ok {
		return false
	}
	c.Move(ctx, dir)
	return true
}

// Move runs one directional search and reports what happened.
func (c *Controller) Move(ctx context.Context, dir Direction) Outcome {
	start := time.Now()
	_, span := c.tracer.Start(ctx, "nav.Move", trace.WithAttributes(
		attribute.String("nav.direction", dir.String()),
	))
	defer span.End()

	outcome := c.move(dir)

	span.SetAttributes(
		attribute.String("nav.outcome", string(outcome)),
		attribute.String("nav.focused", c.focusedID),
	)
	c.recorder.Navigated(dir, outcome, time.Since(start))
	c.recorder.RegistrySize(c.registry.Len())
	return outcome
}

// Focus moves focus to the element with id. It returns false when the
// element is unknown or has no geometry.
func (c *Controller) Focus(id string) bool {
	next, ok := c.registry.Element(id)
	if !ok || next.Node == nil {
		return false
	}
	if _, ok := next.Bounds(); !ok {
		return false
	}
	if id == c.focusedID {
		return true
	}
	prev, _ := c.current()
	c.apply(next, prev)
	return true
}

// Focused returns the focused element, if any.
func (c *Controller) Focused() (*Element, bool) {
	return c.current()
}

// Blur clears the focus pointer without notifying anyone.
func (c *Controller) Blur() {
	c.focusedID = ""
}

func (c *Controller) move(dir Direction) Outcome {
	current, ok := c.current()
	if !ok {
		first, ok := c.registry.First()
		if !ok {
			c.logger.Debug("no focusable element", slog.String("direction", dir.String()))
			return OutcomeNoFocusable
		}
		c.apply(first, nil)
		return OutcomeInitial
	}

	from, ok := current.Bounds()
	if !ok {
		c.logger.Debug("focused element has no geometry", slog.String("element", current.ID))
		return OutcomeNoCandidate
	}

	region, _ := c.registry.Region(current.RegionID)
	cands := FindCandidates(c.registry, current, from, region, dir)
	elements, regions := Split(cands)
	c.recorder.CandidatesFound(dir, len(elements), len(regions))

	best, ok := SelectBest(cands, from, c.hit)
	if !ok {
		c.logger.Debug("no candidate",
			slog.String("direction", dir.String()),
			slog.String("from", current.ID),
			slog.Int("candidates", len(cands)),
		)
		return OutcomeNoCandidate
	}

	winner := best.Candidate
	if winner.Kind == ElementCandidate && winner.Element.RegionID == current.RegionID {
		c.apply(winner.Element, current)
		return OutcomeMoved
	}

	if target, ok := c.registry.Region(winner.RegionID()); ok {
		members := c.registry.Members(target.ID)
		if next := ResolveEntry(target, members, current, from, c.entering); next != nil {
			c.logger.Debug("entering region",
				slog.String("region", target.ID),
				slog.String("policy", target.Policy.String()),
				slog.String("element", next.ID),
			)
			c.recorder.RegionEntered(target.Policy)
			c.apply(next, current)
			return OutcomeEntered
		}
	}

	if winner.Kind == ElementCandidate {
		c.apply(winner.Element, current)
		return OutcomeMoved
	}
	c.logger.Debug("region yields no element", slog.String("region", winner.ID()))
	return OutcomeNoCandidate
}

// apply focuses next, remembers it in its region, notifies subscribers and
// nudges the viewport. prev may be nil.
func (c *Controller) apply(next, prev *Element) {
	next.Node.Focus()
	if region, ok := c.registry.Region(next.RegionID); ok {
		region.lastSelected = next.ID
	}
	c.focusedID = next.ID

	bus.Publish(c.bus, ElementFocused, next)
	if prev != nil && prev.RegionID != next.RegionID {
		if left, ok := c.registry.Region(prev.RegionID); ok {
			bus.Publish(c.bus, RegionLeft, left)
		}
	}

	c.scroll.Nudge(next.Node)
}

// current resolves the focus pointer, clearing it when the element is gone.
func (c *Controller) current() (*Element, bool) {
	if c.focusedID == "" {
		return nil, false
	}
	e, ok := c.registry.Element(c.focusedID)
	if !ok {
		c.logger.Debug("focused element vanished", slog.String("element", c.focusedID))
		c.focusedID = ""
		return nil, false
	}
	return e, true
}
