package demo

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/odvcencio/arrownav/pkg/backend"
	"github.com/odvcencio/arrownav/pkg/nav"
	"github.com/odvcencio/arrownav/pkg/surface"
	"github.com/odvcencio/arrownav/pkg/terminal"
)

// AppOptions tunes the event loop.
type AppOptions struct {
	// MovesPerSecond caps navigation presses, dropping key repeats beyond
	// it. Zero means unlimited.
	MovesPerSecond float64
	// FrameInterval is the smooth scroll tick. Defaults to 16ms.
	FrameInterval time.Duration
	Theme         Theme
	Logger        *slog.Logger
}

// App runs the demo screen on a backend.
type App struct {
	backend backend.Backend
	screen  *Screen
	ctrl    *nav.Controller
	limiter *rate.Limiter
	theme   Theme
	logger  *slog.Logger
	frame   time.Duration

	animating atomic.Bool
	edge      bool
	selected  string
	dropped   int
}

type (
	stopEvent   struct{}
	tickEvent   struct{}
	keyMapEvent struct{ keys nav.KeyMap }
)

// NewApp creates an app. The caller owns backend initialization.
func NewApp(b backend.Backend, sc *Screen, ctrl *nav.Controller, opts AppOptions) *App {
	limit := rate.Inf
	burst := 1
	if opts.MovesPerSecond > 0 {
		limit = rate.Limit(opts.MovesPerSecond)
		burst = max(1, int(math.Ceil(opts.MovesPerSecond/4)))
	}
	if opts.FrameInterval <= 0 {
		opts.FrameInterval = 16 * time.Millisecond
	}
	if opts.Theme == (Theme{}) {
		opts.Theme = DefaultTheme()
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	return &App{
		backend: b,
		screen:  sc,
		ctrl:    ctrl,
		limiter: rate.NewLimiter(limit, burst),
		theme:   opts.Theme,
		logger:  opts.Logger,
		frame:   opts.FrameInterval,
	}
}

// SetKeyMap hands a new key map to the event loop. It is safe to call from
// any goroutine.
func (a *App) SetKeyMap(km nav.KeyMap) error {
	return a.backend.PostEvent(terminal.InterruptEvent{Data: keyMapEvent{keys: km}})
}

// Run processes events until the user quits or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.animate(gctx)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		// Wake the loop if it is still blocked.
		_ = a.backend.PostEvent(terminal.InterruptEvent{Data: stopEvent{}})
		return nil
	})

	err := a.loop(gctx)
	cancel()
	if werr := g.Wait(); err == nil {
		err = werr
	}
	return err
}

func (a *App) animate(ctx context.Context) {
	ticker := time.NewTicker(a.frame)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if a.animating.Load() {
				_ = a.backend.PostEvent(terminal.InterruptEvent{Data: tickEvent{}})
			}
		}
	}
}

func (a *App) loop(ctx context.Context) error {
	a.draw()
	for {
		ev := a.backend.PollEvent()
		if ev == nil {
			return nil
		}
		switch e := ev.(type) {
		case terminal.KeyEvent:
			if a.handleKey(ctx, e) {
				return nil
			}
		case terminal.ResizeEvent:
			a.resize(e.Width, e.Height)
		case terminal.InterruptEvent:
			switch d := e.Data.(type) {
			case stopEvent:
				if ctx.Err() != nil {
					return nil
				}
			case tickEvent:
				a.screen.surface.Tick()
			case keyMapEvent:
				a.ctrl.SetKeyMap(d.keys)
				a.logger.Info("key map reloaded", slog.Int("bindings", len(d.keys)))
			}
		}
		a.animating.Store(a.screen.surface.Scrolling())
		a.draw()
	}
}

func isQuit(e terminal.KeyEvent) bool {
	return e.Key == terminal.KeyEscape || (e.Key == terminal.KeyRune && e.Rune == 'q')
}

// handleKey reports whether the key quits. Key map bindings win over Esc
// and q, never over Ctrl+C. Only bound keys are throttled.
func (a *App) handleKey(ctx context.Context, e terminal.KeyEvent) (quit bool) {
	if e.Key == terminal.KeyCtrlC {
		return true
	}
	if _, bound := a.ctrl.Lookup(e); !bound {
		if isQuit(e) {
			return true
		}
		if e.Key == terminal.KeyEnter {
			if focused, ok := a.ctrl.Focused(); ok {
				a.selected = label(focused)
				a.logger.Info("selected", slog.String("element", focused.ID))
			}
		}
		return false
	}
	if !a.limiter.Allow() {
		a.dropped++
		a.logger.Debug("key dropped", slog.String("key", e.Key.String()))
		return false
	}
	before, _ := a.ctrl.Focused()
	a.ctrl.HandleKey(ctx, e)
	after, _ := a.ctrl.Focused()
	a.edge = after == before
	return false
}

func (a *App) resize(width, height int) {
	a.screen.surface.Resize(width, max(0, height-1))
	a.screen.Layout(width)
	a.backend.Sync()
}

func (a *App) draw() {
	Render(a.backend, a.screen, a.theme, a.status())
	a.backend.Show()
}

func (a *App) status() string {
	focused, ok := a.ctrl.Focused()
	if !ok {
		return "arrows move  enter selects  q quits"
	}
	s := fmt.Sprintf("%s  [%s]", label(focused), focused.ID)
	if a.edge {
		s += "  (edge)"
	}
	if a.selected != "" {
		s += "  selected: " + a.selected
	}
	return s
}

// Dropped returns how many presses the rate limit discarded.
func (a *App) Dropped() int { return a.dropped }

func label(e *nav.Element) string {
	if b, ok := e.Node.(*surface.Box); ok {
		return b.Label()
	}
	return e.ID
}
