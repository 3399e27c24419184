package demo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odvcencio/arrownav/pkg/backend"
	"github.com/odvcencio/arrownav/pkg/backend/sim"
	"github.com/odvcencio/arrownav/pkg/bus"
	"github.com/odvcencio/arrownav/pkg/nav"
	"github.com/odvcencio/arrownav/pkg/surface"
	"github.com/odvcencio/arrownav/pkg/terminal"
)

type fixture struct {
	sim      *sim.Backend
	surface  *surface.Surface
	screen   *Screen
	registry *nav.Registry
	ctrl     *nav.Controller
}

func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()
	b := sim.New(80, 24)
	require.NoError(t, b.Init())
	t.Cleanup(b.Fini)

	events := bus.New()
	t.Cleanup(events.Close)
	registry := nav.NewRegistry()
	subs := registry.Attach(events)
	t.Cleanup(subs.Close)
	registrar := nav.NewRegistrar(events)
	t.Cleanup(registrar.Close)

	s := surface.New(80, 23)
	return &fixture{
		sim:      b,
		surface:  s,
		screen:   Build(s, registrar, opts),
		registry: registry,
		ctrl:     nav.NewController(registry, events, nav.WithHitTester(s), nav.WithAutoScroll(s, 0.25, 0.75)),
	}
}

func (f *fixture) focusedID(t *testing.T) string {
	t.Helper()
	e, ok := f.ctrl.Focused()
	require.True(t, ok, "nothing focused")
	return e.ID
}

func (f *fixture) run(t *testing.T, opts AppOptions, inject func()) *App {
	t.Helper()
	app := NewApp(f.sim, f.screen, f.ctrl, opts)
	inject()
	done := make(chan error, 1)
	go func() { done <- app.Run(context.Background()) }()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("app did not quit")
	}
	return app
}

func TestBuild_Registers(t *testing.T) {
	f := newFixture(t, DefaultOptions())
	elements, regions := f.registry.Len()
	assert.Equal(t, 5+4*12+3, elements)
	assert.Equal(t, 6, regions)

	ids := f.screen.ElementIDs()
	assert.Equal(t, "tab-0", ids[0])
	assert.Contains(t, ids, "row-3/tile-11")
	assert.Contains(t, ids, "side-2")

	f.screen.Close()
	elements, regions = f.registry.Len()
	assert.Zero(t, elements)
	assert.Zero(t, regions)
	assert.Empty(t, f.surface.Roots())
}

func TestScreen_Navigation(t *testing.T) {
	f := newFixture(t, DefaultOptions())
	ctx := context.Background()
	require.True(t, f.ctrl.Focus("tab-0"))

	assert.Equal(t, nav.OutcomeEntered, f.ctrl.Move(ctx, nav.Down))
	assert.Equal(t, "row-0/tile-0", f.focusedID(t))

	f.ctrl.Move(ctx, nav.Right)
	f.ctrl.Move(ctx, nav.Right)
	assert.Equal(t, "row-0/tile-2", f.focusedID(t))
	assert.Equal(t, 13, f.screen.RowScroll(0), "the row centers the focused tile")

	assert.Equal(t, nav.OutcomeEntered, f.ctrl.Move(ctx, nav.Up))
	assert.Equal(t, "tab-2", f.focusedID(t), "entering the tab bar picks the nearest tab")

	assert.Equal(t, nav.OutcomeEntered, f.ctrl.Move(ctx, nav.Down))
	assert.Equal(t, "row-0/tile-2", f.focusedID(t), "rows remember their last tile")
}

func TestScreen_ScrollsToLowerRows(t *testing.T) {
	f := newFixture(t, DefaultOptions())
	ctx := context.Background()
	require.True(t, f.ctrl.Focus("row-0/tile-0"))

	for i := 1; i < 4; i++ {
		require.Equal(t, nav.OutcomeEntered, f.ctrl.Move(ctx, nav.Down))
	}
	assert.Equal(t, "row-3/tile-0", f.focusedID(t))
	assert.Positive(t, f.surface.ScrollY(), "the last row is scrolled into the comfort band")

	e, _ := f.ctrl.Focused()
	rect, ok := e.Bounds()
	require.True(t, ok)
	assert.GreaterOrEqual(t, rect.Top, 0.0)
	assert.LessOrEqual(t, rect.Bottom, 23.0)
}

func TestRender(t *testing.T) {
	f := newFixture(t, DefaultOptions())
	require.True(t, f.ctrl.Focus("tab-1"))

	Render(f.sim, f.screen, DefaultTheme(), "status here")
	f.sim.Show()

	for _, text := range []string{"Home", "Movies", "Trending", "The Long Road", "Amélie", "Profile"} {
		assert.True(t, f.sim.ContainsText(text), text)
	}
	x, y := f.sim.FindText("status here")
	assert.Equal(t, 23, y)
	assert.Equal(t, 1, x)

	x, y = f.sim.FindText("Movies")
	_, _, attrs := f.sim.CaptureStyle(x, y).Decompose()
	assert.NotZero(t, attrs&backend.AttrReverse, "the focused tab is highlighted")
	x, y = f.sim.FindText("Home")
	_, _, attrs = f.sim.CaptureStyle(x, y).Decompose()
	assert.Zero(t, attrs&backend.AttrReverse)

	assert.Contains(t, f.sim.Capture(), "┌────────┐")
}

func TestRender_TruncatesLabels(t *testing.T) {
	f := newFixture(t, Options{Rows: 1, TilesPerRow: 1, RowPolicy: nav.PolicyLast})
	sc := f.screen
	sc.rows[0].tiles[0].SetLabel("An Extremely Long Feature Title")

	Render(f.sim, sc, DefaultTheme(), "")
	f.sim.Show()
	assert.True(t, f.sim.ContainsText("An Extremely …"))
}

func TestApp_Run(t *testing.T) {
	f := newFixture(t, DefaultOptions())
	require.True(t, f.ctrl.Focus("tab-0"))

	f.run(t, AppOptions{}, func() {
		require.NoError(t, f.sim.InjectKey(terminal.KeyDown))
		require.NoError(t, f.sim.InjectKey(terminal.KeyRight))
		require.NoError(t, f.sim.InjectKey(terminal.KeyEnter))
		require.NoError(t, f.sim.InjectRune('q'))
	})

	assert.Equal(t, "row-0/tile-1", f.focusedID(t))
	assert.True(t, f.sim.ContainsText("selected: Amélie"))
}

func TestApp_RateLimit(t *testing.T) {
	f := newFixture(t, DefaultOptions())
	require.True(t, f.ctrl.Focus("row-0/tile-0"))

	app := f.run(t, AppOptions{MovesPerSecond: 1}, func() {
		for i := 0; i < 3; i++ {
			require.NoError(t, f.sim.InjectKey(terminal.KeyRight))
		}
		require.NoError(t, f.sim.InjectKey(terminal.KeyEscape))
	})

	assert.Equal(t, 2, app.Dropped())
	assert.Equal(t, "row-0/tile-1", f.focusedID(t))
}

func TestApp_RateLimitSkipsUnboundKeys(t *testing.T) {
	f := newFixture(t, DefaultOptions())
	require.True(t, f.ctrl.Focus("row-0/tile-0"))

	app := f.run(t, AppOptions{MovesPerSecond: 1}, func() {
		require.NoError(t, f.sim.InjectRune('x'))
		require.NoError(t, f.sim.InjectKey(terminal.KeyTab))
		require.NoError(t, f.sim.InjectKey(terminal.KeyEnter))
		require.NoError(t, f.sim.InjectKey(terminal.KeyRight))
		require.NoError(t, f.sim.InjectKey(terminal.KeyRight))
		require.NoError(t, f.sim.InjectKey(terminal.KeyEscape))
	})

	assert.Equal(t, 1, app.Dropped(), "only the second arrow is throttled")
	assert.Equal(t, "row-0/tile-1", f.focusedID(t))
}

func TestApp_BoundQuitKeysNavigate(t *testing.T) {
	f := newFixture(t, DefaultOptions())
	require.True(t, f.ctrl.Focus("row-0/tile-0"))
	km, err := nav.ParseKeyMap(map[string][]string{"right": {"q", "Escape"}, "left": {"Ctrl+C"}})
	require.NoError(t, err)
	f.ctrl.SetKeyMap(km)

	f.run(t, AppOptions{}, func() {
		require.NoError(t, f.sim.InjectRune('q'))
		require.NoError(t, f.sim.InjectKey(terminal.KeyEscape))
		require.NoError(t, f.sim.InjectKey(terminal.KeyCtrlC))
	})

	assert.Equal(t, "row-0/tile-2", f.focusedID(t), "Ctrl+C quits even when bound")
}

func TestApp_SetKeyMap(t *testing.T) {
	f := newFixture(t, DefaultOptions())
	require.True(t, f.ctrl.Focus("row-0/tile-0"))
	km, err := nav.ParseKeyMap(map[string][]string{"right": {"l"}})
	require.NoError(t, err)

	app := NewApp(f.sim, f.screen, f.ctrl, AppOptions{})
	require.NoError(t, app.SetKeyMap(km))
	require.NoError(t, f.sim.InjectRune('l'))
	require.NoError(t, f.sim.InjectKey(terminal.KeyCtrlC))
	require.NoError(t, app.Run(context.Background()))

	assert.Equal(t, "row-0/tile-1", f.focusedID(t))
}

func TestApp_Resize(t *testing.T) {
	f := newFixture(t, DefaultOptions())
	f.run(t, AppOptions{}, func() {
		require.NoError(t, f.sim.InjectResize(60, 20))
		require.NoError(t, f.sim.InjectRune('q'))
	})

	w, h := f.surface.Size()
	assert.Equal(t, 60, w)
	assert.Equal(t, 19, h)
	assert.True(t, f.sim.ContainsText("Home"))
}

func TestApp_ContextCancel(t *testing.T) {
	f := newFixture(t, DefaultOptions())
	app := NewApp(f.sim, f.screen, f.ctrl, AppOptions{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
