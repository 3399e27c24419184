// Package demo builds a television style home screen on a surface: a tab
// bar, rows of titles that scroll sideways, and a settings column. Every
// focusable box is registered with the navigation engine.
package demo

import (
	"fmt"

	"github.com/odvcencio/arrownav/pkg/nav"
	"github.com/odvcencio/arrownav/pkg/surface"
)

// Options shapes the demo screen.
type Options struct {
	Rows        int
	TilesPerRow int
	SideItems   int
	RowPolicy   nav.EnteringPolicy
}

// DefaultOptions returns the screen used by the CLI.
func DefaultOptions() Options {
	return Options{Rows: 4, TilesPerRow: 12, SideItems: 3, RowPolicy: nav.PolicyLast}
}

const (
	tabWidth   = 10
	tabGap     = 2
	tileWidth  = 16
	tileHeight = 5
	tileGap    = 2
	rowPitch   = tileHeight + 3
	sideMin    = 14
)

type kind int

const (
	kindContainer kind = iota
	kindTile
	kindHeader
)

type decoration struct {
	kind  kind
	owner *surface.Box // region box a header describes
}

type row struct {
	id     string
	title  string
	header *surface.Box
	box    *surface.Box
	tiles  []*surface.Box
}

// Screen is a built demo screen.
type Screen struct {
	surface   *surface.Surface
	registrar *nav.Registrar
	opts      Options

	bar   *surface.Box
	tabs  []*surface.Box
	rows  []*row
	side  *surface.Box
	items []*surface.Box

	decor    map[*surface.Box]decoration
	elements []string
	regions  []string
}

var tabNames = []string{"Home", "Movies", "Series", "Search", "Live TV"}

var categories = []string{"Trending", "Continue Watching", "Documentaries", "Animation", "World Cinema", "Classics"}

var titles = []string{
	"The Long Road", "Amélie", "千と千尋の神隠し", "Night Shift", "Blue Harbor",
	"Oldboy 올드보이", "Paper Moons", "The Quiet Year", "Ninth Gate", "Coastline",
	"Mirror Lake", "Red Desert", "Ōkami", "Summer Storm", "Glass Houses",
}

var sideNames = []string{"Profile", "Settings", "Downloads", "Help", "Sign out"}

// Build lays out the screen on s and registers its regions and elements.
func Build(s *surface.Surface, registrar *nav.Registrar, opts Options) *Screen {
	sc := &Screen{
		surface:   s,
		registrar: registrar,
		opts:      opts,
		decor:     make(map[*surface.Box]decoration),
	}

	sc.bar = sc.add(nil, "", kindContainer)
	for i := 0; i < len(tabNames); i++ {
		sc.tabs = append(sc.tabs, sc.add(sc.bar, tabNames[i], kindTile))
	}

	for i := 0; i < opts.Rows; i++ {
		r := &row{id: fmt.Sprintf("row-%d", i), title: categories[i%len(categories)]}
		r.box = sc.add(nil, "", kindContainer)
		r.header = s.Add(nil, surface.Rect{}, r.title)
		sc.decor[r.header] = decoration{kind: kindHeader, owner: r.box}
		for j := 0; j < opts.TilesPerRow; j++ {
			r.tiles = append(r.tiles, sc.add(r.box, titles[(i*5+j)%len(titles)], kindTile))
		}
		sc.rows = append(sc.rows, r)
	}

	sc.side = sc.add(nil, "", kindContainer)
	for i := 0; i < opts.SideItems; i++ {
		sc.items = append(sc.items, sc.add(sc.side, sideNames[i%len(sideNames)], kindTile))
	}

	w, _ := s.Size()
	sc.Layout(w)
	sc.register()
	return sc
}

func (sc *Screen) add(parent *surface.Box, label string, k kind) *surface.Box {
	b := sc.surface.Add(parent, surface.Rect{}, label)
	sc.decor[b] = decoration{kind: k}
	return b
}

// Layout positions every box for a viewport width.
func (sc *Screen) Layout(width int) {
	sideW := max(sideMin, width/5)
	mainW := max(tileWidth, width-sideW-1)

	sc.bar.Move(surface.NewRect(0, 0, mainW, 3))
	for i, tab := range sc.tabs {
		tab.Move(surface.NewRect(i*(tabWidth+tabGap), 0, tabWidth, 3))
	}

	y := 4
	for _, r := range sc.rows {
		r.header.Move(surface.NewRect(0, y, mainW, 1))
		r.box.Move(surface.NewRect(0, y+1, mainW, tileHeight))
		for j, tile := range r.tiles {
			tile.Move(surface.NewRect(j*(tileWidth+tileGap), 0, tileWidth, tileHeight))
		}
		r.box.ScrollXTo(r.box.ScrollX())
		y += rowPitch
	}

	sc.side.Move(surface.NewRect(mainW+1, 4, sideW, max(3, len(sc.items)*4-1)))
	for i, item := range sc.items {
		item.Move(surface.NewRect(0, i*4, sideW, 3))
	}
}

func (sc *Screen) register() {
	sc.region("nav", sc.bar, nav.PolicyFromDirection, nil)
	for i, tab := range sc.tabs {
		sc.element(fmt.Sprintf("tab-%d", i), "nav", tab)
	}

	for _, r := range sc.rows {
		box := r.box
		sc.region(r.id, box, sc.opts.RowPolicy, func(e *nav.Element) {
			if tile, ok := e.Node.(*surface.Box); ok {
				box.CenterX(tile)
			}
		})
		for j, tile := range r.tiles {
			sc.element(fmt.Sprintf("%s/tile-%d", r.id, j), r.id, tile)
		}
	}

	sc.region("side", sc.side, nav.PolicyFromDirection, nil)
	for i, item := range sc.items {
		sc.element(fmt.Sprintf("side-%d", i), "side", item)
	}
}

func (sc *Screen) region(id string, box *surface.Box, policy nav.EnteringPolicy, onFocus func(*nav.Element)) {
	sc.registrar.RegisterRegion(&nav.Region{ID: id, Handle: box, Policy: policy, OnElementFocused: onFocus})
	sc.regions = append(sc.regions, id)
}

func (sc *Screen) element(id, region string, box *surface.Box) {
	sc.registrar.RegisterElement(&nav.Element{ID: id, RegionID: region, Node: box})
	sc.elements = append(sc.elements, id)
}

// Surface returns the surface the screen is laid out on.
func (sc *Screen) Surface() *surface.Surface { return sc.surface }

// ElementIDs returns the registered element ids in registration order.
func (sc *Screen) ElementIDs() []string {
	return append([]string(nil), sc.elements...)
}

// RowScroll returns the horizontal scroll offset of row i.
func (sc *Screen) RowScroll(i int) int {
	if i < 0 || i >= len(sc.rows) {
		return 0
	}
	return sc.rows[i].box.ScrollX()
}

// Close unregisters everything and removes the boxes from the surface.
func (sc *Screen) Close() {
	for _, id := range sc.elements {
		sc.registrar.UnregisterElement(id)
	}
	for _, id := range sc.regions {
		sc.registrar.UnregisterRegion(id)
	}
	sc.elements, sc.regions = nil, nil
	for b := range sc.decor {
		if b.Parent() == nil {
			b.Remove()
		}
	}
	clear(sc.decor)
}
