package demo

import (
	"github.com/mattn/go-runewidth"

	"github.com/odvcencio/arrownav/pkg/backend"
	"github.com/odvcencio/arrownav/pkg/surface"
)

// Theme holds the styles used to draw the screen.
type Theme struct {
	Base    backend.Style
	Tile    backend.Style
	Focused backend.Style
	Header  backend.Style
	Active  backend.Style // header of the row holding focus
	Status  backend.Style
}

// DefaultTheme returns the default colors.
func DefaultTheme() Theme {
	base := backend.DefaultStyle()
	return Theme{
		Base:    base,
		Tile:    base.Foreground(backend.ColorGray),
		Focused: base.Foreground(backend.ColorYellow).Bold(true).Reverse(true),
		Header:  base.Foreground(backend.ColorWhite).Dim(true),
		Active:  base.Foreground(backend.ColorCyan).Bold(true),
		Status:  base.Foreground(backend.ColorBlack).Background(backend.ColorWhite),
	}
}

// Render draws the screen with a status line at the bottom row.
func Render(t backend.RenderTarget, sc *Screen, theme Theme, status string) {
	w, h := t.Size()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			t.SetContent(x, y, ' ', nil, theme.Base)
		}
	}

	s := sc.surface
	s.Walk(func(b *surface.Box, visible surface.Rect) {
		full := b.Document().Translate(0, -s.ScrollY())
		switch d := sc.decor[b]; d.kind {
		case kindTile:
			style := theme.Tile
			if b.Focused() {
				style = theme.Focused
			}
			drawTile(t, full, visible, b.Label(), style)
		case kindHeader:
			style := theme.Header
			if d.owner != nil && d.owner.ContainsFocus() {
				style = theme.Active
			}
			drawText(t, full.X, full.Y, full.Width, visible, b.Label(), style)
		}
	})

	if h > 0 {
		line := runewidth.FillRight(runewidth.Truncate(" "+status, w, "…"), w)
		drawText(t, 0, h-1, w, surface.NewRect(0, h-1, w, 1), line, theme.Status)
	}
}

func drawTile(t backend.RenderTarget, full, visible surface.Rect, label string, style backend.Style) {
	right, bottom := full.X+full.Width-1, full.Y+full.Height-1
	for y := visible.Y; y < visible.Y+visible.Height; y++ {
		for x := visible.X; x < visible.X+visible.Width; x++ {
			t.SetContent(x, y, borderRune(x, y, full.X, full.Y, right, bottom), nil, style)
		}
	}

	inner := full.Width - 2
	if inner <= 0 || full.Height < 3 {
		return
	}
	text := runewidth.Truncate(label, inner, "…")
	x := full.X + 1 + (inner-runewidth.StringWidth(text))/2
	drawText(t, x, full.Y+full.Height/2, inner, visible.Intersection(full.Inset(1)), text, style)
}

func borderRune(x, y, left, top, right, bottom int) rune {
	switch {
	case x == left && y == top:
		return '┌'
	case x == right && y == top:
		return '┐'
	case x == left && y == bottom:
		return '└'
	case x == right && y == bottom:
		return '┘'
	case y == top || y == bottom:
		return '─'
	case x == left || x == right:
		return '│'
	default:
		return ' '
	}
}

// drawText writes s from (x, y), at most width cells, skipping cells
// outside clip. Wide runes take two cells.
func drawText(t backend.RenderTarget, x, y, width int, clip surface.Rect, s string, style backend.Style) {
	end := x + width
	for _, r := range s {
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			continue
		}
		if x+rw > end {
			return
		}
		if clip.Contains(x, y) && clip.Contains(x+rw-1, y) {
			t.SetContent(x, y, r, nil, style)
		}
		x += rw
	}
}
