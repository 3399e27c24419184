// Package backend defines the terminal the demo screen is drawn on. The tcell
// implementation drives real terminals; the sim implementation renders into
// memory so whole navigation sessions can be tested.
package backend

import "github.com/odvcencio/arrownav/pkg/terminal"

// Backend is the terminal abstraction layer.
type Backend interface {
	// Init enters raw mode and the alternate screen.
	Init() error

	// Fini restores the terminal.
	Fini()

	// Size returns the current terminal dimensions.
	Size() (width, height int)

	// SetContent sets the cell at (x, y).
	SetContent(x, y int, mainc rune, comb []rune, style Style)

	// Show flushes pending cell changes to the terminal.
	Show()

	// Clear blanks the screen.
	Clear()

	// HideCursor hides the terminal cursor.
	HideCursor()

	// PollEvent blocks until an event is available. It returns nil once the
	// backend is shutting down.
	PollEvent() terminal.Event

	// PostEvent injects an event into the queue.
	PostEvent(ev terminal.Event) error

	// Sync forces a full redraw on the next Show.
	Sync()
}

// RenderTarget is the drawing subset of Backend.
type RenderTarget interface {
	Size() (width, height int)
	SetContent(x, y int, mainc rune, comb []rune, style Style)
}
