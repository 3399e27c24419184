// Package terminal provides the input event types consumed by the navigation
// engine and its backends, and styled line output for the command line.
package terminal

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Event represents a terminal input event.
type Event interface {
	eventMarker()
}

// KeyEvent represents a key press.
type KeyEvent struct {
	Key   Key
	Rune  rune
	Alt   bool
	Ctrl  bool
	Shift bool
}

func (KeyEvent) eventMarker() {}

// ResizeEvent indicates terminal size changed.
type ResizeEvent struct {
	Width  int
	Height int
}

func (ResizeEvent) eventMarker() {}

// InterruptEvent wakes up a blocked PollEvent, e.g. on shutdown.
type InterruptEvent struct {
	Data any
}

func (InterruptEvent) eventMarker() {}

// Key represents special keys.
type Key int

const (
	KeyNone Key = iota
	KeyRune     // Regular character
	KeyEnter
	KeyBackspace
	KeyTab
	KeyEscape
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyCtrlC
)

var keyNames = map[Key]string{
	KeyNone:      "None",
	KeyRune:      "Rune",
	KeyEnter:     "Enter",
	KeyBackspace: "Backspace",
	KeyTab:       "Tab",
	KeyEscape:    "Escape",
	KeyUp:        "ArrowUp",
	KeyDown:      "ArrowDown",
	KeyLeft:      "ArrowLeft",
	KeyRight:     "ArrowRight",
	KeyHome:      "Home",
	KeyEnd:       "End",
	KeyPageUp:    "PageUp",
	KeyPageDown:  "PageDown",
	KeyCtrlC:     "Ctrl+C",
}

// String returns the key name used in configuration files.
func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Key(%d)", int(k))
}

// Binding identifies a key press independent of modifiers: a special key or,
// for KeyRune, a specific character.
type Binding struct {
	Key  Key
	Rune rune
}

// BindingOf returns the binding matched by ev.
func BindingOf(ev KeyEvent) Binding {
	if ev.Key == KeyRune {
		return Binding{Key: KeyRune, Rune: ev.Rune}
	}
	return Binding{Key: ev.Key}
}

// String renders the binding the way ParseBinding accepts it.
func (b Binding) String() string {
	if b.Key == KeyRune {
		return string(b.Rune)
	}
	return b.Key.String()
}

// ParseBinding parses a key name ("ArrowUp", "Enter") or a single character
// ("k"). Names are case-insensitive; "Up" is accepted for "ArrowUp".
func ParseBinding(s string) (Binding, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Binding{}, fmt.Errorf("empty key name")
	}
	if utf8.RuneCountInString(s) == 1 {
		r, _ := utf8.DecodeRuneInString(s)
		return Binding{Key: KeyRune, Rune: r}, nil
	}
	for k, name := range keyNames {
		if k == KeyNone || k == KeyRune {
			continue
		}
		if strings.EqualFold(name, s) || strings.EqualFold(strings.TrimPrefix(name, "Arrow"), s) {
			return Binding{Key: k}, nil
		}
	}
	return Binding{}, fmt.Errorf("unknown key %q", s)
}
