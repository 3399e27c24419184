package nav

import (
	"fmt"

	"github.com/odvcencio/arrownav/pkg/terminal"
)

// KeyMap binds keys to directions.
type KeyMap map[terminal.Binding]Direction

// DefaultKeyMap binds the four arrow keys.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		{Key: terminal.KeyUp}:    Up,
		{Key: terminal.KeyDown}:  Down,
		{Key: terminal.KeyLeft}:  Left,
		{Key: terminal.KeyRight}: Right,
	}
}

// Lookup returns the direction bound to ev.
func (km KeyMap) Lookup(ev terminal.KeyEvent) (Direction, bool) {
	d, ok := km[terminal.BindingOf(ev)]
	return d, ok
}

// ParseKeyMap builds a key map from direction names to key names, as found in
// configuration files. A key bound to two directions is an error.
func ParseKeyMap(spec map[string][]string) (KeyMap, error) {
	km := make(KeyMap)
	for name, keys := range spec {
		dir, err := ParseDirection(name)
		if err != nil {
			return nil, err
		}
		for _, key := range keys {
			b, err := terminal.ParseBinding(key)
			if err != nil {
				return nil, fmt.Errorf("direction %s: %w", dir, err)
			}
			if prev, ok := km[b]; ok && prev != dir {
				return nil, fmt.Errorf("key %s bound to both %s and %s", b, prev, dir)
			}
			km[b] = dir
		}
	}
	return km, nil
}
