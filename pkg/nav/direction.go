package nav

import (
	"fmt"
	"strings"

	"github.com/odvcencio/arrownav/pkg/geometry"
)

// Direction is one of the four arrow directions.
type Direction int

const (
	Up Direction = iota + 1
	Down
	Left
	Right
)

// Directions lists every direction in declaration order.
var Directions = []Direction{Up, Down, Left, Right}

// Axis is the axis of travel of a direction.
type Axis int

const (
	AxisX Axis = iota
	AxisY
)

// String returns the lowercase direction name.
func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// ParseDirection parses a direction name, case-insensitively.
func ParseDirection(s string) (Direction, error) {
	for _, d := range Directions {
		if strings.EqualFold(strings.TrimSpace(s), d.String()) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown direction %q", s)
}

// Axis returns the axis of travel.
func (d Direction) Axis() Axis {
	if d == Left || d == Right {
		return AxisX
	}
	return AxisY
}

// Sign is +1 when travelling towards increasing coordinates, -1 otherwise.
func (d Direction) Sign() float64 {
	if d == Down || d == Right {
		return 1
	}
	return -1
}

// LeadingEdge returns the coordinate of r's edge facing the direction of travel.
func (d Direction) LeadingEdge(r geometry.Rect) float64 {
	switch d {
	case Up:
		return r.Top
	case Down:
		return r.Bottom
	case Left:
		return r.Left
	default:
		return r.Right
	}
}

// TrailingEdge returns the coordinate of r's edge facing back against the
// direction of travel.
func (d Direction) TrailingEdge(r geometry.Rect) float64 {
	switch d {
	case Up:
		return r.Bottom
	case Down:
		return r.Top
	case Left:
		return r.Right
	default:
		return r.Left
	}
}

// Beyond reports whether candidate lies strictly further along d than the
// leading edge of from.
func (d Direction) Beyond(from, candidate geometry.Rect) bool {
	return d.TrailingEdge(candidate)*d.Sign() > d.LeadingEdge(from)*d.Sign()
}

// Aligned reports whether a and b overlap on the axis perpendicular to d.
func (d Direction) Aligned(a, b geometry.Rect) bool {
	if d.Axis() == AxisX {
		return a.OverlapsY(b)
	}
	return a.OverlapsX(b)
}
