package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odvcencio/arrownav/pkg/geometry"
	"github.com/odvcencio/arrownav/pkg/terminal"
)

func TestDirection_Edges(t *testing.T) {
	r := geometry.Rect{Left: 1, Top: 2, Right: 3, Bottom: 4}
	tests := []struct {
		dir               Direction
		axis              Axis
		sign              float64
		leading, trailing float64
	}{
		{Up, AxisY, -1, 2, 4},
		{Down, AxisY, 1, 4, 2},
		{Left, AxisX, -1, 1, 3},
		{Right, AxisX, 1, 3, 1},
	}
	for _, tt := range tests {
		t.Run(tt.dir.String(), func(t *testing.T) {
			assert.Equal(t, tt.axis, tt.dir.Axis())
			assert.Equal(t, tt.sign, tt.dir.Sign())
			assert.Equal(t, tt.leading, tt.dir.LeadingEdge(r))
			assert.Equal(t, tt.trailing, tt.dir.TrailingEdge(r))
		})
	}
}

func TestDirection_Beyond(t *testing.T) {
	from := geometry.NewRect(100, 100, 100, 100)
	assert.True(t, Up.Beyond(from, geometry.NewRect(100, 0, 10, 99)))
	assert.False(t, Up.Beyond(from, geometry.NewRect(100, 0, 10, 100)))
	assert.True(t, Down.Beyond(from, geometry.NewRect(100, 201, 10, 10)))
	assert.False(t, Down.Beyond(from, geometry.NewRect(100, 200, 10, 10)))
	assert.True(t, Left.Beyond(from, geometry.NewRect(0, 100, 99, 10)))
	assert.True(t, Right.Beyond(from, geometry.NewRect(250, 100, 10, 10)))
	assert.False(t, Right.Beyond(from, geometry.NewRect(150, 100, 100, 10)))
}

func TestDirection_Aligned(t *testing.T) {
	a := geometry.NewRect(0, 0, 100, 100)
	beside := geometry.NewRect(500, 50, 10, 10)
	above := geometry.NewRect(50, -500, 10, 10)

	assert.True(t, Right.Aligned(a, beside))
	assert.False(t, Up.Aligned(a, beside))
	assert.True(t, Up.Aligned(a, above))
	assert.False(t, Left.Aligned(a, above))
}

func TestParseDirection(t *testing.T) {
	for _, d := range Directions {
		got, err := ParseDirection(d.String())
		require.NoError(t, err)
		assert.Equal(t, d, got)
	}
	got, err := ParseDirection(" LEFT ")
	require.NoError(t, err)
	assert.Equal(t, Left, got)

	_, err = ParseDirection("forward")
	assert.Error(t, err)
	assert.Equal(t, "direction(9)", Direction(9).String())
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicyFromDirection, p)

	p, err = ParsePolicy("bottomright")
	require.NoError(t, err)
	assert.Equal(t, PolicyBottomRight, p)

	_, err = ParsePolicy("sideways")
	assert.Error(t, err)
	assert.Equal(t, "EnteringPolicy(42)", EnteringPolicy(42).String())
}

func TestEnteringPolicy_Text(t *testing.T) {
	text, err := PolicyTopLeft.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "TopLeft", string(text))

	var p EnteringPolicy
	require.NoError(t, p.UnmarshalText([]byte("last")))
	assert.Equal(t, PolicyLast, p)
	assert.Error(t, p.UnmarshalText([]byte("nope")))
	assert.Equal(t, PolicyLast, p, "a failed parse leaves the value alone")
}

func TestParseKeyMap(t *testing.T) {
	km, err := ParseKeyMap(map[string][]string{
		"up":   {"ArrowUp", "k"},
		"down": {"down", "j"},
	})
	require.NoError(t, err)

	dir, ok := km.Lookup(terminal.KeyEvent{Key: terminal.KeyRune, Rune: 'k'})
	require.True(t, ok)
	assert.Equal(t, Up, dir)
	dir, ok = km.Lookup(terminal.KeyEvent{Key: terminal.KeyDown})
	require.True(t, ok)
	assert.Equal(t, Down, dir)
	_, ok = km.Lookup(terminal.KeyEvent{Key: terminal.KeyLeft})
	assert.False(t, ok)

	_, err = ParseKeyMap(map[string][]string{"up": {"k"}, "down": {"k"}})
	assert.ErrorContains(t, err, "bound to both")
	_, err = ParseKeyMap(map[string][]string{"diagonal": {"k"}})
	assert.Error(t, err)
	_, err = ParseKeyMap(map[string][]string{"up": {"Hyper"}})
	assert.Error(t, err)
}

func TestDefaultKeyMap(t *testing.T) {
	km := DefaultKeyMap()
	assert.Len(t, km, 4)
	for key, want := range map[terminal.Key]Direction{
		terminal.KeyUp:    Up,
		terminal.KeyDown:  Down,
		terminal.KeyLeft:  Left,
		terminal.KeyRight: Right,
	} {
		got, ok := km.Lookup(terminal.KeyEvent{Key: key})
		require.True(t, ok)
		assert.Equal(t, want, got)
	}
}
