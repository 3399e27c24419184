package surface

// HitGrid maps document cells to the topmost box painted there.
type HitGrid struct {
	width  int
	height int
	cells  []int
	boxes  []*Box
}

// NewHitGrid creates a hit grid with the given dimensions.
func NewHitGrid(width, height int) *HitGrid {
	grid := &HitGrid{}
	grid.Resize(width, height)
	return grid
}

// Resize updates the grid dimensions and clears it.
func (g *HitGrid) Resize(width, height int) {
	if width == g.width && height == g.height {
		g.Clear()
		return
	}
	g.width = width
	g.height = height
	size := width * height
	if size <= 0 {
		g.cells = nil
		g.boxes = nil
		return
	}
	g.cells = make([]int, size)
	g.Clear()
}

// Clear resets the grid contents.
func (g *HitGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = -1
	}
	g.boxes = g.boxes[:0]
}

// Add records box as occupying bounds, over anything added before it.
func (g *HitGrid) Add(box *Box, bounds Rect) {
	if box == nil || g.width <= 0 || g.height <= 0 {
		return
	}
	bounds = bounds.Intersection(Rect{Width: g.width, Height: g.height})
	if bounds.Empty() {
		return
	}

	id := len(g.boxes)
	g.boxes = append(g.boxes, box)

	for y := bounds.Y; y < bounds.Y+bounds.Height; y++ {
		row := y * g.width
		for x := bounds.X; x < bounds.X+bounds.Width; x++ {
			g.cells[row+x] = id
		}
	}
}

// BoxAt returns the box at the given cell, or nil.
func (g *HitGrid) BoxAt(x, y int) *Box {
	if x < 0 || y < 0 || x >= g.width || y >= g.height {
		return nil
	}
	idx := g.cells[y*g.width+x]
	if idx < 0 || idx >= len(g.boxes) {
		return nil
	}
	return g.boxes[idx]
}
