package model

// MapInfo is the raw map query result: dimensions plus three parallel 2D
// grids. The server does not guarantee whether the outer dimension is rows
// or columns; use Grid to read cells.
type MapInfo struct {
	Width     int      `json:"MapWidth"`
	Height    int      `json:"MapHeight"`
	Explored  [][]bool `json:"IsExplored"`
	Visible   [][]bool `json:"IsVisible"`
	Resources [][]int  `json:"Resources"`
}

// Grid reads MapInfo cells with out-of-bounds safety. Orientation is
// inferred once at construction: an outer length equal to the map width
// means column-major (grid[x][y]), anything else is read row-major
// (grid[y][x]). The inference is never revisited for the life of the value.
type Grid struct {
	info     *MapInfo
	colMajor bool
}

// NewGrid wraps info. A nil info yields a grid where every cell is
// unexplored, invisible and resourceless.
func NewGrid(info *MapInfo) *Grid {
	g := &Grid{info: info}
	if info != nil && info.Width > 0 && len(info.Explored) == info.Width {
		g.colMajor = true
	}
	return g
}

// Explored reports whether the cell at (x, y) has been explored.
// Out-of-bounds coordinates are unexplored.
func (g *Grid) Explored(x, y int) bool {
	if g.info == nil {
		return false
	}
	v, ok := cell(g, g.info.Explored, x, y)
	return ok && v
}

// Visible reports whether the cell at (x, y) is currently visible.
func (g *Grid) Visible(x, y int) bool {
	if g.info == nil {
		return false
	}
	v, ok := cell(g, g.info.Visible, x, y)
	return ok && v
}

// Resource returns the resource value at (x, y), 0 if empty or out of bounds.
func (g *Grid) Resource(x, y int) int {
	if g.info == nil {
		return 0
	}
	v, _ := cell(g, g.info.Resources, x, y)
	return v
}

// Width returns the map width, 0 when no map info is present.
func (g *Grid) Width() int {
	if g.info == nil {
		return 0
	}
	return g.info.Width
}

// Height returns the map height, 0 when no map info is present.
func (g *Grid) Height() int {
	if g.info == nil {
		return 0
	}
	return g.info.Height
}

// InBounds reports whether (x, y) lies inside the map rectangle.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.Width() && y < g.Height()
}

func cell[T any](g *Grid, grid [][]T, x, y int) (T, bool) {
	var zero T
	if !g.InBounds(x, y) || len(grid) == 0 {
		return zero, false
	}
	outer, inner := y, x
	if g.colMajor {
		outer, inner = x, y
	}
	// Ragged or truncated grids happen when the server streams a partial
	// update; treat missing cells as absent rather than panicking.
	if outer >= len(grid) || inner >= len(grid[outer]) {
		return zero, false
	}
	return grid[outer][inner], true
}
