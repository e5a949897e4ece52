package engine

import "errors"

// ErrNoBase is returned when a map contains no Base tile. A simulation has no
// home without one, so callers treat it as fatal.
var ErrNoBase = errors.New("no base found on the map")

// Grid is the authoritative world map, indexed grid[y][x]
type Grid [][]Tile

// NewGrid creates a grid filled with Empty tiles
func NewGrid(width, height int) Grid {
	grid := make(Grid, height)
	for y := range grid {
		grid[y] = make([]Tile, width)
	}
	return grid
}

// Width returns the number of columns
func (g Grid) Width() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

// Height returns the number of rows
func (g Grid) Height() int {
	return len(g)
}

// InBounds reports whether (x,y) lies on the grid
func (g Grid) InBounds(x, y int) bool {
	return y >= 0 && y < len(g) && x >= 0 && x < len(g[y])
}

// At returns the tile at (x,y). Out of bounds reads return Obstacle.
func (g Grid) At(x, y int) Tile {
	if !g.InBounds(x, y) {
		return Obstacle
	}
	return g[y][x]
}

// Set overwrites the tile at (x,y); out of bounds writes are ignored
func (g Grid) Set(x, y int, t Tile) {
	if g.InBounds(x, y) {
		g[y][x] = t
	}
}

// Passable reports whether a robot may stand on (x,y)
func (g Grid) Passable(x, y int) bool {
	if !g.InBounds(x, y) {
		return false
	}
	switch g[y][x] {
	case Empty, Mineral, Energy, Science, Base:
		return true
	default:
		return false
	}
}

// Clone returns a deep copy of the grid
func (g Grid) Clone() Grid {
	out := make(Grid, len(g))
	for y, row := range g {
		out[y] = append([]Tile(nil), row...)
	}
	return out
}

// Count returns the number of cells holding the given tile
func (g Grid) Count(t Tile) int {
	count := 0
	for _, row := range g {
		for _, cell := range row {
			if cell == t {
				count++
			}
		}
	}
	return count
}

// Rows renders each row as a string of tile glyphs
func (g Grid) Rows() []string {
	rows := make([]string, len(g))
	for y, row := range g {
		runes := make([]rune, len(row))
		for x, cell := range row {
			runes[x] = cell.Glyph()
		}
		rows[y] = string(runes)
	}
	return rows
}

// FindAllBasePositions scans the grid row-major and returns every Base cell
func FindAllBasePositions(grid Grid) ([]Position, error) {
	var positions []Position
	for y, row := range grid {
		for x, cell := range row {
			if cell == Base {
				positions = append(positions, Position{X: x, Y: y})
			}
		}
	}
	if len(positions) == 0 {
		return nil, ErrNoBase
	}
	return positions, nil
}
