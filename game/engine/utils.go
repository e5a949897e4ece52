package engine

// ManhattanDistance calculates the Manhattan distance between two positions
func ManhattanDistance(from, to Position) int {
	return abs(from.X-to.X) + abs(from.Y-to.Y)
}

// CountTiles counts every tile kind present in the grid
func CountTiles(grid Grid) map[Tile]int {
	counts := make(map[Tile]int)
	for _, row := range grid {
		for _, cell := range row {
			counts[cell]++
		}
	}
	return counts
}

// ReachableResources counts the resource tiles connected to from by passable
// 4-connected paths
func ReachableResources(grid Grid, from Position) map[Tile]int {
	counts := make(map[Tile]int, len(ResourceTiles))
	for _, t := range ResourceTiles {
		counts[t] = 0
	}
	for pos := range Reachable(grid, from) {
		if t := grid.At(pos.X, pos.Y); t.IsResource() {
			counts[t]++
		}
	}
	return counts
}

// NearestResource finds the closest tile of the given kind by Manhattan
// distance, scanning row-major so ties resolve to the first cell found
func NearestResource(grid Grid, from Position, kind Tile) (Position, int, bool) {
	best := Position{}
	bestDist := -1
	for y, row := range grid {
		for x, cell := range row {
			if cell != kind {
				continue
			}
			pos := Position{X: x, Y: y}
			if d := ManhattanDistance(from, pos); bestDist == -1 || d < bestDist {
				best, bestDist = pos, d
			}
		}
	}
	return best, bestDist, bestDist != -1
}

// abs returns the absolute value of x
func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
