package engine

import (
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// NoiseSource is a deterministic 2-D coherent noise field returning values
// roughly in [-1, 1]
type NoiseSource interface {
	Eval2(x, y float64) float64
}

// Generate builds a map of the given size. Identical inputs always produce an
// identical grid.
func Generate(width, height int, seed int64) Grid {
	return GenerateWithNoise(width, height, seed, opensimplex.New(seed))
}

// GenerateWithNoise builds a map sampling the provided noise field. The
// resource draw uses its own generator seeded with seed.
func GenerateWithNoise(width, height int, seed int64, noise NoiseSource) Grid {
	rng := rand.New(rand.NewSource(seed))
	grid := NewGrid(width, height)

	bx, by, side := BaseRegion(width, height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if x >= bx && x < bx+side && y >= by && y < by+side {
				grid[y][x] = Base
				continue
			}

			v := noise.Eval2(float64(x)*NoiseScale, float64(y)*NoiseScale)
			switch {
			case v > ObstacleThreshold:
				grid[y][x] = Obstacle
			case v > ResourceThreshold:
				grid[y][x] = resourceDraw(rng.Intn(100))
			default:
				grid[y][x] = Empty
			}
		}
	}

	return grid
}

// resourceDraw maps a uniform outcome in [0,100) to a tile
func resourceDraw(outcome int) Tile {
	switch {
	case outcome <= 4:
		return Energy
	case outcome <= 9:
		return Mineral
	case outcome <= 12:
		return Science
	default:
		return Empty
	}
}

// BaseRegion returns the top-left corner and side of the centered base square.
// The side is zero for maps smaller than 5 cells in either dimension.
func BaseRegion(width, height int) (x0, y0, side int) {
	side = min(MaxBaseSide, min(width, height)/5)
	x0 = (width - side) / 2
	y0 = (height - side) / 2
	return x0, y0, side
}
