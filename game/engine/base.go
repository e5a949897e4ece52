package engine

// Depot is the colony home standing on the Base tiles. Its counters only grow.
type Depot struct {
	Pos       Position
	resources map[Tile]int
}

// NewDepot creates a depot with zeroed counters for every resource kind
func NewDepot(pos Position) *Depot {
	resources := make(map[Tile]int, len(ResourceTiles))
	for _, t := range ResourceTiles {
		resources[t] = 0
	}
	return &Depot{Pos: pos, resources: resources}
}

// NewDepotForMap places a depot at the top-left corner of the centered base
// region of a width x height map
func NewDepotForMap(width, height int) *Depot {
	x, y, _ := BaseRegion(width, height)
	return NewDepot(Position{X: x, Y: y})
}

// Deposit adds every resource item to the counters; non-resources are ignored
func (b *Depot) Deposit(items []Tile) {
	for _, item := range items {
		if item.IsResource() {
			b.resources[item]++
		}
	}
}

// Count returns the stored amount of one resource
func (b *Depot) Count(t Tile) int {
	return b.resources[t]
}

// Resources returns a snapshot of the counters
func (b *Depot) Resources() map[Tile]int {
	out := make(map[Tile]int, len(b.resources))
	for t, n := range b.resources {
		out[t] = n
	}
	return out
}

// Total returns the sum of all counters
func (b *Depot) Total() int {
	total := 0
	for _, n := range b.resources {
		total += n
	}
	return total
}
