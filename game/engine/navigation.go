package engine

// Four-connected moves used by BFS and by explorers
var cardinalDirections = [4]Position{
	{X: 0, Y: 1},
	{X: 1, Y: 0},
	{X: 0, Y: -1},
	{X: -1, Y: 0},
}

// Eight-connected moves used by the greedy fallback
var compassDirections = [8]Position{
	{X: -1, Y: -1}, {X: 0, Y: -1}, {X: 1, Y: -1},
	{X: -1, Y: 0}, {X: 1, Y: 0},
	{X: -1, Y: 1}, {X: 0, Y: 1}, {X: 1, Y: 1},
}

// FindPath returns the shortest 4-connected path from start to goal using
// breadth-first search. The path excludes start and includes goal. It is nil
// when the goal is unreachable or equal to start.
func FindPath(grid Grid, start, goal Position) []Position {
	if start == goal || !grid.Passable(goal.X, goal.Y) {
		return nil
	}

	queue := []Position{start}
	visited := map[Position]bool{start: true}
	parent := make(map[Position]Position)

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if current == goal {
			break
		}

		for _, d := range cardinalDirections {
			next := Position{X: current.X + d.X, Y: current.Y + d.Y}
			if visited[next] || !grid.Passable(next.X, next.Y) {
				continue
			}
			visited[next] = true
			parent[next] = current
			queue = append(queue, next)
		}
	}

	if !visited[goal] {
		return nil
	}

	var path []Position
	for at := goal; at != start; at = parent[at] {
		path = append(path, at)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// GreedyStep picks the passable 8-connected neighbour closest to target by
// squared Euclidean distance. Ties keep the first neighbour in scan order.
// It returns false when every neighbour is blocked.
func GreedyStep(grid Grid, from, target Position) (Position, bool) {
	best := from
	bestDist := -1
	for _, d := range compassDirections {
		next := Position{X: from.X + d.X, Y: from.Y + d.Y}
		if !grid.Passable(next.X, next.Y) {
			continue
		}
		dx, dy := next.X-target.X, next.Y-target.Y
		dist := dx*dx + dy*dy
		if bestDist == -1 || dist < bestDist {
			best, bestDist = next, dist
		}
	}
	return best, bestDist != -1
}

// Reachable flood-fills the passable cells connected to start
func Reachable(grid Grid, start Position) map[Position]bool {
	seen := make(map[Position]bool)
	if !grid.Passable(start.X, start.Y) {
		return seen
	}
	seen[start] = true
	queue := []Position{start}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, d := range cardinalDirections {
			next := Position{X: current.X + d.X, Y: current.Y + d.Y}
			if seen[next] || !grid.Passable(next.X, next.Y) {
				continue
			}
			seen[next] = true
			queue = append(queue, next)
		}
	}
	return seen
}
