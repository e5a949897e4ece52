package engine

// Robot is a mobile agent. Collectors carry an inventory and follow the
// Idle -> GoingToResource -> ReturningToBase -> Idle cycle; explorers only
// roam and remember the resources they stumble upon.
type Robot struct {
	ID         int            `json:"id"`
	Kind       RobotKind      `json:"kind"`
	Pos        Position       `json:"pos"`
	Inventory  []Tile         `json:"inventory"`
	Explored   []ExploredTile `json:"explored,omitempty"`
	State      RobotState     `json:"state"`
	Target     *Position      `json:"target,omitempty"`
	Path       []Position     `json:"path,omitempty"`
	StuckTicks int            `json:"stuck_ticks"`
	LastPos    Position       `json:"last_pos"`

	explored map[Position]struct{}
}

// NewRobot creates an idle robot at the given position
func NewRobot(id int, kind RobotKind, pos Position) *Robot {
	return &Robot{
		ID:        id,
		Kind:      kind,
		Pos:       pos,
		Inventory: []Tile{},
		State:     Idle,
		LastPos:   pos,
	}
}

// CanMoveTo reports whether (x,y) is on the grid and not an obstacle.
// It never mutates the robot.
func (r *Robot) CanMoveTo(grid Grid, x, y int) bool {
	return grid.Passable(x, y)
}

// MoveTo relocates the robot. Callers validate with CanMoveTo first.
func (r *Robot) MoveTo(x, y int) {
	r.Pos = Position{X: x, Y: y}
}

// CanCollect reports whether the robot's kind is compatible with the tile
func (r *Robot) CanCollect(t Tile) bool {
	want, ok := r.Kind.CollectibleTile()
	return ok && want == t
}

// Collect appends the tile to the inventory when the kinds match. An
// incompatible tile is ignored and false is returned.
func (r *Robot) Collect(t Tile) bool {
	if !r.CanCollect(t) {
		return false
	}
	r.Inventory = append(r.Inventory, t)
	return true
}

// RecordExploration remembers a tile by coordinate. Recording the same
// coordinate twice keeps the first entry.
func (r *Robot) RecordExploration(x, y int, t Tile) {
	pos := Position{X: x, Y: y}
	if r.explored == nil {
		r.explored = make(map[Position]struct{}, len(r.Explored))
		for _, e := range r.Explored {
			r.explored[e.Pos] = struct{}{}
		}
	}
	if _, seen := r.explored[pos]; seen {
		return
	}
	r.explored[pos] = struct{}{}
	r.Explored = append(r.Explored, ExploredTile{Pos: pos, Kind: t})
}

// SetTarget points an idle robot at a resource. A robot already heading
// home keeps its course.
func (r *Robot) SetTarget(x, y int) {
	if r.State == ReturningToBase {
		return
	}
	r.Target = &Position{X: x, Y: y}
	r.Path = nil
	r.State = GoingToResource
}

// ReleaseTarget drops an assignment that no longer has a ledger claim. Robots
// carrying cargo keep heading home.
func (r *Robot) ReleaseTarget() {
	if r.State != GoingToResource {
		return
	}
	r.State = Idle
	r.Target = nil
	r.Path = nil
}

// SetReturningToBase sends the robot home regardless of its current state
func (r *Robot) SetReturningToBase(x, y int) {
	r.Target = &Position{X: x, Y: y}
	r.Path = nil
	r.State = ReturningToBase
}

// UnloadInventory empties the inventory, returns what it held and puts the
// robot back to Idle.
func (r *Robot) UnloadInventory() []Tile {
	items := r.Inventory
	r.Inventory = []Tile{}
	r.State = Idle
	r.Target = nil
	r.Path = nil
	if items == nil {
		items = []Tile{}
	}
	return items
}

// IsIdle reports whether the robot is waiting for work
func (r *Robot) IsIdle() bool {
	return r.State == Idle
}

// MoveToward advances the robot one step toward target. The cached path is
// rebuilt with BFS when it is empty, when its next step is blocked, or after
// more than StuckThreshold calls without displacement. When BFS finds nothing
// a greedy 8-neighbour step is tried instead. It reports whether the robot
// moved and whether the stuck counter fired.
func (r *Robot) MoveToward(target Position, grid Grid) (moved, unstuck bool) {
	if r.Pos == r.LastPos {
		r.StuckTicks++
	} else {
		r.StuckTicks = 0
	}
	r.LastPos = r.Pos

	if r.StuckTicks > StuckThreshold {
		r.Path = nil
		r.StuckTicks = 0
		unstuck = true
	}

	if r.Pos == target {
		return false, unstuck
	}

	if len(r.Path) == 0 || !r.CanMoveTo(grid, r.Path[0].X, r.Path[0].Y) {
		r.Path = FindPath(grid, r.Pos, target)
	}

	if len(r.Path) == 0 {
		next, ok := GreedyStep(grid, r.Pos, target)
		if !ok {
			return false, unstuck
		}
		r.MoveTo(next.X, next.Y)
		return true, unstuck
	}

	next := r.Path[0]
	r.Path = r.Path[1:]
	r.MoveTo(next.X, next.Y)
	return true, unstuck
}

// Clone returns a deep copy of the robot
func (r *Robot) Clone() Robot {
	c := *r
	c.Inventory = append([]Tile{}, r.Inventory...)
	if r.Explored != nil {
		c.Explored = append([]ExploredTile(nil), r.Explored...)
	}
	if r.Path != nil {
		c.Path = append([]Position(nil), r.Path...)
	}
	if r.Target != nil {
		t := *r.Target
		c.Target = &t
	}
	c.explored = nil
	return c
}
