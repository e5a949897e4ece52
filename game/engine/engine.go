package engine

import (
	"fmt"
	"math/rand"
)

// Engine is the read/step surface of a running simulation
type Engine interface {
	// World state snapshots
	GetMap() Grid
	GetRobots() []Robot
	GetBaseResources() map[Tile]int
	GetLedger() []DiscoveredResource

	// Stepping
	Update()
	Step(ticks int) int
	Tick() int

	// Summaries
	Stats() Stats
	Snapshot() *Snapshot
}

// Snapshot is a read-only copy of the world between two ticks
type Snapshot struct {
	Tick          int                  `json:"tick"`
	Width         int                  `json:"width"`
	Height        int                  `json:"height"`
	Rows          []string             `json:"rows"`
	Grid          Grid                 `json:"grid"`
	Robots        []Robot              `json:"robots"`
	Base          Position             `json:"base"`
	BaseResources map[Tile]int         `json:"base_resources"`
	Ledger        []DiscoveredResource `json:"ledger"`
	Stats         Stats                `json:"stats"`
}

// Simulation owns the grid, robots, ledger and base and advances them one
// tick at a time. It is not safe for concurrent use; callers serialize access.
type Simulation struct {
	config    *SimConfig
	grid      Grid
	robots    []*Robot
	ledger    *Ledger
	base      *Depot
	rng       *rand.Rand
	observer  Observer
	tick      int
	collected int
	unstuck   int
	tickSeed  int64
}

// Option configures a Simulation
type Option func(*Simulation)

// WithObserver routes simulation narration to obs
func WithObserver(obs Observer) Option {
	return func(s *Simulation) {
		if obs != nil {
			s.observer = obs
		}
	}
}

// WithTickSeed seeds the explorer movement source
func WithTickSeed(seed int64) Option {
	return func(s *Simulation) {
		s.tickSeed = seed
	}
}

// NewSimulation generates the map described by config, locates the base and
// spawns the population. A nil config uses DefaultSimConfig.
func NewSimulation(config *SimConfig, opts ...Option) (*Simulation, error) {
	if config == nil {
		config = DefaultSimConfig()
	}
	if err := ValidateSimConfig(config); err != nil {
		return nil, err
	}

	s := &Simulation{config: config, observer: NopObserver{}, tickSeed: config.TickSeed}
	for _, opt := range opts {
		opt(s)
	}

	s.grid = Generate(config.Width, config.Height, config.Seed)
	positions, err := FindAllBasePositions(s.grid)
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", config.Name, err)
	}

	s.base = NewDepot(positions[0])
	s.ledger = NewLedger()
	s.rng = rand.New(rand.NewSource(s.tickSeed))
	s.robots = SpawnRobotsInBase(positions, config.Population, s.observer)
	return s, nil
}

// NewSimulationFromGrid runs on a prepared grid with prepared robots. The grid
// is used as is and must contain at least one Base tile; robot ids are
// reassigned to their slice index.
func NewSimulationFromGrid(grid Grid, robots []*Robot, opts ...Option) (*Simulation, error) {
	positions, err := FindAllBasePositions(grid)
	if err != nil {
		return nil, err
	}

	s := &Simulation{observer: NopObserver{}}
	for _, opt := range opts {
		opt(s)
	}

	s.grid = grid
	s.base = NewDepot(positions[0])
	s.ledger = NewLedger()
	s.rng = rand.New(rand.NewSource(s.tickSeed))
	for i, r := range robots {
		r.ID = i
		if r.Inventory == nil {
			r.Inventory = []Tile{}
		}
	}
	s.robots = robots
	return s, nil
}

// Config returns the scenario the simulation was built from, nil for
// simulations created from a prepared grid
func (s *Simulation) Config() *SimConfig {
	return s.config
}

// GetMap returns a copy of the grid
func (s *Simulation) GetMap() Grid {
	return s.grid.Clone()
}

// GetRobots returns copies of every robot in id order
func (s *Simulation) GetRobots() []Robot {
	out := make([]Robot, len(s.robots))
	for i, r := range s.robots {
		out[i] = r.Clone()
	}
	return out
}

// GetBaseResources returns the base counters
func (s *Simulation) GetBaseResources() map[Tile]int {
	return s.base.Resources()
}

// GetLedger returns the ledger entries in discovery order
func (s *Simulation) GetLedger() []DiscoveredResource {
	return s.ledger.Entries()
}

// Ledger exposes the discovery ledger for seeding scenarios
func (s *Simulation) Ledger() *Ledger {
	return s.ledger
}

// Base returns the base position
func (s *Simulation) Base() Position {
	return s.base.Pos
}

// Tick returns the number of completed ticks
func (s *Simulation) Tick() int {
	return s.tick
}

// Step advances up to ticks ticks and returns how many ran
func (s *Simulation) Step(ticks int) int {
	n := 0
	for ; n < ticks; n++ {
		s.Update()
	}
	return n
}

// Update advances the world by one tick. Phases run in a fixed order and
// each one sees the settled result of the previous one.
func (s *Simulation) Update() {
	s.tick++
	s.observer.TickStarted(s.tick)

	s.moveExplorers()
	s.assignResources()
	collected := s.advanceCollectors()
	s.cleanupCollected(collected)
}

// moveExplorers takes one random cardinal step per explorer and records new
// resource sightings in the ledger
func (s *Simulation) moveExplorers() {
	for _, r := range s.robots {
		if r.Kind != Explorer {
			continue
		}
		d := cardinalDirections[s.rng.Intn(len(cardinalDirections))]
		nx, ny := r.Pos.X+d.X, r.Pos.Y+d.Y
		if !r.CanMoveTo(s.grid, nx, ny) {
			continue
		}
		r.MoveTo(nx, ny)

		tile := s.grid.At(nx, ny)
		if !tile.IsResource() {
			continue
		}
		pos := Position{X: nx, Y: ny}
		if s.ledger.Add(pos, tile) {
			r.RecordExploration(nx, ny, tile)
			s.observer.ResourceDiscovered(r.ID, DiscoveredResource{Pos: pos, Kind: tile})
		}
	}
}

// assignResources gives each unclaimed entry, in discovery order, to the
// idle robot of the matching kind with the lowest id
func (s *Simulation) assignResources() {
	available := make(map[RobotKind][]*Robot)
	for _, r := range s.robots {
		if r.Kind == Explorer || !r.IsIdle() || s.ledger.IsClaimant(r.ID) {
			continue
		}
		available[r.Kind] = append(available[r.Kind], r)
	}

	for _, res := range s.ledger.Unclaimed() {
		kind, ok := RequiredKind(res.Kind)
		if !ok {
			continue
		}
		pool := available[kind]
		if len(pool) == 0 {
			continue
		}
		r := pool[0]
		if !s.ledger.Claim(res.Pos, r.ID) {
			continue
		}
		available[kind] = pool[1:]
		r.SetTarget(res.Pos.X, res.Pos.Y)

		id := r.ID
		res.ClaimedBy = &id
		s.observer.ResourceAssigned(r.ID, res)
	}
}

// advanceCollectors runs the collector state machine and returns the
// coordinates collected this tick. A robot heading to a resource it no longer
// holds a claim on goes back to Idle.
func (s *Simulation) advanceCollectors() []Position {
	var collected []Position
	home := s.base.Pos

	for _, r := range s.robots {
		if r.Kind == Explorer {
			continue
		}

		switch r.State {
		case Idle:
			// waiting for an assignment

		case GoingToResource:
			claim, ok := s.ledger.ClaimFor(r.ID)
			if !ok {
				// Claim dropped outside the dispatcher: wait for a new assignment
				r.ReleaseTarget()
				continue
			}
			if r.Pos != claim.Pos {
				s.move(r, claim.Pos)
				continue
			}
			tile := s.grid.At(claim.Pos.X, claim.Pos.Y)
			if !r.Collect(tile) {
				continue
			}
			s.grid.Set(claim.Pos.X, claim.Pos.Y, Empty)
			s.ledger.RemoveAt(claim.Pos)
			collected = append(collected, claim.Pos)
			s.collected++
			s.observer.ResourceCollected(r.ID, claim.Pos, tile)
			r.SetReturningToBase(home.X, home.Y)

		case ReturningToBase:
			if r.Pos != home {
				s.move(r, home)
				continue
			}
			items := r.UnloadInventory()
			s.base.Deposit(items)
			s.observer.InventoryUnloaded(r.ID, items)
		}
	}
	return collected
}

func (s *Simulation) move(r *Robot, target Position) {
	if _, unstuck := r.MoveToward(target, s.grid); unstuck {
		s.unstuck++
		s.observer.RobotStuck(r.ID, r.Pos)
	}
}

// cleanupCollected drops any ledger entry left on a coordinate collected
// this tick
func (s *Simulation) cleanupCollected(collected []Position) {
	for _, pos := range collected {
		s.ledger.RemoveAt(pos)
	}
}

// Stats summarizes the current run
func (s *Simulation) Stats() Stats {
	idle := 0
	for _, r := range s.robots {
		if r.Kind != Explorer && r.IsIdle() {
			idle++
		}
	}
	left := 0
	for _, t := range ResourceTiles {
		left += s.grid.Count(t)
	}
	return Stats{
		Tick:         s.tick,
		Robots:       len(s.robots),
		Discovered:   s.ledger.Len() + s.collected,
		Collected:    s.collected,
		Pending:      s.ledger.Len(),
		Claimed:      s.ledger.ClaimedCount(),
		IdleRobots:   idle,
		StuckResets:  s.unstuck,
		ResourceLeft: left,
	}
}

// Snapshot copies the whole world
func (s *Simulation) Snapshot() *Snapshot {
	return &Snapshot{
		Tick:          s.tick,
		Width:         s.grid.Width(),
		Height:        s.grid.Height(),
		Rows:          s.grid.Rows(),
		Grid:          s.grid.Clone(),
		Robots:        s.GetRobots(),
		Base:          s.base.Pos,
		BaseResources: s.base.Resources(),
		Ledger:        s.ledger.Entries(),
		Stats:         s.Stats(),
	}
}

// RowsWithRobots returns the glyph rows with every robot's kind glyph drawn
// over its tile. When robots share a cell the highest id wins.
func (s *Snapshot) RowsWithRobots() []string {
	cells := make([][]rune, len(s.Rows))
	for y, row := range s.Rows {
		cells[y] = []rune(row)
	}
	for _, r := range s.Robots {
		if r.Pos.Y < 0 || r.Pos.Y >= len(cells) || r.Pos.X < 0 || r.Pos.X >= len(cells[r.Pos.Y]) {
			continue
		}
		cells[r.Pos.Y][r.Pos.X] = r.Kind.Glyph()
	}
	rows := make([]string, len(cells))
	for y, row := range cells {
		rows[y] = string(row)
	}
	return rows
}

// RobotsAt returns the robots standing on pos
func (s *Snapshot) RobotsAt(pos Position) []Robot {
	var out []Robot
	for _, r := range s.Robots {
		if r.Pos == pos {
			out = append(out, r)
		}
	}
	return out
}
