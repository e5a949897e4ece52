package engine

import "fmt"

// Tile represents the terrain or resource kind of a single grid cell
type Tile int

const (
	Empty Tile = iota
	Obstacle
	Mineral
	Energy
	Science
	Base
)

const (
	// Validation constants
	MinMapSize = 5
	MaxMapSize = 500

	// MaxBaseSide caps the side of the centered base square
	MaxBaseSide = 10

	// StuckThreshold is the number of ticks without displacement tolerated
	// before a robot drops its cached path.
	StuckThreshold = 5

	// NoiseScale is applied to cell coordinates before sampling noise
	NoiseScale = 0.1

	// Noise thresholds used by the generator
	ObstacleThreshold = 0.45
	ResourceThreshold = 0.2
)

var tileNames = [...]string{
	Empty:    "empty",
	Obstacle: "obstacle",
	Mineral:  "mineral",
	Energy:   "energy",
	Science:  "science",
	Base:     "base",
}

// String returns the lower-case name of the tile
func (t Tile) String() string {
	if t < 0 || int(t) >= len(tileNames) {
		return fmt.Sprintf("tile(%d)", int(t))
	}
	return tileNames[t]
}

// MarshalText encodes the tile by name so JSON maps keyed by Tile stay readable
func (t Tile) MarshalText() ([]byte, error) {
	if t < 0 || int(t) >= len(tileNames) {
		return nil, fmt.Errorf("unknown tile %d", int(t))
	}
	return []byte(tileNames[t]), nil
}

// UnmarshalText decodes a tile name
func (t *Tile) UnmarshalText(text []byte) error {
	tile, err := ParseTile(string(text))
	if err != nil {
		return err
	}
	*t = tile
	return nil
}

// ParseTile returns the tile with the given name
func ParseTile(name string) (Tile, error) {
	for i, n := range tileNames {
		if n == name {
			return Tile(i), nil
		}
	}
	return Empty, fmt.Errorf("unknown tile %q", name)
}

// Glyph returns the display character for the tile
func (t Tile) Glyph() rune {
	switch t {
	case Obstacle:
		return '#'
	case Mineral:
		return 'M'
	case Energy:
		return 'E'
	case Science:
		return 'S'
	case Base:
		return 'B'
	default:
		return '.'
	}
}

// Color returns the display color name for the tile
func (t Tile) Color() string {
	switch t {
	case Obstacle:
		return "gray"
	case Mineral:
		return "red"
	case Energy:
		return "yellow"
	case Science:
		return "green"
	case Base:
		return "white"
	default:
		return "silver"
	}
}

// IsResource reports whether the tile can be collected by some robot kind
func (t Tile) IsResource() bool {
	switch t {
	case Mineral, Energy, Science:
		return true
	default:
		return false
	}
}

// ResourceTiles lists the collectible tile kinds in display order
var ResourceTiles = []Tile{Mineral, Energy, Science}

// RobotKind is the specialization of a robot
type RobotKind int

const (
	Explorer RobotKind = iota
	Miner
	EnergyCollector
	Scientist
)

var kindNames = [...]string{
	Explorer:        "explorer",
	Miner:           "miner",
	EnergyCollector: "energy_collector",
	Scientist:       "scientist",
}

// AllRobotKinds lists every robot kind in spawn order
var AllRobotKinds = []RobotKind{Explorer, Miner, EnergyCollector, Scientist}

func (k RobotKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

func (k RobotKind) MarshalText() ([]byte, error) {
	if k < 0 || int(k) >= len(kindNames) {
		return nil, fmt.Errorf("unknown robot kind %d", int(k))
	}
	return []byte(kindNames[k]), nil
}

func (k *RobotKind) UnmarshalText(text []byte) error {
	kind, err := ParseRobotKind(string(text))
	if err != nil {
		return err
	}
	*k = kind
	return nil
}

// ParseRobotKind returns the kind with the given name
func ParseRobotKind(name string) (RobotKind, error) {
	for i, n := range kindNames {
		if n == name {
			return RobotKind(i), nil
		}
	}
	return Explorer, fmt.Errorf("unknown robot kind %q", name)
}

// Glyph returns the display character for the kind
func (k RobotKind) Glyph() rune {
	switch k {
	case Miner:
		return '1'
	case EnergyCollector:
		return '2'
	case Scientist:
		return '3'
	default:
		return '4'
	}
}

// Color returns the display color name for the kind
func (k RobotKind) Color() string {
	switch k {
	case Miner:
		return "cyan"
	case EnergyCollector:
		return "yellow"
	case Scientist:
		return "magenta"
	default:
		return "blue"
	}
}

// CollectibleTile returns the tile this kind collects. Explorers collect nothing.
func (k RobotKind) CollectibleTile() (Tile, bool) {
	switch k {
	case Miner:
		return Mineral, true
	case EnergyCollector:
		return Energy, true
	case Scientist:
		return Science, true
	default:
		return Empty, false
	}
}

// RequiredKind returns the robot kind able to collect the tile
func RequiredKind(t Tile) (RobotKind, bool) {
	switch t {
	case Mineral:
		return Miner, true
	case Energy:
		return EnergyCollector, true
	case Science:
		return Scientist, true
	default:
		return Explorer, false
	}
}

// RobotState is the behavior state of a collector
type RobotState int

const (
	Idle RobotState = iota
	GoingToResource
	ReturningToBase
)

var stateNames = [...]string{
	Idle:            "idle",
	GoingToResource: "going_to_resource",
	ReturningToBase: "returning_to_base",
}

func (s RobotState) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return stateNames[s]
}

func (s RobotState) MarshalText() ([]byte, error) {
	if s < 0 || int(s) >= len(stateNames) {
		return nil, fmt.Errorf("unknown robot state %d", int(s))
	}
	return []byte(stateNames[s]), nil
}

func (s *RobotState) UnmarshalText(text []byte) error {
	for i, n := range stateNames {
		if n == string(text) {
			*s = RobotState(i)
			return nil
		}
	}
	return fmt.Errorf("unknown robot state %q", string(text))
}

// Position represents x,y coordinates
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// KindCount requests a number of robots of one kind
type KindCount struct {
	Kind  RobotKind `json:"kind" yaml:"kind"`
	Count int       `json:"count" yaml:"count"`
}

// DiscoveredResource is a resource sighting tracked by the Ledger.
// ClaimedBy holds the id of the robot assigned to collect it.
type DiscoveredResource struct {
	Pos       Position `json:"pos"`
	Kind      Tile     `json:"kind"`
	ClaimedBy *int     `json:"claimed_by,omitempty"`
}

// Claimed reports whether a robot has been assigned to the resource
func (d DiscoveredResource) Claimed() bool {
	return d.ClaimedBy != nil
}

// ExploredTile is one entry of an explorer's memory
type ExploredTile struct {
	Pos  Position `json:"pos"`
	Kind Tile     `json:"kind"`
}

// Stats summarizes a simulation run
type Stats struct {
	Tick         int `json:"tick"`
	Robots       int `json:"robots"`
	Discovered   int `json:"discovered"`
	Collected    int `json:"collected"`
	Pending      int `json:"pending"`
	Claimed      int `json:"claimed"`
	IdleRobots   int `json:"idle_robots"`
	StuckResets  int `json:"stuck_resets"`
	ResourceLeft int `json:"resources_left"`
}
