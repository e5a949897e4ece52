// Command mapstats prints quick, human-readable statistics about the scenario
// presets in a configs directory. For each preset it generates the map and
// reports dimensions, base cells, tile counts, and how many resources are
// reachable from the base.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/wricardo/robot-colony/game/config"
	"github.com/wricardo/robot-colony/game/engine"
)

// MapStats summarizes the generated map of one preset
type MapStats struct {
	ConfigID  string
	Name      string
	Width     int
	Height    int
	Seed      int64
	Robots    int
	BaseCells int
	Base      engine.Position
	Tiles     map[engine.Tile]int
	Reachable map[engine.Tile]int
	// Nearest holds the Manhattan distance from the base to the closest tile
	// of each resource kind present on the map
	Nearest map[engine.Tile]int
}

// Unreachable returns how many resources of kind t cannot be reached from the base
func (s *MapStats) Unreachable(t engine.Tile) int {
	return s.Tiles[t] - s.Reachable[t]
}

func main() {
	dir := flag.String("dir", "configs", "Directory containing scenario presets")
	flag.Parse()

	if err := run(os.Stdout, *dir); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(w io.Writer, dir string) error {
	manager, err := config.NewManager(dir)
	if err != nil {
		return err
	}
	presets, err := manager.ListConfigs()
	if err != nil {
		return err
	}
	if len(presets) == 0 {
		return fmt.Errorf("no presets found in %s", dir)
	}

	for _, info := range presets {
		fmt.Fprintf(w, "\n=== Analyzing %s ===\n", info.Filename)
		cfg, err := manager.LoadConfig(info.ConfigID)
		if err != nil {
			fmt.Fprintf(w, "Error loading preset: %v\n", err)
			continue
		}
		stats, err := analyze(info.ConfigID, cfg)
		if err != nil {
			fmt.Fprintf(w, "Error analyzing preset: %v\n", err)
			continue
		}
		report(w, stats)
	}
	return nil
}

// analyze generates the preset's map and measures it
func analyze(id string, cfg *engine.SimConfig) (*MapStats, error) {
	grid := engine.Generate(cfg.Width, cfg.Height, cfg.Seed)
	bases, err := engine.FindAllBasePositions(grid)
	if err != nil {
		return nil, err
	}
	base := engine.NewDepotForMap(cfg.Width, cfg.Height).Pos

	nearest := make(map[engine.Tile]int)
	for _, t := range engine.ResourceTiles {
		if _, dist, ok := engine.NearestResource(grid, base, t); ok {
			nearest[t] = dist
		}
	}

	return &MapStats{
		ConfigID:  id,
		Name:      cfg.Name,
		Width:     cfg.Width,
		Height:    cfg.Height,
		Seed:      cfg.Seed,
		Robots:    cfg.TotalRobots(),
		BaseCells: len(bases),
		Base:      base,
		Tiles:     engine.CountTiles(grid),
		Reachable: engine.ReachableResources(grid, base),
		Nearest:   nearest,
	}, nil
}

func report(w io.Writer, s *MapStats) {
	cells := s.Width * s.Height

	fmt.Fprintf(w, "Name: %s\n", s.Name)
	fmt.Fprintf(w, "Map: %d x %d (seed %d)\n", s.Width, s.Height, s.Seed)
	fmt.Fprintf(w, "Robots: %d\n", s.Robots)
	fmt.Fprintf(w, "Base: %d cells, drop-off at %s\n", s.BaseCells, s.Base)
	fmt.Fprintf(w, "Obstacles: %d (%.1f%%)\n", s.Tiles[engine.Obstacle], percent(s.Tiles[engine.Obstacle], cells))

	total, lost := 0, 0
	for _, t := range engine.ResourceTiles {
		fmt.Fprintf(w, "%-8s %4d on map, %4d reachable", t.String()+":", s.Tiles[t], s.Reachable[t])
		if d, ok := s.Nearest[t]; ok {
			fmt.Fprintf(w, ", nearest %d from base", d)
		}
		fmt.Fprintln(w)
		total += s.Tiles[t]
		lost += s.Unreachable(t)
	}

	switch {
	case total == 0:
		fmt.Fprintf(w, "⚠️  WARNING: the map has no resources to collect\n")
	case lost > 0:
		fmt.Fprintf(w, "⚠️  WARNING: %d of %d resources are walled off from the base\n", lost, total)
	default:
		fmt.Fprintf(w, "✅ All %d resources are reachable from the base\n", total)
	}
}

func percent(n, of int) float64 {
	if of == 0 {
		return 0
	}
	return float64(n) * 100 / float64(of)
}
