package engine

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig wraps every validation failure of a SimConfig
var ErrInvalidConfig = errors.New("invalid simulation config")

const (
	// MaxRobots bounds the total population of one simulation
	MaxRobots = 10000

	// DefaultTickIntervalMs is the autoplay cadence when a preset leaves it unset
	DefaultTickIntervalMs = 200
)

// SimConfig describes one simulation scenario
type SimConfig struct {
	Name           string      `json:"name" yaml:"name"`
	Description    string      `json:"description" yaml:"description"`
	Width          int         `json:"width" yaml:"width"`
	Height         int         `json:"height" yaml:"height"`
	Seed           int64       `json:"seed" yaml:"seed"`
	TickSeed       int64       `json:"tick_seed" yaml:"tick_seed"`
	Population     []KindCount `json:"population" yaml:"population"`
	TickIntervalMs int         `json:"tick_interval_ms,omitempty" yaml:"tick_interval_ms,omitempty"`
}

// DefaultSimConfig returns the built-in "classic" scenario: a 40x20 map with
// 20 explorers, 10 miners, 10 energy collectors and 5 scientists
func DefaultSimConfig() *SimConfig {
	return &SimConfig{
		Name:        "classic",
		Description: "40x20 colony with 45 robots",
		Width:       40,
		Height:      20,
		Seed:        1337,
		TickSeed:    1,
		Population: []KindCount{
			{Kind: Explorer, Count: 20},
			{Kind: Miner, Count: 10},
			{Kind: EnergyCollector, Count: 10},
			{Kind: Scientist, Count: 5},
		},
		TickIntervalMs: DefaultTickIntervalMs,
	}
}

// TotalRobots returns the number of robots the population spawns
func (c *SimConfig) TotalRobots() int {
	total := 0
	for _, kc := range c.Population {
		total += kc.Count
	}
	return total
}

// ValidateSimConfig checks a scenario for values the simulation cannot run with
func ValidateSimConfig(config *SimConfig) error {
	if config == nil {
		return fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}
	if config.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidConfig)
	}

	if config.Width < MinMapSize || config.Width > MaxMapSize {
		return fmt.Errorf("%w: width must be between %d and %d, got %d", ErrInvalidConfig, MinMapSize, MaxMapSize, config.Width)
	}
	if config.Height < MinMapSize || config.Height > MaxMapSize {
		return fmt.Errorf("%w: height must be between %d and %d, got %d", ErrInvalidConfig, MinMapSize, MaxMapSize, config.Height)
	}
	if _, _, side := BaseRegion(config.Width, config.Height); side == 0 {
		return fmt.Errorf("%w: %dx%d map leaves no room for a base", ErrInvalidConfig, config.Width, config.Height)
	}

	if len(config.Population) == 0 {
		return fmt.Errorf("%w: population must list at least one robot kind", ErrInvalidConfig)
	}
	seen := make(map[RobotKind]bool)
	for i, kc := range config.Population {
		if kc.Kind < Explorer || kc.Kind > Scientist {
			return fmt.Errorf("%w: population[%d] has unknown kind %d", ErrInvalidConfig, i, int(kc.Kind))
		}
		if seen[kc.Kind] {
			return fmt.Errorf("%w: population lists %s twice", ErrInvalidConfig, kc.Kind)
		}
		seen[kc.Kind] = true
		if kc.Count < 0 {
			return fmt.Errorf("%w: population[%d] count must not be negative, got %d", ErrInvalidConfig, i, kc.Count)
		}
	}
	if total := config.TotalRobots(); total == 0 || total > MaxRobots {
		return fmt.Errorf("%w: total robots must be between 1 and %d, got %d", ErrInvalidConfig, MaxRobots, total)
	}

	if config.TickIntervalMs < 0 {
		return fmt.Errorf("%w: tick_interval_ms must not be negative", ErrInvalidConfig)
	}

	return nil
}

// ParseSimConfig decodes and validates a YAML scenario
func ParseSimConfig(data []byte) (*SimConfig, error) {
	var config SimConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if config.TickIntervalMs == 0 {
		config.TickIntervalMs = DefaultTickIntervalMs
	}
	if err := ValidateSimConfig(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

// LoadSimConfig loads a scenario from a YAML file. A "configs/" prefix is
// redirected to CONFIG_DIR when that variable is set.
func LoadSimConfig(filename string) (*SimConfig, error) {
	configPath := filename
	if configDir := os.Getenv("CONFIG_DIR"); configDir != "" && strings.HasPrefix(filename, "configs/") {
		configPath = filepath.Join(configDir, strings.TrimPrefix(filename, "configs/"))
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	config, err := ParseSimConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", configPath, err)
	}
	return config, nil
}
