// Package config provides scenario preset management for the robot colony.
//
// The config package handles:
//   - Loading scenario presets from YAML files
//   - Schema and rule validation of every preset
//   - Default preset selection
//   - Preset discovery and listing
//
// Preset Format:
//
// Presets are YAML files in the configs directory. Each one defines the map
// size, the generator seed, the seed for explorer movement, the autoplay
// cadence and the robot population as a list of kind/count pairs. Files are
// checked against an embedded JSON Schema before the engine validates bounds
// and population.
//
// Bundled Presets:
//   - classic: 40x20 colony with 45 robots
//   - outpost: small 20x15 map with a 3x3 base
//   - frontier: 100x80 map with a full 10x10 base
//   - scouts: explorers only
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	preset, err := manager.LoadConfig("outpost")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sim, err := engine.NewSimulation(preset)
package config
