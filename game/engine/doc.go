// Package engine provides the core simulation for the robot colony.
//
// The engine package implements:
//   - Deterministic map generation from (width, height, seed)
//   - Base discovery and round-robin robot spawning
//   - Robot agents with BFS navigation, a greedy fallback and stuck recovery
//   - The discovery ledger with exclusive claims
//   - The four-phase tick dispatcher
//
// Core Types:
//
// Simulation owns a Grid, the Robot agents, a Ledger of discovered resources
// and the Base. Each call to Update runs one tick: explorers step and report
// sightings, idle collectors are assigned to unclaimed sightings, collectors
// walk, collect and unload, and collected entries are purged from the ledger.
// Observers receive narration of what happened without touching state.
//
// Usage:
//
//	sim, err := engine.NewSimulation(engine.DefaultSimConfig(),
//		engine.WithObserver(engine.NewLogObserver(nil)))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sim.Step(100)
//	fmt.Println(sim.GetBaseResources())
//
// Determinism:
//
// Maps depend only on their size and seed. Explorer movement draws from a
// source seeded with SimConfig.TickSeed, so two simulations built from the
// same config evolve identically.
package engine
