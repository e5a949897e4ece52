// Command validate provides a small CLI that validates scenario preset YAML
// files in the ../configs directory (or the directory given as the first
// argument). It checks:
//   - YAML structure against the preset JSON Schema
//   - Engine rules: map bounds, room for a base, population limits
//   - The generated map has base cells and at least one resource
//   - Reachability: how many resources can be reached from the base
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wricardo/robot-colony/game/config"
	"github.com/wricardo/robot-colony/game/engine"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

// validateConfig loads and validates a single preset file
func validateConfig(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to read file: %v", err))
		return result
	}

	cfg, err := config.Parse(data)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	mapResult := validateMap(cfg)
	result.Valid = mapResult.Valid
	result.Errors = append(result.Errors, mapResult.Errors...)

	if result.Valid {
		result.Errors = append(result.Errors,
			fmt.Sprintf("✓ Name: %s", cfg.Name),
			fmt.Sprintf("✓ Map: %dx%d seed %d", cfg.Width, cfg.Height, cfg.Seed),
			fmt.Sprintf("✓ Robots: %d", cfg.TotalRobots()))
	}

	return result
}

// validateMap generates the preset's map and checks that the colony has a
// home and something to collect. Resources walled off from the base are
// reported but do not make a preset invalid.
func validateMap(cfg *engine.SimConfig) ValidationResult {
	result := ValidationResult{
		Valid:  true,
		Errors: []string{},
	}

	grid := engine.Generate(cfg.Width, cfg.Height, cfg.Seed)
	bases, err := engine.FindAllBasePositions(grid)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Generated map is unusable: %v", err))
		return result
	}

	counts := engine.CountTiles(grid)
	total := 0
	for _, t := range engine.ResourceTiles {
		total += counts[t]
	}
	if total == 0 {
		result.Valid = false
		result.Errors = append(result.Errors, "Generated map has no resources")
		return result
	}

	base := engine.NewDepotForMap(cfg.Width, cfg.Height).Pos
	reachable := engine.ReachableResources(grid, base)
	reached := 0
	for _, t := range engine.ResourceTiles {
		reached += reachable[t]
	}

	result.Errors = append(result.Errors, fmt.Sprintf("✓ Base cells: %d", len(bases)))
	if reached < total {
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Reachability: %d/%d resources reachable from base (%d walled off)", reached, total, total-reached))
	} else {
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Reachability: all %d resources reachable from base", total))
	}
	return result
}

// main scans the configs directory for *.yaml files and validates each one,
// printing a concise report and exiting with non-zero status if any are invalid.
func main() {
	configDir := "../configs"
	if len(os.Args) > 1 {
		configDir = os.Args[1]
	}

	files, err := filepath.Glob(filepath.Join(configDir, "*.yaml"))
	if err != nil {
		fmt.Printf("Error finding config files: %v\n", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Printf("No presets found in %s\n", configDir)
		os.Exit(1)
	}

	allValid := true
	for _, file := range files {
		result := validateConfig(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  ❌ " + err)
				}
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All presets are valid!")
	} else {
		fmt.Println("❌ Some presets have errors")
		os.Exit(1)
	}
}
