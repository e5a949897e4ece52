package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gdamore/tcell"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/robot-colony/game/engine"
	"github.com/wricardo/robot-colony/game/eventlog"
	"github.com/wricardo/robot-colony/render/terminal"
)

// runHeadless advances one preset for --ticks ticks and prints a summary
func runHeadless(ctx context.Context, cmd *cli.Command) error {
	logger := setupLogging(os.Stderr, cmd.Bool("debug"))

	cfg, err := loadPreset(cmd.String("config-dir"), cmd.String("config"))
	if err != nil {
		return err
	}

	observers := engine.MultiObserver{engine.NewLogObserver(logger.With("preset", cfg.Name))}
	if path := cmd.String("event-log"); path != "" {
		events, err := eventlog.Create(path)
		if err != nil {
			return err
		}
		defer func() {
			if err := events.Close(); err != nil {
				log.Printf("Failed to close event log: %v", err)
			}
		}()
		observers = append(observers, events.Observer("run"))
	}

	sim, err := engine.NewSimulation(cfg, engine.WithObserver(observers))
	if err != nil {
		return err
	}
	return runSimulation(ctx, os.Stdout, sim, int(cmd.Int("ticks")), cmd.Bool("map"))
}

// runSimulation steps sim until ticks have run or ctx ends, then writes the
// summary to w
func runSimulation(ctx context.Context, w io.Writer, sim *engine.Simulation, ticks int, showMap bool) error {
	if ticks < 1 {
		return fmt.Errorf("ticks must be at least 1, got %d", ticks)
	}

	start := time.Now()
	for i := 0; i < ticks; i++ {
		if ctx.Err() != nil {
			break
		}
		sim.Update()
	}
	elapsed := time.Since(start)

	snap := sim.Snapshot()
	cfg := sim.Config()
	fmt.Fprintf(w, "Preset: %s (%dx%d, seed %d)\n", cfg.Name, snap.Width, snap.Height, cfg.Seed)
	fmt.Fprintf(w, "Ran %d ticks in %s\n", snap.Tick, elapsed.Round(time.Millisecond))
	writeSummary(w, snap)

	if showMap {
		fmt.Fprintln(w)
		fmt.Fprintln(w, strings.Join(snap.RowsWithRobots(), "\n"))
	}
	return nil
}

func writeSummary(w io.Writer, snap *engine.Snapshot) {
	s := snap.Stats
	fmt.Fprintf(w, "Robots: %d (%d idle, %d stuck resets)\n", s.Robots, s.IdleRobots, s.StuckResets)
	fmt.Fprintf(w, "Discovered: %d  Collected: %d\n", s.Discovered, s.Collected)
	fmt.Fprintf(w, "Ledger: %d pending, %d claimed\n", s.Pending, s.Claimed)
	fmt.Fprintf(w, "Resources left on map: %d\n", s.ResourceLeft)

	fmt.Fprintf(w, "Base resources at %s:\n", snap.Base)
	for _, tile := range engine.ResourceTiles {
		fmt.Fprintf(w, "  %s: %d\n", tile, snap.BaseResources[tile])
	}
}

// runTUI shows one preset in the terminal until the user quits
func runTUI(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadPreset(cmd.String("config-dir"), cmd.String("config"))
	if err != nil {
		return err
	}

	// The screen owns the terminal; narration would corrupt it
	log.SetOutput(io.Discard)
	setupLogging(io.Discard, false)

	sim, err := engine.NewSimulation(cfg)
	if err != nil {
		return err
	}

	interval := cmd.Duration("interval")
	if interval <= 0 {
		interval = time.Duration(cfg.TickIntervalMs) * time.Millisecond
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to open terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}
	defer screen.Fini()

	r := terminal.New(screen, sim,
		terminal.WithTitle(cfg.Name),
		terminal.WithInterval(interval),
		terminal.WithPaused(cmd.Bool("paused")),
	)
	return r.Run(ctx)
}
