package mcp

import (
	"fmt"
	"sort"
	"strings"

	"github.com/wricardo/robot-colony/game/engine"
	"github.com/wricardo/robot-colony/game/service"
)

// maxListedEvents caps the events echoed back by the step tool
const maxListedEvents = 15

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nConfig: %s\nCreated: %s\nAutoplay: %v\n\n%s\n%s",
		session.ID, session.ConfigName,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		session.Autoplay,
		formatStats(session.Stats),
		formatResources(session.BaseResources))
}

func formatStats(stats engine.Stats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Tick: %d\n", stats.Tick)
	fmt.Fprintf(&b, "Robots: %d (%d idle)\n", stats.Robots, stats.IdleRobots)
	fmt.Fprintf(&b, "Discovered: %d  Collected: %d\n", stats.Discovered, stats.Collected)
	fmt.Fprintf(&b, "Ledger: %d pending, %d claimed\n", stats.Pending, stats.Claimed)
	fmt.Fprintf(&b, "Resources left on map: %d\n", stats.ResourceLeft)
	if stats.StuckResets > 0 {
		fmt.Fprintf(&b, "Stuck resets: %d\n", stats.StuckResets)
	}
	return b.String()
}

func formatResources(resources map[engine.Tile]int) string {
	var b strings.Builder
	b.WriteString("Base resources:\n")
	for _, tile := range engine.ResourceTiles {
		fmt.Fprintf(&b, "  %s: %d\n", tile, resources[tile])
	}
	return b.String()
}

func formatSnapshot(snap *engine.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Tick %d - %dx%d map, base at %s\n\n", snap.Tick, snap.Width, snap.Height, snap.Base)

	for _, row := range snap.RowsWithRobots() {
		b.WriteString(row)
		b.WriteByte('\n')
	}
	b.WriteString("\nLegend: . empty  # obstacle  M mineral  E energy  S science  B base\n")
	b.WriteString("        4 explorer  1 miner  2 energy collector  3 scientist\n\n")

	b.WriteString("Robots:\n")
	for _, r := range snap.Robots {
		fmt.Fprintf(&b, "  #%d %s at %s", r.ID, r.Kind, r.Pos)
		if r.Kind != engine.Explorer {
			fmt.Fprintf(&b, " %s", r.State)
			if r.Target != nil {
				fmt.Fprintf(&b, " -> %s", *r.Target)
			}
			if len(r.Inventory) > 0 {
				fmt.Fprintf(&b, " carrying %d", len(r.Inventory))
			}
		}
		b.WriteByte('\n')
	}

	b.WriteByte('\n')
	b.WriteString(formatStats(snap.Stats))
	b.WriteString(formatResources(snap.BaseResources))
	return b.String()
}

func formatStepResult(sessionID string, result *service.StepResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Session %s advanced %d tick(s) to tick %d\n", sessionID, result.TicksRun, result.Tick)
	if result.Truncated {
		fmt.Fprintf(&b, "Requested %d ticks; capped at %d per call\n", result.RequestedTicks, result.Limit)
	}
	if result.StoppedReason != "" {
		fmt.Fprintf(&b, "Stopped early: %s\n", result.StoppedReason)
	}

	counts := make(map[engine.EventType]int)
	for _, e := range result.Events {
		counts[e.Type]++
	}
	if len(counts) > 0 {
		types := make([]string, 0, len(counts))
		for t := range counts {
			types = append(types, string(t))
		}
		sort.Strings(types)

		b.WriteString("\nEvents:\n")
		for _, t := range types {
			fmt.Fprintf(&b, "  %s: %d\n", t, counts[engine.EventType(t)])
		}

		recent := result.Events
		if len(recent) > maxListedEvents {
			recent = recent[len(recent)-maxListedEvents:]
			fmt.Fprintf(&b, "\nLast %d events:\n", maxListedEvents)
		} else {
			b.WriteString("\nAll events:\n")
		}
		for _, e := range recent {
			b.WriteString("  " + formatEvent(e) + "\n")
		}
	}

	b.WriteByte('\n')
	b.WriteString(formatStats(result.Stats))
	return b.String()
}

func formatEvent(e engine.Event) string {
	line := fmt.Sprintf("[%d] robot #%d %s at %s", e.Tick, e.RobotID, e.Type, e.Pos)
	if e.Kind != "" {
		line += " (" + e.Kind + ")"
	}
	if len(e.Items) > 0 {
		items := make([]string, len(e.Items))
		for i, item := range e.Items {
			items[i] = item.String()
		}
		line += " items=" + strings.Join(items, ",")
	}
	return line
}

func formatLedger(tick, claimed int, entries []engine.DiscoveredResource) string {
	if len(entries) == 0 {
		return fmt.Sprintf("Ledger is empty at tick %d\n", tick)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Ledger at tick %d: %d entries, %d claimed\n\n", tick, len(entries), claimed)
	for _, entry := range entries {
		fmt.Fprintf(&b, "  %-8s at %-9s ", entry.Kind, entry.Pos)
		if entry.ClaimedBy != nil {
			fmt.Fprintf(&b, "claimed by robot #%d\n", *entry.ClaimedBy)
		} else {
			b.WriteString("unclaimed\n")
		}
	}
	return b.String()
}

func describeCell(snap *engine.Snapshot, pos engine.Position) string {
	tile := snap.Grid[pos.Y][pos.X]

	var b strings.Builder
	fmt.Fprintf(&b, "Cell at position (%d, %d):\n", pos.X, pos.Y)
	b.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━\n")
	fmt.Fprintf(&b, "Tile: %s (%c)\n", tile, tile.Glyph())
	fmt.Fprintf(&b, "Passable: %v\n", tile != engine.Obstacle)
	if pos == snap.Base {
		b.WriteString("This is the base drop-off point\n")
	}

	robots := snap.RobotsAt(pos)
	if len(robots) == 0 {
		b.WriteString("Robots here: none\n")
	} else {
		b.WriteString("Robots here:\n")
		for _, r := range robots {
			fmt.Fprintf(&b, "  #%d %s (%s)\n", r.ID, r.Kind, r.State)
		}
	}

	for _, entry := range snap.Ledger {
		if entry.Pos != pos {
			continue
		}
		if entry.ClaimedBy != nil {
			fmt.Fprintf(&b, "Ledger: %s claimed by robot #%d\n", entry.Kind, *entry.ClaimedBy)
		} else {
			fmt.Fprintf(&b, "Ledger: %s awaiting a collector\n", entry.Kind)
		}
		return b.String()
	}
	if tile.IsResource() {
		b.WriteString("Ledger: not yet discovered\n")
	}
	return b.String()
}
