package terminal

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell"

	"github.com/wricardo/robot-colony/game/engine"
)

const (
	// MinInterval and MaxInterval bound the autoplay speed
	MinInterval = 10 * time.Millisecond
	MaxInterval = 2 * time.Second

	sidebarGap   = 2
	sidebarWidth = 26
)

// Source is the simulation driven by the renderer. The renderer only reads
// snapshots and asks for whole ticks.
type Source interface {
	Snapshot() *engine.Snapshot
	Update()
}

// Renderer draws a simulation on a terminal screen and handles its keys
type Renderer struct {
	screen   tcell.Screen
	source   Source
	title    string
	interval time.Duration
	paused   bool
}

// Option configures a Renderer
type Option func(*Renderer)

// WithTitle sets the heading shown above the sidebar
func WithTitle(title string) Option {
	return func(r *Renderer) { r.title = title }
}

// WithInterval sets the initial autoplay interval
func WithInterval(d time.Duration) Option {
	return func(r *Renderer) { r.interval = clampInterval(d) }
}

// WithPaused starts the renderer without autoplay
func WithPaused(paused bool) Option {
	return func(r *Renderer) { r.paused = paused }
}

// New creates a renderer for source on an initialized screen
func New(screen tcell.Screen, source Source, opts ...Option) *Renderer {
	r := &Renderer{
		screen:   screen,
		source:   source,
		title:    "Robot Colony",
		interval: time.Duration(engine.DefaultTickIntervalMs) * time.Millisecond,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Paused reports whether autoplay is stopped
func (r *Renderer) Paused() bool { return r.paused }

// Interval returns the current autoplay interval
func (r *Renderer) Interval() time.Duration { return r.interval }

func clampInterval(d time.Duration) time.Duration {
	if d < MinInterval {
		return MinInterval
	}
	if d > MaxInterval {
		return MaxInterval
	}
	return d
}

// HandleEvent applies one terminal event and reports whether the user asked
// to quit
func (r *Renderer) HandleEvent(ev tcell.Event) (quit bool) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		r.screen.Sync()
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return true
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q', 'Q':
				return true
			case ' ':
				r.source.Update()
			case 'p', 'P':
				r.paused = !r.paused
			case '+', '=':
				r.interval = clampInterval(r.interval / 2)
			case '-', '_':
				r.interval = clampInterval(r.interval * 2)
			}
		}
	}
	return false
}

// Run draws and advances the simulation until ctx ends or the user quits.
// The caller owns the screen's Init and Fini.
func (r *Renderer) Run(ctx context.Context) error {
	events := make(chan tcell.Event)
	done := make(chan struct{})
	defer close(done)

	go func() {
		for {
			ev := r.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	interval := r.interval
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	r.Draw(r.source.Snapshot())
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			if r.HandleEvent(ev) {
				return nil
			}
			if r.interval != interval {
				interval = r.interval
				ticker.Reset(interval)
			}
		case <-ticker.C:
			if r.paused {
				continue
			}
			r.source.Update()
		}
		r.Draw(r.source.Snapshot())
	}
}

// Draw paints the map with robots overlaid and the sidebar
func (r *Renderer) Draw(snap *engine.Snapshot) {
	r.screen.Clear()

	for y, row := range snap.Grid {
		for x, tile := range row {
			style := tcell.StyleDefault.Foreground(tcell.GetColor(tile.Color()))
			r.screen.SetContent(x, y, tile.Glyph(), nil, style)
		}
	}
	for _, robot := range snap.Robots {
		style := tcell.StyleDefault.Foreground(tcell.GetColor(robot.Kind.Color())).Bold(true)
		r.screen.SetContent(robot.Pos.X, robot.Pos.Y, robot.Kind.Glyph(), nil, style)
	}

	r.drawSidebar(snap, snap.Width+sidebarGap)
	r.screen.Show()
}

func (r *Renderer) drawSidebar(snap *engine.Snapshot, x int) {
	bold := tcell.StyleDefault.Bold(true)
	plain := tcell.StyleDefault

	y := 0
	line := func(style tcell.Style, format string, args ...interface{}) {
		r.drawText(x, y, style, fmt.Sprintf(format, args...))
		y++
	}

	line(bold, "%s", r.title)
	line(plain, "Tick %d", snap.Tick)
	if r.paused {
		line(plain, "paused")
	} else {
		line(plain, "running every %s", r.interval)
	}
	y++

	line(bold, "Base resources")
	for _, tile := range engine.ResourceTiles {
		style := plain.Foreground(tcell.GetColor(tile.Color()))
		line(style, " %c %-10s %d", tile.Glyph(), tile, snap.BaseResources[tile])
	}
	y++

	counts := make(map[engine.RobotKind]int)
	for _, robot := range snap.Robots {
		counts[robot.Kind]++
	}
	line(bold, "Robots (%d idle)", snap.Stats.IdleRobots)
	for _, kind := range engine.AllRobotKinds {
		style := plain.Foreground(tcell.GetColor(kind.Color()))
		line(style, " %c %-16s %d", kind.Glyph(), kind, counts[kind])
	}
	y++

	line(bold, "Ledger %d (%d claimed)", len(snap.Ledger), snap.Stats.Claimed)
	line(plain, "Collected %d, left %d", snap.Stats.Collected, snap.Stats.ResourceLeft)
	y++

	line(plain, "space step  p pause")
	line(plain, "+/- speed   q quit")
}

func (r *Renderer) drawText(x, y int, style tcell.Style, text string) {
	i := 0
	for _, ch := range text {
		if i >= sidebarWidth {
			return
		}
		r.screen.SetContent(x+i, y, ch, nil, style)
		i++
	}
}
