package main

import (
	"context"
	"log"
	"time"

	"github.com/wricardo/robot-colony/game/engine"
	"github.com/wricardo/robot-colony/game/service"
	"github.com/wricardo/robot-colony/transport/websocket"
)

// autoplayResolution is how often the autoplay loop looks for due sessions
const autoplayResolution = 25 * time.Millisecond

// broadcaster is the part of the WebSocket hub autoplay needs
type broadcaster interface {
	BroadcastToSession(sessionID string, snap *engine.Snapshot)
	BroadcastEvent(sessionID string, event string, data interface{})
}

// autoplayer advances every autoplay session by one tick each time its
// preset interval elapses
type autoplayer struct {
	service   service.GameService
	hub       broadcaster
	next      map[string]time.Time
	intervals map[string]time.Duration
}

func newAutoplayer(gameService service.GameService, hub broadcaster) *autoplayer {
	return &autoplayer{
		service:   gameService,
		hub:       hub,
		next:      make(map[string]time.Time),
		intervals: make(map[string]time.Duration),
	}
}

func (a *autoplayer) run(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			a.tick(ctx, now)
		}
	}
}

// tick steps the sessions due at now and returns how many were stepped
func (a *autoplayer) tick(ctx context.Context, now time.Time) int {
	active := make(map[string]bool)
	stepped := 0

	for _, id := range a.service.AutoplaySessions(ctx) {
		active[id] = true
		if due, ok := a.next[id]; ok && now.Before(due) {
			continue
		}

		result, err := a.service.Step(ctx, id, 1)
		if err != nil {
			// Deleted between listing and stepping
			log.Printf("[AUTOPLAY] session=%s: %v", id, err)
			delete(a.next, id)
			continue
		}
		stepped++
		a.next[id] = now.Add(a.interval(ctx, id))

		if a.hub != nil {
			a.hub.BroadcastToSession(id, result.Snapshot)
			if len(result.Events) > 0 {
				a.hub.BroadcastEvent(id, websocket.EventTickEvents, result.Events)
			}
		}
	}

	for id := range a.next {
		if !active[id] {
			delete(a.next, id)
			delete(a.intervals, id)
		}
	}
	return stepped
}

// interval is the autoplay period of the session's preset
func (a *autoplayer) interval(ctx context.Context, id string) time.Duration {
	if d, ok := a.intervals[id]; ok {
		return d
	}
	ms := engine.DefaultTickIntervalMs
	if info, err := a.service.GetSession(ctx, id); err == nil && info.Config != nil && info.Config.TickIntervalMs > 0 {
		ms = info.Config.TickIntervalMs
	}
	d := time.Duration(ms) * time.Millisecond
	a.intervals[id] = d
	return d
}
