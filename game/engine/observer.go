package engine

import (
	"log/slog"
	"sync"
)

// Observer receives narration from the simulation. Implementations must not
// mutate simulation state.
type Observer interface {
	TickStarted(tick int)
	RobotSpawned(robotID int, kind RobotKind, pos Position)
	ResourceDiscovered(explorerID int, res DiscoveredResource)
	ResourceAssigned(robotID int, res DiscoveredResource)
	ResourceCollected(robotID int, pos Position, kind Tile)
	InventoryUnloaded(robotID int, items []Tile)
	RobotStuck(robotID int, pos Position)
}

// EventType names a simulation event
type EventType string

const (
	EventRobotSpawned       EventType = "robot_spawned"
	EventResourceDiscovered EventType = "resource_discovered"
	EventResourceAssigned   EventType = "resource_assigned"
	EventResourceCollected  EventType = "resource_collected"
	EventInventoryUnloaded  EventType = "inventory_unloaded"
	EventRobotStuck         EventType = "robot_stuck"
)

// Event is the flattened form of an Observer callback
type Event struct {
	Tick    int       `json:"tick"`
	Type    EventType `json:"type"`
	RobotID int       `json:"robot_id"`
	Pos     Position  `json:"pos"`
	Kind    string    `json:"kind,omitempty"`
	Items   []Tile    `json:"items,omitempty"`
}

// NopObserver ignores everything
type NopObserver struct{}

func (NopObserver) TickStarted(int)                            {}
func (NopObserver) RobotSpawned(int, RobotKind, Position)      {}
func (NopObserver) ResourceDiscovered(int, DiscoveredResource) {}
func (NopObserver) ResourceAssigned(int, DiscoveredResource)   {}
func (NopObserver) ResourceCollected(int, Position, Tile)      {}
func (NopObserver) InventoryUnloaded(int, []Tile)              {}
func (NopObserver) RobotStuck(int, Position)                   {}

// EventObserver converts callbacks into Events and hands them to a function
type EventObserver struct {
	mu   sync.Mutex
	tick int
	emit func(Event)
}

// NewEventObserver creates an observer calling emit for every event
func NewEventObserver(emit func(Event)) *EventObserver {
	return &EventObserver{emit: emit}
}

func (o *EventObserver) send(e Event) {
	o.mu.Lock()
	e.Tick = o.tick
	o.mu.Unlock()
	o.emit(e)
}

func (o *EventObserver) TickStarted(tick int) {
	o.mu.Lock()
	o.tick = tick
	o.mu.Unlock()
}

func (o *EventObserver) RobotSpawned(robotID int, kind RobotKind, pos Position) {
	o.send(Event{Type: EventRobotSpawned, RobotID: robotID, Pos: pos, Kind: kind.String()})
}

func (o *EventObserver) ResourceDiscovered(explorerID int, res DiscoveredResource) {
	o.send(Event{Type: EventResourceDiscovered, RobotID: explorerID, Pos: res.Pos, Kind: res.Kind.String()})
}

func (o *EventObserver) ResourceAssigned(robotID int, res DiscoveredResource) {
	o.send(Event{Type: EventResourceAssigned, RobotID: robotID, Pos: res.Pos, Kind: res.Kind.String()})
}

func (o *EventObserver) ResourceCollected(robotID int, pos Position, kind Tile) {
	o.send(Event{Type: EventResourceCollected, RobotID: robotID, Pos: pos, Kind: kind.String()})
}

func (o *EventObserver) InventoryUnloaded(robotID int, items []Tile) {
	o.send(Event{Type: EventInventoryUnloaded, RobotID: robotID, Items: append([]Tile(nil), items...)})
}

func (o *EventObserver) RobotStuck(robotID int, pos Position) {
	o.send(Event{Type: EventRobotStuck, RobotID: robotID, Pos: pos})
}

// EventRecorder buffers events until they are drained
type EventRecorder struct {
	*EventObserver
	mu     sync.Mutex
	events []Event
}

// NewEventRecorder creates an empty recorder
func NewEventRecorder() *EventRecorder {
	r := &EventRecorder{}
	r.EventObserver = NewEventObserver(func(e Event) {
		r.mu.Lock()
		r.events = append(r.events, e)
		r.mu.Unlock()
	})
	return r
}

// Events returns a copy of the buffered events
func (r *EventRecorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Drain returns the buffered events and clears the buffer
func (r *EventRecorder) Drain() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	events := r.events
	r.events = nil
	return events
}

// LogObserver narrates the simulation through slog
type LogObserver struct {
	logger *slog.Logger
}

// NewLogObserver creates an observer logging to logger, or slog.Default when nil
func NewLogObserver(logger *slog.Logger) *LogObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogObserver{logger: logger}
}

func (o *LogObserver) TickStarted(tick int) {
	o.logger.Debug("tick", "tick", tick)
}

func (o *LogObserver) RobotSpawned(robotID int, kind RobotKind, pos Position) {
	o.logger.Info("robot spawned", "robot", robotID, "kind", kind.String(), "pos", pos.String())
}

func (o *LogObserver) ResourceDiscovered(explorerID int, res DiscoveredResource) {
	o.logger.Debug("resource discovered", "explorer", explorerID, "kind", res.Kind.String(), "pos", res.Pos.String())
}

func (o *LogObserver) ResourceAssigned(robotID int, res DiscoveredResource) {
	o.logger.Debug("resource assigned", "robot", robotID, "kind", res.Kind.String(), "pos", res.Pos.String())
}

func (o *LogObserver) ResourceCollected(robotID int, pos Position, kind Tile) {
	o.logger.Debug("resource collected", "robot", robotID, "kind", kind.String(), "pos", pos.String())
}

func (o *LogObserver) InventoryUnloaded(robotID int, items []Tile) {
	o.logger.Debug("inventory unloaded", "robot", robotID, "items", len(items))
}

func (o *LogObserver) RobotStuck(robotID int, pos Position) {
	o.logger.Debug("robot stuck, path reset", "robot", robotID, "pos", pos.String())
}

// MultiObserver fans callbacks out to several observers in order
type MultiObserver []Observer

func (m MultiObserver) TickStarted(tick int) {
	for _, o := range m {
		o.TickStarted(tick)
	}
}

func (m MultiObserver) RobotSpawned(robotID int, kind RobotKind, pos Position) {
	for _, o := range m {
		o.RobotSpawned(robotID, kind, pos)
	}
}

func (m MultiObserver) ResourceDiscovered(explorerID int, res DiscoveredResource) {
	for _, o := range m {
		o.ResourceDiscovered(explorerID, res)
	}
}

func (m MultiObserver) ResourceAssigned(robotID int, res DiscoveredResource) {
	for _, o := range m {
		o.ResourceAssigned(robotID, res)
	}
}

func (m MultiObserver) ResourceCollected(robotID int, pos Position, kind Tile) {
	for _, o := range m {
		o.ResourceCollected(robotID, pos, kind)
	}
}

func (m MultiObserver) InventoryUnloaded(robotID int, items []Tile) {
	for _, o := range m {
		o.InventoryUnloaded(robotID, items)
	}
}

func (m MultiObserver) RobotStuck(robotID int, pos Position) {
	for _, o := range m {
		o.RobotStuck(robotID, pos)
	}
}
