// Package websocket provides the live view transport for the robot colony.
//
// A central Hub tracks the connections watching each session. Every client
// has a read pump that only keeps the connection alive and a write pump that
// delivers queued frames and pings.
//
// Message Protocol:
//
// Messages are JSON objects of the form
//
//	{"session_id": "4f1c2a9b", "event": "state_update", "snapshot": {...}}
//	{"session_id": "4f1c2a9b", "event": "tick_events", "data": [...]}
//
// state_update carries the full snapshot after a step or reset; tick_events
// carries the events emitted by that step. Incoming frames are ignored.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//
//	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("session"))
//	})
//
//	hub.BroadcastToSession(id, sim.Snapshot())
package websocket
