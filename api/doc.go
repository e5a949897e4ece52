// Package api provides the REST API for the robot colony server.
//
// The API exposes session lifecycle, world views and simulation control over
// HTTP using gorilla/mux. Every /api response is JSON and is zstd-compressed
// when the client sends Accept-Encoding: zstd. Errors use the body
// {"error": "..."}.
//
// Endpoints:
//
// Sessions:
//   - POST   /api/sessions                 create a session ({"config_id": "outpost"})
//   - GET    /api/sessions                 list sessions (sort=created|accessed, order, limit)
//   - GET    /api/sessions/{id}            session info with stats and base resources
//   - DELETE /api/sessions/{id}            delete a session
//
// World views:
//   - GET /api/sessions/{id}/snapshot      the whole world
//   - GET /api/sessions/{id}/map           glyph rows and legend (robots=true overlays agents)
//   - GET /api/sessions/{id}/robots        robots (kind=miner filters, explored=true adds memory)
//   - GET /api/sessions/{id}/base          base position and resource counters
//   - GET /api/sessions/{id}/ledger        discovered resources and their claims
//
// Simulation control:
//   - POST /api/sessions/{id}/step         advance {"ticks": n} ticks, 1 by default, at most 500
//   - POST /api/sessions/{id}/reset        start a fresh run of the same preset
//   - POST /api/sessions/{id}/autoplay     {"enabled": true} ticks the session in the background
//
// Presets:
//   - GET  /api/configs                    list presets
//   - POST /api/configs                    save a preset
//   - GET  /api/configs/{name}             load a preset
//
// Live updates:
//   - GET /ws?session={id}                 WebSocket receiving state_update and tick_events
//   - GET /healthz                         liveness probe
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//	server := api.NewServer(gameService, hub)
//	http.ListenAndServe(":8080", server)
package api
