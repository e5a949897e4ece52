// Package session provides session management for the robot colony server.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Unique session ID generation
//   - Fresh runs of a session's preset (reset)
//   - Session cleanup and expiration
//
// Core Types:
//
// Manager is the main session manager that handles all session operations.
// Each session owns its own simulation and an event recorder that buffers the
// events emitted while the service steps it. Extra observers, such as a slog
// narrator or a compressed event log, are attached with WithObserverFactory.
//
// Session Identifiers:
//
// Generated IDs are the first 8 hex characters of a random UUID. Lookups are
// case-insensitive.
//
// Usage:
//
//	manager := session.NewManager(session.WithObserverFactory(func(id string) engine.Observer {
//		return engine.NewLogObserver(slog.Default().With("session", id))
//	}))
//
//	sess, err := manager.Create("", "classic", preset)
//	if err != nil {
//		log.Fatal(err)
//	}
//	sess.Sim.Step(10)
//
// Sessions live in memory only and are dropped by CleanupExpiredSessions once
// they have been idle for longer than the given age.
package session
