// Package service provides the business logic layer for the robot colony server.
//
// The service package implements:
//   - Multi-session simulation management
//   - Stepping with a per-call tick limit
//   - Snapshots of a session's world
//   - Autoplay flags for background ticking
//   - Scenario preset access
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level operations.
// SessionManager handles session creation, retrieval, reset and lifecycle.
// ConfigManager manages scenario preset loading and validation.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the engine. Each session owns an independent simulation. All mutating calls
// hold the service lock, so a tick never overlaps a snapshot read.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	svc := service.NewGameService(sessionMgr, configMgr)
//
//	info, err := svc.CreateSession(ctx, "outpost")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := svc.Step(ctx, info.ID, 50)
//	fmt.Println(result.Tick, len(result.Events))
package service
