// Package mcp exposes the robot colony to AI agents over the Model Context
// Protocol.
//
// The Client is a thin proxy: every tool call is translated into a request
// against the REST API and the JSON reply is rendered as plain text.
//
// MCP Tools:
//   - create_session, list_sessions, get_session, reset_session
//   - step: advance a session by N ticks
//   - snapshot: map with robots overlaid plus robot states and statistics
//   - ledger: discovered resources and their claims
//   - base_resources: delivered resource counts
//   - describe_cell: tile, robots and ledger entry at one coordinate
//   - list_configs, simulation_instructions
//
// Transport Modes:
//
// Stdio for local MCP clients (server.ServeStdio(client.GetMCPServer())) and
// HTTP, where Client itself is an http.Handler mounted at /mcp.
package mcp
