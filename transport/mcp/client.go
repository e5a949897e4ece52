package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/robot-colony/game/engine"
	"github.com/wricardo/robot-colony/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Robot Colony",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Robot Colony - MCP Interface

This is a thin client that proxies all requests to the REST API server.

A colony of robots explores a generated map, records resources in a shared
ledger and carries them home to the base (B). You do not steer robots; you
create sessions, advance time and inspect what the colony has achieved.

AVAILABLE TOOLS:
- create_session: Start a new simulation from a preset
- list_sessions: List all active sessions
- get_session: Get session details and statistics
- step: Advance a session by a number of ticks
- reset_session: Restart a session from its preset
- snapshot: Get the map with robots overlaid plus statistics
- ledger: List discovered resources and their claims
- base_resources: Show what has been delivered to the base
- describe_cell: Inspect one grid cell (tile, robots, ledger entry)
- list_configs: List available presets
- simulation_instructions: Explain the rules of the simulation`),
	)

	c.registerTools()
}

func sessionSchema(extra map[string]interface{}, required ...string) mcp.ToolInputSchema {
	properties := map[string]interface{}{
		"session_id": map[string]interface{}{
			"type":        "string",
			"description": "Session ID",
		},
	}
	for name, prop := range extra {
		properties[name] = prop
	}
	return mcp.ToolInputSchema{
		Type:       "object",
		Properties: properties,
		Required:   append([]string{"session_id"}, required...),
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new simulation session from a preset",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "Preset to use (optional, see list_configs)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active simulation sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details and statistics of a session",
		InputSchema: sessionSchema(nil),
	}, c.handleGetSession)

	// Simulation
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "step",
		Description: "Advance the simulation by a number of ticks (default 1, at most 500 per call)",
		InputSchema: sessionSchema(map[string]interface{}{
			"ticks": map[string]interface{}{
				"type":        "integer",
				"description": "Number of ticks to run",
				"minimum":     1,
			},
		}),
	}, c.handleStep)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_session",
		Description: "Restart the session's simulation from its preset",
		InputSchema: sessionSchema(nil),
	}, c.handleReset)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "snapshot",
		Description: "Show the map with robots overlaid, robot states and statistics",
		InputSchema: sessionSchema(nil),
	}, c.handleSnapshot)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "ledger",
		Description: "List every discovered resource and which robot has claimed it",
		InputSchema: sessionSchema(nil),
	}, c.handleLedger)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "base_resources",
		Description: "Show resources delivered to the base",
		InputSchema: sessionSchema(nil),
	}, c.handleBaseResources)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_cell",
		Description: "Describe one grid cell: its tile, robots standing on it and its ledger entry",
		InputSchema: sessionSchema(map[string]interface{}{
			"x": map[string]interface{}{
				"type":        "integer",
				"description": "Column (0 is the left edge)",
			},
			"y": map[string]interface{}{
				"type":        "integer",
				"description": "Row (0 is the top edge)",
			},
		}, "x", "y"),
	}, c.handleDescribeCell)

	// Configuration
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available simulation presets",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "simulation_instructions",
		Description: "Explain how the robot colony works",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleInstructions)
}

// GetMCPServer returns the underlying MCP server
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func sessionPath(sessionID, suffix string) string {
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix
}

// arguments returns the tool arguments, tolerating a missing object
func arguments(request mcp.CallToolRequest) map[string]interface{} {
	if args, ok := request.Params.Arguments.(map[string]interface{}); ok {
		return args
	}
	return map[string]interface{}{}
}

// intArg reads a JSON number argument
func intArg(args map[string]interface{}, key string) (int, bool) {
	switch v := args[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case json.Number:
		n, err := v.Int64()
		return int(n), err == nil
	}
	return 0, false
}

func (c *Client) snapshot(sessionID string) (*engine.Snapshot, error) {
	var snap engine.Snapshot
	if err := c.apiCall("GET", sessionPath(sessionID, "/snapshot"), nil, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	configID, _ := args["config_id"].(string)

	body := map[string]string{}
	if configID != "" {
		body["config_id"] = configID
	}

	var session service.SessionInfo
	err := c.apiCall("POST", "/api/sessions", body, &session)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nConfig: %s\nRobots: %d\n",
		session.ID, session.ConfigName, session.Stats.Robots)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	err := c.apiCall("GET", "/api/sessions", nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		result += fmt.Sprintf("- %s (Config: %s, Tick: %d, Created: %s)\n",
			s.ID, s.ConfigName, s.Tick, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var session service.SessionInfo
	err := c.apiCall("GET", sessionPath(sessionID, ""), nil, &session)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleStep(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)

	ticks := 1
	if n, ok := intArg(args, "ticks"); ok {
		ticks = n
	}

	var result service.StepResult
	err := c.apiCall("POST", sessionPath(sessionID, "/step?snapshot=false"), map[string]int{"ticks": ticks}, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatStepResult(sessionID, &result)), nil
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var response struct {
		Message  string           `json:"message"`
		Snapshot *engine.Snapshot `json:"snapshot"`
	}
	err := c.apiCall("POST", sessionPath(sessionID, "/reset"), nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := response.Message + "\n"
	if response.Snapshot != nil {
		result += "\n" + formatSnapshot(response.Snapshot)
	}
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleSnapshot(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	snap, err := c.snapshot(sessionID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSnapshot(snap)), nil
}

func (c *Client) handleLedger(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var response struct {
		Tick    int                         `json:"tick"`
		Count   int                         `json:"count"`
		Claimed int                         `json:"claimed"`
		Entries []engine.DiscoveredResource `json:"entries"`
	}
	err := c.apiCall("GET", sessionPath(sessionID, "/ledger"), nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatLedger(response.Tick, response.Claimed, response.Entries)), nil
}

func (c *Client) handleBaseResources(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var response struct {
		Tick      int                 `json:"tick"`
		Position  engine.Position     `json:"position"`
		Resources map[engine.Tile]int `json:"resources"`
		Total     int                 `json:"total"`
	}
	err := c.apiCall("GET", sessionPath(sessionID, "/base"), nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Base at %s (tick %d)\n", response.Position, response.Tick)
	result += formatResources(response.Resources)
	result += fmt.Sprintf("Total delivered: %d\n", response.Total)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	err := c.apiCall("GET", "/api/configs", nil, &configs)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := "Available Configurations:\n\n"
	for _, cfg := range configs {
		result += fmt.Sprintf("- %s: %s (%dx%d, %d robots, seed %d)\n",
			cfg.ConfigID, cfg.Name, cfg.Width, cfg.Height, cfg.Robots, cfg.Seed)
		if cfg.Description != "" {
			result += fmt.Sprintf("  %s\n", cfg.Description)
		}
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(instructions), nil
}

func (c *Client) handleDescribeCell(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	x, okX := intArg(args, "x")
	y, okY := intArg(args, "y")
	if !okX || !okY {
		return mcp.NewToolResultError("x and y are required integers"), nil
	}

	snap, err := c.snapshot(sessionID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if x < 0 || x >= snap.Width || y < 0 || y >= snap.Height {
		return mcp.NewToolResultError(fmt.Sprintf("Coordinates (%d, %d) are out of bounds. Grid is %dx%d (x 0-%d, y 0-%d)",
			x, y, snap.Width, snap.Height, snap.Width-1, snap.Height-1)), nil
	}

	return mcp.NewToolResultText(describeCell(snap, engine.Position{X: x, Y: y})), nil
}

const instructions = `ROBOT COLONY
━━━━━━━━━━━━

THE WORLD
The map is a grid of tiles:
  .  empty ground
  #  obstacle (impassable)
  M  mineral deposit
  E  energy source
  S  science sample
  B  the base (a centered square, at most 10x10)

THE ROBOTS
  4  Explorer: takes one random step per tick. When it steps onto a
     resource not yet in the ledger, it reports it. Never carries anything.
  1  Miner: collects minerals.
  2  Energy collector: collects energy.
  3  Scientist: collects science samples.

An idle collector is assigned an unclaimed ledger entry of its kind, walks
there, picks the resource up and returns to the base to unload it. A
resource is claimed by at most one robot at a time.

EACH TICK
  1. Explorers move and report discoveries.
  2. Idle collectors are assigned unclaimed resources, lowest robot id first.
  3. Collectors advance one step, collect on arrival or unload at the base.
  4. Ledger entries for collected tiles are cleaned up.

Paths are found with breadth-first search over passable tiles. When no path
exists a robot steps greedily toward its target. A robot that has not moved
for 5 ticks drops its cached path and plans again.

USING THE TOOLS
  create_session -> step (e.g. 50 ticks) -> snapshot / ledger / base_resources
Sessions are deterministic: the same preset always produces the same run.`
