package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/wricardo/robot-colony/api"
	"github.com/wricardo/robot-colony/game/config"
	"github.com/wricardo/robot-colony/game/engine"
	"github.com/wricardo/robot-colony/game/service"
	"github.com/wricardo/robot-colony/game/session"
)

type toolHandler func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)

func callTool(t *testing.T, handler toolHandler, args map[string]interface{}) (string, bool) {
	t.Helper()
	result, err := handler(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Arguments: args},
	})
	if err != nil {
		t.Fatalf("Tool returned a transport error: %v", err)
	}
	if len(result.Content) == 0 {
		t.Fatal("Expected tool content")
	}
	return result.Content[0].(mcp.TextContent).Text, result.IsError
}

// newColonyServer runs the real REST stack with one small preset
func newColonyServer(t *testing.T) *httptest.Server {
	t.Helper()
	configs, err := config.NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create config manager: %v", err)
	}
	err = configs.SaveConfig("tiny", &engine.SimConfig{
		Name:     "tiny",
		Width:    20,
		Height:   15,
		Seed:     42,
		TickSeed: 7,
		Population: []engine.KindCount{
			{Kind: engine.Explorer, Count: 3},
			{Kind: engine.Miner, Count: 2},
			{Kind: engine.EnergyCollector, Count: 1},
			{Kind: engine.Scientist, Count: 1},
		},
		TickIntervalMs: engine.DefaultTickIntervalMs,
	})
	if err != nil {
		t.Fatalf("Failed to save preset: %v", err)
	}

	svc := service.NewGameService(session.NewManager(), configs)
	server := httptest.NewServer(api.NewServer(svc, nil))
	t.Cleanup(server.Close)
	return server
}

// testSnapshot is a 5x3 world:
//
//	M....
//	..B..
//	....#
func testSnapshot() *engine.Snapshot {
	grid := engine.NewGrid(5, 3)
	grid.Set(0, 0, engine.Mineral)
	grid.Set(2, 1, engine.Base)
	grid.Set(4, 2, engine.Obstacle)

	miner := 1
	target := engine.Position{X: 0, Y: 0}
	return &engine.Snapshot{
		Tick:   12,
		Width:  5,
		Height: 3,
		Rows:   grid.Rows(),
		Grid:   grid,
		Base:   engine.Position{X: 2, Y: 1},
		Robots: []engine.Robot{
			{ID: 0, Kind: engine.Explorer, Pos: engine.Position{X: 2, Y: 1}},
			{ID: 1, Kind: engine.Miner, Pos: engine.Position{X: 1, Y: 0}, State: engine.GoingToResource, Target: &target},
		},
		BaseResources: map[engine.Tile]int{engine.Energy: 3},
		Ledger: []engine.DiscoveredResource{
			{Pos: engine.Position{X: 0, Y: 0}, Kind: engine.Mineral, ClaimedBy: &miner},
		},
		Stats: engine.Stats{Tick: 12, Robots: 2, Discovered: 2, Collected: 1, Claimed: 1, ResourceLeft: 1},
	}
}

func TestNewClient(t *testing.T) {
	baseURL := "http://localhost:8080"
	client := NewClient(baseURL)

	if client.baseURL != baseURL {
		t.Errorf("Expected baseURL %s, got %s", baseURL, client.baseURL)
	}
	if client.httpClient == nil {
		t.Error("Expected HTTP client to be initialized")
	}
	if client.GetMCPServer() == nil {
		t.Error("Expected MCP server to be initialized")
	}
}

func TestClient_apiCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" || r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("Unexpected request %s %s", r.Method, r.Header.Get("Content-Type"))
		}
		var body map[string]int
		json.NewDecoder(r.Body).Decode(&body)
		json.NewEncoder(w).Encode(map[string]int{"tick": body["ticks"] * 2})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	var result map[string]int
	if err := client.apiCall("POST", "/anything", map[string]int{"ticks": 4}, &result); err != nil {
		t.Fatalf("apiCall failed: %v", err)
	}
	if result["tick"] != 8 {
		t.Errorf("Expected tick 8, got %v", result)
	}
}

func TestClient_apiCall_Error(t *testing.T) {
	client := NewClient("http://invalid-url-that-does-not-exist:99999")

	if err := client.apiCall("GET", "/test", nil, nil); err == nil {
		t.Error("Expected error for invalid URL")
	}
}

func TestClient_apiCall_HTTPError(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    string
	}{
		{
			name: "error body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(map[string]string{"error": "session not found"})
			},
			want: "session not found",
		},
		{
			name: "bare status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			want: "API error: 500",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			err := NewClient(server.URL).apiCall("GET", "/test", nil, nil)
			if err == nil || err.Error() != tt.want {
				t.Errorf("Expected error %q, got %v", tt.want, err)
			}
		})
	}
}

func TestIntArg(t *testing.T) {
	args := map[string]interface{}{"a": float64(7), "b": 3, "c": json.Number("12"), "d": "nope"}

	for key, want := range map[string]int{"a": 7, "b": 3, "c": 12} {
		if got, ok := intArg(args, key); !ok || got != want {
			t.Errorf("intArg(%s) = %d, %v; want %d", key, got, ok, want)
		}
	}
	if _, ok := intArg(args, "d"); ok {
		t.Error("Expected a string argument to be rejected")
	}
	if _, ok := intArg(args, "missing"); ok {
		t.Error("Expected a missing argument to be rejected")
	}
}

func TestFormatSnapshot(t *testing.T) {
	text := formatSnapshot(testSnapshot())

	for _, want := range []string{
		"Tick 12 - 5x3 map, base at (2,1)",
		"M1...\n..4..\n....#\n",
		"#1 miner at (1,0) going_to_resource -> (0,0)",
		"#0 explorer at (2,1)\n",
		"Ledger: 0 pending, 1 claimed",
		"energy: 3",
		"mineral: 0",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected snapshot text to contain %q, got:\n%s", want, text)
		}
	}
}

func TestDescribeCell(t *testing.T) {
	snap := testSnapshot()

	tests := []struct {
		name string
		pos  engine.Position
		want []string
	}{
		{"claimed mineral", engine.Position{X: 0, Y: 0}, []string{"Tile: mineral (M)", "Passable: true", "claimed by robot #1", "Robots here: none"}},
		{"base", engine.Position{X: 2, Y: 1}, []string{"Tile: base (B)", "base drop-off point", "#0 explorer"}},
		{"obstacle", engine.Position{X: 4, Y: 2}, []string{"Tile: obstacle (#)", "Passable: false"}},
		{"robot on empty", engine.Position{X: 1, Y: 0}, []string{"Tile: empty", "#1 miner (going_to_resource)"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := describeCell(snap, tt.pos)
			for _, want := range tt.want {
				if !strings.Contains(text, want) {
					t.Errorf("Expected %q in:\n%s", want, text)
				}
			}
		})
	}

	snap.Ledger = nil
	if text := describeCell(snap, engine.Position{X: 0, Y: 0}); !strings.Contains(text, "not yet discovered") {
		t.Errorf("Expected undiscovered note, got:\n%s", text)
	}
}

func TestFormatLedger(t *testing.T) {
	if text := formatLedger(3, 0, nil); text != "Ledger is empty at tick 3\n" {
		t.Errorf("Unexpected empty ledger text %q", text)
	}

	robot := 4
	text := formatLedger(9, 1, []engine.DiscoveredResource{
		{Pos: engine.Position{X: 1, Y: 2}, Kind: engine.Science, ClaimedBy: &robot},
		{Pos: engine.Position{X: 5, Y: 5}, Kind: engine.Energy},
	})
	for _, want := range []string{"2 entries, 1 claimed", "claimed by robot #4", "unclaimed"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in:\n%s", want, text)
		}
	}
}

func TestFormatStepResult(t *testing.T) {
	events := make([]engine.Event, 0, 20)
	for i := 0; i < 20; i++ {
		events = append(events, engine.Event{Tick: i, Type: engine.EventResourceDiscovered, RobotID: 1, Kind: "mineral"})
	}
	events = append(events, engine.Event{Tick: 20, Type: engine.EventInventoryUnloaded, RobotID: 2, Items: []engine.Tile{engine.Energy}})

	text := formatStepResult("abc", &service.StepResult{
		RequestedTicks: 600,
		TicksRun:       500,
		Truncated:      true,
		Limit:          500,
		Tick:           500,
		Events:         events,
	})

	for _, want := range []string{
		"Session abc advanced 500 tick(s) to tick 500",
		"Requested 600 ticks; capped at 500 per call",
		"inventory_unloaded: 1",
		"resource_discovered: 20",
		fmt.Sprintf("Last %d events:", maxListedEvents),
		"[20] robot #2 inventory_unloaded at (0,0) items=energy",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in:\n%s", want, text)
		}
	}
	if strings.Contains(text, "[0] robot #1") {
		t.Error("Expected the oldest events to be left out")
	}
}

func TestClient_handleInstructions(t *testing.T) {
	client := NewClient("http://localhost:8080")
	text, isErr := callTool(t, client.handleInstructions, nil)
	if isErr {
		t.Fatal("Instructions should not be an error")
	}
	for _, want := range []string{"ROBOT COLONY", "Explorer", "breadth-first search", "5 ticks"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected instructions to mention %q", want)
		}
	}
}

func TestClient_Integration(t *testing.T) {
	server := newColonyServer(t)
	client := NewClient(server.URL)

	text, isErr := callTool(t, client.handleCreateSession, map[string]interface{}{"config_id": "tiny"})
	if isErr {
		t.Fatalf("create_session failed: %s", text)
	}
	if !strings.Contains(text, "Config: tiny") || !strings.Contains(text, "Robots: 7") {
		t.Errorf("Unexpected create_session text:\n%s", text)
	}
	sessionID := strings.TrimSpace(strings.TrimPrefix(strings.SplitN(text, "\n", 2)[0], "Created session:"))

	text, _ = callTool(t, client.handleListSessions, nil)
	if !strings.Contains(text, "Active Sessions (1)") || !strings.Contains(text, sessionID) {
		t.Errorf("Unexpected list_sessions text:\n%s", text)
	}

	text, isErr = callTool(t, client.handleStep, map[string]interface{}{"session_id": sessionID, "ticks": float64(20)})
	if isErr || !strings.Contains(text, "advanced 20 tick(s) to tick 20") {
		t.Errorf("Unexpected step text:\n%s", text)
	}

	text, isErr = callTool(t, client.handleStep, map[string]interface{}{"session_id": sessionID, "ticks": float64(0)})
	if !isErr {
		t.Errorf("Expected zero ticks to fail, got:\n%s", text)
	}

	text, _ = callTool(t, client.handleGetSession, map[string]interface{}{"session_id": sessionID})
	if !strings.Contains(text, "Tick: 20") {
		t.Errorf("Unexpected get_session text:\n%s", text)
	}

	text, _ = callTool(t, client.handleSnapshot, map[string]interface{}{"session_id": sessionID})
	if !strings.Contains(text, "Tick 20 - 20x15 map") || strings.Count(text, " at (") < 7 {
		t.Errorf("Unexpected snapshot text:\n%s", text)
	}

	text, isErr = callTool(t, client.handleLedger, map[string]interface{}{"session_id": sessionID})
	if isErr || !strings.Contains(text, "tick 20") {
		t.Errorf("Unexpected ledger text:\n%s", text)
	}

	text, isErr = callTool(t, client.handleBaseResources, map[string]interface{}{"session_id": sessionID})
	if isErr || !strings.Contains(text, "Total delivered:") {
		t.Errorf("Unexpected base_resources text:\n%s", text)
	}

	snap, err := client.snapshot(sessionID)
	if err != nil {
		t.Fatalf("Failed to fetch snapshot: %v", err)
	}
	text, isErr = callTool(t, client.handleDescribeCell, map[string]interface{}{
		"session_id": sessionID, "x": float64(snap.Base.X), "y": float64(snap.Base.Y),
	})
	if isErr || !strings.Contains(text, "Tile: base") {
		t.Errorf("Unexpected describe_cell text:\n%s", text)
	}

	text, isErr = callTool(t, client.handleDescribeCell, map[string]interface{}{
		"session_id": sessionID, "x": float64(20), "y": float64(0),
	})
	if !isErr || !strings.Contains(text, "out of bounds") {
		t.Errorf("Expected out of bounds error, got:\n%s", text)
	}

	text, isErr = callTool(t, client.handleReset, map[string]interface{}{"session_id": sessionID})
	if isErr || !strings.Contains(text, "Tick 0 -") {
		t.Errorf("Unexpected reset text:\n%s", text)
	}

	text, _ = callTool(t, client.handleListConfigs, nil)
	if !strings.Contains(text, "- tiny: tiny (20x15, 7 robots, seed 42)") {
		t.Errorf("Unexpected list_configs text:\n%s", text)
	}

	text, isErr = callTool(t, client.handleGetSession, map[string]interface{}{"session_id": "missing"})
	if !isErr || !strings.Contains(text, "not found") {
		t.Errorf("Expected not found error, got:\n%s", text)
	}

	text, isErr = callTool(t, client.handleCreateSession, map[string]interface{}{"config_id": "nope"})
	if !isErr {
		t.Errorf("Expected unknown preset to fail, got:\n%s", text)
	}
}

func TestClient_ServeHTTP(t *testing.T) {
	client := NewClient("http://localhost:8080")

	w := httptest.NewRecorder()
	client.ServeHTTP(w, httptest.NewRequest("GET", "/mcp", nil))
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405 for GET, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	client.ServeHTTP(w, httptest.NewRequest("POST", "/mcp", strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"ping"}`)))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	var reply map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &reply); err != nil {
		t.Fatalf("Invalid JSON-RPC reply: %v", err)
	}
	if reply["jsonrpc"] != "2.0" || reply["id"] != float64(1) {
		t.Errorf("Unexpected ping reply %v", reply)
	}
}
