package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wricardo/robot-colony/game/engine"
)

func testSnapshot(t *testing.T) *engine.Snapshot {
	t.Helper()
	cfg := engine.DefaultSimConfig()
	cfg.Width, cfg.Height = 20, 15
	sim, err := engine.NewSimulation(cfg)
	if err != nil {
		t.Fatalf("Failed to create simulation: %v", err)
	}
	sim.Step(3)
	return sim.Snapshot()
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met within timeout")
}

func TestNewHub(t *testing.T) {
	hub := NewHub()

	if hub == nil {
		t.Fatal("NewHub() returned nil")
	}
	if hub.sessions == nil {
		t.Error("Hub sessions map is nil")
	}
	if hub.broadcast == nil || hub.register == nil || hub.unregister == nil {
		t.Error("Hub channels are not initialized")
	}
}

func TestHubRegisterClient(t *testing.T) {
	hub := NewHub()

	client := &Client{
		hub:       hub,
		sessionID: "test-session",
		send:      make(chan []byte, 256),
	}

	hub.registerClient(client)

	if !hub.sessions["test-session"][client] {
		t.Error("Client was not registered in session")
	}
	if hub.ClientCount("test-session") != 1 {
		t.Errorf("Expected 1 client in session, got %d", hub.ClientCount("test-session"))
	}
}

func TestHubUnregisterClient(t *testing.T) {
	hub := NewHub()

	client := &Client{
		hub:       hub,
		sessionID: "test-session",
		send:      make(chan []byte, 256),
	}

	hub.registerClient(client)
	hub.unregisterClient(client)
	// A second unregister must not close the channel twice
	hub.unregisterClient(client)

	if _, exists := hub.sessions["test-session"]; exists {
		t.Error("Session should have been cleaned up after last client unregistered")
	}
	if _, ok := <-client.send; ok {
		t.Error("Expected send channel to be closed")
	}
}

func TestHubMultipleClientsInSession(t *testing.T) {
	hub := NewHub()
	sessionID := "multi-client-session"

	client1 := &Client{hub: hub, sessionID: sessionID, send: make(chan []byte, 256)}
	client2 := &Client{hub: hub, sessionID: sessionID, send: make(chan []byte, 256)}

	hub.registerClient(client1)
	hub.registerClient(client2)

	if hub.ClientCount(sessionID) != 2 {
		t.Errorf("Expected 2 clients in session, got %d", hub.ClientCount(sessionID))
	}

	hub.unregisterClient(client1)

	if hub.ClientCount(sessionID) != 1 {
		t.Errorf("Expected 1 client remaining in session, got %d", hub.ClientCount(sessionID))
	}
	if !hub.sessions[sessionID][client2] {
		t.Error("client2 should still be registered")
	}
}

func TestHubBroadcastToSession(t *testing.T) {
	hub := NewHub()
	sessionID := "broadcast-test"

	client := &Client{hub: hub, sessionID: sessionID, send: make(chan []byte, 256)}
	other := &Client{hub: hub, sessionID: "other", send: make(chan []byte, 256)}
	hub.registerClient(client)
	hub.registerClient(other)

	snap := testSnapshot(t)
	hub.BroadcastToSession(sessionID, snap)

	select {
	case data := <-client.send:
		var message Message
		if err := json.Unmarshal(data, &message); err != nil {
			t.Fatalf("Failed to unmarshal message: %v", err)
		}
		if message.SessionID != sessionID {
			t.Errorf("Expected sessionID %s, got %s", sessionID, message.SessionID)
		}
		if message.Event != EventStateUpdate {
			t.Errorf("Expected event %q, got %s", EventStateUpdate, message.Event)
		}
		if message.Snapshot == nil || message.Snapshot.Tick != 3 || len(message.Snapshot.Robots) != len(snap.Robots) {
			t.Error("Snapshot not correctly transmitted")
		}
		if message.Snapshot.Grid[snap.Base.Y][snap.Base.X] != engine.Base {
			t.Error("Expected the base tile to survive encoding")
		}
	default:
		t.Error("No message delivered")
	}

	if len(other.send) != 0 {
		t.Error("Clients of other sessions must not receive the update")
	}
}

func TestHubDropsSlowClient(t *testing.T) {
	hub := NewHub()
	slow := &Client{hub: hub, sessionID: "slow", send: make(chan []byte, 1)}
	hub.registerClient(slow)

	hub.BroadcastEvent("slow", EventTickEvents, []int{1})
	hub.broadcastMessage(<-hub.broadcast)
	hub.broadcastMessage(&Message{SessionID: "slow", Event: EventTickEvents})

	if hub.ClientCount("slow") != 0 {
		t.Error("Expected the client with a full buffer to be dropped")
	}
}

func TestHubBroadcastEvent(t *testing.T) {
	hub := NewHub()

	hub.BroadcastEvent("event-test", "custom-event", "test-data")

	select {
	case message := <-hub.broadcast:
		if message.SessionID != "event-test" {
			t.Errorf("Expected sessionID 'event-test', got %s", message.SessionID)
		}
		if message.Event != "custom-event" {
			t.Errorf("Expected event 'custom-event', got %s", message.Event)
		}
		if message.Data != "test-data" {
			t.Errorf("Expected data 'test-data', got %v", message.Data)
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("No broadcast message received within timeout")
	}
}

func newTestServer(hub *Hub, snap *engine.Snapshot) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := r.URL.Query().Get("session")
		if sessionID == "" {
			sessionID = "default"
		}
		hub.ServeWSWithSnapshot(w, r, sessionID, snap)
	}))
}

func TestWebSocketUpgrade(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	server := newTestServer(hub, nil)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "?session=ws-test"

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	defer conn.Close()

	waitFor(t, func() bool { return hub.ClientCount("ws-test") == 1 })

	conn.Close()

	waitFor(t, func() bool { return hub.ClientCount("ws-test") == 0 })
}

func TestWebSocketMessageReceive(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	snap := testSnapshot(t)
	server := newTestServer(hub, snap)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "?session=msg-test"

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	defer conn.Close()

	read := func() Message {
		t.Helper()
		conn.SetReadDeadline(time.Now().Add(time.Second))
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("Failed to read WebSocket message: %v", err)
		}
		var message Message
		if err := json.Unmarshal(data, &message); err != nil {
			t.Fatalf("Failed to unmarshal message: %v", err)
		}
		return message
	}

	initial := read()
	if initial.Event != EventStateUpdate || initial.Snapshot == nil || initial.Snapshot.Tick != 3 {
		t.Errorf("Expected the initial snapshot, got %+v", initial.Event)
	}

	waitFor(t, func() bool { return hub.ClientCount("msg-test") == 1 })
	hub.BroadcastEvent("msg-test", EventTickEvents, map[string]int{"tick": 4})

	message := read()
	if message.SessionID != "msg-test" || message.Event != EventTickEvents {
		t.Errorf("Unexpected message %+v", message)
	}
	data, ok := message.Data.(map[string]interface{})
	if !ok || data["tick"] != float64(4) {
		t.Errorf("Unexpected event data %v", message.Data)
	}
}
