package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/wricardo/robot-colony/game/config"
	"github.com/wricardo/robot-colony/game/engine"
	"github.com/wricardo/robot-colony/game/service"
	"github.com/wricardo/robot-colony/transport/websocket"
)

// Server represents the REST API server
type Server struct {
	service service.GameService
	hub     *websocket.Hub
	router  *mux.Router
}

// NewServer creates a new API server. hub may be nil, in which case nothing
// is broadcast and /ws is unavailable.
func NewServer(gameService service.GameService, hub *websocket.Hub) *Server {
	s := &Server{
		service: gameService,
		hub:     hub,
		router:  mux.NewRouter(),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()
	api.Use(zstdMiddleware)

	api.HandleFunc("", s.handleIndex).Methods("GET")

	// Session management
	api.HandleFunc("/sessions", s.handleCreateSession).Methods("POST")
	api.HandleFunc("/sessions", s.handleListSessions).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleGetSession).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleDeleteSession).Methods("DELETE")

	// World views
	api.HandleFunc("/sessions/{id}/snapshot", s.handleSnapshot).Methods("GET")
	api.HandleFunc("/sessions/{id}/map", s.handleMap).Methods("GET")
	api.HandleFunc("/sessions/{id}/robots", s.handleRobots).Methods("GET")
	api.HandleFunc("/sessions/{id}/base", s.handleBase).Methods("GET")
	api.HandleFunc("/sessions/{id}/ledger", s.handleLedger).Methods("GET")

	// Simulation control
	api.HandleFunc("/sessions/{id}/step", s.handleStep).Methods("POST")
	api.HandleFunc("/sessions/{id}/reset", s.handleReset).Methods("POST")
	api.HandleFunc("/sessions/{id}/autoplay", s.handleAutoplay).Methods("POST")

	// Configuration
	api.HandleFunc("/configs", s.handleListConfigs).Methods("GET")
	api.HandleFunc("/configs", s.handleCreateConfig).Methods("POST")
	api.HandleFunc("/configs/{name}", s.handleGetConfig).Methods("GET")

	// WebSocket
	s.router.HandleFunc("/ws", s.handleWebSocket)

	s.router.HandleFunc("/healthz", s.handleHealth).Methods("GET")
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// errorStatus maps service errors onto HTTP status codes
func errorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidTicks),
		errors.Is(err, config.ErrInvalidConfig),
		errors.Is(err, engine.ErrInvalidConfig):
		return http.StatusBadRequest
	case strings.Contains(err.Error(), "not found"):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"name": "robot colony",
		"endpoints": []string{
			"POST /api/sessions",
			"GET /api/sessions",
			"GET|DELETE /api/sessions/{id}",
			"GET /api/sessions/{id}/snapshot|map|robots|base|ledger",
			"POST /api/sessions/{id}/step",
			"POST /api/sessions/{id}/reset",
			"POST /api/sessions/{id}/autoplay",
			"GET|POST /api/configs",
			"GET /api/configs/{name}",
			"GET /ws?session={id}",
		},
	})
}

// Session Handlers

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ConfigID   string `json:"config_id,omitempty"`
		ConfigName string `json:"config_name,omitempty"` // Alias of config_id
	}

	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}

	configID := req.ConfigID
	if configID == "" {
		configID = req.ConfigName
	}

	session, err := s.service.CreateSession(r.Context(), configID)
	if err != nil {
		respondError(w, errorStatus(err), err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, session)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.service.ListSessions(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	query := r.URL.Query()
	sortBy := query.Get("sort")    // "created", "accessed" (default)
	order := query.Get("order")    // "asc", "desc" (default: "desc")
	limitStr := query.Get("limit") // number of sessions to return

	if sortBy == "" {
		sortBy = "accessed"
	}
	if order == "" {
		order = "desc"
	}

	sort.SliceStable(sessions, func(i, j int) bool {
		var ti, tj time.Time
		if sortBy == "created" {
			ti, tj = sessions[i].CreatedAt, sessions[j].CreatedAt
		} else {
			ti, tj = sessions[i].LastAccessedAt, sessions[j].LastAccessedAt
		}

		if order == "asc" {
			return ti.Before(tj)
		}
		return ti.After(tj)
	})

	total := len(sessions)
	limit := total
	if limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l < total {
			limit = l
		}
	}
	sessions = sessions[:limit]

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(sessions),
		"total":    total,
		"sessions": sessions,
		"sort":     sortBy,
		"order":    order,
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	session, err := s.service.GetSession(r.Context(), sessionID)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, session)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	if err := s.service.DeleteSession(r.Context(), sessionID); err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Session %s deleted", sessionID),
	})
}

// World View Handlers

func (s *Server) snapshot(w http.ResponseWriter, r *http.Request) (*engine.Snapshot, bool) {
	snap, err := s.service.GetSnapshot(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return nil, false
	}
	return snap, true
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if snap, ok := s.snapshot(w, r); ok {
		respondJSON(w, http.StatusOK, snap)
	}
}

func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}

	// Rows are the plain tiles; robots are overlaid only when asked
	rows := snap.Rows
	if r.URL.Query().Get("robots") == "true" {
		rows = snap.RowsWithRobots()
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"tick":   snap.Tick,
		"width":  snap.Width,
		"height": snap.Height,
		"base":   snap.Base,
		"rows":   rows,
		"legend": legend(),
	})
}

func (s *Server) handleRobots(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}

	robots := snap.Robots
	if kind := r.URL.Query().Get("kind"); kind != "" {
		var want engine.RobotKind
		if err := want.UnmarshalText([]byte(kind)); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		filtered := make([]engine.Robot, 0, len(robots))
		for _, robot := range robots {
			if robot.Kind == want {
				filtered = append(filtered, robot)
			}
		}
		robots = filtered
	}

	// Explored lists grow with every step; only include them on request
	if r.URL.Query().Get("explored") != "true" {
		for i := range robots {
			robots[i].Explored = nil
		}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"tick":   snap.Tick,
		"count":  len(robots),
		"robots": robots,
	})
}

func (s *Server) handleBase(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}

	total := 0
	for _, n := range snap.BaseResources {
		total += n
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"tick":      snap.Tick,
		"position":  snap.Base,
		"resources": snap.BaseResources,
		"total":     total,
	})
}

func (s *Server) handleLedger(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}

	claimed := 0
	for _, entry := range snap.Ledger {
		if entry.ClaimedBy != nil {
			claimed++
		}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"tick":    snap.Tick,
		"count":   len(snap.Ledger),
		"claimed": claimed,
		"entries": snap.Ledger,
	})
}

// Simulation Control Handlers

func (s *Server) handleStep(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req struct {
		Ticks *int `json:"ticks,omitempty"`
	}
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}
	ticks := 1
	if req.Ticks != nil {
		ticks = *req.Ticks
	}

	result, err := s.service.Step(r.Context(), sessionID, ticks)
	if err != nil {
		respondError(w, errorStatus(err), err.Error())
		return
	}

	if s.hub != nil {
		s.hub.BroadcastToSession(sessionID, result.Snapshot)
		if len(result.Events) > 0 {
			s.hub.BroadcastEvent(sessionID, websocket.EventTickEvents, result.Events)
		}
	}

	log.Printf("[STEP] session=%s ticks=%d/%d tick=%d events=%d collected=%d pending=%d",
		sessionID, result.TicksRun, result.RequestedTicks, result.Tick, len(result.Events),
		result.Stats.Collected, result.Stats.Pending)

	if r.URL.Query().Get("snapshot") == "false" {
		result.Snapshot = nil
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	snap, err := s.service.Reset(r.Context(), sessionID)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	if s.hub != nil {
		s.hub.BroadcastToSession(sessionID, snap)
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message":  "Simulation reset successfully",
		"snapshot": snap,
	})
}

func (s *Server) handleAutoplay(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req struct {
		Enabled bool `json:"enabled"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	info, err := s.service.SetAutoplay(r.Context(), sessionID, req.Enabled)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, info)
}

// Configuration Handlers

func (s *Server) handleListConfigs(w http.ResponseWriter, r *http.Request) {
	configs, err := s.service.ListConfigs(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, configs)
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	configName := strings.TrimSuffix(mux.Vars(r)["name"], ".yaml")

	preset, err := s.service.LoadConfig(r.Context(), configName)
	if err != nil {
		respondError(w, errorStatus(err), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, preset)
}

func (s *Server) handleCreateConfig(w http.ResponseWriter, r *http.Request) {
	var preset engine.SimConfig
	if err := json.NewDecoder(r.Body).Decode(&preset); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	if preset.Name == "" {
		respondError(w, http.StatusBadRequest, "Config name is required")
		return
	}
	if preset.TickIntervalMs == 0 {
		preset.TickIntervalMs = engine.DefaultTickIntervalMs
	}

	if err := s.service.SaveConfig(r.Context(), preset.Name, &preset); err != nil {
		respondError(w, errorStatus(err), fmt.Sprintf("Failed to save config: %v", err))
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message":   "Configuration saved successfully",
		"config_id": preset.Name,
	})
}

// WebSocket Handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.hub == nil {
		http.Error(w, "live updates disabled", http.StatusServiceUnavailable)
		return
	}

	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		http.Error(w, "session parameter required", http.StatusBadRequest)
		return
	}

	snap, err := s.service.GetSnapshot(r.Context(), sessionID)
	if err != nil {
		http.Error(w, "Invalid session", http.StatusNotFound)
		return
	}

	s.hub.ServeWSWithSnapshot(w, r, sessionID, snap)
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
