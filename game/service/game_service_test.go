package service_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/wricardo/robot-colony/game/engine"
	"github.com/wricardo/robot-colony/game/service"
)

// MockSessionManager implements service.SessionManager for testing
type MockSessionManager struct {
	sessions map[string]*service.Session
}

func NewMockSessionManager() *MockSessionManager {
	return &MockSessionManager{
		sessions: make(map[string]*service.Session),
	}
}

func newSession(id, configID string, config *engine.SimConfig) (*service.Session, error) {
	recorder := engine.NewEventRecorder()
	sim, err := engine.NewSimulation(config, engine.WithObserver(recorder))
	if err != nil {
		return nil, err
	}
	return &service.Session{
		ID:             id,
		ConfigID:       configID,
		Sim:            sim,
		Config:         config,
		Recorder:       recorder,
		CreatedAt:      time.Now(),
		LastAccessedAt: time.Now(),
	}, nil
}

func (m *MockSessionManager) Create(id, configID string, config *engine.SimConfig) (*service.Session, error) {
	// Generate ID if empty (mimics real session manager behavior)
	if id == "" {
		id = fmt.Sprintf("test_%d", len(m.sessions)+1)
	}

	if _, exists := m.sessions[id]; exists {
		return nil, errors.New("session already exists")
	}

	session, err := newSession(id, configID, config)
	if err != nil {
		return nil, err
	}
	m.sessions[id] = session
	return session, nil
}

func (m *MockSessionManager) Get(id string) (*service.Session, error) {
	session, exists := m.sessions[id]
	if !exists {
		return nil, errors.New("session not found")
	}
	return session, nil
}

func (m *MockSessionManager) GetOrCreate(id, configID string, config *engine.SimConfig) (*service.Session, error) {
	if session, exists := m.sessions[id]; exists {
		return session, nil
	}
	return m.Create(id, configID, config)
}

func (m *MockSessionManager) List() []*service.Session {
	result := make([]*service.Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		result = append(result, session)
	}
	return result
}

func (m *MockSessionManager) Delete(id string) error {
	if _, exists := m.sessions[id]; !exists {
		return errors.New("session not found")
	}
	delete(m.sessions, id)
	return nil
}

func (m *MockSessionManager) UpdateLastAccessed(id string) error {
	if session, exists := m.sessions[id]; exists {
		session.LastAccessedAt = time.Now()
		return nil
	}
	return errors.New("session not found")
}

func (m *MockSessionManager) Replace(id string) (*service.Session, error) {
	old, exists := m.sessions[id]
	if !exists {
		return nil, errors.New("session not found")
	}
	fresh, err := newSession(old.ID, old.ConfigID, old.Config)
	if err != nil {
		return nil, err
	}
	old.Sim = fresh.Sim
	old.Recorder = fresh.Recorder
	return old, nil
}

// MockConfigManager implements service.ConfigManager for testing
type MockConfigManager struct {
	configs map[string]*engine.SimConfig
}

func testConfig(name string) *engine.SimConfig {
	return &engine.SimConfig{
		Name:     name,
		Width:    20,
		Height:   15,
		Seed:     42,
		TickSeed: 7,
		Population: []engine.KindCount{
			{Kind: engine.Explorer, Count: 4},
			{Kind: engine.Miner, Count: 2},
			{Kind: engine.EnergyCollector, Count: 2},
			{Kind: engine.Scientist, Count: 1},
		},
		TickIntervalMs: 100,
	}
}

func NewMockConfigManager() *MockConfigManager {
	return &MockConfigManager{
		configs: map[string]*engine.SimConfig{
			"test":    testConfig("test"),
			"default": testConfig("default"),
		},
	}
}

func (m *MockConfigManager) LoadConfig(name string) (*engine.SimConfig, error) {
	config, exists := m.configs[name]
	if !exists {
		return nil, fmt.Errorf("configuration not found: %s", name)
	}
	return config, nil
}

func (m *MockConfigManager) ListConfigs() ([]*service.ConfigInfo, error) {
	result := make([]*service.ConfigInfo, 0, len(m.configs))
	for name, config := range m.configs {
		result = append(result, service.NewConfigInfo(name+".yaml", name, config))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ConfigID < result[j].ConfigID })
	return result, nil
}

func (m *MockConfigManager) GetDefault() *engine.SimConfig {
	return m.configs["default"]
}

func (m *MockConfigManager) SaveConfig(name string, config *engine.SimConfig) error {
	if err := engine.ValidateSimConfig(config); err != nil {
		return err
	}
	m.configs[name] = config
	return nil
}

func newTestService() (service.GameService, *MockSessionManager) {
	sessions := NewMockSessionManager()
	return service.NewGameService(sessions, NewMockConfigManager()), sessions
}

// Test cases
func TestGameService_CreateSession(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	tests := []struct {
		name       string
		configName string
		wantConfig string
		wantErr    string
	}{
		{
			name:       "create with default config",
			configName: "",
			wantConfig: "default",
		},
		{
			name:       "create with specific config",
			configName: "test",
			wantConfig: "test",
		},
		{
			name:       "create with unknown config",
			configName: "nonexistent",
			wantErr:    "Available configs: [default test]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, err := svc.CreateSession(ctx, tt.configName)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("CreateSession() error = %v, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateSession() unexpected error: %v", err)
			}
			if session.ConfigName != tt.wantConfig {
				t.Errorf("ConfigName = %q, want %q", session.ConfigName, tt.wantConfig)
			}
			if session.Tick != 0 || session.Stats.Robots != 9 {
				t.Errorf("Unexpected fresh session %+v", session.Stats)
			}
			for _, kind := range []engine.Tile{engine.Mineral, engine.Energy, engine.Science} {
				if count, ok := session.BaseResources[kind]; !ok || count != 0 {
					t.Errorf("Expected zero %s at base, got %d (present=%v)", kind, count, ok)
				}
			}
		})
	}
}

func TestGameService_GetListDelete(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	first, err := svc.CreateSession(ctx, "test")
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	second, err := svc.CreateSession(ctx, "")
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	got, err := svc.GetSession(ctx, first.ID)
	if err != nil {
		t.Fatalf("GetSession() error: %v", err)
	}
	if got.ID != first.ID || got.Config.Name != "test" {
		t.Errorf("GetSession() = %+v", got)
	}

	if _, err := svc.GetSession(ctx, "nonexistent"); err == nil || !strings.Contains(err.Error(), "session not found") {
		t.Errorf("Expected session not found, got %v", err)
	}

	list, err := svc.ListSessions(ctx)
	if err != nil {
		t.Fatalf("ListSessions() error: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("Expected 2 sessions, got %d", len(list))
	}

	if err := svc.DeleteSession(ctx, second.ID); err != nil {
		t.Fatalf("DeleteSession() error: %v", err)
	}
	list, _ = svc.ListSessions(ctx)
	if len(list) != 1 || list[0].ID != first.ID {
		t.Errorf("Expected only %s to remain, got %d sessions", first.ID, len(list))
	}
	if err := svc.DeleteSession(ctx, second.ID); err == nil {
		t.Error("Expected error deleting a missing session")
	}
}

func TestGameService_Step(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	info, err := svc.CreateSession(ctx, "test")
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	tests := []struct {
		name          string
		sessionID     string
		ticks         int
		wantRun       int
		wantTick      int
		wantTruncated bool
		wantErr       bool
	}{
		{
			name:      "single tick",
			sessionID: info.ID,
			ticks:     1,
			wantRun:   1,
			wantTick:  1,
		},
		{
			name:      "several ticks",
			sessionID: info.ID,
			ticks:     19,
			wantRun:   19,
			wantTick:  20,
		},
		{
			name:          "truncated to the limit",
			sessionID:     info.ID,
			ticks:         service.MaxStepTicks + 100,
			wantRun:       service.MaxStepTicks,
			wantTick:      20 + service.MaxStepTicks,
			wantTruncated: true,
		},
		{
			name:      "zero ticks",
			sessionID: info.ID,
			ticks:     0,
			wantErr:   true,
		},
		{
			name:      "invalid session",
			sessionID: "nonexistent",
			ticks:     1,
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.Step(ctx, tt.sessionID, tt.ticks)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Step() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if result.TicksRun != tt.wantRun || result.Tick != tt.wantTick {
				t.Errorf("Step() ran %d to tick %d, want %d to tick %d", result.TicksRun, result.Tick, tt.wantRun, tt.wantTick)
			}
			if result.Truncated != tt.wantTruncated {
				t.Errorf("Step() truncated = %v, want %v", result.Truncated, tt.wantTruncated)
			}
			if tt.wantTruncated && result.Limit != service.MaxStepTicks {
				t.Errorf("Step() limit = %d", result.Limit)
			}
			if result.Events == nil {
				t.Error("Step() events should never be nil")
			}
			first := result.Tick - result.TicksRun + 1
			for _, e := range result.Events {
				if e.Tick < first || e.Tick > result.Tick {
					t.Errorf("Event %+v outside ticks %d..%d", e, first, result.Tick)
				}
			}
			if result.Snapshot == nil || result.Snapshot.Tick != result.Tick {
				t.Error("Step() should return the snapshot after the last tick")
			}
		})
	}

	if _, err := svc.Step(ctx, info.ID, -3); !errors.Is(err, service.ErrInvalidTicks) {
		t.Errorf("Expected ErrInvalidTicks, got %v", err)
	}
}

func TestGameService_StepCancelled(t *testing.T) {
	svc, _ := newTestService()
	info, err := svc.CreateSession(context.Background(), "test")
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := svc.Step(ctx, info.ID, 10)
	if err != nil {
		t.Fatalf("Step() error: %v", err)
	}
	if result.TicksRun != 0 || result.Tick != 0 {
		t.Errorf("Expected no ticks after cancellation, got %d", result.TicksRun)
	}
	if !strings.Contains(result.StoppedReason, "cancelled") {
		t.Errorf("Expected a stop reason, got %q", result.StoppedReason)
	}
}

func TestGameService_Reset(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	info, _ := svc.CreateSession(ctx, "test")
	before, err := svc.GetSnapshot(ctx, info.ID)
	if err != nil {
		t.Fatalf("GetSnapshot() error: %v", err)
	}

	if _, err := svc.Step(ctx, info.ID, 40); err != nil {
		t.Fatalf("Step() error: %v", err)
	}

	snap, err := svc.Reset(ctx, info.ID)
	if err != nil {
		t.Fatalf("Reset() error: %v", err)
	}
	if snap.Tick != 0 {
		t.Errorf("Expected tick 0 after reset, got %d", snap.Tick)
	}
	if strings.Join(snap.Rows, "\n") != strings.Join(before.Rows, "\n") {
		t.Error("Expected reset to regenerate the same map")
	}
	if len(snap.Ledger) != 0 {
		t.Errorf("Expected empty ledger after reset, got %d entries", len(snap.Ledger))
	}

	if _, err := svc.Reset(ctx, "nonexistent"); err == nil {
		t.Error("Expected error resetting a missing session")
	}
}

func TestGameService_Autoplay(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	a, _ := svc.CreateSession(ctx, "test")
	b, _ := svc.CreateSession(ctx, "test")

	if ids := svc.AutoplaySessions(ctx); len(ids) != 0 {
		t.Errorf("Expected no autoplay sessions, got %v", ids)
	}

	info, err := svc.SetAutoplay(ctx, b.ID, true)
	if err != nil {
		t.Fatalf("SetAutoplay() error: %v", err)
	}
	if !info.Autoplay {
		t.Error("Expected autoplay to be enabled")
	}
	if _, err := svc.SetAutoplay(ctx, a.ID, true); err != nil {
		t.Fatalf("SetAutoplay() error: %v", err)
	}

	ids := svc.AutoplaySessions(ctx)
	if len(ids) != 2 || ids[0] > ids[1] {
		t.Errorf("Expected two sorted ids, got %v", ids)
	}

	if _, err := svc.SetAutoplay(ctx, a.ID, false); err != nil {
		t.Fatalf("SetAutoplay() error: %v", err)
	}
	if ids := svc.AutoplaySessions(ctx); len(ids) != 1 || ids[0] != b.ID {
		t.Errorf("Expected only %s, got %v", b.ID, ids)
	}

	if _, err := svc.SetAutoplay(ctx, "nonexistent", true); err == nil {
		t.Error("Expected error for missing session")
	}
}

func TestGameService_Configs(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	configs, err := svc.ListConfigs(ctx)
	if err != nil {
		t.Fatalf("ListConfigs() error: %v", err)
	}
	if len(configs) != 2 || configs[1].Robots != 9 {
		t.Errorf("Unexpected configs %+v", configs)
	}

	saved := testConfig("saved")
	saved.Seed = 7
	if err := svc.SaveConfig(ctx, "saved", saved); err != nil {
		t.Fatalf("SaveConfig() error: %v", err)
	}
	loaded, err := svc.LoadConfig(ctx, "saved")
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if loaded.Seed != 7 {
		t.Errorf("Expected seed 7, got %d", loaded.Seed)
	}

	info, err := svc.CreateSession(ctx, "saved")
	if err != nil {
		t.Fatalf("CreateSession() error: %v", err)
	}
	if info.ConfigName != "saved" {
		t.Errorf("Expected config name saved, got %s", info.ConfigName)
	}
}
