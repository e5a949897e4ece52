package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/wricardo/robot-colony/game/engine"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	mu       sync.RWMutex
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
	}
}

// getConfigID returns the config_id for a given preset name, used for consistent API responses
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return "default"
	}
	return configName
}

func (s *gameServiceImpl) sessionInfo(sess *Session) *SessionInfo {
	stats := sess.Sim.Stats()
	configID := sess.ConfigID
	if configID == "" {
		configID = s.getConfigID(sess.Config.Name)
	}
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     configID,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		Autoplay:       sess.Autoplay,
		Tick:           stats.Tick,
		Stats:          stats,
		BaseResources:  sess.Sim.GetBaseResources(),
		Config:         sess.Config,
	}
}

// CreateSession starts a new simulation from a preset; an empty name uses the default preset
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var config *engine.SimConfig
	var err error
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			// Provide helpful error message with available options
			if strings.Contains(err.Error(), "configuration not found") {
				availableConfigs, listErr := s.configs.ListConfigs()
				if listErr == nil && len(availableConfigs) > 0 {
					var configIDs []string
					for _, cfg := range availableConfigs {
						configIDs = append(configIDs, cfg.ConfigID)
					}
					return nil, fmt.Errorf("config '%s' not found. Available configs: %v", configName, configIDs)
				}
				return nil, fmt.Errorf("config '%s' not found. Use /api/configs to list available configurations", configName)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
	}

	configID := configName
	if configID == "" {
		configID = s.getConfigID(config.Name)
	}

	sess, err := s.sessions.Create("", configID, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return s.sessionInfo(sess), nil
}

// GetSession retrieves session information and refreshes its access time
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	return s.sessionInfo(sess), nil
}

// ListSessions returns all active sessions, oldest first
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess))
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sessions.Delete(sessionID)
}

// Step advances a session by up to MaxStepTicks ticks. Cancelling ctx stops
// between two ticks; a tick is never interrupted.
func (s *gameServiceImpl) Step(ctx context.Context, sessionID string, ticks int) (*StepResult, error) {
	if ticks < 1 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidTicks, ticks)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	result := &StepResult{RequestedTicks: ticks}
	if ticks > MaxStepTicks {
		ticks = MaxStepTicks
		result.Truncated = true
		result.Limit = MaxStepTicks
	}

	// Anything recorded outside a step belongs to nobody
	sess.Recorder.Drain()

	for result.TicksRun < ticks {
		if err := ctx.Err(); err != nil {
			result.StoppedReason = fmt.Sprintf("cancelled after %d ticks: %v", result.TicksRun, err)
			break
		}
		sess.Sim.Update()
		result.TicksRun++
	}

	result.Events = sess.Recorder.Drain()
	if result.Events == nil {
		result.Events = []engine.Event{}
	}
	result.Tick = sess.Sim.Tick()
	result.Stats = sess.Sim.Stats()
	result.Snapshot = sess.Sim.Snapshot()
	return result, nil
}

// Reset rebuilds the session's simulation from its preset
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Replace(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to reset session: %w", err)
	}
	return sess.Sim.Snapshot(), nil
}

// GetSnapshot returns a copy of the session's world
func (s *gameServiceImpl) GetSnapshot(ctx context.Context, sessionID string) (*engine.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)
	return sess.Sim.Snapshot(), nil
}

// SetAutoplay toggles background ticking for a session
func (s *gameServiceImpl) SetAutoplay(ctx context.Context, sessionID string, enabled bool) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	sess.Autoplay = enabled
	s.sessions.UpdateLastAccessed(sessionID)
	return s.sessionInfo(sess), nil
}

// AutoplaySessions lists the ids of sessions with autoplay enabled
func (s *gameServiceImpl) AutoplaySessions(ctx context.Context) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ids []string
	for _, sess := range s.sessions.List() {
		if sess.Autoplay {
			ids = append(ids, sess.ID)
		}
	}
	sort.Strings(ids)
	return ids
}

// ListConfigs returns all available presets
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific preset
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.SimConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a preset
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.SimConfig) error {
	return s.configs.SaveConfig(configName, config)
}
