package session

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wricardo/robot-colony/game/engine"
	"github.com/wricardo/robot-colony/game/service"
)

var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionAlreadyExists = errors.New("session already exists")
	ErrInvalidSessionID     = errors.New("invalid session ID")
)

// idLength is the number of hex characters in a generated session ID
const idLength = 8

// ObserverFactory builds an extra observer for a new simulation run
type ObserverFactory func(sessionID string) engine.Observer

// Option configures a Manager
type Option func(*Manager)

// WithObserverFactory attaches an observer to every simulation the manager builds
func WithObserverFactory(factory ObserverFactory) Option {
	return func(m *Manager) {
		m.observers = factory
	}
}

// Manager handles colony session lifecycle
type Manager struct {
	sessions  map[string]*service.Session
	observers ObserverFactory
	mu        sync.RWMutex
}

// NewManager creates a new session manager
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		sessions: make(map[string]*service.Session),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create creates a new session with the given ID and configuration
func (m *Manager) Create(id, configID string, config *engine.SimConfig) (*service.Session, error) {
	if strings.ContainsAny(id, "/\\ ") {
		return nil, ErrInvalidSessionID
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if id == "" {
		id = m.generateSessionID()
	}

	if m.sessionExists(id) {
		return nil, ErrSessionAlreadyExists
	}

	sim, recorder, err := m.build(id, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create simulation: %w", err)
	}

	now := time.Now()
	session := &service.Session{
		ID:             id,
		ConfigID:       configID,
		Sim:            sim,
		Config:         config,
		Recorder:       recorder,
		CreatedAt:      now,
		LastAccessedAt: now,
	}

	m.sessions[strings.ToLower(id)] = session
	return session, nil
}

// build runs the simulation constructor with the session's observers attached
func (m *Manager) build(id string, config *engine.SimConfig) (*engine.Simulation, *engine.EventRecorder, error) {
	recorder := engine.NewEventRecorder()
	observers := engine.MultiObserver{recorder}
	if m.observers != nil {
		if extra := m.observers(id); extra != nil {
			observers = append(observers, extra)
		}
	}

	sim, err := engine.NewSimulation(config, engine.WithObserver(observers))
	if err != nil {
		return nil, nil, err
	}

	// Spawn events are reported by the snapshot, not by a step
	recorder.Drain()
	return sim, recorder, nil
}

// Get retrieves a session by ID (case-insensitive)
func (m *Manager) Get(id string) (*service.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, exists := m.sessions[strings.ToLower(id)]
	if !exists {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// GetOrCreate gets an existing session or creates a new one
func (m *Manager) GetOrCreate(id, configID string, config *engine.SimConfig) (*service.Session, error) {
	session, err := m.Get(id)
	if err == nil {
		return session, nil
	}

	if errors.Is(err, ErrSessionNotFound) {
		return m.Create(id, configID, config)
	}

	return nil, err
}

// List returns all active sessions
func (m *Manager) List() []*service.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*service.Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		result = append(result, session)
	}

	return result
}

// Delete removes a session
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	lowerID := strings.ToLower(id)
	if _, exists := m.sessions[lowerID]; !exists {
		return ErrSessionNotFound
	}
	delete(m.sessions, lowerID)
	return nil
}

// UpdateLastAccessed updates the last accessed time for a session
func (m *Manager) UpdateLastAccessed(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, exists := m.sessions[strings.ToLower(id)]
	if !exists {
		return ErrSessionNotFound
	}

	session.LastAccessedAt = time.Now()
	return nil
}

// Replace starts a fresh run of the session's preset. The session keeps its
// ID, creation time and autoplay flag.
func (m *Manager) Replace(id string) (*service.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, exists := m.sessions[strings.ToLower(id)]
	if !exists {
		return nil, ErrSessionNotFound
	}

	sim, recorder, err := m.build(session.ID, session.Config)
	if err != nil {
		return nil, fmt.Errorf("failed to rebuild simulation: %w", err)
	}

	session.Sim = sim
	session.Recorder = recorder
	session.LastAccessedAt = time.Now()
	return session, nil
}

// CleanupExpiredSessions removes sessions that haven't been accessed in the given duration
func (m *Manager) CleanupExpiredSessions(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	removed := 0

	for id, session := range m.sessions {
		if session.LastAccessedAt.Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}

	return removed
}

// Count returns the number of active sessions
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// generateSessionID returns an unused 8-character hex ID. Callers hold m.mu.
func (m *Manager) generateSessionID() string {
	for {
		id := strings.ReplaceAll(uuid.NewString(), "-", "")[:idLength]
		if !m.sessionExists(id) {
			return id
		}
	}
}

// sessionExists checks if a session exists (case-insensitive)
func (m *Manager) sessionExists(id string) bool {
	_, exists := m.sessions[strings.ToLower(id)]
	return exists
}
