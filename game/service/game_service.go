package service

import (
	"context"
	"time"

	"github.com/wricardo/robot-colony/game/engine"
)

// GameService defines all colony operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, configName string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Simulation
	Step(ctx context.Context, sessionID string, ticks int) (*StepResult, error)
	Reset(ctx context.Context, sessionID string) (*engine.Snapshot, error)
	GetSnapshot(ctx context.Context, sessionID string) (*engine.Snapshot, error)

	// Autoplay
	SetAutoplay(ctx context.Context, sessionID string, enabled bool) (*SessionInfo, error)
	AutoplaySessions(ctx context.Context) []string

	// Configuration
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configName string) (*engine.SimConfig, error)
	SaveConfig(ctx context.Context, configName string, config *engine.SimConfig) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id, configID string, config *engine.SimConfig) (*Session, error)
	Get(id string) (*Session, error)
	GetOrCreate(id, configID string, config *engine.SimConfig) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
	Replace(id string) (*Session, error)
}

// ConfigManager handles scenario preset loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.SimConfig, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.SimConfig
	SaveConfig(name string, config *engine.SimConfig) error
}

// Session represents one running simulation
type Session struct {
	ID             string
	ConfigID       string
	Sim            *engine.Simulation
	Config         *engine.SimConfig
	Recorder       *engine.EventRecorder
	Autoplay       bool
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
