package service

import (
	"errors"
	"time"

	"github.com/wricardo/robot-colony/game/engine"
)

// MaxStepTicks caps the number of ticks a single Step call may run
const MaxStepTicks = 500

// ErrInvalidTicks is returned when a step asks for fewer than one tick
var ErrInvalidTicks = errors.New("ticks must be at least 1")

// SessionInfo provides information about a colony session
type SessionInfo struct {
	ID             string              `json:"id"`
	ConfigName     string              `json:"config_name"`
	CreatedAt      time.Time           `json:"created_at"`
	LastAccessedAt time.Time           `json:"last_accessed_at"`
	Autoplay       bool                `json:"autoplay"`
	Tick           int                 `json:"tick"`
	Stats          engine.Stats        `json:"stats"`
	BaseResources  map[engine.Tile]int `json:"base_resources"`
	Config         *engine.SimConfig   `json:"config"`
}

// StepResult contains the outcome of advancing a session
type StepResult struct {
	RequestedTicks int              `json:"requested_ticks"`
	TicksRun       int              `json:"ticks_run"`
	Truncated      bool             `json:"truncated,omitempty"`
	Limit          int              `json:"limit,omitempty"`
	StoppedReason  string           `json:"stopped_reason,omitempty"`
	Tick           int              `json:"tick"`
	Events         []engine.Event   `json:"events"`
	Stats          engine.Stats     `json:"stats"`
	Snapshot       *engine.Snapshot `json:"snapshot"`
}

// ConfigInfo provides information about a scenario preset
type ConfigInfo struct {
	Filename    string `json:"filename"`
	ConfigID    string `json:"config_id"` // The identifier to use for session creation
	Name        string `json:"name"`      // Display name
	Description string `json:"description"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Seed        int64  `json:"seed"`
	Robots      int    `json:"robots"`
}

// NewConfigInfo summarizes a preset stored in filename under id
func NewConfigInfo(filename, id string, config *engine.SimConfig) *ConfigInfo {
	return &ConfigInfo{
		Filename:    filename,
		ConfigID:    id,
		Name:        config.Name,
		Description: config.Description,
		Width:       config.Width,
		Height:      config.Height,
		Seed:        config.Seed,
		Robots:      config.TotalRobots(),
	}
}
