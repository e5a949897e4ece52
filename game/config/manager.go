package config

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/wricardo/robot-colony/game/engine"
	"github.com/wricardo/robot-colony/game/service"
)

var (
	ErrConfigNotFound = errors.New("configuration not found")
	ErrInvalidConfig  = errors.New("invalid configuration")
)

// DefaultName is the preset used when none is requested
const DefaultName = "classic"

const presetExt = ".yaml"

//go:embed preset.schema.json
var presetSchemaJSON string

var presetSchema = jsonschema.MustCompileString("preset.schema.json", presetSchemaJSON)

// Parse checks a YAML preset against the preset schema and the engine rules
// and returns the decoded scenario
func Parse(data []byte) (*engine.SimConfig, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	// Round-trip through JSON so the validator sees JSON-native types
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := presetSchema.Validate(value); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	config, err := engine.ParseSimConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return config, nil
}

// Manager handles scenario preset loading and caching
type Manager struct {
	configDir     string
	defaultConfig *engine.SimConfig
	configs       map[string]*engine.SimConfig
	mu            sync.RWMutex
}

// NewManager creates a new configuration manager
func NewManager(configDir string) (*Manager, error) {
	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("config directory does not exist: %s", configDir)
	}

	m := &Manager{
		configDir: configDir,
		configs:   make(map[string]*engine.SimConfig),
	}

	if err := m.loadDefaultConfig(); err != nil {
		return nil, fmt.Errorf("failed to load default config: %w", err)
	}

	return m, nil
}

// Dir returns the directory presets are read from
func (m *Manager) Dir() string {
	return m.configDir
}

// LoadConfig loads a preset by name
func (m *Manager) LoadConfig(name string) (*engine.SimConfig, error) {
	name = strings.TrimSuffix(name, presetExt)

	m.mu.RLock()
	if config, exists := m.configs[name]; exists {
		m.mu.RUnlock()
		return config, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if config, exists := m.configs[name]; exists {
		return config, nil
	}

	if strings.ContainsAny(name, `/\`) || name == "" || name == "." || name == ".." {
		return nil, ErrConfigNotFound
	}

	data, err := os.ReadFile(filepath.Join(m.configDir, name+presetExt))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	m.configs[name] = config
	return config, nil
}

// ListConfigs returns information about all available presets, sorted by id.
// Files that fail validation are skipped.
func (m *Manager) ListConfigs() ([]*service.ConfigInfo, error) {
	entries, err := os.ReadDir(m.configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read config directory: %w", err)
	}

	var configs []*service.ConfigInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), presetExt) {
			continue
		}

		name := strings.TrimSuffix(entry.Name(), presetExt)
		config, err := m.LoadConfig(name)
		if err != nil {
			continue
		}

		configs = append(configs, service.NewConfigInfo(entry.Name(), name, config))
	}

	sort.Slice(configs, func(i, j int) bool { return configs[i].ConfigID < configs[j].ConfigID })
	return configs, nil
}

// GetDefault returns the default preset
func (m *Manager) GetDefault() *engine.SimConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultConfig
}

// SetDefault sets the default preset by name
func (m *Manager) SetDefault(name string) error {
	config, err := m.LoadConfig(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultConfig = config
	return nil
}

// RefreshCache drops every cached preset and reloads the default
func (m *Manager) RefreshCache() error {
	m.mu.Lock()
	m.configs = make(map[string]*engine.SimConfig)
	m.mu.Unlock()

	return m.loadDefaultConfig()
}

// loadDefaultConfig picks classic, then the first valid preset, then the
// built-in scenario
func (m *Manager) loadDefaultConfig() error {
	config, err := m.LoadConfig(DefaultName)
	if err != nil {
		configs, listErr := m.ListConfigs()
		if listErr != nil || len(configs) == 0 {
			m.setDefault(engine.DefaultSimConfig())
			return nil
		}

		config, err = m.LoadConfig(configs[0].ConfigID)
		if err != nil {
			m.setDefault(engine.DefaultSimConfig())
			return nil
		}
	}

	m.setDefault(config)
	return nil
}

func (m *Manager) setDefault(config *engine.SimConfig) {
	m.mu.Lock()
	m.defaultConfig = config
	m.mu.Unlock()
}

// SaveConfig validates a preset and writes it as YAML
func (m *Manager) SaveConfig(name string, config *engine.SimConfig) error {
	name = strings.TrimSuffix(name, presetExt)
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return fmt.Errorf("%w: invalid preset name %q", ErrInvalidConfig, name)
	}
	if err := engine.ValidateSimConfig(config); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Reject anything the loader would refuse later
	if _, err := Parse(data); err != nil {
		return err
	}

	configPath := filepath.Join(m.configDir, name+presetExt)
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	m.mu.Lock()
	m.configs[name] = config
	m.mu.Unlock()

	return nil
}
