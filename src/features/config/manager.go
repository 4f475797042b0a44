package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

// ErrUnknownFormat is returned by Render for formats other than yaml and json.
var ErrUnknownFormat = errors.New("unknown config format")

// ErrUnknownSection is returned by Render when the section is not a top-level key.
var ErrUnknownSection = errors.New("unknown config section")

// Manager holds the application configuration and provides thread-safe access to it.
type Manager struct {
	mu     sync.RWMutex
	config *Config
}

// NewManager creates a new ConfigManager.
func NewManager(config *Config) *Manager {
	return &Manager{config: config}
}

// Get returns the current configuration.
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config
}

// Render encodes the configuration, or one top-level section of it when section is not empty,
// as "yaml" or "json". Both formats use the keys of the config file.
func (m *Manager) Render(format, section string) ([]byte, error) {
	var v any = m.Get()
	if section != "" {
		sections, err := m.sections()
		if err != nil {
			return nil, err
		}
		s, ok := sections[section]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownSection, section)
		}
		v = s
	}

	switch format {
	case "yaml":
		return yaml.Marshal(v)
	case "json":
		return json.Marshal(v)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// sections returns the configuration keyed by its top-level YAML keys.
func (m *Manager) sections() (map[string]any, error) {
	raw, err := yaml.Marshal(m.Get())
	if err != nil {
		return nil, err
	}
	var sections map[string]any
	if err := yaml.Unmarshal(raw, &sections); err != nil {
		return nil, err
	}
	return sections, nil
}
