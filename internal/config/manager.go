// Package config handles the user's persistent configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ChamsBouzaiene/promptstitch/internal/schema"
	"github.com/ChamsBouzaiene/promptstitch/internal/version"
)

// Config holds persistent preferences for the CLI and pipeline.
type Config struct {
	DataDir         string `json:"data_dir,omitempty"`         // Library database and search index location
	RegistryPath    string `json:"registry_path,omitempty"`    // Vocabulary registry file
	DefaultTier     string `json:"default_tier,omitempty"`     // Tier assumed when input omits one
	StrictTemplates bool   `json:"strict_templates"`           // Reject unhonorable custom template requests
	TemplateVersion string `json:"template_version,omitempty"` // Override for metadata template tag
	EngineVersion   string `json:"engine_version,omitempty"`   // Override for metadata engine tag
}

// Manager handles loading and saving the configuration.
type Manager struct {
	configDir string
}

// NewManager creates a configuration manager rooted at the user config
// directory.
func NewManager() (*Manager, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user config dir: %w", err)
	}

	return &Manager{configDir: filepath.Join(configDir, "promptstitch")}, nil
}

// GetConfigPath returns the absolute path to the config.json file.
func (m *Manager) GetConfigPath() string {
	return filepath.Join(m.configDir, "config.json")
}

// Load reads the configuration from disk, applying defaults. A missing
// file yields the default configuration and no error.
func (m *Manager) Load() (*Config, error) {
	cfg := &Config{}

	path := m.GetConfigPath()
	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config json: %w", err)
		}
	}

	m.applyDefaults(cfg)
	return cfg, nil
}

func (m *Manager) applyDefaults(cfg *Config) {
	if cfg.DataDir == "" {
		cfg.DataDir = filepath.Join(m.configDir, "data")
	}
	if cfg.RegistryPath == "" {
		cfg.RegistryPath = filepath.Join(m.configDir, "registry.json")
	}
	if cfg.DefaultTier == "" {
		cfg.DefaultTier = string(schema.DefaultTier)
	}
	if cfg.TemplateVersion == "" {
		cfg.TemplateVersion = version.DefaultTemplateVersion
	}
	if cfg.EngineVersion == "" {
		cfg.EngineVersion = version.DefaultEngineVersion
	}
}

// Save writes the configuration to disk.
func (m *Manager) Save(cfg *Config) error {
	if err := os.MkdirAll(m.configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(m.GetConfigPath(), data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Exists checks if the configuration file has been created.
func (m *Manager) Exists() bool {
	_, err := os.Stat(m.GetConfigPath())
	return !os.IsNotExist(err)
}
