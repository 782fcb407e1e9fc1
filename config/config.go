// Package config loads effect scope settings and binding maps from YAML
// files, with optional hot reload.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/go-effects/perform/effects"
)

// ScopeSettings sizes one named handler scope.
type ScopeSettings struct {
	BufferSize int `yaml:"buffer_size"`
	NumWorkers int `yaml:"num_workers"`
}

// Config is the full configuration file:
//
//	scopes:
//	  effects.state:
//	    buffer_size: 8
//	    num_workers: 4
//	bindings:
//	  service_name: checkout
type Config struct {
	Scopes   map[string]ScopeSettings `yaml:"scopes"`
	Bindings map[string]any           `yaml:"bindings"`
}

var (
	ErrInvalidBufferSize = errors.New("buffer_size must not be negative")
	ErrInvalidNumWorkers = errors.New("num_workers must not be negative")
)

// Default returns an empty configuration; every scope falls back to
// buffer size 1, one worker.
func Default() *Config {
	return &Config{
		Scopes:   make(map[string]ScopeSettings),
		Bindings: make(map[string]any),
	}
}

// Parse decodes and validates YAML configuration data.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Scopes == nil {
		cfg.Scopes = make(map[string]ScopeSettings)
	}
	if cfg.Bindings == nil {
		cfg.Bindings = make(map[string]any)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads and parses the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects negative sizes. Zero means "use the default".
func (c *Config) Validate() error {
	for name, s := range c.Scopes {
		if s.BufferSize < 0 {
			return fmt.Errorf("scope %s: %w", name, ErrInvalidBufferSize)
		}
		if s.NumWorkers < 0 {
			return fmt.Errorf("scope %s: %w", name, ErrInvalidNumWorkers)
		}
	}
	return nil
}

// ScopeConfig resolves the settings for the named scope, clamped to the
// library defaults when absent or zero.
func (c *Config) ScopeConfig(name string) effects.ScopeConfig {
	s := c.Scopes[name]
	return effects.NewScopeConfig(s.BufferSize, s.NumWorkers)
}
