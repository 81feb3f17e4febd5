// Package config loads CLI settings.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds CLI settings.
type Config struct {
	// BaseURL points at the runner service.
	BaseURL string `yaml:"baseURL"`
	// TimeoutSec bounds each request; runs can be slow, default 120.
	TimeoutSec int `yaml:"timeoutSec"`
	// PrettyJSON indents response bodies.
	PrettyJSON bool `yaml:"prettyJSON"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		BaseURL:    "http://127.0.0.1:8090",
		TimeoutSec: 120,
		PrettyJSON: true,
	}
}

// Load reads the config file at path, applying defaults for anything
// missing.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config file failed: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config file failed: %w", err)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = Default().BaseURL
	}
	if cfg.TimeoutSec <= 0 {
		cfg.TimeoutSec = Default().TimeoutSec
	}
	return cfg, nil
}
