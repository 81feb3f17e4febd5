package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"cprun/internal/runner/engine"
	"cprun/internal/runner/profile"
	"cprun/pkg/utils/logger"
)

const (
	defaultHTTPAddr        = "127.0.0.1:8090"
	defaultReadTimeout     = 5 * time.Second
	defaultWriteTimeout    = 60 * time.Second
	defaultIdleTimeout     = 60 * time.Second
	defaultShutdownTimeout = 10 * time.Second
)

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"readTimeout"`
	WriteTimeout time.Duration `yaml:"writeTimeout"`
	IdleTimeout  time.Duration `yaml:"idleTimeout"`
}

// EngineConfig holds execution engine settings.
type EngineConfig struct {
	DefaultTimeoutMs     int64 `yaml:"defaultTimeoutMs"`
	SpawnGraceMs         int64 `yaml:"spawnGraceMs"`
	StdoutStderrMaxBytes int64 `yaml:"stdoutStderrMaxBytes"`
	OnlineJudge          bool  `yaml:"onlineJudge"`
	Debug                bool  `yaml:"debug"`
}

// OriginConfig holds origin-file reference detection settings.
type OriginConfig struct {
	// Marker prefixes input text that references another file.
	Marker string `yaml:"marker"`
}

// ServiceConfig holds application service settings.
type ServiceConfig struct {
	MaxConcurrent int `yaml:"maxConcurrent"`
}

// AppConfig holds runner-service config.
type AppConfig struct {
	Server    ServerConfig          `yaml:"server"`
	Logger    logger.Config         `yaml:"logger"`
	Engine    EngineConfig          `yaml:"engine"`
	Origin    OriginConfig          `yaml:"origin"`
	Service   ServiceConfig         `yaml:"service"`
	Languages []profile.ConfigEntry `yaml:"languages"`
}

func loadYAML(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file failed: %w", err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse config file failed: %w", err)
	}
	return nil
}

func loadAppConfig(path string) (*AppConfig, error) {
	var cfg AppConfig
	if err := loadYAML(path, &cfg); err != nil {
		return nil, err
	}
	if len(cfg.Languages) == 0 {
		return nil, fmt.Errorf("at least one language is required")
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = defaultHTTPAddr
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = defaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = defaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = defaultIdleTimeout
	}
	if cfg.Origin.Marker == "" {
		cfg.Origin.Marker = "@file:"
	}
	if cfg.Service.MaxConcurrent <= 0 {
		cfg.Service.MaxConcurrent = 1
	}
	return &cfg, nil
}

func (e EngineConfig) toEngineConfig() engine.Config {
	return engine.Config{
		DefaultTimeoutMs:     e.DefaultTimeoutMs,
		SpawnGraceMs:         e.SpawnGraceMs,
		StdoutStderrMaxBytes: e.StdoutStderrMaxBytes,
		OnlineJudge:          e.OnlineJudge,
		Debug:                e.Debug,
	}
}
