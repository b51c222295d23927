// Package config loads kwradar's YAML configuration.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"kwradar/pkg/demand"
)

// Config is the root configuration.
type Config struct {
	Database  DatabaseConfig  `yaml:"database"`
	Estimate  EstimateConfig  `yaml:"estimate"`
	Discovery DiscoveryConfig `yaml:"discovery"`
	Server    ServerConfig    `yaml:"server"`
}

// DatabaseConfig configures the SQLite run-history store.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// EstimateConfig configures the demand estimation engine.
type EstimateConfig struct {
	// Scope is the requested app scope: auto, ios_only, android_only, dual.
	Scope string `yaml:"scope"`
	// Weights are the per-source fusion weights.
	Weights demand.Weights `yaml:"weights"`
}

// DiscoveryConfig configures the keyword discovery miners.
type DiscoveryConfig struct {
	Country     string `yaml:"country"`
	Limit       int    `yaml:"limit"`         // results per seed
	MinTokenLen int    `yaml:"min_token_len"`
	Top         int    `yaml:"top"`   // candidates kept
	Chart       string `yaml:"chart"` // top-charts feed name
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{Path: "./kwradar.db"},
		Estimate: EstimateConfig{
			Scope:   string(demand.ScopeAuto),
			Weights: demand.DefaultWeights(),
		},
		Discovery: DiscoveryConfig{
			Country:     "us",
			Limit:       50,
			MinTokenLen: 3,
			Top:         120,
			Chart:       "topfreeapplications",
		},
		Server: ServerConfig{Port: 8080},
	}
}

// Load reads configuration from a YAML file and applies env var overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// applyEnvOverrides overrides config values with environment variables.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("KWRADAR_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("KWRADAR_COUNTRY"); v != "" {
		cfg.Discovery.Country = v
	}
	if v := os.Getenv("KWRADAR_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
}
