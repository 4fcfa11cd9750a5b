package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the flat vigil configuration.
type Config struct {
	Version string `json:"version"`
	// DefaultScope limits evaluation to one project when no --scope
	// flag is given. Empty evaluates everything.
	DefaultScope string `json:"default_scope,omitempty"`
	// DBPath overrides the default database location (~/.vigil/vigil.db).
	DBPath string `json:"db_path,omitempty"`
	// Workers bounds pair evaluation parallelism inside one cycle.
	// Zero means the engine default.
	Workers int `json:"workers,omitempty"`
	// PairTimeoutSeconds bounds one (rule, entity) evaluation. Zero
	// means the engine default.
	PairTimeoutSeconds int `json:"pair_timeout_seconds,omitempty"`
}

// LoadConfig reads .vigil/config.json from the specified directory.
// Resolution order: cwd only (no home fallback).
// Returns error if no config found - caller should handle accordingly.
func LoadConfig(dir string) (*Config, error) {
	path := filepath.Join(dir, ".vigil", "config.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}

// SaveConfig writes config.json to directory
func SaveConfig(dir string, cfg *Config) error {
	vigilDir := filepath.Join(dir, ".vigil")
	if err := os.MkdirAll(vigilDir, 0755); err != nil {
		return fmt.Errorf("failed to create .vigil dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	path := filepath.Join(vigilDir, "config.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
