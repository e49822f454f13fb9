package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

// DirName is the per-project configuration directory.
const DirName = ".prisoners"

// Config holds defaults for simulation commands. Command flags take
// precedence over these values.
type Config struct {
	Strategy  string `json:"strategy,omitempty" env:"PRISONERS_STRATEGY"`
	Count     int    `json:"count,omitempty" env:"PRISONERS_COUNT"`
	Prisoners int    `json:"num_of_prisoners,omitempty" env:"PRISONERS_NUM_OF_PRISONERS"`
	Workers   int    `json:"workers,omitempty" env:"PRISONERS_WORKERS"` // 0 = one per CPU
	Record    bool   `json:"record,omitempty" env:"PRISONERS_RECORD"`   // persist run summaries
	DBPath    string `json:"db_path,omitempty" env:"PRISONERS_DB_PATH"` // empty = ~/.prisoners/prisoners.db
	LogLevel  string `json:"log_level,omitempty" env:"PRISONERS_LOG_LEVEL"`
	LogFormat string `json:"log_format,omitempty" env:"PRISONERS_LOG_FORMAT"` // console or json
	Trace     bool   `json:"trace,omitempty" env:"PRISONERS_TRACE"`
	Metrics   bool   `json:"metrics,omitempty" env:"PRISONERS_METRICS"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LogLevel:  "warn",
		LogFormat: "console",
	}
}

// LoadConfig reads .prisoners/config.json from the specified directory.
// Returns error if no config found - caller should handle accordingly.
func LoadConfig(dir string) (*Config, error) {
	path := filepath.Join(dir, DirName, "config.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// Load resolves the effective configuration: defaults, then the config file
// in dir if one exists, then PRISONERS_* environment variables.
func Load(dir string) (*Config, error) {
	cfg, err := LoadConfig(dir)
	if errors.Is(err, fs.ErrNotExist) {
		cfg = Default()
	} else if err != nil {
		return nil, err
	}

	if err := ParseEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ParseEnv overlays environment variables onto target.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// SaveConfig writes config.json to directory
func SaveConfig(dir string, cfg *Config) error {
	cfgDir := filepath.Join(dir, DirName)
	if err := os.MkdirAll(cfgDir, 0755); err != nil {
		return fmt.Errorf("failed to create %s dir: %w", DirName, err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	path := filepath.Join(cfgDir, "config.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// DefaultDBPath returns ~/.prisoners/prisoners.db.
func DefaultDBPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, DirName, "prisoners.db"), nil
}

// ResolveDBPath returns the configured database path, falling back to
// DefaultDBPath.
func (c *Config) ResolveDBPath() (string, error) {
	if c.DBPath != "" {
		return c.DBPath, nil
	}
	return DefaultDBPath()
}
