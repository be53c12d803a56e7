package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete application configuration
type Config struct {
	Scan ScanConfig `yaml:"scan"`
	Size SizeConfig `yaml:"size"`
	Log  LogConfig  `yaml:"log"`
}

// ScanConfig contains root selection and scan strategy settings
type ScanConfig struct {
	DefaultRoot    string   `yaml:"default_root"`
	CandidateRoots []string `yaml:"candidate_roots"`
	PerYearQueries bool     `yaml:"per_year_queries"`
}

// SizeConfig contains size probing settings
type SizeConfig struct {
	Jobs           int           `yaml:"jobs"`
	Timeout        time.Duration `yaml:"timeout"`
	Apparent       bool          `yaml:"apparent"`
	FollowSymlinks bool          `yaml:"follow_symlinks"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level string `yaml:"level"`
}

// DefaultRoot is the conventional developer workspace offered when nothing else is configured
const DefaultRoot = "~/Developer"

// DefaultCandidateRoots are the workspace roots offered for selection
var DefaultCandidateRoots = []string{
	"~/Developer",
	"~/Projects",
	"~/projects",
	"~/code",
	"~/dev",
	"~/workspace",
	"~/src",
	"~/repos",
}

// Default returns the configuration used when no config file exists
func Default() *Config {
	return &Config{
		Scan: ScanConfig{
			DefaultRoot:    DefaultRoot,
			CandidateRoots: append([]string(nil), DefaultCandidateRoots...),
		},
		Size: SizeConfig{
			Jobs: 4,
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// DefaultPath returns the default config file location
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join("config", "config.yaml")
	}
	return filepath.Join(dir, "devcleaner", "config.yaml")
}

// Load reads and parses the configuration from the specified YAML file.
// Fields missing from the file keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration to the specified YAML file
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks that numeric settings are in range
func (c *Config) Validate() error {
	if c.Size.Jobs < 1 {
		return fmt.Errorf("size.jobs must be at least 1, got %d", c.Size.Jobs)
	}
	if c.Size.Timeout < 0 {
		return fmt.Errorf("size.timeout must not be negative, got %s", c.Size.Timeout)
	}
	return nil
}
