package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Errors for config management
var (
	ErrRootNotFound  = errors.New("root not found")
	ErrDuplicateRoot = errors.New("root already exists")
)

// ConfigManager provides CRUD operations for config entries
type ConfigManager struct {
	config     *Config
	configPath string
}

// NewConfigManager creates a new config manager
func NewConfigManager(cfg *Config, configPath string) *ConfigManager {
	return &ConfigManager{
		config:     cfg,
		configPath: configPath,
	}
}

// --- Candidate root CRUD ---

// normalizeRoot trims and cleans a root without expanding "~", so the
// file keeps the portable form the user typed
func normalizeRoot(root string) string {
	root = strings.TrimSpace(root)
	if root == "" {
		return ""
	}
	return filepath.Clean(root)
}

// AddRoot adds a candidate root to config
func (m *ConfigManager) AddRoot(root string) error {
	root = normalizeRoot(root)
	if root == "" {
		return fmt.Errorf("root path is required")
	}

	for _, existing := range m.config.Scan.CandidateRoots {
		if normalizeRoot(existing) == root {
			return fmt.Errorf("%w: %q", ErrDuplicateRoot, root)
		}
	}

	m.config.Scan.CandidateRoots = append(m.config.Scan.CandidateRoots, root)
	return Save(m.config, m.configPath)
}

// ListRoots returns all candidate roots in configured order
func (m *ConfigManager) ListRoots() []string {
	return append([]string(nil), m.config.Scan.CandidateRoots...)
}

// RemoveRoot removes a candidate root
func (m *ConfigManager) RemoveRoot(root string) error {
	root = normalizeRoot(root)

	kept := make([]string, 0, len(m.config.Scan.CandidateRoots))
	found := false
	for _, existing := range m.config.Scan.CandidateRoots {
		if normalizeRoot(existing) == root {
			found = true
			continue
		}
		kept = append(kept, existing)
	}
	if !found {
		return fmt.Errorf("%w: %q", ErrRootNotFound, root)
	}

	m.config.Scan.CandidateRoots = kept
	return Save(m.config, m.configPath)
}

// SetDefaultRoot sets the root offered when no candidate exists
func (m *ConfigManager) SetDefaultRoot(root string) error {
	root = normalizeRoot(root)
	if root == "" {
		return fmt.Errorf("root path is required")
	}

	m.config.Scan.DefaultRoot = root
	return Save(m.config, m.configPath)
}
