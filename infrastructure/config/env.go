package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables that override the config file
const (
	EnvRoot     = "DEVCLEANER_ROOT"
	EnvSizeJobs = "DEVCLEANER_SIZE_JOBS"
	EnvLogLevel = "DEVCLEANER_LOG_LEVEL"
)

// LoadDotEnv loads variables from the given .env files into the process
// environment without overriding variables that are already set. Missing
// files are ignored.
func LoadDotEnv(files ...string) error {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overrides cfg with values from the environment
func ApplyEnv(cfg *Config) error {
	return applyEnv(cfg, os.LookupEnv)
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvRoot); ok && strings.TrimSpace(v) != "" {
		cfg.Scan.DefaultRoot = strings.TrimSpace(v)
	}

	if v, ok := lookup(EnvSizeJobs); ok && strings.TrimSpace(v) != "" {
		jobs, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || jobs < 1 {
			return fmt.Errorf("%s must be a positive integer, got %q", EnvSizeJobs, v)
		}
		cfg.Size.Jobs = jobs
	}

	if v, ok := lookup(EnvLogLevel); ok && strings.TrimSpace(v) != "" {
		cfg.Log.Level = strings.TrimSpace(v)
	}

	return nil
}
