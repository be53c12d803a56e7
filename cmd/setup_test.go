package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"devcleaner/infrastructure/config"
)

func TestRunSetupWithPrompter_WritesConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config", "config.yaml")
	prompter := &scriptedPrompter{
		inputs:   []string{"~/work", "~/clients", "8"},
		confirms: []bool{false, true, false},
	}
	var out bytes.Buffer

	if err := RunSetupWithPrompter(prompter, path, &out); err != nil {
		t.Fatalf("RunSetupWithPrompter() unexpected error: %v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if cfg.Scan.DefaultRoot != "~/work" {
		t.Errorf("DefaultRoot = %q, want ~/work", cfg.Scan.DefaultRoot)
	}
	want := []string{"~/work", "~/clients"}
	if len(cfg.Scan.CandidateRoots) != 2 || cfg.Scan.CandidateRoots[0] != want[0] || cfg.Scan.CandidateRoots[1] != want[1] {
		t.Errorf("CandidateRoots = %v, want %v", cfg.Scan.CandidateRoots, want)
	}
	if cfg.Size.Jobs != 8 {
		t.Errorf("Jobs = %d, want 8", cfg.Size.Jobs)
	}
	if !strings.Contains(out.String(), "Configuration saved to") {
		t.Errorf("output missing confirmation:\n%s", out.String())
	}
}

func TestRunSetupWithPrompter_DeclineOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	original := "scan:\n  default_root: /keep\n"
	if err := os.WriteFile(path, []byte(original), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	var out bytes.Buffer
	if err := RunSetupWithPrompter(&scriptedPrompter{confirms: []bool{false}}, path, &out); err != nil {
		t.Fatalf("RunSetupWithPrompter() unexpected error: %v", err)
	}

	data, _ := os.ReadFile(path)
	if string(data) != original {
		t.Errorf("config was modified:\n%s", data)
	}
	if !strings.Contains(out.String(), "Setup cancelled.") {
		t.Errorf("output missing cancellation:\n%s", out.String())
	}
}

func TestRunSetupWithPrompter_InvalidJobs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	prompter := &scriptedPrompter{
		inputs:   []string{"~/work", "zero"},
		confirms: []bool{true, false},
	}

	if err := RunSetupWithPrompter(prompter, path, &bytes.Buffer{}); err == nil {
		t.Error("RunSetupWithPrompter() expected error for invalid jobs, got nil")
	}
	if _, err := os.Stat(path); err == nil {
		t.Error("config should not be written after a failed setup")
	}
}
