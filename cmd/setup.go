package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"devcleaner/infrastructure/config"

	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create configuration file interactively",
	Long: `Prompts for configuration values and creates config.yaml.

This command guides you through choosing the default workspace root,
the candidate roots offered when searching, and how many size probes
may run at once.`,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	return RunSetupWithPrompter(DefaultPrompter, cfgFile, os.Stdout)
}

// RunSetupWithPrompter runs the setup with a given prompter (for testing)
func RunSetupWithPrompter(prompter Prompter, configPath string, out OutputWriter) error {
	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil {
		overwrite, err := prompter.Confirm("config.yaml already exists. Overwrite?", false)
		if err != nil {
			return errPromptCancelled
		}
		if !overwrite {
			fmt.Fprintln(out, "Setup cancelled.")
			return nil
		}
	}

	fmt.Fprintln(out, "Welcome to devcleaner setup!")
	fmt.Fprintln(out)

	cfg := config.Default()

	if err := promptRoots(prompter, cfg); err != nil {
		return err
	}

	if err := promptSize(prompter, cfg); err != nil {
		return err
	}

	if err := config.Save(cfg, configPath); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Configuration saved to %s\n", configPath)
	return nil
}

func promptRoots(prompter Prompter, cfg *config.Config) error {
	root, err := prompter.Input("Default directory to search for node_modules?", config.DefaultRoot)
	if err != nil {
		return errPromptCancelled
	}
	root = strings.TrimSpace(root)
	if root == "" {
		return fmt.Errorf("default root is required")
	}
	cfg.Scan.DefaultRoot = root

	keep, err := prompter.Confirm("Offer the usual workspace folders (~/Developer, ~/Projects, ~/code, ...)?", true)
	if err != nil {
		return errPromptCancelled
	}
	if !keep {
		cfg.Scan.CandidateRoots = []string{root}
	}

	for {
		add, err := prompter.Confirm("Add another workspace folder?", false)
		if err != nil {
			return errPromptCancelled
		}
		if !add {
			break
		}

		extra, err := prompter.Input("  Folder:", "")
		if err != nil {
			return errPromptCancelled
		}
		if extra = strings.TrimSpace(extra); extra == "" {
			return fmt.Errorf("folder is required")
		}
		cfg.Scan.CandidateRoots = append(cfg.Scan.CandidateRoots, extra)
	}

	return nil
}

func promptSize(prompter Prompter, cfg *config.Config) error {
	jobs, err := prompter.Input("How many directories may be measured at once?", strconv.Itoa(cfg.Size.Jobs))
	if err != nil {
		return errPromptCancelled
	}
	if jobs = strings.TrimSpace(jobs); jobs == "" {
		return nil
	}

	n, err := strconv.Atoi(jobs)
	if err != nil || n < 1 {
		return fmt.Errorf("jobs must be a positive number, got %q", jobs)
	}
	cfg.Size.Jobs = n
	return nil
}
