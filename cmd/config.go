package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"devcleaner/domain/cleanup"
	"devcleaner/infrastructure/config"
	"devcleaner/infrastructure/filesystem"

	"github.com/spf13/cobra"
)

// DefaultOutput is the default output writer for config commands
var DefaultOutput OutputWriter = os.Stdout

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration entries",
	Long: `Manage the workspace folders offered when choosing where to search.

Examples:
  devcleaner config list roots
  devcleaner config add root ~/work
  devcleaner config remove root ~/work
  devcleaner config set-default ~/code`,
}

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.AddCommand(configAddCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configRemoveCmd)
	configCmd.AddCommand(configSetDefaultCmd)
}

// loadConfigForEdit reads the config file without environment overrides so
// that saving it does not persist them
func loadConfigForEdit() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if errors.Is(err, fs.ErrNotExist) {
		return config.Default(), nil
	}
	return cfg, err
}

// --- ADD command ---

var configAddCmd = &cobra.Command{
	Use:   "add root <path>",
	Short: "Add a workspace folder",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfigForEdit()
		if err != nil {
			return err
		}
		return RunConfigAddWithDependencies(cfg, cfgFile, args[0], args[1], DefaultOutput)
	},
}

// RunConfigAddWithDependencies runs the add command with injected dependencies
func RunConfigAddWithDependencies(cfg *config.Config, configPath, entityType, value string, out OutputWriter) error {
	if entityType != "root" {
		return fmt.Errorf("unknown entity type %q. Use root", entityType)
	}

	mgr := config.NewConfigManager(cfg, configPath)
	if err := mgr.AddRoot(value); err != nil {
		return err
	}
	fmt.Fprintf(out, "Added root %q\n", value)
	return nil
}

// --- LIST command ---

var configListCmd = &cobra.Command{
	Use:   "list roots",
	Short: "List workspace folders",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfigForEdit()
		if err != nil {
			return err
		}
		return RunConfigListWithDependencies(cfg, cfgFile, args[0], filesystem.NewChecker(), DefaultOutput)
	},
}

// RunConfigListWithDependencies runs the list command with injected dependencies
func RunConfigListWithDependencies(cfg *config.Config, configPath, entityType string, checker cleanup.PathChecker, out OutputWriter) error {
	if entityType != "roots" {
		return fmt.Errorf("unknown entity type %q. Use roots", entityType)
	}

	mgr := config.NewConfigManager(cfg, configPath)
	roots := mgr.ListRoots()
	if len(roots) == 0 {
		fmt.Fprintln(out, "No roots configured.")
		return nil
	}

	fmt.Fprintf(out, "Default: %s\n\n", cfg.Scan.DefaultRoot)
	for _, root := range roots {
		marker := " "
		if checker.IsDir(filesystem.ExpandHome(root)) {
			marker = "*"
		}
		fmt.Fprintf(out, "%s %s\n", marker, root)
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "* exists on this machine")
	return nil
}

// --- REMOVE command ---

var configRemoveCmd = &cobra.Command{
	Use:   "remove root <path>",
	Short: "Remove a workspace folder",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfigForEdit()
		if err != nil {
			return err
		}
		return RunConfigRemoveWithDependencies(cfg, cfgFile, args[0], args[1], DefaultOutput)
	},
}

// RunConfigRemoveWithDependencies runs the remove command with injected dependencies
func RunConfigRemoveWithDependencies(cfg *config.Config, configPath, entityType, value string, out OutputWriter) error {
	if entityType != "root" {
		return fmt.Errorf("unknown entity type %q. Use root", entityType)
	}

	mgr := config.NewConfigManager(cfg, configPath)
	if err := mgr.RemoveRoot(value); err != nil {
		return err
	}
	fmt.Fprintf(out, "Removed root %q\n", value)
	return nil
}

// --- SET-DEFAULT command ---

var configSetDefaultCmd = &cobra.Command{
	Use:   "set-default <path>",
	Short: "Set the directory suggested when typing a path",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfigForEdit()
		if err != nil {
			return err
		}
		mgr := config.NewConfigManager(cfg, cfgFile)
		if err := mgr.SetDefaultRoot(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(DefaultOutput, "Default root set to %q\n", args[0])
		return nil
	},
}
