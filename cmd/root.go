package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"devcleaner/infrastructure/config"

	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	cfg       *config.Config
	cfgErr    error
	verbose   bool
	cleanOpts CleanOptions
)

var rootCmd = &cobra.Command{
	Use:   "devcleaner",
	Short: "Find and remove old node_modules directories",
	Long: `devcleaner scans a workspace for node_modules directories, filters them
by the year they were last modified, shows how much space each one uses and,
after confirmation, deletes them.

Nested node_modules directories (dependencies of dependencies) are never
listed on their own; removing the outer directory removes them too.

Examples:
  devcleaner
  devcleaner --path ~/Developer --year 2023
  devcleaner --path ~/code --year all --dry-run`,
	SilenceUsage: true,
	RunE:         runClean,
}

// Execute runs the root command with a context that is cancelled on interrupt
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	releaseOnDone(ctx, stop)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

// releaseOnDone calls stop once ctx is done. After the first interrupt the
// default handling comes back, so a second one kills a run stuck in a slow
// removal or size walk.
func releaseOnDone(ctx context.Context, stop context.CancelFunc) {
	go func() {
		<-ctx.Done()
		stop()
	}()
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/devcleaner/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug details to stderr")

	rootCmd.Flags().StringVarP(&cleanOpts.RootPath, "path", "p", "", "Directory to search (prompted when omitted)")
	rootCmd.Flags().StringVarP(&cleanOpts.Year, "year", "y", "", `Only directories last modified in this year or earlier, or "all" (prompted when omitted)`)
	rootCmd.Flags().BoolVar(&cleanOpts.DryRun, "dry-run", false, "List matches without deleting anything")
	rootCmd.Flags().BoolVar(&cleanOpts.AssumeYes, "yes", false, "Delete without asking for confirmation")
}

func initConfig() {
	if err := config.LoadDotEnv(".env"); err != nil {
		cfgErr = err
		return
	}

	if cfgFile == "" {
		cfgFile = config.DefaultPath()
	}

	loaded, err := config.Load(cfgFile)
	switch {
	case err == nil:
		cfg = loaded
	case errors.Is(err, fs.ErrNotExist):
		// The config file is optional; defaults cover every setting
		cfg = config.Default()
	default:
		cfgErr = err
		return
	}

	if err := config.ApplyEnv(cfg); err != nil {
		cfgErr = err
	}
}

// GetConfig returns the loaded configuration
func GetConfig() (*config.Config, error) {
	if cfgErr != nil {
		return nil, cfgErr
	}
	if cfg == nil {
		return config.Default(), nil
	}
	return cfg, nil
}
