package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	appcleanup "devcleaner/application/cleanup"
	"devcleaner/domain/cleanup"
	"devcleaner/infrastructure/config"
	"devcleaner/infrastructure/filesystem"
	"devcleaner/infrastructure/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	manualRootOption = "Enter a path manually"
	allYearsOption   = "All node_modules"
	customYearOption = "Custom year"
)

var errPromptCancelled = errors.New("prompt cancelled")

// CleanOptions contains the flag values of the clean flow
type CleanOptions struct {
	RootPath  string
	Year      string
	DryRun    bool
	AssumeYes bool
}

// CleanDependencies holds the collaborators of the clean flow
type CleanDependencies struct {
	Service  *appcleanup.Service
	Checker  cleanup.PathChecker
	Prompter Prompter
	Now      func() time.Time
}

func runClean(cmd *cobra.Command, args []string) error {
	cfg, err := GetConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	level := cfg.Log.Level
	if verbose {
		level = "debug"
	}
	log, err := logging.New(level, os.Stderr)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	service := NewCleanService(cfg, log)

	deps := CleanDependencies{
		Service:  service,
		Checker:  filesystem.NewChecker(),
		Prompter: DefaultPrompter,
		Now:      time.Now,
	}

	return RunCleanWithDependencies(cmd.Context(), cfg, deps, cleanOpts, os.Stdout)
}

// NewCleanService wires the production filesystem adapters into a cleanup service
func NewCleanService(cfg *config.Config, log *zap.Logger) *appcleanup.Service {
	scanner := filesystem.NewScanner(filesystem.WithScanLogger(log))
	sizer := filesystem.NewSizer(
		filesystem.WithApparentSize(cfg.Size.Apparent),
		filesystem.WithFollowSymlinks(cfg.Size.FollowSymlinks),
	)
	remover := filesystem.NewRemover(filesystem.WithRemoveLogger(log))

	return appcleanup.NewService(scanner, sizer, remover,
		appcleanup.WithLogger(log),
		appcleanup.WithPerYearQueries(cfg.Scan.PerYearQueries),
		appcleanup.WithSizeJobs(cfg.Size.Jobs),
		appcleanup.WithSizeTimeout(cfg.Size.Timeout),
	)
}

// RunCleanWithDependencies runs the interactive clean flow with injected dependencies
func RunCleanWithDependencies(ctx context.Context, cfg *config.Config, deps CleanDependencies, opts CleanOptions, out OutputWriter) error {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	r := NewRenderer(out)
	r.Banner()

	root, err := resolveRoot(deps.Prompter, deps.Checker, cfg, opts.RootPath, out)
	if err != nil {
		return err
	}

	bound, err := resolveYearBound(deps.Prompter, opts.Year, now().Year(), out)
	if err != nil {
		return err
	}

	r.Searching(root, bound)

	matches, err := deps.Service.Find(ctx, cleanup.ScanRequest{RootPath: root, YearBound: bound})
	if err != nil {
		return err
	}

	action := cleanup.ClassifyAction(len(matches), opts.DryRun, opts.AssumeYes)
	if action == cleanup.ActionNone {
		r.NoMatches()
		return nil
	}

	sized := deps.Service.Measure(ctx, matches)
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("interrupted while measuring sizes: %w", err)
	}
	if err := r.Matches(sized); err != nil {
		return err
	}

	switch action {
	case cleanup.ActionList:
		return nil
	case cleanup.ActionConfirm:
		confirmed, err := deps.Prompter.Confirm("Do you want to delete these node_modules directories?", false)
		if err != nil {
			return fmt.Errorf("%w: %v", errPromptCancelled, err)
		}
		if !confirmed {
			r.Cancelled()
			return nil
		}
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("interrupted before deleting: %w", err)
	}

	r.DeletingHeader()
	report := deps.Service.Delete(ctx, sized, r.Outcome)
	r.Summary(report)

	return nil
}

// resolveRoot returns the flag path, or asks the user to pick one of the
// configured roots that exist, or to type a path
func resolveRoot(prompter Prompter, checker cleanup.PathChecker, cfg *config.Config, flagPath string, out OutputWriter) (string, error) {
	if flagPath != "" {
		return filesystem.ExpandHome(flagPath), nil
	}

	var candidates []string
	seen := make(map[string]bool)
	for _, p := range filesystem.ExpandAll(cfg.Scan.CandidateRoots) {
		if seen[p] || !checker.IsDir(p) {
			continue
		}
		seen[p] = true
		candidates = append(candidates, p)
	}

	if len(candidates) > 0 {
		options := append(append([]string(nil), candidates...), manualRootOption)
		choice, err := prompter.Select("Where do you want to search for node_modules?", options, candidates[0])
		if err != nil {
			return "", fmt.Errorf("%w: %v", errPromptCancelled, err)
		}
		if choice != manualRootOption {
			return choice, nil
		}
	}

	defaultRoot := cfg.Scan.DefaultRoot
	if defaultRoot == "" {
		defaultRoot = config.DefaultRoot
	}
	defaultRoot = filesystem.ExpandHome(defaultRoot)

	for {
		input, err := prompter.Input("Which directory should be searched for node_modules?", defaultRoot)
		if err != nil {
			return "", fmt.Errorf("%w: %v", errPromptCancelled, err)
		}
		if root := filesystem.ExpandHome(input); root != "" {
			return root, nil
		}
		fmt.Fprintln(out, "Please enter a directory path.")
	}
}

// resolveYearBound parses the flag value, or asks the user to choose "all",
// one of the last three years, or a custom year
func resolveYearBound(prompter Prompter, flagYear string, currentYear int, out OutputWriter) (cleanup.YearBound, error) {
	if flagYear != "" {
		return cleanup.ParseYearBound(flagYear, currentYear)
	}

	options := []string{allYearsOption}
	years := make(map[string]int)
	for _, y := range cleanup.RecentYears(currentYear, 3) {
		label := fmt.Sprintf("Only from %d and earlier", y)
		options = append(options, label)
		years[label] = y
	}
	options = append(options, customYearOption)

	choice, err := prompter.Select("Which node_modules do you want to clean?", options, allYearsOption)
	if err != nil {
		return cleanup.YearBound{}, fmt.Errorf("%w: %v", errPromptCancelled, err)
	}

	switch choice {
	case allYearsOption:
		return cleanup.AllYears(), nil
	case customYearOption:
		return promptCustomYear(prompter, currentYear, out)
	default:
		y, ok := years[choice]
		if !ok {
			return cleanup.YearBound{}, fmt.Errorf("%w: unknown choice %q", cleanup.ErrInvalidInput, choice)
		}
		return cleanup.NewYearBound(y, currentYear)
	}
}

func promptCustomYear(prompter Prompter, currentYear int, out OutputWriter) (cleanup.YearBound, error) {
	for {
		input, err := prompter.Input(fmt.Sprintf("Enter the year (for example, %d):", currentYear-1), "")
		if err != nil {
			return cleanup.YearBound{}, fmt.Errorf("%w: %v", errPromptCancelled, err)
		}

		year, convErr := strconv.Atoi(strings.TrimSpace(input))
		if convErr == nil {
			bound, err := cleanup.NewYearBound(year, currentYear)
			if err == nil {
				return bound, nil
			}
		}
		fmt.Fprintf(out, "Please enter a valid year between %d and %d.\n", cleanup.MinYear, currentYear)
	}
}
