//go:build integration

package steps

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	appcleanup "devcleaner/application/cleanup"
	"devcleaner/cmd"
	"devcleaner/domain/cleanup"
	"devcleaner/infrastructure/config"
	"devcleaner/infrastructure/filesystem"

	"github.com/cucumber/godog"
)

// MockPrompter implements cmd.Prompter for testing
type MockPrompter struct {
	confirm bool
}

func (m *MockPrompter) Input(message string, defaultValue string) (string, error) {
	if defaultValue != "" {
		return defaultValue, nil
	}
	return "", fmt.Errorf("no input response available for message: %s", message)
}

func (m *MockPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	return m.confirm, nil
}

func (m *MockPrompter) Select(message string, options []string, defaultValue string) (string, error) {
	return defaultValue, nil
}

// failingRemover fails for selected paths and delegates the rest
type failingRemover struct {
	fails map[string]bool
	next  cleanup.Remover
}

func (r *failingRemover) Remove(ctx context.Context, path string) error {
	if r.fails[path] {
		return fmt.Errorf("%w: %s: permission denied", cleanup.ErrDeletion, path)
	}
	return r.next.Remove(ctx, path)
}

// cleanupContext holds test state for cleanup scenarios
type cleanupContext struct {
	tempDir  string
	root     string
	failing  map[string]bool
	matches  []cleanup.DirectoryMatch
	output   bytes.Buffer
	err      error
	clockNow time.Time
}

// SharedCleanupContext is reset before each scenario via Before hook
var SharedCleanupContext *cleanupContext

func getCleanupContext() *cleanupContext {
	return SharedCleanupContext
}

func InitializeCleanupScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		tempDir, err := os.MkdirTemp("", "devcleaner-test-*")
		if err != nil {
			return c, err
		}
		SharedCleanupContext = &cleanupContext{
			tempDir:  tempDir,
			root:     filepath.Join(tempDir, "workspace"),
			failing:  make(map[string]bool),
			clockNow: time.Date(2025, 6, 1, 12, 0, 0, 0, time.Local),
		}
		return c, os.MkdirAll(SharedCleanupContext.root, 0755)
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if SharedCleanupContext != nil && SharedCleanupContext.tempDir != "" {
			os.RemoveAll(SharedCleanupContext.tempDir)
		}
		SharedCleanupContext = nil
		return c, nil
	})

	ctx.Step(`^a workspace with node_modules directories:$`, aWorkspaceWithNodeModulesDirectories)
	ctx.Step(`^the workspace root does not exist$`, theWorkspaceRootDoesNotExist)
	ctx.Step(`^deleting "([^"]*)" fails$`, deletingFails)
	ctx.Step(`^I search for node_modules from "([^"]*)" years$`, iSearchForNodeModulesFromYears)
	ctx.Step(`^I run the cleaner for "([^"]*)" years and (confirm|decline)$`, iRunTheCleanerForYears)
	ctx.Step(`^the matches should be:$`, theMatchesShouldBe)
	ctx.Step(`^the output should contain "([^"]*)"$`, theOutputShouldContain)
	ctx.Step(`^"([^"]*)" should still exist$`, shouldStillExist)
	ctx.Step(`^"([^"]*)" should not exist$`, shouldNotExist)
	ctx.Step(`^the run should succeed$`, theRunShouldSucceed)
}

func (c *cleanupContext) abs(rel string) string {
	return filepath.Join(c.root, filepath.FromSlash(rel))
}

func (c *cleanupContext) newService() *appcleanup.Service {
	remover := &failingRemover{fails: c.failing, next: filesystem.NewRemover()}
	return appcleanup.NewService(
		filesystem.NewScanner(),
		filesystem.NewSizer(filesystem.WithApparentSize(true)),
		remover,
		appcleanup.WithClock(func() time.Time { return c.clockNow }),
	)
}

func aWorkspaceWithNodeModulesDirectories(table *godog.Table) error {
	c := getCleanupContext()

	mtimes := make(map[string]time.Time)
	var paths []string
	for i, row := range table.Rows {
		if i == 0 {
			continue // Skip header row
		}
		rel := row.Cells[0].Value
		mt, err := time.ParseInLocation("2006-01-02", row.Cells[1].Value, time.Local)
		if err != nil {
			return fmt.Errorf("invalid date %q: %v", row.Cells[1].Value, err)
		}
		if err := os.MkdirAll(c.abs(rel), 0755); err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(c.abs(rel), "package.json"), []byte("{}"), 0644); err != nil {
			return err
		}
		mtimes[rel] = mt
		paths = append(paths, rel)
	}

	// Children first, so setting a parent's time is the last write to it
	sort.Slice(paths, func(i, j int) bool { return len(paths[i]) > len(paths[j]) })
	for _, rel := range paths {
		if err := os.Chtimes(c.abs(rel), mtimes[rel], mtimes[rel]); err != nil {
			return err
		}
	}
	return nil
}

func theWorkspaceRootDoesNotExist() error {
	c := getCleanupContext()
	c.root = filepath.Join(c.tempDir, "missing")
	return nil
}

func deletingFails(rel string) error {
	c := getCleanupContext()
	c.failing[c.abs(rel)] = true
	return nil
}

func iSearchForNodeModulesFromYears(year string) error {
	c := getCleanupContext()

	bound, err := cleanup.ParseYearBound(year, c.clockNow.Year())
	if err != nil {
		return err
	}

	c.matches, c.err = c.newService().Find(context.Background(), cleanup.ScanRequest{
		RootPath:  c.root,
		YearBound: bound,
	})
	return nil
}

func iRunTheCleanerForYears(year, answer string) error {
	c := getCleanupContext()

	deps := cmd.CleanDependencies{
		Service:  c.newService(),
		Checker:  filesystem.NewChecker(),
		Prompter: &MockPrompter{confirm: answer == "confirm"},
		Now:      func() time.Time { return c.clockNow },
	}
	c.err = cmd.RunCleanWithDependencies(context.Background(), config.Default(), deps,
		cmd.CleanOptions{RootPath: c.root, Year: year}, &c.output)
	return nil
}

func theMatchesShouldBe(table *godog.Table) error {
	c := getCleanupContext()
	if c.err != nil {
		return fmt.Errorf("search failed: %v", c.err)
	}

	var expected []string
	for i, row := range table.Rows {
		if i == 0 {
			continue // Skip header row
		}
		expected = append(expected, c.abs(row.Cells[0].Value))
	}

	actual := make([]string, len(c.matches))
	for i, m := range c.matches {
		actual[i] = m.Path
	}

	if strings.Join(actual, "\n") != strings.Join(expected, "\n") {
		return fmt.Errorf("expected matches %v, got %v", expected, actual)
	}
	return nil
}

func theOutputShouldContain(text string) error {
	c := getCleanupContext()
	if !strings.Contains(c.output.String(), text) {
		return fmt.Errorf("expected output to contain %q, got:\n%s", text, c.output.String())
	}
	return nil
}

func shouldStillExist(rel string) error {
	c := getCleanupContext()
	if _, err := os.Stat(c.abs(rel)); err != nil {
		return fmt.Errorf("expected %s to exist: %v", rel, err)
	}
	return nil
}

func shouldNotExist(rel string) error {
	c := getCleanupContext()
	if _, err := os.Stat(c.abs(rel)); !os.IsNotExist(err) {
		return fmt.Errorf("expected %s to be gone, stat error: %v", rel, err)
	}
	return nil
}

func theRunShouldSucceed() error {
	c := getCleanupContext()
	if c.err != nil {
		return fmt.Errorf("expected success, got error: %v", c.err)
	}
	return nil
}
