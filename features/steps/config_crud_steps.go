//go:build integration

package steps

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"devcleaner/cmd"
	"devcleaner/infrastructure/config"
	"devcleaner/infrastructure/filesystem"

	"github.com/cucumber/godog"
)

type configCrudContext struct {
	tempDir    string
	configPath string
	config     *config.Config
	output     *bytes.Buffer
	err        error
}

var SharedConfigCrudContext = &configCrudContext{}

func InitializeConfigCrudScenario(ctx *godog.ScenarioContext) {
	testCtx := SharedConfigCrudContext

	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		tempDir, err := os.MkdirTemp("", "config-crud-test-*")
		if err != nil {
			return c, err
		}
		testCtx.tempDir = tempDir
		testCtx.configPath = filepath.Join(tempDir, "config.yaml")
		testCtx.output = &bytes.Buffer{}
		testCtx.err = nil
		testCtx.config = nil
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if testCtx.tempDir != "" {
			os.RemoveAll(testCtx.tempDir)
		}
		return c, nil
	})

	ctx.Step(`^a config file with roots:$`, testCtx.aConfigFileWithRoots)
	ctx.Step(`^the root "([^"]*)" exists on disk$`, testCtx.theRootExistsOnDisk)
	ctx.Step(`^I run config add root "([^"]*)"$`, testCtx.iRunConfigAddRoot)
	ctx.Step(`^I run config remove root "([^"]*)"$`, testCtx.iRunConfigRemoveRoot)
	ctx.Step(`^I run config list roots$`, testCtx.iRunConfigListRoots)
	ctx.Step(`^the saved roots should be:$`, testCtx.theSavedRootsShouldBe)
	ctx.Step(`^the config command should succeed$`, testCtx.theConfigCommandShouldSucceed)
	ctx.Step(`^the config command should fail with "([^"]*)"$`, testCtx.theConfigCommandShouldFailWith)
	ctx.Step(`^the config output should contain "([^"]*)"$`, testCtx.theConfigOutputShouldContain)
}

// resolve maps a "{tmp}" placeholder onto the scenario's temp directory
func (c *configCrudContext) resolve(root string) string {
	return strings.ReplaceAll(root, "{tmp}", c.tempDir)
}

func (c *configCrudContext) aConfigFileWithRoots(table *godog.Table) error {
	cfg := config.Default()
	cfg.Scan.CandidateRoots = nil
	for i, row := range table.Rows {
		if i == 0 {
			continue // Skip header row
		}
		cfg.Scan.CandidateRoots = append(cfg.Scan.CandidateRoots, c.resolve(row.Cells[0].Value))
	}
	if err := config.Save(cfg, c.configPath); err != nil {
		return fmt.Errorf("failed to write config: %v", err)
	}
	c.config = cfg
	return nil
}

func (c *configCrudContext) theRootExistsOnDisk(root string) error {
	return os.MkdirAll(c.resolve(root), 0755)
}

func (c *configCrudContext) iRunConfigAddRoot(root string) error {
	c.err = cmd.RunConfigAddWithDependencies(c.config, c.configPath, "root", c.resolve(root), c.output)
	return nil
}

func (c *configCrudContext) iRunConfigRemoveRoot(root string) error {
	c.err = cmd.RunConfigRemoveWithDependencies(c.config, c.configPath, "root", c.resolve(root), c.output)
	return nil
}

func (c *configCrudContext) iRunConfigListRoots() error {
	c.err = cmd.RunConfigListWithDependencies(c.config, c.configPath, "roots", filesystem.NewChecker(), c.output)
	return nil
}

func (c *configCrudContext) theSavedRootsShouldBe(table *godog.Table) error {
	saved, err := config.Load(c.configPath)
	if err != nil {
		return fmt.Errorf("failed to reload config: %v", err)
	}

	var expected []string
	for i, row := range table.Rows {
		if i == 0 {
			continue
		}
		expected = append(expected, c.resolve(row.Cells[0].Value))
	}

	if strings.Join(saved.Scan.CandidateRoots, "\n") != strings.Join(expected, "\n") {
		return fmt.Errorf("expected roots %v, got %v", expected, saved.Scan.CandidateRoots)
	}
	return nil
}

func (c *configCrudContext) theConfigCommandShouldSucceed() error {
	if c.err != nil {
		return fmt.Errorf("expected success, got error: %v", c.err)
	}
	return nil
}

func (c *configCrudContext) theConfigCommandShouldFailWith(text string) error {
	if c.err == nil {
		return fmt.Errorf("expected error containing %q, got success", text)
	}
	if !strings.Contains(c.err.Error(), text) {
		return fmt.Errorf("expected error containing %q, got: %v", text, c.err)
	}
	return nil
}

func (c *configCrudContext) theConfigOutputShouldContain(text string) error {
	out := c.output.String()
	if !strings.Contains(out, c.resolve(text)) {
		return fmt.Errorf("expected output to contain %q, got:\n%s", text, out)
	}
	return nil
}
