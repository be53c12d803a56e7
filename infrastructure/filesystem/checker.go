package filesystem

import (
	"os"

	"devcleaner/domain/cleanup"
)

// Checker implements cleanup.PathChecker using the os package
type Checker struct{}

// NewChecker creates a new filesystem checker
func NewChecker() *Checker {
	return &Checker{}
}

// Exists returns true if the path exists
func (c *Checker) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// IsDir returns true if the path exists and is a directory
func (c *Checker) IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// ExistingDirs returns the paths that are existing directories, in input order
func (c *Checker) ExistingDirs(paths []string) []string {
	var dirs []string
	for _, p := range paths {
		if c.IsDir(p) {
			dirs = append(dirs, p)
		}
	}
	return dirs
}

// Ensure Checker implements cleanup.PathChecker
var _ cleanup.PathChecker = (*Checker)(nil)
