package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"devcleaner/domain/cleanup"

	"go.uber.org/zap"
)

// Scanner implements cleanup.Scanner by walking the local filesystem
type Scanner struct {
	log *zap.Logger
}

// ScannerOption is a functional option for configuring Scanner
type ScannerOption func(*Scanner)

// WithScanLogger sets the logger used for skipped subtrees
func WithScanLogger(log *zap.Logger) ScannerOption {
	return func(s *Scanner) {
		s.log = log
	}
}

// NewScanner creates a new filesystem scanner
func NewScanner(opts ...ScannerOption) *Scanner {
	s := &Scanner{log: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan implements cleanup.Scanner.
//
// Every directory named node_modules is a candidate and is never descended
// into, so a match can not be nested inside another match. Candidates whose
// modification time falls outside window are dropped. Unreadable subtrees are
// logged and skipped.
func (s *Scanner) Scan(ctx context.Context, root string, window cleanup.TimeWindow) ([]cleanup.DirectoryMatch, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", cleanup.ErrPathNotFound, root, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", cleanup.ErrPathNotFound, abs, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", cleanup.ErrPathNotFound, abs)
	}

	// WalkDir does not follow a symlinked root, so walk its target and
	// report paths under the root as given
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", cleanup.ErrPathNotFound, abs, err)
	}

	var matches []cleanup.DirectoryMatch

	err = filepath.WalkDir(resolved, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if err != nil {
			s.log.Warn("skipping unreadable path",
				zap.String("path", path),
				zap.Error(fmt.Errorf("%w: %v", cleanup.ErrScanIO, err)))
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.IsDir() {
			return nil
		}
		if path != resolved && strings.HasPrefix(d.Name(), stagingPrefix) {
			return filepath.SkipDir
		}
		if d.Name() != cleanup.TargetName {
			return nil
		}

		fi, err := d.Info()
		if err != nil {
			s.log.Warn("skipping vanished directory",
				zap.String("path", path),
				zap.Error(fmt.Errorf("%w: %v", cleanup.ErrScanIO, err)))
			return filepath.SkipDir
		}

		if window.Contains(fi.ModTime()) {
			matches = append(matches, cleanup.DirectoryMatch{
				Path:    underRoot(abs, resolved, path),
				ModTime: fi.ModTime(),
			})
		}

		return filepath.SkipDir
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to walk %s: %w", abs, err)
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Path < matches[j].Path
	})

	return matches, nil
}

// Ensure Scanner implements cleanup.Scanner
var _ cleanup.Scanner = (*Scanner)(nil)

// underRoot rewrites a path found below resolved so it sits below root
func underRoot(root, resolved, path string) string {
	if root == resolved {
		return path
	}
	rel, err := filepath.Rel(resolved, path)
	if err != nil {
		return path
	}
	return filepath.Join(root, rel)
}
