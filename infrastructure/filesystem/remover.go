package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"devcleaner/domain/cleanup"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// stagingPrefix names the hidden sibling a directory is moved to before removal
const stagingPrefix = ".devcleaner-"

// Remover implements cleanup.Remover.
//
// A directory is first renamed to a hidden sibling and only then removed, so
// the original path is either untouched (rename failed) or gone entirely.
type Remover struct {
	log *zap.Logger
}

// RemoverOption is a functional option for configuring Remover
type RemoverOption func(*Remover)

// WithRemoveLogger sets the logger used when a staged tree can not be purged
func WithRemoveLogger(log *zap.Logger) RemoverOption {
	return func(r *Remover) {
		r.log = log
	}
}

// NewRemover creates a new filesystem remover
func NewRemover(opts ...RemoverOption) *Remover {
	r := &Remover{log: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Remove implements cleanup.Remover
func (r *Remover) Remove(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %s: %v", cleanup.ErrDeletion, path, err)
	}

	clean := filepath.Clean(path)
	if filepath.Base(clean) != cleanup.TargetName {
		return fmt.Errorf("%w: refusing to remove %s: not a %s directory", cleanup.ErrDeletion, clean, cleanup.TargetName)
	}

	info, err := os.Lstat(clean)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", cleanup.ErrDeletion, clean, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", cleanup.ErrDeletion, clean)
	}

	staged := filepath.Join(filepath.Dir(clean), stagingPrefix+uuid.NewString())
	if err := os.Rename(clean, staged); err != nil {
		return fmt.Errorf("%w: %s: %v", cleanup.ErrDeletion, clean, err)
	}

	if err := os.RemoveAll(staged); err != nil {
		r.log.Warn("removed path but could not purge staged copy",
			zap.String("path", clean),
			zap.String("staged", staged),
			zap.Error(err))
		return fmt.Errorf("%w: %s left at %s: %v", cleanup.ErrPurgeIncomplete, clean, staged, err)
	}

	return nil
}

// Ensure Remover implements cleanup.Remover
var _ cleanup.Remover = (*Remover)(nil)
