package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"devcleaner/domain/cleanup"
)

// maxDepth bounds recursion when directory identities are unavailable
const maxDepth = 256

type fileID struct {
	dev uint64
	ino uint64
}

// Sizer implements cleanup.Sizer by walking a directory tree
type Sizer struct {
	apparent       bool
	followSymlinks bool
}

// SizerOption is a functional option for configuring Sizer
type SizerOption func(*Sizer)

// WithApparentSize sums file lengths instead of allocated blocks
func WithApparentSize(enabled bool) SizerOption {
	return func(s *Sizer) {
		s.apparent = enabled
	}
}

// WithFollowSymlinks makes the sizer descend into symlinked directories
func WithFollowSymlinks(enabled bool) SizerOption {
	return func(s *Sizer) {
		s.followSymlinks = enabled
	}
}

// NewSizer creates a new filesystem sizer
func NewSizer(opts ...SizerOption) *Sizer {
	s := &Sizer{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SizeOf implements cleanup.Sizer. Each directory and each multiply-linked
// file is counted once per call, which also stops symlink loops.
func (s *Sizer) SizeOf(ctx context.Context, path string) (int64, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", cleanup.ErrSizeProbe, path, err)
	}

	w := &sizeWalk{
		ctx:   ctx,
		sizer: s,
		seen:  make(map[fileID]struct{}),
	}

	if !info.IsDir() {
		return w.fileSize(info), nil
	}

	total, err := w.dir(path, info, 0)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", cleanup.ErrSizeProbe, path, err)
	}
	return total, nil
}

type sizeWalk struct {
	ctx   context.Context
	sizer *Sizer
	seen  map[fileID]struct{}
}

// visit marks info as seen and reports whether it was new
func (w *sizeWalk) visit(info os.FileInfo) bool {
	id, ok := identify(info)
	if !ok {
		return true
	}
	if _, dup := w.seen[id]; dup {
		return false
	}
	w.seen[id] = struct{}{}
	return true
}

func (w *sizeWalk) fileSize(info os.FileInfo) int64 {
	if w.sizer.apparent {
		if info.Mode().IsRegular() {
			return info.Size()
		}
		return 0
	}
	return diskUsage(info)
}

func (w *sizeWalk) dir(path string, info os.FileInfo, depth int) (int64, error) {
	if err := w.ctx.Err(); err != nil {
		return 0, err
	}
	if depth > maxDepth {
		return 0, fmt.Errorf("directory nesting exceeds %d levels at %s", maxDepth, path)
	}
	if !w.visit(info) {
		return 0, nil
	}

	var total int64
	if !w.sizer.apparent {
		total = diskUsage(info)
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return 0, err
	}

	for _, entry := range entries {
		child := filepath.Join(path, entry.Name())

		fi, err := os.Lstat(child)
		if err != nil {
			return 0, err
		}

		if fi.Mode()&os.ModeSymlink != 0 {
			if !w.sizer.followSymlinks {
				total += w.fileSize(fi)
				continue
			}
			target, err := os.Stat(child)
			if err != nil {
				// Dangling link
				total += w.fileSize(fi)
				continue
			}
			fi = target
		}

		if fi.IsDir() {
			n, err := w.dir(child, fi, depth+1)
			if err != nil {
				return 0, err
			}
			total += n
			continue
		}

		if linkCount(fi) > 1 && !w.visit(fi) {
			continue
		}
		total += w.fileSize(fi)
	}

	return total, nil
}

// Ensure Sizer implements cleanup.Sizer
var _ cleanup.Sizer = (*Sizer)(nil)
