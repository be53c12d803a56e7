package cleanup

import "context"

// Scanner finds node_modules directories under a root.
// This is a port that can be implemented by different infrastructure adapters
type Scanner interface {
	// Scan returns every match under root whose modification time falls in window
	Scan(ctx context.Context, root string, window TimeWindow) ([]DirectoryMatch, error)
}

// Sizer computes the total recursive size of a directory tree
type Sizer interface {
	SizeOf(ctx context.Context, path string) (int64, error)
}

// Remover recursively and irreversibly removes a directory tree
type Remover interface {
	Remove(ctx context.Context, path string) error
}

// PathChecker reports whether a directory exists
type PathChecker interface {
	IsDir(path string) bool
}
