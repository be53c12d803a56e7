package cleanup

import "errors"

var (
	// ErrPathNotFound is returned when a root path does not exist or is not a directory
	ErrPathNotFound = errors.New("path not found")

	// ErrScanIO is reported when a subtree cannot be read during a scan
	ErrScanIO = errors.New("scan I/O error")

	// ErrSizeProbe is returned when the size of a match cannot be computed
	ErrSizeProbe = errors.New("size probe failed")

	// ErrDeletion is returned when a match cannot be removed
	ErrDeletion = errors.New("deletion failed")

	// ErrPurgeIncomplete is returned when a match left its path but the staged
	// copy could not be purged, so its space is still in use
	ErrPurgeIncomplete = errors.New("staged copy not purged")

	// ErrInvalidInput is returned when a user-supplied year or path fails validation
	ErrInvalidInput = errors.New("invalid input")
)
