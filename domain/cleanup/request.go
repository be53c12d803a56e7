package cleanup

import (
	"fmt"
	"strings"
	"time"
)

// ScanRequest describes which root to scan and how to filter matches by year
type ScanRequest struct {
	RootPath  string
	YearBound YearBound
}

// Validate checks that the request names a root and that its bound lies in
// [MinYear, now.Year()]
func (r ScanRequest) Validate(now time.Time) error {
	if strings.TrimSpace(r.RootPath) == "" {
		return fmt.Errorf("%w: root path is required", ErrInvalidInput)
	}
	return r.YearBound.Validate(now.Year())
}
