package cleanup

import "time"

// TargetName is the directory base name the scanner looks for
const TargetName = "node_modules"

// DirectoryMatch is a node_modules directory that is not nested inside
// another node_modules directory
type DirectoryMatch struct {
	Path    string    // Absolute, cleaned path
	ModTime time.Time // Last modification time of the directory itself
}

// SizedMatch is a DirectoryMatch annotated with its on-disk size
type SizedMatch struct {
	DirectoryMatch
	SizeBytes int64
	SizeKnown bool // False when the size probe failed
}

// TotalSize sums the known sizes and counts the entries whose size is unknown
func TotalSize(matches []SizedMatch) (bytes int64, unknown int) {
	for _, m := range matches {
		if !m.SizeKnown {
			unknown++
			continue
		}
		bytes += m.SizeBytes
	}
	return bytes, unknown
}

// DeletionOutcome records one attempted deletion
type DeletionOutcome struct {
	Path      string
	Succeeded bool
	Err       error
	Freed     int64 // Known size of the deleted directory, 0 when unknown or failed
}

// DeletionReport holds the outcomes of a batch in the order they were attempted
type DeletionReport struct {
	Outcomes []DeletionOutcome
}

// Succeeded returns the number of successful deletions
func (r *DeletionReport) Succeeded() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Succeeded {
			n++
		}
	}
	return n
}

// Failed returns the number of failed deletions
func (r *DeletionReport) Failed() int {
	return len(r.Outcomes) - r.Succeeded()
}

// FreedBytes returns the total known size of the deleted directories
func (r *DeletionReport) FreedBytes() int64 {
	var total int64
	for _, o := range r.Outcomes {
		total += o.Freed
	}
	return total
}
