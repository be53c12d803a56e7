package cleanup

import "time"

// TimeWindow is a half-open interval [From, Until) of modification times.
// A zero From or Until leaves that end unbounded.
type TimeWindow struct {
	From  time.Time
	Until time.Time
}

// YearWindow returns the window covering a single calendar year in loc
func YearWindow(year int, loc *time.Location) TimeWindow {
	return TimeWindow{
		From:  time.Date(year, time.January, 1, 0, 0, 0, 0, loc),
		Until: time.Date(year+1, time.January, 1, 0, 0, 0, 0, loc),
	}
}

// Contains returns true if t falls inside the window
func (w TimeWindow) Contains(t time.Time) bool {
	if !w.From.IsZero() && t.Before(w.From) {
		return false
	}
	if !w.Until.IsZero() && !t.Before(w.Until) {
		return false
	}
	return true
}

// IsUnbounded returns true if the window applies no filter at all
func (w TimeWindow) IsUnbounded() bool {
	return w.From.IsZero() && w.Until.IsZero()
}
