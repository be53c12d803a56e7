package cleanup

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MinYear is the earliest year a bound may name. Directories modified
// before it are only reachable with the "all" bound.
const MinYear = 2000

// AllKeyword is the textual form of the unbounded year bound
const AllKeyword = "all"

// YearBound is an inclusive upper limit on the last-modification year.
// The zero value means "all" (no filter).
type YearBound struct {
	year int
}

// AllYears returns the bound that disables the year filter
func AllYears() YearBound {
	return YearBound{}
}

// NewYearBound creates a bound for year, which must lie in [MinYear, currentYear]
func NewYearBound(year, currentYear int) (YearBound, error) {
	if year < MinYear || year > currentYear {
		return YearBound{}, fmt.Errorf("%w: year %d must be between %d and %d", ErrInvalidInput, year, MinYear, currentYear)
	}
	return YearBound{year: year}, nil
}

// ParseYearBound parses "all" or a decimal year
func ParseYearBound(s string, currentYear int) (YearBound, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, AllKeyword) {
		return AllYears(), nil
	}

	year, err := strconv.Atoi(s)
	if err != nil {
		return YearBound{}, fmt.Errorf("%w: %q is not a year", ErrInvalidInput, s)
	}
	return NewYearBound(year, currentYear)
}

// IsAll returns true if the bound applies no filter
func (b YearBound) IsAll() bool {
	return b.year == 0
}

// Year returns the bounding year, or 0 for "all"
func (b YearBound) Year() int {
	return b.year
}

// Validate checks that a bounded year still lies in [MinYear, currentYear]
func (b YearBound) Validate(currentYear int) error {
	if b.IsAll() {
		return nil
	}
	_, err := NewYearBound(b.year, currentYear)
	return err
}

// Window returns the single window [MinYear-01-01, (year+1)-01-01) in loc,
// or an unbounded window for "all"
func (b YearBound) Window(loc *time.Location) TimeWindow {
	if b.IsAll() {
		return TimeWindow{}
	}
	return TimeWindow{
		From:  time.Date(MinYear, time.January, 1, 0, 0, 0, 0, loc),
		Until: time.Date(b.year+1, time.January, 1, 0, 0, 0, 0, loc),
	}
}

// YearWindows returns one window per calendar year from MinYear through the
// bound. The windows partition Window(loc) with no gaps. Returns a single
// unbounded window for "all".
func (b YearBound) YearWindows(loc *time.Location) []TimeWindow {
	if b.IsAll() {
		return []TimeWindow{{}}
	}
	windows := make([]TimeWindow, 0, b.year-MinYear+1)
	for y := MinYear; y <= b.year; y++ {
		windows = append(windows, YearWindow(y, loc))
	}
	return windows
}

// String returns "all" or the year
func (b YearBound) String() string {
	if b.IsAll() {
		return AllKeyword
	}
	return strconv.Itoa(b.year)
}

// RecentYears returns the n calendar years preceding currentYear, newest first
func RecentYears(currentYear, n int) []int {
	years := make([]int, 0, n)
	for i := 1; i <= n; i++ {
		if currentYear-i < MinYear {
			break
		}
		years = append(years, currentYear-i)
	}
	return years
}
