package cleanup

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"devcleaner/domain/cleanup"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Service finds, measures and deletes node_modules directories
type Service struct {
	scanner     cleanup.Scanner
	sizer       cleanup.Sizer
	remover     cleanup.Remover
	log         *zap.Logger
	now         func() time.Time
	location    *time.Location
	perYear     bool
	sizeJobs    int
	sizeTimeout time.Duration
}

// Option is a functional option for configuring Service
type Option func(*Service)

// WithLogger sets the logger used for non-fatal warnings
func WithLogger(log *zap.Logger) Option {
	return func(s *Service) {
		s.log = log
	}
}

// WithClock sets the clock used to validate year bounds (for testing)
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithLocation sets the time zone that calendar years are evaluated in
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		s.location = loc
	}
}

// WithPerYearQueries makes Find issue one scan per calendar year and union
// the results instead of a single bounded scan
func WithPerYearQueries(enabled bool) Option {
	return func(s *Service) {
		s.perYear = enabled
	}
}

// WithSizeJobs sets how many size probes may run at once
func WithSizeJobs(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.sizeJobs = n
		}
	}
}

// WithSizeTimeout bounds each size probe; zero means no limit
func WithSizeTimeout(d time.Duration) Option {
	return func(s *Service) {
		s.sizeTimeout = d
	}
}

// NewService creates a new cleanup service
func NewService(scanner cleanup.Scanner, sizer cleanup.Sizer, remover cleanup.Remover, opts ...Option) *Service {
	s := &Service{
		scanner:  scanner,
		sizer:    sizer,
		remover:  remover,
		log:      zap.NewNop(),
		now:      time.Now,
		location: time.Local,
		sizeJobs: 1,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Find returns the matches under req.RootPath that satisfy req.YearBound,
// deduplicated and sorted by path. A missing root is not an error: it is
// logged and yields no matches.
func (s *Service) Find(ctx context.Context, req cleanup.ScanRequest) ([]cleanup.DirectoryMatch, error) {
	if err := req.Validate(s.now()); err != nil {
		return nil, err
	}

	windows := []cleanup.TimeWindow{req.YearBound.Window(s.location)}
	if s.perYear {
		windows = req.YearBound.YearWindows(s.location)
	}

	seen := make(map[string]struct{})
	var matches []cleanup.DirectoryMatch

	for _, w := range windows {
		found, err := s.scanner.Scan(ctx, req.RootPath, w)
		if err != nil {
			if errors.Is(err, cleanup.ErrPathNotFound) {
				s.log.Warn("root path not found", zap.String("path", req.RootPath), zap.Error(err))
				return nil, nil
			}
			return nil, fmt.Errorf("failed to scan %s: %w", req.RootPath, err)
		}

		for _, m := range found {
			if _, dup := seen[m.Path]; dup {
				continue
			}
			seen[m.Path] = struct{}{}
			matches = append(matches, m)
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Path < matches[j].Path
	})

	return matches, nil
}

// Measure probes the size of every match. A failed probe marks the size as
// unknown and never aborts the batch. The result has the same order as matches.
func (s *Service) Measure(ctx context.Context, matches []cleanup.DirectoryMatch) []cleanup.SizedMatch {
	sized := make([]cleanup.SizedMatch, len(matches))

	g := new(errgroup.Group)
	g.SetLimit(s.sizeJobs)

	for i, m := range matches {
		g.Go(func() error {
			sized[i] = s.measureOne(ctx, m)
			return nil
		})
	}
	_ = g.Wait()

	return sized
}

func (s *Service) measureOne(ctx context.Context, m cleanup.DirectoryMatch) cleanup.SizedMatch {
	result := cleanup.SizedMatch{DirectoryMatch: m}

	probeCtx := ctx
	if s.sizeTimeout > 0 {
		var cancel context.CancelFunc
		probeCtx, cancel = context.WithTimeout(ctx, s.sizeTimeout)
		defer cancel()
	}

	size, err := s.sizer.SizeOf(probeCtx, m.Path)
	if err != nil {
		if !errors.Is(err, cleanup.ErrSizeProbe) {
			err = fmt.Errorf("%w: %s: %v", cleanup.ErrSizeProbe, m.Path, err)
		}
		s.log.Warn("size unknown", zap.String("path", m.Path), zap.Error(err))
		return result
	}

	result.SizeBytes = size
	result.SizeKnown = true
	return result
}

// Delete removes each match in order. Every item is attempted even when an
// earlier one fails; onOutcome, if set, is called after each attempt. An item
// whose staged copy could not be purged counts as removed with nothing freed.
func (s *Service) Delete(ctx context.Context, matches []cleanup.SizedMatch, onOutcome func(cleanup.DeletionOutcome)) *cleanup.DeletionReport {
	report := &cleanup.DeletionReport{
		Outcomes: make([]cleanup.DeletionOutcome, 0, len(matches)),
	}

	for _, m := range matches {
		outcome := s.deleteOne(ctx, m)
		report.Outcomes = append(report.Outcomes, outcome)
		if onOutcome != nil {
			onOutcome(outcome)
		}
	}

	return report
}

func (s *Service) deleteOne(ctx context.Context, m cleanup.SizedMatch) cleanup.DeletionOutcome {
	outcome := cleanup.DeletionOutcome{Path: m.Path}

	if err := ctx.Err(); err != nil {
		outcome.Err = fmt.Errorf("%w: %s: %v", cleanup.ErrDeletion, m.Path, err)
		return outcome
	}

	if err := s.remover.Remove(ctx, m.Path); err != nil {
		if errors.Is(err, cleanup.ErrPurgeIncomplete) {
			// The path is gone but nothing was freed
			outcome.Succeeded = true
			outcome.Err = err
			return outcome
		}
		if !errors.Is(err, cleanup.ErrDeletion) {
			err = fmt.Errorf("%w: %s: %v", cleanup.ErrDeletion, m.Path, err)
		}
		s.log.Warn("delete failed", zap.String("path", m.Path), zap.Error(err))
		outcome.Err = err
		return outcome
	}

	outcome.Succeeded = true
	if m.SizeKnown {
		outcome.Freed = m.SizeBytes
	}
	return outcome
}
