package cleanup

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"devcleaner/domain/cleanup"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// --- Mock implementations for testing ---

// mockScanner implements cleanup.Scanner over a fixed set of directories
type mockScanner struct {
	dirs    []cleanup.DirectoryMatch
	err     error
	windows []cleanup.TimeWindow
}

func (m *mockScanner) Scan(ctx context.Context, root string, window cleanup.TimeWindow) ([]cleanup.DirectoryMatch, error) {
	m.windows = append(m.windows, window)
	if m.err != nil {
		return nil, m.err
	}
	var result []cleanup.DirectoryMatch
	for _, d := range m.dirs {
		if window.Contains(d.ModTime) {
			result = append(result, d)
		}
	}
	return result, nil
}

// mockSizer implements cleanup.Sizer with per-path sizes and failures
type mockSizer struct {
	sizes map[string]int64
	fails map[string]bool
}

func (m *mockSizer) SizeOf(ctx context.Context, path string) (int64, error) {
	if m.fails[path] {
		return 0, fmt.Errorf("permission denied")
	}
	return m.sizes[path], nil
}

// mockRemover implements cleanup.Remover and records every attempt
type mockRemover struct {
	mu       sync.Mutex
	fails     map[string]bool
	leftovers map[string]bool
	attempts  []string
}

func (m *mockRemover) Remove(ctx context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempts = append(m.attempts, path)
	if m.fails[path] {
		return fmt.Errorf("permission denied")
	}
	if m.leftovers[path] {
		return fmt.Errorf("%w: %s: directory not empty", cleanup.ErrPurgeIncomplete, path)
	}
	return nil
}

func fixedClock() time.Time {
	return time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
}

func mustYear(t *testing.T, year int) cleanup.YearBound {
	t.Helper()
	b, err := cleanup.NewYearBound(year, fixedClock().Year())
	if err != nil {
		t.Fatalf("NewYearBound(%d) unexpected error: %v", year, err)
	}
	return b
}

func newTestService(scanner cleanup.Scanner, sizer cleanup.Sizer, remover cleanup.Remover, opts ...Option) *Service {
	base := []Option{WithClock(fixedClock), WithLocation(time.UTC)}
	return NewService(scanner, sizer, remover, append(base, opts...)...)
}

func TestService_Find_YearBound(t *testing.T) {
	scanner := &mockScanner{
		dirs: []cleanup.DirectoryMatch{
			{Path: "/root/b/node_modules", ModTime: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)},
			{Path: "/root/a/node_modules", ModTime: time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC)},
		},
	}
	svc := newTestService(scanner, &mockSizer{}, &mockRemover{})

	matches, err := svc.Find(context.Background(), cleanup.ScanRequest{
		RootPath:  "/root",
		YearBound: mustYear(t, 2021),
	})
	if err != nil {
		t.Fatalf("Find() unexpected error: %v", err)
	}

	if len(matches) != 1 || matches[0].Path != "/root/a/node_modules" {
		t.Errorf("Find() = %v, want only /root/a/node_modules", matches)
	}
	if len(scanner.windows) != 1 {
		t.Errorf("expected a single scan, got %d", len(scanner.windows))
	}
}

func TestService_Find_AllSortedAndUnbounded(t *testing.T) {
	scanner := &mockScanner{
		dirs: []cleanup.DirectoryMatch{
			{Path: "/root/b/node_modules", ModTime: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)},
			{Path: "/root/a/node_modules", ModTime: time.Date(1998, 6, 1, 0, 0, 0, 0, time.UTC)},
		},
	}
	svc := newTestService(scanner, &mockSizer{}, &mockRemover{})

	matches, err := svc.Find(context.Background(), cleanup.ScanRequest{RootPath: "/root", YearBound: cleanup.AllYears()})
	if err != nil {
		t.Fatalf("Find() unexpected error: %v", err)
	}

	if len(matches) != 2 {
		t.Fatalf("Find() returned %d matches, want 2", len(matches))
	}
	if matches[0].Path != "/root/a/node_modules" || matches[1].Path != "/root/b/node_modules" {
		t.Errorf("Find() not sorted by path: %v", matches)
	}
	if !scanner.windows[0].IsUnbounded() {
		t.Errorf("expected unbounded window for all, got %+v", scanner.windows[0])
	}
}

func TestService_Find_PerYearMatchesSingleQuery(t *testing.T) {
	dirs := []cleanup.DirectoryMatch{
		{Path: "/w/x/node_modules", ModTime: time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)},
		{Path: "/w/y/node_modules", ModTime: time.Date(2010, 7, 4, 0, 0, 0, 0, time.UTC)},
		{Path: "/w/z/node_modules", ModTime: time.Date(2022, 12, 31, 23, 0, 0, 0, time.UTC)},
		{Path: "/w/old/node_modules", ModTime: time.Date(1999, 12, 31, 0, 0, 0, 0, time.UTC)},
		{Path: "/w/new/node_modules", ModTime: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	req := cleanup.ScanRequest{RootPath: "/w", YearBound: mustYear(t, 2022)}

	single, err := newTestService(&mockScanner{dirs: dirs}, &mockSizer{}, &mockRemover{}).Find(context.Background(), req)
	if err != nil {
		t.Fatalf("Find() unexpected error: %v", err)
	}

	perYearScanner := &mockScanner{dirs: dirs}
	perYear, err := newTestService(perYearScanner, &mockSizer{}, &mockRemover{}, WithPerYearQueries(true)).Find(context.Background(), req)
	if err != nil {
		t.Fatalf("Find() unexpected error: %v", err)
	}

	if len(perYearScanner.windows) != 23 {
		t.Errorf("per-year mode issued %d scans, want 23", len(perYearScanner.windows))
	}
	if len(single) != 3 || len(perYear) != len(single) {
		t.Fatalf("single = %v, perYear = %v", single, perYear)
	}
	for i := range single {
		if single[i].Path != perYear[i].Path {
			t.Errorf("match %d differs: %s vs %s", i, single[i].Path, perYear[i].Path)
		}
	}
}

func TestService_Find_RootNotFound(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	scanner := &mockScanner{err: fmt.Errorf("%w: /missing", cleanup.ErrPathNotFound)}
	svc := newTestService(scanner, &mockSizer{}, &mockRemover{}, WithLogger(zap.New(core)))

	matches, err := svc.Find(context.Background(), cleanup.ScanRequest{RootPath: "/missing", YearBound: cleanup.AllYears()})
	if err != nil {
		t.Fatalf("Find() expected nil error for missing root, got %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("Find() = %v, want no matches", matches)
	}
	if logs.FilterMessage("root path not found").Len() != 1 {
		t.Errorf("expected a warning about the missing root, got %v", logs.All())
	}
}

func TestService_Find_UnexpectedScanError(t *testing.T) {
	scanner := &mockScanner{err: errors.New("disk on fire")}
	svc := newTestService(scanner, &mockSizer{}, &mockRemover{})

	_, err := svc.Find(context.Background(), cleanup.ScanRequest{RootPath: "/root", YearBound: cleanup.AllYears()})
	if err == nil {
		t.Fatal("Find() expected error, got nil")
	}
}

func TestService_Find_InvalidRequest(t *testing.T) {
	svc := newTestService(&mockScanner{}, &mockSizer{}, &mockRemover{})

	_, err := svc.Find(context.Background(), cleanup.ScanRequest{RootPath: "", YearBound: cleanup.AllYears()})
	if !errors.Is(err, cleanup.ErrInvalidInput) {
		t.Errorf("Find() error = %v, want ErrInvalidInput", err)
	}
}

func TestService_Measure_UnknownSizeDoesNotAbort(t *testing.T) {
	matches := []cleanup.DirectoryMatch{
		{Path: "/a/node_modules"},
		{Path: "/b/node_modules"},
		{Path: "/c/node_modules"},
	}
	sizer := &mockSizer{
		sizes: map[string]int64{"/a/node_modules": 100, "/c/node_modules": 300},
		fails: map[string]bool{"/b/node_modules": true},
	}

	for _, jobs := range []int{1, 3} {
		t.Run(fmt.Sprintf("jobs=%d", jobs), func(t *testing.T) {
			svc := newTestService(&mockScanner{}, sizer, &mockRemover{}, WithSizeJobs(jobs))

			sized := svc.Measure(context.Background(), matches)

			if len(sized) != 3 {
				t.Fatalf("Measure() returned %d entries, want 3", len(sized))
			}
			for i, m := range matches {
				if sized[i].Path != m.Path {
					t.Errorf("Measure()[%d].Path = %s, want %s", i, sized[i].Path, m.Path)
				}
			}
			if !sized[0].SizeKnown || sized[0].SizeBytes != 100 {
				t.Errorf("Measure()[0] = %+v, want 100 bytes known", sized[0])
			}
			if sized[1].SizeKnown {
				t.Errorf("Measure()[1] = %+v, want unknown size", sized[1])
			}
			if !sized[2].SizeKnown || sized[2].SizeBytes != 300 {
				t.Errorf("Measure()[2] = %+v, want 300 bytes known", sized[2])
			}
		})
	}
}

// blockingSizer never finishes until its context is done
type blockingSizer struct{}

func (blockingSizer) SizeOf(ctx context.Context, path string) (int64, error) {
	<-ctx.Done()
	return 0, ctx.Err()
}

func TestService_Measure_Timeout(t *testing.T) {
	svc := newTestService(&mockScanner{}, blockingSizer{}, &mockRemover{}, WithSizeTimeout(10*time.Millisecond))

	sized := svc.Measure(context.Background(), []cleanup.DirectoryMatch{{Path: "/slow/node_modules"}})

	if sized[0].SizeKnown {
		t.Errorf("expected unknown size after timeout, got %+v", sized[0])
	}
}

func TestService_Delete_PartialFailure(t *testing.T) {
	matches := []cleanup.SizedMatch{
		{DirectoryMatch: cleanup.DirectoryMatch{Path: "/a/node_modules"}, SizeBytes: 100, SizeKnown: true},
		{DirectoryMatch: cleanup.DirectoryMatch{Path: "/b/node_modules"}, SizeBytes: 200, SizeKnown: true},
		{DirectoryMatch: cleanup.DirectoryMatch{Path: "/c/node_modules"}},
	}
	remover := &mockRemover{fails: map[string]bool{"/a/node_modules": true}}
	svc := newTestService(&mockScanner{}, &mockSizer{}, remover)

	var seen []string
	report := svc.Delete(context.Background(), matches, func(o cleanup.DeletionOutcome) {
		seen = append(seen, o.Path)
	})

	if len(remover.attempts) != 3 {
		t.Fatalf("expected 3 deletion attempts, got %v", remover.attempts)
	}
	if report.Succeeded() != 2 || report.Failed() != 1 {
		t.Errorf("report = %d succeeded, %d failed, want 2 and 1", report.Succeeded(), report.Failed())
	}
	if !errors.Is(report.Outcomes[0].Err, cleanup.ErrDeletion) {
		t.Errorf("first outcome error = %v, want ErrDeletion", report.Outcomes[0].Err)
	}
	if report.FreedBytes() != 200 {
		t.Errorf("FreedBytes() = %d, want 200", report.FreedBytes())
	}
	for i, m := range matches {
		if report.Outcomes[i].Path != m.Path || seen[i] != m.Path {
			t.Errorf("outcome %d out of order: report %s, callback %s, want %s", i, report.Outcomes[i].Path, seen[i], m.Path)
		}
	}
}

func TestService_Delete_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	remover := &mockRemover{}
	svc := newTestService(&mockScanner{}, &mockSizer{}, remover)

	report := svc.Delete(ctx, []cleanup.SizedMatch{
		{DirectoryMatch: cleanup.DirectoryMatch{Path: "/a/node_modules"}},
		{DirectoryMatch: cleanup.DirectoryMatch{Path: "/b/node_modules"}},
	}, nil)

	if len(remover.attempts) != 0 {
		t.Errorf("expected no removals after cancellation, got %v", remover.attempts)
	}
	if report.Failed() != 2 {
		t.Errorf("Failed() = %d, want 2", report.Failed())
	}
}

func TestService_Delete_StagedLeftoverFreesNothing(t *testing.T) {
	matches := []cleanup.SizedMatch{
		{DirectoryMatch: cleanup.DirectoryMatch{Path: "/a/node_modules"}, SizeBytes: 100, SizeKnown: true},
		{DirectoryMatch: cleanup.DirectoryMatch{Path: "/b/node_modules"}, SizeBytes: 200, SizeKnown: true},
	}
	remover := &mockRemover{leftovers: map[string]bool{"/a/node_modules": true}}
	svc := newTestService(&mockScanner{}, &mockSizer{}, remover)

	report := svc.Delete(context.Background(), matches, nil)

	if report.Succeeded() != 2 || report.Failed() != 0 {
		t.Errorf("report = %d succeeded, %d failed, want 2 and 0", report.Succeeded(), report.Failed())
	}
	if !errors.Is(report.Outcomes[0].Err, cleanup.ErrPurgeIncomplete) {
		t.Errorf("first outcome error = %v, want ErrPurgeIncomplete", report.Outcomes[0].Err)
	}
	if report.Outcomes[0].Freed != 0 {
		t.Errorf("first outcome Freed = %d, want 0", report.Outcomes[0].Freed)
	}
	if report.FreedBytes() != 200 {
		t.Errorf("FreedBytes() = %d, want 200", report.FreedBytes())
	}
}
