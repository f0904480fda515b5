package calendar

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"codestreak/internal/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestBucketsLevel(t *testing.T) {
	buckets := DefaultBuckets()

	tests := []struct {
		count int
		want  int
	}{
		{0, 0},
		{1, 1},
		{2, 2},
		{3, 2},
		{4, 2},
		{5, 3},
		{9, 3},
		{10, 4},
		{250, 4},
	}

	for _, tt := range tests {
		if got := buckets.Level(tt.count); got != tt.want {
			t.Errorf("Level(%d) = %d, want %d", tt.count, got, tt.want)
		}
	}
}

func TestBucketsLevelStable(t *testing.T) {
	buckets := DefaultBuckets()
	for count := 0; count < 100; count++ {
		first := buckets.Level(count)
		for i := 0; i < 5; i++ {
			if got := buckets.Level(count); got != first {
				t.Fatalf("Level(%d) not stable: %d then %d", count, first, got)
			}
		}
	}
}

func TestTrailingWindow(t *testing.T) {
	today := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)

	w, err := TrailingWindow(today, 7)
	if err != nil {
		t.Fatalf("TrailingWindow() error: %v", err)
	}
	if !w.End.Equal(day(2026, 3, 10)) {
		t.Errorf("End = %v, want 2026-03-10 (time of day truncated)", w.End)
	}
	if !w.Start.Equal(day(2026, 3, 4)) {
		t.Errorf("Start = %v, want 2026-03-04", w.Start)
	}

	if _, err := TrailingWindow(today, 0); !errors.Is(err, ErrInvalidDateRange) {
		t.Errorf("TrailingWindow(0) error = %v, want ErrInvalidDateRange", err)
	}
	if _, err := TrailingWindow(today, -5); !errors.Is(err, ErrInvalidDateRange) {
		t.Errorf("TrailingWindow(-5) error = %v, want ErrInvalidDateRange", err)
	}
}

func TestBuildMergesPlatforms(t *testing.T) {
	window := Window{Start: day(2026, 3, 2), End: day(2026, 3, 4)}
	series := map[models.Platform][]models.DayCount{
		models.PlatformLeetCode: {
			{Date: day(2026, 3, 2), Count: 2},
			{Date: day(2026, 3, 3), Count: 1},
		},
		models.PlatformGitHub: {
			{Date: day(2026, 3, 2), Count: 3},
			{Date: day(2026, 3, 4), Count: 7},
		},
	}

	cal, err := Build(series, window, DefaultBuckets())
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	var real []models.ActivityDay
	for _, d := range cal.Days {
		if !d.Placeholder {
			real = append(real, d)
		}
	}

	if len(real) != 3 {
		t.Fatalf("got %d real days, want 3", len(real))
	}

	wantAggregates := []int{5, 1, 7}
	wantLevels := []int{3, 1, 3}
	for i, d := range real {
		if d.AggregateCount != wantAggregates[i] {
			t.Errorf("day %s aggregate = %d, want %d", d.Key(), d.AggregateCount, wantAggregates[i])
		}
		if d.Level != wantLevels[i] {
			t.Errorf("day %s level = %d, want %d", d.Key(), d.Level, wantLevels[i])
		}
	}

	if real[0].Counts[models.PlatformLeetCode] != 2 || real[0].Counts[models.PlatformGitHub] != 3 {
		t.Errorf("per-platform counts not preserved: %v", real[0].Counts)
	}

	if cal.Stats.TotalContributions != 13 {
		t.Errorf("TotalContributions = %d, want 13", cal.Stats.TotalContributions)
	}
}

func TestBuildDatesStrictlyIncreasing(t *testing.T) {
	window := Window{Start: day(2026, 2, 1), End: day(2026, 3, 15)}
	cal, err := Build(nil, window, DefaultBuckets())
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	for i := 1; i < len(cal.Days); i++ {
		if !cal.Days[i].Date.After(cal.Days[i-1].Date) {
			t.Fatalf("dates not strictly increasing at index %d: %v then %v",
				i, cal.Days[i-1].Date, cal.Days[i].Date)
		}
	}
}

func TestBuildPartialPlatformFailure(t *testing.T) {
	// Platform B failed for the whole window: it contributes an empty
	// series. Every date must still reflect platform A's counts; no date
	// is dropped or nulled.
	window := Window{Start: day(2026, 3, 2), End: day(2026, 3, 6)}
	series := map[models.Platform][]models.DayCount{
		models.PlatformCodeforces: {
			{Date: day(2026, 3, 2), Count: 1},
			{Date: day(2026, 3, 3), Count: 2},
			{Date: day(2026, 3, 4), Count: 3},
			{Date: day(2026, 3, 5), Count: 4},
			{Date: day(2026, 3, 6), Count: 5},
		},
		models.PlatformCodeChef: {},
	}

	cal, err := Build(series, window, DefaultBuckets())
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	want := []int{1, 2, 3, 4, 5}
	i := 0
	for _, d := range cal.Days {
		if d.Placeholder {
			continue
		}
		if d.AggregateCount != want[i] {
			t.Errorf("day %s aggregate = %d, want %d", d.Key(), d.AggregateCount, want[i])
		}
		i++
	}
	if i != 5 {
		t.Errorf("got %d real days, want 5", i)
	}
}

func TestBuildIdempotent(t *testing.T) {
	window := Window{Start: day(2026, 3, 1), End: day(2026, 3, 14)}
	series := map[models.Platform][]models.DayCount{
		models.PlatformLeetCode: {
			{Date: day(2026, 3, 3), Count: 4},
			{Date: day(2026, 3, 9), Count: 11},
		},
	}

	first, err := Build(series, window, DefaultBuckets())
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	second, err := Build(series, window, DefaultBuckets())
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Error("rebuilding from identical snapshots must yield identical calendars")
	}
}

func TestBuildGridPadding(t *testing.T) {
	// 2026-03-02 is a Monday, 2026-03-06 a Friday: one leading and one
	// trailing placeholder expected.
	window := Window{Start: day(2026, 3, 2), End: day(2026, 3, 6)}
	cal, err := Build(nil, window, DefaultBuckets())
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	if len(cal.Days)%7 != 0 {
		t.Errorf("padded calendar length %d is not a whole number of weeks", len(cal.Days))
	}
	if cal.Days[0].Date.Weekday() != time.Sunday {
		t.Errorf("first day weekday = %v, want Sunday", cal.Days[0].Date.Weekday())
	}
	if last := cal.Days[len(cal.Days)-1]; last.Date.Weekday() != time.Saturday {
		t.Errorf("last day weekday = %v, want Saturday", last.Date.Weekday())
	}
	if !cal.Days[0].Placeholder {
		t.Error("leading pad day should be a placeholder")
	}
	for _, d := range cal.Days {
		if d.Placeholder && d.AggregateCount != 0 {
			t.Errorf("placeholder day %s carries activity", d.Key())
		}
	}
}

func TestBuildRejectsInvalidWindow(t *testing.T) {
	window := Window{Start: day(2026, 3, 10), End: day(2026, 3, 1)}
	if _, err := Build(nil, window, DefaultBuckets()); !errors.Is(err, ErrInvalidDateRange) {
		t.Errorf("Build() error = %v, want ErrInvalidDateRange", err)
	}
}

func TestBuildRejectsUnknownPlatform(t *testing.T) {
	window := Window{Start: day(2026, 3, 1), End: day(2026, 3, 2)}
	series := map[models.Platform][]models.DayCount{
		models.Platform("atcoder"): {{Date: day(2026, 3, 1), Count: 1}},
	}
	if _, err := Build(series, window, DefaultBuckets()); err == nil {
		t.Error("Build() should reject unknown platform keys")
	}
}
