package service

import (
	"context"
	"testing"
	"time"

	"codestreak/internal/models"
	"codestreak/internal/platform"
)

// fakeAdapter is a canned platform.Adapter
type fakeAdapter struct {
	p        models.Platform
	activity []models.DayCount
	snapshot models.PlatformSnapshot
	contests []models.Contest
	err      error
}

func (f *fakeAdapter) Platform() models.Platform { return f.p }

func (f *fakeAdapter) DailyActivity(_ context.Context, _ string, _ platform.Window) ([]models.DayCount, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.activity, nil
}

func (f *fakeAdapter) Stats(_ context.Context, _ string) (*models.PlatformSnapshot, error) {
	if f.err != nil {
		return nil, f.err
	}
	snap := f.snapshot
	return &snap, nil
}

func (f *fakeAdapter) Submissions(_ context.Context, _ string, _ time.Time) ([]models.Submission, error) {
	if f.err != nil {
		return nil, f.err
	}
	return nil, nil
}

func (f *fakeAdapter) Contests(_ context.Context) ([]models.Contest, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.contests, nil
}

func day(s string) time.Time {
	t, err := time.Parse(models.DateFormat, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestSyncUserPartialFailure(t *testing.T) {
	good := &fakeAdapter{
		p:        models.PlatformLeetCode,
		activity: []models.DayCount{{Date: day("2026-03-09"), Count: 3}},
		snapshot: models.PlatformSnapshot{Platform: models.PlatformLeetCode, ProblemsSolved: 120, Rating: 1700},
	}
	bad := &fakeAdapter{p: models.PlatformGitHub, err: platform.ErrUpstreamUnavailable}

	registry, err := platform.NewRegistry(good, bad)
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}

	store := newFakeSnapshotStore()
	s := NewSyncService(store, registry, 371, 6*time.Hour)
	s.now = func() time.Time { return testNow }

	user := &models.User{
		ID:       "u1",
		Username: "alice",
		Links: models.PlatformLinks{
			models.PlatformLeetCode: "alice_lc",
			models.PlatformGitHub:   "alice",
		},
	}

	report, err := s.SyncUser(context.Background(), user)
	if err != nil {
		t.Fatalf("SyncUser() error = %v", err)
	}

	if len(report.Synced) != 1 || report.Synced[0] != models.PlatformLeetCode {
		t.Errorf("Synced = %v, want [leetcode]", report.Synced)
	}
	if len(report.Failed) != 1 || report.Failed[0] != models.PlatformGitHub {
		t.Errorf("Failed = %v, want [github]", report.Failed)
	}

	snaps, _ := store.GetSnapshots(context.Background(), "u1")
	if len(snaps) != 1 || snaps[0].Platform != models.PlatformLeetCode {
		t.Fatalf("stored snapshots = %+v, want one leetcode snapshot", snaps)
	}
	if snaps[0].Handle != "alice_lc" || snaps[0].ProblemsSolved != 120 {
		t.Errorf("snapshot = %+v, want handle alice_lc and 120 problems", snaps[0])
	}
	if !snaps[0].FetchedAt.Equal(testNow) {
		t.Errorf("FetchedAt = %v, want %v", snaps[0].FetchedAt, testNow)
	}
}

func TestCalendarFromStoredActivity(t *testing.T) {
	store := newFakeSnapshotStore()
	seed := []models.DayCount{
		{Date: day("2026-03-08"), Count: 2},
		{Date: day("2026-03-09"), Count: 1},
		{Date: day("2026-03-10"), Count: 4},
	}
	if err := store.SaveDailyActivity(context.Background(), "u1", models.PlatformLeetCode, seed); err != nil {
		t.Fatalf("SaveDailyActivity() error = %v", err)
	}
	if err := store.SaveSnapshot(context.Background(), &models.PlatformSnapshot{
		UserID: "u1", Platform: models.PlatformLeetCode, FetchedAt: testNow,
	}); err != nil {
		t.Fatalf("SaveSnapshot() error = %v", err)
	}

	registry, _ := platform.NewRegistry()
	s := NewSyncService(store, registry, 371, 6*time.Hour)
	s.now = func() time.Time { return testNow }

	cal, err := s.Calendar(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Calendar() error = %v", err)
	}

	if cal.Stats.TotalContributions != 7 {
		t.Errorf("TotalContributions = %d, want 7", cal.Stats.TotalContributions)
	}
	if cal.Stats.CurrentStreak != 3 {
		t.Errorf("CurrentStreak = %d, want 3", cal.Stats.CurrentStreak)
	}
	if len(cal.Stale) != 0 {
		t.Errorf("Stale = %v, want empty for a fresh snapshot", cal.Stale)
	}
}

func TestCalendarStaleFlag(t *testing.T) {
	store := newFakeSnapshotStore()
	if err := store.SaveSnapshot(context.Background(), &models.PlatformSnapshot{
		UserID:    "u1",
		Platform:  models.PlatformCodeforces,
		FetchedAt: testNow.Add(-24 * time.Hour),
	}); err != nil {
		t.Fatalf("SaveSnapshot() error = %v", err)
	}

	registry, _ := platform.NewRegistry()
	s := NewSyncService(store, registry, 371, 6*time.Hour)
	s.now = func() time.Time { return testNow }

	cal, err := s.Calendar(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Calendar() error = %v", err)
	}

	if len(cal.Stale) != 1 || cal.Stale[0] != models.PlatformCodeforces {
		t.Errorf("Stale = %v, want [codeforces]", cal.Stale)
	}
}

func TestScoreFromSnapshots(t *testing.T) {
	store := newFakeSnapshotStore()
	snaps := []models.PlatformSnapshot{
		{UserID: "u1", Platform: models.PlatformLeetCode, ProblemsSolved: 150, Rating: 1500, Contests: 4, FetchedAt: testNow},
		{UserID: "u1", Platform: models.PlatformGitHub, Contributions: 200, FetchedAt: testNow},
	}
	for i := range snaps {
		if err := store.SaveSnapshot(context.Background(), &snaps[i]); err != nil {
			t.Fatalf("SaveSnapshot() error = %v", err)
		}
	}
	activity := []models.DayCount{
		{Date: day("2026-03-09"), Count: 1},
		{Date: day("2026-03-10"), Count: 1},
	}
	if err := store.SaveDailyActivity(context.Background(), "u1", models.PlatformGitHub, activity); err != nil {
		t.Fatalf("SaveDailyActivity() error = %v", err)
	}

	registry, _ := platform.NewRegistry()
	s := NewSyncService(store, registry, 371, 6*time.Hour)
	s.now = func() time.Time { return testNow }

	got, err := s.Score(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}

	// problems: 400*150/300 = 200; ratings: 100*1500/3000 = 50;
	// activity: 150*200/400 = 75; consistency: 3*2 + 5*4 = 26.
	if got.Problems != 200 {
		t.Errorf("Problems = %d, want 200", got.Problems)
	}
	if got.Ratings != 50 {
		t.Errorf("Ratings = %d, want 50", got.Ratings)
	}
	if got.Activity != 75 {
		t.Errorf("Activity = %d, want 75", got.Activity)
	}
	if got.Consistency != 26 {
		t.Errorf("Consistency = %d, want 26", got.Consistency)
	}
	if got.Total != 351 {
		t.Errorf("Total = %d, want 351", got.Total)
	}
}
