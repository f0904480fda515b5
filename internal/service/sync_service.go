package service

import (
	"context"
	"sync"
	"time"

	"codestreak/internal/calendar"
	"codestreak/internal/logger"
	"codestreak/internal/models"
	"codestreak/internal/platform"
	"codestreak/internal/score"
)

// SnapshotStore persists platform snapshots and daily activity series
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, snap *models.PlatformSnapshot) error
	GetSnapshots(ctx context.Context, userID string) ([]models.PlatformSnapshot, error)
	SaveDailyActivity(ctx context.Context, userID string, platform models.Platform, series []models.DayCount) error
	GetDailyActivity(ctx context.Context, userID string, start, end time.Time) (map[models.Platform][]models.DayCount, error)
}

// SyncService fetches activity from every linked platform, persists the
// normalized results, and materializes calendars and scores from them
type SyncService struct {
	snapshots SnapshotStore
	registry  *platform.Registry

	windowDays int
	staleAfter time.Duration
	scoreCfg   score.Config

	now func() time.Time
}

// NewSyncService creates a new sync service
func NewSyncService(snapshots SnapshotStore, registry *platform.Registry, windowDays int, staleAfter time.Duration) *SyncService {
	return &SyncService{
		snapshots:  snapshots,
		registry:   registry,
		windowDays: windowDays,
		staleAfter: staleAfter,
		scoreCfg:   score.DefaultConfig(),
		now:        time.Now,
	}
}

// SyncReport lists which platforms synced and which degraded during one run
type SyncReport struct {
	Synced []models.Platform
	Failed []models.Platform
}

type fetchResult struct {
	platform models.Platform
	handle   string
	activity []models.DayCount
	snapshot *models.PlatformSnapshot
	err      error
}

// SyncUser fetches every linked platform in parallel, one goroutine each. A
// failing platform is reported and skipped; the rest of the sync proceeds
// with partial results.
func (s *SyncService) SyncUser(ctx context.Context, user *models.User) (*SyncReport, error) {
	window, err := calendar.TrailingWindow(s.now(), s.windowDays)
	if err != nil {
		return nil, err
	}

	var wg sync.WaitGroup
	results := make(chan fetchResult, len(user.Links))

	for p, handle := range user.Links {
		adapter, err := s.registry.Get(p)
		if err != nil {
			logger.Warning("sync %s: %v", user.Username, err)
			continue
		}

		wg.Add(1)
		go func(a platform.Adapter, p models.Platform, handle string) {
			defer wg.Done()
			results <- s.fetchPlatform(ctx, a, p, handle, window)
		}(adapter, p, handle)
	}

	wg.Wait()
	close(results)

	report := &SyncReport{}
	fetchedAt := s.now()

	for res := range results {
		if res.err != nil {
			logger.Warning("sync %s/%s degraded: %v", user.Username, res.platform, res.err)
			report.Failed = append(report.Failed, res.platform)
			continue
		}

		if err := s.snapshots.SaveDailyActivity(ctx, user.ID, res.platform, res.activity); err != nil {
			return nil, err
		}

		snap := res.snapshot
		snap.UserID = user.ID
		snap.Handle = res.handle
		snap.FetchedAt = fetchedAt
		if err := s.snapshots.SaveSnapshot(ctx, snap); err != nil {
			return nil, err
		}

		report.Synced = append(report.Synced, res.platform)
	}

	logger.Info("synced %s: %d platforms ok, %d degraded",
		user.Username, len(report.Synced), len(report.Failed))
	return report, nil
}

func (s *SyncService) fetchPlatform(ctx context.Context, a platform.Adapter, p models.Platform, handle string, window calendar.Window) fetchResult {
	res := fetchResult{platform: p, handle: handle}

	res.activity, res.err = a.DailyActivity(ctx, handle, platform.Window{Start: window.Start, End: window.End})
	if res.err != nil {
		return res
	}

	res.snapshot, res.err = a.Stats(ctx, handle)
	return res
}

// Calendar builds the user's contribution calendar over the trailing window
// from stored activity. Platforms whose snapshot is older than the staleness
// threshold are flagged on the result.
func (s *SyncService) Calendar(ctx context.Context, userID string) (*models.ContributionCalendar, error) {
	now := s.now()
	window, err := calendar.TrailingWindow(now, s.windowDays)
	if err != nil {
		return nil, err
	}

	series, err := s.snapshots.GetDailyActivity(ctx, userID, window.Start, window.End)
	if err != nil {
		return nil, err
	}

	cal, err := calendar.Build(series, window, calendar.DefaultBuckets())
	if err != nil {
		return nil, err
	}

	snaps, err := s.snapshots.GetSnapshots(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, snap := range snaps {
		if snap.Stale(now, s.staleAfter) {
			cal.Stale = append(cal.Stale, snap.Platform)
		}
	}

	return &cal, nil
}

// Score computes the user's composite coding score from the latest snapshots
// and the calendar-derived current streak
func (s *SyncService) Score(ctx context.Context, userID string) (models.UserScore, error) {
	snaps, err := s.snapshots.GetSnapshots(ctx, userID)
	if err != nil {
		return models.UserScore{}, err
	}

	cal, err := s.Calendar(ctx, userID)
	if err != nil {
		return models.UserScore{}, err
	}

	in := score.Input{
		Ratings:       map[models.Platform]int{},
		CurrentStreak: cal.Stats.CurrentStreak,
	}
	for _, snap := range snaps {
		in.ProblemsSolved += snap.ProblemsSolved
		in.ExternalContributions += snap.Contributions
		in.ContestsParticipated += snap.Contests
		if snap.Rating > 0 {
			in.Ratings[snap.Platform] = snap.Rating
		}
	}

	return score.Compute(in, s.scoreCfg), nil
}

// Snapshots returns the user's stored platform snapshots
func (s *SyncService) Snapshots(ctx context.Context, userID string) ([]models.PlatformSnapshot, error) {
	return s.snapshots.GetSnapshots(ctx, userID)
}
