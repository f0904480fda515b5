package service

import (
	"context"
	"time"

	"codestreak/internal/logger"
	"codestreak/internal/models"
	"codestreak/internal/platform"
)

// ContestStore persists the contest catalog
type ContestStore interface {
	UpsertContest(ctx context.Context, c *models.Contest) (int64, error)
	ListUpcoming(ctx context.Context, now time.Time, p models.Platform) ([]models.Contest, error)
}

// ContestService keeps the contest catalog fresh from the platform adapters
// and serves list and calendar views of it
type ContestService struct {
	store    ContestStore
	registry *platform.Registry

	now func() time.Time
}

// NewContestService creates a new contest service
func NewContestService(store ContestStore, registry *platform.Registry) *ContestService {
	return &ContestService{
		store:    store,
		registry: registry,
		now:      time.Now,
	}
}

// Refresh pulls upcoming contests from every adapter into the catalog. A
// failing platform is logged and skipped.
func (s *ContestService) Refresh(ctx context.Context) error {
	for _, p := range s.registry.Platforms() {
		adapter, err := s.registry.Get(p)
		if err != nil {
			return err
		}

		contests, err := adapter.Contests(ctx)
		if err != nil {
			logger.Warning("contest refresh for %s degraded: %v", p, err)
			continue
		}

		for i := range contests {
			if _, err := s.store.UpsertContest(ctx, &contests[i]); err != nil {
				return err
			}
		}
	}
	return nil
}

// Upcoming lists upcoming contests, soonest first. An empty platform means
// all platforms.
func (s *ContestService) Upcoming(ctx context.Context, p models.Platform) ([]models.Contest, error) {
	if p != "" {
		if _, err := models.ParsePlatform(string(p)); err != nil {
			return nil, err
		}
	}
	return s.store.ListUpcoming(ctx, s.now(), p)
}

// CalendarMap groups upcoming contests by month, keyed "2006-01"
func (s *ContestService) CalendarMap(ctx context.Context, p models.Platform) (map[string][]models.Contest, error) {
	contests, err := s.Upcoming(ctx, p)
	if err != nil {
		return nil, err
	}

	byMonth := map[string][]models.Contest{}
	for _, c := range contests {
		key := c.StartsAt.Format("2006-01")
		byMonth[key] = append(byMonth[key], c)
	}
	return byMonth, nil
}
