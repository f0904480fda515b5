package service

import (
	"context"
	"fmt"
	"sort"

	"codestreak/internal/models"
)

// RankingType selects the metric a leaderboard is ordered by
type RankingType string

const (
	RankByScore      RankingType = "codingScore"
	RankByProblems   RankingType = "problems"
	RankByLeetCode   RankingType = "leetcode"
	RankByCodeforces RankingType = "codeforces"
	RankByCodeChef   RankingType = "codechef"
	RankByGitHub     RankingType = "github"
)

// ParseRankingType validates a ranking type string
func ParseRankingType(s string) (RankingType, error) {
	switch RankingType(s) {
	case RankByScore, RankByProblems, RankByLeetCode, RankByCodeforces, RankByCodeChef, RankByGitHub:
		return RankingType(s), nil
	}
	return "", fmt.Errorf("unknown ranking type: %q", s)
}

// UserLister enumerates the ranked population
type UserLister interface {
	List(ctx context.Context) ([]models.User, error)
}

// ProfileSource supplies per-user scores and snapshots for ranking
type ProfileSource interface {
	Score(ctx context.Context, userID string) (models.UserScore, error)
	Snapshots(ctx context.Context, userID string) ([]models.PlatformSnapshot, error)
}

// DefaultPageSize is the leaderboard page length
const DefaultPageSize = 20

// LeaderboardService ranks users by a chosen metric and serves paginated
// views with the caller's own standing
type LeaderboardService struct {
	users    UserLister
	profiles ProfileSource
	pageSize int
}

// NewLeaderboardService creates a new leaderboard service
func NewLeaderboardService(users UserLister, profiles ProfileSource) *LeaderboardService {
	return &LeaderboardService{
		users:    users,
		profiles: profiles,
		pageSize: DefaultPageSize,
	}
}

// Build assembles the leaderboard for a ranking type: ranked entries for the
// requested page, a top-3 slice, and the caller's rank and percentile. Ties
// share a rank.
func (s *LeaderboardService) Build(ctx context.Context, callerID string, ranking RankingType, page int) (*models.Leaderboard, error) {
	if _, err := ParseRankingType(string(ranking)); err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}

	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]models.LeaderboardEntry, 0, len(users))
	for _, u := range users {
		entry, err := s.entryFor(ctx, u, ranking)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Value != entries[j].Value {
			return entries[i].Value > entries[j].Value
		}
		return entries[i].Username < entries[j].Username
	})

	for i := range entries {
		if i > 0 && entries[i].Value == entries[i-1].Value {
			entries[i].Rank = entries[i-1].Rank
		} else {
			entries[i].Rank = i + 1
		}
	}

	board := &models.Leaderboard{
		Page:       page,
		PageSize:   s.pageSize,
		TotalUsers: len(entries),
	}

	top := len(entries)
	if top > 3 {
		top = 3
	}
	board.Top = append(board.Top, entries[:top]...)

	start := (page - 1) * s.pageSize
	if start < len(entries) {
		end := start + s.pageSize
		if end > len(entries) {
			end = len(entries)
		}
		board.Entries = entries[start:end]
	}

	for _, e := range entries {
		if e.UserID == callerID {
			board.CallerRank = e.Rank
			board.Percentile = float64(len(entries)-e.Rank+1) / float64(len(entries)) * 100
			break
		}
	}

	return board, nil
}

func (s *LeaderboardService) entryFor(ctx context.Context, u models.User, ranking RankingType) (models.LeaderboardEntry, error) {
	userScore, err := s.profiles.Score(ctx, u.ID)
	if err != nil {
		return models.LeaderboardEntry{}, err
	}

	entry := models.LeaderboardEntry{
		UserID:   u.ID,
		Username: u.Username,
		Score:    userScore,
	}

	switch ranking {
	case RankByScore:
		entry.Value = userScore.Total
		return entry, nil
	case RankByProblems:
		snaps, err := s.profiles.Snapshots(ctx, u.ID)
		if err != nil {
			return models.LeaderboardEntry{}, err
		}
		for _, snap := range snaps {
			entry.Value += snap.ProblemsSolved
		}
		return entry, nil
	}

	// Remaining types rank by one platform's headline metric.
	target := models.Platform(ranking)
	snaps, err := s.profiles.Snapshots(ctx, u.ID)
	if err != nil {
		return models.LeaderboardEntry{}, err
	}
	for _, snap := range snaps {
		if snap.Platform != target {
			continue
		}
		if target == models.PlatformGitHub {
			entry.Value = snap.Contributions
		} else {
			entry.Value = snap.Rating
		}
	}
	return entry, nil
}
