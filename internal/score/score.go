// Package score computes the bounded composite coding score from a
// platform-stats snapshot. The calculation is a pure function: an identical
// snapshot always yields an identical score.
package score

import (
	"math"

	"codestreak/internal/models"
)

// Component caps and the overall bound
const (
	MaxProblems    = 400
	MaxRatings     = 300
	MaxActivity    = 150
	MaxConsistency = 150
	MaxTotal       = 1000
)

// Config holds the curve parameters. The problems and activity components
// use the saturating curve cap*n/(n+halfway), which earns half the cap at
// n == halfway and approaches the cap asymptotically. Ratings are rescaled
// linearly against each platform's reference maximum before summing.
type Config struct {
	ProblemsHalfway   int
	ActivityHalfway   int
	RatingReference   map[models.Platform]int
	RatingPerPlatform int
	StreakWeight      int
	ContestWeight     int
}

// DefaultConfig returns the standard scoring parameters
func DefaultConfig() Config {
	return Config{
		ProblemsHalfway: 150,
		ActivityHalfway: 200,
		RatingReference: map[models.Platform]int{
			models.PlatformLeetCode:   3000,
			models.PlatformCodeforces: 3500,
			models.PlatformCodeChef:   2800,
		},
		RatingPerPlatform: 100,
		StreakWeight:      3,
		ContestWeight:     5,
	}
}

// Input is the snapshot the score is computed from. CurrentStreak comes from
// the streak analyzer; there is no other time dependency.
type Input struct {
	ProblemsSolved        int
	Ratings               map[models.Platform]int
	ExternalContributions int
	CurrentStreak         int
	ContestsParticipated  int
}

// Compute derives the composite score. Each component is monotonic in its
// inputs and individually capped; the total is clamped to [0, 1000].
func Compute(in Input, cfg Config) models.UserScore {
	s := models.UserScore{
		Problems:    saturating(in.ProblemsSolved, cfg.ProblemsHalfway, MaxProblems),
		Ratings:     ratings(in.Ratings, cfg),
		Activity:    saturating(in.ExternalContributions, cfg.ActivityHalfway, MaxActivity),
		Consistency: consistency(in.CurrentStreak, in.ContestsParticipated, cfg),
	}

	total := s.Problems + s.Ratings + s.Activity + s.Consistency
	if total > MaxTotal {
		total = MaxTotal
	}
	if total < 0 {
		total = 0
	}
	s.Total = total
	return s
}

// saturating maps n onto [0, limit) via limit*n/(n+halfway), rounded to the
// nearest integer at the boundary
func saturating(n, halfway, limit int) int {
	if n <= 0 {
		return 0
	}
	v := float64(limit) * float64(n) / float64(n+halfway)
	scaled := int(math.Round(v))
	if scaled > limit {
		scaled = limit
	}
	return scaled
}

func ratings(raw map[models.Platform]int, cfg Config) int {
	sum := 0.0
	for platform, rating := range raw {
		if rating <= 0 {
			continue
		}
		ref, ok := cfg.RatingReference[platform]
		if !ok || ref <= 0 {
			continue
		}
		scaled := float64(cfg.RatingPerPlatform) * float64(rating) / float64(ref)
		if max := float64(cfg.RatingPerPlatform); scaled > max {
			scaled = max
		}
		sum += scaled
	}

	component := int(math.Round(sum))
	if component > MaxRatings {
		component = MaxRatings
	}
	return component
}

func consistency(streak, contests int, cfg Config) int {
	if streak < 0 {
		streak = 0
	}
	if contests < 0 {
		contests = 0
	}
	component := cfg.StreakWeight*streak + cfg.ContestWeight*contests
	if component > MaxConsistency {
		component = MaxConsistency
	}
	return component
}
