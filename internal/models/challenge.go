package models

import "time"

// ChallengeStatus is the lifecycle state of a daily challenge record
type ChallengeStatus string

const (
	ChallengeAssigned  ChallengeStatus = "ASSIGNED"
	ChallengeCompleted ChallengeStatus = "COMPLETED"
	ChallengeSkipped   ChallengeStatus = "SKIPPED"
)

// Difficulty of a practice problem
type Difficulty string

const (
	DifficultyEasy   Difficulty = "EASY"
	DifficultyMedium Difficulty = "MEDIUM"
	DifficultyHard   Difficulty = "HARD"
)

// Problem is a selectable practice problem from the problem pool
type Problem struct {
	ID         string
	Platform   Platform
	Title      string
	Difficulty Difficulty
	Topic      string
	URL        string
}

// DailyChallenge is one assignment record keyed by (user, day). At most one
// non-skipped record exists per (user, day); skipped records are superseded
// by a fresh assignment, not stacked.
type DailyChallenge struct {
	ID            string
	UserID        string
	Day           string // canonical DateFormat key
	Platform      Platform
	ProblemID     string
	Difficulty    Difficulty
	Topic         string
	Status        ChallengeStatus
	AutoCompleted bool
	AssignedAt    time.Time
	CompletedAt   *time.Time
}

// ChallengeStreak tracks consecutive daily-challenge completions. It is
// independent of the activity-calendar streak and mutated only when a
// challenge transitions to COMPLETED.
type ChallengeStreak struct {
	UserID           string
	Current          int
	Longest          int
	TotalCompleted   int
	LastCompletedDay string // DateFormat key, empty if never completed
}

// TopicStat counts assigned and completed challenges for one topic
type TopicStat struct {
	Completed int
	Total     int
}
