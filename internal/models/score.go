package models

// UserScore is the bounded composite ranking score. Each component is capped
// individually and the total is clamped to [0, 1000]. Scores are recomputed
// on demand from the latest snapshot and never persisted as a source of
// truth.
type UserScore struct {
	Problems    int // capped at 400
	Ratings     int // capped at 300
	Activity    int // capped at 150
	Consistency int // capped at 150
	Total       int // clamped to [0, 1000]
}

// LeaderboardEntry is one ranked row in a leaderboard page
type LeaderboardEntry struct {
	Rank     int
	UserID   string
	Username string
	Score    UserScore
	// Value is the metric the board is ranked by (total score, problems
	// solved, or a single platform's rating)
	Value int
}

// Leaderboard is a ranked, paginated view plus the caller's own standing
type Leaderboard struct {
	Entries    []LeaderboardEntry
	Top        []LeaderboardEntry // top-3 slice, independent of paging
	Page       int
	PageSize   int
	TotalUsers int
	CallerRank int     // 0 when the caller is not ranked
	Percentile float64 // share of users at or below the caller's rank
}
