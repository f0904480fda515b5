package models

import "time"

// DateFormat is the canonical day key used throughout the calendar core.
// Days are calendar dates in a fixed local convention; no timezone shifting.
const DateFormat = "2006-01-02"

// ActivityDay is one day in the contribution calendar. Counts holds the
// per-platform unit counts that contributed to AggregateCount. Placeholder
// days pad the calendar to whole weeks and never carry activity.
type ActivityDay struct {
	Date           time.Time
	Counts         map[Platform]int
	AggregateCount int
	Level          int
	Placeholder    bool
}

// Key returns the canonical date key for the day
func (d ActivityDay) Key() string {
	return d.Date.Format(DateFormat)
}

// CalendarStats are derived from the day sequence and never stored
// independently of it
type CalendarStats struct {
	TotalContributions int
	ActiveDays         int
	LongestStreak      int
	CurrentStreak      int
}

// ContributionCalendar is the merged cross-platform activity calendar over a
// fixed trailing window. Days are ordered by strictly increasing date.
type ContributionCalendar struct {
	Days  []ActivityDay
	Stats CalendarStats
	// Stale lists platforms whose snapshot was older than the sync
	// threshold when the calendar was assembled. Warning only.
	Stale []Platform
}
