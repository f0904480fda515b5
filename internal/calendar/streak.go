package calendar

import "codestreak/internal/models"

// Analyze derives streak statistics from an ordered day sequence. The last
// entry represents "today"; if it has zero activity it is skipped exactly
// once before the backward scan, because an unfinished day should not break
// a live streak. Any zero encountered after that skip terminates the scan.
// Placeholder days are ignored entirely.
func Analyze(days []models.ActivityDay) models.CalendarStats {
	var stats models.CalendarStats

	real := make([]models.ActivityDay, 0, len(days))
	for _, d := range days {
		if !d.Placeholder {
			real = append(real, d)
		}
	}
	if len(real) == 0 {
		return stats
	}

	run := 0
	for _, d := range real {
		stats.TotalContributions += d.AggregateCount
		if d.AggregateCount > 0 {
			stats.ActiveDays++
			run++
			if run > stats.LongestStreak {
				stats.LongestStreak = run
			}
		} else {
			run = 0
		}
	}

	stats.CurrentStreak = currentStreak(real)
	return stats
}

// currentStreak scans backward from the most recent day. Only the single
// most-recent day gets the zero-skip exception; the rule is deliberately not
// extended to a trailing run of zero days.
func currentStreak(days []models.ActivityDay) int {
	i := len(days) - 1
	if i >= 0 && days[i].AggregateCount == 0 {
		i--
	}

	streak := 0
	for ; i >= 0; i-- {
		if days[i].AggregateCount == 0 {
			break
		}
		streak++
	}
	return streak
}
