// Package calendar merges normalized per-platform activity into one
// contribution calendar and derives streak statistics from it. Everything in
// this package is a pure function over already-materialized data: no I/O, no
// clock reads.
package calendar

import (
	"errors"
	"fmt"
	"time"

	"codestreak/internal/models"
)

// DefaultWindowDays is the trailing window length, sized so a full year
// plus grid alignment always fits (53 weeks).
const DefaultWindowDays = 371

// ErrInvalidDateRange is returned for a malformed calendar window request.
// Malformed windows are rejected outright, never silently truncated.
var ErrInvalidDateRange = errors.New("invalid date range")

// Buckets maps an aggregate count to a display level 0-4. Thresholds[i] is
// the minimum count for level i+1; counts of zero are always level 0.
type Buckets struct {
	Thresholds [4]int
}

// DefaultBuckets is the standard quantization: 0:0, 1:1, 2-4:2, 5-9:3, 10+:4
func DefaultBuckets() Buckets {
	return Buckets{Thresholds: [4]int{1, 2, 5, 10}}
}

// Level quantizes a count deterministically: the same count always maps to
// the same level.
func (b Buckets) Level(count int) int {
	level := 0
	for i, min := range b.Thresholds {
		if count >= min {
			level = i + 1
		}
	}
	return level
}

// Window is the inclusive day range a calendar covers
type Window struct {
	Start time.Time
	End   time.Time
}

// TrailingWindow returns the window of the given length ending at the day
// containing "today".
func TrailingWindow(today time.Time, days int) (Window, error) {
	if days <= 0 {
		return Window{}, fmt.Errorf("%w: window of %d days", ErrInvalidDateRange, days)
	}
	end := truncateDay(today)
	return Window{Start: end.AddDate(0, 0, -(days - 1)), End: end}, nil
}

// Validate rejects windows whose end precedes their start
func (w Window) Validate() error {
	if w.End.Before(w.Start) {
		return fmt.Errorf("%w: end %s before start %s",
			ErrInvalidDateRange, w.End.Format(models.DateFormat), w.Start.Format(models.DateFormat))
	}
	return nil
}

// Build merges each platform's day-count series into one calendar over the
// window. A platform missing from the map, or present with an empty series,
// contributes nothing; that is indistinguishable from zero activity on every
// day. The result is padded with placeholder days so the first and last
// partial weeks align on a 7-day grid, and Stats is derived from the real
// (non-placeholder) days.
func Build(series map[models.Platform][]models.DayCount, window Window, buckets Buckets) (models.ContributionCalendar, error) {
	if err := window.Validate(); err != nil {
		return models.ContributionCalendar{}, err
	}

	// Index counts by day key per platform, folding duplicates by summing.
	counts := make(map[string]map[models.Platform]int)
	for platform, days := range series {
		if _, err := models.ParsePlatform(string(platform)); err != nil {
			return models.ContributionCalendar{}, err
		}
		for _, dc := range days {
			key := dc.Date.Format(models.DateFormat)
			if counts[key] == nil {
				counts[key] = make(map[models.Platform]int)
			}
			counts[key][platform] += dc.Count
		}
	}

	var days []models.ActivityDay
	for d := window.Start; !d.After(window.End); d = d.AddDate(0, 0, 1) {
		key := d.Format(models.DateFormat)
		day := models.ActivityDay{Date: d, Counts: counts[key]}
		for _, c := range counts[key] {
			day.AggregateCount += c
		}
		day.Level = buckets.Level(day.AggregateCount)
		days = append(days, day)
	}

	cal := models.ContributionCalendar{
		Days:  pad(days),
		Stats: Analyze(days),
	}
	return cal, nil
}

// pad prepends and appends placeholder days so the sequence starts on a
// Sunday and ends on a Saturday. Placeholders carry no counts and are
// excluded from aggregation.
func pad(days []models.ActivityDay) []models.ActivityDay {
	if len(days) == 0 {
		return days
	}

	first := days[0].Date
	last := days[len(days)-1].Date

	lead := int(first.Weekday()) // days since Sunday
	trail := 6 - int(last.Weekday())

	padded := make([]models.ActivityDay, 0, lead+len(days)+trail)
	for i := lead; i > 0; i-- {
		padded = append(padded, models.ActivityDay{
			Date:        first.AddDate(0, 0, -i),
			Placeholder: true,
		})
	}
	padded = append(padded, days...)
	for i := 1; i <= trail; i++ {
		padded = append(padded, models.ActivityDay{
			Date:        last.AddDate(0, 0, i),
			Placeholder: true,
		})
	}
	return padded
}

// truncateDay drops the time-of-day portion, keeping the calendar date in
// its original location
func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
