package models

import "time"

// Contest is an upcoming or past competitive-programming contest
type Contest struct {
	ID       int64
	Platform Platform
	Name     string
	StartsAt time.Time
	Duration time.Duration
	URL      string
}

// ContestReminder schedules a one-time notification before a contest starts.
// Created on opt-in; the only mutation is the fired flag flipping false to
// true exactly once. Deletable only before firing.
type ContestReminder struct {
	ID           string
	UserID       string
	ContestID    int64
	ReminderTime time.Time
	Fired        bool
	CreatedAt    time.Time
}

// Due reports whether the reminder should fire at the given instant
func (r ContestReminder) Due(now time.Time) bool {
	return !r.Fired && !now.Before(r.ReminderTime)
}
