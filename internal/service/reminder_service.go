package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"codestreak/internal/logger"
	"codestreak/internal/models"
	"codestreak/internal/notify"
)

// ReminderStore persists contests and per-user reminders. MarkFired is the
// compare-and-set the at-most-once guarantee rests on: it returns true for
// exactly one caller per reminder.
type ReminderStore interface {
	GetContest(ctx context.Context, id int64) (*models.Contest, error)
	GetReminder(ctx context.Context, userID string, contestID int64) (*models.ContestReminder, error)
	CreateReminder(ctx context.Context, rem *models.ContestReminder) error
	DeleteReminder(ctx context.Context, userID string, contestID int64) (bool, error)
	ListUserReminders(ctx context.Context, userID string) ([]models.ContestReminder, error)
	DueReminders(ctx context.Context, now time.Time) ([]models.ContestReminder, error)
	MarkFired(ctx context.Context, reminderID string) (bool, error)
}

// UserSource resolves users for notification dispatch
type UserSource interface {
	GetByID(ctx context.Context, userID string) (*models.User, error)
}

// ReminderService schedules one reminder per (user, contest) and fires each
// at most once, even when multiple scan ticks overlap
type ReminderService struct {
	store    ReminderStore
	users    UserSource
	notifier notify.Notifier

	offset time.Duration

	now func() time.Time
}

// NewReminderService creates a new reminder service. offset is how long
// before contest start the reminder fires.
func NewReminderService(store ReminderStore, users UserSource, notifier notify.Notifier, offset time.Duration) *ReminderService {
	return &ReminderService{
		store:    store,
		users:    users,
		notifier: notifier,
		offset:   offset,
		now:      time.Now,
	}
}

// Set creates a reminder for (user, contest) at contest start minus the
// offset. Setting an existing reminder is idempotent and returns the
// existing record.
func (s *ReminderService) Set(ctx context.Context, userID string, contestID int64) (*models.ContestReminder, error) {
	existing, err := s.store.GetReminder(ctx, userID, contestID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	contest, err := s.store.GetContest(ctx, contestID)
	if err != nil {
		return nil, err
	}
	if contest == nil {
		return nil, ErrContestNotFound
	}

	rem := &models.ContestReminder{
		ID:           uuid.NewString(),
		UserID:       userID,
		ContestID:    contestID,
		ReminderTime: contest.StartsAt.Add(-s.offset),
		Fired:        false,
		CreatedAt:    s.now(),
	}
	if err := s.store.CreateReminder(ctx, rem); err != nil {
		return nil, err
	}
	return rem, nil
}

// Remove deletes an unfired reminder. Fired reminders are retained as inert
// history; removing one returns ErrReminderNotFound.
func (s *ReminderService) Remove(ctx context.Context, userID string, contestID int64) error {
	ok, err := s.store.DeleteReminder(ctx, userID, contestID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrReminderNotFound
	}
	return nil
}

// List returns every reminder belonging to a user
func (s *ReminderService) List(ctx context.Context, userID string) ([]models.ContestReminder, error) {
	return s.store.ListUserReminders(ctx, userID)
}

// Scan fires every due, unfired reminder and returns how many this tick
// dispatched. Safe to run concurrently with other ticks or replicas: the
// fired compare-and-set admits exactly one dispatcher per reminder, and a
// lost race is silently skipped.
func (s *ReminderService) Scan(ctx context.Context) (int, error) {
	due, err := s.store.DueReminders(ctx, s.now())
	if err != nil {
		return 0, err
	}

	fired := 0
	for _, rem := range due {
		won, err := s.store.MarkFired(ctx, rem.ID)
		if err != nil {
			return fired, err
		}
		if !won {
			continue
		}

		if err := s.dispatch(ctx, rem); err != nil {
			// The CAS already committed; delivery failure must not
			// resurrect the reminder.
			logger.Error("reminder %s dispatch failed: %v", rem.ID, err)
		}
		fired++
	}

	return fired, nil
}

func (s *ReminderService) dispatch(ctx context.Context, rem models.ContestReminder) error {
	user, err := s.users.GetByID(ctx, rem.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	contest, err := s.store.GetContest(ctx, rem.ContestID)
	if err != nil {
		return err
	}
	if contest == nil {
		return ErrContestNotFound
	}

	return s.notifier.ContestReminder(ctx, user, contest)
}
