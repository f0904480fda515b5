package notify

import (
	"context"

	"codestreak/internal/logger"
	"codestreak/internal/models"
)

// Notifier delivers contest reminder notifications. The reminder scheduler
// only dispatches after winning the fired compare-and-set, so a Notifier is
// invoked at most once per reminder.
type Notifier interface {
	ContestReminder(ctx context.Context, user *models.User, contest *models.Contest) error
}

// LogNotifier writes notifications to the console log. Used when email
// delivery is not configured.
type LogNotifier struct{}

// ContestReminder logs the reminder instead of delivering it
func (LogNotifier) ContestReminder(_ context.Context, user *models.User, contest *models.Contest) error {
	logger.Info("reminder: %s — %s starts at %s",
		user.Username, contest.Name, contest.StartsAt.Format("2006-01-02 15:04 MST"))
	return nil
}
