package repository

import (
	"context"
	"database/sql"
	"time"

	"codestreak/internal/database"
	"codestreak/internal/models"
)

// ContestRepository handles contests and per-user contest reminders
type ContestRepository struct {
	db database.DBTX
}

// NewContestRepository creates a new contest repository
func NewContestRepository(db database.DBTX) *ContestRepository {
	return &ContestRepository{db: db}
}

// UpsertContest inserts a contest if it is not already known and returns its
// id. Identity is (platform, name, starts_at).
func (r *ContestRepository) UpsertContest(ctx context.Context, c *models.Contest) (int64, error) {
	sel := `
		SELECT id FROM contests
		WHERE platform = ? AND name = ? AND starts_at = ?
	`
	var id int64
	err := r.db.QueryRow(ctx, sel, string(c.Platform), c.Name, c.StartsAt).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, err
	}

	ins := `
		INSERT INTO contests (platform, name, starts_at, duration_seconds, url)
		VALUES (?, ?, ?, ?, ?)
	`
	return r.db.ExecReturningID(ctx, ins,
		string(c.Platform), c.Name, c.StartsAt, int64(c.Duration.Seconds()), c.URL)
}

// GetContest retrieves a contest by id
func (r *ContestRepository) GetContest(ctx context.Context, id int64) (*models.Contest, error) {
	query := `
		SELECT id, platform, name, starts_at, duration_seconds, url
		FROM contests
		WHERE id = ?
	`

	c, err := scanContest(r.db.QueryRow(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ListUpcoming retrieves contests starting at or after now, soonest first.
// Platform empty means all platforms.
func (r *ContestRepository) ListUpcoming(ctx context.Context, now time.Time, platform models.Platform) ([]models.Contest, error) {
	query := `
		SELECT id, platform, name, starts_at, duration_seconds, url
		FROM contests
		WHERE starts_at >= ?
	`
	args := []interface{}{now}
	if platform != "" {
		query += " AND platform = ?"
		args = append(args, string(platform))
	}
	query += " ORDER BY starts_at ASC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contests []models.Contest
	for rows.Next() {
		var c models.Contest
		var platform string
		var durationSeconds int64
		var url sql.NullString
		if err := rows.Scan(&c.ID, &platform, &c.Name, &c.StartsAt, &durationSeconds, &url); err != nil {
			return nil, err
		}
		c.Platform = models.Platform(platform)
		c.Duration = time.Duration(durationSeconds) * time.Second
		c.URL = url.String
		contests = append(contests, c)
	}

	return contests, rows.Err()
}

// GetReminder retrieves the reminder for (user, contest), nil when none exists
func (r *ContestRepository) GetReminder(ctx context.Context, userID string, contestID int64) (*models.ContestReminder, error) {
	query := `
		SELECT id, user_id, contest_id, reminder_time, fired, created_at
		FROM contest_reminders
		WHERE user_id = ? AND contest_id = ?
	`

	rem, err := scanReminder(r.db.QueryRow(ctx, query, userID, contestID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rem, nil
}

// CreateReminder inserts a new reminder. The UNIQUE (user_id, contest_id)
// constraint rejects duplicates at the storage level.
func (r *ContestRepository) CreateReminder(ctx context.Context, rem *models.ContestReminder) error {
	query := `
		INSERT INTO contest_reminders (id, user_id, contest_id, reminder_time, fired, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(ctx, query,
		rem.ID, rem.UserID, rem.ContestID, rem.ReminderTime, rem.Fired, rem.CreatedAt)
	return err
}

// DeleteReminder removes an unfired reminder. Returns false when the reminder
// does not exist or has already fired; fired reminders are retained as
// history.
func (r *ContestRepository) DeleteReminder(ctx context.Context, userID string, contestID int64) (bool, error) {
	query := `
		DELETE FROM contest_reminders
		WHERE user_id = ? AND contest_id = ? AND fired = ?
	`
	result, err := r.db.Exec(ctx, query, userID, contestID, false)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// ListUserReminders retrieves every reminder belonging to a user
func (r *ContestRepository) ListUserReminders(ctx context.Context, userID string) ([]models.ContestReminder, error) {
	query := `
		SELECT id, user_id, contest_id, reminder_time, fired, created_at
		FROM contest_reminders
		WHERE user_id = ?
		ORDER BY reminder_time ASC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reminders []models.ContestReminder
	for rows.Next() {
		var rem models.ContestReminder
		if err := rows.Scan(&rem.ID, &rem.UserID, &rem.ContestID, &rem.ReminderTime, &rem.Fired, &rem.CreatedAt); err != nil {
			return nil, err
		}
		reminders = append(reminders, rem)
	}

	return reminders, rows.Err()
}

// DueReminders retrieves unfired reminders whose reminder time has passed
func (r *ContestRepository) DueReminders(ctx context.Context, now time.Time) ([]models.ContestReminder, error) {
	query := `
		SELECT id, user_id, contest_id, reminder_time, fired, created_at
		FROM contest_reminders
		WHERE fired = ? AND reminder_time <= ?
		ORDER BY reminder_time ASC
	`

	rows, err := r.db.Query(ctx, query, false, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reminders []models.ContestReminder
	for rows.Next() {
		var rem models.ContestReminder
		if err := rows.Scan(&rem.ID, &rem.UserID, &rem.ContestID, &rem.ReminderTime, &rem.Fired, &rem.CreatedAt); err != nil {
			return nil, err
		}
		reminders = append(reminders, rem)
	}

	return reminders, rows.Err()
}

// MarkFired flips fired false-to-true for one reminder. The WHERE clause is
// the compare-and-set: exactly one caller observes true even when concurrent
// scans race on the same row.
func (r *ContestRepository) MarkFired(ctx context.Context, reminderID string) (bool, error) {
	query := `
		UPDATE contest_reminders
		SET fired = ?
		WHERE id = ? AND fired = ?
	`
	result, err := r.db.Exec(ctx, query, true, reminderID, false)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func scanContest(row *sql.Row) (*models.Contest, error) {
	c := &models.Contest{}
	var platform string
	var durationSeconds int64
	var url sql.NullString

	err := row.Scan(&c.ID, &platform, &c.Name, &c.StartsAt, &durationSeconds, &url)
	if err != nil {
		return nil, err
	}

	c.Platform = models.Platform(platform)
	c.Duration = time.Duration(durationSeconds) * time.Second
	c.URL = url.String

	return c, nil
}

func scanReminder(row *sql.Row) (*models.ContestReminder, error) {
	rem := &models.ContestReminder{}
	err := row.Scan(&rem.ID, &rem.UserID, &rem.ContestID, &rem.ReminderTime, &rem.Fired, &rem.CreatedAt)
	if err != nil {
		return nil, err
	}
	return rem, nil
}
