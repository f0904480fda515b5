package repository

import (
	"context"
	"database/sql"
	"time"

	"codestreak/internal/database"
	"codestreak/internal/models"
)

// ChallengeRepository handles daily challenge records, challenge streaks and
// per-topic statistics
type ChallengeRepository struct {
	db database.DBTX
}

// NewChallengeRepository creates a new challenge repository
func NewChallengeRepository(db database.DBTX) *ChallengeRepository {
	return &ChallengeRepository{db: db}
}

// Create inserts a new challenge record
func (r *ChallengeRepository) Create(ctx context.Context, ch *models.DailyChallenge) error {
	query := `
		INSERT INTO daily_challenges
			(id, user_id, day, platform, problem_id, difficulty, topic, status, auto_completed, assigned_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(ctx, query,
		ch.ID,
		ch.UserID,
		ch.Day,
		string(ch.Platform),
		ch.ProblemID,
		string(ch.Difficulty),
		ch.Topic,
		string(ch.Status),
		ch.AutoCompleted,
		ch.AssignedAt,
		ch.CompletedAt,
	)
	return err
}

// GetCurrent retrieves the most recently assigned record for (user, day),
// which is the only one that can still be ASSIGNED
func (r *ChallengeRepository) GetCurrent(ctx context.Context, userID, day string) (*models.DailyChallenge, error) {
	query := `
		SELECT id, user_id, day, platform, problem_id, difficulty, topic, status, auto_completed, assigned_at, completed_at
		FROM daily_challenges
		WHERE user_id = ? AND day = ?
		ORDER BY assigned_at DESC, id DESC
		LIMIT 1
	`

	row := r.db.QueryRow(ctx, query, userID, day)
	ch, err := scanChallengeRow(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ch, nil
}

// MarkCompleted transitions a challenge from ASSIGNED to COMPLETED. Returns
// false when the record was not in ASSIGNED, so a stale caller cannot
// complete twice.
func (r *ChallengeRepository) MarkCompleted(ctx context.Context, id string, auto bool, completedAt time.Time) (bool, error) {
	query := `
		UPDATE daily_challenges
		SET status = ?, auto_completed = ?, completed_at = ?
		WHERE id = ? AND status = ?
	`
	result, err := r.db.Exec(ctx, query,
		string(models.ChallengeCompleted), auto, completedAt,
		id, string(models.ChallengeAssigned),
	)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// MarkSkipped transitions a challenge from ASSIGNED to SKIPPED. Returns false
// when the record was not in ASSIGNED.
func (r *ChallengeRepository) MarkSkipped(ctx context.Context, id string) (bool, error) {
	query := `
		UPDATE daily_challenges
		SET status = ?
		WHERE id = ? AND status = ?
	`
	result, err := r.db.Exec(ctx, query,
		string(models.ChallengeSkipped),
		id, string(models.ChallengeAssigned),
	)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// History retrieves the last limit challenge records, newest first
func (r *ChallengeRepository) History(ctx context.Context, userID string, limit int) ([]models.DailyChallenge, error) {
	query := `
		SELECT id, user_id, day, platform, problem_id, difficulty, topic, status, auto_completed, assigned_at, completed_at
		FROM daily_challenges
		WHERE user_id = ?
		ORDER BY assigned_at DESC, id DESC
		LIMIT ?
	`

	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.DailyChallenge
	for rows.Next() {
		ch, err := scanChallengeRows(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *ch)
	}

	return records, rows.Err()
}

// CompletedProblemIDs retrieves problem IDs the user completed on or after
// sinceDay. Skipped records never appear here, so skipping keeps a problem
// eligible for reselection.
func (r *ChallengeRepository) CompletedProblemIDs(ctx context.Context, userID, sinceDay string) ([]string, error) {
	query := `
		SELECT DISTINCT problem_id
		FROM daily_challenges
		WHERE user_id = ? AND day >= ? AND status = ?
	`

	rows, err := r.db.Query(ctx, query, userID, sinceDay, string(models.ChallengeCompleted))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// DayProblemIDs retrieves every problem ID already used for (user, day)
// regardless of status, so a fresh selection after a skip never re-offers a
// problem from earlier the same day
func (r *ChallengeRepository) DayProblemIDs(ctx context.Context, userID, day string) ([]string, error) {
	query := `
		SELECT DISTINCT problem_id
		FROM daily_challenges
		WHERE user_id = ? AND day = ?
	`

	rows, err := r.db.Query(ctx, query, userID, day)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// TopicStats retrieves per-topic assigned and completed counts. Skipped
// records count toward neither.
func (r *ChallengeRepository) TopicStats(ctx context.Context, userID string) (map[string]models.TopicStat, error) {
	query := `
		SELECT topic,
		       COUNT(*),
		       SUM(CASE WHEN status = ? THEN 1 ELSE 0 END)
		FROM daily_challenges
		WHERE user_id = ? AND status <> ?
		GROUP BY topic
	`

	rows, err := r.db.Query(ctx, query,
		string(models.ChallengeCompleted),
		userID,
		string(models.ChallengeSkipped),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := map[string]models.TopicStat{}
	for rows.Next() {
		var topic string
		var total, completed int
		if err := rows.Scan(&topic, &total, &completed); err != nil {
			return nil, err
		}
		stats[topic] = models.TopicStat{Completed: completed, Total: total}
	}

	return stats, rows.Err()
}

// GetStreak retrieves the challenge streak for a user; a user with no row
// gets the zero streak
func (r *ChallengeRepository) GetStreak(ctx context.Context, userID string) (*models.ChallengeStreak, error) {
	query := `
		SELECT user_id, current, longest, total_completed, last_completed_day
		FROM challenge_streaks
		WHERE user_id = ?
	`

	streak := &models.ChallengeStreak{}
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&streak.UserID,
		&streak.Current,
		&streak.Longest,
		&streak.TotalCompleted,
		&streak.LastCompletedDay,
	)
	if err == sql.ErrNoRows {
		return &models.ChallengeStreak{UserID: userID}, nil
	}
	if err != nil {
		return nil, err
	}

	return streak, nil
}

// SaveStreak replaces the stored challenge streak for a user
func (r *ChallengeRepository) SaveStreak(ctx context.Context, streak *models.ChallengeStreak) error {
	del := "DELETE FROM challenge_streaks WHERE user_id = ?"
	if _, err := r.db.Exec(ctx, del, streak.UserID); err != nil {
		return err
	}

	ins := `
		INSERT INTO challenge_streaks (user_id, current, longest, total_completed, last_completed_day)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(ctx, ins,
		streak.UserID,
		streak.Current,
		streak.Longest,
		streak.TotalCompleted,
		streak.LastCompletedDay,
	)
	return err
}

func scanChallengeRow(row *sql.Row) (*models.DailyChallenge, error) {
	ch := &models.DailyChallenge{}
	var platform, difficulty, status string
	var completedAt sql.NullTime

	err := row.Scan(
		&ch.ID,
		&ch.UserID,
		&ch.Day,
		&platform,
		&ch.ProblemID,
		&difficulty,
		&ch.Topic,
		&status,
		&ch.AutoCompleted,
		&ch.AssignedAt,
		&completedAt,
	)
	if err != nil {
		return nil, err
	}

	ch.Platform = models.Platform(platform)
	ch.Difficulty = models.Difficulty(difficulty)
	ch.Status = models.ChallengeStatus(status)
	if completedAt.Valid {
		ch.CompletedAt = &completedAt.Time
	}

	return ch, nil
}

func scanChallengeRows(rows *sql.Rows) (*models.DailyChallenge, error) {
	ch := &models.DailyChallenge{}
	var platform, difficulty, status string
	var completedAt sql.NullTime

	err := rows.Scan(
		&ch.ID,
		&ch.UserID,
		&ch.Day,
		&platform,
		&ch.ProblemID,
		&difficulty,
		&ch.Topic,
		&status,
		&ch.AutoCompleted,
		&ch.AssignedAt,
		&completedAt,
	)
	if err != nil {
		return nil, err
	}

	ch.Platform = models.Platform(platform)
	ch.Difficulty = models.Difficulty(difficulty)
	ch.Status = models.ChallengeStatus(status)
	if completedAt.Valid {
		ch.CompletedAt = &completedAt.Time
	}

	return ch, nil
}
