package repository

import (
	"context"
	"time"

	"codestreak/internal/database"
	"codestreak/internal/models"
)

// SnapshotRepository persists per-platform stats snapshots and the normalized
// daily activity series they were built from
type SnapshotRepository struct {
	db database.DBTX
}

// NewSnapshotRepository creates a new snapshot repository
func NewSnapshotRepository(db database.DBTX) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// SaveSnapshot replaces the stored snapshot for (user, platform)
func (r *SnapshotRepository) SaveSnapshot(ctx context.Context, snap *models.PlatformSnapshot) error {
	del := "DELETE FROM platform_snapshots WHERE user_id = ? AND platform = ?"
	if _, err := r.db.Exec(ctx, del, snap.UserID, string(snap.Platform)); err != nil {
		return err
	}

	ins := `
		INSERT INTO platform_snapshots
			(user_id, platform, handle, problems_solved, rating, contests, contributions, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(ctx, ins,
		snap.UserID,
		string(snap.Platform),
		snap.Handle,
		snap.ProblemsSolved,
		snap.Rating,
		snap.Contests,
		snap.Contributions,
		snap.FetchedAt,
	)
	return err
}

// GetSnapshots retrieves every stored snapshot for a user
func (r *SnapshotRepository) GetSnapshots(ctx context.Context, userID string) ([]models.PlatformSnapshot, error) {
	query := `
		SELECT user_id, platform, handle, problems_solved, rating, contests, contributions, fetched_at
		FROM platform_snapshots
		WHERE user_id = ?
		ORDER BY platform ASC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snaps []models.PlatformSnapshot
	for rows.Next() {
		var snap models.PlatformSnapshot
		var platform string
		err := rows.Scan(
			&snap.UserID,
			&platform,
			&snap.Handle,
			&snap.ProblemsSolved,
			&snap.Rating,
			&snap.Contests,
			&snap.Contributions,
			&snap.FetchedAt,
		)
		if err != nil {
			return nil, err
		}
		snap.Platform = models.Platform(platform)
		snaps = append(snaps, snap)
	}

	return snaps, rows.Err()
}

// SaveDailyActivity replaces the stored day counts for (user, platform)
// within the days covered by the series
func (r *SnapshotRepository) SaveDailyActivity(ctx context.Context, userID string, platform models.Platform, series []models.DayCount) error {
	for _, dc := range series {
		day := dc.Date.Format(models.DateFormat)

		del := "DELETE FROM daily_activity WHERE user_id = ? AND platform = ? AND day = ?"
		if _, err := r.db.Exec(ctx, del, userID, string(platform), day); err != nil {
			return err
		}

		if dc.Count == 0 {
			continue // absence of a row means zero
		}

		ins := "INSERT INTO daily_activity (user_id, platform, day, count) VALUES (?, ?, ?, ?)"
		if _, err := r.db.Exec(ctx, ins, userID, string(platform), day, dc.Count); err != nil {
			return err
		}
	}
	return nil
}

// GetDailyActivity retrieves the stored per-platform day counts for a user
// between start and end inclusive, keyed by platform
func (r *SnapshotRepository) GetDailyActivity(ctx context.Context, userID string, start, end time.Time) (map[models.Platform][]models.DayCount, error) {
	query := `
		SELECT platform, day, count
		FROM daily_activity
		WHERE user_id = ? AND day >= ? AND day <= ?
		ORDER BY platform ASC, day ASC
	`

	rows, err := r.db.Query(ctx, query,
		userID,
		start.Format(models.DateFormat),
		end.Format(models.DateFormat),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	series := map[models.Platform][]models.DayCount{}
	for rows.Next() {
		var platform, day string
		var count int
		if err := rows.Scan(&platform, &day, &count); err != nil {
			return nil, err
		}
		date, err := time.Parse(models.DateFormat, day)
		if err != nil {
			return nil, err
		}
		p := models.Platform(platform)
		series[p] = append(series[p], models.DayCount{Date: date, Count: count})
	}

	return series, rows.Err()
}
