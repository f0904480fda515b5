package repository

import (
	"context"
	"database/sql"

	"codestreak/internal/database"
	"codestreak/internal/models"
)

// UserRepository handles user and platform-link database operations
type UserRepository struct {
	db database.DBTX
}

// NewUserRepository creates a new user repository
func NewUserRepository(db database.DBTX) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, username, email, created_at)
		VALUES (?, ?, ?, ?)
	`
	_, err := r.db.Exec(ctx, query, user.ID, user.Username, user.Email, user.CreatedAt)
	return err
}

// GetByID retrieves a user by ID, including platform links
func (r *UserRepository) GetByID(ctx context.Context, userID string) (*models.User, error) {
	query := `
		SELECT id, username, email, created_at
		FROM users
		WHERE id = ?
	`

	user := &models.User{}
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	links, err := r.getLinks(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	user.Links = links

	return user, nil
}

// GetByUsername retrieves a user by username
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `
		SELECT id, username, email, created_at
		FROM users
		WHERE username = ?
	`

	user := &models.User{}
	err := r.db.QueryRow(ctx, query, username).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	links, err := r.getLinks(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	user.Links = links

	return user, nil
}

// List retrieves all users without their platform links
func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	query := `
		SELECT id, username, email, created_at
		FROM users
		ORDER BY username ASC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Username, &user.Email, &user.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	return users, rows.Err()
}

// SetLink records or replaces the user's handle on a platform
func (r *UserRepository) SetLink(ctx context.Context, userID string, platform models.Platform, handle string) error {
	del := "DELETE FROM platform_links WHERE user_id = ? AND platform = ?"
	if _, err := r.db.Exec(ctx, del, userID, string(platform)); err != nil {
		return err
	}

	ins := "INSERT INTO platform_links (user_id, platform, handle) VALUES (?, ?, ?)"
	_, err := r.db.Exec(ctx, ins, userID, string(platform), handle)
	return err
}

// RemoveLink deletes the user's handle on a platform
func (r *UserRepository) RemoveLink(ctx context.Context, userID string, platform models.Platform) error {
	query := "DELETE FROM platform_links WHERE user_id = ? AND platform = ?"
	_, err := r.db.Exec(ctx, query, userID, string(platform))
	return err
}

// getLinks loads every platform handle linked to a user
func (r *UserRepository) getLinks(ctx context.Context, userID string) (models.PlatformLinks, error) {
	query := `
		SELECT platform, handle
		FROM platform_links
		WHERE user_id = ?
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	links := models.PlatformLinks{}
	for rows.Next() {
		var platform, handle string
		if err := rows.Scan(&platform, &handle); err != nil {
			return nil, err
		}
		p, err := models.ParsePlatform(platform)
		if err != nil {
			return nil, err
		}
		links[p] = handle
	}

	return links, rows.Err()
}
