package repository

import (
	"context"
	"database/sql"

	"codestreak/internal/database"
	"codestreak/internal/models"
)

// ProblemRepository handles the practice problem pool
type ProblemRepository struct {
	db database.DBTX
}

// NewProblemRepository creates a new problem repository
func NewProblemRepository(db database.DBTX) *ProblemRepository {
	return &ProblemRepository{db: db}
}

// Upsert inserts or replaces a problem
func (r *ProblemRepository) Upsert(ctx context.Context, p *models.Problem) error {
	del := "DELETE FROM problems WHERE id = ?"
	if _, err := r.db.Exec(ctx, del, p.ID); err != nil {
		return err
	}

	ins := `
		INSERT INTO problems (id, platform, title, difficulty, topic, url)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(ctx, ins, p.ID, string(p.Platform), p.Title, string(p.Difficulty), p.Topic, p.URL)
	return err
}

// GetByID retrieves a problem by ID
func (r *ProblemRepository) GetByID(ctx context.Context, id string) (*models.Problem, error) {
	query := `
		SELECT id, platform, title, difficulty, topic, url
		FROM problems
		WHERE id = ?
	`

	p := &models.Problem{}
	var platform, difficulty string
	var url sql.NullString

	err := r.db.QueryRow(ctx, query, id).Scan(&p.ID, &platform, &p.Title, &difficulty, &p.Topic, &url)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	p.Platform = models.Platform(platform)
	p.Difficulty = models.Difficulty(difficulty)
	p.URL = url.String

	return p, nil
}

// ListByDifficulty retrieves every problem at a given difficulty
func (r *ProblemRepository) ListByDifficulty(ctx context.Context, difficulty models.Difficulty) ([]models.Problem, error) {
	query := `
		SELECT id, platform, title, difficulty, topic, url
		FROM problems
		WHERE difficulty = ?
		ORDER BY id ASC
	`

	rows, err := r.db.Query(ctx, query, string(difficulty))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanProblems(rows)
}

// List retrieves the whole problem pool
func (r *ProblemRepository) List(ctx context.Context) ([]models.Problem, error) {
	query := `
		SELECT id, platform, title, difficulty, topic, url
		FROM problems
		ORDER BY id ASC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanProblems(rows)
}

func scanProblems(rows *sql.Rows) ([]models.Problem, error) {
	var problems []models.Problem
	for rows.Next() {
		var p models.Problem
		var platform, difficulty string
		var url sql.NullString
		if err := rows.Scan(&p.ID, &platform, &p.Title, &difficulty, &p.Topic, &url); err != nil {
			return nil, err
		}
		p.Platform = models.Platform(platform)
		p.Difficulty = models.Difficulty(difficulty)
		p.URL = url.String
		problems = append(problems, p)
	}
	return problems, rows.Err()
}
