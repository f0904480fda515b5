package database

import (
	"context"
	"fmt"
)

// RunMigrations applies every pending schema migration in order
func (db *DB) RunMigrations(ctx context.Context) error {
	if err := db.createMigrationsTable(ctx); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	for _, m := range migrations {
		hasRun, err := db.hasMigrationRun(ctx, m.name)
		if err != nil {
			return fmt.Errorf("failed to check migration status: %w", err)
		}
		if hasRun {
			continue
		}

		stmt := m.sql
		if variant, ok := m.variants[db.Dialect.DriverName()]; ok {
			stmt = variant
		}

		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", m.name, err)
		}

		if err := db.recordMigration(ctx, m.name); err != nil {
			return fmt.Errorf("failed to record migration %s: %w", m.name, err)
		}
	}

	return nil
}

// createMigrationsTable creates the table to track completed migrations
func (db *DB) createMigrationsTable(ctx context.Context) error {
	_, err := db.Exec(ctx, db.Dialect.MigrationsTableSQL())
	return err
}

// hasMigrationRun checks if a migration has already been executed
func (db *DB) hasMigrationRun(ctx context.Context, name string) (bool, error) {
	var count int
	query := "SELECT COUNT(*) FROM migrations WHERE name = ?"
	if err := db.QueryRow(ctx, query, name).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// recordMigration marks a migration as completed
func (db *DB) recordMigration(ctx context.Context, name string) error {
	query := "INSERT INTO migrations (name) VALUES (?)"
	_, err := db.Exec(ctx, query, name)
	return err
}
