package database

import (
	"context"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
)

// Schemas stay within the subset of SQL shared by PostgreSQL and SQLite.

const idempotencyKeysTable = `CREATE TABLE IF NOT EXISTS idempotency_keys (
	event_id VARCHAR(36) PRIMARY KEY,
	processed_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

// RunMigrations executes the schema for the given service.
func RunMigrations(ctx context.Context, db *sqlx.DB, service string) error {
	for i, m := range getServiceMigrations(service) {
		if _, err := db.ExecContext(ctx, m); err != nil {
			return fmt.Errorf("migration %d for %s: %w", i+1, service, err)
		}
	}
	log.Printf("Migrations completed for service: %s", service)
	return nil
}

func getServiceMigrations(service string) []string {
	api := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id VARCHAR(36) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			age INTEGER NOT NULL,
			weight DOUBLE PRECISION NOT NULL,
			email VARCHAR(255) NOT NULL,
			password VARCHAR(255) NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS meals (
			id VARCHAR(36) PRIMARY KEY,
			user_id VARCHAR(36) NOT NULL,
			name VARCHAR(255) NOT NULL,
			description TEXT NOT NULL,
			diet BOOLEAN NOT NULL,
			date_time TIMESTAMP NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS meals_user_id_date_time_idx ON meals (user_id, date_time)`,
	}

	switch service {
	case "api":
		return api
	case "analytics":
		return []string{
			idempotencyKeysTable,
			`CREATE TABLE IF NOT EXISTS meal_metrics (
				metric_date DATE NOT NULL,
				metric VARCHAR(50) NOT NULL,
				count INTEGER NOT NULL DEFAULT 0,
				PRIMARY KEY (metric_date, metric)
			)`,
		}
	case "audit":
		return []string{
			idempotencyKeysTable,
			`CREATE TABLE IF NOT EXISTS account_audit_log (
				event_id VARCHAR(36) PRIMARY KEY,
				correlation_id VARCHAR(36),
				event_type VARCHAR(50) NOT NULL,
				session_id VARCHAR(36) NOT NULL,
				email VARCHAR(255),
				matched BOOLEAN NOT NULL DEFAULT FALSE,
				recorded_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
			)`,
		}
	default:
		return api
	}
}
