// Package repository holds the SQL access for users and meals.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"dailydiet/pkg/models"

	"github.com/jmoiron/sqlx"
)

// UserRepository reads and writes the users table.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a UserRepository over db.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a user. created_at is left to the database default.
func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	query := r.db.Rebind(`INSERT INTO users (id, name, age, weight, email, password) VALUES (?, ?, ?, ?, ?, ?)`)
	if _, err := r.db.ExecContext(ctx, query, u.ID, u.Name, u.Age, u.Weight, u.Email, u.Password); err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// FindByCredentials returns the first user with the exact email and password,
// or nil when none matches.
func (r *UserRepository) FindByCredentials(ctx context.Context, email, password string) (*models.User, error) {
	var u models.User
	query := r.db.Rebind(`SELECT id, name, age, weight, email, password, created_at FROM users WHERE email = ? AND password = ? LIMIT 1`)
	err := r.db.GetContext(ctx, &u, query, email, password)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by email %s: %w", email, err)
	}
	return &u, nil
}

// ListProfiles returns the public projection of every user.
func (r *UserRepository) ListProfiles(ctx context.Context) ([]models.UserProfile, error) {
	profiles := []models.UserProfile{}
	if err := r.db.SelectContext(ctx, &profiles, `SELECT name, age, weight FROM users`); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return profiles, nil
}
