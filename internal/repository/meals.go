package repository

import (
	"context"
	"fmt"

	"dailydiet/pkg/models"

	"github.com/jmoiron/sqlx"
)

const mealColumns = `id, user_id, name, description, diet, date_time, created_at`

// updatableMealColumns whitelists the columns UpdateColumn may touch.
var updatableMealColumns = map[string]bool{
	"name":        true,
	"description": true,
	"diet":        true,
	"date_time":   true,
}

// MealRepository reads and writes the meals table. Every statement is scoped
// to the owning user id.
type MealRepository struct {
	db *sqlx.DB
}

// NewMealRepository creates a MealRepository over db.
func NewMealRepository(db *sqlx.DB) *MealRepository {
	return &MealRepository{db: db}
}

// ListByUser returns the user's meals, most recent date_time first.
func (r *MealRepository) ListByUser(ctx context.Context, userID string) ([]models.Meal, error) {
	meals := []models.Meal{}
	query := r.db.Rebind(`SELECT ` + mealColumns + ` FROM meals WHERE user_id = ? ORDER BY date_time DESC`)
	if err := r.db.SelectContext(ctx, &meals, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list meals for user %s: %w", userID, err)
	}
	return meals, nil
}

// FindByID returns zero or one meals matching id and userID.
func (r *MealRepository) FindByID(ctx context.Context, userID, id string) ([]models.Meal, error) {
	meals := []models.Meal{}
	query := r.db.Rebind(`SELECT ` + mealColumns + ` FROM meals WHERE id = ? AND user_id = ?`)
	if err := r.db.SelectContext(ctx, &meals, query, id, userID); err != nil {
		return nil, fmt.Errorf("failed to get meal %s: %w", id, err)
	}
	return meals, nil
}

// Create inserts a meal. created_at is left to the database default.
func (r *MealRepository) Create(ctx context.Context, m *models.Meal) error {
	query := r.db.Rebind(`INSERT INTO meals (id, user_id, name, description, diet, date_time) VALUES (?, ?, ?, ?, ?, ?)`)
	if _, err := r.db.ExecContext(ctx, query, m.ID, m.UserID, m.Name, m.Description, m.Diet, m.DateTime); err != nil {
		return fmt.Errorf("failed to insert meal: %w", err)
	}
	return nil
}

// UpdateColumn sets a single column on the meal matching id and userID and
// returns the number of affected rows.
func (r *MealRepository) UpdateColumn(ctx context.Context, userID, id, column string, value any) (int64, error) {
	if !updatableMealColumns[column] {
		return 0, fmt.Errorf("column %q is not updatable", column)
	}
	query := r.db.Rebind(`UPDATE meals SET ` + column + ` = ? WHERE id = ? AND user_id = ?`)
	res, err := r.db.ExecContext(ctx, query, value, id, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to update meal %s %s: %w", id, column, err)
	}
	return res.RowsAffected()
}

// Delete removes the meal matching id and userID and returns the number of
// affected rows.
func (r *MealRepository) Delete(ctx context.Context, userID, id string) (int64, error) {
	query := r.db.Rebind(`DELETE FROM meals WHERE id = ? AND user_id = ?`)
	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete meal %s: %w", id, err)
	}
	return res.RowsAffected()
}

// Count returns the number of meals owned by userID.
func (r *MealRepository) Count(ctx context.Context, userID string) (int, error) {
	var n int
	query := r.db.Rebind(`SELECT COUNT(*) FROM meals WHERE user_id = ?`)
	if err := r.db.GetContext(ctx, &n, query, userID); err != nil {
		return 0, fmt.Errorf("failed to count meals: %w", err)
	}
	return n, nil
}

// CountByDiet returns the number of the user's meals with the given diet flag.
func (r *MealRepository) CountByDiet(ctx context.Context, userID string, diet bool) (int, error) {
	var n int
	query := r.db.Rebind(`SELECT COUNT(*) FROM meals WHERE user_id = ? AND diet = ?`)
	if err := r.db.GetContext(ctx, &n, query, userID, diet); err != nil {
		return 0, fmt.Errorf("failed to count meals with diet=%t: %w", diet, err)
	}
	return n, nil
}

// DietFlags returns the diet flag of each of the user's meals in the same
// order as ListByUser.
func (r *MealRepository) DietFlags(ctx context.Context, userID string) ([]bool, error) {
	flags := []bool{}
	query := r.db.Rebind(`SELECT diet FROM meals WHERE user_id = ? ORDER BY date_time DESC`)
	if err := r.db.SelectContext(ctx, &flags, query, userID); err != nil {
		return nil, fmt.Errorf("failed to load diet flags: %w", err)
	}
	return flags, nil
}
