package models

import "time"

// Meal is a single logged meal owned by a session token.
type Meal struct {
	ID          string    `json:"id" db:"id"`
	UserID      string    `json:"user_id" db:"user_id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Diet        bool      `json:"diet" db:"diet"`
	DateTime    time.Time `json:"date_time" db:"date_time"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// CreateMealRequest is the request body for logging a meal.
type CreateMealRequest struct {
	Name        string `json:"name" binding:"required" example:"Lunch at home"`
	Description string `json:"description" binding:"required" example:"Rice, beans and chicken"`
	Diet        *bool  `json:"diet" binding:"required" example:"true"`
}

// UpdateMealRequest carries a partial update. Nil fields are left unchanged.
type UpdateMealRequest struct {
	Name        *string    `json:"name" example:"Dinner out"`
	Description *string    `json:"description" example:"Pizza"`
	Diet        *bool      `json:"diet" example:"false"`
	DateTime    *time.Time `json:"date_time" example:"2024-08-20T12:30:00-03:00"`
}

// Empty reports whether the patch sets no field at all.
func (r UpdateMealRequest) Empty() bool {
	return r.Name == nil && r.Description == nil && r.Diet == nil && r.DateTime == nil
}
