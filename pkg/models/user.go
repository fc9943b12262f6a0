package models

import "time"

// User represents a registered account. ID doubles as the session token
// handed out at registration.
type User struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Age       int       `json:"age" db:"age"`
	Weight    float64   `json:"weight" db:"weight"`
	Email     string    `json:"email" db:"email"`
	Password  string    `json:"-" db:"password"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// UserProfile is the public projection of a user returned by the listing.
type UserProfile struct {
	Name   string  `json:"name" db:"name"`
	Age    int     `json:"age" db:"age"`
	Weight float64 `json:"weight" db:"weight"`
}

// RegisterRequest is the request body for creating an account.
type RegisterRequest struct {
	Name     string   `json:"name" binding:"required" example:"Jane Doe"`
	Age      *int     `json:"age" binding:"required" example:"32"`
	Weight   *float64 `json:"weight" binding:"required" example:"68.5"`
	Email    string   `json:"email" binding:"required,email" example:"jane@example.com"`
	Password string   `json:"password" binding:"required" example:"secret"`
}

// LoginRequest is the request body for logging in.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"jane@example.com"`
	Password string `json:"password" binding:"required" example:"secret"`
}
