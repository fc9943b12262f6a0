package models

import (
	"encoding/json"
	"time"
)

// EventType represents the type of domain event. It doubles as the routing key.
type EventType string

const (
	EventUserRegistered EventType = "user.registered"
	EventUserLoggedIn   EventType = "user.logged_in"
	EventMealCreated    EventType = "meal.created"
	EventMealUpdated    EventType = "meal.updated"
	EventMealDeleted    EventType = "meal.deleted"
)

// Event is the envelope published to the broker.
type Event struct {
	EventID       string          `json:"event_id"`
	CorrelationID string          `json:"correlation_id"`
	EventType     EventType       `json:"event_type"`
	Timestamp     time.Time       `json:"timestamp"`
	Data          json.RawMessage `json:"data"`
}

// AccountEventData is the payload of user.* events.
type AccountEventData struct {
	SessionID string `json:"session_id"`
	Email     string `json:"email"`
	Matched   bool   `json:"matched"`
}

// MealEventData is the payload of meal.* events.
type MealEventData struct {
	MealID string   `json:"meal_id"`
	UserID string   `json:"user_id"`
	Diet   *bool    `json:"diet,omitempty"`
	Fields []string `json:"fields,omitempty"`
}
