// Package account registers users, logs them in and lists public profiles.
package account

import (
	"context"
	"errors"
	"fmt"
	"log"

	"dailydiet/internal/events"
	"dailydiet/pkg/middleware"
	"dailydiet/pkg/models"

	"github.com/google/uuid"
)

// ErrUnauthorized is returned when registration is attempted by a caller
// that already carries a session token.
var ErrUnauthorized = errors.New("unauthorized")

// UserStore is the storage the account service needs.
type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	FindByCredentials(ctx context.Context, email, password string) (*models.User, error)
	ListProfiles(ctx context.Context) ([]models.UserProfile, error)
}

// Service implements registration, login and user listing.
type Service struct {
	users    UserStore
	events   *events.Emitter
	newToken func() string
}

// NewService creates an account Service.
func NewService(users UserStore, emitter *events.Emitter) *Service {
	return &Service{
		users:    users,
		events:   emitter,
		newToken: func() string { return uuid.New().String() },
	}
}

// Register creates a user keyed by a fresh session token and returns that
// token. existingToken is the caller's current session cookie, if any.
func (s *Service) Register(ctx context.Context, existingToken string, req models.RegisterRequest) (string, error) {
	if existingToken != "" {
		return "", ErrUnauthorized
	}

	token := s.newToken()
	user := &models.User{
		ID:       token,
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	}
	if req.Age != nil {
		user.Age = *req.Age
	}
	if req.Weight != nil {
		user.Weight = *req.Weight
	}

	if err := s.users.Create(ctx, user); err != nil {
		return "", fmt.Errorf("register: %w", err)
	}

	log.Printf("[API] User registered: id=%s correlation_id=%s", token, middleware.CorrelationIDFromContext(ctx))
	s.events.Emit(ctx, models.EventUserRegistered, models.AccountEventData{
		SessionID: token,
		Email:     user.Email,
		Matched:   true,
	})
	return token, nil
}

// Login looks up the user by exact email and password. A fresh session token
// is issued whether or not a user matched; the returned user still carries
// its original registration id.
func (s *Service) Login(ctx context.Context, req models.LoginRequest) (*models.User, string, error) {
	user, err := s.users.FindByCredentials(ctx, req.Email, req.Password)
	if err != nil {
		return nil, "", fmt.Errorf("login: %w", err)
	}

	token := s.newToken()
	s.events.Emit(ctx, models.EventUserLoggedIn, models.AccountEventData{
		SessionID: token,
		Email:     req.Email,
		Matched:   user != nil,
	})
	return user, token, nil
}

// ListUsers returns the name, age and weight of every user.
func (s *Service) ListUsers(ctx context.Context) ([]models.UserProfile, error) {
	profiles, err := s.users.ListProfiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return profiles, nil
}
