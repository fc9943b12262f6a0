// Package meal implements meal CRUD scoped to a session token and the
// per-user summary.
package meal

import (
	"context"
	"fmt"
	"log"
	"time"

	"dailydiet/internal/events"
	"dailydiet/pkg/middleware"
	"dailydiet/pkg/models"

	"github.com/google/uuid"
)

// Store is the storage the meal service needs. Every method is filtered by
// the owning user id.
type Store interface {
	ListByUser(ctx context.Context, userID string) ([]models.Meal, error)
	FindByID(ctx context.Context, userID, id string) ([]models.Meal, error)
	Create(ctx context.Context, m *models.Meal) error
	UpdateColumn(ctx context.Context, userID, id, column string, value any) (int64, error)
	Delete(ctx context.Context, userID, id string) (int64, error)
	Count(ctx context.Context, userID string) (int, error)
	CountByDiet(ctx context.Context, userID string, diet bool) (int, error)
	DietFlags(ctx context.Context, userID string) ([]bool, error)
}

// Service implements the meal operations.
type Service struct {
	meals  Store
	events *events.Emitter
	now    func() time.Time
	newID  func() string
}

// NewService creates a meal Service.
func NewService(meals Store, emitter *events.Emitter) *Service {
	return &Service{
		meals:  meals,
		events: emitter,
		now:    time.Now,
		newID:  func() string { return uuid.New().String() },
	}
}

// List returns the caller's meals, most recent first.
func (s *Service) List(ctx context.Context, token string) ([]models.Meal, error) {
	return s.meals.ListByUser(ctx, token)
}

// Get returns the meal with id if it belongs to the caller, as a list of at
// most one element.
func (s *Service) Get(ctx context.Context, token, id string) ([]models.Meal, error) {
	return s.meals.FindByID(ctx, token, id)
}

// Create records a meal dated now.
func (s *Service) Create(ctx context.Context, token string, req models.CreateMealRequest) (*models.Meal, error) {
	m := &models.Meal{
		ID:          s.newID(),
		UserID:      token,
		Name:        req.Name,
		Description: req.Description,
		Diet:        req.Diet != nil && *req.Diet,
		DateTime:    s.now().UTC(),
	}
	if err := s.meals.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("create meal: %w", err)
	}

	log.Printf("[API] Meal created: id=%s correlation_id=%s", m.ID, middleware.CorrelationIDFromContext(ctx))
	diet := m.Diet
	s.events.Emit(ctx, models.EventMealCreated, models.MealEventData{MealID: m.ID, UserID: token, Diet: &diet})
	return m, nil
}

// Update applies each non-nil field of req as its own single-column write.
// The writes are not atomic as a group, and a missing or foreign meal is not
// an error.
func (s *Service) Update(ctx context.Context, token, id string, req models.UpdateMealRequest) error {
	if req.Empty() {
		return nil
	}

	type change struct {
		column string
		value  any
	}
	var changes []change
	if req.Name != nil {
		changes = append(changes, change{"name", *req.Name})
	}
	if req.Description != nil {
		changes = append(changes, change{"description", *req.Description})
	}
	if req.Diet != nil {
		changes = append(changes, change{"diet", *req.Diet})
	}
	if req.DateTime != nil {
		changes = append(changes, change{"date_time", req.DateTime.UTC()})
	}
	fields := make([]string, 0, len(changes))
	var affected int64
	for _, ch := range changes {
		n, err := s.meals.UpdateColumn(ctx, token, id, ch.column, ch.value)
		if err != nil {
			return fmt.Errorf("update meal %s: %w", id, err)
		}
		affected += n
		fields = append(fields, ch.column)
	}

	log.Printf("[API] Meal updated: id=%s fields=%v rows=%d correlation_id=%s",
		id, fields, affected, middleware.CorrelationIDFromContext(ctx))
	if affected > 0 {
		s.events.Emit(ctx, models.EventMealUpdated, models.MealEventData{
			MealID: id,
			UserID: token,
			Diet:   req.Diet,
			Fields: fields,
		})
	}
	return nil
}

// Delete removes the caller's meal with id. Deleting a missing meal succeeds.
func (s *Service) Delete(ctx context.Context, token, id string) error {
	n, err := s.meals.Delete(ctx, token, id)
	if err != nil {
		return fmt.Errorf("delete meal %s: %w", id, err)
	}
	if n > 0 {
		s.events.Emit(ctx, models.EventMealDeleted, models.MealEventData{MealID: id, UserID: token})
	}
	return nil
}

// Summary computes the caller's meal totals and longest on-diet streak.
func (s *Service) Summary(ctx context.Context, token string) (*Summary, error) {
	total, err := s.meals.Count(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("summary: %w", err)
	}
	onDiet, err := s.meals.CountByDiet(ctx, token, true)
	if err != nil {
		return nil, fmt.Errorf("summary: %w", err)
	}
	offDiet, err := s.meals.CountByDiet(ctx, token, false)
	if err != nil {
		return nil, fmt.Errorf("summary: %w", err)
	}
	flags, err := s.meals.DietFlags(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("summary: %w", err)
	}

	return &Summary{
		TotalMeals:             Total{total},
		TotalMealsDietTrue:     Total{onDiet},
		TotalMealsDietFalse:    Total{offDiet},
		TotalMealsDietSequence: Total{LongestDietStreak(flags)},
	}, nil
}
