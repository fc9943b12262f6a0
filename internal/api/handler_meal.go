package api

import (
	"log"
	"net/http"

	"dailydiet/internal/meal"
	"dailydiet/pkg/middleware"
	"dailydiet/pkg/models"

	"github.com/gin-gonic/gin"
)

// MealHandler handles meal-related HTTP requests. Every route runs behind
// SessionRequired.
type MealHandler struct {
	Meals *meal.Service
}

// NewMealHandler creates a new MealHandler.
func NewMealHandler(meals *meal.Service) *MealHandler {
	return &MealHandler{Meals: meals}
}

type mealURI struct {
	ID string `uri:"id" binding:"required,uuid"`
}

type mealsResponse struct {
	Meals []models.Meal `json:"meals"`
}

// ListMeals godoc
// @Summary      List meals
// @Description  Returns the caller's meals, most recent first
// @Tags         meals
// @Produce      json
// @Success      200  {object}  mealsResponse
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /meals [get]
func (h *MealHandler) ListMeals(c *gin.Context) {
	meals, err := h.Meals.List(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		log.Printf("[API] Error listing meals: %v correlation_id=%s", err, middleware.GetCorrelationID(c))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch meals"})
		return
	}

	c.JSON(http.StatusOK, mealsResponse{Meals: meals})
}

// GetMeal godoc
// @Summary      Get a meal
// @Description  Returns the caller's meal with the given id as a list of zero or one element
// @Tags         meals
// @Produce      json
// @Param        id   path      string  true  "Meal ID (UUID)"
// @Success      200  {object}  mealsResponse
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /meals/{id} [get]
func (h *MealHandler) GetMeal(c *gin.Context) {
	var uri mealURI
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	meals, err := h.Meals.Get(c.Request.Context(), middleware.GetSessionID(c), uri.ID)
	if err != nil {
		log.Printf("[API] Error fetching meal: %v id=%s correlation_id=%s", err, uri.ID, middleware.GetCorrelationID(c))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch meal"})
		return
	}

	c.JSON(http.StatusOK, mealsResponse{Meals: meals})
}

// CreateMeal godoc
// @Summary      Log a meal
// @Description  Records a meal dated now and publishes a meal.created event
// @Tags         meals
// @Accept       json
// @Param        request  body  models.CreateMealRequest  true  "Create meal request"
// @Success      201
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /meals [post]
func (h *MealHandler) CreateMeal(c *gin.Context) {
	correlationID := middleware.GetCorrelationID(c)
	log.Printf("[API] CreateMeal correlation_id=%s", correlationID)

	var req models.CreateMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := h.Meals.Create(c.Request.Context(), middleware.GetSessionID(c), req); err != nil {
		log.Printf("[API] Error creating meal: %v correlation_id=%s", err, correlationID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create meal"})
		return
	}

	c.Status(http.StatusCreated)
}

// UpdateMeal godoc
// @Summary      Update a meal
// @Description  Applies each non-null field as its own update. Unknown or foreign ids are silently ignored.
// @Tags         meals
// @Accept       json
// @Param        id       path  string                    true  "Meal ID (UUID)"
// @Param        request  body  models.UpdateMealRequest  true  "Partial update"
// @Success      201
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /meals/{id} [put]
func (h *MealHandler) UpdateMeal(c *gin.Context) {
	correlationID := middleware.GetCorrelationID(c)

	var uri mealURI
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	log.Printf("[API] UpdateMeal id=%s correlation_id=%s", uri.ID, correlationID)

	var req models.UpdateMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Meals.Update(c.Request.Context(), middleware.GetSessionID(c), uri.ID, req); err != nil {
		log.Printf("[API] Error updating meal: %v correlation_id=%s", err, correlationID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update meal"})
		return
	}

	c.Status(http.StatusCreated)
}

// DeleteMeal godoc
// @Summary      Delete a meal
// @Description  Deletes the caller's meal. Deleting a missing meal also succeeds.
// @Tags         meals
// @Param        id   path  string  true  "Meal ID (UUID)"
// @Success      204
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /meals/{id} [delete]
func (h *MealHandler) DeleteMeal(c *gin.Context) {
	var uri mealURI
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Meals.Delete(c.Request.Context(), middleware.GetSessionID(c), uri.ID); err != nil {
		log.Printf("[API] Error deleting meal: %v correlation_id=%s", err, middleware.GetCorrelationID(c))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete meal"})
		return
	}

	c.Status(http.StatusNoContent)
}

// Summary godoc
// @Summary      Meal summary
// @Description  Totals by diet flag and the longest run of consecutive on-diet meals
// @Tags         meals
// @Produce      json
// @Success      200  {object}  meal.Summary
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /meals/summary [get]
func (h *MealHandler) Summary(c *gin.Context) {
	summary, err := h.Meals.Summary(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		log.Printf("[API] Error computing summary: %v correlation_id=%s", err, middleware.GetCorrelationID(c))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute summary"})
		return
	}

	c.JSON(http.StatusOK, summary)
}
